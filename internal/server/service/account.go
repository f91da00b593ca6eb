package service

import (
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/slsmu/slsmu/internal/credential"
	"github.com/slsmu/slsmu/internal/database"
	"github.com/slsmu/slsmu/internal/model"
	"github.com/slsmu/slsmu/internal/policy"
	"github.com/slsmu/slsmu/internal/server/serializer"
	"github.com/slsmu/slsmu/internal/server/session"
	"github.com/slsmu/slsmu/internal/sferror"
)

type (
	// AccountParams are used to login and to add an account.
	AccountParams struct {
		Type     string `json:"type"`
		Email    string `json:"email"`
		Password string `json:"password"`
		Site     string `json:"-"`
	}

	// An AccountService handles the account use-cases.
	AccountService struct {
		db         database.Client
		authorizer *session.Authorizer
	}
)

// NewAccount returns a new AccountService.
func NewAccount(db database.Client, authorizer *session.Authorizer) *AccountService {
	return &AccountService{
		db:         db,
		authorizer: authorizer,
	}
}

// Login authenticates an account and issues a token.
func (s *AccountService) Login(params AccountParams) (session.LoginResult, error) {
	if params.Email == "" || params.Password == "" {
		return session.LoginResult{}, sferror.Validation("No email or password provided.")
	}

	return s.authorizer.Login(params.Email, params.Password, params.Site)
}

// Add creates a new account with the user role.
func (s *AccountService) Add(caller *model.Caller, params AccountParams) (Render, error) {
	if err := authorize(caller, policy.Admin(caller), nil); err != nil {
		return nil, err
	}

	if params.Email == "" {
		return nil, sferror.Validation("No email provided.")
	}
	if params.Password == "" {
		return nil, sferror.Validation("No password provided.")
	}

	_, err := CreateAccount(s.db, params.Email, params.Password, model.RoleUser)
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"caller":  caller.ID,
		"account": params.Email,
	}).Info("account added")
	return M{"message": true}, nil
}

// Get returns the account of the given email.
func (s *AccountService) Get(caller *model.Caller, email string) (Render, error) {
	if err := authorize(caller, policy.Admin(caller), nil); err != nil {
		return nil, err
	}

	account, err := s.find(email)
	if err != nil {
		return nil, err
	}
	return serializer.Account(account), nil
}

// Me returns the account of the caller.
func (s *AccountService) Me(caller *model.Caller) (Render, error) {
	if err := authorize(caller, policy.Self(caller), nil); err != nil {
		return nil, err
	}

	account, err := s.find(caller.ID)
	if err != nil {
		return nil, err
	}
	return serializer.Account(account), nil
}

// List returns the projection of all the accounts.
func (s *AccountService) List(caller *model.Caller) (Render, error) {
	if err := authorize(caller, policy.Admin(caller), nil); err != nil {
		return nil, err
	}

	accounts, err := s.db.FindAccounts()
	if err != nil {
		return nil, errors.Wrap(err, "could not list accounts")
	}

	items := make([]map[string]any, 0, len(accounts))
	for _, account := range accounts {
		items = append(items, serializer.AccountProjection(account))
	}
	return M{"items": items, "count": len(items)}, nil
}

// Delete removes the account of the given email.
func (s *AccountService) Delete(caller *model.Caller, email string) (Render, error) {
	if err := authorize(caller, policy.Admin(caller), nil); err != nil {
		return nil, err
	}

	account, err := s.find(email)
	if err != nil {
		return nil, err
	}

	// Contents go first so a future account with the same email starts empty.
	if err = s.db.DeleteContentsByOwner(account.Email); err != nil {
		return nil, errors.Wrap(err, "could not delete account's contents")
	}

	if err = s.db.Delete(account); err != nil {
		return nil, errors.Wrap(err, "could not delete account")
	}

	logrus.WithFields(logrus.Fields{
		"caller":  caller.ID,
		"account": email,
	}).Info("account deleted")
	return M{"message": true}, nil
}

func (s *AccountService) find(email string) (*model.Account, error) {
	if email == "" {
		return nil, sferror.Validation("No email provided.")
	}

	account, err := s.db.FindAccount(email)
	if err != nil {
		if s.db.IsNotFound(err) {
			return nil, sferror.NotFound("No such account.")
		}
		return nil, errors.Wrap(err, "could not get account")
	}
	return account, nil
}

// CreateAccount hashes the password and persists a new account.
// It fails if the email is already registered.
func CreateAccount(db database.Client, email, password string, role model.Role) (*model.Account, error) {
	if _, err := model.ParseRole(string(role)); err != nil {
		return nil, sferror.Validation(err.Error())
	}

	// Check if the email is free to use.
	_, err := db.FindAccount(email)
	if err == nil {
		return nil, sferror.Validation("This email is already registered.")
	}
	if !db.IsNotFound(err) {
		return nil, errors.Wrap(err, "could not get access to database")
	}

	account := model.NewAccount(email)
	account.Role = role
	account.Salt, account.Password, err = credential.Hash(password)
	if err != nil {
		return nil, errors.Wrap(err, "could not store account password safe")
	}

	if err := db.Save(account); err != nil {
		return nil, errors.Wrap(err, "could not persist account")
	}
	return account, nil
}
