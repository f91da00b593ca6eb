package session

import (
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/slsmu/slsmu/internal/credential"
	"github.com/slsmu/slsmu/internal/database"
	"github.com/slsmu/slsmu/internal/model"
)

type (
	// A Request holds the credentials presented by a request.
	Request struct {
		// Token is the bearer token, empty for guests.
		Token string
		// Site is the site identification tag.
		Site string
	}

	// A Result is the outcome of an authorization.
	// Caller is nil when Auth is false (guest).
	Result struct {
		Auth   bool          `json:"auth"`
		Caller *model.Caller `json:"-"`
	}

	// A LoginResult is the outcome of a login.
	LoginResult struct {
		Auth  bool   `json:"auth"`
		Token string `json:"token,omitempty"`
	}

	// An Authorizer resolves the caller of requests.
	Authorizer struct {
		db     database.Client
		tokens TokenService
	}
)

// NewAuthorizer returns a new Authorizer.
func NewAuthorizer(db database.Client, tokens TokenService) *Authorizer {
	return &Authorizer{
		db:     db,
		tokens: tokens,
	}
}

// Login verifies the given credentials and issues a token.
// The returned error is only set on store or cryptographic failures.
func (a *Authorizer) Login(email, password, site string) (LoginResult, error) {
	account, err := a.db.FindAccount(email)
	if err != nil {
		if a.db.IsNotFound(err) {
			return LoginResult{}, nil
		}
		return LoginResult{}, errors.Wrap(err, "could not get account")
	}

	ok, err := credential.Verify(password, account.Salt, account.Password)
	if err != nil {
		return LoginResult{}, errors.Wrap(err, "could not validate password")
	}
	if !ok {
		return LoginResult{}, nil
	}

	token, err := a.tokens.Issue(&model.Caller{
		ID:   account.Email,
		Role: account.Role,
		Site: site,
	})
	if err != nil {
		return LoginResult{}, err
	}

	return LoginResult{Auth: true, Token: token}, nil
}

// Authorize resolves the caller of the given request.
// A request without token is a guest and yields an unauthorized result, not an error.
//
// The account is always fetched again so a deleted account or a role change
// takes effect before the token expires.
func (a *Authorizer) Authorize(r Request) (Result, error) {
	if r.Token == "" {
		return Result{}, nil
	}

	claims, ok := a.tokens.Validate(r.Token)
	if !ok {
		logrus.WithField("site", r.Site).Debug("invalid token")
		return Result{}, nil
	}

	if claims.Site != "" && r.Site != "" && claims.Site != r.Site {
		logrus.WithFields(logrus.Fields{
			"site":       r.Site,
			"token_site": claims.Site,
		}).Debug("token issued for another site")
		return Result{}, nil
	}

	account, err := a.db.FindAccount(claims.ID)
	if err != nil {
		if a.db.IsNotFound(err) {
			logrus.WithField("account", claims.ID).Debug("no such account for given token")
			return Result{}, nil
		}
		return Result{}, errors.Wrap(err, "could not get access to database")
	}

	role, err := model.ParseRole(string(account.Role))
	if err != nil {
		return Result{}, errors.Wrapf(err, "account %s", account.Email)
	}

	return Result{
		Auth: true,
		Caller: &model.Caller{
			ID:   account.Email,
			Role: role,
			Site: r.Site,
		},
	}, nil
}
