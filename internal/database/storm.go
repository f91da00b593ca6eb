package database

import (
	"time"

	"github.com/asdine/storm/v3"
	"github.com/asdine/storm/v3/q"
	"github.com/gofrs/uuid"
	"github.com/pkg/errors"
	"github.com/slsmu/slsmu/internal/model"
	"github.com/slsmu/slsmu/pkg/stormcodec"
)

type strm struct {
	db *storm.DB
}

func open(database, codec string) (*storm.DB, error) {
	c, err := stormcodec.Lookup(codec)
	if err != nil {
		return nil, err
	}

	db, err := storm.Open(database, storm.Codec(c))
	return db, errors.Wrap(err, "could not get database connection")
}

// StormInit initializes Storm database.
func StormInit(database, codec string) error {
	db, err := open(database, codec)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.Init(&model.Account{}); err != nil {
		return errors.Wrap(err, "could not init account index")
	}

	err = db.Init(&model.Content{})
	return errors.Wrap(err, "could not init content index")
}

// StormReIndex reindex Storm database.
func StormReIndex(database, codec string) error {
	db, err := open(database, codec)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.ReIndex(&model.Account{}); err != nil {
		return errors.Wrap(err, "could not ReIndex accounts")
	}

	err = db.ReIndex(&model.Content{})
	return errors.Wrap(err, "could not ReIndex contents")
}

// StormOpen returns a new Storm database connection.
func StormOpen(database, codec string) (Client, error) {
	db, err := open(database, codec)
	if err != nil {
		return nil, err
	}

	return &strm{
		db: db,
	}, nil
}

// Save inserts or updates the entry in database with the given model.
func (c *strm) Save(m model.Model) error {
	t := time.Now().UTC()
	m.SetUpdatedAt(t)

	if m.GetID() == "" {
		m.SetID(uuid.Must(uuid.NewV4()).String())
	}
	if m.GetCreatedAt() == nil {
		m.SetCreatedAt(t)
	}

	return errors.Wrap(c.db.Save(m), "could not save the model")
}

// Delete deletes the entry in database with the given model.
func (c *strm) Delete(m model.Model) error {
	return errors.Wrap(c.db.DeleteStruct(m), "could not delete the model")
}

// Close the database.
func (c *strm) Close() error {
	return c.db.Close()
}

// IsNotFound returns true if err is a not found error.
func (c *strm) IsNotFound(err error) bool {
	return errors.Cause(err) == storm.ErrNotFound
}

// FindAccount returns the account for the given email.
func (c *strm) FindAccount(email string) (*model.Account, error) {
	var account model.Account
	if err := c.db.One("Email", email, &account); err != nil {
		return nil, errors.Wrap(err, "find account by email")
	}
	return &account, nil
}

// FindAccounts scans all the accounts.
func (c *strm) FindAccounts() ([]*model.Account, error) {
	accounts := make([]*model.Account, 0)
	err := c.db.All(&accounts)
	if err != nil && !c.IsNotFound(err) {
		return nil, errors.Wrap(err, "could not find accounts")
	}
	return accounts, nil
}

// FindContent returns the content for the given id (UUID).
func (c *strm) FindContent(id string) (*model.Content, error) {
	var content model.Content
	if err := c.db.One("ID", id, &content); err != nil {
		return nil, errors.Wrap(err, "could not find content")
	}
	return &content, nil
}

// FindContentsByType scans all the contents of the given type.
func (c *strm) FindContentsByType(contentType string) ([]*model.Content, error) {
	var query []q.Matcher
	if contentType != "" {
		query = append(query, q.Eq("ContentType", contentType))
	}
	return c.findContents(query...)
}

// FindContentsByOwner returns all the contents of the given owner and type.
func (c *strm) FindContentsByOwner(ownerID, contentType string) ([]*model.Content, error) {
	query := []q.Matcher{q.Eq("OwnerID", ownerID)}
	if contentType != "" {
		query = append(query, q.Eq("ContentType", contentType))
	}
	return c.findContents(query...)
}

func (c *strm) findContents(query ...q.Matcher) ([]*model.Content, error) {
	contents := make([]*model.Content, 0)
	err := c.db.Select(query...).OrderBy("CreatedAt").Find(&contents)
	if err != nil && !c.IsNotFound(err) {
		return nil, errors.Wrap(err, "could not find contents")
	}
	return contents, nil
}

// DeleteContentsByOwner deletes all the contents of the given owner.
func (c *strm) DeleteContentsByOwner(ownerID string) error {
	err := c.db.Select(q.Eq("OwnerID", ownerID)).Delete(&model.Content{})
	if err != nil && !c.IsNotFound(err) {
		return errors.Wrap(err, "could not delete contents")
	}
	return nil
}
