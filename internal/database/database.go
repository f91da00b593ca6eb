package database

import (
	"github.com/slsmu/slsmu/internal/model"
)

type (
	// A Client can interacts with the database.
	// Every method is an atomic per-key operation or a full scan.
	Client interface {
		// Save inserts or updates the entry in database with the given model.
		Save(m model.Model) error
		// Delete deletes the entry in database with the given model.
		Delete(m model.Model) error
		// Close the database.
		Close() error
		// IsNotFound returns true if err is a not found error.
		IsNotFound(err error) bool

		AccountInteraction
		ContentInteraction
	}

	// An AccountInteraction defines all the methods used to interact with an account record.
	AccountInteraction interface {
		// FindAccount returns the account for the given email.
		FindAccount(email string) (*model.Account, error)
		// FindAccounts scans all the accounts.
		FindAccounts() ([]*model.Account, error)
	}

	// A ContentInteraction defines all the methods used to interact with content records.
	ContentInteraction interface {
		// FindContent returns the content for the given id (UUID).
		FindContent(id string) (*model.Content, error)
		// FindContentsByType scans all the contents of the given type.
		// An empty contentType matches all the contents.
		FindContentsByType(contentType string) ([]*model.Content, error)
		// FindContentsByOwner returns all the contents of the given owner and type.
		// An empty contentType matches all the contents.
		FindContentsByOwner(ownerID, contentType string) ([]*model.Content, error)
		// DeleteContentsByOwner deletes all the contents of the given owner.
		DeleteContentsByOwner(ownerID string) error
	}
)
