package database_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/slsmu/slsmu/internal/database"
	"github.com/slsmu/slsmu/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) database.Client {
	t.Helper()

	filename := filepath.Join(t.TempDir(), "slsmu.db")
	require.NoError(t, database.StormInit(filename, ""))

	db, err := database.StormOpen(filename, "")
	require.NoError(t, err)
	t.Cleanup(func() {
		db.Close()
		os.RemoveAll(filename)
	})
	return db
}

func TestAccounts(t *testing.T) {
	db := setup(t)

	_, err := db.FindAccount("test@example.com")
	assert.True(t, db.IsNotFound(err))

	account := model.NewAccount("test@example.com")
	account.Salt = "salt"
	account.Password = "hash"
	require.NoError(t, db.Save(account))
	assert.NotNil(t, account.CreatedAt)
	assert.NotNil(t, account.UpdatedAt)

	admin := model.NewAccount("admin@example.com")
	admin.Role = model.RoleAdmin
	require.NoError(t, db.Save(admin))

	found, err := db.FindAccount("test@example.com")
	require.NoError(t, err)
	assert.Equal(t, model.RoleUser, found.Role)
	assert.Equal(t, "salt", found.Salt)
	assert.Equal(t, "hash", found.Password)

	accounts, err := db.FindAccounts()
	require.NoError(t, err)
	assert.Len(t, accounts, 2)

	require.NoError(t, db.Delete(found))
	_, err = db.FindAccount("test@example.com")
	assert.True(t, db.IsNotFound(err))
	assert.False(t, db.IsNotFound(nil))
}

func TestContents(t *testing.T) {
	db := setup(t)

	post := &model.Content{OwnerID: "test@example.com", ContentType: "post", Title: "Test post"}
	private := &model.Content{OwnerID: "test@example.com", ContentType: "post", Title: "Private", Private: true}
	page := &model.Content{OwnerID: "other@example.com", ContentType: "page", Title: "About"}
	for _, c := range []*model.Content{post, private, page} {
		require.NoError(t, db.Save(c))
		assert.Regexp(t, `^[a-fA-F0-9]{8}-[a-fA-F0-9]{4}-4[a-fA-F0-9]{3}-[89aAbB][a-fA-F0-9]{3}-[a-fA-F0-9]{12}$`, c.ID)
	}

	found, err := db.FindContent(post.ID)
	require.NoError(t, err)
	assert.Equal(t, "Test post", found.Title)
	assert.Equal(t, "test@example.com", found.OwnerID)

	contents, err := db.FindContentsByType("post")
	require.NoError(t, err)
	assert.Len(t, contents, 2)

	contents, err = db.FindContentsByType("")
	require.NoError(t, err)
	assert.Len(t, contents, 3)

	contents, err = db.FindContentsByOwner("other@example.com", "")
	require.NoError(t, err)
	require.Len(t, contents, 1)
	assert.Equal(t, "About", contents[0].Title)

	contents, err = db.FindContentsByType("none")
	require.NoError(t, err)
	assert.Empty(t, contents)

	require.NoError(t, db.DeleteContentsByOwner("test@example.com"))
	_, err = db.FindContent(private.ID)
	assert.True(t, db.IsNotFound(err))

	require.NoError(t, db.DeleteContentsByOwner("nobody@example.com"))
}

func TestStormOpenUnknownCodec(t *testing.T) {
	_, err := database.StormOpen(filepath.Join(t.TempDir(), "slsmu.db"), "xml")
	assert.EqualError(t, err, `unsupported database codec "xml" (available: binc, cbor, json, msgpack)`)
}
