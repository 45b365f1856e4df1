package kvdb

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/meghashyamc/localdocs/logger"
	"github.com/stretchr/testify/require"
)

func newTestLogger() logger.Logger {
	opts := &slog.HandlerOptions{
		Level:     slog.LevelDebug,
		AddSource: true,
	}
	handler := slog.NewJSONHandler(os.Stderr, opts)
	return slog.New(handler)
}

func newTestDB(t *testing.T, assert *require.Assertions) (*BoltDB, string) {
	path := filepath.Join(t.TempDir(), "nested", "kv.db")
	db, err := New(newTestLogger(), path)
	assert.NoError(err, "could not create kv database")
	t.Cleanup(func() {
		assert.NoError(db.Close(), "could not close kv database")
	})
	return db, path
}

func TestSetGetDelete(t *testing.T) {
	assert := require.New(t)
	db, _ := newTestDB(t, assert)

	assert.NoError(db.Set(SessionsBucket, "key", "value"))

	value, err := db.Get(SessionsBucket, "key")
	assert.NoError(err)
	assert.Equal("value", value)

	assert.NoError(db.Set(SessionsBucket, "key", "updated"))
	value, err = db.Get(SessionsBucket, "key")
	assert.NoError(err)
	assert.Equal("updated", value)

	assert.NoError(db.Delete(SessionsBucket, "key"))
	_, err = db.Get(SessionsBucket, "key")
	assert.True(errors.Is(err, ErrNotFound))
}

func TestGetMissingKey(t *testing.T) {
	assert := require.New(t)
	db, _ := newTestDB(t, assert)

	_, err := db.Get(SessionsBucket, "missing")

	assert.True(errors.Is(err, ErrNotFound))
	assert.Equal("key not found in sessions: missing", err.Error())
}

func TestEmptyKeyIsRejected(t *testing.T) {
	assert := require.New(t)
	db, _ := newTestDB(t, assert)

	assert.True(errors.Is(db.Set(SessionsBucket, "", "value"), ErrInvalidKey))
	_, err := db.Get(SessionsBucket, "")
	assert.True(errors.Is(err, ErrInvalidKey))
	assert.True(errors.Is(db.Delete(SessionsBucket, ""), ErrInvalidKey))
}

func TestUnknownBucket(t *testing.T) {
	assert := require.New(t)
	db, _ := newTestDB(t, assert)

	assert.Error(db.Set("unknown", "key", "value"))
	_, err := db.Get("unknown", "key")
	assert.Error(err)
	assert.False(errors.Is(err, ErrNotFound))
}

func TestValuesSurviveReopen(t *testing.T) {
	assert := require.New(t)
	path := filepath.Join(t.TempDir(), "kv.db")

	db, err := New(newTestLogger(), path)
	assert.NoError(err)
	assert.NoError(db.Set(SessionsBucket, "key", "value"))
	assert.NoError(db.Close())

	db, err = New(newTestLogger(), path)
	assert.NoError(err)
	defer db.Close()

	value, err := db.Get(SessionsBucket, "key")
	assert.NoError(err)
	assert.Equal("value", value)
}
