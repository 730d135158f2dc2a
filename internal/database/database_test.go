package database

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *BoltDB {
	t.Helper()
	db, err := NewBolt(filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestStoreAndGetPayload(t *testing.T) {
	db := openTestDB(t)

	_, found, err := db.GetPayload("missing", time.Minute)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, db.StorePayload("key", []byte(`{"id":42}`)))

	body, found, err := db.GetPayload("key", time.Minute)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, []byte(`{"id":42}`), body)
}

func TestGetPayloadExpiry(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, db.StorePayload("key", []byte("payload")))
	time.Sleep(20 * time.Millisecond)

	_, found, err := db.GetPayload("key", 10*time.Millisecond)
	require.NoError(t, err)
	assert.False(t, found, "stale entry must not be served")

	// Stale entries are removed, not just hidden
	_, found, err = db.GetPayload("key", 0)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestGetPayloadNoTTL(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, db.StorePayload("key", []byte("payload")))
	time.Sleep(20 * time.Millisecond)

	// A zero maxAge disables the freshness check
	_, found, err := db.GetPayload("key", 0)
	require.NoError(t, err)
	assert.True(t, found)
}

func TestDeletePayload(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, db.StorePayload("key", []byte("payload")))
	require.NoError(t, db.DeletePayload("key"))

	_, found, err := db.GetPayload("key", 0)
	require.NoError(t, err)
	assert.False(t, found)
}
