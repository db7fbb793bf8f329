package services

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryPreferenceStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryPreferenceStore()

	values, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, values)

	require.NoError(t, store.Save(ctx, map[string]string{PreferenceSortMethod: "highest"}))
	require.NoError(t, store.Save(ctx, map[string]string{PreferenceTimeframe: "W"}))

	values, err = store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{PreferenceSortMethod: "highest", PreferenceTimeframe: "W"}, values)

	values[PreferenceSortMethod] = "mutated"
	again, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "highest", again[PreferenceSortMethod])
}

func TestRedisPreferenceStore(t *testing.T) {
	url := os.Getenv("TEST_REDIS_URL")
	if url == "" {
		t.Skip("TEST_REDIS_URL not set")
	}
	opt, err := redis.ParseURL(url)
	require.NoError(t, err)
	rc := redis.NewClient(opt)
	defer rc.Close()

	ctx := context.Background()
	prefix := "tallybook_test_" + uuid.NewString() + ":"
	store := NewRedisPreferenceStore(rc, prefix)
	defer rc.Del(ctx, prefix+"preferences")

	require.NoError(t, store.Save(ctx, map[string]string{PreferenceCompactMode: "true", PreferenceVisibility: "archived"}))

	values, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "true", values[PreferenceCompactMode])
	assert.Equal(t, "archived", values[PreferenceVisibility])
}
