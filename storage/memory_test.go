package storage_test

import (
	"context"
	"testing"

	"github.com/arnegrid/simidx/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryAdapterHIncrBy(t *testing.T) {
	ctx := context.Background()
	now := int64(1000)
	a := storage.NewMemoryAdapter(func() int64 { return now })

	v, err := a.HIncrBy(ctx, "h1", "f1", 3)
	require.NoError(t, err)
	assert.Equal(t, int64(3), v)

	v, err = a.HIncrBy(ctx, "h1", "f1", 4)
	require.NoError(t, err)
	assert.Equal(t, int64(7), v)

	fields, err := a.HGetAll(ctx, "h1")
	require.NoError(t, err)
	require.Len(t, fields, 1)
	assert.Equal(t, "f1", fields[0].Field)
	assert.Equal(t, int64(7), fields[0].Value)
}

func TestMemoryAdapterHGetAllMissing(t *testing.T) {
	ctx := context.Background()
	a := storage.NewMemoryAdapter(nil)

	fields, err := a.HGetAll(ctx, "nope")
	require.NoError(t, err)
	assert.Empty(t, fields)
}

func TestMemoryAdapterSAdd(t *testing.T) {
	ctx := context.Background()
	a := storage.NewMemoryAdapter(nil)

	n, err := a.SAdd(ctx, "s1", "a", "b")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = a.SAdd(ctx, "s1", "b", "c")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	members, err := a.SMembers(ctx, "s1")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a", "b", "c"}, members)
}

func TestMemoryAdapterExpireAt(t *testing.T) {
	ctx := context.Background()
	now := int64(1000)
	a := storage.NewMemoryAdapter(func() int64 { return now })

	_, err := a.SAdd(ctx, "s1", "a")
	require.NoError(t, err)
	require.NoError(t, a.ExpireAt(ctx, "s1", 1010))

	members, err := a.SMembers(ctx, "s1")
	require.NoError(t, err)
	assert.Len(t, members, 1)

	now = 1010
	members, err = a.SMembers(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, members)
}
