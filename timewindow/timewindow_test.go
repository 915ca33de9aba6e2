package timewindow_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/arnegrid/simidx/storage"
	"github.com/arnegrid/simidx/timewindow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func keyFunc(tb int64) string { return fmt.Sprintf("k:%d", tb) }

// testClock pins the MemoryAdapter's clock at timestamp 120, so TTL
// deadlines derived from the timestamps below are still in the future.
func testClock() int64 { return 120 }

func TestSetInsertAndMembers(t *testing.T) {
	ctx := context.Background()
	adapter := storage.NewMemoryAdapter(testClock)
	s := timewindow.New(adapter, 60, 1, keyFunc)

	n, err := s.Insert(ctx, 120, "a", "b")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	members, err := s.Members(ctx, 120)
	require.NoError(t, err)
	assert.Equal(t, 1, members["a"])
	assert.Equal(t, 1, members["b"])
}

func TestSetMembersAccumulateAcrossWindow(t *testing.T) {
	ctx := context.Background()
	adapter := storage.NewMemoryAdapter(testClock)
	s := timewindow.New(adapter, 60, 1, keyFunc)

	_, err := s.Insert(ctx, 60, "a") // tb=1
	require.NoError(t, err)
	_, err = s.Insert(ctx, 120, "a") // tb=2
	require.NoError(t, err)

	members, err := s.Members(ctx, 120) // window [1,2]
	require.NoError(t, err)
	assert.Equal(t, 2, members["a"])
}

func TestSetSlidingExpiration(t *testing.T) {
	ctx := context.Background()
	now := int64(0)
	adapter := storage.NewMemoryAdapter(func() int64 { return now })
	s := timewindow.New(adapter, 60, 1, keyFunc)

	_, err := s.Insert(ctx, 0, "a") // tb=0, expires at (0+1+1)*60=120
	require.NoError(t, err)

	now = 130 // past the deadline
	members, err := s.Members(ctx, 180) // current_tb=3, window [2,3]
	require.NoError(t, err)
	assert.Empty(t, members)
}
