package paging

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmcdole/cineverse/internal/domain"
	"github.com/mmcdole/cineverse/internal/live"
	"github.com/mmcdole/cineverse/internal/testutil"
)

func itemCount(n int) func(Snapshot) bool {
	return func(s Snapshot) bool { return len(s.Items) == n }
}

func TestFeedPrefetch(t *testing.T) {
	src := live.NewSubjectWith(testutil.Numbered(25))
	defer src.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	feed := newPager(src).Open(ctx)
	updates := feed.Updates().Subscribe(ctx)

	snap := testutil.Recv(t, updates)
	assert.Len(t, snap.Items, 10)
	assert.Equal(t, 1, snap.Generation)
	assert.True(t, snap.HasMore())

	feed.Access(6)
	testutil.AssertQuiet(t, updates, 100*time.Millisecond)

	feed.Access(7)
	snap = testutil.RecvUntil(t, updates, itemCount(20))
	assert.Equal(t, "m19", snap.Items[19].ID)
	require.Len(t, snap.Pages, 2)
	assert.Equal(t, 1, snap.Pages[1].Key)

	feed.Access(18)
	snap = testutil.RecvUntil(t, updates, itemCount(25))
	assert.False(t, snap.HasMore())

	feed.Access(24)
	testutil.AssertQuiet(t, updates, 100*time.Millisecond)
}

func TestFeedReanchorsOnUpstreamChange(t *testing.T) {
	src := live.NewSubjectWith(testutil.Numbered(25))
	defer src.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	feed := newPager(src).Open(ctx)
	updates := feed.Updates().Subscribe(ctx)
	testutil.Recv(t, updates)

	feed.Access(8)
	testutil.RecvUntil(t, updates, itemCount(20))

	// Same anchor, longer list: keeps both pages, no extra prefetch.
	src.Set(testutil.Numbered(40))
	snap := testutil.RecvUntil(t, updates, func(s Snapshot) bool { return s.Generation == 2 })
	assert.Len(t, snap.Items, 20)
	assert.True(t, snap.HasMore())

	// Shrinking below the loaded window clamps to what exists.
	src.Set(testutil.Numbered(12))
	snap = testutil.RecvUntil(t, updates, func(s Snapshot) bool { return s.Generation == 3 })
	assert.Len(t, snap.Items, 12)
	assert.False(t, snap.HasMore())

	src.Set(nil)
	snap = testutil.RecvUntil(t, updates, func(s Snapshot) bool { return s.Generation == 4 })
	assert.Empty(t, snap.Items)
	require.Len(t, snap.Pages, 1)
	assert.Nil(t, snap.Pages[0].NextKey)
}

func TestFeedReflectsMembershipChange(t *testing.T) {
	list := testutil.Numbered(15)
	src := live.NewSubjectWith(list)
	defer src.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	feed := newPager(src).Open(ctx)
	updates := feed.Updates().Subscribe(ctx)
	testutil.Recv(t, updates)

	favorite := make([]domain.Movie, len(list))
	copy(favorite, list)
	favorite[3].IsFavorite = true
	src.Set(favorite)

	snap := testutil.RecvUntil(t, updates, func(s Snapshot) bool { return s.Generation == 2 })
	assert.True(t, snap.Items[3].IsFavorite)
	assert.Len(t, snap.Items, 10)
}

func TestFeedStopsOnCancel(t *testing.T) {
	src := live.NewSubjectWith(testutil.Numbered(3))
	defer src.Close()

	ctx, cancel := context.WithCancel(context.Background())
	feed := newPager(src).Open(ctx)

	other, cancelOther := context.WithCancel(context.Background())
	defer cancelOther()
	updates := feed.Updates().Subscribe(other)
	testutil.Recv(t, updates)

	cancel()
	select {
	case <-feed.Done():
	case <-time.After(testutil.Timeout):
		t.Fatal("feed did not stop")
	}
	testutil.AssertClosed(t, updates)

	snap, ok := feed.Snapshot()
	assert.True(t, ok)
	assert.Len(t, snap.Items, 3)
	assert.Eventually(t, func() bool { return src.Subscribers() == 0 }, testutil.Timeout, 10*time.Millisecond)
	feed.Access(1)
}
