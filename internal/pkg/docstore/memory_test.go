package docstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/murkotick/product-live-catalog/internal/pkg/clock"
)

func newTestStore() *MemoryStore {
	return NewMemoryStore(NewULIDGenerator(clock.NewFake(time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC))))
}

func nextSnapshot(t *testing.T, sub Subscription) *Snapshot {
	t.Helper()
	select {
	case ev, ok := <-sub.Events():
		require.True(t, ok, "subscription closed")
		require.NoError(t, ev.Err)
		require.NotNil(t, ev.Snapshot)
		return ev.Snapshot
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for snapshot")
		return nil
	}
}

func TestSubscribe_DeliversInitialSnapshot(t *testing.T) {
	s := newTestStore()
	ctx := context.Background()
	require.NoError(t, s.Write(ctx, "products", "a", Document{"id": "a", "name": "Pen", "price": 1.5}))

	sub, err := s.Subscribe(ctx, "products")
	require.NoError(t, err)
	defer sub.Close()

	snap := nextSnapshot(t, sub)
	assert.Equal(t, "products", snap.Collection)
	require.Len(t, snap.Entries, 1)
	assert.Equal(t, "a", snap.Entries[0].Key)
	assert.Equal(t, "Pen", snap.Entries[0].Doc["name"])
}

func TestSubscribe_PushesOnEveryChange(t *testing.T) {
	s := newTestStore()
	ctx := context.Background()

	sub, err := s.Subscribe(ctx, "products")
	require.NoError(t, err)
	defer sub.Close()
	assert.Empty(t, nextSnapshot(t, sub).Entries)

	require.NoError(t, s.Write(ctx, "products", "b", Document{"name": "Book"}))
	assert.Len(t, nextSnapshot(t, sub).Entries, 1)

	require.NoError(t, s.Delete(ctx, "products", "b"))
	assert.Empty(t, nextSnapshot(t, sub).Entries)
}

func TestSubscribe_IgnoresOtherCollections(t *testing.T) {
	s := newTestStore()
	ctx := context.Background()

	sub, err := s.Subscribe(ctx, "products")
	require.NoError(t, err)
	defer sub.Close()
	nextSnapshot(t, sub)

	require.NoError(t, s.Write(ctx, "orders", "o1", Document{"total": 3.0}))

	select {
	case ev := <-sub.Events():
		t.Fatalf("unexpected event %+v", ev)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestSnapshot_OrderedByKey(t *testing.T) {
	s := newTestStore()
	ctx := context.Background()

	var keys []string
	for i := 0; i < 5; i++ {
		k, err := s.GenerateKey(ctx, "products")
		require.NoError(t, err)
		keys = append(keys, k)
	}
	// write in reverse to prove ordering does not follow write order
	for i := len(keys) - 1; i >= 0; i-- {
		require.NoError(t, s.Write(ctx, "products", keys[i], Document{"n": float64(i)}))
	}

	sub, err := s.Subscribe(ctx, "products")
	require.NoError(t, err)
	defer sub.Close()

	snap := nextSnapshot(t, sub)
	require.Len(t, snap.Entries, len(keys))
	for i, e := range snap.Entries {
		assert.Equal(t, keys[i], e.Key)
	}
}

func TestSubscribe_CoalescesToLatest(t *testing.T) {
	s := newTestStore()
	ctx := context.Background()

	sub, err := s.Subscribe(ctx, "products")
	require.NoError(t, err)
	defer sub.Close()

	for i := 0; i < 10; i++ {
		require.NoError(t, s.Write(ctx, "products", "k", Document{"n": float64(i)}))
	}

	snap := nextSnapshot(t, sub)
	require.Len(t, snap.Entries, 1)
	assert.Equal(t, float64(9), snap.Entries[0].Doc["n"])
}

func TestSubscribe_SnapshotsAreIsolatedCopies(t *testing.T) {
	s := newTestStore()
	ctx := context.Background()
	doc := Document{"name": "Pen"}
	require.NoError(t, s.Write(ctx, "products", "a", doc))
	doc["name"] = "mutated"

	sub, err := s.Subscribe(ctx, "products")
	require.NoError(t, err)
	defer sub.Close()

	snap := nextSnapshot(t, sub)
	assert.Equal(t, "Pen", snap.Entries[0].Doc["name"])
}

func TestSubscribe_ContextCancelClosesFeed(t *testing.T) {
	s := newTestStore()
	ctx, cancel := context.WithCancel(context.Background())

	sub, err := s.Subscribe(ctx, "products")
	require.NoError(t, err)
	nextSnapshot(t, sub)

	cancel()
	select {
	case _, ok := <-sub.Events():
		assert.False(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("feed not closed after cancel")
	}

	require.Eventually(t, func() bool {
		s.mu.Lock()
		defer s.mu.Unlock()
		return len(s.subs) == 0
	}, time.Second, 10*time.Millisecond)
}

func TestClose_EndsSubscriptionsAndRejectsWrites(t *testing.T) {
	s := newTestStore()
	ctx := context.Background()

	sub, err := s.Subscribe(ctx, "products")
	require.NoError(t, err)
	nextSnapshot(t, sub)

	require.NoError(t, s.Close())
	_, ok := <-sub.Events()
	assert.False(t, ok)

	err = s.Write(ctx, "products", "a", Document{})
	assert.True(t, errors.Is(err, ErrClosed))
	_, err = s.Subscribe(ctx, "products")
	assert.ErrorIs(t, err, ErrClosed)
}

func TestWrite_Validation(t *testing.T) {
	s := newTestStore()
	ctx := context.Background()

	assert.ErrorIs(t, s.Write(ctx, "", "a", Document{}), ErrEmptyCollection)
	assert.ErrorIs(t, s.Write(ctx, "products", "", Document{}), ErrEmptyKey)
	assert.ErrorIs(t, s.Write(ctx, "products", "a", nil), ErrNilDocument)
	assert.ErrorIs(t, s.Delete(ctx, "products", ""), ErrEmptyKey)
	_, err := s.GenerateKey(ctx, "")
	assert.ErrorIs(t, err, ErrEmptyCollection)
}

func TestULIDGenerator_StrictlyIncreasingWithinMillisecond(t *testing.T) {
	g := NewULIDGenerator(clock.NewFake(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)))

	seen := make(map[string]bool)
	prev := ""
	for i := 0; i < 1000; i++ {
		k, err := g.NewKey()
		require.NoError(t, err)
		require.False(t, seen[k], "duplicate key %s", k)
		seen[k] = true
		require.Greater(t, k, prev)
		prev = k
	}
}

func TestNewFromProvider(t *testing.T) {
	ctx := context.Background()
	mem := newTestStore()
	constructors := map[string]Constructor{
		ProviderMemory: func(context.Context) (Store, error) { return mem, nil },
	}

	got, err := NewFromProvider(ctx, ProviderMemory, constructors)
	require.NoError(t, err)
	assert.Same(t, mem, got)

	_, err = NewFromProvider(ctx, "dynamodb", constructors)
	assert.ErrorContains(t, err, "unsupported store provider")
}
