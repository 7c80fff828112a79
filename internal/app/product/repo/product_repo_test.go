package repo

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	contracts "github.com/murkotick/product-live-catalog/internal/app/product/contracts"
	"github.com/murkotick/product-live-catalog/internal/app/product/domain"
	"github.com/murkotick/product-live-catalog/internal/pkg/clock"
	"github.com/murkotick/product-live-catalog/internal/pkg/docstore"
)

func newStore() *docstore.MemoryStore {
	return docstore.NewMemoryStore(docstore.NewULIDGenerator(clock.RealClock{}))
}

func nextUpdate(t *testing.T, f contracts.ProductFeed) contracts.ProductUpdate {
	t.Helper()
	select {
	case u, ok := <-f.Updates():
		require.True(t, ok, "feed closed")
		return u
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for update")
		return contracts.ProductUpdate{}
	}
}

// TestBuildRecord verifies the wire shape {id, name, price}.
func TestBuildRecord(t *testing.T) {
	rec := buildRecord(domain.Product{ID: "a", Name: "Pen", Price: 1.5})
	assert.Equal(t, docstore.Document{"id": "a", "name": "Pen", "price": 1.5}, rec)
}

func TestDecodeProduct(t *testing.T) {
	p, err := decodeProduct(docstore.Entry{Key: "a", Doc: docstore.Document{"id": "a", "name": "Pen", "price": 1.5}})
	require.NoError(t, err)
	assert.Equal(t, domain.Product{ID: "a", Name: "Pen", Price: 1.5}, p)

	// missing fields fall back to the key and zero values
	p, err = decodeProduct(docstore.Entry{Key: "k", Doc: docstore.Document{"name": "Cup"}})
	require.NoError(t, err)
	assert.Equal(t, domain.Product{ID: "k", Name: "Cup"}, p)

	p, err = decodeProduct(docstore.Entry{Key: "k", Doc: docstore.Document{"price": 3}})
	require.NoError(t, err)
	assert.Equal(t, float64(3), p.Price)

	_, err = decodeProduct(docstore.Entry{Key: "k", Doc: docstore.Document{"price": "cheap"}})
	assert.Error(t, err)
	_, err = decodeProduct(docstore.Entry{Key: "k", Doc: docstore.Document{"name": 7.0}})
	assert.Error(t, err)
}

func TestDecodeSnapshot_SkipsBadRecordsKeepsOrder(t *testing.T) {
	snap := &docstore.Snapshot{Collection: "products", Entries: []docstore.Entry{
		{Key: "1", Doc: docstore.Document{"id": "1", "name": "A", "price": 1.0}},
		{Key: "2", Doc: docstore.Document{"id": "2", "name": "B", "price": "bad"}},
		{Key: "3", Doc: docstore.Document{"id": "3", "name": "C", "price": 3.0}},
	}}
	got := decodeSnapshot(snap)
	require.Len(t, got, 2)
	assert.Equal(t, "A", got[0].Name)
	assert.Equal(t, "C", got[1].Name)
}

func TestSave_RejectsEmptyID(t *testing.T) {
	r := NewProductRepo(newStore(), "")
	assert.Equal(t, DefaultCollection, r.Collection())
	assert.ErrorIs(t, r.Save(context.Background(), domain.Product{Name: "Pen"}), domain.ErrEmptyProductID)
	assert.ErrorIs(t, r.Remove(context.Background(), ""), domain.ErrEmptyProductID)
}

func TestWatch_DeliversDecodedSnapshots(t *testing.T) {
	store := newStore()
	r := NewProductRepo(store, "products")
	ctx := context.Background()

	f, err := r.Watch(ctx)
	require.NoError(t, err)
	defer f.Close()
	assert.Empty(t, nextUpdate(t, f).Products)

	id, err := r.NextID(ctx)
	require.NoError(t, err)
	require.NoError(t, r.Save(ctx, domain.Product{ID: id, Name: "Book", Price: 12.99}))

	u := nextUpdate(t, f)
	require.NoError(t, u.Err)
	assert.Equal(t, []domain.Product{{ID: id, Name: "Book", Price: 12.99}}, u.Products)

	require.NoError(t, r.Remove(ctx, id))
	assert.Empty(t, nextUpdate(t, f).Products)
}

func TestWatch_CloseStopsFeed(t *testing.T) {
	r := NewProductRepo(newStore(), "products")

	f, err := r.Watch(context.Background())
	require.NoError(t, err)

	// close without draining the initial update
	require.NoError(t, f.Close())
	require.NoError(t, f.Close())
	for range f.Updates() {
	}
}
