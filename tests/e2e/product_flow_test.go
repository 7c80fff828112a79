package e2e

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/murkotick/product-live-catalog/internal/app/product/repo"
	"github.com/murkotick/product-live-catalog/internal/app/product/screen"
	"github.com/murkotick/product-live-catalog/internal/pkg/clock"
	"github.com/murkotick/product-live-catalog/internal/pkg/docstore"
	"github.com/murkotick/product-live-catalog/internal/pkg/docstore/spannerstore"
)

type notes struct {
	mu  sync.Mutex
	got []string
}

func (n *notes) Notify(x screen.Notification) {
	n.mu.Lock()
	n.got = append(n.got, x.Message)
	n.mu.Unlock()
}

// newScreen opens a screen on a fresh collection so tests do not see each other's records.
func newScreen(t *testing.T) (*screen.Screen, string) {
	t.Helper()
	collection := "products-" + uuid.NewString()
	s := screen.New(repo.NewProductRepo(store, collection), &notes{})
	require.NoError(t, s.Activate(context.Background()))
	t.Cleanup(func() { s.Close() })
	return s, collection
}

func waitForLines(t *testing.T, s *screen.Screen, want ...string) {
	t.Helper()
	require.Eventually(t, func() bool {
		rows := s.View().Rows
		if len(rows) != len(want) {
			return false
		}
		for i, r := range rows {
			if r.Line != want[i] {
				return false
			}
		}
		return true
	}, 10*time.Second, 50*time.Millisecond, "want %v", want)
}

func TestProductLifecycleFlow(t *testing.T) {
	requireEmulator(t)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	s, collection := newScreen(t)
	waitForLines(t, s)

	s.SetName("Book")
	s.SetPrice("12.99")
	require.Equal(t, screen.MsgAdded, s.AddProduct(ctx).Message)
	waitForLines(t, s, "Book: $12.99")

	id := s.Products()[0].ID
	doc := mustFetchDocument(ctx, t, spClient, collection, id)
	assert.Equal(t, map[string]any{"id": id, "name": "Book", "price": 12.99}, doc)

	s.SetPrice("15")
	require.Equal(t, screen.MsgUpdated, s.UpdateProduct(ctx).Message)
	waitForLines(t, s, "Book: $15.0")
	assert.Equal(t, 15.0, mustFetchDocument(ctx, t, spClient, collection, id)["price"])

	require.Equal(t, screen.MsgDeleted, s.DeleteProduct(ctx).Message)
	waitForLines(t, s)
	assert.False(t, documentExists(ctx, t, spClient, collection, id))
}

func TestListFollowsCreationOrder(t *testing.T) {
	requireEmulator(t)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	s, _ := newScreen(t)
	for _, name := range []string{"Pen", "Cup", "Lamp"} {
		s.SetName(name)
		s.SetPrice("1")
		require.Equal(t, screen.MsgAdded, s.AddProduct(ctx).Message)
	}
	waitForLines(t, s, "Pen: $1.0", "Cup: $1.0", "Lamp: $1.0")
}

func TestExternalWriteReachesSubscriber(t *testing.T) {
	requireEmulator(t)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	s, collection := newScreen(t)
	waitForLines(t, s)

	// a second store on the same database stands in for another process;
	// its writes reach the screen through polling only
	other := spannerstore.New(spClient, docstore.NewULIDGenerator(clock.RealClock{}), time.Second)
	defer other.Close()
	id, err := other.GenerateKey(ctx, collection)
	require.NoError(t, err)

	s.SetName("Mug")
	s.SetPrice("abc")
	assert.Equal(t, screen.MsgInvalidInput, s.AddProduct(ctx).Message)

	require.NoError(t, other.Write(ctx, collection, id, docstore.Document{"id": id, "name": "Mug", "price": 7.5}))
	waitForLines(t, s, "Mug: $7.5")
}
