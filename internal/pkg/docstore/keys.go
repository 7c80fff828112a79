package docstore

import (
	"crypto/rand"
	"fmt"
	"sync"

	"github.com/oklog/ulid/v2"

	"github.com/murkotick/product-live-catalog/internal/pkg/clock"
)

// KeyGenerator produces document keys.
type KeyGenerator interface {
	NewKey() (string, error)
}

// ULIDGenerator issues ULID keys. Keys from one generator strictly increase,
// also within the same millisecond, so key order is creation order.
type ULIDGenerator struct {
	mu      sync.Mutex
	clock   clock.Clock
	entropy *ulid.MonotonicEntropy
}

func NewULIDGenerator(clk clock.Clock) *ULIDGenerator {
	return &ULIDGenerator{
		clock:   clk,
		entropy: ulid.Monotonic(rand.Reader, 0),
	}
}

func (g *ULIDGenerator) NewKey() (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	id, err := ulid.New(ulid.Timestamp(g.clock.Now()), g.entropy)
	if err != nil {
		return "", fmt.Errorf("docstore: generate key: %w", err)
	}
	return id.String(), nil
}
