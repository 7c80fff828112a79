package committer

import (
	"context"
	"errors"
	"time"

	"cloud.google.com/go/spanner"
)

// ErrNilClient is returned when the adapter was built without a Spanner client.
var ErrNilClient = errors.New("committer: spanner client is nil")

// Adapter applies plans atomically in a single read-write transaction.
type Adapter struct {
	client *spanner.Client
}

func NewAdapter(client *spanner.Client) *Adapter {
	return &Adapter{client: client}
}

// Apply commits the plan and returns the commit timestamp.
// An empty plan is a no-op and returns the zero time.
func (a *Adapter) Apply(ctx context.Context, plan *Plan) (time.Time, error) {
	if plan == nil || plan.IsEmpty() {
		return time.Time{}, nil
	}

	if a.client == nil {
		return time.Time{}, ErrNilClient
	}

	return a.client.ReadWriteTransaction(ctx, func(ctx context.Context, tx *spanner.ReadWriteTransaction) error {
		return tx.BufferWrite(plan.Mutations())
	})
}
