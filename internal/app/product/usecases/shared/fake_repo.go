package shared

import (
	"context"
	"fmt"
	"sync"

	contracts "github.com/murkotick/product-live-catalog/internal/app/product/contracts"
	"github.com/murkotick/product-live-catalog/internal/app/product/domain"
)

// RecordingRepo is an in-process ProductRepo that records every call.
// Interactor and screen tests use it to count writes and deletes.
type RecordingRepo struct {
	mu      sync.Mutex
	seq     int
	Saved   []domain.Product
	Removed []string
	IDs     []string

	NextIDErr error
	SaveErr   error
	RemoveErr error
}

var _ contracts.ProductRepo = (*RecordingRepo)(nil)

func (r *RecordingRepo) NextID(context.Context) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.NextIDErr != nil {
		return "", r.NextIDErr
	}
	r.seq++
	id := fmt.Sprintf("id-%03d", r.seq)
	r.IDs = append(r.IDs, id)
	return id, nil
}

func (r *RecordingRepo) Save(_ context.Context, p domain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.SaveErr != nil {
		return r.SaveErr
	}
	r.Saved = append(r.Saved, p)
	return nil
}

func (r *RecordingRepo) Remove(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.RemoveErr != nil {
		return r.RemoveErr
	}
	r.Removed = append(r.Removed, id)
	return nil
}

// Watch is not used by interactors.
func (r *RecordingRepo) Watch(context.Context) (contracts.ProductFeed, error) {
	return nil, fmt.Errorf("recording repo: watch not supported")
}
