package contracts

import (
	"context"

	"github.com/murkotick/product-live-catalog/internal/app/product/domain"
)

// ProductRepo is the product-typed view of the remote store.
type ProductRepo interface {
	// Watch opens a live feed of the whole product collection.
	Watch(ctx context.Context) (ProductFeed, error)

	// NextID asks the store for a fresh product id.
	NextID(ctx context.Context) (string, error)

	// Save writes p at p.ID, replacing any previous record.
	Save(ctx context.Context, p domain.Product) error

	// Remove deletes the record with the given id.
	Remove(ctx context.Context, id string) error
}

// ProductFeed delivers decoded snapshots until closed.
type ProductFeed interface {
	Updates() <-chan ProductUpdate
	Close() error
}

// ProductUpdate carries either the full product list or a subscription error.
type ProductUpdate struct {
	Products []domain.Product
	Err      error
}
