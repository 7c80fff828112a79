package update_product

import (
	"context"
	"fmt"

	contracts "github.com/murkotick/product-live-catalog/internal/app/product/contracts"
	"github.com/murkotick/product-live-catalog/internal/app/product/domain"
	"github.com/murkotick/product-live-catalog/internal/app/product/queries/find_product"
)

// Request identifies the product by ID when a list item is selected,
// otherwise by Name. Name and Price are also the new values.
type Request struct {
	ID    string
	Name  string
	Price string
}

// Interactor overwrites one listed product under its existing id.
type Interactor struct {
	ProductRepo contracts.ProductRepo
	Finder      *find_product.Handler
}

func NewInteractor(repo contracts.ProductRepo, catalog contracts.Catalog) *Interactor {
	return &Interactor{
		ProductRepo: repo,
		Finder:      find_product.NewHandler(catalog),
	}
}

func (it *Interactor) Execute(ctx context.Context, req Request) (domain.Product, error) {
	// 1. Both fields are required
	if req.Name == "" || req.Price == "" {
		return domain.Product{}, domain.ErrIncompleteInput
	}

	// 2. Locate the target
	current, err := it.Finder.Execute(find_product.Query{ID: req.ID, Name: req.Name})
	if err != nil {
		return domain.Product{}, err
	}

	// 3. New values under the same id
	price, err := domain.ParsePrice(req.Price)
	if err != nil {
		return domain.Product{}, err
	}
	updated, err := current.WithDetails(req.Name, price)
	if err != nil {
		return domain.Product{}, err
	}

	// 4. Write
	if err := it.ProductRepo.Save(ctx, updated); err != nil {
		return domain.Product{}, fmt.Errorf("save product %s: %w", updated.ID, err)
	}
	return updated, nil
}
