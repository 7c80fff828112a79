package add_product

import (
	"context"
	"fmt"

	contracts "github.com/murkotick/product-live-catalog/internal/app/product/contracts"
	"github.com/murkotick/product-live-catalog/internal/app/product/domain"
)

// Request carries the raw text of the two input fields.
type Request struct {
	Name  string
	Price string
}

// Interactor validates input, asks the store for a fresh id and writes the record.
// The new product reaches the list only through the subscription.
type Interactor struct {
	ProductRepo contracts.ProductRepo
}

func NewInteractor(repo contracts.ProductRepo) *Interactor {
	return &Interactor{ProductRepo: repo}
}

func (it *Interactor) Execute(ctx context.Context, req Request) (domain.Product, error) {
	// 1. Validate
	if err := domain.ValidateName(req.Name); err != nil {
		return domain.Product{}, err
	}
	price, err := domain.ParsePrice(req.Price)
	if err != nil {
		return domain.Product{}, err
	}

	// 2. Fresh id
	id, err := it.ProductRepo.NextID(ctx)
	if err != nil {
		return domain.Product{}, fmt.Errorf("%w: %v", domain.ErrKeyUnavailable, err)
	}
	if id == "" {
		return domain.Product{}, domain.ErrKeyUnavailable
	}

	// 3. Build and write
	product, err := domain.NewProduct(id, req.Name, price)
	if err != nil {
		return domain.Product{}, err
	}
	if err := it.ProductRepo.Save(ctx, product); err != nil {
		return domain.Product{}, fmt.Errorf("save product %s: %w", id, err)
	}
	return product, nil
}
