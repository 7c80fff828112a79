package delete_product

import (
	"context"
	"fmt"

	contracts "github.com/murkotick/product-live-catalog/internal/app/product/contracts"
	"github.com/murkotick/product-live-catalog/internal/app/product/domain"
	"github.com/murkotick/product-live-catalog/internal/app/product/queries/find_product"
)

// Request identifies the product by ID when selected, otherwise by Name.
type Request struct {
	ID   string
	Name string
}

// Interactor deletes one listed product by its id. There is no confirmation step.
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
	target, err := it.Finder.Execute(find_product.Query{ID: req.ID, Name: req.Name})
	if err != nil {
		return domain.Product{}, err
	}
	if err := it.ProductRepo.Remove(ctx, target.ID); err != nil {
		return domain.Product{}, fmt.Errorf("remove product %s: %w", target.ID, err)
	}
	return target, nil
}
