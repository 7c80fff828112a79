package contracts

import "github.com/murkotick/product-live-catalog/internal/app/product/domain"

// Catalog answers lookups against the locally synced product list.
type Catalog interface {
	// FindByName returns the first product, in list order, whose name equals name exactly.
	FindByName(name string) (domain.Product, bool)
	FindByID(id string) (domain.Product, bool)
}
