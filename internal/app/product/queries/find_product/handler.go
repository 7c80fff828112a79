package find_product

import (
	"github.com/golang/glog"

	contracts "github.com/murkotick/product-live-catalog/internal/app/product/contracts"
	"github.com/murkotick/product-live-catalog/internal/app/product/domain"
)

// nameCounter is implemented by catalogs that can report duplicate names.
type nameCounter interface {
	CountByName(name string) int
}

type Handler struct {
	catalog contracts.Catalog
}

func NewHandler(c contracts.Catalog) *Handler {
	return &Handler{catalog: c}
}

// Execute resolves q against the current list. With several products of the
// same name, the first one in list order is returned.
func (h *Handler) Execute(q Query) (domain.Product, error) {
	if q.ID != "" {
		p, ok := h.catalog.FindByID(q.ID)
		if !ok {
			return domain.Product{}, domain.ErrProductNotFound
		}
		return p, nil
	}

	p, ok := h.catalog.FindByName(q.Name)
	if !ok {
		return domain.Product{}, domain.ErrProductNotFound
	}
	if c, ok := h.catalog.(nameCounter); ok {
		if n := c.CountByName(q.Name); n > 1 {
			glog.Warningf("[find_product]name %q matches %d products, using %s", q.Name, n, p.ID)
		}
	}
	return p, nil
}
