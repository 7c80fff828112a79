// Package viewstate holds the locally synced product list.
package viewstate

import (
	"sync"

	contracts "github.com/murkotick/product-live-catalog/internal/app/product/contracts"
	"github.com/murkotick/product-live-catalog/internal/app/product/domain"
)

// ProductList is replaced wholesale from each snapshot. Readers may run on
// any goroutine; Replace is called by the single subscription consumer.
type ProductList struct {
	mu       sync.RWMutex
	items    []domain.Product
	revision uint64
}

var _ contracts.Catalog = (*ProductList)(nil)

func NewProductList() *ProductList {
	return &ProductList{}
}

// Replace swaps in a copy of products, keeping their order.
func (l *ProductList) Replace(products []domain.Product) {
	items := make([]domain.Product, len(products))
	copy(items, products)

	l.mu.Lock()
	l.items = items
	l.revision++
	l.mu.Unlock()
}

// Items returns a copy of the current list.
func (l *ProductList) Items() []domain.Product {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]domain.Product, len(l.items))
	copy(out, l.items)
	return out
}

func (l *ProductList) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.items)
}

// Revision counts Replace calls.
func (l *ProductList) Revision() uint64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.revision
}

// At returns the product at index i.
func (l *ProductList) At(i int) (domain.Product, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if i < 0 || i >= len(l.items) {
		return domain.Product{}, false
	}
	return l.items[i], true
}

func (l *ProductList) FindByName(name string) (domain.Product, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	for _, p := range l.items {
		if p.Name == name {
			return p, true
		}
	}
	return domain.Product{}, false
}

func (l *ProductList) FindByID(id string) (domain.Product, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	for _, p := range l.items {
		if p.ID == id {
			return p, true
		}
	}
	return domain.Product{}, false
}

// CountByName reports how many listed products carry exactly name.
func (l *ProductList) CountByName(name string) int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	n := 0
	for _, p := range l.items {
		if p.Name == name {
			n++
		}
	}
	return n
}

// Lines renders the list rows in order.
func (l *ProductList) Lines() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]string, len(l.items))
	for i, p := range l.items {
		out[i] = p.Line()
	}
	return out
}
