package delete_product

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/murkotick/product-live-catalog/internal/app/product/domain"
	"github.com/murkotick/product-live-catalog/internal/app/product/usecases/shared"
	"github.com/murkotick/product-live-catalog/internal/app/product/viewstate"
)

func setup(products ...domain.Product) (*Interactor, *shared.RecordingRepo) {
	list := viewstate.NewProductList()
	list.Replace(products)
	repo := &shared.RecordingRepo{}
	return NewInteractor(repo, list), repo
}

func TestExecute_DeletesMatchByName(t *testing.T) {
	it, repo := setup(domain.Product{ID: "a", Name: "Pen", Price: 1.5})

	p, err := it.Execute(context.Background(), Request{Name: "Pen"})
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, repo.Removed)
	assert.Equal(t, "a", p.ID)
}

func TestExecute_NoMatchDeletesNothing(t *testing.T) {
	it, repo := setup(domain.Product{ID: "a", Name: "Pen", Price: 1.5})

	_, err := it.Execute(context.Background(), Request{Name: "Book"})
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
	assert.Empty(t, repo.Removed)
}

func TestExecute_DuplicateNamesDeleteFirst(t *testing.T) {
	it, repo := setup(
		domain.Product{ID: "a", Name: "Pen", Price: 1.5},
		domain.Product{ID: "b", Name: "Pen", Price: 3},
	)

	_, err := it.Execute(context.Background(), Request{Name: "Pen"})
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, repo.Removed)
}

func TestExecute_SelectedID(t *testing.T) {
	it, repo := setup(
		domain.Product{ID: "a", Name: "Pen", Price: 1.5},
		domain.Product{ID: "b", Name: "Pen", Price: 3},
	)

	_, err := it.Execute(context.Background(), Request{ID: "b", Name: "Pen"})
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, repo.Removed)
}

func TestExecute_RemoveFailure(t *testing.T) {
	it, repo := setup(domain.Product{ID: "a", Name: "Pen", Price: 1.5})
	boom := errors.New("unavailable")
	repo.RemoveErr = boom

	_, err := it.Execute(context.Background(), Request{Name: "Pen"})
	assert.ErrorIs(t, err, boom)
}
