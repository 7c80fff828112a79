// Package screen implements the product screen: two inputs, three actions
// and a live list fed by one subscription to the product collection.
package screen

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/golang/glog"

	contracts "github.com/murkotick/product-live-catalog/internal/app/product/contracts"
	"github.com/murkotick/product-live-catalog/internal/app/product/domain"
	"github.com/murkotick/product-live-catalog/internal/app/product/dto"
	"github.com/murkotick/product-live-catalog/internal/app/product/usecases/add_product"
	"github.com/murkotick/product-live-catalog/internal/app/product/usecases/delete_product"
	"github.com/murkotick/product-live-catalog/internal/app/product/usecases/update_product"
	"github.com/murkotick/product-live-catalog/internal/app/product/viewstate"
	"github.com/murkotick/product-live-catalog/internal/pkg/clock"
)

var (
	ErrAlreadyActive = errors.New("screen: already active")
	ErrNoSuchRow     = errors.New("screen: no such row")
)

type Option func(*Screen)

func WithClock(c clock.Clock) Option {
	return func(s *Screen) { s.clk = c }
}

// WithOnChange registers a callback run after every list replacement.
func WithOnChange(fn func()) Option {
	return func(s *Screen) { s.onChange = fn }
}

type Screen struct {
	repo     contracts.ProductRepo
	list     *viewstate.ProductList
	notifier Notifier
	clk      clock.Clock
	onChange func()

	add    *add_product.Interactor
	update *update_product.Interactor
	del    *delete_product.Interactor

	mu         sync.Mutex
	name       string
	price      string
	selectedID string
	feed       contracts.ProductFeed
	done       chan struct{}
}

func New(repo contracts.ProductRepo, notifier Notifier, opts ...Option) *Screen {
	list := viewstate.NewProductList()
	s := &Screen{
		repo:     repo,
		list:     list,
		notifier: notifier,
		clk:      clock.RealClock{},
		add:      add_product.NewInteractor(repo),
		update:   update_product.NewInteractor(repo, list),
		del:      delete_product.NewInteractor(repo, list),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Activate opens the screen's subscription. It fails if one is already open.
func (s *Screen) Activate(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.feed != nil {
		return ErrAlreadyActive
	}

	feed, err := s.repo.Watch(ctx)
	if err != nil {
		return fmt.Errorf("activate: %w", err)
	}
	s.feed = feed
	s.done = make(chan struct{})
	go s.consume(feed, s.done)
	return nil
}

// Close tears the subscription down. The screen can be activated again.
func (s *Screen) Close() error {
	s.mu.Lock()
	feed, done := s.feed, s.done
	s.feed, s.done = nil, nil
	s.mu.Unlock()

	if feed == nil {
		return nil
	}
	err := feed.Close()
	<-done
	return err
}

func (s *Screen) consume(feed contracts.ProductFeed, done chan struct{}) {
	defer close(done)
	for u := range feed.Updates() {
		if u.Err != nil {
			// previous list stays on screen
			glog.Warningf("[screen]subscription error: %v", u.Err)
			s.notify(LevelError, MsgLoadFailed)
			continue
		}
		s.list.Replace(u.Products)
		s.dropStaleSelection()
		glog.V(1).Infof("[screen]list replaced: %d products", len(u.Products))
		if s.onChange != nil {
			s.onChange()
		}
	}
}

func (s *Screen) dropStaleSelection() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selectedID == "" {
		return
	}
	if _, ok := s.list.FindByID(s.selectedID); !ok {
		glog.V(1).Infof("[screen]selected product %s disappeared", s.selectedID)
		s.selectedID = ""
	}
}

func (s *Screen) SetName(name string) {
	s.mu.Lock()
	s.name = name
	s.mu.Unlock()
}

func (s *Screen) SetPrice(price string) {
	s.mu.Lock()
	s.price = price
	s.mu.Unlock()
}

// Select fills both inputs from row index and pins that product's id, so
// update and delete act on it even if the name is edited or shared.
func (s *Screen) Select(index int) (domain.Product, error) {
	p, ok := s.list.At(index)
	if !ok {
		return domain.Product{}, fmt.Errorf("%w: %d", ErrNoSuchRow, index)
	}
	s.mu.Lock()
	s.name = p.Name
	s.price = domain.FormatPrice(p.Price)
	s.selectedID = p.ID
	s.mu.Unlock()
	return p, nil
}

// ClearSelection returns update and delete to name matching.
func (s *Screen) ClearSelection() {
	s.mu.Lock()
	s.selectedID = ""
	s.mu.Unlock()
}

func (s *Screen) inputs() (name, price, selectedID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.name, s.price, s.selectedID
}

func (s *Screen) AddProduct(ctx context.Context) Notification {
	name, price, _ := s.inputs()
	p, err := s.add.Execute(ctx, add_product.Request{Name: name, Price: price})
	switch {
	case err == nil:
		glog.V(1).Infof("[screen]added %s", p.ID)
		return s.notify(LevelInfo, MsgAdded)
	case domain.IsValidation(err):
		return s.notify(LevelError, MsgInvalidInput)
	default:
		glog.Warningf("[screen]add failed: %v", err)
		return s.notify(LevelError, MsgAddFailed)
	}
}

func (s *Screen) UpdateProduct(ctx context.Context) Notification {
	name, price, id := s.inputs()
	p, err := s.update.Execute(ctx, update_product.Request{ID: id, Name: name, Price: price})
	switch {
	case err == nil:
		glog.V(1).Infof("[screen]updated %s", p.ID)
		return s.notify(LevelInfo, MsgUpdated)
	case errors.Is(err, domain.ErrIncompleteInput):
		return s.notify(LevelError, MsgInvalidInput)
	case errors.Is(err, domain.ErrProductNotFound), domain.IsValidation(err):
		return s.notify(LevelError, MsgUpdateLookup)
	default:
		glog.Warningf("[screen]update failed: %v", err)
		return s.notify(LevelError, MsgUpdateFailed)
	}
}

func (s *Screen) DeleteProduct(ctx context.Context) Notification {
	name, _, id := s.inputs()
	p, err := s.del.Execute(ctx, delete_product.Request{ID: id, Name: name})
	switch {
	case err == nil:
		glog.V(1).Infof("[screen]deleted %s", p.ID)
		s.mu.Lock()
		if s.selectedID == p.ID {
			s.selectedID = ""
		}
		s.mu.Unlock()
		return s.notify(LevelInfo, MsgDeleted)
	case errors.Is(err, domain.ErrProductNotFound):
		return s.notify(LevelError, MsgNotFound)
	default:
		glog.Warningf("[screen]delete failed: %v", err)
		return s.notify(LevelError, MsgDeleteFailed)
	}
}

func (s *Screen) notify(level Level, msg string) Notification {
	n := Notification{Level: level, Message: msg, At: s.clk.Now()}
	if s.notifier != nil {
		s.notifier.Notify(n)
	}
	return n
}

// Products returns the current list.
func (s *Screen) Products() []domain.Product {
	return s.list.Items()
}

// View captures inputs, selection and rows.
func (s *Screen) View() dto.ScreenDTO {
	name, price, selected := s.inputs()
	items := s.list.Items()

	rows := make([]dto.ProductRowDTO, len(items))
	for i, p := range items {
		rows[i] = dto.ProductRowDTO{
			ProductID: p.ID,
			Name:      p.Name,
			Price:     domain.FormatPrice(p.Price),
			Line:      p.Line(),
			Selected:  selected != "" && p.ID == selected,
		}
	}
	return dto.ScreenDTO{
		NameInput:  name,
		PriceInput: price,
		SelectedID: selected,
		Rows:       rows,
		Revision:   s.list.Revision(),
	}
}

// Render draws the view as text, one numbered row per product.
func Render(v dto.ScreenDTO) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Name:  %s\n", v.NameInput)
	fmt.Fprintf(&b, "Price: %s\n", v.PriceInput)
	b.WriteString("[Add Product] [Update Product] [Delete Product]\n")
	if len(v.Rows) == 0 {
		b.WriteString("  (no products)\n")
	}
	for i, r := range v.Rows {
		mark := " "
		if r.Selected {
			mark = "*"
		}
		fmt.Fprintf(&b, "%s%2d. %s\n", mark, i, r.Line)
	}
	return b.String()
}
