package repo

import (
	"context"
	"fmt"
	"sync"

	"github.com/golang/glog"

	contracts "github.com/murkotick/product-live-catalog/internal/app/product/contracts"
	"github.com/murkotick/product-live-catalog/internal/app/product/domain"
	"github.com/murkotick/product-live-catalog/internal/pkg/docstore"
)

// DefaultCollection is the collection path products are stored under.
const DefaultCollection = "products"

// Record field names.
const (
	FieldID    = "id"
	FieldName  = "name"
	FieldPrice = "price"
)

// ProductRepo translates between products and remote store records.
type ProductRepo struct {
	store      docstore.Store
	collection string
}

var _ contracts.ProductRepo = (*ProductRepo)(nil)

func NewProductRepo(store docstore.Store, collection string) *ProductRepo {
	if collection == "" {
		collection = DefaultCollection
	}
	return &ProductRepo{store: store, collection: collection}
}

func (r *ProductRepo) Collection() string {
	return r.collection
}

func (r *ProductRepo) NextID(ctx context.Context) (string, error) {
	return r.store.GenerateKey(ctx, r.collection)
}

func (r *ProductRepo) Save(ctx context.Context, p domain.Product) error {
	if p.ID == "" {
		return domain.ErrEmptyProductID
	}
	return r.store.Write(ctx, r.collection, p.ID, buildRecord(p))
}

func (r *ProductRepo) Remove(ctx context.Context, id string) error {
	if id == "" {
		return domain.ErrEmptyProductID
	}
	return r.store.Delete(ctx, r.collection, id)
}

// Watch subscribes to the product collection.
func (r *ProductRepo) Watch(ctx context.Context) (contracts.ProductFeed, error) {
	sub, err := r.store.Subscribe(ctx, r.collection)
	if err != nil {
		return nil, fmt.Errorf("subscribe %s: %w", r.collection, err)
	}
	f := &feed{
		sub:     sub,
		updates: make(chan contracts.ProductUpdate),
		done:    make(chan struct{}),
	}
	f.wg.Add(1)
	go f.forward()
	return f, nil
}

// buildRecord constructs the wire document for p.
func buildRecord(p domain.Product) docstore.Document {
	return docstore.Document{
		FieldID:    p.ID,
		FieldName:  p.Name,
		FieldPrice: p.Price,
	}
}

// decodeProduct reads a record. A record without an id takes its key.
func decodeProduct(e docstore.Entry) (domain.Product, error) {
	p := domain.Product{ID: e.Key}

	if v, ok := e.Doc[FieldID]; ok && v != nil {
		id, ok := v.(string)
		if !ok {
			return domain.Product{}, fmt.Errorf("record %s: id is %T", e.Key, v)
		}
		if id != "" {
			p.ID = id
		}
	}
	if v, ok := e.Doc[FieldName]; ok && v != nil {
		name, ok := v.(string)
		if !ok {
			return domain.Product{}, fmt.Errorf("record %s: name is %T", e.Key, v)
		}
		p.Name = name
	}
	if v, ok := e.Doc[FieldPrice]; ok && v != nil {
		switch n := v.(type) {
		case float64:
			p.Price = n
		case float32:
			p.Price = float64(n)
		case int:
			p.Price = float64(n)
		case int64:
			p.Price = float64(n)
		default:
			return domain.Product{}, fmt.Errorf("record %s: price is %T", e.Key, v)
		}
	}
	return p, nil
}

// decodeSnapshot keeps snapshot order and skips undecodable records.
func decodeSnapshot(snap *docstore.Snapshot) []domain.Product {
	out := make([]domain.Product, 0, len(snap.Entries))
	for _, e := range snap.Entries {
		p, err := decodeProduct(e)
		if err != nil {
			glog.Warningf("[repo]skip %s/%s: %v", snap.Collection, e.Key, err)
			continue
		}
		out = append(out, p)
	}
	return out
}

type feed struct {
	sub     docstore.Subscription
	updates chan contracts.ProductUpdate
	done    chan struct{}
	once    sync.Once
	wg      sync.WaitGroup
}

func (f *feed) Updates() <-chan contracts.ProductUpdate {
	return f.updates
}

func (f *feed) forward() {
	defer f.wg.Done()
	defer close(f.updates)
	for ev := range f.sub.Events() {
		u := contracts.ProductUpdate{Err: ev.Err}
		if ev.Err == nil && ev.Snapshot != nil {
			u.Products = decodeSnapshot(ev.Snapshot)
		}
		select {
		case f.updates <- u:
		case <-f.done:
			return
		}
	}
}

// Close unsubscribes and waits for the forwarding goroutine.
func (f *feed) Close() error {
	var err error
	f.once.Do(func() {
		close(f.done)
		err = f.sub.Close()
		f.wg.Wait()
	})
	return err
}
