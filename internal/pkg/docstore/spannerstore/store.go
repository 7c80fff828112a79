// Package spannerstore implements docstore.Store on Cloud Spanner.
//
// Documents live in one table keyed by (collection, doc_id) with a JSON
// payload. Subscriptions re-read the collection whenever this process writes
// to it and on every poll tick, and push a snapshot only when it changed, so
// writes from other processes arrive within one poll interval.
package spannerstore

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"cloud.google.com/go/spanner"
	"github.com/golang/glog"
	"google.golang.org/api/iterator"

	"github.com/murkotick/product-live-catalog/internal/models/m_document"
	"github.com/murkotick/product-live-catalog/internal/pkg/committer"
	"github.com/murkotick/product-live-catalog/internal/pkg/docstore"
)

const DefaultPollInterval = time.Second

// Applier commits a mutation plan. *committer.Adapter satisfies it.
type Applier interface {
	Apply(ctx context.Context, plan *committer.Plan) (time.Time, error)
}

type row struct {
	key     string
	payload string
}

type queryFunc func(ctx context.Context, collection string) ([]row, error)

type watcher struct {
	feed *docstore.Feed
	wake chan struct{}
}

type Store struct {
	client       *spanner.Client
	ownsClient   bool
	applier      Applier
	query        queryFunc
	keys         docstore.KeyGenerator
	pollInterval time.Duration

	mu       sync.Mutex
	watchers map[string]map[*watcher]struct{}
	closed   bool
	wg       sync.WaitGroup
}

// Open dials database and returns a store that owns the client.
func Open(ctx context.Context, database string, keys docstore.KeyGenerator, pollInterval time.Duration) (*Store, error) {
	client, err := spanner.NewClient(ctx, database)
	if err != nil {
		return nil, fmt.Errorf("spanner.NewClient: %w", err)
	}
	s := New(client, keys, pollInterval)
	s.ownsClient = true
	return s, nil
}

// New wraps an existing client. The caller keeps ownership of client.
func New(client *spanner.Client, keys docstore.KeyGenerator, pollInterval time.Duration) *Store {
	s := newStore(committer.NewAdapter(client), nil, keys, pollInterval)
	s.client = client
	s.query = s.queryCollection
	return s
}

func newStore(applier Applier, query queryFunc, keys docstore.KeyGenerator, pollInterval time.Duration) *Store {
	if pollInterval <= 0 {
		pollInterval = DefaultPollInterval
	}
	return &Store{
		applier:      applier,
		query:        query,
		keys:         keys,
		pollInterval: pollInterval,
		watchers:     make(map[string]map[*watcher]struct{}),
	}
}

func (s *Store) Subscribe(ctx context.Context, collection string) (docstore.Subscription, error) {
	if collection == "" {
		return nil, docstore.ErrEmptyCollection
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, docstore.ErrClosed
	}

	ctx, cancel := context.WithCancel(ctx)
	w := &watcher{wake: make(chan struct{}, 1)}
	w.feed = docstore.NewFeed(func() {
		cancel()
		s.removeWatcher(collection, w)
	})
	if s.watchers[collection] == nil {
		s.watchers[collection] = make(map[*watcher]struct{})
	}
	s.watchers[collection][w] = struct{}{}

	s.wg.Add(1)
	go s.watch(ctx, collection, w)
	return w.feed, nil
}

func (s *Store) removeWatcher(collection string, w *watcher) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.watchers[collection], w)
	if len(s.watchers[collection]) == 0 {
		delete(s.watchers, collection)
	}
}

// watch owns one subscription until its context ends.
func (s *Store) watch(ctx context.Context, collection string, w *watcher) {
	defer s.wg.Done()
	defer w.feed.Close()

	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	var (
		last      []row
		delivered bool
		failing   bool
	)
	for {
		rows, err := s.query(ctx, collection)
		if err == nil && (!delivered || !sameRows(last, rows)) {
			var snap *docstore.Snapshot
			snap, err = decodeSnapshot(collection, rows)
			if err == nil {
				w.feed.Publish(docstore.Event{Snapshot: snap})
				last, delivered = rows, true
			}
		}
		if err == nil {
			failing = false
		}
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			// one error event per failure streak
			if !failing {
				glog.Warningf("[spannerstore]read %s failed: %v", collection, err)
				w.feed.Publish(docstore.Event{Err: fmt.Errorf("spannerstore: read %s: %w", collection, err)})
				failing = true
			}
		}

		select {
		case <-ctx.Done():
			return
		case <-w.wake:
		case <-ticker.C:
		}
	}
}

func (s *Store) wakeWatchers(collection string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for w := range s.watchers[collection] {
		select {
		case w.wake <- struct{}{}:
		default:
		}
	}
}

func (s *Store) GenerateKey(ctx context.Context, collection string) (string, error) {
	if collection == "" {
		return "", docstore.ErrEmptyCollection
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return s.keys.NewKey()
}

func (s *Store) Write(ctx context.Context, collection, key string, doc docstore.Document) error {
	if collection == "" {
		return docstore.ErrEmptyCollection
	}
	if key == "" {
		return docstore.ErrEmptyKey
	}
	if doc == nil {
		return docstore.ErrNilDocument
	}

	payload, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("spannerstore: encode %s/%s: %w", collection, key, err)
	}

	plan := committer.NewPlan(m_document.UpsertMutation(m_document.BuildUpsertMap(collection, key, string(payload))))
	return s.apply(ctx, collection, key, plan)
}

func (s *Store) Delete(ctx context.Context, collection, key string) error {
	if collection == "" {
		return docstore.ErrEmptyCollection
	}
	if key == "" {
		return docstore.ErrEmptyKey
	}

	plan := committer.NewPlan(m_document.DeleteMutation(collection, key))
	return s.apply(ctx, collection, key, plan)
}

func (s *Store) apply(ctx context.Context, collection, key string, plan *committer.Plan) error {
	s.mu.Lock()
	closed := s.closed
	s.mu.Unlock()
	if closed {
		return docstore.ErrClosed
	}

	ts, err := s.applier.Apply(ctx, plan)
	if err != nil {
		return fmt.Errorf("spannerstore: commit %s/%s: %w", collection, key, err)
	}
	glog.V(2).Infof("[spannerstore]commit %s/%s at %s", collection, key, ts.Format(time.RFC3339Nano))
	s.wakeWatchers(collection)
	return nil
}

// Close ends all subscriptions and, for stores created by Open, closes the client.
func (s *Store) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	var feeds []*docstore.Feed
	for _, ws := range s.watchers {
		for w := range ws {
			feeds = append(feeds, w.feed)
		}
	}
	s.mu.Unlock()

	for _, f := range feeds {
		f.Close()
	}
	s.wg.Wait()

	if s.ownsClient && s.client != nil {
		s.client.Close()
	}
	return nil
}

func (s *Store) queryCollection(ctx context.Context, collection string) ([]row, error) {
	stmt := spanner.Statement{
		SQL: `SELECT doc_id, payload
		      FROM documents
		      WHERE collection = @collection
		      ORDER BY doc_id ASC`,
		Params: map[string]interface{}{"collection": collection},
	}

	iter := s.client.Single().Query(ctx, stmt)
	defer iter.Stop()

	var out []row
	for {
		r, err := iter.Next()
		if err == iterator.Done {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		var rw row
		if err := r.Columns(&rw.key, &rw.payload); err != nil {
			return nil, err
		}
		out = append(out, rw)
	}
}

func decodeSnapshot(collection string, rows []row) (*docstore.Snapshot, error) {
	snap := &docstore.Snapshot{Collection: collection, Entries: make([]docstore.Entry, 0, len(rows))}
	for _, r := range rows {
		var doc docstore.Document
		if err := json.Unmarshal([]byte(r.payload), &doc); err != nil {
			return nil, fmt.Errorf("decode %s/%s: %w", collection, r.key, err)
		}
		if doc == nil {
			doc = docstore.Document{}
		}
		snap.Entries = append(snap.Entries, docstore.Entry{Key: r.key, Doc: doc})
	}
	return snap, nil
}

func sameRows(a, b []row) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
