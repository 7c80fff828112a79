package docstore

import (
	"context"
	"sort"
	"sync"

	"github.com/golang/glog"
	"github.com/google/uuid"
)

// MemoryStore is an in-process realtime store. Every write or delete pushes
// a fresh snapshot of the affected collection to all of its subscribers.
type MemoryStore struct {
	keys KeyGenerator

	mu          sync.Mutex
	collections map[string]map[string]Document
	subs        map[string]map[string]*Feed
	closed      bool
}

func NewMemoryStore(keys KeyGenerator) *MemoryStore {
	return &MemoryStore{
		keys:        keys,
		collections: make(map[string]map[string]Document),
		subs:        make(map[string]map[string]*Feed),
	}
}

func (s *MemoryStore) Subscribe(ctx context.Context, collection string) (Subscription, error) {
	if collection == "" {
		return nil, ErrEmptyCollection
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrClosed
	}

	id := uuid.New().String()
	feed := NewFeed(func() { s.unsubscribe(collection, id) })
	if s.subs[collection] == nil {
		s.subs[collection] = make(map[string]*Feed)
	}
	s.subs[collection][id] = feed
	feed.Publish(Event{Snapshot: s.snapshotLocked(collection)})
	glog.V(2).Infof("[docstore]subscribe %s id=%s", collection, id)

	go func() {
		select {
		case <-ctx.Done():
			feed.Close()
		case <-feed.Done():
		}
	}()

	return feed, nil
}

func (s *MemoryStore) unsubscribe(collection, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.subs[collection], id)
	if len(s.subs[collection]) == 0 {
		delete(s.subs, collection)
	}
	glog.V(2).Infof("[docstore]unsubscribe %s id=%s", collection, id)
}

func (s *MemoryStore) GenerateKey(ctx context.Context, collection string) (string, error) {
	if collection == "" {
		return "", ErrEmptyCollection
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return s.keys.NewKey()
}

func (s *MemoryStore) Write(ctx context.Context, collection, key string, doc Document) error {
	if err := validatePath(collection, key); err != nil {
		return err
	}
	if doc == nil {
		return ErrNilDocument
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	if s.collections[collection] == nil {
		s.collections[collection] = make(map[string]Document)
	}
	s.collections[collection][key] = doc.Clone()
	s.publishLocked(collection)
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, collection, key string) error {
	if err := validatePath(collection, key); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	// Deleting a missing key succeeds, matching the remote store semantics.
	delete(s.collections[collection], key)
	s.publishLocked(collection)
	return nil
}

// Close ends every open subscription.
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	var feeds []*Feed
	for _, byID := range s.subs {
		for _, f := range byID {
			feeds = append(feeds, f)
		}
	}
	s.mu.Unlock()

	for _, f := range feeds {
		f.Close()
	}
	return nil
}

func (s *MemoryStore) publishLocked(collection string) {
	subs := s.subs[collection]
	if len(subs) == 0 {
		return
	}
	snap := s.snapshotLocked(collection)
	for _, f := range subs {
		f.Publish(Event{Snapshot: cloneSnapshot(snap)})
	}
	glog.V(2).Infof("[docstore]publish %s entries=%d subscribers=%d", collection, len(snap.Entries), len(subs))
}

func (s *MemoryStore) snapshotLocked(collection string) *Snapshot {
	docs := s.collections[collection]
	keys := make([]string, 0, len(docs))
	for k := range docs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	snap := &Snapshot{Collection: collection, Entries: make([]Entry, 0, len(keys))}
	for _, k := range keys {
		snap.Entries = append(snap.Entries, Entry{Key: k, Doc: docs[k].Clone()})
	}
	return snap
}

func cloneSnapshot(in *Snapshot) *Snapshot {
	out := &Snapshot{Collection: in.Collection, Entries: make([]Entry, len(in.Entries))}
	for i, e := range in.Entries {
		out.Entries[i] = Entry{Key: e.Key, Doc: e.Doc.Clone()}
	}
	return out
}
