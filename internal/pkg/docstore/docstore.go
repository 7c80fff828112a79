// Package docstore defines the realtime document store the product screen
// syncs against: whole-collection snapshots pushed on every change, plus
// keyed point writes and deletes.
package docstore

import (
	"context"
	"errors"
	"maps"
)

var (
	ErrEmptyCollection = errors.New("docstore: collection path is required")
	ErrEmptyKey        = errors.New("docstore: document key is required")
	ErrNilDocument     = errors.New("docstore: document is nil")
	ErrClosed          = errors.New("docstore: store is closed")
)

// Document is the JSON-like body stored under a key.
type Document map[string]any

// Clone returns a shallow copy of d.
func (d Document) Clone() Document {
	if d == nil {
		return nil
	}
	return maps.Clone(d)
}

// Entry is one keyed document of a snapshot.
type Entry struct {
	Key string
	Doc Document
}

// Snapshot is the complete state of a collection at one point in time.
// Entries are ordered by key.
type Snapshot struct {
	Collection string
	Entries    []Entry
}

// Event is delivered on a subscription: either a snapshot or an error.
// An error event does not end the subscription.
type Event struct {
	Snapshot *Snapshot
	Err      error
}

// Subscription is a live feed of collection snapshots. The first event is
// the current state; every later change anywhere in the collection produces
// a new snapshot. Events is closed after Close or when the subscribe context ends.
type Subscription interface {
	Events() <-chan Event
	Close() error
}

// Store is the remote realtime store contract.
type Store interface {
	Subscribe(ctx context.Context, collection string) (Subscription, error)
	// GenerateKey returns a fresh collision-resistant key. Keys sort in
	// creation order.
	GenerateKey(ctx context.Context, collection string) (string, error)
	// Write replaces the document at key atomically.
	Write(ctx context.Context, collection, key string, doc Document) error
	Delete(ctx context.Context, collection, key string) error
	Close() error
}

func validatePath(collection, key string) error {
	if collection == "" {
		return ErrEmptyCollection
	}
	if key == "" {
		return ErrEmptyKey
	}
	return nil
}
