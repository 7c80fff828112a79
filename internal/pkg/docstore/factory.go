package docstore

import (
	"context"
	"fmt"
	"sort"
)

// Provider names accepted by NewFromProvider.
const (
	ProviderMemory  = "memory"
	ProviderSpanner = "spanner"
)

// Constructor builds a store for one provider.
type Constructor func(ctx context.Context) (Store, error)

// NewFromProvider picks the constructor registered for provider.
func NewFromProvider(ctx context.Context, provider string, constructors map[string]Constructor) (Store, error) {
	constructor, ok := constructors[provider]
	if !ok {
		available := make([]string, 0, len(constructors))
		for name := range constructors {
			available = append(available, name)
		}
		sort.Strings(available)
		return nil, fmt.Errorf("unsupported store provider %q, available: %v", provider, available)
	}
	return constructor(ctx)
}
