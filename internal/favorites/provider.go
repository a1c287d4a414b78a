package favorites

import (
	"context"
	"sync"

	"github.com/charmbracelet/log"
)

// Provider hands out a single initialized [Store] per key.
type Provider struct {
	mu      sync.Mutex
	storage Storage
	logger  *log.Logger
	stores  map[string]*Store
}

// NewProvider creates a [Provider] whose stores share storage.
func NewProvider(storage Storage, logger *log.Logger) *Provider {
	return &Provider{
		storage: storage,
		logger:  logger,
		stores:  make(map[string]*Store),
	}
}

// Store returns the store for key, creating and initializing it on first use.
func (p *Provider) Store(ctx context.Context, key string) *Store {
	if key == "" {
		key = DefaultKey
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if s, ok := p.stores[key]; ok {
		return s
	}

	s := NewStore(p.storage, key, p.logger)
	s.Initialize(ctx)
	p.stores[key] = s
	return s
}

// OwnerKey is the storage key for a signed-in user's favorites.
func OwnerKey(userID string) string {
	return DefaultKey + ":" + userID
}
