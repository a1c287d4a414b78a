package favorites

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/medspa/internal/models"
	"github.com/desertthunder/medspa/internal/shared"
)

// DefaultKey is the storage key used when none is configured.
const DefaultKey = "favorites"

// Store is the favorited-listing set for one storage key.
type Store struct {
	mu      sync.Mutex
	key     string
	storage Storage
	logger  *log.Logger
	items   []models.Favorite
}

// NewStore creates an empty [Store]. Call [Store.Initialize] to hydrate it.
func NewStore(storage Storage, key string, logger *log.Logger) *Store {
	if key == "" {
		key = DefaultKey
	}
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Store{
		key:     key,
		storage: storage,
		logger:  shared.WithLogger(logger, "store", key),
	}
}

// Key returns the storage key the set is persisted under.
func (s *Store) Key() string {
	return s.key
}

// Initialize replaces the in-memory set with the persisted one.
//
// Read and parse failures are logged and leave the set empty.
func (s *Store) Initialize(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = nil

	data, ok, err := s.storage.Load(ctx, s.key)
	if err != nil {
		s.logger.Warn("failed to load favorites, starting empty", "error", err)
		return
	}
	if !ok || len(data) == 0 {
		return
	}

	var items []models.Favorite
	if err := json.Unmarshal(data, &items); err != nil {
		s.logger.Warn("failed to parse stored favorites, starting empty", "error", err)
		return
	}

	seen := make(map[string]bool, len(items))
	for _, item := range items {
		if item.ID == "" || seen[item.ID] {
			continue
		}
		seen[item.ID] = true
		s.items = append(s.items, item)
	}
}

// Add inserts fav unless an entry with the same ID exists, and reports whether it was inserted.
func (s *Store) Add(ctx context.Context, fav models.Favorite) (bool, error) {
	if err := fav.Validate(); err != nil {
		return false, fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.indexOf(fav.ID) >= 0 {
		return false, nil
	}

	next := append(slices.Clone(s.items), fav)
	if err := s.commit(ctx, next); err != nil {
		return false, err
	}
	return true, nil
}

// Remove deletes the entry with the given ID and reports whether one was present.
func (s *Store) Remove(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return false, nil
	}

	next := slices.Delete(slices.Clone(s.items), i, i+1)
	if err := s.commit(ctx, next); err != nil {
		return false, err
	}
	return true, nil
}

// Update replaces the snapshot of an existing entry; absent IDs are ignored.
func (s *Store) Update(ctx context.Context, fav models.Favorite) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(fav.ID)
	if i < 0 {
		return false, nil
	}
	if s.items[i] == fav {
		return false, nil
	}

	next := slices.Clone(s.items)
	next[i] = fav
	if err := s.commit(ctx, next); err != nil {
		return false, err
	}
	return true, nil
}

// Contains reports whether id is in the set.
func (s *Store) Contains(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.indexOf(id) >= 0
}

// Get returns the entry for id.
func (s *Store) Get(id string) (models.Favorite, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexOf(id); i >= 0 {
		return s.items[i], true
	}
	return models.Favorite{}, false
}

// List returns a copy of the set in insertion order.
func (s *Store) List() []models.Favorite {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.items)
}

// Len returns the number of favorites.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

func (s *Store) indexOf(id string) int {
	return slices.IndexFunc(s.items, func(f models.Favorite) bool { return f.ID == id })
}

// commit persists next and only then makes it the in-memory set. Callers hold s.mu.
func (s *Store) commit(ctx context.Context, next []models.Favorite) error {
	if next == nil {
		next = []models.Favorite{}
	}

	data, err := json.Marshal(next)
	if err != nil {
		return fmt.Errorf("failed to encode favorites: %w", err)
	}

	if err := s.storage.Save(ctx, s.key, data); err != nil {
		s.logger.Error("failed to persist favorites", "error", err)
		return fmt.Errorf("%w: %v", shared.ErrStorageWrite, err)
	}

	s.items = next
	return nil
}
