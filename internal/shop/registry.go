package shop

import (
	"sync"

	"github.com/abgdnv/storefront/internal/catalog"
	"github.com/google/uuid"
)

// Registry hands out per-session Shops over one shared catalog. Sessions are
// independent: carts are never shared or merged across them.
type Registry struct {
	mu       sync.RWMutex
	catalog  []catalog.Product
	sessions map[uuid.UUID]*Shop
}

// NewRegistry creates a registry over the loaded catalog.
func NewRegistry(products []catalog.Product) *Registry {
	return &Registry{
		catalog:  products,
		sessions: make(map[uuid.UUID]*Shop),
	}
}

// Create starts a new session and returns its id.
func (r *Registry) Create() uuid.UUID {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := uuid.New()
	r.sessions[id] = New(r.catalog)
	return id
}

// Get returns the session's Shop.
// Returns ErrSessionNotFound if no session exists with the given id.
func (r *Registry) Get(id uuid.UUID) (*Shop, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// Delete drops the session and its cart. Deleting an unknown id is a no-op.
func (r *Registry) Delete(id uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
