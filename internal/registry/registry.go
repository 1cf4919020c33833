// Package registry keeps connected stores and their question history in
// memory. It is the backing state for the gateway routes; nothing here
// survives a restart.
package registry

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Store is a connected Shopify store with the credentials needed to query it.
type Store struct {
	Domain      string    `json:"domain"`
	AccessToken string    `json:"-"`
	ShopName    string    `json:"shop_name"`
	Email       string    `json:"email,omitempty"`
	Currency    string    `json:"currency,omitempty"`
	ConnectedAt time.Time `json:"connected_at"`
}

// LogEntry records one answered question for a store.
type LogEntry struct {
	ID               string    `json:"id"`
	StoreID          string    `json:"store_id"`
	Question         string    `json:"question"`
	Answer           string    `json:"answer"`
	Confidence       string    `json:"confidence"`
	ProcessingTimeMS float64   `json:"processing_time_ms"`
	Timestamp        time.Time `json:"timestamp"`
}

type Registry struct {
	mu     sync.RWMutex
	stores map[string]Store
	logs   []LogEntry
}

func New() *Registry {
	return &Registry{
		stores: map[string]Store{},
	}
}

// PutStore adds or replaces a store keyed by its domain.
func (r *Registry) PutStore(store Store) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stores[store.Domain] = store
}

func (r *Registry) GetStore(domain string) (Store, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	store, ok := r.stores[domain]
	return store, ok
}

// ListStores returns all connected stores ordered by domain.
func (r *Registry) ListStores() []Store {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stores := make([]Store, 0, len(r.stores))
	for _, store := range r.stores {
		stores = append(stores, store)
	}
	sort.Slice(stores, func(i, j int) bool {
		return stores[i].Domain < stores[j].Domain
	})
	return stores
}

// AppendLog records an answered question and returns the stored entry with
// its generated ID and timestamp filled in.
func (r *Registry) AppendLog(entry LogEntry) LogEntry {
	entry.ID = uuid.NewString()
	entry.Timestamp = time.Now().UTC()

	r.mu.Lock()
	defer r.mu.Unlock()
	r.logs = append(r.logs, entry)
	return entry
}

// RecentLogs returns up to limit entries, most recent first. A limit <= 0
// returns everything.
func (r *Registry) RecentLogs(limit int) []LogEntry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := len(r.logs)
	if limit <= 0 || limit > n {
		limit = n
	}

	out := make([]LogEntry, 0, limit)
	for i := n - 1; i >= n-limit; i-- {
		out = append(out, r.logs[i])
	}
	return out
}
