package route

import (
	"fmt"
	"sort"
	"sync"

	"github.com/fetchsim/fetchsim"
	"github.com/jinzhu/copier"
)

// Table is a set of routes keyed by URL. It is safe for concurrent use; every
// mutation is atomic with respect to readers.
type Table struct {
	mu     sync.RWMutex
	routes map[string]*Route
}

// NewTable returns an empty Table.
func NewTable() *Table {
	return &Table{routes: make(map[string]*Route)}
}

// Add inserts r under r.URL. The table takes ownership of r.
func (t *Table) Add(r *Route) error {
	if r == nil || r.URL == "" {
		return fmt.Errorf("%w: route key must be a non-empty string", fetchsim.ErrInvalidArgument)
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.routes[r.URL]; ok {
		return fmt.Errorf("%w: %s, remove it first to redefine it", fetchsim.ErrDuplicateRoute, r.URL)
	}
	t.routes[r.URL] = r
	return nil
}

// Has reports whether key is registered.
func (t *Table) Has(key string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	_, ok := t.routes[key]
	return ok
}

// Remove deletes the route registered under key.
func (t *Table) Remove(key string) error {
	if key == "" {
		return fmt.Errorf("%w: route key must be a non-empty string", fetchsim.ErrInvalidArgument)
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.routes[key]; !ok {
		return fmt.Errorf("%w: %s", fetchsim.ErrRouteNotFound, key)
	}
	delete(t.routes, key)
	return nil
}

// Replace swaps the whole table for routes. A nil map empties the table. The
// table takes ownership of the routes but not of the map itself.
func (t *Table) Replace(routes map[string]*Route) {
	next := make(map[string]*Route, len(routes))
	for k, r := range routes {
		next[k] = r
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.routes = next
}

// Entry resolves key and method to a MethodEntry. The entry's Body and Expect
// are shared with the table and must be treated as read-only.
func (t *Table) Entry(key, method string) (MethodEntry, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	r, ok := t.routes[key]
	if !ok {
		return MethodEntry{}, fmt.Errorf("%w: failed to parse URL from %s", fetchsim.ErrRouteNotFound, key)
	}
	e, ok := r.Method(method)
	if !ok {
		return MethodEntry{}, fmt.Errorf("%w: %s has no %s method", fetchsim.ErrRouteNotFound, key, method)
	}
	return e, nil
}

// Snapshot returns a deep copy of the table. Mutating the result never affects
// the table.
func (t *Table) Snapshot() (map[string]*Route, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make(map[string]*Route, len(t.routes))
	if err := copier.CopyWithOption(&out, &t.routes, copier.Option{DeepCopy: true}); err != nil {
		return nil, fmt.Errorf("failed to copy route table: %w", err)
	}
	return out, nil
}

// Keys returns the registered URLs in sorted order.
func (t *Table) Keys() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	keys := make([]string, 0, len(t.routes))
	for k := range t.routes {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Len returns the number of registered routes.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.routes)
}
