// Package locks pins trait values across regenerations.
package locks

import (
	"sort"
	"strings"

	"sidequest/internal/random"
)

const (
	FirstName = "firstName"
	LastName  = "lastName"
)

// Registry maps a trait key to its pinned value. Generators only read it.
type Registry struct {
	values map[string]string
}

func New() *Registry {
	return &Registry{values: make(map[string]string)}
}

func (r *Registry) IsLocked(key string) bool {
	_, ok := r.values[key]
	return ok
}

func (r *Registry) Value(key string) (string, bool) {
	v, ok := r.values[key]
	return v, ok
}

func (r *Registry) Lock(key, value string) {
	r.values[key] = strings.TrimSpace(value)
}

func (r *Registry) Unlock(key string) {
	delete(r.values, key)
}

// Toggle unlocks key when locked, otherwise locks it to current.
// It reports the resulting lock state.
func (r *Registry) Toggle(key, current string) bool {
	if r.IsLocked(key) {
		r.Unlock(key)
		return false
	}
	r.Lock(key, current)
	return true
}

// NameLocked reports whether both halves of the name are pinned.
func (r *Registry) NameLocked() bool {
	return r.IsLocked(FirstName) && r.IsLocked(LastName)
}

// ToggleName locks or unlocks first and last name together.
func (r *Registry) ToggleName(first, last string) bool {
	if r.NameLocked() {
		r.Unlock(FirstName)
		r.Unlock(LastName)
		return false
	}
	r.Lock(FirstName, first)
	r.Lock(LastName, last)
	return true
}

// Keys returns the locked keys in sorted order.
func (r *Registry) Keys() []string {
	keys := make([]string, 0, len(r.values))
	for key := range r.values {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Snapshot copies the current locks.
func (r *Registry) Snapshot() map[string]string {
	out := make(map[string]string, len(r.values))
	for k, v := range r.values {
		out[k] = v
	}
	return out
}

func (r *Registry) Reset() {
	r.values = make(map[string]string)
}

// Resolve returns the locked value for key, else one pick from pool, else
// fallback.
func (r *Registry) Resolve(sel *random.Selector, key string, pool []string, fallback string) string {
	if v, ok := r.Value(key); ok {
		return v
	}
	if v, ok := sel.PickOne(pool); ok && v != "" {
		return v
	}
	return fallback
}

// ResolveMany is Resolve for traits that take several distinct values joined
// by sep.
func (r *Registry) ResolveMany(sel *random.Selector, key string, pool []string, fallback string, count int, sep string) string {
	if v, ok := r.Value(key); ok {
		return v
	}
	if count <= 1 {
		return r.Resolve(sel, key, pool, fallback)
	}
	picked := sel.PickMany(pool, count)
	if len(picked) == 0 {
		return fallback
	}
	return strings.Join(picked, sep)
}
