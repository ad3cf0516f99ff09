// Package registry maps type tags to values, usually constructors.
// Registration rejects empty and duplicate tags so lookups can trust
// the table once it has been built.
package registry

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"sync"
)

var (
	ErrEmptyTag     = errors.New("registry: empty tag")
	ErrDuplicateTag = errors.New("registry: duplicate tag")
	ErrNilEntry     = errors.New("registry: nil entry")
	ErrUnknownTag   = errors.New("registry: unknown tag")
)

// Registry is a tag-keyed table safe for concurrent use
type Registry[K ~string, V any] struct {
	mu      sync.RWMutex
	entries map[K]V
}

// New creates an empty Registry
func New[K ~string, V any]() *Registry[K, V] {
	return &Registry[K, V]{entries: make(map[K]V)}
}

// Register adds an entry under a tag
func (r *Registry[K, V]) Register(tag K, entry V) error {
	if tag == "" {
		return ErrEmptyTag
	}
	if isNil(entry) {
		return fmt.Errorf("%w: %s", ErrNilEntry, tag)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.entries[tag]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateTag, tag)
	}
	r.entries[tag] = entry
	return nil
}

// MustRegister is Register for static tables built at start-up
func (r *Registry[K, V]) MustRegister(tag K, entry V) {
	if err := r.Register(tag, entry); err != nil {
		panic(err)
	}
}

// Lookup returns the entry for a tag
func (r *Registry[K, V]) Lookup(tag K) (V, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.entries[tag]
	if !ok {
		var zero V
		return zero, fmt.Errorf("%w: %s", ErrUnknownTag, tag)
	}
	return entry, nil
}

// Tags returns the registered tags in sorted order
func (r *Registry[K, V]) Tags() []K {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tags := make([]K, 0, len(r.entries))
	for tag := range r.entries {
		tags = append(tags, tag)
	}
	sort.Slice(tags, func(i, j int) bool { return tags[i] < tags[j] })
	return tags
}

func isNil(v any) bool {
	rv := reflect.ValueOf(v)
	if !rv.IsValid() {
		return true
	}
	switch rv.Kind() {
	case reflect.Func, reflect.Pointer, reflect.Map, reflect.Chan, reflect.Interface, reflect.Slice:
		return rv.IsNil()
	}
	return false
}
