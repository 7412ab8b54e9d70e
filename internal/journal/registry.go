package journal

import (
	"fmt"
	"slices"
	"sync"

	"github.com/roach88/journalized/internal/ir"
)

// Registry holds journaling options per entity type.
//
// Each type has a registered baseline and a current value. Set changes the
// current value at runtime; Reset restores the baseline. Registries are plain
// values: tests build their own and never share state through a global.
//
// Thread-safety: Registry is safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	baseline map[string]ir.TypeOptions
	current  map[string]ir.TypeOptions
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		baseline: make(map[string]ir.TypeOptions),
		current:  make(map[string]ir.TypeOptions),
	}
}

// Register declares entityType as journaled with opts as its baseline.
// Registering an existing type replaces both baseline and current options.
func (r *Registry) Register(entityType string, opts ir.TypeOptions) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.baseline[entityType] = opts.Clone()
	r.current[entityType] = opts.Clone()
}

// Options returns the current options of entityType.
func (r *Registry) Options(entityType string) (ir.TypeOptions, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	opts, ok := r.current[entityType]
	if !ok {
		return ir.TypeOptions{}, fmt.Errorf("%s: %w", entityType, ErrNotJournaled)
	}
	return opts.Clone(), nil
}

// Set overrides the current options of a registered type.
func (r *Registry) Set(entityType string, opts ir.TypeOptions) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.baseline[entityType]; !ok {
		return fmt.Errorf("%s: %w", entityType, ErrNotJournaled)
	}
	r.current[entityType] = opts.Clone()
	return nil
}

// Reset restores the registered baseline options of entityType.
func (r *Registry) Reset(entityType string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	base, ok := r.baseline[entityType]
	if !ok {
		return fmt.Errorf("%s: %w", entityType, ErrNotJournaled)
	}
	r.current[entityType] = base.Clone()
	return nil
}

// Journaled reports whether entityType is registered.
func (r *Registry) Journaled(entityType string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.baseline[entityType]
	return ok
}

// Types returns the registered entity types, sorted.
func (r *Registry) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	types := make([]string, 0, len(r.baseline))
	for t := range r.baseline {
		types = append(types, t)
	}
	slices.Sort(types)
	return types
}
