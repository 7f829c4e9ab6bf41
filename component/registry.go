package component

import (
	"fmt"
	"sync"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/pdok/deckgo/mapslicehelp"
)

// Factory returns a new instance of a class with its defaults set.
type Factory func() Component

// Class is a registered component class.
type Class struct {
	Properties *Properties
	New        Factory
}

// Registry maps class names to classes. Classes are registered during initialization, after which
// the registry is frozen and safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	frozen  bool
	classes *orderedmap.OrderedMap[string, Class]
}

func NewRegistry() *Registry {
	return &Registry{classes: orderedmap.New[string, Class]()}
}

// Register adds a class. It panics when the registry is frozen or the class name is taken.
func (r *Registry) Register(props *Properties, factory Factory) *Registry {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.frozen {
		panic(fmt.Sprintf("cannot register %s: registry is frozen", props.ClassName()))
	}
	if _, exists := r.classes.Get(props.ClassName()); exists {
		panic(fmt.Sprintf("class %s is already registered", props.ClassName()))
	}
	r.classes.Set(props.ClassName(), Class{Properties: props, New: factory})
	return r
}

// Freeze forbids further registrations.
func (r *Registry) Freeze() *Registry {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frozen = true
	return r
}

func (r *Registry) Frozen() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.frozen
}

// Lookup returns the class registered under name.
func (r *Registry) Lookup(name string) (Class, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	class, ok := r.classes.Get(name)
	if !ok {
		return Class{}, fmt.Errorf(`%w: unknown class with @@type: %s`, ErrLookup, name)
	}
	return class, nil
}

// New instantiates the class registered under name.
func (r *Registry) New(name string) (Component, error) {
	class, err := r.Lookup(name)
	if err != nil {
		return nil, err
	}
	var c Component
	if class.New != nil {
		c = class.New()
	}
	if isNil(c) {
		return nil, fmt.Errorf(`%w: factory of %s returned no instance`, ErrConversion, name)
	}
	if got := ClassName(c); got != name {
		return nil, fmt.Errorf(`%w: factory of %s returned a %s`, ErrConversion, name, got)
	}
	return c, nil
}

// Names returns the registered class names in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return mapslicehelp.OrderedMapKeys(r.classes)
}
