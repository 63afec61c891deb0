package orm

import (
	"fmt"
	"sort"
	"sync"

	"github.com/samber/lo"
)

// Registry, modelleri isimle tutar. Schema loader ve plan cache, model
// adlarını buradan çözer.
type Registry struct {
	mu     sync.RWMutex
	models map[string]*Model
}

func NewRegistry() *Registry {
	return &Registry{models: make(map[string]*Model)}
}

// Register, modelleri ekler. Aynı isimde model varsa error döner.
func (r *Registry) Register(models ...*Model) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, m := range models {
		if m == nil || m.Name == "" {
			return fmt.Errorf("orm: cannot register an unnamed model")
		}
		if _, exists := r.models[m.Name]; exists {
			return fmt.Errorf("orm: model %q already registered", m.Name)
		}
		r.models[m.Name] = m
	}
	return nil
}

// MustRegister, Register hata dönerse panic atar.
func (r *Registry) MustRegister(models ...*Model) *Registry {
	if err := r.Register(models...); err != nil {
		panic(err)
	}
	return r
}

// Model, isimle modeli döner. Yoksa *UnknownModelError.
func (r *Registry) Model(name string) (*Model, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.models[name]
	if !ok {
		return nil, &UnknownModelError{Name: name}
	}
	return m, nil
}

// Names, kayıtlı model isimlerini alfabetik sırayla döner.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := lo.Keys(r.models)
	sort.Strings(names)
	return names
}
