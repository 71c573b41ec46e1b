package types

import (
	"errors"
	"sort"
	"sync"
)

// NamespaceType decides how a saved object type is scoped to namespaces.
type NamespaceType string

// Namespace types.
const (
	// NamespaceTypeSingle objects live in exactly one namespace; their id is
	// unique within (type, namespace).
	NamespaceTypeSingle NamespaceType = "single"
	// NamespaceTypeMultiple objects carry a Namespaces set; their id is unique
	// across all namespaces.
	NamespaceTypeMultiple NamespaceType = "multiple"
	// NamespaceTypeAgnostic objects are visible in every namespace.
	NamespaceTypeAgnostic NamespaceType = "agnostic"
)

// TypeDefinition registers one saved object type.
type TypeDefinition struct {
	Name          string        `json:"name" yaml:"name" mapstructure:"name"`
	NamespaceType NamespaceType `json:"namespace_type" yaml:"namespace_type" mapstructure:"namespace_type"`
}

// Registry errors.
var (
	ErrInvalidTypeName      = errors.New("type name must not be empty")
	ErrInvalidNamespaceType = errors.New("unknown namespace type")
	ErrDuplicateType        = errors.New("type already registered")
)

// Registry holds the known saved object types. It is safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	types map[string]TypeDefinition
}

// NewRegistry returns a registry holding defs. It panics on an invalid
// definition, so it is meant for static setup; use Register otherwise.
func NewRegistry(defs ...TypeDefinition) *Registry {
	r := &Registry{types: make(map[string]TypeDefinition)}
	for _, d := range defs {
		if err := r.Register(d); err != nil {
			panic(err)
		}
	}
	return r
}

// Register adds a type. An empty NamespaceType defaults to single.
func (r *Registry) Register(def TypeDefinition) error {
	if def.Name == "" {
		return ErrInvalidTypeName
	}
	if def.NamespaceType == "" {
		def.NamespaceType = NamespaceTypeSingle
	}
	switch def.NamespaceType {
	case NamespaceTypeSingle, NamespaceTypeMultiple, NamespaceTypeAgnostic:
	default:
		return ErrInvalidNamespaceType
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.types[def.Name]; ok {
		return ErrDuplicateType
	}
	r.types[def.Name] = def
	return nil
}

// Get returns the definition of typ.
func (r *Registry) Get(typ string) (TypeDefinition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.types[typ]
	return d, ok
}

// IsRegistered reports whether typ is known.
func (r *Registry) IsRegistered(typ string) bool {
	_, ok := r.Get(typ)
	return ok
}

// IsSingleNamespace reports whether typ is registered as single-namespace.
func (r *Registry) IsSingleNamespace(typ string) bool {
	d, ok := r.Get(typ)
	return ok && d.NamespaceType == NamespaceTypeSingle
}

// IsMultiNamespace reports whether typ is registered as multi-namespace.
func (r *Registry) IsMultiNamespace(typ string) bool {
	d, ok := r.Get(typ)
	return ok && d.NamespaceType == NamespaceTypeMultiple
}

// IsNamespaceAgnostic reports whether typ is registered as namespace-agnostic.
func (r *Registry) IsNamespaceAgnostic(typ string) bool {
	d, ok := r.Get(typ)
	return ok && d.NamespaceType == NamespaceTypeAgnostic
}

// Types returns the registered type names, sorted.
func (r *Registry) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.types))
	for n := range r.types {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
