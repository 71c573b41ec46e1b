package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry(t *testing.T) {
	r := NewRegistry(
		TypeDefinition{Name: "dashboard", NamespaceType: NamespaceTypeSingle},
		TypeDefinition{Name: "index-pattern", NamespaceType: NamespaceTypeMultiple},
		TypeDefinition{Name: "config", NamespaceType: NamespaceTypeAgnostic},
	)

	assert.True(t, r.IsSingleNamespace("dashboard"))
	assert.True(t, r.IsMultiNamespace("index-pattern"))
	assert.True(t, r.IsNamespaceAgnostic("config"))
	assert.False(t, r.IsRegistered("visualization"))
	assert.False(t, r.IsMultiNamespace("visualization"))
	assert.Equal(t, []string{"config", "dashboard", "index-pattern"}, r.Types())
}

func TestRegistryRegister(t *testing.T) {
	r := NewRegistry()

	require.NoError(t, r.Register(TypeDefinition{Name: "query"}))
	def, ok := r.Get("query")
	require.True(t, ok)
	assert.Equal(t, NamespaceTypeSingle, def.NamespaceType, "empty namespace type defaults to single")

	assert.ErrorIs(t, r.Register(TypeDefinition{Name: "query"}), ErrDuplicateType)
	assert.ErrorIs(t, r.Register(TypeDefinition{}), ErrInvalidTypeName)
	assert.ErrorIs(t, r.Register(TypeDefinition{Name: "x", NamespaceType: "shared"}), ErrInvalidNamespaceType)
}
