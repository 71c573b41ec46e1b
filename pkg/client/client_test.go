package client_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/savedobjects/pkg/client"
	"github.com/mesh-intelligence/savedobjects/pkg/sqlite"
	"github.com/mesh-intelligence/savedobjects/pkg/types"
)

type dashboard struct {
	Title string `json:"title"`
}

func newSQLiteClient(t *testing.T, opts ...client.Option) *client.Client[dashboard] {
	t.Helper()
	backend := sqlite.NewBackend()
	require.NoError(t, backend.Attach(types.Config{Backend: types.BackendSQLite, DataDir: t.TempDir()}))
	t.Cleanup(func() { backend.Detach() })
	registry := testRegistry()
	return client.New[dashboard](sqlite.NewRepository[dashboard](backend, registry), registry, opts...)
}

func TestWorkspaceScenario(t *testing.T) {
	ctx := context.Background()
	c := newSQLiteClient(t)

	_, err := c.Create(ctx, "dashboard", dashboard{Title: "Sales"}, types.CreateOptions{
		ID:          "d1",
		Workspaces:  []string{"ws-a"},
		Permissions: types.Permissions{"write": {Users: []string{"alice"}}},
	})
	require.NoError(t, err)

	obj, err := c.AddToWorkspaces(ctx, "dashboard", "d1", []string{"ws-b"}, types.AddToWorkspacesOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"ws-a", "ws-b"}, obj.Workspaces)

	// Adding a present member leaves the set as is.
	obj, err = c.AddToWorkspaces(ctx, "dashboard", "d1", []string{"ws-a"}, types.AddToWorkspacesOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"ws-a", "ws-b"}, obj.Workspaces)

	_, err = c.DeleteFromWorkspaces(ctx, "dashboard", "d1", []string{"ws-a", "ws-b"}, types.DeleteFromWorkspacesOptions{})
	require.NoError(t, err)

	got, err := c.Get(ctx, "dashboard", "d1", types.BaseOptions{})
	require.NoError(t, err)
	assert.Nil(t, got.Workspaces)
	assert.Equal(t, "Sales", got.Attributes.Title)
	assert.Equal(t, []string{"alice"}, got.Permissions["write"].Users)

	// Removing a member that is not present is a no-op on the set.
	got, err = c.DeleteFromWorkspaces(ctx, "dashboard", "d1", []string{"ws-z"}, types.DeleteFromWorkspacesOptions{})
	require.NoError(t, err)
	assert.Nil(t, got.Workspaces)
}

func TestConcurrentAddToNamespaces(t *testing.T) {
	ctx := context.Background()
	c := newSQLiteClient(t)

	created, err := c.Create(ctx, "index-pattern", dashboard{Title: "logs-*"}, types.CreateOptions{ID: "ip1"})
	require.NoError(t, err)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, ns := range []string{"space-a", "space-b"} {
		wg.Add(1)
		go func(i int, ns string) {
			defer wg.Done()
			_, errs[i] = c.AddToNamespaces(ctx, "index-pattern", "ip1", []string{ns},
				types.AddToNamespacesOptions{Version: created.Version})
		}(i, ns)
	}
	wg.Wait()

	var ok, conflicts int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case types.IsConflict(err):
			conflicts++
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, 1, conflicts)

	got, err := c.Get(ctx, "index-pattern", "ip1", types.BaseOptions{})
	require.NoError(t, err)
	assert.Len(t, got.Namespaces, 2)
}

func TestNamespaceMembership(t *testing.T) {
	ctx := context.Background()
	c := newSQLiteClient(t)

	_, err := c.Create(ctx, "index-pattern", dashboard{Title: "logs-*"}, types.CreateOptions{ID: "ip1"})
	require.NoError(t, err)

	resp, err := c.AddToNamespaces(ctx, "index-pattern", "ip1", []string{"space-a", "space-a"}, types.AddToNamespacesOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"default", "space-a"}, resp.Namespaces)

	// Visible from the new namespace.
	_, err = c.Get(ctx, "index-pattern", "ip1", types.BaseOptions{Namespace: "space-a"})
	require.NoError(t, err)

	resp, err = c.DeleteFromNamespaces(ctx, "index-pattern", "ip1", []string{"default"}, types.DeleteFromNamespacesOptions{Namespace: "space-a"})
	require.NoError(t, err)
	assert.Equal(t, []string{"space-a"}, resp.Namespaces)

	_, err = c.Get(ctx, "index-pattern", "ip1", types.BaseOptions{})
	assert.True(t, types.IsNotFound(err))

	resp, err = c.DeleteFromNamespaces(ctx, "index-pattern", "ip1", []string{"space-a"}, types.DeleteFromNamespacesOptions{Namespace: "space-a"})
	require.NoError(t, err)
	assert.Empty(t, resp.Namespaces)

	_, err = c.Get(ctx, "index-pattern", "ip1", types.BaseOptions{Namespace: "*"})
	assert.True(t, types.IsNotFound(err))
}

func TestCheckConflictsAgainstSQLite(t *testing.T) {
	ctx := context.Background()
	c := newSQLiteClient(t)

	_, err := c.Create(ctx, "dashboard", dashboard{Title: "local"}, types.CreateOptions{ID: "d1"})
	require.NoError(t, err)
	_, err = c.Create(ctx, "index-pattern", dashboard{Title: "elsewhere"}, types.CreateOptions{ID: "ip1", Namespace: "space-b"})
	require.NoError(t, err)

	resp, err := c.CheckConflicts(ctx, []types.CheckConflictsObject{
		{Type: "dashboard", ID: "d1"},
		{Type: "dashboard", ID: "d2"},
		{Type: "index-pattern", ID: "ip1"},
	}, types.CheckConflictsOptions{})
	require.NoError(t, err)
	require.Len(t, resp.Errors, 2)
	assert.Equal(t, "d1", resp.Errors[0].ID)
	assert.False(t, types.IsUnresolvableConflict(resp.Errors[0].Error))
	assert.True(t, types.IsConflict(resp.Errors[0].Error))
	assert.Equal(t, "ip1", resp.Errors[1].ID)
	assert.True(t, types.IsUnresolvableConflict(resp.Errors[1].Error))

	// From space-b the same id is a plain, overwritable conflict.
	resp, err = c.CheckConflicts(ctx, []types.CheckConflictsObject{{Type: "index-pattern", ID: "ip1"}},
		types.CheckConflictsOptions{Namespace: "space-b"})
	require.NoError(t, err)
	require.Len(t, resp.Errors, 1)
	assert.False(t, types.IsUnresolvableConflict(resp.Errors[0].Error))
}

func TestDefaultNamespaceSpelledOut(t *testing.T) {
	ctx := context.Background()
	c := newSQLiteClient(t)

	_, err := c.Create(ctx, "dashboard", dashboard{Title: "Sales"}, types.CreateOptions{ID: "d1"})
	require.NoError(t, err)

	got, err := c.Get(ctx, "dashboard", "d1", types.BaseOptions{Namespace: types.DefaultNamespaceString})
	require.NoError(t, err)
	assert.Equal(t, "Sales", got.Attributes.Title)

	resp, err := c.CheckConflicts(ctx, []types.CheckConflictsObject{{Type: "dashboard", ID: "d1"}},
		types.CheckConflictsOptions{Namespace: types.DefaultNamespaceString})
	require.NoError(t, err)
	require.Len(t, resp.Errors, 1)
	assert.True(t, types.IsConflict(resp.Errors[0].Error))

	_, err = c.Create(ctx, "dashboard", dashboard{Title: "dup"}, types.CreateOptions{ID: "d1", Namespace: types.DefaultNamespaceString})
	assert.True(t, types.IsConflict(err))

	found, err := c.Find(ctx, types.FindOptions{Type: []string{"dashboard"}})
	require.NoError(t, err)
	assert.Equal(t, 1, found.Total)
}

func TestBulkOrderAndIsolation(t *testing.T) {
	ctx := context.Background()
	c := newSQLiteClient(t, client.WithNamespace("space-a"))

	_, err := c.Create(ctx, "dashboard", dashboard{Title: "taken"}, types.CreateOptions{ID: "d2"})
	require.NoError(t, err)

	resp, err := c.BulkCreate(ctx, []types.BulkCreateObject[dashboard]{
		{ID: "d1", Type: "dashboard", Attributes: dashboard{Title: "one"}},
		{ID: "d2", Type: "dashboard", Attributes: dashboard{Title: "dup"}},
		{ID: "d3", Type: "dashboard", Attributes: dashboard{Title: "three"}},
	}, types.BulkCreateOptions{})
	require.NoError(t, err)
	require.Len(t, resp.SavedObjects, 3)
	assert.Equal(t, []string{"d1", "d2", "d3"}, []string{resp.SavedObjects[0].ID, resp.SavedObjects[1].ID, resp.SavedObjects[2].ID})
	assert.Nil(t, resp.SavedObjects[0].Error)
	assert.True(t, types.IsConflict(resp.SavedObjects[1].Error))
	assert.Empty(t, resp.SavedObjects[1].Attributes.Title)
	assert.Nil(t, resp.SavedObjects[2].Error)
	assert.Equal(t, []string{"space-a"}, resp.SavedObjects[2].Namespaces)
}

func TestStaleVersionLeavesObjectUnchanged(t *testing.T) {
	ctx := context.Background()
	c := newSQLiteClient(t)

	v1, err := c.Create(ctx, "dashboard", dashboard{Title: "v1"}, types.CreateOptions{ID: "d1"})
	require.NoError(t, err)
	v2, err := c.Update(ctx, "dashboard", "d1", dashboard{Title: "v2"}, types.UpdateOptions{Version: v1.Version})
	require.NoError(t, err)
	assert.NotEqual(t, v1.Version, v2.Version)

	_, err = c.Update(ctx, "dashboard", "d1", dashboard{Title: "lost"}, types.UpdateOptions{Version: v1.Version})
	assert.True(t, types.IsConflict(err))

	got, err := c.Get(ctx, "dashboard", "d1", types.BaseOptions{})
	require.NoError(t, err)
	assert.Equal(t, "v2", got.Attributes.Title)
	assert.Equal(t, v2.Version, got.Version)
}
