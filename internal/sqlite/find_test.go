// Tests for Find filtering, sorting and paging.
package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/savedobjects/pkg/types"
)

func seedFindRepo(t *testing.T) *Repository[testAttrs] {
	t.Helper()
	ctx := context.Background()
	repo := newTestRepo(t)
	clock := time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC)
	repo.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}

	create := func(typ, id string, attrs testAttrs, opts types.CreateOptions) {
		opts.ID = id
		_, err := repo.Create(ctx, typ, attrs, opts)
		require.NoError(t, err)
	}
	create("dashboard", "d1", testAttrs{Title: "Sales Overview"}, types.CreateOptions{Workspaces: []string{"ws-a"}})
	create("dashboard", "d2", testAttrs{Title: "Traffic", Description: "sales by region"}, types.CreateOptions{
		References: []types.Reference{{Name: "panel_0", Type: "visualization", ID: "v1"}},
	})
	create("dashboard", "d3", testAttrs{Title: "Hidden sales"}, types.CreateOptions{Namespace: "space-a"})
	create("visualization", "v1", testAttrs{Title: "Pie"}, types.CreateOptions{Workspaces: []string{"ws-b"}})
	create("index-pattern", "ip1", testAttrs{Title: "logs-*"}, types.CreateOptions{InitialNamespaces: []string{"space-a", "default"}})
	create("config", "c1", testAttrs{Title: "settings"}, types.CreateOptions{Namespace: "space-b"})
	return repo
}

func foundIDs(resp *types.FindResponse[testAttrs]) []string {
	ids := make([]string, 0, len(resp.SavedObjects))
	for _, o := range resp.SavedObjects {
		ids = append(ids, o.ID)
	}
	return ids
}

func TestRepository_Find(t *testing.T) {
	repo := seedFindRepo(t)

	tests := []struct {
		name    string
		opts    types.FindOptions
		wantIDs []string
	}{
		{
			name:    "default namespace, all types",
			opts:    types.FindOptions{},
			wantIDs: []string{"c1", "d1", "d2", "ip1", "v1"},
		},
		{
			name:    "one type",
			opts:    types.FindOptions{Type: []string{"dashboard"}},
			wantIDs: []string{"d1", "d2"},
		},
		{
			name:    "unregistered type only",
			opts:    types.FindOptions{Type: []string{"nope"}},
			wantIDs: []string{},
		},
		{
			name:    "other namespace",
			opts:    types.FindOptions{Type: []string{"dashboard", "index-pattern"}, Namespaces: []string{"space-a"}},
			wantIDs: []string{"d3", "ip1"},
		},
		{
			name:    "all namespaces",
			opts:    types.FindOptions{Type: []string{"dashboard"}, Namespaces: []string{"*"}},
			wantIDs: []string{"d1", "d2", "d3"},
		},
		{
			name:    "search any field",
			opts:    types.FindOptions{Search: "SALES*"},
			wantIDs: []string{"d1", "d2"},
		},
		{
			name:    "search restricted fields",
			opts:    types.FindOptions{Search: "sales", SearchFields: []string{"title"}},
			wantIDs: []string{"d1"},
		},
		{
			name:    "workspaces",
			opts:    types.FindOptions{Workspaces: []string{"ws-a", "ws-b"}},
			wantIDs: []string{"d1", "v1"},
		},
		{
			name:    "has reference",
			opts:    types.FindOptions{HasReference: &types.Reference{Type: "visualization", ID: "v1"}},
			wantIDs: []string{"d2"},
		},
		{
			name:    "sort by updated_at desc",
			opts:    types.FindOptions{Type: []string{"dashboard", "visualization"}, SortField: types.SortFieldUpdatedAt, SortOrder: types.SortDesc},
			wantIDs: []string{"v1", "d2", "d1"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := repo.Find(context.Background(), tt.opts)
			require.NoError(t, err)
			assert.Equal(t, tt.wantIDs, foundIDs(resp))
			assert.Equal(t, len(tt.wantIDs), resp.Total)
			assert.Equal(t, types.DefaultPage, resp.Page)
			assert.Equal(t, types.DefaultPerPage, resp.PerPage)
		})
	}
}

func TestRepository_FindPaging(t *testing.T) {
	repo := seedFindRepo(t)
	ctx := context.Background()

	resp, err := repo.Find(ctx, types.FindOptions{Page: 2, PerPage: 2})
	require.NoError(t, err)
	assert.Equal(t, 5, resp.Total)
	assert.Equal(t, []string{"d2", "ip1"}, foundIDs(resp))

	resp, err = repo.Find(ctx, types.FindOptions{Page: 4, PerPage: 2})
	require.NoError(t, err)
	assert.Equal(t, 5, resp.Total)
	assert.Empty(t, resp.SavedObjects)
}

func TestRepository_FindScore(t *testing.T) {
	repo := seedFindRepo(t)
	resp, err := repo.Find(context.Background(), types.FindOptions{Type: []string{"dashboard"}, Search: "sales"})
	require.NoError(t, err)
	require.Len(t, resp.SavedObjects, 2)
	for _, o := range resp.SavedObjects {
		assert.Greater(t, o.Score, 0.0)
	}
}

func TestRepository_FindInvalidOptions(t *testing.T) {
	repo := newTestRepo(t)
	tests := []struct {
		name string
		opts types.FindOptions
	}{
		{"negative page", types.FindOptions{Page: -1}},
		{"negative per page", types.FindOptions{PerPage: -5}},
		{"unknown sort field", types.FindOptions{SortField: "title"}},
		{"unknown sort order", types.FindOptions{SortOrder: "sideways"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := repo.Find(context.Background(), tt.opts)
			assert.True(t, types.IsBadRequest(err))
		})
	}
}
