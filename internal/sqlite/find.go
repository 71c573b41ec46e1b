// This file implements Find. Candidate rows are narrowed by type in SQL;
// namespace, workspace, reference and search filters run over the decoded
// rows.
package sqlite

import (
	"context"
	"sort"
	"strings"

	"github.com/goccy/go-json"

	"github.com/mesh-intelligence/savedobjects/pkg/types"
)

// findFilter is FindOptions with defaults applied.
type findFilter struct {
	namespaces    []string
	allNamespaces bool
	workspaces    []string
	reference     *types.Reference
	search        string
	searchFields  []string
}

func newFindFilter(opts types.FindOptions) findFilter {
	f := findFilter{
		workspaces:   opts.Workspaces,
		reference:    opts.HasReference,
		search:       strings.ToLower(strings.TrimSuffix(strings.TrimSpace(opts.Search), "*")),
		searchFields: opts.SearchFields,
	}
	namespaces := opts.Namespaces
	if len(namespaces) == 0 {
		namespaces = []string{""}
	}
	for _, ns := range namespaces {
		if ns == types.AllNamespacesString {
			f.allNamespaces = true
		}
		f.namespaces = append(f.namespaces, types.NamespaceIDToString(ns))
	}
	return f
}

func (f findFilter) visible(def types.TypeDefinition, d *rawDoc) bool {
	if f.allNamespaces {
		return true
	}
	switch def.NamespaceType {
	case types.NamespaceTypeSingle:
		return types.ContainsString(f.namespaces, types.NamespaceIDToString(d.Namespace))
	case types.NamespaceTypeMultiple:
		return types.Intersects(d.Namespaces, f.namespaces)
	default:
		return true
	}
}

// match reports whether d passes every filter, and its score.
func (f findFilter) match(def types.TypeDefinition, d *rawDoc) (bool, float64) {
	if !f.visible(def, d) {
		return false, 0
	}
	if len(f.workspaces) > 0 && !types.Intersects(d.Workspaces, f.workspaces) {
		return false, 0
	}
	if f.reference != nil && !hasReference(d.References, *f.reference) {
		return false, 0
	}
	if f.search == "" {
		return true, 0
	}
	hits := f.searchHits(d.Attributes)
	return hits > 0, float64(hits)
}

func hasReference(refs []types.Reference, want types.Reference) bool {
	for _, ref := range refs {
		if ref.Type == want.Type && ref.ID == want.ID {
			return true
		}
	}
	return false
}

// searchHits counts the string values of attributes containing the search
// term, limited to searchFields when set.
func (f findFilter) searchHits(attributes json.RawMessage) int {
	var v any
	if err := json.Unmarshal(attributes, &v); err != nil {
		return 0
	}
	if len(f.searchFields) == 0 {
		return countHits(v, f.search)
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return 0
	}
	hits := 0
	for _, field := range f.searchFields {
		if fv, ok := obj[field]; ok {
			hits += countHits(fv, f.search)
		}
	}
	return hits
}

func countHits(v any, term string) int {
	switch val := v.(type) {
	case string:
		if strings.Contains(strings.ToLower(val), term) {
			return 1
		}
	case []any:
		n := 0
		for _, item := range val {
			n += countHits(item, term)
		}
		return n
	case map[string]any:
		n := 0
		for _, item := range val {
			n += countHits(item, term)
		}
		return n
	}
	return 0
}

// findTypes returns the registered types Find should scan.
func (r *Repository[T]) findTypes(requested []string) []string {
	if len(requested) == 0 {
		return r.registry.Types()
	}
	var out []string
	for _, typ := range requested {
		if r.registry.IsRegistered(typ) {
			out = append(out, typ)
		}
	}
	return out
}

func sortDocs(docs []*rawDoc, field, order string) {
	less := func(a, b *rawDoc) bool {
		switch field {
		case types.SortFieldUpdatedAt:
			if a.UpdatedAt != b.UpdatedAt {
				return a.UpdatedAt < b.UpdatedAt
			}
		case types.SortFieldID:
			if a.ID != b.ID {
				return a.ID < b.ID
			}
		}
		if a.Type != b.Type {
			return a.Type < b.Type
		}
		if a.ID != b.ID {
			return a.ID < b.ID
		}
		return a.RawID < b.RawID
	}
	sort.SliceStable(docs, func(i, j int) bool {
		if order == types.SortDesc {
			return less(docs[j], docs[i])
		}
		return less(docs[i], docs[j])
	})
}

// Find returns one page of objects matching opts. Results are ordered by
// SortField (type then id by default), ascending unless SortOrder is desc.
func (r *Repository[T]) Find(ctx context.Context, opts types.FindOptions) (*types.FindResponse[T], error) {
	page, perPage := opts.Page, opts.PerPage
	if page == 0 {
		page = types.DefaultPage
	}
	if perPage == 0 {
		perPage = types.DefaultPerPage
	}
	if page < 0 || perPage < 0 {
		return nil, types.NewBadRequestError("page and perPage must be positive")
	}
	switch opts.SortField {
	case "", types.SortFieldUpdatedAt, types.SortFieldType, types.SortFieldID:
	default:
		return nil, types.NewBadRequestError("unsupported sort field %q", opts.SortField)
	}
	switch opts.SortOrder {
	case "", types.SortAsc, types.SortDesc:
	default:
		return nil, types.NewBadRequestError("unsupported sort order %q", opts.SortOrder)
	}

	resp := &types.FindResponse[T]{
		Page:         page,
		PerPage:      perPage,
		SavedObjects: []types.FindResult[T]{},
	}
	typs := r.findTypes(opts.Type)
	if len(typs) == 0 {
		return resp, nil
	}

	filter := newFindFilter(opts)
	err := r.backend.read(ctx, func(q querier) error {
		docs, err := listDocs(ctx, q, typs)
		if err != nil {
			return err
		}

		scores := make(map[string]float64)
		var matched []*rawDoc
		for _, d := range docs {
			def, _ := r.registry.Get(d.Type)
			ok, score := filter.match(def, d)
			if !ok {
				continue
			}
			scores[d.RawID] = score
			matched = append(matched, d)
		}
		sortDocs(matched, opts.SortField, opts.SortOrder)
		resp.Total = len(matched)

		start := (page - 1) * perPage
		if start >= len(matched) {
			return nil
		}
		end := start + perPage
		if end > len(matched) {
			end = len(matched)
		}
		for _, d := range matched[start:end] {
			def, _ := r.registry.Get(d.Type)
			obj, err := r.decodeObject(def, d)
			if err != nil {
				return err
			}
			resp.SavedObjects = append(resp.SavedObjects, types.FindResult[T]{
				SavedObject: *obj,
				Score:       scores[d.RawID],
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}
