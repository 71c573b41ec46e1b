package client

import (
	"context"

	"go.opentelemetry.io/otel/attribute"

	"github.com/mesh-intelligence/savedobjects/internal/tracing"
	"github.com/mesh-intelligence/savedobjects/pkg/types"
)

// CheckConflicts reports which objects cannot be created as is. An id taken
// in the caller's namespace is a resolvable conflict (overwrite it). An id
// taken by a multi-namespace object living only in other namespaces is an
// unresolvable conflict. Objects free to create produce no entry. Entries
// follow input order.
func (c *Client[T]) CheckConflicts(ctx context.Context, objects []types.CheckConflictsObject, opts types.CheckConflictsOptions) (resp *types.CheckConflictsResponse, err error) {
	namespace := c.scope(opts.Namespace)
	ctx, span := c.startSpan(ctx, "check_conflicts",
		attribute.Int(tracing.AttrKeyBatchSize, len(objects)),
		attribute.String(tracing.AttrKeyNamespace, types.NamespaceIDToString(namespace)))
	defer func() { err = finish(ctx, span, err) }()

	if namespace == types.AllNamespacesString {
		return nil, types.NewBadRequestError("%q namespace is not supported by checkConflicts", namespace)
	}
	resp = &types.CheckConflictsResponse{Errors: []types.CheckConflictsError{}}
	if len(objects) == 0 {
		return resp, nil
	}

	found := make([]*types.Error, len(objects))
	var lookup []types.BulkGetObject
	var lookupIdx []int
	for i, obj := range objects {
		if !c.registry.IsRegistered(obj.Type) {
			found[i] = types.NewUnsupportedTypeError(obj.Type).WithObject(obj.Type, obj.ID)
			continue
		}
		lookup = append(lookup, types.BulkGetObject{Type: obj.Type, ID: obj.ID})
		lookupIdx = append(lookupIdx, i)
	}

	// First pass: ids visible in the caller's namespace.
	var shared []types.BulkGetObject
	var sharedIdx []int
	if len(lookup) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, types.NewCanceledError(err)
		}
		local, err := c.repo.BulkGet(ctx, lookup, types.BaseOptions{Namespace: namespace})
		if err != nil {
			return nil, err
		}
		for j, entry := range local.SavedObjects {
			i := lookupIdx[j]
			obj := objects[i]
			switch {
			case entry.Error == nil:
				found[i] = types.NewConflictError(obj.Type, obj.ID)
			case types.IsNotFound(entry.Error):
				if c.registry.IsMultiNamespace(obj.Type) {
					shared = append(shared, lookup[j])
					sharedIdx = append(sharedIdx, i)
				}
			default:
				found[i] = entry.Error
			}
		}
	}

	// Second pass: multi-namespace ids held elsewhere.
	if len(shared) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, types.NewCanceledError(err)
		}
		elsewhere, err := c.repo.BulkGet(ctx, shared, types.BaseOptions{Namespace: types.AllNamespacesString})
		if err != nil {
			return nil, err
		}
		for j, entry := range elsewhere.SavedObjects {
			if entry.Error == nil {
				i := sharedIdx[j]
				found[i] = types.NewUnresolvableConflictError(objects[i].Type, objects[i].ID)
			}
		}
	}

	for i, e := range found {
		if e == nil {
			continue
		}
		resp.Errors = append(resp.Errors, types.CheckConflictsError{
			ID:    objects[i].ID,
			Type:  objects[i].Type,
			Error: e,
		})
	}
	c.logger.Debug().
		Int("objects", len(objects)).
		Int("conflicts", len(resp.Errors)).
		Msg("conflicts checked")
	return resp, nil
}
