package client

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/mesh-intelligence/savedobjects/internal/logging"
	"github.com/mesh-intelligence/savedobjects/internal/tracing"
	"github.com/mesh-intelligence/savedobjects/pkg/types"
)

// workspaceWrite names the two ways a workspace change is persisted.
type workspaceWrite string

const (
	// writeUpdate keeps the object and replaces its workspaces.
	writeUpdate workspaceWrite = "update"
	// writeOverwrite recreates the object without a workspaces field. An
	// update can only add or replace fields, so this is the only way to drop
	// the field.
	writeOverwrite workspaceWrite = "overwrite_create"
)

func chooseWorkspaceWrite(next []string) workspaceWrite {
	if len(next) == 0 {
		return writeOverwrite
	}
	return writeUpdate
}

// AddToWorkspaces assigns an object to more workspaces and returns the
// updated object.
func (c *Client[T]) AddToWorkspaces(ctx context.Context, typ, id string, workspaces []string, opts types.AddToWorkspacesOptions) (obj *types.SavedObject[T], err error) {
	namespace := c.scope(opts.Namespace)
	ctx, span := c.startSpan(ctx, "add_to_workspaces", tracing.ObjectAttributes(typ, id, namespace)...)
	defer func() { err = finish(ctx, span, err) }()

	if len(workspaces) == 0 {
		return nil, types.NewInvalidArgumentError("workspaces must be a non-empty array of strings")
	}
	return c.changeWorkspaces(ctx, span, typ, id, namespace, opts.Refresh, func(current []string) []string {
		return types.UnionStrings(current, workspaces)
	})
}

// DeleteFromWorkspaces unassigns an object from workspaces and returns the
// updated object. An object left without workspaces still exists, with the
// workspaces field absent.
func (c *Client[T]) DeleteFromWorkspaces(ctx context.Context, typ, id string, workspaces []string, opts types.DeleteFromWorkspacesOptions) (obj *types.SavedObject[T], err error) {
	namespace := c.scope(opts.Namespace)
	ctx, span := c.startSpan(ctx, "delete_from_workspaces", tracing.ObjectAttributes(typ, id, namespace)...)
	defer func() { err = finish(ctx, span, err) }()

	if len(workspaces) == 0 {
		return nil, types.NewInvalidArgumentError("workspaces must be a non-empty array of strings")
	}
	return c.changeWorkspaces(ctx, span, typ, id, namespace, opts.Refresh, func(current []string) []string {
		return types.DifferenceStrings(current, workspaces)
	})
}

// changeWorkspaces reads the object, computes its next workspace set and
// writes it back carrying the version just read.
func (c *Client[T]) changeWorkspaces(ctx context.Context, span trace.Span, typ, id, namespace string, refresh types.Refresh, compute func([]string) []string) (*types.SavedObject[T], error) {
	logger := logging.WithObject(c.logger, typ, id)

	current, version, err := c.readForWrite(ctx, typ, id, namespace, "")
	if err != nil {
		return nil, err
	}
	next := compute(current.Workspaces)
	path := chooseWorkspaceWrite(next)
	span.SetAttributes(attribute.String(tracing.AttrKeyWritePath, string(path)))
	logger.Debug().
		Str("path", string(path)).
		Strs("workspaces", next).
		Msg("writing workspaces")

	var obj *types.SavedObject[T]
	switch path {
	case writeUpdate:
		obj, err = c.repo.Update(ctx, typ, id, current.Attributes, types.UpdateOptions{
			Namespace:  namespace,
			Version:    version,
			Workspaces: next,
			Refresh:    refresh,
		})
	case writeOverwrite:
		obj, err = c.repo.Create(ctx, typ, current.Attributes, types.CreateOptions{
			Namespace:        namespace,
			ID:               id,
			Overwrite:        true,
			Version:          version,
			References:       current.References,
			MigrationVersion: current.MigrationVersion,
			OriginID:         current.OriginID,
			Permissions:      current.Permissions,
			Refresh:          refresh,
		})
	}
	if err != nil {
		return nil, lostRace(logger.With().Str("path", string(path)).Logger(), "workspace", err, typ, id)
	}
	return obj, nil
}
