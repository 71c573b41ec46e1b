package client

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/mesh-intelligence/savedobjects/internal/logging"
	"github.com/mesh-intelligence/savedobjects/internal/tracing"
	"github.com/mesh-intelligence/savedobjects/pkg/types"
)

// checkMultiNamespace rejects namespace changes on types that do not carry a
// Namespaces set.
func (c *Client[T]) checkMultiNamespace(typ string, namespaces []string) error {
	if !c.registry.IsRegistered(typ) {
		return types.NewUnsupportedTypeError(typ)
	}
	if !c.registry.IsMultiNamespace(typ) {
		return types.NewBadRequestError("%s doesn't support multiple namespaces", typ).WithObject(typ, "")
	}
	if len(namespaces) == 0 {
		return types.NewBadRequestError("namespaces must be a non-empty array of strings")
	}
	return nil
}

func namespaceStrings(namespaces []string) []string {
	out := make([]string, len(namespaces))
	for i, ns := range namespaces {
		out[i] = types.NamespaceIDToString(ns)
	}
	return out
}

// readForWrite is the shared pre-read of every membership composite. It
// returns the current object and the version the following write must carry:
// the caller's version when given, otherwise the one just read.
func (c *Client[T]) readForWrite(ctx context.Context, typ, id, namespace, version string) (*types.SavedObject[T], string, error) {
	if err := ctx.Err(); err != nil {
		return nil, "", types.NewCanceledError(err)
	}
	obj, err := c.repo.Get(ctx, typ, id, types.BaseOptions{Namespace: namespace})
	if err != nil {
		return nil, "", err
	}
	if version == "" {
		version = obj.Version
	}
	if err := ctx.Err(); err != nil {
		return nil, "", types.NewCanceledError(err)
	}
	return obj, version, nil
}

// lostRace logs a write that lost a version race and collapses the conflict
// onto the plain Conflict kind so callers cannot tell which step lost.
// Other errors pass through.
func lostRace(logger zerolog.Logger, what string, err error, typ, id string) error {
	if !types.IsConflict(err) {
		return err
	}
	logger.Warn().Msg(what + " update lost a version race")
	return types.NewConflictError(typ, id)
}

// AddToNamespaces shares a multi-namespace object with more namespaces.
// Namespaces already present are kept once.
func (c *Client[T]) AddToNamespaces(ctx context.Context, typ, id string, namespaces []string, opts types.AddToNamespacesOptions) (resp *types.NamespacesResponse, err error) {
	namespace := c.scope(opts.Namespace)
	ctx, span := c.startSpan(ctx, "add_to_namespaces", tracing.ObjectAttributes(typ, id, namespace)...)
	defer func() { err = finish(ctx, span, err) }()

	if err := c.checkMultiNamespace(typ, namespaces); err != nil {
		return nil, err
	}
	logger := logging.WithObject(c.logger, typ, id)

	obj, version, err := c.readForWrite(ctx, typ, id, namespace, opts.Version)
	if err != nil {
		return nil, err
	}
	next := types.UnionStrings(obj.Namespaces, namespaceStrings(namespaces))
	logger.Debug().Strs("namespaces", next).Msg("adding namespaces")

	updated, err := c.repo.UpdateNamespaces(ctx, typ, id, next, types.UpdateNamespacesOptions{
		Namespace: namespace,
		Version:   version,
		Refresh:   opts.Refresh,
	})
	if err != nil {
		return nil, lostRace(logger, "namespace", err, typ, id)
	}
	return &types.NamespacesResponse{Namespaces: updated.Namespaces}, nil
}

// DeleteFromNamespaces unshares a multi-namespace object. When no namespace
// is left the object is deleted and the response holds an empty set.
func (c *Client[T]) DeleteFromNamespaces(ctx context.Context, typ, id string, namespaces []string, opts types.DeleteFromNamespacesOptions) (resp *types.NamespacesResponse, err error) {
	namespace := c.scope(opts.Namespace)
	ctx, span := c.startSpan(ctx, "delete_from_namespaces", tracing.ObjectAttributes(typ, id, namespace)...)
	defer func() { err = finish(ctx, span, err) }()

	if err := c.checkMultiNamespace(typ, namespaces); err != nil {
		return nil, err
	}
	logger := logging.WithObject(c.logger, typ, id)

	obj, version, err := c.readForWrite(ctx, typ, id, namespace, opts.Version)
	if err != nil {
		return nil, err
	}
	next := types.DifferenceStrings(obj.Namespaces, namespaceStrings(namespaces))

	if len(next) == 0 {
		logger.Debug().Msg("last namespace removed, deleting object")
		err := c.repo.Delete(ctx, typ, id, types.DeleteOptions{
			Namespace: namespace,
			Force:     true,
			Version:   version,
			Refresh:   opts.Refresh,
		})
		if err != nil {
			return nil, lostRace(logger, "namespace", err, typ, id)
		}
		return &types.NamespacesResponse{Namespaces: []string{}}, nil
	}

	logger.Debug().Strs("namespaces", next).Msg("removing namespaces")
	updated, err := c.repo.UpdateNamespaces(ctx, typ, id, next, types.UpdateNamespacesOptions{
		Namespace: namespace,
		Version:   version,
		Refresh:   opts.Refresh,
	})
	if err != nil {
		return nil, lostRace(logger, "namespace", err, typ, id)
	}
	return &types.NamespacesResponse{Namespaces: updated.Namespaces}, nil
}
