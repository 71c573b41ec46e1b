// Package client is the saved-objects façade. It forwards plain CRUD calls to
// a types.Repository and implements the composite operations on top of it:
// conflict pre-checks and namespace and workspace membership changes.
//
// Every call runs in a namespace scope: the per-call Namespace option when
// set, otherwise the client's ambient namespace.
package client

import (
	"context"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/mesh-intelligence/savedobjects/internal/logging"
	"github.com/mesh-intelligence/savedobjects/internal/tracing"
	"github.com/mesh-intelligence/savedobjects/pkg/types"
)

// Client is the saved-objects façade for attributes of type T. It holds no
// state besides its configuration and is safe for concurrent use.
type Client[T any] struct {
	repo      types.Repository[T]
	registry  *types.Registry
	namespace string
	logger    zerolog.Logger
}

type options struct {
	namespace string
	logger    zerolog.Logger
}

// Option configures a Client.
type Option func(*options)

// WithNamespace sets the ambient namespace used when a call names none.
func WithNamespace(namespace string) Option {
	return func(o *options) { o.namespace = namespace }
}

// WithLogger sets the client logger.
func WithLogger(l zerolog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// New returns a client over repo. registry tells the composites which types
// are multi-namespace; it must describe the same types repo accepts.
func New[T any](repo types.Repository[T], registry *types.Registry, opts ...Option) *Client[T] {
	o := options{logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(&o)
	}
	return &Client[T]{
		repo:      repo,
		registry:  registry,
		namespace: o.namespace,
		logger:    logging.WithComponent(o.logger, "client"),
	}
}

// Namespace returns the ambient namespace.
func (c *Client[T]) Namespace() string {
	return c.namespace
}

// scope resolves the namespace of one call.
func (c *Client[T]) scope(namespace string) string {
	if namespace != "" {
		return namespace
	}
	return c.namespace
}

// startSpan opens the span of one client operation.
func (c *Client[T]) startSpan(ctx context.Context, op string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	ctx, span := tracing.Start(ctx, "savedobjects.client."+op)
	span.SetAttributes(attrs...)
	return ctx, span
}

// finish records err on the span and returns it.
func finish(ctx context.Context, span trace.Span, err error) error {
	tracing.SetSpanError(ctx, err)
	span.End()
	return err
}

// Create stores a new object.
func (c *Client[T]) Create(ctx context.Context, typ string, attributes T, opts types.CreateOptions) (*types.SavedObject[T], error) {
	opts.Namespace = c.scope(opts.Namespace)
	ctx, span := c.startSpan(ctx, "create", tracing.ObjectAttributes(typ, opts.ID, opts.Namespace)...)
	obj, err := c.repo.Create(ctx, typ, attributes, opts)
	return obj, finish(ctx, span, err)
}

// BulkCreate creates every object; failed entries carry Error.
func (c *Client[T]) BulkCreate(ctx context.Context, objects []types.BulkCreateObject[T], opts types.BulkCreateOptions) (*types.BulkResponse[T], error) {
	if len(objects) == 0 {
		return &types.BulkResponse[T]{SavedObjects: []types.SavedObject[T]{}}, nil
	}
	opts.Namespace = c.scope(opts.Namespace)
	ctx, span := c.startSpan(ctx, "bulk_create", attribute.Int(tracing.AttrKeyBatchSize, len(objects)))
	resp, err := c.repo.BulkCreate(ctx, objects, opts)
	return resp, finish(ctx, span, err)
}

// Get returns one object.
func (c *Client[T]) Get(ctx context.Context, typ, id string, opts types.BaseOptions) (*types.SavedObject[T], error) {
	opts.Namespace = c.scope(opts.Namespace)
	ctx, span := c.startSpan(ctx, "get", tracing.ObjectAttributes(typ, id, opts.Namespace)...)
	obj, err := c.repo.Get(ctx, typ, id, opts)
	return obj, finish(ctx, span, err)
}

// BulkGet reads every object; missing entries carry a NotFound Error.
func (c *Client[T]) BulkGet(ctx context.Context, objects []types.BulkGetObject, opts types.BaseOptions) (*types.BulkResponse[T], error) {
	if len(objects) == 0 {
		return &types.BulkResponse[T]{SavedObjects: []types.SavedObject[T]{}}, nil
	}
	opts.Namespace = c.scope(opts.Namespace)
	ctx, span := c.startSpan(ctx, "bulk_get", attribute.Int(tracing.AttrKeyBatchSize, len(objects)))
	resp, err := c.repo.BulkGet(ctx, objects, opts)
	return resp, finish(ctx, span, err)
}

// Update replaces the attributes of an object.
func (c *Client[T]) Update(ctx context.Context, typ, id string, attributes T, opts types.UpdateOptions) (*types.SavedObject[T], error) {
	opts.Namespace = c.scope(opts.Namespace)
	ctx, span := c.startSpan(ctx, "update", tracing.ObjectAttributes(typ, id, opts.Namespace)...)
	obj, err := c.repo.Update(ctx, typ, id, attributes, opts)
	return obj, finish(ctx, span, err)
}

// BulkUpdate updates every object; failed entries carry Error.
func (c *Client[T]) BulkUpdate(ctx context.Context, objects []types.BulkUpdateObject[T], opts types.BulkUpdateOptions) (*types.BulkResponse[T], error) {
	if len(objects) == 0 {
		return &types.BulkResponse[T]{SavedObjects: []types.SavedObject[T]{}}, nil
	}
	opts.Namespace = c.scope(opts.Namespace)
	ctx, span := c.startSpan(ctx, "bulk_update", attribute.Int(tracing.AttrKeyBatchSize, len(objects)))
	resp, err := c.repo.BulkUpdate(ctx, objects, opts)
	return resp, finish(ctx, span, err)
}

// Delete removes an object.
func (c *Client[T]) Delete(ctx context.Context, typ, id string, opts types.DeleteOptions) error {
	opts.Namespace = c.scope(opts.Namespace)
	ctx, span := c.startSpan(ctx, "delete", tracing.ObjectAttributes(typ, id, opts.Namespace)...)
	return finish(ctx, span, c.repo.Delete(ctx, typ, id, opts))
}

// DeleteByNamespace removes a namespace's objects.
func (c *Client[T]) DeleteByNamespace(ctx context.Context, namespace string, opts types.DeleteByNamespaceOptions) (int, error) {
	ctx, span := c.startSpan(ctx, "delete_by_namespace", attribute.String(tracing.AttrKeyNamespace, namespace))
	n, err := c.repo.DeleteByNamespace(ctx, namespace, opts)
	return n, finish(ctx, span, err)
}

// DeleteByWorkspace removes every object assigned to workspace. It bypasses
// per-object version checks.
func (c *Client[T]) DeleteByWorkspace(ctx context.Context, workspace string, opts types.DeleteByWorkspaceOptions) (int, error) {
	ctx, span := c.startSpan(ctx, "delete_by_workspace", attribute.String("savedobjects.workspace", workspace))
	n, err := c.repo.DeleteByWorkspace(ctx, workspace, opts)
	return n, finish(ctx, span, err)
}

// Find returns one page of matching objects. Without explicit Namespaces the
// search is scoped to the ambient namespace.
func (c *Client[T]) Find(ctx context.Context, opts types.FindOptions) (*types.FindResponse[T], error) {
	if len(opts.Namespaces) == 0 && c.namespace != "" {
		opts.Namespaces = []string{c.namespace}
	}
	ctx, span := c.startSpan(ctx, "find")
	resp, err := c.repo.Find(ctx, opts)
	return resp, finish(ctx, span, err)
}
