package types

import "context"

// Repository is the storage capability the client façade delegates to. An
// implementation must make single-object writes atomic, enforce Version
// checks itself, and process bulk calls as one batch with independent
// per-item failures. Failures are *Error values from this package.
type Repository[T any] interface {
	// Create stores a new object, or replaces one when opts.Overwrite is set.
	// Returns a Conflict error if the id is taken and Overwrite is not set.
	Create(ctx context.Context, typ string, attributes T, opts CreateOptions) (*SavedObject[T], error)

	// BulkCreate creates every item; failed items carry Error.
	BulkCreate(ctx context.Context, objects []BulkCreateObject[T], opts BulkCreateOptions) (*BulkResponse[T], error)

	// Get returns the object visible in opts.Namespace. With the "*"
	// namespace a multi-namespace object is returned wherever it lives.
	Get(ctx context.Context, typ, id string, opts BaseOptions) (*SavedObject[T], error)

	// BulkGet reads every item; missing items carry a NotFound Error.
	BulkGet(ctx context.Context, objects []BulkGetObject, opts BaseOptions) (*BulkResponse[T], error)

	// Update replaces the attributes of an existing object and every
	// non-nil field of opts.
	Update(ctx context.Context, typ, id string, attributes T, opts UpdateOptions) (*SavedObject[T], error)

	// BulkUpdate updates every item; failed items carry Error.
	BulkUpdate(ctx context.Context, objects []BulkUpdateObject[T], opts BulkUpdateOptions) (*BulkResponse[T], error)

	// Delete removes an object from storage.
	Delete(ctx context.Context, typ, id string, opts DeleteOptions) error

	// DeleteByNamespace removes a namespace's objects and strips the
	// namespace from shared ones. Returns the number of objects touched.
	DeleteByNamespace(ctx context.Context, namespace string, opts DeleteByNamespaceOptions) (int, error)

	// DeleteByWorkspace removes every object assigned to workspace without
	// per-object version checks. Returns the number of objects removed.
	DeleteByWorkspace(ctx context.Context, workspace string, opts DeleteByWorkspaceOptions) (int, error)

	// Find returns one page of objects matching opts.
	Find(ctx context.Context, opts FindOptions) (*FindResponse[T], error)

	// UpdateNamespaces replaces the Namespaces set of a multi-namespace
	// object in one versioned write.
	UpdateNamespaces(ctx context.Context, typ, id string, namespaces []string, opts UpdateNamespacesOptions) (*SavedObject[T], error)
}
