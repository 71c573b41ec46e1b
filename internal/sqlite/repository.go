// This file implements the saved-objects repository over the SQLite backend.
// Every write runs in one transaction and checks the stored (seq_no,
// primary_term) pair, so a stale version never overwrites a newer one.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/mesh-intelligence/savedobjects/pkg/types"
)

// Compile-time interface check.
var _ types.Repository[json.RawMessage] = (*Repository[json.RawMessage])(nil)

// Repository stores SavedObject[T] values. Attributes are encoded as JSON.
type Repository[T any] struct {
	backend  *Backend
	registry *types.Registry
	now      func() time.Time
}

// NewRepository returns a repository over an attached or soon-to-be attached
// backend. Only types known to registry are accepted.
func NewRepository[T any](backend *Backend, registry *types.Registry) *Repository[T] {
	return &Repository[T]{
		backend:  backend,
		registry: registry,
		now:      time.Now,
	}
}

func (r *Repository[T]) typeDef(typ string) (types.TypeDefinition, error) {
	def, ok := r.registry.Get(typ)
	if !ok {
		return types.TypeDefinition{}, types.NewUnsupportedTypeError(typ)
	}
	return def, nil
}

func (r *Repository[T]) timestamp() string {
	return r.now().UTC().Format(time.RFC3339Nano)
}

func encodeAttributes[T any](attributes T) (json.RawMessage, error) {
	data, err := json.Marshal(attributes)
	if err != nil {
		return nil, types.NewBadRequestError("invalid attributes: %v", err)
	}
	return data, nil
}

// decodeObject converts a stored doc into the caller's view.
func (r *Repository[T]) decodeObject(def types.TypeDefinition, d *rawDoc) (*types.SavedObject[T], error) {
	obj := &types.SavedObject[T]{
		ID:               d.ID,
		Type:             d.Type,
		Version:          encodeVersion(d.SeqNo, d.PrimaryTerm),
		References:       d.References,
		MigrationVersion: d.MigrationVersion,
		OriginID:         d.OriginID,
		Permissions:      d.Permissions,
		UpdatedAt:        d.UpdatedAt,
	}
	if d.Workspaces != nil {
		obj.Workspaces = append([]string{}, d.Workspaces...)
	}
	switch def.NamespaceType {
	case types.NamespaceTypeSingle:
		obj.Namespaces = []string{types.NamespaceIDToString(d.Namespace)}
	case types.NamespaceTypeMultiple:
		obj.Namespaces = append([]string{}, d.Namespaces...)
	}
	if err := json.Unmarshal(d.Attributes, &obj.Attributes); err != nil {
		return nil, fmt.Errorf("decoding attributes of %s: %w", d.RawID, err)
	}
	return obj, nil
}

// visibleDoc loads (typ, id) as seen from namespace. A multi-namespace object
// that does not list namespace is reported as not found, as is any object
// when namespace is "*" and the type is not multi-namespace.
func visibleDoc(ctx context.Context, q querier, def types.TypeDefinition, namespace, typ, id string) (*rawDoc, error) {
	all := namespace == types.AllNamespacesString
	if all && def.NamespaceType == types.NamespaceTypeSingle {
		return nil, types.NewBadRequestError("%q namespace is not supported for type %s", namespace, typ)
	}
	d, err := getDoc(ctx, q, rawDocID(def, namespace, typ, id))
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, types.NewNotFoundError(typ, id)
	}
	if def.NamespaceType == types.NamespaceTypeMultiple && !all && !existsInNamespace(d, namespace) {
		return nil, types.NewNotFoundError(typ, id)
	}
	return d, nil
}

// checkVersion reports a Conflict when version is set and d moved on.
func checkVersion(d *rawDoc, version string) error {
	if version == "" {
		return nil
	}
	ok, err := d.matchesVersion(version)
	if err != nil {
		return err
	}
	if !ok {
		return types.NewConflictError(d.Type, d.ID)
	}
	return nil
}

// writeNamespace rejects the all-namespaces sentinel for writes.
func writeNamespace(namespace string) error {
	if namespace == types.AllNamespacesString {
		return types.NewBadRequestError("%q is not a valid namespace for writes", namespace)
	}
	return nil
}

// store writes d over prev (or inserts it when prev is nil), stamping the
// next sequence number. A lost race is a Conflict.
func (r *Repository[T]) store(ctx context.Context, tx *sql.Tx, d, prev *rawDoc) error {
	d.UpdatedAt = r.timestamp()
	d.SeqNo = r.backend.nextSeqNo()
	d.PrimaryTerm = r.backend.primaryTerm()
	if prev == nil {
		return insertDoc(ctx, tx, d)
	}
	ok, err := replaceDoc(ctx, tx, d, prev.SeqNo, prev.PrimaryTerm)
	if err != nil {
		return err
	}
	if !ok {
		return types.NewConflictError(d.Type, d.ID)
	}
	return nil
}

// createDoc implements Create inside tx and returns the stored doc.
func (r *Repository[T]) createDoc(ctx context.Context, tx *sql.Tx, typ string, attributes T, opts types.CreateOptions) (types.TypeDefinition, *rawDoc, error) {
	def, err := r.typeDef(typ)
	if err != nil {
		return def, nil, err
	}
	if err := writeNamespace(opts.Namespace); err != nil {
		return def, nil, err
	}
	if len(opts.InitialNamespaces) > 0 && def.NamespaceType != types.NamespaceTypeMultiple {
		return def, nil, types.NewBadRequestError("initialNamespaces can only be used on multi-namespace types")
	}

	id := opts.ID
	if id == "" {
		u, err := uuid.NewV7()
		if err != nil {
			return def, nil, types.NewUnavailableError(fmt.Errorf("generating id: %w", err))
		}
		id = u.String()
	}

	rawID := rawDocID(def, opts.Namespace, typ, id)
	existing, err := getDoc(ctx, tx, rawID)
	if err != nil {
		return def, nil, err
	}
	if existing != nil {
		if !opts.Overwrite {
			return def, nil, types.NewConflictError(typ, id)
		}
		if def.NamespaceType == types.NamespaceTypeMultiple && !existsInNamespace(existing, opts.Namespace) {
			return def, nil, types.NewConflictError(typ, id)
		}
		if err := checkVersion(existing, opts.Version); err != nil {
			return def, nil, err
		}
	} else if opts.Version != "" {
		if _, _, err := decodeVersion(opts.Version); err != nil {
			return def, nil, err
		}
		return def, nil, types.NewConflictError(typ, id)
	}

	attrs, err := encodeAttributes(attributes)
	if err != nil {
		return def, nil, err
	}

	d := &rawDoc{
		RawID:            rawID,
		Type:             typ,
		ID:               id,
		Attributes:       attrs,
		References:       opts.References,
		Permissions:      opts.Permissions,
		MigrationVersion: opts.MigrationVersion,
		OriginID:         opts.OriginID,
		Workspaces:       opts.Workspaces,
	}
	switch def.NamespaceType {
	case types.NamespaceTypeSingle:
		d.Namespace = types.NamespaceStringToID(opts.Namespace)
	case types.NamespaceTypeMultiple:
		switch {
		case len(opts.InitialNamespaces) > 0:
			d.Namespaces = normalizeNamespaces(opts.InitialNamespaces)
		case existing != nil:
			d.Namespaces = existing.Namespaces
		default:
			d.Namespaces = []string{types.NamespaceIDToString(opts.Namespace)}
		}
	}

	if err := r.store(ctx, tx, d, existing); err != nil {
		return def, nil, err
	}
	return def, d, nil
}

func normalizeNamespaces(namespaces []string) []string {
	out := make([]string, 0, len(namespaces))
	for _, ns := range namespaces {
		out = append(out, types.NamespaceIDToString(ns))
	}
	return types.UnionStrings(nil, out)
}

// Create stores a new object, or replaces one when opts.Overwrite is set.
func (r *Repository[T]) Create(ctx context.Context, typ string, attributes T, opts types.CreateOptions) (*types.SavedObject[T], error) {
	var obj *types.SavedObject[T]
	err := r.backend.write(ctx, func(tx *sql.Tx) error {
		def, d, err := r.createDoc(ctx, tx, typ, attributes, opts)
		if err != nil {
			return err
		}
		obj, err = r.decodeObject(def, d)
		return err
	})
	if err != nil {
		return nil, err
	}
	return obj, nil
}

// BulkCreate creates every item in one transaction; failed items carry Error.
func (r *Repository[T]) BulkCreate(ctx context.Context, objects []types.BulkCreateObject[T], opts types.BulkCreateOptions) (*types.BulkResponse[T], error) {
	resp := &types.BulkResponse[T]{SavedObjects: make([]types.SavedObject[T], len(objects))}
	err := r.backend.write(ctx, func(tx *sql.Tx) error {
		for i, item := range objects {
			workspaces := item.Workspaces
			if workspaces == nil {
				workspaces = opts.Workspaces
			}
			def, d, err := r.createDoc(ctx, tx, item.Type, item.Attributes, types.CreateOptions{
				Namespace:         opts.Namespace,
				ID:                item.ID,
				Overwrite:         opts.Overwrite,
				Version:           item.Version,
				References:        item.References,
				MigrationVersion:  item.MigrationVersion,
				OriginID:          item.OriginID,
				InitialNamespaces: item.InitialNamespaces,
				Workspaces:        workspaces,
				Permissions:       item.Permissions,
			})
			if err != nil {
				if !isItemError(err) {
					return err
				}
				resp.SavedObjects[i] = types.ErrorObject[T](item.Type, item.ID, err)
				continue
			}
			obj, err := r.decodeObject(def, d)
			if err != nil {
				return err
			}
			resp.SavedObjects[i] = *obj
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// isItemError reports whether err belongs to one bulk item rather than the
// whole batch.
func isItemError(err error) bool {
	e := types.AsError(err)
	return e != nil && e.Err == nil && e.Kind != types.KindUnavailable
}

// Get returns the object visible in opts.Namespace.
func (r *Repository[T]) Get(ctx context.Context, typ, id string, opts types.BaseOptions) (*types.SavedObject[T], error) {
	var obj *types.SavedObject[T]
	err := r.backend.read(ctx, func(q querier) error {
		def, err := r.typeDef(typ)
		if err != nil {
			return err
		}
		d, err := visibleDoc(ctx, q, def, opts.Namespace, typ, id)
		if err != nil {
			return err
		}
		obj, err = r.decodeObject(def, d)
		return err
	})
	if err != nil {
		return nil, err
	}
	return obj, nil
}

// BulkGet reads every item; missing items carry a NotFound Error.
func (r *Repository[T]) BulkGet(ctx context.Context, objects []types.BulkGetObject, opts types.BaseOptions) (*types.BulkResponse[T], error) {
	resp := &types.BulkResponse[T]{SavedObjects: make([]types.SavedObject[T], len(objects))}
	err := r.backend.read(ctx, func(q querier) error {
		for i, item := range objects {
			def, err := r.typeDef(item.Type)
			if err == nil {
				var d *rawDoc
				if d, err = visibleDoc(ctx, q, def, opts.Namespace, item.Type, item.ID); err == nil {
					var obj *types.SavedObject[T]
					if obj, err = r.decodeObject(def, d); err == nil {
						resp.SavedObjects[i] = *obj
						continue
					}
				}
			}
			if !isItemError(err) {
				return err
			}
			resp.SavedObjects[i] = types.ErrorObject[T](item.Type, item.ID, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// updateDoc implements Update inside tx.
func (r *Repository[T]) updateDoc(ctx context.Context, tx *sql.Tx, typ, id string, attributes T, opts types.UpdateOptions) (types.TypeDefinition, *rawDoc, error) {
	def, err := r.typeDef(typ)
	if err != nil {
		return def, nil, err
	}
	if err := writeNamespace(opts.Namespace); err != nil {
		return def, nil, err
	}
	prev, err := visibleDoc(ctx, tx, def, opts.Namespace, typ, id)
	if err != nil {
		return def, nil, err
	}
	if err := checkVersion(prev, opts.Version); err != nil {
		return def, nil, err
	}
	attrs, err := encodeAttributes(attributes)
	if err != nil {
		return def, nil, err
	}

	d := *prev
	d.Attributes = attrs
	if opts.References != nil {
		d.References = opts.References
	}
	if opts.Workspaces != nil {
		d.Workspaces = opts.Workspaces
	}
	if opts.Permissions != nil {
		d.Permissions = opts.Permissions
	}
	if err := r.store(ctx, tx, &d, prev); err != nil {
		return def, nil, err
	}
	return def, &d, nil
}

// Update replaces the attributes of an existing object.
func (r *Repository[T]) Update(ctx context.Context, typ, id string, attributes T, opts types.UpdateOptions) (*types.SavedObject[T], error) {
	var obj *types.SavedObject[T]
	err := r.backend.write(ctx, func(tx *sql.Tx) error {
		def, d, err := r.updateDoc(ctx, tx, typ, id, attributes, opts)
		if err != nil {
			return err
		}
		obj, err = r.decodeObject(def, d)
		return err
	})
	if err != nil {
		return nil, err
	}
	return obj, nil
}

// BulkUpdate updates every item in one transaction; failed items carry Error.
func (r *Repository[T]) BulkUpdate(ctx context.Context, objects []types.BulkUpdateObject[T], opts types.BulkUpdateOptions) (*types.BulkResponse[T], error) {
	resp := &types.BulkResponse[T]{SavedObjects: make([]types.SavedObject[T], len(objects))}
	err := r.backend.write(ctx, func(tx *sql.Tx) error {
		for i, item := range objects {
			namespace := item.Namespace
			if namespace == "" {
				namespace = opts.Namespace
			}
			def, d, err := r.updateDoc(ctx, tx, item.Type, item.ID, item.Attributes, types.UpdateOptions{
				Namespace:   namespace,
				Version:     item.Version,
				References:  item.References,
				Workspaces:  item.Workspaces,
				Permissions: item.Permissions,
			})
			if err != nil {
				if !isItemError(err) {
					return err
				}
				resp.SavedObjects[i] = types.ErrorObject[T](item.Type, item.ID, err)
				continue
			}
			obj, err := r.decodeObject(def, d)
			if err != nil {
				return err
			}
			resp.SavedObjects[i] = *obj
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// Delete removes an object. A multi-namespace object shared with other
// namespaces is only removed with opts.Force.
func (r *Repository[T]) Delete(ctx context.Context, typ, id string, opts types.DeleteOptions) error {
	return r.backend.write(ctx, func(tx *sql.Tx) error {
		def, err := r.typeDef(typ)
		if err != nil {
			return err
		}
		if err := writeNamespace(opts.Namespace); err != nil {
			return err
		}
		d, err := visibleDoc(ctx, tx, def, opts.Namespace, typ, id)
		if err != nil {
			return err
		}
		if def.NamespaceType == types.NamespaceTypeMultiple && len(d.Namespaces) > 1 && !opts.Force {
			return types.NewBadRequestError("Unable to delete saved object that exists in multiple namespaces, use the `force` option to delete it anyway")
		}
		if err := checkVersion(d, opts.Version); err != nil {
			return err
		}
		ok, err := deleteDoc(ctx, tx, d.RawID, d.SeqNo, d.PrimaryTerm)
		if err != nil {
			return err
		}
		if !ok {
			return types.NewConflictError(typ, id)
		}
		return nil
	})
}

// DeleteByNamespace removes the single-namespace objects of namespace and
// the multi-namespace objects that live only there, and strips namespace
// from the remaining shared objects.
func (r *Repository[T]) DeleteByNamespace(ctx context.Context, namespace string, opts types.DeleteByNamespaceOptions) (int, error) {
	if namespace == "" || namespace == types.AllNamespacesString || namespace == types.DefaultNamespaceString {
		return 0, types.NewBadRequestError("namespace %q cannot be deleted", namespace)
	}
	var count int
	err := r.backend.write(ctx, func(tx *sql.Tx) error {
		docs, err := listDocs(ctx, tx, nil)
		if err != nil {
			return err
		}
		for _, d := range docs {
			def, ok := r.registry.Get(d.Type)
			if !ok {
				continue
			}
			switch def.NamespaceType {
			case types.NamespaceTypeSingle:
				if d.Namespace != namespace {
					continue
				}
			case types.NamespaceTypeMultiple:
				if !types.ContainsString(d.Namespaces, namespace) {
					continue
				}
				if len(d.Namespaces) > 1 {
					next := *d
					next.Namespaces = types.DifferenceStrings(d.Namespaces, []string{namespace})
					if err := r.store(ctx, tx, &next, d); err != nil {
						return err
					}
					count++
					continue
				}
			default:
				continue
			}
			if _, err := deleteDoc(ctx, tx, d.RawID, d.SeqNo, d.PrimaryTerm); err != nil {
				return err
			}
			count++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}

// DeleteByWorkspace removes every object assigned to workspace.
func (r *Repository[T]) DeleteByWorkspace(ctx context.Context, workspace string, opts types.DeleteByWorkspaceOptions) (int, error) {
	if workspace == "" {
		return 0, types.NewBadRequestError("workspace is required")
	}
	var count int
	err := r.backend.write(ctx, func(tx *sql.Tx) error {
		docs, err := listDocs(ctx, tx, nil)
		if err != nil {
			return err
		}
		for _, d := range docs {
			if !types.ContainsString(d.Workspaces, workspace) {
				continue
			}
			if _, err := deleteDoc(ctx, tx, d.RawID, d.SeqNo, d.PrimaryTerm); err != nil {
				return err
			}
			count++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}

// UpdateNamespaces replaces the Namespaces set of a multi-namespace object.
func (r *Repository[T]) UpdateNamespaces(ctx context.Context, typ, id string, namespaces []string, opts types.UpdateNamespacesOptions) (*types.SavedObject[T], error) {
	var obj *types.SavedObject[T]
	err := r.backend.write(ctx, func(tx *sql.Tx) error {
		def, err := r.typeDef(typ)
		if err != nil {
			return err
		}
		if def.NamespaceType != types.NamespaceTypeMultiple {
			return types.NewBadRequestError("%s doesn't support multiple namespaces", typ)
		}
		if len(namespaces) == 0 {
			return types.NewBadRequestError("namespaces must be a non-empty array of strings")
		}
		if err := writeNamespace(opts.Namespace); err != nil {
			return err
		}
		prev, err := visibleDoc(ctx, tx, def, opts.Namespace, typ, id)
		if err != nil {
			return err
		}
		if err := checkVersion(prev, opts.Version); err != nil {
			return err
		}
		d := *prev
		d.Namespaces = normalizeNamespaces(namespaces)
		if err := r.store(ctx, tx, &d, prev); err != nil {
			return err
		}
		obj, err = r.decodeObject(def, &d)
		return err
	})
	if err != nil {
		return nil, err
	}
	return obj, nil
}
