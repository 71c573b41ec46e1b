package types

// Reference is a relation from a saved object to another object. References
// are ordered and not checked for integrity.
type Reference struct {
	Name string `json:"name"`
	Type string `json:"type"`
	ID   string `json:"id"`
}

// Principals lists the users and groups granted one permission kind.
type Principals struct {
	Users  []string `json:"users,omitempty"`
	Groups []string `json:"groups,omitempty"`
}

// Permissions maps a permission kind (read, write, library_read, ...) to its
// principals. The client transports it and never evaluates it.
type Permissions map[string]Principals

// SavedObject is the unit of persistence. Attributes is an opaque payload of
// type T. Error is set only on failed bulk entries, in which case Attributes
// is the zero value.
type SavedObject[T any] struct {
	ID               string            `json:"id"`
	Type             string            `json:"type"`
	Attributes       T                 `json:"attributes,omitempty"`
	Version          string            `json:"version,omitempty"`
	References       []Reference       `json:"references,omitempty"`
	Namespaces       []string          `json:"namespaces,omitempty"`
	Workspaces       []string          `json:"workspaces,omitempty"`
	MigrationVersion map[string]string `json:"migrationVersion,omitempty"`
	OriginID         string            `json:"originId,omitempty"`
	Permissions      Permissions       `json:"permissions,omitempty"`
	UpdatedAt        string            `json:"updated_at,omitempty"`
	Error            *Error            `json:"error,omitempty"`
}

// Failed reports whether this is an error entry of a bulk response.
func (o *SavedObject[T]) Failed() bool {
	return o.Error != nil
}

// ErrorObject builds the bulk entry for an item that failed.
func ErrorObject[T any](typ, id string, err error) SavedObject[T] {
	return SavedObject[T]{
		ID:    id,
		Type:  typ,
		Error: AsError(err),
	}
}

// BulkResponse holds one entry per input item, in input order.
type BulkResponse[T any] struct {
	SavedObjects []SavedObject[T] `json:"saved_objects"`
}

// Errors returns the failed entries keyed by their position in the batch.
func (r *BulkResponse[T]) Errors() map[int]*Error {
	out := make(map[int]*Error)
	for i := range r.SavedObjects {
		if r.SavedObjects[i].Error != nil {
			out[i] = r.SavedObjects[i].Error
		}
	}
	return out
}

// FindResult is a saved object with its search score.
type FindResult[T any] struct {
	SavedObject[T]
	Score float64 `json:"score"`
}

// FindResponse is one page of Find results.
type FindResponse[T any] struct {
	Page         int             `json:"page"`
	PerPage      int             `json:"per_page"`
	Total        int             `json:"total"`
	SavedObjects []FindResult[T] `json:"saved_objects"`
}

// CheckConflictsObject names an object the caller intends to create.
type CheckConflictsObject struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}

// CheckConflictsError is the entry for an object that cannot be created as is.
type CheckConflictsError struct {
	ID    string `json:"id"`
	Type  string `json:"type"`
	Error *Error `json:"error"`
}

// CheckConflictsResponse lists only the objects that collide.
type CheckConflictsResponse struct {
	Errors []CheckConflictsError `json:"errors"`
}

// NamespacesResponse is the namespace set after a membership change. An
// empty set means the object was deleted.
type NamespacesResponse struct {
	Namespaces []string `json:"namespaces"`
}
