package types

// Refresh controls read-after-write visibility in the underlying store. The
// client forwards it verbatim.
type Refresh string

// Refresh values.
const (
	RefreshDefault Refresh = ""
	RefreshTrue    Refresh = "true"
	RefreshFalse   Refresh = "false"
	RefreshWaitFor Refresh = "wait_for"
)

// BaseOptions scopes a read. An empty Namespace means the caller's default.
type BaseOptions struct {
	Namespace string
}

// CreateOptions configures Create.
type CreateOptions struct {
	Namespace string
	// ID is generated when empty.
	ID string
	// Overwrite replaces an existing object with the same id.
	Overwrite bool
	// Version, when set, must match the stored object's version.
	Version          string
	References       []Reference
	MigrationVersion map[string]string
	OriginID         string
	// InitialNamespaces seeds the Namespaces set of a multi-namespace object.
	InitialNamespaces []string
	// Workspaces is stored as given; nil leaves the field absent.
	Workspaces  []string
	Permissions Permissions
	Refresh     Refresh
}

// BulkCreateObject is one item of BulkCreate.
type BulkCreateObject[T any] struct {
	ID                string            `json:"id,omitempty"`
	Type              string            `json:"type"`
	Attributes        T                 `json:"attributes"`
	Version           string            `json:"version,omitempty"`
	References        []Reference       `json:"references,omitempty"`
	MigrationVersion  map[string]string `json:"migrationVersion,omitempty"`
	OriginID          string            `json:"originId,omitempty"`
	InitialNamespaces []string          `json:"initialNamespaces,omitempty"`
	Workspaces        []string          `json:"workspaces,omitempty"`
	Permissions       Permissions       `json:"permissions,omitempty"`
}

// BulkCreateOptions configures BulkCreate.
type BulkCreateOptions struct {
	Namespace string
	Overwrite bool
	// Workspaces applies to items that carry none of their own.
	Workspaces []string
	Refresh    Refresh
}

// BulkGetObject is one item of BulkGet.
type BulkGetObject struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}

// UpdateOptions configures Update. Nil fields leave the stored value as is.
type UpdateOptions struct {
	Namespace   string
	Version     string
	References  []Reference
	Workspaces  []string
	Permissions Permissions
	Refresh     Refresh
}

// BulkUpdateObject is one item of BulkUpdate. Namespace overrides the batch
// namespace for this item.
type BulkUpdateObject[T any] struct {
	Type        string      `json:"type"`
	ID          string      `json:"id"`
	Attributes  T           `json:"attributes"`
	Version     string      `json:"version,omitempty"`
	References  []Reference `json:"references,omitempty"`
	Namespace   string      `json:"namespace,omitempty"`
	Workspaces  []string    `json:"workspaces,omitempty"`
	Permissions Permissions `json:"permissions,omitempty"`
}

// BulkUpdateOptions configures BulkUpdate.
type BulkUpdateOptions struct {
	Namespace string
	Refresh   Refresh
}

// DeleteOptions configures Delete.
type DeleteOptions struct {
	Namespace string
	// Force deletes a multi-namespace object that is shared with other
	// namespaces.
	Force bool
	// Version, when set, must match the stored object's version.
	Version string
	Refresh Refresh
}

// DeleteByNamespaceOptions configures DeleteByNamespace.
type DeleteByNamespaceOptions struct {
	Refresh Refresh
}

// DeleteByWorkspaceOptions configures DeleteByWorkspace.
type DeleteByWorkspaceOptions struct {
	Refresh Refresh
}

// Sort orders accepted by Find.
const (
	SortAsc  = "asc"
	SortDesc = "desc"
)

// Sort fields accepted by Find.
const (
	SortFieldUpdatedAt = "updated_at"
	SortFieldType      = "type"
	SortFieldID        = "id"
)

// Find paging defaults.
const (
	DefaultPage    = 1
	DefaultPerPage = 20
)

// FindOptions configures Find.
type FindOptions struct {
	Type []string
	// Search matches case-insensitively against attribute values. A trailing
	// "*" is accepted and ignored.
	Search string
	// SearchFields restricts Search to these top-level attribute names.
	SearchFields []string
	Page         int
	PerPage      int
	SortField    string
	SortOrder    string
	HasReference *Reference
	// Namespaces defaults to the caller's namespace; "*" searches all.
	Namespaces []string
	Workspaces []string
}

// AddToNamespacesOptions configures AddToNamespaces.
type AddToNamespacesOptions struct {
	Namespace string
	Version   string
	Refresh   Refresh
}

// DeleteFromNamespacesOptions configures DeleteFromNamespaces.
type DeleteFromNamespacesOptions struct {
	Namespace string
	Version   string
	Refresh   Refresh
}

// UpdateNamespacesOptions configures the repository's raw namespaces write.
type UpdateNamespacesOptions struct {
	Namespace string
	Version   string
	Refresh   Refresh
}

// AddToWorkspacesOptions configures AddToWorkspaces.
type AddToWorkspacesOptions struct {
	Namespace string
	Refresh   Refresh
}

// DeleteFromWorkspacesOptions configures DeleteFromWorkspaces.
type DeleteFromWorkspacesOptions struct {
	Namespace string
	Refresh   Refresh
}

// CheckConflictsOptions configures CheckConflicts.
type CheckConflictsOptions struct {
	Namespace string
}
