package api

import (
	"github.com/goccy/go-json"

	"github.com/mesh-intelligence/savedobjects/pkg/types"
)

// HealthzResponse is the body of GET /healthz.
type HealthzResponse struct {
	Status        string `json:"status"`
	UptimeSeconds int64  `json:"uptime_seconds"`
	Namespace     string `json:"namespace"`
}

// CreateRequest is the body of POST /{type}[/{id}].
type CreateRequest struct {
	Attributes        json.RawMessage   `json:"attributes"`
	Version           string            `json:"version,omitempty"`
	References        []types.Reference `json:"references,omitempty"`
	MigrationVersion  map[string]string `json:"migrationVersion,omitempty"`
	OriginID          string            `json:"originId,omitempty"`
	InitialNamespaces []string          `json:"initialNamespaces,omitempty"`
	Workspaces        []string          `json:"workspaces,omitempty"`
	Permissions       types.Permissions `json:"permissions,omitempty"`
}

// UpdateRequest is the body of PUT /{type}/{id}.
type UpdateRequest struct {
	Attributes  json.RawMessage   `json:"attributes"`
	Version     string            `json:"version,omitempty"`
	References  []types.Reference `json:"references,omitempty"`
	Workspaces  []string          `json:"workspaces,omitempty"`
	Permissions types.Permissions `json:"permissions,omitempty"`
}

// NamespacesRequest is the body of the namespace membership routes.
type NamespacesRequest struct {
	Namespaces []string `json:"namespaces"`
	Version    string   `json:"version,omitempty"`
}

// WorkspacesRequest is the body of the workspace membership routes.
type WorkspacesRequest struct {
	Workspaces []string `json:"workspaces"`
}

// DeletedResponse reports how many objects a scoped delete removed.
type DeletedResponse struct {
	Deleted int `json:"deleted"`
}
