package api

import (
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/mesh-intelligence/savedobjects/pkg/types"
)

const maxBodyBytes = 16 << 20

// handleHealthz handles GET /healthz.
func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, HealthzResponse{
		Status:        "ok",
		UptimeSeconds: int64(time.Since(s.startedAt).Seconds()),
		Namespace:     types.NamespaceIDToString(s.client.Namespace()),
	})
}

// handleCreate handles POST /{type} and POST /{type}/{id}.
func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if !s.decodeBody(w, r, &req) {
		return
	}
	overwrite, ok := s.boolParam(w, r, "overwrite")
	if !ok {
		return
	}
	refresh, ok := s.refreshParam(w, r)
	if !ok {
		return
	}
	obj, err := s.client.Create(r.Context(), chi.URLParam(r, "type"), req.Attributes, types.CreateOptions{
		Namespace:         namespaceParam(r),
		ID:                chi.URLParam(r, "id"),
		Overwrite:         overwrite,
		Version:           req.Version,
		References:        req.References,
		MigrationVersion:  req.MigrationVersion,
		OriginID:          req.OriginID,
		InitialNamespaces: req.InitialNamespaces,
		Workspaces:        req.Workspaces,
		Permissions:       req.Permissions,
		Refresh:           refresh,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, obj)
}

// handleGet handles GET /{type}/{id}.
func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	obj, err := s.client.Get(r.Context(), chi.URLParam(r, "type"), chi.URLParam(r, "id"),
		types.BaseOptions{Namespace: namespaceParam(r)})
	if err != nil {
		s.writeError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, obj)
}

// handleUpdate handles PUT /{type}/{id}.
func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var req UpdateRequest
	if !s.decodeBody(w, r, &req) {
		return
	}
	refresh, ok := s.refreshParam(w, r)
	if !ok {
		return
	}
	obj, err := s.client.Update(r.Context(), chi.URLParam(r, "type"), chi.URLParam(r, "id"), req.Attributes, types.UpdateOptions{
		Namespace:   namespaceParam(r),
		Version:     req.Version,
		References:  req.References,
		Workspaces:  req.Workspaces,
		Permissions: req.Permissions,
		Refresh:     refresh,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, obj)
}

// handleDelete handles DELETE /{type}/{id}.
func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	force, ok := s.boolParam(w, r, "force")
	if !ok {
		return
	}
	refresh, ok := s.refreshParam(w, r)
	if !ok {
		return
	}
	err := s.client.Delete(r.Context(), chi.URLParam(r, "type"), chi.URLParam(r, "id"), types.DeleteOptions{
		Namespace: namespaceParam(r),
		Force:     force,
		Version:   r.URL.Query().Get("version"),
		Refresh:   refresh,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{})
}

// handleFind handles GET /_find.
func (s *Server) handleFind(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, ok := s.intParam(w, r, "page")
	if !ok {
		return
	}
	perPage, ok := s.intParam(w, r, "per_page")
	if !ok {
		return
	}
	opts := types.FindOptions{
		Type:         listParam(q["type"]),
		Search:       q.Get("search"),
		SearchFields: listParam(q["search_fields"]),
		Page:         page,
		PerPage:      perPage,
		SortField:    q.Get("sort_field"),
		SortOrder:    q.Get("sort_order"),
		Namespaces:   listParam(q["namespaces"]),
		Workspaces:   listParam(q["workspaces"]),
	}
	if len(opts.Namespaces) == 0 && q.Get("namespace") != "" {
		opts.Namespaces = []string{q.Get("namespace")}
	}
	if raw := q.Get("has_reference"); raw != "" {
		var ref types.Reference
		if err := json.Unmarshal([]byte(raw), &ref); err != nil {
			s.writeError(w, types.NewBadRequestError("invalid has_reference: %v", err))
			return
		}
		opts.HasReference = &ref
	}
	resp, err := s.client.Find(r.Context(), opts)
	if err != nil {
		s.writeError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, resp)
}

// handleBulkCreate handles POST /_bulk_create.
func (s *Server) handleBulkCreate(w http.ResponseWriter, r *http.Request) {
	var objects []types.BulkCreateObject[json.RawMessage]
	if !s.decodeBody(w, r, &objects) {
		return
	}
	overwrite, ok := s.boolParam(w, r, "overwrite")
	if !ok {
		return
	}
	refresh, ok := s.refreshParam(w, r)
	if !ok {
		return
	}
	resp, err := s.client.BulkCreate(r.Context(), objects, types.BulkCreateOptions{
		Namespace:  namespaceParam(r),
		Overwrite:  overwrite,
		Workspaces: listParam(r.URL.Query()["workspaces"]),
		Refresh:    refresh,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, resp)
}

// handleBulkGet handles POST /_bulk_get.
func (s *Server) handleBulkGet(w http.ResponseWriter, r *http.Request) {
	var objects []types.BulkGetObject
	if !s.decodeBody(w, r, &objects) {
		return
	}
	resp, err := s.client.BulkGet(r.Context(), objects, types.BaseOptions{Namespace: namespaceParam(r)})
	if err != nil {
		s.writeError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, resp)
}

// handleBulkUpdate handles PUT /_bulk_update.
func (s *Server) handleBulkUpdate(w http.ResponseWriter, r *http.Request) {
	var objects []types.BulkUpdateObject[json.RawMessage]
	if !s.decodeBody(w, r, &objects) {
		return
	}
	refresh, ok := s.refreshParam(w, r)
	if !ok {
		return
	}
	resp, err := s.client.BulkUpdate(r.Context(), objects, types.BulkUpdateOptions{
		Namespace: namespaceParam(r),
		Refresh:   refresh,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, resp)
}

// handleCheckConflicts handles POST /_check_conflicts.
func (s *Server) handleCheckConflicts(w http.ResponseWriter, r *http.Request) {
	var objects []types.CheckConflictsObject
	if !s.decodeBody(w, r, &objects) {
		return
	}
	resp, err := s.client.CheckConflicts(r.Context(), objects, types.CheckConflictsOptions{Namespace: namespaceParam(r)})
	if err != nil {
		s.writeError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, resp)
}

// handleAddToNamespaces handles POST /{type}/{id}/_add_to_namespaces.
func (s *Server) handleAddToNamespaces(w http.ResponseWriter, r *http.Request) {
	var req NamespacesRequest
	if !s.decodeBody(w, r, &req) {
		return
	}
	refresh, ok := s.refreshParam(w, r)
	if !ok {
		return
	}
	resp, err := s.client.AddToNamespaces(r.Context(), chi.URLParam(r, "type"), chi.URLParam(r, "id"), req.Namespaces,
		types.AddToNamespacesOptions{Namespace: namespaceParam(r), Version: req.Version, Refresh: refresh})
	if err != nil {
		s.writeError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, resp)
}

// handleDeleteFromNamespaces handles POST /{type}/{id}/_delete_from_namespaces.
func (s *Server) handleDeleteFromNamespaces(w http.ResponseWriter, r *http.Request) {
	var req NamespacesRequest
	if !s.decodeBody(w, r, &req) {
		return
	}
	refresh, ok := s.refreshParam(w, r)
	if !ok {
		return
	}
	resp, err := s.client.DeleteFromNamespaces(r.Context(), chi.URLParam(r, "type"), chi.URLParam(r, "id"), req.Namespaces,
		types.DeleteFromNamespacesOptions{Namespace: namespaceParam(r), Version: req.Version, Refresh: refresh})
	if err != nil {
		s.writeError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, resp)
}

// handleAddToWorkspaces handles POST /{type}/{id}/_add_to_workspaces.
func (s *Server) handleAddToWorkspaces(w http.ResponseWriter, r *http.Request) {
	var req WorkspacesRequest
	if !s.decodeBody(w, r, &req) {
		return
	}
	refresh, ok := s.refreshParam(w, r)
	if !ok {
		return
	}
	obj, err := s.client.AddToWorkspaces(r.Context(), chi.URLParam(r, "type"), chi.URLParam(r, "id"), req.Workspaces,
		types.AddToWorkspacesOptions{Namespace: namespaceParam(r), Refresh: refresh})
	if err != nil {
		s.writeError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, obj)
}

// handleDeleteFromWorkspaces handles POST /{type}/{id}/_delete_from_workspaces.
func (s *Server) handleDeleteFromWorkspaces(w http.ResponseWriter, r *http.Request) {
	var req WorkspacesRequest
	if !s.decodeBody(w, r, &req) {
		return
	}
	refresh, ok := s.refreshParam(w, r)
	if !ok {
		return
	}
	obj, err := s.client.DeleteFromWorkspaces(r.Context(), chi.URLParam(r, "type"), chi.URLParam(r, "id"), req.Workspaces,
		types.DeleteFromWorkspacesOptions{Namespace: namespaceParam(r), Refresh: refresh})
	if err != nil {
		s.writeError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, obj)
}

// handleDeleteByWorkspace handles DELETE /_workspace/{workspace}.
func (s *Server) handleDeleteByWorkspace(w http.ResponseWriter, r *http.Request) {
	refresh, ok := s.refreshParam(w, r)
	if !ok {
		return
	}
	n, err := s.client.DeleteByWorkspace(r.Context(), chi.URLParam(r, "workspace"), types.DeleteByWorkspaceOptions{Refresh: refresh})
	if err != nil {
		s.writeError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, DeletedResponse{Deleted: n})
}

// handleDeleteByNamespace handles DELETE /_namespace/{namespace}.
func (s *Server) handleDeleteByNamespace(w http.ResponseWriter, r *http.Request) {
	refresh, ok := s.refreshParam(w, r)
	if !ok {
		return
	}
	n, err := s.client.DeleteByNamespace(r.Context(), chi.URLParam(r, "namespace"), types.DeleteByNamespaceOptions{Refresh: refresh})
	if err != nil {
		s.writeError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, DeletedResponse{Deleted: n})
}

// namespaceParam returns the ?namespace= override; empty means ambient.
func namespaceParam(r *http.Request) string {
	return r.URL.Query().Get("namespace")
}

// listParam accepts both repeated and comma separated query values.
func listParam(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func (s *Server) boolParam(w http.ResponseWriter, r *http.Request, name string) (bool, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return false, true
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		s.writeError(w, types.NewBadRequestError("invalid %s: %q", name, raw))
		return false, false
	}
	return v, true
}

func (s *Server) intParam(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		s.writeError(w, types.NewBadRequestError("invalid %s: %q", name, raw))
		return 0, false
	}
	return v, true
}

func (s *Server) refreshParam(w http.ResponseWriter, r *http.Request) (types.Refresh, bool) {
	refresh := types.Refresh(r.URL.Query().Get("refresh"))
	switch refresh {
	case types.RefreshDefault, types.RefreshTrue, types.RefreshFalse, types.RefreshWaitFor:
		return refresh, true
	default:
		s.writeError(w, types.NewBadRequestError("invalid refresh: %q", refresh))
		return "", false
	}
}

// decodeBody reads a JSON body into v. It writes a 400 and returns false on
// failure.
func (s *Server) decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	data, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		s.writeError(w, types.NewBadRequestError("reading body: %v", err))
		return false
	}
	if len(data) == 0 {
		s.writeError(w, types.NewBadRequestError("request body is required"))
		return false
	}
	if err := json.Unmarshal(data, v); err != nil {
		s.writeError(w, types.NewBadRequestError("invalid JSON body: %v", err))
		return false
	}
	return true
}

// respondJSON is a helper to write JSON responses.
func respondJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError maps err onto its HTTP status and writes it as JSON.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	e := types.AsError(err)
	if e.Kind == types.KindUnavailable {
		s.logger.Error().Err(err).Msg("storage failure")
	}
	respondJSON(w, e.StatusCode(), e)
}
