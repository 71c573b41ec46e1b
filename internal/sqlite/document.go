package sqlite

import (
	"context"
	"database/sql"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/goccy/go-json"

	"github.com/mesh-intelligence/savedobjects/pkg/types"
)

// querier is satisfied by *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// rawDoc is the stored form of a saved object, shared by the SQLite rows and
// the JSONL snapshot. Nil Namespaces or Workspaces mean the field is absent;
// an empty slice means present but empty.
type rawDoc struct {
	RawID            string            `json:"raw_id"`
	Type             string            `json:"type"`
	ID               string            `json:"id"`
	Namespace        string            `json:"namespace,omitempty"`
	Namespaces       []string          `json:"namespaces"`
	Workspaces       []string          `json:"workspaces"`
	Attributes       json.RawMessage   `json:"attributes"`
	References       []types.Reference `json:"references,omitempty"`
	Permissions      types.Permissions `json:"permissions,omitempty"`
	MigrationVersion map[string]string `json:"migration_version,omitempty"`
	OriginID         string            `json:"origin_id,omitempty"`
	UpdatedAt        string            `json:"updated_at"`
	SeqNo            int64             `json:"seq_no"`
	PrimaryTerm      int64             `json:"primary_term"`
}

// rawDocID builds the storage key of (namespace, typ, id). The default
// namespace has no prefix whether it is spelled "" or "default".
func rawDocID(def types.TypeDefinition, namespace, typ, id string) string {
	if ns := types.NamespaceStringToID(namespace); def.NamespaceType == types.NamespaceTypeSingle && ns != "" {
		return ns + ":" + typ + ":" + id
	}
	return typ + ":" + id
}

// existsInNamespace reports whether a multi-namespace doc is visible in
// namespace.
func existsInNamespace(d *rawDoc, namespace string) bool {
	return types.ContainsString(d.Namespaces, types.NamespaceIDToString(namespace))
}

// encodeVersion renders (seqNo, primaryTerm) as the opaque version token:
// base64 of the JSON array [seqNo,primaryTerm].
func encodeVersion(seqNo, term int64) string {
	return base64.StdEncoding.EncodeToString([]byte(fmt.Sprintf("[%d,%d]", seqNo, term)))
}

// decodeVersion parses a token produced by encodeVersion.
func decodeVersion(version string) (seqNo, term int64, err error) {
	data, err := base64.StdEncoding.DecodeString(version)
	if err != nil {
		return 0, 0, types.NewBadRequestError("Invalid version [%s]", version)
	}
	var parts []int64
	if err := json.Unmarshal(data, &parts); err != nil || len(parts) != 2 {
		return 0, 0, types.NewBadRequestError("Invalid version [%s]", version)
	}
	return parts[0], parts[1], nil
}

// matchesVersion reports whether d carries the version token.
func (d *rawDoc) matchesVersion(version string) (bool, error) {
	seqNo, term, err := decodeVersion(version)
	if err != nil {
		return false, err
	}
	return d.SeqNo == seqNo && d.PrimaryTerm == term, nil
}

// encodeJSONColumn stores v as JSON text, or NULL when isNil.
func encodeJSONColumn(v any, isNil bool) (sql.NullString, error) {
	if isNil {
		return sql.NullString{}, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return sql.NullString{}, err
	}
	return sql.NullString{String: string(data), Valid: true}, nil
}

func decodeJSONColumn(col sql.NullString, v any) error {
	if !col.Valid {
		return nil
	}
	return json.Unmarshal([]byte(col.String), v)
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanDoc(row rowScanner) (*rawDoc, error) {
	var (
		d                             rawDoc
		namespace, originID           sql.NullString
		namespaces, workspaces, refs  sql.NullString
		permissions, migrationVersion sql.NullString
		attributes                    string
	)
	err := row.Scan(&d.RawID, &d.Type, &d.ID, &namespace, &namespaces, &workspaces,
		&attributes, &refs, &permissions, &migrationVersion, &originID,
		&d.UpdatedAt, &d.SeqNo, &d.PrimaryTerm)
	if err != nil {
		return nil, err
	}
	d.Namespace = namespace.String
	d.OriginID = originID.String
	d.Attributes = json.RawMessage(attributes)
	if err := decodeJSONColumn(namespaces, &d.Namespaces); err != nil {
		return nil, fmt.Errorf("parsing namespaces of %s: %w", d.RawID, err)
	}
	if err := decodeJSONColumn(workspaces, &d.Workspaces); err != nil {
		return nil, fmt.Errorf("parsing workspaces of %s: %w", d.RawID, err)
	}
	if err := decodeJSONColumn(refs, &d.References); err != nil {
		return nil, fmt.Errorf("parsing references of %s: %w", d.RawID, err)
	}
	if err := decodeJSONColumn(permissions, &d.Permissions); err != nil {
		return nil, fmt.Errorf("parsing permissions of %s: %w", d.RawID, err)
	}
	if err := decodeJSONColumn(migrationVersion, &d.MigrationVersion); err != nil {
		return nil, fmt.Errorf("parsing migration version of %s: %w", d.RawID, err)
	}
	return &d, nil
}

// columnValues returns the row values in savedObjectColumns order.
func (d *rawDoc) columnValues() ([]any, error) {
	namespaces, err := encodeJSONColumn(d.Namespaces, d.Namespaces == nil)
	if err != nil {
		return nil, err
	}
	workspaces, err := encodeJSONColumn(d.Workspaces, d.Workspaces == nil)
	if err != nil {
		return nil, err
	}
	refs, err := encodeJSONColumn(d.References, d.References == nil)
	if err != nil {
		return nil, err
	}
	permissions, err := encodeJSONColumn(d.Permissions, d.Permissions == nil)
	if err != nil {
		return nil, err
	}
	migrationVersion, err := encodeJSONColumn(d.MigrationVersion, d.MigrationVersion == nil)
	if err != nil {
		return nil, err
	}
	attributes := string(d.Attributes)
	if attributes == "" {
		attributes = "null"
	}
	return []any{
		d.RawID, d.Type, d.ID,
		sql.NullString{String: d.Namespace, Valid: d.Namespace != ""},
		namespaces, workspaces, attributes, refs, permissions, migrationVersion,
		sql.NullString{String: d.OriginID, Valid: d.OriginID != ""},
		d.UpdatedAt, d.SeqNo, d.PrimaryTerm,
	}, nil
}

// getDoc returns the row stored under rawID, or nil when there is none.
func getDoc(ctx context.Context, q querier, rawID string) (*rawDoc, error) {
	row := q.QueryRowContext(ctx,
		"SELECT "+savedObjectColumns+" FROM saved_objects WHERE raw_id = ?", rawID)
	d, err := scanDoc(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting saved object %s: %w", rawID, err)
	}
	return d, nil
}

// listDocs returns every row, restricted to typs when non-empty, ordered by
// raw_id.
func listDocs(ctx context.Context, q querier, typs []string) ([]*rawDoc, error) {
	query := "SELECT " + savedObjectColumns + " FROM saved_objects"
	var args []any
	if len(typs) > 0 {
		placeholders := make([]string, len(typs))
		for i, t := range typs {
			placeholders[i] = "?"
			args = append(args, t)
		}
		query += " WHERE type IN (" + strings.Join(placeholders, ", ") + ")"
	}
	query += " ORDER BY raw_id"

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing saved objects: %w", err)
	}
	defer rows.Close()

	var docs []*rawDoc
	for rows.Next() {
		d, err := scanDoc(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning saved object: %w", err)
		}
		docs = append(docs, d)
	}
	return docs, rows.Err()
}

// insertDoc stores a new row.
func insertDoc(ctx context.Context, q querier, d *rawDoc) error {
	values, err := d.columnValues()
	if err != nil {
		return fmt.Errorf("encoding saved object %s: %w", d.RawID, err)
	}
	_, err = q.ExecContext(ctx,
		"INSERT INTO saved_objects ("+savedObjectColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		values...)
	if err != nil {
		return fmt.Errorf("inserting saved object %s: %w", d.RawID, err)
	}
	return nil
}

// replaceDoc overwrites the row of d only if it still carries
// (expectSeqNo, expectTerm). It reports false when the row moved on.
func replaceDoc(ctx context.Context, q querier, d *rawDoc, expectSeqNo, expectTerm int64) (bool, error) {
	values, err := d.columnValues()
	if err != nil {
		return false, fmt.Errorf("encoding saved object %s: %w", d.RawID, err)
	}
	args := append(values[1:], d.RawID, expectSeqNo, expectTerm)
	res, err := q.ExecContext(ctx,
		`UPDATE saved_objects SET type = ?, id = ?, namespace = ?, namespaces = ?, workspaces = ?,
		attributes = ?, refs = ?, permissions = ?, migration_version = ?, origin_id = ?,
		updated_at = ?, seq_no = ?, primary_term = ?
		WHERE raw_id = ? AND seq_no = ? AND primary_term = ?`,
		args...)
	if err != nil {
		return false, fmt.Errorf("updating saved object %s: %w", d.RawID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("updating saved object %s: %w", d.RawID, err)
	}
	return n == 1, nil
}

// deleteDoc removes the row of rawID only if it still carries
// (expectSeqNo, expectTerm).
func deleteDoc(ctx context.Context, q querier, rawID string, expectSeqNo, expectTerm int64) (bool, error) {
	res, err := q.ExecContext(ctx,
		"DELETE FROM saved_objects WHERE raw_id = ? AND seq_no = ? AND primary_term = ?",
		rawID, expectSeqNo, expectTerm)
	if err != nil {
		return false, fmt.Errorf("deleting saved object %s: %w", rawID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("deleting saved object %s: %w", rawID, err)
	}
	return n == 1, nil
}
