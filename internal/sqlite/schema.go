// Schema DDL for the saved_objects table.
package sqlite

// Schema DDL. raw_id is the storage key: "type:id", prefixed with
// "namespace:" for single-namespace objects outside the default namespace.
const (
	createSavedObjects = `CREATE TABLE saved_objects (
    raw_id TEXT PRIMARY KEY,
    type TEXT NOT NULL,
    id TEXT NOT NULL,
    namespace TEXT,
    namespaces TEXT,
    workspaces TEXT,
    attributes TEXT NOT NULL,
    refs TEXT,
    permissions TEXT,
    migration_version TEXT,
    origin_id TEXT,
    updated_at TEXT NOT NULL,
    seq_no INTEGER NOT NULL,
    primary_term INTEGER NOT NULL
);`
)

// Index DDL for common queries.
const (
	idxSavedObjectsType      = `CREATE INDEX idx_saved_objects_type ON saved_objects(type);`
	idxSavedObjectsNamespace = `CREATE INDEX idx_saved_objects_namespace ON saved_objects(namespace);`
	idxSavedObjectsUpdatedAt = `CREATE INDEX idx_saved_objects_updated_at ON saved_objects(updated_at);`
)

// schemaDDL lists all CREATE TABLE statements in dependency order.
var schemaDDL = []string{
	createSavedObjects,
}

// indexDDL lists all CREATE INDEX statements.
var indexDDL = []string{
	idxSavedObjectsType,
	idxSavedObjectsNamespace,
	idxSavedObjectsUpdatedAt,
}

// savedObjectColumns is the column order shared by SELECT and INSERT.
const savedObjectColumns = "raw_id, type, id, namespace, namespaces, workspaces, attributes, refs, permissions, migration_version, origin_id, updated_at, seq_no, primary_term"
