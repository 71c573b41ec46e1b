// Unit tests for loading the snapshot into a fresh database.
package sqlite

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openSchemaDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), dbFileName))
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	for _, stmt := range append(append([]string{}, schemaDDL...), indexDDL...) {
		_, err := db.Exec(stmt)
		require.NoError(t, err)
	}
	return db
}

func TestLoadJSONL(t *testing.T) {
	tests := []struct {
		name     string
		jsonl    string
		wantRows int
	}{
		{
			name:     "empty snapshot",
			jsonl:    "",
			wantRows: 0,
		},
		{
			name: "records load with unknown fields",
			jsonl: `{"raw_id":"dashboard:d1","type":"dashboard","id":"d1","attributes":{},"seq_no":1,"primary_term":1,"future_field":true}
{"raw_id":"space-a:dashboard:d1","type":"dashboard","id":"d1","namespace":"space-a","attributes":{},"seq_no":2,"primary_term":1}
`,
			wantRows: 2,
		},
		{
			name: "records without raw_id are skipped",
			jsonl: `{"type":"dashboard","id":"orphan","attributes":{}}
{"raw_id":"dashboard:d1","type":"dashboard","id":"d1","attributes":{},"seq_no":1,"primary_term":1}
`,
			wantRows: 1,
		},
		{
			name: "malformed records are skipped",
			jsonl: `{"raw_id":"dashboard:d1","type":"dashboard","id":"d1","attributes":{},"seq_no":1}
{"raw_id": 42}
`,
			wantRows: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			require.NoError(t, os.WriteFile(filepath.Join(dir, jsonlFileName), []byte(tt.jsonl), 0o644))
			db := openSchemaDB(t)

			require.NoError(t, loadJSONL(db, dir))

			var n int
			require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM saved_objects").Scan(&n))
			assert.Equal(t, tt.wantRows, n)
		})
	}
}

func TestLoadJSONLDefaultsPrimaryTerm(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, jsonlFileName),
		[]byte(`{"raw_id":"dashboard:d1","type":"dashboard","id":"d1","attributes":{},"seq_no":7}`+"\n"), 0o644))
	db := openSchemaDB(t)

	require.NoError(t, loadJSONL(db, dir))

	var seq, term int64
	require.NoError(t, db.QueryRow("SELECT seq_no, primary_term FROM saved_objects WHERE raw_id = ?", "dashboard:d1").Scan(&seq, &term))
	assert.Equal(t, int64(7), seq)
	assert.Equal(t, initialPrimaryTerm, term)
}

func TestLoadJSONLDuplicateRawIDFails(t *testing.T) {
	dir := t.TempDir()
	line := `{"raw_id":"dashboard:d1","type":"dashboard","id":"d1","attributes":{},"seq_no":1,"primary_term":1}` + "\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, jsonlFileName), []byte(line+line), 0o644))
	db := openSchemaDB(t)

	assert.Error(t, loadJSONL(db, dir))

	var n int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM saved_objects").Scan(&n))
	assert.Zero(t, n, "a failed load must leave no rows")
}
