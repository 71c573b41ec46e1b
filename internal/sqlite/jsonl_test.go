// Tests for JSONL persistence, checksum verification and startup loading.
package sqlite

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/savedobjects/pkg/types"
)

func TestJSONLFileInitializedEmpty(t *testing.T) {
	tmpDir := t.TempDir()

	b := NewBackend()
	require.NoError(t, b.Attach(testConfig(tmpDir)))
	defer b.Detach()

	info, err := os.Stat(filepath.Join(tmpDir, jsonlFileName))
	require.NoError(t, err)
	assert.Zero(t, info.Size())
}

func TestReadJSONL(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    int
	}{
		{"empty file", "", 0},
		{"two records", "{\"a\":1}\n{\"a\":2}\n", 2},
		{"blank lines skipped", "{\"a\":1}\n\n{\"a\":2}\n", 2},
		{"malformed line skipped", "{\"a\":1}\nnot json\n{\"a\":2}\n", 2},
		{"no trailing newline", "{\"a\":1}", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "test.jsonl")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644))

			records, err := readJSONL(path)
			require.NoError(t, err)
			assert.Len(t, records, tt.want)
		})
	}
}

func TestWriteSnapshotChecksum(t *testing.T) {
	tmpDir := t.TempDir()
	docs := []*rawDoc{{
		RawID:       "dashboard:d1",
		Type:        "dashboard",
		ID:          "d1",
		Attributes:  []byte(`{"title":"Sales"}`),
		UpdatedAt:   "2025-01-15T10:30:00Z",
		SeqNo:       1,
		PrimaryTerm: 1,
	}}
	require.NoError(t, writeSnapshot(tmpDir, docs))
	require.NoError(t, verifyChecksum(tmpDir))

	data, err := os.ReadFile(filepath.Join(tmpDir, jsonlFileName))
	require.NoError(t, err)
	sum, err := os.ReadFile(filepath.Join(tmpDir, checksumFileName))
	require.NoError(t, err)
	assert.Equal(t, checksum(data), strings.SplitN(string(sum), "\n", 2)[0])

	// No temp files left behind.
	entries, err := os.ReadDir(tmpDir)
	require.NoError(t, err)
	for _, e := range entries {
		assert.False(t, strings.HasSuffix(e.Name(), ".tmp"), "leftover temp file %s", e.Name())
	}
}

func TestInterruptedSnapshotWriteStillVerifies(t *testing.T) {
	tmpDir := t.TempDir()
	doc := &rawDoc{
		RawID:       "dashboard:d1",
		Type:        "dashboard",
		ID:          "d1",
		Attributes:  []byte(`{"title":"Sales"}`),
		UpdatedAt:   "2025-01-15T10:30:00Z",
		SeqNo:       1,
		PrimaryTerm: 1,
	}
	require.NoError(t, writeSnapshot(tmpDir, []*rawDoc{doc}))

	next := *doc
	next.Attributes = []byte(`{"title":"Sales v2"}`)
	next.SeqNo = 2
	rec, err := json.Marshal(&next)
	require.NoError(t, err)
	nextData := encodeJSONL([]json.RawMessage{rec})

	// The checksum moved on but the snapshot rename never happened.
	require.NoError(t, writeChecksum(tmpDir, nextData))
	require.NoError(t, verifyChecksum(tmpDir))

	b := NewBackend()
	require.NoError(t, b.Attach(testConfig(tmpDir)))
	got, err := NewRepository[testAttrs](b, testRegistry()).Get(context.Background(), "dashboard", "d1", types.BaseOptions{})
	require.NoError(t, err)
	assert.Equal(t, "Sales", got.Attributes.Title)
	require.NoError(t, b.Detach())

	// The rename completing later verifies as well.
	require.NoError(t, writeChecksum(tmpDir, nextData))
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, jsonlFileName), nextData, 0o644))
	require.NoError(t, verifyChecksum(tmpDir))

	// A digest matching neither version is still rejected.
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, checksumFileName), []byte(checksum([]byte("other"))+"\n"), 0o644))
	assert.ErrorIs(t, verifyChecksum(tmpDir), types.ErrChecksumMismatch)
}

func TestAttachRejectsTamperedSnapshot(t *testing.T) {
	tmpDir := t.TempDir()
	ctx := context.Background()

	b := NewBackend()
	require.NoError(t, b.Attach(testConfig(tmpDir)))
	repo := NewRepository[testAttrs](b, testRegistry())
	_, err := repo.Create(ctx, "dashboard", testAttrs{Title: "Sales"}, types.CreateOptions{ID: "d1"})
	require.NoError(t, err)
	require.NoError(t, b.Detach())

	path := filepath.Join(tmpDir, jsonlFileName)
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	require.NoError(t, err)
	_, err = f.WriteString(`{"raw_id":"dashboard:d2","type":"dashboard","id":"d2","attributes":{}}` + "\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	b2 := NewBackend()
	err = b2.Attach(testConfig(tmpDir))
	assert.ErrorIs(t, err, types.ErrChecksumMismatch)
	assert.False(t, b2.Attached())
}

func TestLoadJSONLWithoutChecksum(t *testing.T) {
	tmpDir := t.TempDir()
	jsonl := `{"raw_id":"dashboard:d1","type":"dashboard","id":"d1","namespaces":null,"workspaces":["ws-a"],"attributes":{"title":"Sales"},"updated_at":"2025-01-15T10:30:00Z","seq_no":7,"primary_term":1,"future_field":"ignored"}
not json
{"type":"dashboard","id":"missing-raw-id","attributes":{}}
{"raw_id":"config:c1","type":"config","id":"c1","attributes":{"theme":"dark"},"updated_at":"2025-01-15T10:30:00Z","seq_no":3}
`
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, jsonlFileName), []byte(jsonl), 0o644))

	b := NewBackend()
	require.NoError(t, b.Attach(testConfig(tmpDir)))
	defer b.Detach()

	var count int
	require.NoError(t, b.db.QueryRow("SELECT COUNT(*) FROM saved_objects").Scan(&count))
	assert.Equal(t, 2, count)
	assert.Equal(t, int64(7), b.seqNo)

	repo := NewRepository[testAttrs](b, testRegistry())
	got, err := repo.Get(context.Background(), "dashboard", "d1", types.BaseOptions{})
	require.NoError(t, err)
	assert.Equal(t, "Sales", got.Attributes.Title)
	assert.Equal(t, []string{"ws-a"}, got.Workspaces)
	assert.Equal(t, encodeVersion(7, 1), got.Version)
}
