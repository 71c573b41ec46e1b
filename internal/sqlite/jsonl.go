// This file provides JSONL read/write helpers with atomic persistence and a
// BLAKE3 checksum beside the snapshot.
package sqlite

import (
	"bufio"
	"bytes"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"github.com/zeebo/blake3"

	"github.com/mesh-intelligence/savedobjects/pkg/types"
)

// readJSONL reads a JSONL file and returns each non-empty, parseable line as
// a json.RawMessage. Malformed lines are skipped.
func readJSONL(path string) ([]json.RawMessage, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	var records []json.RawMessage
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		if !json.Valid(line) {
			continue
		}
		cp := make([]byte, len(line))
		copy(cp, line)
		records = append(records, json.RawMessage(cp))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanning %s: %w", path, err)
	}
	return records, nil
}

// writeFileAtomic writes data using the temp-file, fsync, rename pattern.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".jsonl-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}

// encodeJSONL renders records one per line.
func encodeJSONL(records []json.RawMessage) []byte {
	var buf bytes.Buffer
	for _, rec := range records {
		buf.Write(rec)
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}

// checksum returns the hex BLAKE3-256 digest of data.
func checksum(data []byte) string {
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// initJSONLFile creates an empty snapshot if none exists yet.
func initJSONLFile(dataDir string) error {
	path := filepath.Join(dataDir, jsonlFileName)
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("stat %s: %w", jsonlFileName, err)
	}
	return writeFileAtomic(path, nil)
}

// verifyChecksum compares the snapshot against its checksum file. The file
// lists the digest of the snapshot being written and, below it, the digest of
// the one it replaces, so a crash between the two renames still verifies.
// A missing checksum file is accepted so hand-written snapshots still load.
func verifyChecksum(dataDir string) error {
	want, err := os.ReadFile(filepath.Join(dataDir, checksumFileName))
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading %s: %w", checksumFileName, err)
	}
	data, err := os.ReadFile(filepath.Join(dataDir, jsonlFileName))
	if err != nil {
		return fmt.Errorf("reading %s: %w", jsonlFileName, err)
	}
	got := checksum(data)
	for _, line := range strings.Split(string(want), "\n") {
		if strings.TrimSpace(line) == got {
			return nil
		}
	}
	return fmt.Errorf("%w: %s", types.ErrChecksumMismatch, jsonlFileName)
}

// writeChecksum records the digest of data ahead of the snapshot rename,
// keeping the digest of the snapshot currently on disk as a fallback.
func writeChecksum(dataDir string, data []byte) error {
	sums := checksum(data) + "\n"
	prev, err := os.ReadFile(filepath.Join(dataDir, jsonlFileName))
	switch {
	case err == nil:
		if prevSum := checksum(prev); !strings.HasPrefix(sums, prevSum) {
			sums += prevSum + "\n"
		}
	case !os.IsNotExist(err):
		return fmt.Errorf("reading %s: %w", jsonlFileName, err)
	}
	return writeFileAtomic(filepath.Join(dataDir, checksumFileName), []byte(sums))
}

// writeSnapshot writes docs to the snapshot and refreshes its checksum.
func writeSnapshot(dataDir string, docs []*rawDoc) error {
	records := make([]json.RawMessage, 0, len(docs))
	for _, d := range docs {
		rec, err := json.Marshal(d)
		if err != nil {
			return fmt.Errorf("encoding %s: %w", d.RawID, err)
		}
		records = append(records, rec)
	}
	data := encodeJSONL(records)
	if err := writeChecksum(dataDir, data); err != nil {
		return err
	}
	return writeFileAtomic(filepath.Join(dataDir, jsonlFileName), data)
}

// backendMeta is the state kept beside the snapshot across attaches.
type backendMeta struct {
	PrimaryTerm int64 `json:"primary_term"`
}

// readMeta returns the stored state, or the zero value when none exists.
func readMeta(dataDir string) (backendMeta, error) {
	var m backendMeta
	data, err := os.ReadFile(filepath.Join(dataDir, metaFileName))
	if os.IsNotExist(err) {
		return m, nil
	}
	if err != nil {
		return m, fmt.Errorf("reading %s: %w", metaFileName, err)
	}
	if err := json.Unmarshal(data, &m); err != nil {
		return m, fmt.Errorf("decoding %s: %w", metaFileName, err)
	}
	return m, nil
}

func writeMeta(dataDir string, m backendMeta) error {
	data, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", metaFileName, err)
	}
	return writeFileAtomic(filepath.Join(dataDir, metaFileName), append(data, '\n'))
}
