// This file implements JSONL loading for startup.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"

	"github.com/goccy/go-json"
)

// loadJSONL reads the snapshot from dataDir and inserts every record into
// SQLite. Loading is transactional: all records load or none do. Malformed
// lines and records without a raw_id are skipped; unknown fields are ignored.
func loadJSONL(db *sql.DB, dataDir string) error {
	records, err := readJSONL(filepath.Join(dataDir, jsonlFileName))
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return nil
	}

	ctx := context.Background()
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning load transaction: %w", err)
	}
	defer tx.Rollback()

	for _, rec := range records {
		var d rawDoc
		if err := json.Unmarshal(rec, &d); err != nil {
			continue
		}
		if d.RawID == "" {
			continue
		}
		if d.PrimaryTerm == 0 {
			d.PrimaryTerm = initialPrimaryTerm
		}
		if err := insertDoc(ctx, tx, &d); err != nil {
			return fmt.Errorf("loading %s: %w", d.RawID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing load transaction: %w", err)
	}
	return nil
}
