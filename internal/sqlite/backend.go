// Package sqlite implements the SQLite storage backend for saved objects.
// SQLite is the query engine; a JSONL snapshot in DataDir is the source of
// truth, reloaded on every Attach.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/savedobjects/pkg/types"
)

// File names inside DataDir.
const (
	dbFileName       = "savedobjects.db"
	jsonlFileName    = "saved_objects.jsonl"
	checksumFileName = "saved_objects.jsonl.b3"
	metaFileName     = "saved_objects.meta.json"
)

// initialPrimaryTerm is the term of the first attach, and the term assumed
// for snapshot records that carry none.
const initialPrimaryTerm int64 = 1

// Backend owns the SQLite connection and the JSONL snapshot. Repository
// values built on top of it share its lock, so writes are serialized.
type Backend struct {
	mu       sync.RWMutex
	attached bool
	config   types.Config
	dataDir  string
	db       *sql.DB
	logger   zerolog.Logger

	// seqNo is the last sequence number handed out. Every write takes the
	// next one.
	seqNo int64

	// term is stamped on every write. Each attach takes a term above any
	// seen before, so a (seqNo, term) pair is never issued twice even when
	// the rows holding the highest sequence numbers were deleted.
	term int64

	// dirty is set when a write has not reached the snapshot yet
	// (on_close strategy).
	dirty bool
}

// Option configures a Backend.
type Option func(*Backend)

// WithLogger sets the backend logger.
func WithLogger(l zerolog.Logger) Option {
	return func(b *Backend) { b.logger = l }
}

// NewBackend creates a new SQLite backend instance.
// The backend is not attached; call Attach with a Config to initialize.
func NewBackend(opts ...Option) *Backend {
	b := &Backend{logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Attach initializes the backend with the given configuration.
// Creates DataDir if it does not exist, initializes the SQLite schema and
// loads the JSONL snapshot. Returns ErrAlreadyAttached if already attached.
func (b *Backend) Attach(config types.Config) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.attached {
		return types.ErrAlreadyAttached
	}

	if err := config.Validate(); err != nil {
		return err
	}

	dataDir := config.DataDir
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return err
	}

	// The database is rebuilt from the snapshot on every attach.
	dbPath := filepath.Join(dataDir, dbFileName)
	_ = os.Remove(dbPath)

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return err
	}
	// One connection keeps every statement on the same SQLite handle.
	db.SetMaxOpenConns(1)

	for _, stmt := range append(append([]string{}, schemaDDL...), indexDDL...) {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return fmt.Errorf("apply schema: %w", err)
		}
	}

	if err := initJSONLFile(dataDir); err != nil {
		db.Close()
		return err
	}

	if err := verifyChecksum(dataDir); err != nil {
		db.Close()
		return err
	}

	if err := loadJSONL(db, dataDir); err != nil {
		db.Close()
		return fmt.Errorf("load JSONL: %w", err)
	}

	var maxSeq, maxTerm sql.NullInt64
	if err := db.QueryRow("SELECT MAX(seq_no), MAX(primary_term) FROM saved_objects").Scan(&maxSeq, &maxTerm); err != nil {
		db.Close()
		return fmt.Errorf("read sequence: %w", err)
	}

	meta, err := readMeta(dataDir)
	if err != nil {
		db.Close()
		return err
	}
	meta.PrimaryTerm = max(meta.PrimaryTerm, maxTerm.Int64) + 1
	if err := writeMeta(dataDir, meta); err != nil {
		db.Close()
		return err
	}

	b.db = db
	b.config = config
	b.dataDir = dataDir
	b.seqNo = maxSeq.Int64
	b.term = meta.PrimaryTerm
	b.dirty = false
	b.attached = true

	b.logger.Debug().
		Str("data_dir", dataDir).
		Str("sync_strategy", config.GetSyncStrategy()).
		Int64("seq_no", b.seqNo).
		Int64("primary_term", b.term).
		Msg("backend attached")
	return nil
}

// Detach releases all resources held by the backend. With the on_close
// strategy the snapshot is written first. Detach is idempotent.
func (b *Backend) Detach() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return nil
	}

	if b.dirty {
		if err := b.persistLocked(context.Background()); err != nil {
			return fmt.Errorf("flush snapshot: %w", err)
		}
	}

	if b.db != nil {
		if err := b.db.Close(); err != nil {
			return err
		}
		b.db = nil
	}

	b.attached = false
	b.logger.Debug().Str("data_dir", b.dataDir).Msg("backend detached")
	return nil
}

// Attached reports whether the backend is ready for use.
func (b *Backend) Attached() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.attached
}

// primaryTerm returns the term of the current attach. The caller must hold
// b.mu.
func (b *Backend) primaryTerm() int64 {
	return b.term
}

// nextSeqNo hands out the next sequence number. The caller must hold b.mu
// for writing.
func (b *Backend) nextSeqNo() int64 {
	b.seqNo++
	return b.seqNo
}

// read runs fn under the read lock.
func (b *Backend) read(ctx context.Context, fn func(q querier) error) error {
	if err := ctx.Err(); err != nil {
		return types.NewCanceledError(err)
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return types.NewUnavailableError(types.ErrDetached)
	}
	return repoError(fn(b.db))
}

// write runs fn inside one SQL transaction under the write lock, then brings
// the snapshot up to date according to the sync strategy. Errors that are
// not *types.Error are reported as Unavailable. Once the transaction commits
// the write has happened: a snapshot failure after that point is logged and
// retried on the next write or on Detach, never returned.
func (b *Backend) write(ctx context.Context, fn func(tx *sql.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return types.NewCanceledError(err)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return types.NewUnavailableError(types.ErrDetached)
	}

	tx, err := b.db.BeginTx(ctx, nil)
	if err != nil {
		return types.NewUnavailableError(fmt.Errorf("begin transaction: %w", err))
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return repoError(err)
	}

	if err := tx.Commit(); err != nil {
		return repoError(fmt.Errorf("commit: %w", err))
	}

	b.dirty = true
	if b.config.GetSyncStrategy() == types.SyncOnClose {
		return nil
	}
	if err := b.persistLocked(context.WithoutCancel(ctx)); err != nil {
		b.logger.Error().Err(err).Str("data_dir", b.dataDir).Msg("snapshot write failed, will retry")
	}
	return nil
}

// repoError passes domain errors through and wraps everything else.
func repoError(err error) error {
	if err == nil {
		return nil
	}
	var e *types.Error
	if errors.As(err, &e) {
		return e
	}
	if types.IsContextError(err) {
		return types.NewCanceledError(err)
	}
	return types.NewUnavailableError(err)
}

// persistLocked writes every row to the JSONL snapshot. The caller must
// hold b.mu.
func (b *Backend) persistLocked(ctx context.Context) error {
	docs, err := listDocs(ctx, b.db, nil)
	if err != nil {
		return err
	}
	if err := writeSnapshot(b.dataDir, docs); err != nil {
		return err
	}
	b.dirty = false
	return nil
}
