package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/xid"

	"github.com/cobbinma/portfolio/internal/apperror"
	"github.com/cobbinma/portfolio/internal/model"
	"github.com/cobbinma/portfolio/internal/repository"
)

// compile-time check that *DB implements repository.EntryRepository
var _ repository.EntryRepository = (*DB)(nil)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

// Put inserts an entry or replaces the payload of an existing one.
//
// An entry without an ID gets a fresh xid (20 chars, URL-safe, sortable by
// creation time). On return the caller's entry carries the ID and the stored
// timestamps.
//
// UPSERT WITH ON CONFLICT:
// "INSERT ... ON CONFLICT(kind, id) DO UPDATE" keeps the original row, so
// created_at survives re-seeding. INSERT OR REPLACE would delete and reinsert
// the row and lose it.
func (db *DB) Put(ctx context.Context, entry *model.Entry) error {
	if entry.Kind != model.KindEntry && entry.Kind != model.KindAsset {
		return apperror.ValidationFailed("kind",
			fmt.Sprintf("kind must be %q or %q, got %q", model.KindEntry, model.KindAsset, entry.Kind))
	}
	if !json.Valid(entry.Payload) {
		return apperror.ValidationFailed("payload", "payload must be a JSON document")
	}

	if entry.ID == "" {
		entry.ID = xid.New().String()
	}

	now := time.Now().UTC()
	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO entries (id, kind, content_type, payload, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(kind, id) DO UPDATE SET
			content_type = excluded.content_type,
			payload      = excluded.payload,
			updated_at   = excluded.updated_at`,
		entry.ID,
		entry.Kind,
		entry.ContentType,
		string(entry.Payload),
		now,
		now,
	)
	if err != nil {
		return fmt.Errorf("sqlite: putting %s %s: %w", entry.Kind, entry.ID, err)
	}

	// Read the row back for the canonical timestamps: on an update,
	// created_at is the one from the first Put.
	stored, err := db.Get(ctx, entry.Kind, entry.ID)
	if err != nil {
		return fmt.Errorf("sqlite: reading back %s %s: %w", entry.Kind, entry.ID, err)
	}
	entry.CreatedAt = stored.CreatedAt
	entry.UpdatedAt = stored.UpdatedAt

	return nil
}

// Get returns the entry with the given kind and id.
//
// sql.ErrNoRows only means "no matching row"; it is translated to the app's
// NotFound error so the content layer can report the entry as absent.
func (db *DB) Get(ctx context.Context, kind, id string) (*model.Entry, error) {
	row := db.conn.QueryRowContext(ctx,
		`SELECT id, kind, content_type, payload, created_at, updated_at
		 FROM entries
		 WHERE kind = ? AND id = ?`,
		kind, id,
	)

	entry, err := scanEntry(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound(strings.ToLower(kind), id)
		}
		return nil, fmt.Errorf("sqlite: getting %s %s: %w", kind, id, err)
	}

	return entry, nil
}

// List returns stored entries ordered by kind then id, optionally restricted
// to one kind.
//
// The limit defaults to 20 and is capped at 100 so a caller can never pull
// the whole table in one query.
func (db *DB) List(ctx context.Context, opts repository.ListOptions) ([]model.Entry, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	offset := max(opts.Offset, 0)

	// An empty kind matches every row: (? = '' OR kind = ?).
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, kind, content_type, payload, created_at, updated_at
		 FROM entries
		 WHERE (? = '' OR kind = ?)
		 ORDER BY kind, id
		 LIMIT ? OFFSET ?`,
		opts.Kind, opts.Kind,
		limit,
		offset,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing entries: %w", err)
	}
	// rows holds a pooled connection until closed.
	defer rows.Close()

	entries := make([]model.Entry, 0, limit)
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scanning entry row: %w", err)
		}
		entries = append(entries, *e)
	}

	// rows.Err reports failures that happened during Next.
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating entries: %w", err)
	}

	return entries, nil
}

// Delete removes an entry. RowsAffected == 0 means it did not exist.
func (db *DB) Delete(ctx context.Context, kind, id string) error {
	result, err := db.conn.ExecContext(ctx,
		`DELETE FROM entries WHERE kind = ? AND id = ?`,
		kind, id,
	)
	if err != nil {
		return fmt.Errorf("sqlite: deleting %s %s: %w", kind, id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound(strings.ToLower(kind), id)
	}

	return nil
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(s scanner) (*model.Entry, error) {
	var (
		e       model.Entry
		payload string
	)
	if err := s.Scan(
		&e.ID, &e.Kind, &e.ContentType, &payload,
		&e.CreatedAt, &e.UpdatedAt,
	); err != nil {
		return nil, err
	}
	e.Payload = []byte(payload)
	return &e, nil
}
