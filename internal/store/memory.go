package store

import (
	"context"
	"fmt"

	"github.com/kleinerpirat/closet/internal/ir"
	"github.com/kleinerpirat/closet/internal/state"
)

// SaveMemory replaces the stored memory of session with the entries of mem.
// The write is atomic: either every entry is stored or none is.
func (s *Store) SaveMemory(ctx context.Context, session string, mem *state.Store) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("save memory: begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM memory WHERE session = ?`, session); err != nil {
		return fmt.Errorf("save memory: %w", err)
	}

	for _, key := range mem.Keys() {
		value, err := marshalEntry(mem.Get(key, nil))
		if err != nil {
			return fmt.Errorf("save memory %q: %w", key, err)
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO memory (session, key, value, version)
			VALUES (?, ?, ?, ?)
		`, session, key, value, ir.MemoryVersion)
		if err != nil {
			return fmt.Errorf("save memory %q: %w", key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("save memory: commit: %w", err)
	}
	return nil
}

// LoadMemory returns the stored memory of session. Unknown sessions load empty.
func (s *Store) LoadMemory(ctx context.Context, session string) (*state.Store, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT key, value FROM memory
		WHERE session = ?
		ORDER BY key COLLATE BINARY
	`, session)
	if err != nil {
		return nil, fmt.Errorf("load memory: %w", err)
	}
	defer rows.Close()

	mem := state.New()
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("load memory: %w", err)
		}
		v, err := unmarshalEntry(value)
		if err != nil {
			return nil, fmt.Errorf("load memory %q: %w", key, err)
		}
		mem.Set(key, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load memory: %w", err)
	}
	return mem, nil
}

// MemoryEntry is one stored key with its canonical JSON value.
type MemoryEntry struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// ReadMemory returns the raw stored entries of session, ordered by key.
func (s *Store) ReadMemory(ctx context.Context, session string) ([]MemoryEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT key, value FROM memory
		WHERE session = ?
		ORDER BY key COLLATE BINARY
	`, session)
	if err != nil {
		return nil, fmt.Errorf("read memory: %w", err)
	}
	defer rows.Close()

	var entries []MemoryEntry
	for rows.Next() {
		var e MemoryEntry
		if err := rows.Scan(&e.Key, &e.Value); err != nil {
			return nil, fmt.Errorf("read memory: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// ClearMemory deletes the stored memory of session and returns the number of
// removed entries.
func (s *Store) ClearMemory(ctx context.Context, session string) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM memory WHERE session = ?`, session)
	if err != nil {
		return 0, fmt.Errorf("clear memory: %w", err)
	}
	return res.RowsAffected()
}
