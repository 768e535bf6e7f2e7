package store

import (
	"context"
	"fmt"
)

// RenderRecord is one finished render in the log.
type RenderRecord struct {
	ID            string   `json:"id"`
	Session       string   `json:"session"`
	Document      string   `json:"document"`
	Passes        int      `json:"passes"`
	Outputs       []string `json:"outputs"`
	Seq           int64    `json:"seq"`
	EngineVersion string   `json:"engine_version"`
}

// WriteRender appends a render to the log.
// Uses ON CONFLICT(id) DO NOTHING: writing the same record twice is a no-op.
func (s *Store) WriteRender(ctx context.Context, rec RenderRecord) error {
	outputs, err := marshalOutputs(rec.Outputs)
	if err != nil {
		return fmt.Errorf("write render: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO renders
		(id, session, document, passes, outputs, seq, engine_version)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		rec.ID,
		rec.Session,
		rec.Document,
		rec.Passes,
		outputs,
		rec.Seq,
		rec.EngineVersion,
	)
	if err != nil {
		return fmt.Errorf("write render: %w", err)
	}
	return nil
}

// ReadRenders returns the logged renders of session in seq order.
func (s *Store) ReadRenders(ctx context.Context, session string) ([]RenderRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, session, document, passes, outputs, seq, engine_version
		FROM renders
		WHERE session = ?
		ORDER BY seq ASC, id ASC COLLATE BINARY
	`, session)
	if err != nil {
		return nil, fmt.Errorf("read renders: %w", err)
	}
	defer rows.Close()

	var records []RenderRecord
	for rows.Next() {
		var rec RenderRecord
		var outputs string
		if err := rows.Scan(&rec.ID, &rec.Session, &rec.Document, &rec.Passes, &outputs, &rec.Seq, &rec.EngineVersion); err != nil {
			return nil, fmt.Errorf("read renders: %w", err)
		}
		if rec.Outputs, err = unmarshalOutputs(outputs); err != nil {
			return nil, fmt.Errorf("read render %s: %w", rec.ID, err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// LastSeq returns the highest logged seq of session, or 0 if none.
// Used to resume the logical clock across sessions.
func (s *Store) LastSeq(ctx context.Context, session string) (int64, error) {
	var seq int64
	err := s.db.QueryRowContext(ctx, `
		SELECT COALESCE(MAX(seq), 0) FROM renders WHERE session = ?
	`, session).Scan(&seq)
	if err != nil {
		return 0, fmt.Errorf("last seq: %w", err)
	}
	return seq, nil
}
