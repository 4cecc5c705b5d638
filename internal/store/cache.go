package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/linalg/internal/compiler"
)

// Store implements compiler.VerificationCache.
var _ compiler.VerificationCache = (*Store)(nil)

// Lookup returns the verdict recorded for hash and bumps its hit counter.
// The second result is false if no verdict was recorded.
func (s *Store) Lookup(ctx context.Context, hash string) (compiler.Verdict, bool, error) {
	var (
		v     compiler.Verdict
		valid int
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT op_name, valid, code, message
		FROM verifications
		WHERE op_hash = ?
	`, hash).Scan(&v.OpName, &valid, &v.Code, &v.Message)
	if errors.Is(err, sql.ErrNoRows) {
		return compiler.Verdict{}, false, nil
	}
	if err != nil {
		return compiler.Verdict{}, false, fmt.Errorf("lookup verdict: %w", err)
	}
	v.Valid = valid == 1

	if _, err := s.db.ExecContext(ctx, `UPDATE verifications SET hits = hits + 1 WHERE op_hash = ?`, hash); err != nil {
		return compiler.Verdict{}, false, fmt.Errorf("lookup verdict: %w", err)
	}
	return v, true, nil
}

// Record stores the verdict for hash.
// Uses ON CONFLICT(op_hash) DO NOTHING: a verdict never changes for a given
// hash, so the first write wins.
func (s *Store) Record(ctx context.Context, hash string, v compiler.Verdict) error {
	valid := 0
	if v.Valid {
		valid = 1
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO verifications (op_hash, op_name, valid, code, message)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(op_hash) DO NOTHING
	`, hash, v.OpName, valid, v.Code, v.Message)
	if err != nil {
		return fmt.Errorf("record verdict: %w", err)
	}
	return nil
}

// Stats summarises the cache contents.
type Stats struct {
	Entries int `json:"entries"`
	Invalid int `json:"invalid"`
	Hits    int `json:"hits"`
}

// Stats counts cached verdicts.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	var st Stats
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*), COALESCE(SUM(1 - valid), 0), COALESCE(SUM(hits), 0)
		FROM verifications
	`).Scan(&st.Entries, &st.Invalid, &st.Hits)
	if err != nil {
		return Stats{}, fmt.Errorf("cache stats: %w", err)
	}
	return st, nil
}
