package persist

import (
	"context"
	"fmt"
)

// RunRow summarises one pipeline run.
type RunRow struct {
	InputDigest []byte
	Knights     int
	Diagnostics int
	Pages       int
	Changed     int
}

type RunRepo struct {
	db *DB
}

func NewRunRepo(db *DB) *RunRepo {
	return &RunRepo{db: db}
}

// Record writes the run summary and the pages it changed. Both commit
// together or not at all.
func (r *RunRepo) Record(ctx context.Context, run RunRow, pages map[string]string) error {
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("run begin: %w", err)
	}
	defer tx.Rollback(ctx)

	for title, body := range pages {
		if _, err := tx.Exec(ctx, upsertPage, title, Digest(body), body); err != nil {
			return fmt.Errorf("archive page %s: %w", title, err)
		}
	}
	if _, err := tx.Exec(ctx,
		`INSERT INTO runs (input_digest, knights, diagnostics, pages, changed)
		 VALUES ($1, $2, $3, $4, $5)`,
		run.InputDigest, run.Knights, run.Diagnostics, run.Pages, run.Changed,
	); err != nil {
		return fmt.Errorf("run insert: %w", err)
	}

	return tx.Commit(ctx)
}
