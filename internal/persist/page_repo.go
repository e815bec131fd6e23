package persist

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/blake2b"
)

// Digest is the fingerprint stored for every archived page body.
func Digest(body string) []byte {
	sum := blake2b.Sum256([]byte(body))
	return sum[:]
}

// PageRepo archives the last published body of each wiki page.
type PageRepo struct {
	db *DB
}

func NewPageRepo(db *DB) *PageRepo {
	return &PageRepo{db: db}
}

// Changed reports whether body differs from the archived page. A page never
// archived counts as changed.
func (r *PageRepo) Changed(ctx context.Context, title, body string) (bool, error) {
	var digest []byte
	err := r.db.Pool.QueryRow(ctx,
		`SELECT digest FROM wiki_pages WHERE title = $1`, title,
	).Scan(&digest)
	if errors.Is(err, pgx.ErrNoRows) {
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("load page %s: %w", title, err)
	}
	return !bytes.Equal(digest, Digest(body)), nil
}

const upsertPage = `INSERT INTO wiki_pages (title, digest, body, updated_at)
	VALUES ($1, $2, $3, now())
	ON CONFLICT (title) DO UPDATE
	SET digest = EXCLUDED.digest, body = EXCLUDED.body, updated_at = now()`
