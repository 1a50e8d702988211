package database

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/sejinpark/tracklift/core"
)

const cSearchCacheSchema = `
CREATE TABLE IF NOT EXISTS search_cache (
	catalog TEXT NOT NULL,
	query TEXT NOT NULL,
	song_id TEXT NOT NULL,
	title TEXT NOT NULL,
	artist TEXT NOT NULL,
	album TEXT NOT NULL DEFAULT '',
	artwork TEXT NOT NULL DEFAULT '',
	is_exact BOOLEAN NOT NULL DEFAULT FALSE,
	confidence DOUBLE PRECISION NOT NULL DEFAULT 0,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	PRIMARY KEY (catalog, query)
)`

// NewSearchCacheStore connects to Postgres and ensures the cache table
// exists. Catalog searches are the slow, rate-limited part of a build run, so
// the chosen candidate for each (catalog, query) pair is persisted across
// runs.
func NewSearchCacheStore(
	ctx context.Context,
	databaseUrl string,
) (*SearchCacheStore, error) {
	pool, err := pgxpool.Connect(ctx, databaseUrl)
	if err != nil {
		return nil, core.WrappedError(err, "failed to connect to database")
	}
	if _, err := pool.Exec(ctx, cSearchCacheSchema); err != nil {
		pool.Close()
		return nil, core.WrappedError(err, "failed to ensure search_cache table")
	}
	return &SearchCacheStore{pool: pool}, nil
}

type SearchCacheStore struct {
	pool *pgxpool.Pool
}

var _ core.SearchCacheStore = (*SearchCacheStore)(nil)

func (s *SearchCacheStore) Get(
	ctx context.Context,
	catalog string,
	query string,
) (*core.CatalogCandidate, bool, error) {
	candidate := &core.CatalogCandidate{}
	err := s.pool.QueryRow(
		ctx,
		`SELECT song_id, title, artist, album, artwork, is_exact, confidence
		 FROM search_cache
		 WHERE catalog = $1 AND query = $2`,
		catalog,
		query,
	).Scan(
		&candidate.Id,
		&candidate.Title,
		&candidate.Artist,
		&candidate.Album,
		&candidate.Artwork,
		&candidate.IsExact,
		&candidate.Confidence,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, core.WrappedError(err, "failed to read search cache")
	}
	return candidate, true, nil
}

func (s *SearchCacheStore) Put(
	ctx context.Context,
	catalog string,
	query string,
	candidate *core.CatalogCandidate, /*const*/
) error {
	if candidate == nil {
		return core.NewError("candidate is required")
	}
	_, err := s.pool.Exec(
		ctx,
		`INSERT INTO search_cache
			(catalog, query, song_id, title, artist, album, artwork, is_exact, confidence)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 ON CONFLICT (catalog, query) DO UPDATE SET
			song_id = EXCLUDED.song_id,
			title = EXCLUDED.title,
			artist = EXCLUDED.artist,
			album = EXCLUDED.album,
			artwork = EXCLUDED.artwork,
			is_exact = EXCLUDED.is_exact,
			confidence = EXCLUDED.confidence,
			created_at = now()`,
		catalog,
		query,
		candidate.Id,
		candidate.Title,
		candidate.Artist,
		candidate.Album,
		candidate.Artwork,
		candidate.IsExact,
		candidate.Confidence,
	)
	if err != nil {
		return core.WrappedError(err, "failed to write search cache")
	}
	return nil
}

// Close releases the connection pool.
func (s *SearchCacheStore) Close() {
	s.pool.Close()
}
