// Package postgres is a docstore backend on a single JSONB table. It
// supports transactions, so order and payment writes commit together.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/Sai-Karthik-Manam/ShopSmart-App/internal/infrastructure/docstore"
)

const schema = `CREATE TABLE IF NOT EXISTS documents (
	collection TEXT NOT NULL,
	id TEXT NOT NULL,
	seq BIGSERIAL,
	version BIGINT NOT NULL,
	data JSONB NOT NULL,
	PRIMARY KEY (collection, id)
)`

const uniqueViolation = "23505"

// querier is satisfied by *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type Store struct {
	db *sql.DB
}

// Open connects with lib/pq and pings the server.
func Open(ctx context.Context, dsn string) (*Store, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: ping: %w", err)
	}
	return New(db), nil
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Migrate creates the documents table if it does not exist.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("postgres: migrate: %w", err)
	}
	return nil
}

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) Collection(name string) docstore.Collection {
	return &collection{q: s.db, name: name}
}

func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, tx docstore.Store) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("postgres: begin: %w", err)
	}
	if err := fn(ctx, txStore{tx: tx}); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return errors.Join(err, fmt.Errorf("postgres: rollback: %w", rbErr))
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("postgres: commit: %w", err)
	}
	return nil
}

type txStore struct{ tx *sql.Tx }

func (t txStore) Collection(name string) docstore.Collection {
	return &collection{q: t.tx, name: name}
}

type collection struct {
	q    querier
	name string
}

func (c *collection) FindByID(ctx context.Context, id string, out any) error {
	var data []byte
	err := c.q.QueryRowContext(ctx,
		`SELECT data FROM documents WHERE collection = $1 AND id = $2`,
		c.name, id,
	).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return docstore.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("postgres: find %s/%s: %w", c.name, id, err)
	}
	return json.Unmarshal(data, out)
}

func (c *collection) FindByIDs(ctx context.Context, ids []string, out any) error {
	return c.queryAll(ctx, out,
		`SELECT data FROM documents WHERE collection = $1 AND id = ANY($2) ORDER BY seq`,
		c.name, pq.Array(ids),
	)
}

func (c *collection) FindOne(ctx context.Context, filter docstore.Filter, out any) error {
	f, err := filterJSON(filter)
	if err != nil {
		return err
	}
	var data []byte
	err = c.q.QueryRowContext(ctx,
		`SELECT data FROM documents WHERE collection = $1 AND data @> $2::jsonb ORDER BY seq LIMIT 1`,
		c.name, f,
	).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return docstore.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("postgres: find one in %s: %w", c.name, err)
	}
	return json.Unmarshal(data, out)
}

func (c *collection) FindMany(ctx context.Context, filter docstore.Filter, out any) error {
	f, err := filterJSON(filter)
	if err != nil {
		return err
	}
	return c.queryAll(ctx, out,
		`SELECT data FROM documents WHERE collection = $1 AND data @> $2::jsonb ORDER BY seq`,
		c.name, f,
	)
}

func (c *collection) Insert(ctx context.Context, id string, doc any) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("postgres: encode %s/%s: %w", c.name, id, err)
	}
	_, err = c.q.ExecContext(ctx,
		`INSERT INTO documents (collection, id, version, data) VALUES ($1, $2, 1, $3)`,
		c.name, id, data,
	)
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return docstore.ErrDuplicate
	}
	if err != nil {
		return fmt.Errorf("postgres: insert %s/%s: %w", c.name, id, err)
	}
	return nil
}

func (c *collection) Replace(ctx context.Context, id string, expectedVersion int64, doc any) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("postgres: encode %s/%s: %w", c.name, id, err)
	}
	res, err := c.q.ExecContext(ctx,
		`UPDATE documents SET data = $1, version = version + 1 WHERE collection = $2 AND id = $3 AND version = $4`,
		data, c.name, id, expectedVersion,
	)
	if err != nil {
		return fmt.Errorf("postgres: replace %s/%s: %w", c.name, id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("postgres: replace %s/%s: %w", c.name, id, err)
	}
	if n > 0 {
		return nil
	}

	var version int64
	err = c.q.QueryRowContext(ctx,
		`SELECT version FROM documents WHERE collection = $1 AND id = $2`,
		c.name, id,
	).Scan(&version)
	if errors.Is(err, sql.ErrNoRows) {
		return docstore.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("postgres: replace %s/%s: %w", c.name, id, err)
	}
	return docstore.ErrConflict
}

func (c *collection) DeleteByID(ctx context.Context, id string) error {
	res, err := c.q.ExecContext(ctx,
		`DELETE FROM documents WHERE collection = $1 AND id = $2`,
		c.name, id,
	)
	return deleted(res, err, c.name)
}

func (c *collection) DeleteOne(ctx context.Context, filter docstore.Filter) error {
	f, err := filterJSON(filter)
	if err != nil {
		return err
	}
	res, err := c.q.ExecContext(ctx,
		`DELETE FROM documents WHERE collection = $1 AND id = (SELECT id FROM documents WHERE collection = $1 AND data @> $2::jsonb ORDER BY seq LIMIT 1)`,
		c.name, f,
	)
	return deleted(res, err, c.name)
}

func (c *collection) queryAll(ctx context.Context, out any, query string, args ...any) error {
	rows, err := c.q.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("postgres: query %s: %w", c.name, err)
	}
	defer rows.Close()

	var raws [][]byte
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return fmt.Errorf("postgres: scan %s: %w", c.name, err)
		}
		raws = append(raws, data)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("postgres: rows %s: %w", c.name, err)
	}
	return docstore.DecodeAll(raws, out)
}

func deleted(res sql.Result, err error, name string) error {
	if err != nil {
		return fmt.Errorf("postgres: delete from %s: %w", name, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("postgres: delete from %s: %w", name, err)
	}
	if n == 0 {
		return docstore.ErrNotFound
	}
	return nil
}

func filterJSON(filter docstore.Filter) (string, error) {
	if len(filter) == 0 {
		return "{}", nil
	}
	raw, err := json.Marshal(filter)
	if err != nil {
		return "", fmt.Errorf("postgres: encode filter: %w", err)
	}
	return string(raw), nil
}
