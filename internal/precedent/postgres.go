package precedent

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/Kofibk/icomplain.ai-sub000/internal/config"
	"github.com/Kofibk/icomplain.ai-sub000/internal/model"
)

// Pool is the subset of pgxpool.Pool the store uses; pgxmock satisfies
// it in tests.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
	Close()
}

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool Pool
}

// preparedStatements lists queries to prepare on each new connection for
// faster execution of the most frequently used store operations.
var preparedStatements = map[string]string{
	"search_precedents": `SELECT id, category, summary, successful_arguments, legal_references, successful, decided_at, created_at
		FROM precedents WHERE category = $1 AND ($2 = false OR successful = true)
		ORDER BY decided_at DESC LIMIT $3`,
	"insert_precedent": `INSERT INTO precedents (id, category, summary, successful_arguments, legal_references, successful, decided_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
	"count_precedents": `SELECT count(*) FROM precedents`,
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, cfg config.StoreConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, eris.Wrap(err, "precedent: parse pool config")
	}

	if cfg.MaxConns > 0 {
		pgxCfg.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		pgxCfg.MinConns = cfg.MinConns
	}
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	// Prepare frequently-used statements on each new connection.
	pgxCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		for name, sql := range preparedStatements {
			if _, err := conn.Prepare(ctx, name, sql); err != nil {
				return eris.Wrapf(err, "precedent: prepare %s", name)
			}
		}
		return nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "precedent: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "precedent: ping")
	}
	return &PostgresStore{pool: pool}, nil
}

// NewPostgresWithPool wraps an existing pool, used by tests.
func NewPostgresWithPool(pool Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS precedents (
	id                   TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	category             TEXT NOT NULL,
	summary              TEXT NOT NULL,
	successful_arguments JSONB NOT NULL DEFAULT '[]',
	legal_references     JSONB NOT NULL DEFAULT '[]',
	successful           BOOLEAN NOT NULL DEFAULT false,
	decided_at           TIMESTAMPTZ NOT NULL,
	created_at           TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_precedents_category ON precedents(category);
CREATE INDEX IF NOT EXISTS idx_precedents_category_successful ON precedents(category, successful, decided_at DESC);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "precedent: migrate")
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return eris.Wrap(s.pool.Ping(ctx), "precedent: ping")
}

func (s *PostgresStore) SearchByCategory(ctx context.Context, category model.Category, successfulOnly bool, limit int) ([]Precedent, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, category, summary, successful_arguments, legal_references, successful, decided_at, created_at
		FROM precedents WHERE category = $1 AND ($2 = false OR successful = true)
		ORDER BY decided_at DESC LIMIT $3`,
		string(category), successfulOnly, limit,
	)
	if err != nil {
		return nil, eris.Wrap(err, "precedent: search")
	}
	defer rows.Close()

	var out []Precedent
	for rows.Next() {
		var p Precedent
		var args, refs []byte
		if err := rows.Scan(&p.ID, &p.Category, &p.Summary, &args, &refs, &p.Successful, &p.DecidedAt, &p.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "precedent: scan row")
		}
		if err := json.Unmarshal(args, &p.SuccessfulArguments); err != nil {
			return nil, eris.Wrap(err, "precedent: unmarshal arguments")
		}
		if err := json.Unmarshal(refs, &p.LegalReferences); err != nil {
			return nil, eris.Wrap(err, "precedent: unmarshal references")
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "precedent: iterate rows")
	}
	return out, nil
}

func (s *PostgresStore) Add(ctx context.Context, p *Precedent) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}

	args, err := json.Marshal(p.SuccessfulArguments)
	if err != nil {
		return eris.Wrap(err, "precedent: marshal arguments")
	}
	refs, err := json.Marshal(p.LegalReferences)
	if err != nil {
		return eris.Wrap(err, "precedent: marshal references")
	}

	tag, err := s.pool.Exec(ctx,
		`INSERT INTO precedents (id, category, summary, successful_arguments, legal_references, successful, decided_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		p.ID, string(p.Category), p.Summary, args, refs, p.Successful, p.DecidedAt, p.CreatedAt,
	)
	if err != nil {
		return eris.Wrap(err, "precedent: insert")
	}
	if tag.RowsAffected() != 1 {
		return eris.Errorf("precedent: insert affected %d rows", tag.RowsAffected())
	}
	return nil
}

func (s *PostgresStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.pool.QueryRow(ctx, `SELECT count(*) FROM precedents`).Scan(&n); err != nil {
		return 0, eris.Wrap(err, "precedent: count")
	}
	return n, nil
}
