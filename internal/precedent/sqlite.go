package precedent

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/Kofibk/icomplain.ai-sub000/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite. Used for local
// development and single-node deployments.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "precedent: sqlite open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "precedent: sqlite exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS precedents (
	id                   TEXT PRIMARY KEY,
	category             TEXT NOT NULL,
	summary              TEXT NOT NULL,
	successful_arguments TEXT NOT NULL DEFAULT '[]',
	legal_references     TEXT NOT NULL DEFAULT '[]',
	successful           INTEGER NOT NULL DEFAULT 0,
	decided_at           DATETIME NOT NULL,
	created_at           DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_precedents_category ON precedents(category);
CREATE INDEX IF NOT EXISTS idx_precedents_category_successful ON precedents(category, successful, decided_at);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "precedent: sqlite migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) SearchByCategory(ctx context.Context, category model.Category, successfulOnly bool, limit int) ([]Precedent, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, category, summary, successful_arguments, legal_references, successful, decided_at, created_at
		FROM precedents WHERE category = ? AND (? = 0 OR successful = 1)
		ORDER BY decided_at DESC LIMIT ?`,
		string(category), successfulOnly, limit,
	)
	if err != nil {
		return nil, eris.Wrap(err, "precedent: sqlite search")
	}
	defer rows.Close()

	var out []Precedent
	for rows.Next() {
		var p Precedent
		var args, refs string
		if err := rows.Scan(&p.ID, &p.Category, &p.Summary, &args, &refs, &p.Successful, &p.DecidedAt, &p.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "precedent: sqlite scan row")
		}
		if err := json.Unmarshal([]byte(args), &p.SuccessfulArguments); err != nil {
			return nil, eris.Wrap(err, "precedent: sqlite unmarshal arguments")
		}
		if err := json.Unmarshal([]byte(refs), &p.LegalReferences); err != nil {
			return nil, eris.Wrap(err, "precedent: sqlite unmarshal references")
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "precedent: sqlite iterate rows")
	}
	return out, nil
}

func (s *SQLiteStore) Add(ctx context.Context, p *Precedent) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}

	args, err := json.Marshal(p.SuccessfulArguments)
	if err != nil {
		return eris.Wrap(err, "precedent: sqlite marshal arguments")
	}
	refs, err := json.Marshal(p.LegalReferences)
	if err != nil {
		return eris.Wrap(err, "precedent: sqlite marshal references")
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO precedents (id, category, summary, successful_arguments, legal_references, successful, decided_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, string(p.Category), p.Summary, string(args), string(refs), p.Successful, p.DecidedAt, p.CreatedAt,
	)
	if err != nil {
		return eris.Wrap(err, "precedent: sqlite insert")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "precedent: sqlite rows affected")
	}
	if n != 1 {
		return eris.Errorf("precedent: sqlite insert affected %d rows", n)
	}
	return nil
}

func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM precedents`).Scan(&n); err != nil {
		return 0, eris.Wrap(err, "precedent: sqlite count")
	}
	return n, nil
}
