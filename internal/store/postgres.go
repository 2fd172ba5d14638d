package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/sells-group/prospect-cli/internal/db"
	"github.com/sells-group/prospect-cli/internal/model"
)

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool    db.Pool
	closeFn func()
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	maxConns := int32(10)
	minConns := int32(2)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

// NewPostgresFromPool wraps an existing pool. The caller keeps ownership of it.
func NewPostgresFromPool(pool db.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS scans (
	id         TEXT PRIMARY KEY,
	label      TEXT NOT NULL DEFAULT '',
	rules_hash TEXT NOT NULL,
	summary    JSONB NOT NULL,
	result     JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS scan_companies (
	scan_id       TEXT NOT NULL REFERENCES scans(id) ON DELETE CASCADE,
	rank          INTEGER NOT NULL,
	company_key   TEXT NOT NULL,
	display_name  TEXT NOT NULL,
	listing_count INTEGER NOT NULL,
	final_score   DOUBLE PRECISION NOT NULL,
	tier          TEXT NOT NULL,
	PRIMARY KEY (scan_id, rank)
);

CREATE INDEX IF NOT EXISTS idx_scans_created_at ON scans(created_at DESC);
CREATE INDEX IF NOT EXISTS idx_scans_rules_hash ON scans(rules_hash);
CREATE INDEX IF NOT EXISTS idx_scan_companies_key ON scan_companies(company_key);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

func (s *PostgresStore) SaveScan(ctx context.Context, rec *model.ScanRecord) error {
	if err := prepare(rec); err != nil {
		return err
	}
	summaryJSON, resultJSON, err := marshalRecord(rec)
	if err != nil {
		return err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return eris.Wrap(err, "postgres: begin transaction")
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	_, err = tx.Exec(ctx,
		`INSERT INTO scans (id, label, rules_hash, summary, result, created_at) VALUES ($1, $2, $3, $4, $5, $6)`,
		rec.ID, rec.Label, rec.RulesHash, summaryJSON, resultJSON, rec.CreatedAt,
	)
	if err != nil {
		return eris.Wrap(err, "postgres: insert scan")
	}

	if _, err := db.CopyFrom(ctx, tx, "scan_companies", companyColumns, companyRows(rec)); err != nil {
		return eris.Wrapf(err, "postgres: copy companies for scan %s", rec.ID)
	}

	if err := tx.Commit(ctx); err != nil {
		return eris.Wrap(err, "postgres: commit scan")
	}
	return nil
}

func (s *PostgresStore) GetScan(ctx context.Context, id string) (*model.ScanRecord, error) {
	var (
		rec        model.ScanRecord
		resultJSON []byte
	)
	err := s.pool.QueryRow(ctx,
		`SELECT id, label, rules_hash, result, created_at FROM scans WHERE id = $1`, id,
	).Scan(&rec.ID, &rec.Label, &rec.RulesHash, &resultJSON, &rec.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, eris.Wrapf(ErrNotFound, "postgres: get scan %s", id)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get scan %s", id)
	}

	rec.Result = &model.ScanResult{}
	if err := json.Unmarshal(resultJSON, rec.Result); err != nil {
		return nil, eris.Wrap(err, "postgres: unmarshal result")
	}
	return &rec, nil
}

func (s *PostgresStore) ListScans(ctx context.Context, filter ScanFilter) ([]model.ScanRecord, error) {
	query := `SELECT id, label, rules_hash, summary, created_at FROM scans`
	args := []any{}
	argIdx := 1

	if filter.RulesHash != "" {
		query += fmt.Sprintf(` WHERE rules_hash = $%d`, argIdx)
		args = append(args, filter.RulesHash)
		argIdx++
	}
	query += ` ORDER BY created_at DESC, id`
	query += fmt.Sprintf(` LIMIT $%d`, argIdx)
	args = append(args, limitOrDefault(filter.Limit))
	argIdx++

	if filter.Offset > 0 {
		query += fmt.Sprintf(` OFFSET $%d`, argIdx)
		args = append(args, filter.Offset)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list scans")
	}
	defer rows.Close()

	var out []model.ScanRecord
	for rows.Next() {
		var (
			rec         model.ScanRecord
			summaryJSON []byte
		)
		if err := rows.Scan(&rec.ID, &rec.Label, &rec.RulesHash, &summaryJSON, &rec.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan scan row")
		}
		rec.Result = &model.ScanResult{}
		if err := json.Unmarshal(summaryJSON, &rec.Result.Summary); err != nil {
			return nil, eris.Wrap(err, "postgres: unmarshal summary")
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "postgres: iterate scans")
	}
	return out, nil
}

func (s *PostgresStore) CompanyHistory(ctx context.Context, companyKey string, limit int) ([]CompanyScore, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT c.scan_id, s.created_at, c.rank, c.company_key, c.display_name,
		       c.listing_count, c.final_score, c.tier
		FROM scan_companies c
		JOIN scans s ON s.id = c.scan_id
		WHERE c.company_key = $1
		ORDER BY s.created_at DESC, c.scan_id
		LIMIT $2`, companyKey, limitOrDefault(limit))
	if err != nil {
		return nil, eris.Wrap(err, "postgres: company history")
	}
	defer rows.Close()

	var out []CompanyScore
	for rows.Next() {
		var cs CompanyScore
		var tier string
		if err := rows.Scan(&cs.ScanID, &cs.CreatedAt, &cs.Rank, &cs.CompanyKey, &cs.DisplayName,
			&cs.ListingCount, &cs.FinalScore, &tier); err != nil {
			return nil, eris.Wrap(err, "postgres: scan company history")
		}
		cs.Tier = model.Tier(tier)
		out = append(out, cs)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "postgres: iterate company history")
	}
	return out, nil
}
