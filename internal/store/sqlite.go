package store

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/prospect-cli/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS scans (
	id         TEXT PRIMARY KEY,
	label      TEXT NOT NULL DEFAULT '',
	rules_hash TEXT NOT NULL,
	summary    TEXT NOT NULL,
	result     TEXT NOT NULL,
	created_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS scan_companies (
	scan_id       TEXT NOT NULL REFERENCES scans(id) ON DELETE CASCADE,
	rank          INTEGER NOT NULL,
	company_key   TEXT NOT NULL,
	display_name  TEXT NOT NULL,
	listing_count INTEGER NOT NULL,
	final_score   REAL NOT NULL,
	tier          TEXT NOT NULL,
	PRIMARY KEY (scan_id, rank)
);

CREATE INDEX IF NOT EXISTS idx_scans_created_at ON scans(created_at);
CREATE INDEX IF NOT EXISTS idx_scans_rules_hash ON scans(rules_hash);
CREATE INDEX IF NOT EXISTS idx_scan_companies_key ON scan_companies(company_key);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) SaveScan(ctx context.Context, rec *model.ScanRecord) error {
	if err := prepare(rec); err != nil {
		return err
	}
	summaryJSON, resultJSON, err := marshalRecord(rec)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "sqlite: begin transaction")
	}
	defer tx.Rollback() //nolint:errcheck

	_, err = tx.ExecContext(ctx,
		`INSERT INTO scans (id, label, rules_hash, summary, result, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Label, rec.RulesHash, string(summaryJSON), string(resultJSON), rec.CreatedAt,
	)
	if err != nil {
		return eris.Wrap(err, "sqlite: insert scan")
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO scan_companies (scan_id, rank, company_key, display_name, listing_count, final_score, tier)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return eris.Wrap(err, "sqlite: prepare company insert")
	}
	defer stmt.Close()

	for _, row := range companyRows(rec) {
		if _, err := stmt.ExecContext(ctx, row...); err != nil {
			return eris.Wrapf(err, "sqlite: insert company for scan %s", rec.ID)
		}
	}

	return eris.Wrap(tx.Commit(), "sqlite: commit scan")
}

func (s *SQLiteStore) GetScan(ctx context.Context, id string) (*model.ScanRecord, error) {
	var (
		rec        model.ScanRecord
		resultJSON string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, label, rules_hash, result, created_at FROM scans WHERE id = ?`, id,
	).Scan(&rec.ID, &rec.Label, &rec.RulesHash, &resultJSON, &rec.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, eris.Wrapf(ErrNotFound, "sqlite: get scan %s", id)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get scan %s", id)
	}

	rec.Result = &model.ScanResult{}
	if err := json.Unmarshal([]byte(resultJSON), rec.Result); err != nil {
		return nil, eris.Wrap(err, "sqlite: unmarshal result")
	}
	return &rec, nil
}

func (s *SQLiteStore) ListScans(ctx context.Context, filter ScanFilter) ([]model.ScanRecord, error) {
	query := `SELECT id, label, rules_hash, summary, created_at FROM scans`
	var args []any
	if filter.RulesHash != "" {
		query += ` WHERE rules_hash = ?`
		args = append(args, filter.RulesHash)
	}
	query += ` ORDER BY created_at DESC, id LIMIT ? OFFSET ?`
	args = append(args, limitOrDefault(filter.Limit), filter.Offset)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list scans")
	}
	defer rows.Close()

	var out []model.ScanRecord
	for rows.Next() {
		var (
			rec         model.ScanRecord
			summaryJSON string
		)
		if err := rows.Scan(&rec.ID, &rec.Label, &rec.RulesHash, &summaryJSON, &rec.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan scan row")
		}
		rec.Result = &model.ScanResult{}
		if err := json.Unmarshal([]byte(summaryJSON), &rec.Result.Summary); err != nil {
			return nil, eris.Wrap(err, "sqlite: unmarshal summary")
		}
		out = append(out, rec)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: iterate scans")
}

func (s *SQLiteStore) CompanyHistory(ctx context.Context, companyKey string, limit int) ([]CompanyScore, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT c.scan_id, s.created_at, c.rank, c.company_key, c.display_name,
		       c.listing_count, c.final_score, c.tier
		FROM scan_companies c
		JOIN scans s ON s.id = c.scan_id
		WHERE c.company_key = ?
		ORDER BY s.created_at DESC, c.scan_id
		LIMIT ?`, companyKey, limitOrDefault(limit))
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: company history")
	}
	defer rows.Close()

	var out []CompanyScore
	for rows.Next() {
		var cs CompanyScore
		var tier string
		if err := rows.Scan(&cs.ScanID, &cs.CreatedAt, &cs.Rank, &cs.CompanyKey, &cs.DisplayName,
			&cs.ListingCount, &cs.FinalScore, &tier); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan company history")
		}
		cs.Tier = model.Tier(tier)
		out = append(out, cs)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: iterate company history")
}

func marshalRecord(rec *model.ScanRecord) ([]byte, []byte, error) {
	summaryJSON, err := json.Marshal(rec.Result.Summary)
	if err != nil {
		return nil, nil, eris.Wrap(err, "store: marshal summary")
	}
	resultJSON, err := json.Marshal(rec.Result)
	if err != nil {
		return nil, nil, eris.Wrap(err, "store: marshal result")
	}
	return summaryJSON, resultJSON, nil
}
