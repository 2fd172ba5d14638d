// Package store archives finished scans. The scan engine never touches storage; the
// CLI and API hand completed results to a Store after the fact.
package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"

	"github.com/sells-group/prospect-cli/internal/config"
	"github.com/sells-group/prospect-cli/internal/model"
	"github.com/sells-group/prospect-cli/internal/resilience"
)

// ErrNotFound is returned when a scan does not exist.
var ErrNotFound = eris.New("store: scan not found")

// ScanFilter specifies criteria for listing scans.
type ScanFilter struct {
	RulesHash string `json:"rules_hash,omitempty"`
	Limit     int    `json:"limit,omitempty"`
	Offset    int    `json:"offset,omitempty"`
}

// CompanyScore is one company's placement in an archived scan.
type CompanyScore struct {
	ScanID       string     `json:"scan_id"`
	CreatedAt    time.Time  `json:"created_at"`
	Rank         int        `json:"rank"`
	CompanyKey   string     `json:"company_key"`
	DisplayName  string     `json:"display_name"`
	ListingCount int        `json:"listing_count"`
	FinalScore   float64    `json:"final_score"`
	Tier         model.Tier `json:"tier"`
}

// Store defines the persistence interface for archived scans.
type Store interface {
	// SaveScan persists rec. A missing ID or CreatedAt is filled in.
	SaveScan(ctx context.Context, rec *model.ScanRecord) error
	GetScan(ctx context.Context, id string) (*model.ScanRecord, error)
	// ListScans returns scans newest first. Results carry only the summary.
	ListScans(ctx context.Context, filter ScanFilter) ([]model.ScanRecord, error)
	// CompanyHistory returns a company's placements across scans, newest first.
	CompanyHistory(ctx context.Context, companyKey string, limit int) ([]CompanyScore, error)

	Migrate(ctx context.Context) error
	Close() error
}

// Open creates the Store selected by cfg and applies migrations. Transient failures
// such as a refused connection or a locked database are retried.
func Open(ctx context.Context, cfg config.StoreConfig) (Store, error) {
	p := resilience.DefaultPolicy()
	p.OnRetry = resilience.Logger("store_open")
	return resilience.DoVal(ctx, p, func(ctx context.Context) (Store, error) {
		return open(ctx, cfg)
	})
}

func open(ctx context.Context, cfg config.StoreConfig) (Store, error) {
	var (
		s   Store
		err error
	)
	switch cfg.Driver {
	case "sqlite":
		s, err = NewSQLite(cfg.DatabaseURL)
	case "postgres":
		s, err = NewPostgres(ctx, cfg.DatabaseURL, &PoolConfig{MaxConns: cfg.MaxConns, MinConns: cfg.MinConns})
	default:
		return nil, eris.Errorf("store: unknown driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, err
	}
	if err := s.Migrate(ctx); err != nil {
		s.Close() //nolint:errcheck
		return nil, err
	}
	return s, nil
}

// prepare fills in the identity fields of a record about to be saved.
func prepare(rec *model.ScanRecord) error {
	if rec == nil || rec.Result == nil {
		return eris.New("store: scan record has no result")
	}
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	return nil
}

// companyRows flattens the ranked companies of a scan for the scan_companies table.
func companyRows(rec *model.ScanRecord) [][]any {
	rows := make([][]any, 0, len(rec.Result.All))
	for _, c := range rec.Result.All {
		rows = append(rows, []any{
			rec.ID, c.Rank, c.CompanyKey, c.DisplayName, c.ListingCount,
			c.Score.FinalScore, string(c.Score.Tier),
		})
	}
	return rows
}

var companyColumns = []string{
	"scan_id", "rank", "company_key", "display_name", "listing_count", "final_score", "tier",
}

func limitOrDefault(n int) int {
	if n <= 0 {
		return 100
	}
	return n
}
