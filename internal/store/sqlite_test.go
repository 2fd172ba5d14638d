package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/prospect-cli/internal/config"
	"github.com/sells-group/prospect-cli/internal/model"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	st, err := NewSQLite(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() }) //nolint:errcheck
	require.NoError(t, st.Migrate(context.Background()))
	return st
}

func sampleRecord(label string, createdAt time.Time) *model.ScanRecord {
	return &model.ScanRecord{
		Label:     label,
		RulesHash: "abc123",
		CreatedAt: createdAt,
		Result: &model.ScanResult{
			Top: []model.RankedCompany{{
				Rank: 1, CompanyKey: "acme plumbing", DisplayName: "Acme Plumbing", ListingCount: 10,
				Score: model.Score{FinalScore: 62, Tier: model.TierQualified},
			}},
			All: []model.RankedCompany{
				{
					Rank: 1, CompanyKey: "acme plumbing", DisplayName: "Acme Plumbing", ListingCount: 10,
					Score: model.Score{FinalScore: 62, Tier: model.TierQualified},
				},
				{
					Rank: 2, CompanyKey: "bolt electric", DisplayName: "Bolt Electric", ListingCount: 3,
					Score: model.Score{FinalScore: 12.5, Tier: model.TierSkip},
				},
			},
			Summary: model.Summary{
				TotalListingsIn:        20,
				TotalAccepted:          13,
				RejectedByReason:       map[string]int{"TooShort": 7},
				TotalCompaniesFormed:   4,
				TotalCompaniesEligible: 2,
				CountsByTier:           map[model.Tier]int{model.TierQualified: 1, model.TierSkip: 1},
			},
		},
	}
}

func TestSQLite_SaveAndGetScan(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	rec := sampleRecord("weekly", time.Time{})
	require.NoError(t, st.SaveScan(ctx, rec))
	assert.NotEmpty(t, rec.ID)
	assert.False(t, rec.CreatedAt.IsZero())

	got, err := st.GetScan(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, rec.ID, got.ID)
	assert.Equal(t, "weekly", got.Label)
	assert.Equal(t, "abc123", got.RulesHash)
	assert.WithinDuration(t, rec.CreatedAt, got.CreatedAt, time.Second)
	require.NotNil(t, got.Result)
	assert.Equal(t, rec.Result.All, got.Result.All)
	assert.Equal(t, rec.Result.Summary, got.Result.Summary)
}

func TestSQLite_GetScan_NotFound(t *testing.T) {
	st := newTestSQLiteStore(t)

	_, err := st.GetScan(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, eris.Is(err, ErrNotFound))
}

func TestSQLite_SaveScan_RequiresResult(t *testing.T) {
	st := newTestSQLiteStore(t)

	err := st.SaveScan(context.Background(), &model.ScanRecord{Label: "empty"})
	assert.Error(t, err)
}

func TestSQLite_SaveScan_DuplicateID(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	rec := sampleRecord("first", time.Now().UTC())
	require.NoError(t, st.SaveScan(ctx, rec))

	dup := sampleRecord("second", time.Now().UTC())
	dup.ID = rec.ID
	assert.Error(t, st.SaveScan(ctx, dup))
}

func TestSQLite_ListScans(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	older := sampleRecord("older", base)
	newer := sampleRecord("newer", base.Add(time.Hour))
	other := sampleRecord("other-rules", base.Add(2*time.Hour))
	other.RulesHash = "def456"
	for _, rec := range []*model.ScanRecord{older, newer, other} {
		require.NoError(t, st.SaveScan(ctx, rec))
	}

	all, err := st.ListScans(ctx, ScanFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "other-rules", all[0].Label)
	assert.Equal(t, "newer", all[1].Label)
	assert.Equal(t, "older", all[2].Label)
	assert.Equal(t, 20, all[0].Result.Summary.TotalListingsIn)
	assert.Nil(t, all[0].Result.All)

	byHash, err := st.ListScans(ctx, ScanFilter{RulesHash: "abc123", Limit: 1})
	require.NoError(t, err)
	require.Len(t, byHash, 1)
	assert.Equal(t, "newer", byHash[0].Label)

	paged, err := st.ListScans(ctx, ScanFilter{Limit: 2, Offset: 2})
	require.NoError(t, err)
	require.Len(t, paged, 1)
	assert.Equal(t, "older", paged[0].Label)
}

func TestSQLite_CompanyHistory(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	first := sampleRecord("first", base)
	second := sampleRecord("second", base.Add(24*time.Hour))
	second.Result.All[0].Score.FinalScore = 81
	second.Result.All[0].Score.Tier = model.TierHot
	require.NoError(t, st.SaveScan(ctx, first))
	require.NoError(t, st.SaveScan(ctx, second))

	hist, err := st.CompanyHistory(ctx, "acme plumbing", 0)
	require.NoError(t, err)
	require.Len(t, hist, 2)
	assert.Equal(t, second.ID, hist[0].ScanID)
	assert.Equal(t, model.TierHot, hist[0].Tier)
	assert.InDelta(t, 81.0, hist[0].FinalScore, 1e-9)
	assert.Equal(t, first.ID, hist[1].ScanID)
	assert.Equal(t, 1, hist[1].Rank)
	assert.Equal(t, "Acme Plumbing", hist[1].DisplayName)

	none, err := st.CompanyHistory(ctx, "nobody", 10)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestOpen_SQLite(t *testing.T) {
	ctx := context.Background()
	s, err := Open(ctx, config.StoreConfig{Driver: "sqlite", DatabaseURL: filepath.Join(t.TempDir(), "open.db")})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() }) //nolint:errcheck

	require.NoError(t, s.SaveScan(ctx, sampleRecord("via-open", time.Time{})))
	list, err := s.ListScans(ctx, ScanFilter{})
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), config.StoreConfig{Driver: "mysql"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown driver")
}
