package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/sells-group/prospect-cli/internal/model"
	"github.com/sells-group/prospect-cli/internal/monitoring"
	"github.com/sells-group/prospect-cli/internal/store"
)

func TestFormatScansList(t *testing.T) {
	now := time.Date(2025, 6, 15, 10, 30, 0, 0, time.UTC)
	scans := []model.ScanRecord{
		{
			ID:        "abc12345-6789-0000-0000-000000000000",
			Label:     "weekly",
			RulesHash: "0123456789abcdef",
			CreatedAt: now,
			Result: &model.ScanResult{Summary: model.Summary{
				TotalListingsIn:        120,
				TotalCompaniesEligible: 14,
				CountsByTier:           map[model.Tier]int{model.TierHot: 2, model.TierQualified: 5},
			}},
		},
		{
			ID:        "def12345-6789-0000-0000-000000000000",
			CreatedAt: now.Add(-time.Hour),
		},
	}

	var buf bytes.Buffer
	formatScansList(&buf, scans)

	output := buf.String()
	assert.Contains(t, output, "ID")
	assert.Contains(t, output, "LABEL")
	assert.Contains(t, output, "abc12345")
	assert.Contains(t, output, "def12345")
	assert.Contains(t, output, "weekly")
	assert.Contains(t, output, "2025-06-15 10:30")
	assert.Contains(t, output, "120")
	assert.Contains(t, output, "01234567")
	assert.NotContains(t, output, "0123456789abcdef")
}

func TestFormatCompanyHistory(t *testing.T) {
	now := time.Date(2025, 6, 15, 10, 30, 0, 0, time.UTC)
	hist := []store.CompanyScore{
		{ScanID: "abc12345-xyz", CreatedAt: now, Rank: 2, ListingCount: 10, FinalScore: 62, Tier: model.TierQualified},
		{ScanID: "def12345-xyz", CreatedAt: now.Add(-24 * time.Hour), Rank: 9, ListingCount: 4, FinalScore: 41.5, Tier: model.TierPotential},
	}

	var buf bytes.Buffer
	formatCompanyHistory(&buf, hist)

	output := buf.String()
	assert.Contains(t, output, "RANK")
	assert.Contains(t, output, "abc12345")
	assert.Contains(t, output, "62.00")
	assert.Contains(t, output, "QUALIFIED")
	assert.Contains(t, output, "41.50")
	assert.Contains(t, output, "POTENTIAL")
}

func TestFormatSnapshot(t *testing.T) {
	snap := &monitoring.Snapshot{
		ScansTotal:        4,
		ListingsIn:        200,
		ListingsAccepted:  150,
		ListingsRejected:  50,
		MalformedSkipped:  3,
		CompaniesEligible: 12,
		TierTotals:        map[model.Tier]int{model.TierHot: 2, model.TierQualified: 6},
		AcceptRate:        0.75,
		AvgHotPerScan:     0.5,
		Lookback:          24 * time.Hour,
	}

	var buf bytes.Buffer
	formatSnapshot(&buf, snap)

	output := buf.String()
	assert.Contains(t, output, "last 24h0m0s")
	assert.Contains(t, output, "200 in, 150 accepted, 50 rejected")
	assert.Contains(t, output, "3 malformed")
	assert.Contains(t, output, "75.0%")
	assert.Contains(t, output, "HOT:")
	assert.Contains(t, output, "SKIP:")
	assert.Contains(t, output, "0.50")

	buf.Reset()
	snap.Lookback = 0
	formatSnapshot(&buf, snap)
	assert.Contains(t, buf.String(), "all time")
}

func TestTruncateID(t *testing.T) {
	assert.Equal(t, "abc12345", truncateID("abc12345-6789"))
	assert.Equal(t, "short", truncateID("short"))
	assert.Equal(t, "", truncateID(""))
}
