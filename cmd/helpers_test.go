package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/prospect-cli/internal/config"
	"github.com/sells-group/prospect-cli/internal/model"
)

// testConfig installs a config backed by a temp SQLite archive and restores the
// previous config when the test ends.
func testConfig(t *testing.T) *config.Config {
	t.Helper()
	old := cfg
	cfg = &config.Config{
		Store: config.StoreConfig{
			Driver:      "sqlite",
			DatabaseURL: filepath.Join(t.TempDir(), "prospect.db"),
		},
		Server: config.ServerConfig{
			Port:           8080,
			RateLimitRPS:   5,
			RateLimitBurst: 10,
			MaxBodyBytes:   1 << 20,
		},
		Log: config.LogConfig{Level: "info", Format: "json"},
	}
	t.Cleanup(func() { cfg = old })
	return cfg
}

// resetScanFlags restores the scan flag variables after the test.
func resetScanFlags(t *testing.T) {
	t.Helper()
	input, inputFormat, format, output := scanInput, scanInputFormat, scanFormat, scanOutput
	rulesPath, label, save := scanRules, scanLabel, scanSave
	workers, maxListings, topN := scanWorkers, scanMaxListings, scanTopN

	scanFormat = "table"
	t.Cleanup(func() {
		scanInput, scanInputFormat, scanFormat, scanOutput = input, inputFormat, format, output
		scanRules, scanLabel, scanSave = rulesPath, label, save
		scanWorkers, scanMaxListings, scanTopN = workers, maxListings, topN
	})
}

// captureOutput points cmd at fresh buffers and a background context.
func captureOutput(t *testing.T, cmd *cobra.Command) (*bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetContext(context.Background())
	t.Cleanup(func() {
		cmd.SetOut(nil)
		cmd.SetErr(nil)
		cmd.SetIn(nil)
		cmd.SetContext(context.TODO())
	})
	return &stdout, &stderr
}

// acmeListings returns ten listings for one plumbing company with a single
// expansion phrase, which scores 62 (QUALIFIED) under the default rules.
func acmeListings() []model.RawListing {
	name := "Acme Plumbing LLC"
	var out []model.RawListing
	for i := 0; i < 10; i++ {
		desc := "Install and repair residential plumbing."
		if i == 0 {
			desc = "We're expanding into new neighborhoods."
		}
		out = append(out, model.RawListing{
			Title:          fmt.Sprintf("Service Plumber %d", i),
			URL:            fmt.Sprintf("https://jobs.example.com/acme/%d", i),
			CompanyNameRaw: &name,
			LocationRaw:    "Houston, TX",
			Description:    desc,
		})
	}
	return out
}

func writeListingsFile(t *testing.T) string {
	t.Helper()
	data, err := json.Marshal(acmeListings())
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "listings.json")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}
