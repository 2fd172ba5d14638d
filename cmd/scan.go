package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/prospect-cli/internal/config"
	"github.com/sells-group/prospect-cli/internal/export"
	"github.com/sells-group/prospect-cli/internal/ingest"
	"github.com/sells-group/prospect-cli/internal/model"
	"github.com/sells-group/prospect-cli/internal/pipeline"
)

var (
	scanInput       string
	scanInputFormat string
	scanFormat      string
	scanOutput      string
	scanRules       string
	scanLabel       string
	scanSave        bool
	scanWorkers     int
	scanMaxListings int
	scanTopN        int
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Score and rank the companies behind a batch of job listings",
	Long: `Reads raw job listings, filters low-quality posts, groups listings into companies,
extracts hiring signals and prints the top-ranked prospects.

Examples:
  # Rank listings from a JSON export
  scan --input listings.json

  # Read CSV from stdin and write the leads as XLSX
  cat listings.csv | scan --input - --input-format csv --format xlsx --output leads.xlsx

  # Use a custom rules file and archive the result
  scan --input listings.json --rules rules.yaml --save --label weekly`,
	RunE: runScan,
}

func init() {
	f := scanCmd.Flags()
	f.StringVar(&scanInput, "input", "", "listings file, or - for stdin")
	f.StringVar(&scanInputFormat, "input-format", "", "input format: json, csv or xlsx (default: from extension)")
	f.StringVar(&scanFormat, "format", "table", "output format: table, json, csv or xlsx")
	f.StringVar(&scanOutput, "output", "", "output file path (default: stdout)")
	f.StringVar(&scanRules, "rules", "", "rules file (overrides scan.rules_file)")
	f.StringVar(&scanLabel, "label", "", "label stored with an archived scan")
	f.BoolVar(&scanSave, "save", false, "archive the result in the configured store")
	f.IntVar(&scanWorkers, "workers", 0, "parallel workers per stage (overrides scan.workers)")
	f.IntVar(&scanMaxListings, "max-listings", 0, "listing budget (overrides scan.max_listings)")
	f.IntVar(&scanTopN, "top-n", 0, "number of leads to report (overrides scan.top_n)")
	_ = scanCmd.MarkFlagRequired("input")

	rootCmd.AddCommand(scanCmd)
}

func runScan(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := cfg.Validate("scan"); err != nil {
		return err
	}

	outFormat, err := export.ParseFormat(scanFormat)
	if err != nil {
		return err
	}
	if outFormat == export.FormatXLSX && scanOutput == "" {
		return eris.New("scan: --format xlsx requires --output")
	}

	scanCfg := applyScanOverrides(cfg.Scan)
	set, err := scanCfg.RuleSet()
	if err != nil {
		return eris.Wrap(err, "scan: rules")
	}

	listings, err := readListings(ctx, cmd)
	if err != nil {
		return err
	}

	engine := pipeline.New(set, pipeline.Options{
		Workers:     scanCfg.Workers,
		MaxListings: scanCfg.MaxListings,
	})
	res, err := engine.Run(ctx, listings)
	if err != nil {
		return eris.Wrap(err, "scan: run")
	}

	if scanOutput == "" {
		if err := export.Write(cmd.OutOrStdout(), res, outFormat); err != nil {
			return err
		}
	} else {
		if err := export.WriteFile(scanOutput, res, outFormat); err != nil {
			return err
		}
		zap.L().Info("scan: wrote output", zap.String("path", scanOutput), zap.String("format", string(outFormat)))
	}

	if scanSave {
		id, err := saveScan(ctx, engine.RulesHash(), res)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Saved scan %s\n", id)
	}

	return nil
}

// applyScanOverrides returns a copy of the base config with CLI flag overrides applied.
func applyScanOverrides(base config.ScanConfig) config.ScanConfig {
	c := base
	if scanRules != "" {
		c.RulesFile = scanRules
	}
	if scanWorkers > 0 {
		c.Workers = scanWorkers
	}
	if scanMaxListings > 0 {
		c.MaxListings = scanMaxListings
	}
	if scanTopN > 0 {
		c.TopN = scanTopN
	}
	return c
}

func readListings(ctx context.Context, cmd *cobra.Command) ([]model.RawListing, error) {
	var format ingest.Format
	if scanInputFormat != "" {
		f, err := ingest.ParseFormat(scanInputFormat)
		if err != nil {
			return nil, err
		}
		format = f
	}

	if scanInput == "-" {
		if format == "" {
			format = ingest.FormatJSON
		}
		return ingest.Read(ctx, cmd.InOrStdin(), format)
	}
	return ingest.ReadFile(ctx, scanInput, format)
}

func saveScan(ctx context.Context, rulesHash string, res *model.ScanResult) (string, error) {
	st, err := initStore(ctx)
	if err != nil {
		return "", err
	}
	defer st.Close() //nolint:errcheck

	rec := &model.ScanRecord{Label: scanLabel, RulesHash: rulesHash, Result: res}
	if err := st.SaveScan(ctx, rec); err != nil {
		return "", eris.Wrap(err, "scan: save")
	}
	return rec.ID, nil
}
