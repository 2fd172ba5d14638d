package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/prospect-cli/internal/model"
	"github.com/sells-group/prospect-cli/internal/monitoring"
	"github.com/sells-group/prospect-cli/internal/store"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Inspect archived scans",
	Long:  "Commands for listing and viewing archived scans and a company's score history.",
}

// -- runs list --

var runsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List archived scans",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		rulesHash, _ := cmd.Flags().GetString("rules-hash")
		limit, _ := cmd.Flags().GetInt("limit")
		offset, _ := cmd.Flags().GetInt("offset")

		scans, err := st.ListScans(ctx, store.ScanFilter{
			RulesHash: rulesHash,
			Limit:     limit,
			Offset:    offset,
		})
		if err != nil {
			return eris.Wrap(err, "runs list")
		}

		if len(scans) == 0 {
			fmt.Fprintln(cmd.ErrOrStderr(), "No scans found.")
			return nil
		}

		formatScansList(cmd.OutOrStdout(), scans)
		return nil
	},
}

// -- runs show --

var runsShowCmd = &cobra.Command{
	Use:   "show <scan-id>",
	Short: "Show the full result of an archived scan",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		rec, err := st.GetScan(ctx, args[0])
		if err != nil {
			return eris.Wrap(err, "runs show")
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(rec)
	},
}

// -- runs history --

var runsHistoryCmd = &cobra.Command{
	Use:   "history <company-key>",
	Short: "Show how a company ranked across archived scans",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		limit, _ := cmd.Flags().GetInt("limit")
		hist, err := st.CompanyHistory(ctx, args[0], limit)
		if err != nil {
			return eris.Wrap(err, "runs history")
		}

		if len(hist) == 0 {
			fmt.Fprintf(cmd.ErrOrStderr(), "No history for %q.\n", args[0])
			return nil
		}

		formatCompanyHistory(cmd.OutOrStdout(), hist)
		return nil
	},
}

// -- runs stats --

var runsStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarize archived scans over a lookback window",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		since, _ := cmd.Flags().GetDuration("since")
		if since < 0 {
			return eris.New("runs stats: --since must be >= 0")
		}

		snap, err := monitoring.NewCollector(st).Collect(ctx, since)
		if err != nil {
			return eris.Wrap(err, "runs stats")
		}

		formatSnapshot(cmd.OutOrStdout(), snap)
		return nil
	},
}

func init() {
	runsStatsCmd.Flags().Duration("since", 7*24*time.Hour, "lookback window (0 for the whole archive)")

	runsListCmd.Flags().String("rules-hash", "", "only scans scored with this rule set")
	runsListCmd.Flags().Int("limit", 50, "max number of scans to display")
	runsListCmd.Flags().Int("offset", 0, "number of scans to skip")

	runsHistoryCmd.Flags().Int("limit", 20, "max number of scans to display")

	runsCmd.AddCommand(runsListCmd)
	runsCmd.AddCommand(runsShowCmd)
	runsCmd.AddCommand(runsHistoryCmd)
	runsCmd.AddCommand(runsStatsCmd)
	rootCmd.AddCommand(runsCmd)
}

// formatScansList writes a tabular list of scans to w.
func formatScansList(out io.Writer, scans []model.ScanRecord) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tLABEL\tCREATED\tLISTINGS\tCOMPANIES\tHOT\tQUALIFIED\tRULES")
	_, _ = fmt.Fprintln(w, "--\t-----\t-------\t--------\t---------\t---\t---------\t-----")

	for _, s := range scans {
		var sum model.Summary
		if s.Result != nil {
			sum = s.Result.Summary
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%d\t%d\t%s\n",
			truncateID(s.ID),
			s.Label,
			s.CreatedAt.Format("2006-01-02 15:04"),
			sum.TotalListingsIn,
			sum.TotalCompaniesEligible,
			sum.CountsByTier[model.TierHot],
			sum.CountsByTier[model.TierQualified],
			truncateID(s.RulesHash),
		)
	}
	_ = w.Flush()
}

// formatCompanyHistory writes a company's placements to w.
func formatCompanyHistory(out io.Writer, hist []store.CompanyScore) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "SCAN\tCREATED\tRANK\tLISTINGS\tSCORE\tTIER")
	_, _ = fmt.Fprintln(w, "----\t-------\t----\t--------\t-----\t----")

	for _, h := range hist {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%.2f\t%s\n",
			truncateID(h.ScanID),
			h.CreatedAt.Format("2006-01-02 15:04"),
			h.Rank,
			h.ListingCount,
			h.FinalScore,
			h.Tier,
		)
	}
	_ = w.Flush()
}

// formatSnapshot writes archive metrics to w.
func formatSnapshot(out io.Writer, snap *monitoring.Snapshot) {
	window := "all time"
	if snap.Lookback > 0 {
		window = "last " + snap.Lookback.String()
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(w, "Window:\t%s\n", window)
	_, _ = fmt.Fprintf(w, "Scans:\t%d\n", snap.ScansTotal)
	_, _ = fmt.Fprintf(w, "Listings:\t%d in, %d accepted, %d rejected\n",
		snap.ListingsIn, snap.ListingsAccepted, snap.ListingsRejected)
	_, _ = fmt.Fprintf(w, "Skipped:\t%d malformed, %d over budget\n",
		snap.MalformedSkipped, snap.TruncatedByBudget)
	_, _ = fmt.Fprintf(w, "Accept rate:\t%.1f%%\n", snap.AcceptRate*100)
	_, _ = fmt.Fprintf(w, "Eligible companies:\t%d\n", snap.CompaniesEligible)
	for _, t := range model.Tiers {
		_, _ = fmt.Fprintf(w, "  %s:\t%d\n", t, snap.TierTotals[t])
	}
	_, _ = fmt.Fprintf(w, "Avg HOT per scan:\t%.2f\n", snap.AvgHotPerScan)
	_ = w.Flush()
}

// truncateID returns the first 8 characters of an ID for compact display.
func truncateID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
