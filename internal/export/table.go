package export

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/sells-group/prospect-cli/internal/model"
)

// WriteTable writes the top leads as an aligned table followed by the run summary.
func WriteTable(out io.Writer, res *model.ScanResult) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)

	if len(res.Top) == 0 {
		_, _ = fmt.Fprintln(w, "No qualifying prospects found.")
	} else {
		_, _ = fmt.Fprintln(w, "RANK\tCOMPANY\tLISTINGS\tSCORE\tTIER\tMULTIPLIERS")
		_, _ = fmt.Fprintln(w, "----\t-------\t--------\t-----\t----\t-----------")
		for i := range res.Top {
			rc := &res.Top[i]
			_, _ = fmt.Fprintf(w, "%d\t%s\t%d\t%.2f\t%s\t%s\n",
				rc.Rank,
				truncate(rc.DisplayName, 40),
				rc.ListingCount,
				rc.Score.FinalScore,
				rc.Score.Tier,
				joinList(rc.Score.Multipliers),
			)
		}
	}

	s := res.Summary
	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintf(w, "Listings in:\t%d\n", s.TotalListingsIn)
	_, _ = fmt.Fprintf(w, "Malformed:\t%d\n", s.MalformedSkipped)
	if s.TruncatedByBudget > 0 {
		_, _ = fmt.Fprintf(w, "Truncated:\t%d\n", s.TruncatedByBudget)
	}
	_, _ = fmt.Fprintf(w, "Accepted:\t%d\n", s.TotalAccepted)
	_, _ = fmt.Fprintf(w, "Rejected:\t%d\n", s.TotalRejected())
	_, _ = fmt.Fprintf(w, "Companies:\t%d formed, %d eligible\n", s.TotalCompaniesFormed, s.TotalCompaniesEligible)
	for _, t := range model.Tiers {
		_, _ = fmt.Fprintf(w, "  %s:\t%d\n", t, s.CountsByTier[t])
	}

	return w.Flush()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
