package export

import (
	"io"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/prospect-cli/internal/model"
)

// Sheet names in exported workbooks.
const (
	SheetLeads   = "Leads"
	SheetSummary = "Summary"
)

// WriteXLSX writes a workbook with a lead sheet and a summary sheet.
func WriteXLSX(w io.Writer, res *model.ScanResult) error {
	f := xlsx.NewFile()

	leads, err := f.AddSheet(SheetLeads)
	if err != nil {
		return eris.Wrap(err, "export: add leads sheet")
	}
	addStringRow(leads, leadColumns)
	for i := range res.Top {
		rc := &res.Top[i]
		row := leads.AddRow()
		for j, v := range buildLeadRow(rc) {
			cell := row.AddCell()
			switch leadColumns[j] {
			case "Rank":
				cell.SetInt(rc.Rank)
			case "Listings":
				cell.SetInt(rc.ListingCount)
			case "Final Score":
				cell.SetFloat(rc.Score.FinalScore)
			default:
				cell.SetString(v)
			}
		}
	}

	summary, err := f.AddSheet(SheetSummary)
	if err != nil {
		return eris.Wrap(err, "export: add summary sheet")
	}
	s := res.Summary
	addCountRow(summary, "Listings In", s.TotalListingsIn)
	addCountRow(summary, "Malformed Skipped", s.MalformedSkipped)
	addCountRow(summary, "Truncated By Budget", s.TruncatedByBudget)
	addCountRow(summary, "Accepted", s.TotalAccepted)
	addCountRow(summary, "Rejected", s.TotalRejected())
	addCountRow(summary, "Companies Formed", s.TotalCompaniesFormed)
	addCountRow(summary, "Companies Eligible", s.TotalCompaniesEligible)
	for _, t := range model.Tiers {
		addCountRow(summary, "Tier "+string(t), s.CountsByTier[t])
	}

	return eris.Wrap(f.Write(w), "export: write xlsx")
}

func addStringRow(sheet *xlsx.Sheet, values []string) {
	row := sheet.AddRow()
	for _, v := range values {
		row.AddCell().SetString(v)
	}
}

func addCountRow(sheet *xlsx.Sheet, label string, n int) {
	row := sheet.AddRow()
	row.AddCell().SetString(label)
	row.AddCell().SetInt(n)
}
