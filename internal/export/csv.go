package export

import (
	"encoding/csv"
	"io"

	"github.com/rotisserie/eris"

	"github.com/sells-group/prospect-cli/internal/model"
)

// WriteCSV writes one row per ranked company with the score breakdown.
func WriteCSV(w io.Writer, leads []model.RankedCompany) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(leadColumns); err != nil {
		return eris.Wrap(err, "export: write csv header")
	}

	for i := range leads {
		if err := cw.Write(buildLeadRow(&leads[i])); err != nil {
			return eris.Wrap(err, "export: write csv row")
		}
	}

	cw.Flush()
	return eris.Wrap(cw.Error(), "export: flush csv")
}
