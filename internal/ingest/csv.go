package ingest

import (
	"context"
	"encoding/csv"
	"io"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/prospect-cli/internal/model"
)

// CSVOptions configures the streaming CSV parser.
type CSVOptions struct {
	Delimiter  rune // default ','
	Comment    rune // comment character (0 = none)
	LazyQuotes bool
}

// StreamCSV reads CSV rows and sends them to a channel. The caller must drain the row
// channel; errors are sent on the error channel. Both channels are closed when
// processing completes.
func StreamCSV(ctx context.Context, r io.Reader, opts CSVOptions) (<-chan []string, <-chan error) {
	rowCh := make(chan []string, 64)
	errCh := make(chan error, 1)

	go func() {
		defer close(rowCh)
		defer close(errCh)

		reader := csv.NewReader(r)
		if opts.Delimiter != 0 {
			reader.Comma = opts.Delimiter
		}
		if opts.Comment != 0 {
			reader.Comment = opts.Comment
		}
		reader.LazyQuotes = opts.LazyQuotes
		reader.FieldsPerRecord = -1 // allow variable fields

		for {
			if ctx.Err() != nil {
				errCh <- eris.Wrap(ctx.Err(), "csv: context cancelled")
				return
			}

			record, err := reader.Read()
			if err == io.EOF {
				return
			}
			if err != nil {
				errCh <- eris.Wrap(err, "csv: read row")
				return
			}

			select {
			case rowCh <- record:
			case <-ctx.Done():
				errCh <- eris.Wrap(ctx.Err(), "csv: context cancelled")
				return
			}
		}
	}()

	return rowCh, errCh
}

// ReadCSV parses listings from CSV with a header row. Columns are matched by header
// name; blank rows are skipped.
func ReadCSV(ctx context.Context, r io.Reader, opts CSVOptions) ([]model.RawListing, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	rowCh, errCh := StreamCSV(ctx, r, opts)

	var (
		cols     columnMap
		listings []model.RawListing
	)
	for row := range rowCh {
		if cols == nil {
			cols = mapHeader(row)
			if _, ok := cols[fieldTitle]; !ok {
				cancel()
				for range rowCh {
				}
				return nil, eris.Errorf("csv: header has no title column: %s", strings.Join(row, ","))
			}
			continue
		}
		if blankRow(row) {
			continue
		}
		listings = append(listings, cols.listing(row))
	}
	if err := <-errCh; err != nil {
		return nil, err
	}
	return listings, nil
}
