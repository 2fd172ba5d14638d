// Package export renders scan results as a terminal table, JSON, CSV or XLSX.
package export

import (
	"encoding/json"
	"io"
	"os"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/prospect-cli/internal/model"
)

// Format names an output encoding.
type Format string

// Supported formats.
const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatCSV   Format = "csv"
	FormatXLSX  Format = "xlsx"
)

// ParseFormat validates a user-supplied format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatTable, FormatJSON, FormatCSV, FormatXLSX:
		return f, nil
	default:
		return "", eris.Errorf("export: unsupported format %q (want table, json, csv or xlsx)", s)
	}
}

// Write renders res to w. Table, CSV and XLSX carry the top-N leads; JSON carries the
// complete result.
func Write(w io.Writer, res *model.ScanResult, format Format) error {
	if res == nil {
		return eris.New("export: nil result")
	}

	switch format {
	case FormatTable:
		return WriteTable(w, res)
	case FormatJSON:
		return WriteJSON(w, res)
	case FormatCSV:
		return WriteCSV(w, res.Top)
	case FormatXLSX:
		return WriteXLSX(w, res)
	default:
		return eris.Errorf("export: unsupported format %q", format)
	}
}

// WriteFile renders res into a new file at path.
func WriteFile(path string, res *model.ScanResult, format Format) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrap(err, "export: create file")
	}

	if err := Write(f, res, format); err != nil {
		_ = f.Close()
		return err
	}
	return eris.Wrap(f.Close(), "export: close file")
}

// WriteJSON writes res as indented JSON.
func WriteJSON(w io.Writer, res *model.ScanResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return eris.Wrap(enc.Encode(res), "export: encode json")
}
