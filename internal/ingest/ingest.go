// Package ingest reads raw job listings from JSON, CSV and XLSX sources.
package ingest

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/prospect-cli/internal/model"
)

// Format names a listing source encoding.
type Format string

// Supported formats.
const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// ParseFormat validates a user-supplied format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatJSON, FormatCSV, FormatXLSX:
		return f, nil
	default:
		return "", eris.Errorf("ingest: unsupported format %q", s)
	}
}

// DetectFormat infers the format from a file extension, defaulting to JSON.
func DetectFormat(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return FormatCSV
	case ".xlsx":
		return FormatXLSX
	default:
		return FormatJSON
	}
}

// ReadFile loads every listing in path. An empty format is detected from the extension.
func ReadFile(ctx context.Context, path string, format Format) ([]model.RawListing, error) {
	if format == "" {
		format = DetectFormat(path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "ingest: open %s", path)
	}
	defer f.Close() //nolint:errcheck

	listings, err := Read(ctx, f, format)
	if err != nil {
		return nil, err
	}

	zap.L().Debug("ingest: read listings",
		zap.String("path", path),
		zap.String("format", string(format)),
		zap.Int("count", len(listings)),
	)
	return listings, nil
}

// Read loads every listing from r in the given format.
func Read(ctx context.Context, r io.Reader, format Format) ([]model.RawListing, error) {
	switch format {
	case FormatJSON:
		return ReadJSON(ctx, r)
	case FormatCSV:
		return ReadCSV(ctx, r, CSVOptions{})
	case FormatXLSX:
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, eris.Wrap(err, "ingest: read xlsx body")
		}
		return ReadXLSX(ctx, data, XLSXOptions{})
	default:
		return nil, eris.Errorf("ingest: unsupported format %q", format)
	}
}
