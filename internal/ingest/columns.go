package ingest

import (
	"strings"
	"time"

	"github.com/sells-group/prospect-cli/internal/model"
)

type field int

const (
	fieldTitle field = iota
	fieldURL
	fieldCompany
	fieldLocation
	fieldDescription
	fieldCategory
	fieldPostedAt
)

// headerAliases maps normalized header names to listing fields.
var headerAliases = map[string]field{
	"title":        fieldTitle,
	"job_title":    fieldTitle,
	"position":     fieldTitle,
	"url":          fieldURL,
	"link":         fieldURL,
	"job_url":      fieldURL,
	"company":      fieldCompany,
	"company_name": fieldCompany,
	"employer":     fieldCompany,
	"location":     fieldLocation,
	"city":         fieldLocation,
	"description":  fieldDescription,
	"body":         fieldDescription,
	"category":     fieldCategory,
	"posted_at":    fieldPostedAt,
	"date_posted":  fieldPostedAt,
	"posted":       fieldPostedAt,
}

var postedAtLayouts = []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02", "01/02/2006"}

// columnMap records which column index feeds each field. Unknown headers are ignored
// and the first matching column wins.
type columnMap map[field]int

func mapHeader(header []string) columnMap {
	cols := make(columnMap, len(header))
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		key = strings.NewReplacer(" ", "_", "-", "_").Replace(key)
		f, ok := headerAliases[key]
		if !ok {
			continue
		}
		if _, seen := cols[f]; !seen {
			cols[f] = i
		}
	}
	return cols
}

func (c columnMap) cell(row []string, f field) string {
	i, ok := c[f]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// listing builds a RawListing from a data row. Missing cells yield empty fields; an
// empty company cell leaves the company name absent.
func (c columnMap) listing(row []string) model.RawListing {
	l := model.RawListing{
		Title:       c.cell(row, fieldTitle),
		URL:         c.cell(row, fieldURL),
		LocationRaw: c.cell(row, fieldLocation),
		Description: c.cell(row, fieldDescription),
		Category:    c.cell(row, fieldCategory),
	}
	if name := c.cell(row, fieldCompany); name != "" {
		l.CompanyNameRaw = &name
	}
	if ts := c.cell(row, fieldPostedAt); ts != "" {
		l.PostedAt = parsePostedAt(ts)
	}
	return l
}

func parsePostedAt(s string) *time.Time {
	for _, layout := range postedAtLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			t = t.UTC()
			return &t
		}
	}
	return nil
}

func blankRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
