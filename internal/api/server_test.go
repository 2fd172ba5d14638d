package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/prospect-cli/internal/config"
	"github.com/sells-group/prospect-cli/internal/model"
	"github.com/sells-group/prospect-cli/internal/pipeline"
	"github.com/sells-group/prospect-cli/internal/rules"
	"github.com/sells-group/prospect-cli/internal/store"
)

func testServerConfig() config.ServerConfig {
	return config.ServerConfig{
		Port:           8080,
		RateLimitRPS:   100,
		RateLimitBurst: 100,
		AllowedOrigins: []string{"*"},
		MaxBodyBytes:   1 << 20,
	}
}

func newEngine(t *testing.T) *pipeline.Engine {
	t.Helper()
	set, err := rules.Compile(rules.Default())
	require.NoError(t, err)
	return pipeline.New(set, pipeline.Options{Workers: 2})
}

func newSQLiteStore(t *testing.T) store.Store {
	t.Helper()
	st, err := store.NewSQLite(filepath.Join(t.TempDir(), "api.db"))
	require.NoError(t, err)
	require.NoError(t, st.Migrate(context.Background()))
	t.Cleanup(func() { st.Close() }) //nolint:errcheck
	return st
}

// acmeListings returns ten listings for one plumbing company with a single
// expansion phrase.
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

func mustJSON(t *testing.T, v any) []byte {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return data
}

func do(t *testing.T, h http.Handler, method, target string, body []byte, contentType string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeResult(t *testing.T, rec *httptest.ResponseRecorder) model.ScanResult {
	t.Helper()
	var res model.ScanResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	return res
}

type failingScanner struct{}

func (failingScanner) Run(context.Context, []model.RawListing) (*model.ScanResult, error) {
	return nil, context.Canceled
}

func (failingScanner) RulesHash() string { return "hash" }

func TestHealth(t *testing.T) {
	h := New(newEngine(t), nil, testServerConfig()).Handler()

	rec := do(t, h, http.MethodGet, "/health", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestCreateScan_JSONArray(t *testing.T) {
	h := New(newEngine(t), nil, testServerConfig()).Handler()

	rec := do(t, h, http.MethodPost, "/v1/scans", mustJSON(t, acmeListings()), "application/json")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	res := decodeResult(t, rec)
	require.Len(t, res.Top, 1)
	assert.Equal(t, "acme plumbing", res.Top[0].CompanyKey)
	assert.Equal(t, model.TierQualified, res.Top[0].Score.Tier)
	assert.InDelta(t, 62.0, res.Top[0].Score.FinalScore, 1e-9)
	assert.Equal(t, 10, res.Summary.TotalAccepted)
}

func TestCreateScan_Envelope(t *testing.T) {
	h := New(newEngine(t), nil, testServerConfig()).Handler()

	body := mustJSON(t, map[string]any{"listings": acmeListings()})
	rec := do(t, h, http.MethodPost, "/v1/scans", body, "application/json")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeResult(t, rec).Top, 1)
}

func TestCreateScan_CSV(t *testing.T) {
	h := New(newEngine(t), nil, testServerConfig()).Handler()

	var b strings.Builder
	b.WriteString("title,company_name,location,description,url\n")
	for i := 0; i < 3; i++ {
		fmt.Fprintf(&b, "Mover %d,Rapid Movers,\"Denver, CO\",Lift boxes,https://x/%d\n", i, i)
	}

	rec := do(t, h, http.MethodPost, "/v1/scans", []byte(b.String()), "text/csv; charset=utf-8")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	res := decodeResult(t, rec)
	assert.Equal(t, 3, res.Summary.TotalListingsIn)
	require.Len(t, res.All, 1)
	assert.Equal(t, "rapid movers", res.All[0].CompanyKey)
}

func TestCreateScan_EmptyBody(t *testing.T) {
	h := New(newEngine(t), nil, testServerConfig()).Handler()

	rec := do(t, h, http.MethodPost, "/v1/scans", nil, "application/json")
	require.Equal(t, http.StatusOK, rec.Code)

	res := decodeResult(t, rec)
	assert.Empty(t, res.Top)
	assert.Equal(t, 0, res.Summary.TotalListingsIn)
}

func TestCreateScan_InvalidJSON(t *testing.T) {
	h := New(newEngine(t), nil, testServerConfig()).Handler()

	rec := do(t, h, http.MethodPost, "/v1/scans", []byte(`[{"title": 1}]`), "application/json")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid listings")
}

func TestCreateScan_BodyTooLarge(t *testing.T) {
	cfg := testServerConfig()
	cfg.MaxBodyBytes = 16
	h := New(newEngine(t), nil, cfg).Handler()

	rec := do(t, h, http.MethodPost, "/v1/scans", mustJSON(t, acmeListings()), "application/json")
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestCreateScan_BadSaveFlag(t *testing.T) {
	h := New(newEngine(t), nil, testServerConfig()).Handler()

	rec := do(t, h, http.MethodPost, "/v1/scans?save=maybe", []byte("[]"), "application/json")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateScan_SaveWithoutStore(t *testing.T) {
	h := New(newEngine(t), nil, testServerConfig()).Handler()

	rec := do(t, h, http.MethodPost, "/v1/scans?save=true", mustJSON(t, acmeListings()), "application/json")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestCreateScan_ScannerError(t *testing.T) {
	h := New(failingScanner{}, nil, testServerConfig()).Handler()

	rec := do(t, h, http.MethodPost, "/v1/scans", []byte("[]"), "application/json")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestArchiveRoundTrip(t *testing.T) {
	engine := newEngine(t)
	h := New(engine, newSQLiteStore(t), testServerConfig()).Handler()

	rec := do(t, h, http.MethodPost, "/v1/scans?save=true&label=weekly", mustJSON(t, acmeListings()), "application/json")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	id := rec.Header().Get("X-Scan-ID")
	require.NotEmpty(t, id)
	assert.Equal(t, "/v1/scans/"+id, rec.Header().Get("Location"))

	// Get
	rec = do(t, h, http.MethodGet, "/v1/scans/"+id, nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var got model.ScanRecord
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, id, got.ID)
	assert.Equal(t, "weekly", got.Label)
	assert.Equal(t, engine.RulesHash(), got.RulesHash)
	require.NotNil(t, got.Result)
	require.Len(t, got.Result.Top, 1)

	// List
	rec = do(t, h, http.MethodGet, "/v1/scans?rules_hash="+engine.RulesHash(), nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list []model.ScanRecord
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, id, list[0].ID)

	// Company history
	rec = do(t, h, http.MethodGet, "/v1/companies/acme%20plumbing/history", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var hist []store.CompanyScore
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &hist))
	require.Len(t, hist, 1)
	assert.Equal(t, id, hist[0].ScanID)
	assert.Equal(t, 1, hist[0].Rank)
	assert.Equal(t, model.TierQualified, hist[0].Tier)
}

func TestListScans_Empty(t *testing.T) {
	h := New(newEngine(t), newSQLiteStore(t), testServerConfig()).Handler()

	rec := do(t, h, http.MethodGet, "/v1/scans", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestListScans_BadPaging(t *testing.T) {
	h := New(newEngine(t), newSQLiteStore(t), testServerConfig()).Handler()

	rec := do(t, h, http.MethodGet, "/v1/scans?limit=-1", nil, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodGet, "/v1/scans?offset=abc", nil, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetScan_NotFound(t *testing.T) {
	h := New(newEngine(t), newSQLiteStore(t), testServerConfig()).Handler()

	rec := do(t, h, http.MethodGet, "/v1/scans/does-not-exist", nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestArchiveEndpoints_NoStore(t *testing.T) {
	h := New(newEngine(t), nil, testServerConfig()).Handler()

	for _, target := range []string{"/v1/scans", "/v1/scans/abc", "/v1/companies/acme/history"} {
		rec := do(t, h, http.MethodGet, target, nil, "")
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code, target)
	}
}

func TestCompanyHistory_Empty(t *testing.T) {
	h := New(newEngine(t), newSQLiteStore(t), testServerConfig()).Handler()

	rec := do(t, h, http.MethodGet, "/v1/companies/unknown/history?limit=5", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestRateLimit(t *testing.T) {
	cfg := testServerConfig()
	cfg.RateLimitRPS = 0.001
	cfg.RateLimitBurst = 1
	h := New(newEngine(t), nil, cfg).Handler()

	rec := do(t, h, http.MethodPost, "/v1/scans", []byte("[]"), "application/json")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, h, http.MethodPost, "/v1/scans", []byte("[]"), "application/json")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("Retry-After"))

	// Health is not throttled.
	rec = do(t, h, http.MethodGet, "/health", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCORSPreflight(t *testing.T) {
	h := New(newEngine(t), nil, testServerConfig()).Handler()

	req := httptest.NewRequest(http.MethodOptions, "/v1/scans", nil)
	req.Header.Set("Origin", "https://app.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), http.MethodPost)
}

func TestClientKey(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "203.0.113.7:5555"
	assert.Equal(t, "203.0.113.7", clientKey(req))

	req.RemoteAddr = "203.0.113.7"
	assert.Equal(t, "203.0.113.7", clientKey(req))
}
