package api

import (
	"bytes"
	"encoding/json"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/prospect-cli/internal/ingest"
	"github.com/sells-group/prospect-cli/internal/model"
	"github.com/sells-group/prospect-cli/internal/store"
)

const defaultMaxBodyBytes = 10 << 20

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleCreateScan runs a scan over the posted listings. The body is a JSON array,
// a {"listings": [...]} object, CSV or XLSX, chosen by Content-Type. With ?save=true
// the result is archived and the response is 201 with the scan's location.
func (s *Server) handleCreateScan(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	save, err := parseBool(r.URL.Query().Get("save"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "save must be a boolean")
		return
	}
	if save && s.store == nil {
		writeError(w, http.StatusServiceUnavailable, "scan archive not configured")
		return
	}

	limit := s.cfg.MaxBodyBytes
	if limit <= 0 {
		limit = defaultMaxBodyBytes
	}
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, limit))
	if err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
		return
	}

	listings, err := ingest.Read(ctx, bytes.NewReader(body), bodyFormat(r))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid listings: "+err.Error())
		return
	}

	res, err := s.scanner.Run(ctx, listings)
	if err != nil {
		zap.L().Warn("api: scan failed", zap.Error(err))
		writeError(w, http.StatusServiceUnavailable, "scan aborted")
		return
	}

	if !save {
		writeJSON(w, http.StatusOK, res)
		return
	}

	rec := &model.ScanRecord{
		Label:     r.URL.Query().Get("label"),
		RulesHash: s.scanner.RulesHash(),
		Result:    res,
	}
	if err := s.store.SaveScan(ctx, rec); err != nil {
		zap.L().Error("api: save scan failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to save scan")
		return
	}

	w.Header().Set("Location", "/v1/scans/"+rec.ID)
	w.Header().Set("X-Scan-ID", rec.ID)
	writeJSON(w, http.StatusCreated, res)
}

func (s *Server) handleListScans(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, http.StatusServiceUnavailable, "scan archive not configured")
		return
	}

	q := r.URL.Query()
	limit, err1 := parseInt(q.Get("limit"))
	offset, err2 := parseInt(q.Get("offset"))
	if err1 != nil || err2 != nil || limit < 0 || offset < 0 {
		writeError(w, http.StatusBadRequest, "limit and offset must be non-negative integers")
		return
	}

	recs, err := s.store.ListScans(r.Context(), store.ScanFilter{
		RulesHash: q.Get("rules_hash"),
		Limit:     limit,
		Offset:    offset,
	})
	if err != nil {
		zap.L().Error("api: list scans failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to list scans")
		return
	}
	if recs == nil {
		recs = []model.ScanRecord{}
	}
	writeJSON(w, http.StatusOK, recs)
}

func (s *Server) handleGetScan(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, http.StatusServiceUnavailable, "scan archive not configured")
		return
	}

	rec, err := s.store.GetScan(r.Context(), chi.URLParam(r, "id"))
	if eris.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "scan not found")
		return
	}
	if err != nil {
		zap.L().Error("api: get scan failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to load scan")
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleCompanyHistory(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, http.StatusServiceUnavailable, "scan archive not configured")
		return
	}

	key, err := url.PathUnescape(chi.URLParam(r, "key"))
	if err != nil || key == "" {
		writeError(w, http.StatusBadRequest, "invalid company key")
		return
	}
	limit, err := parseInt(r.URL.Query().Get("limit"))
	if err != nil || limit < 0 {
		writeError(w, http.StatusBadRequest, "limit must be a non-negative integer")
		return
	}

	hist, err := s.store.CompanyHistory(r.Context(), key, limit)
	if err != nil {
		zap.L().Error("api: company history failed", zap.String("company_key", key), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to load company history")
		return
	}
	if hist == nil {
		hist = []store.CompanyScore{}
	}
	writeJSON(w, http.StatusOK, hist)
}

// bodyFormat maps the request Content-Type to a listing format. Anything unrecognized
// is treated as JSON.
func bodyFormat(r *http.Request) ingest.Format {
	mt, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mt {
	case "text/csv":
		return ingest.FormatCSV
	case "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet":
		return ingest.FormatXLSX
	default:
		return ingest.FormatJSON
	}
}

func parseBool(s string) (bool, error) {
	if s == "" {
		return false, nil
	}
	return strconv.ParseBool(s)
}

func parseInt(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.Atoi(s)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Warn("api: encode response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
