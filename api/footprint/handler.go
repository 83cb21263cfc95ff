// Package footprint exposes the calculation engine over HTTP.
package footprint

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/kilianp07/footprint/core/model"
	"github.com/kilianp07/footprint/core/normalize"
	"github.com/kilianp07/footprint/core/recommend"
	"github.com/kilianp07/footprint/core/report"
	"github.com/kilianp07/footprint/infra/logger"
	"github.com/kilianp07/footprint/pkg/export"
)

// maxFormBytes caps the size of a calculation request body.
const maxFormBytes = 64 << 10

// Engine is the part of the application the handlers need.
type Engine interface {
	Calculate(ctx context.Context, form normalize.RawForm) (report.Report, error)
	Latest(ctx context.Context) (report.Report, bool, error)
}

type handler struct {
	engine Engine
	log    logger.Logger
}

// NewHandler returns the footprint routes. A non-empty token is required
// as a bearer token on every route except /healthz.
func NewHandler(engine Engine, token string) http.Handler {
	h := &handler{engine: engine, log: logger.New("footprint-api")}
	mux := http.NewServeMux()
	mux.HandleFunc("/api/footprint/calculate", h.calculate)
	mux.HandleFunc("/api/footprint/latest", h.latest)
	mux.HandleFunc("/api/footprint/recommendations", h.recommendations)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	if token == "" {
		return mux
	}
	return requireToken(token, mux)
}

func requireToken(token string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/healthz" {
			next.ServeHTTP(w, r)
			return
		}
		got, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || subtle.ConstantTimeCompare([]byte(got), []byte(token)) != 1 {
			w.Header().Set("WWW-Authenticate", "Bearer")
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (h *handler) calculate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var form normalize.RawForm
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxFormBytes))
	if err := dec.Decode(&form); err != nil {
		writeError(w, http.StatusBadRequest, "invalid form: "+err.Error())
		return
	}
	rep, err := h.engine.Calculate(r.Context(), form)
	switch {
	case errors.Is(err, model.ErrInvalidEnumValue):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		h.log.Warnf("calculation aborted: %v", err)
		writeError(w, http.StatusServiceUnavailable, "calculation aborted")
		return
	case err != nil:
		h.log.Errorf("calculation failed: %v", err)
		writeError(w, http.StatusInternalServerError, "calculation failed")
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

func (h *handler) latest(w http.ResponseWriter, r *http.Request) {
	rep, ok := h.loadLatest(w, r)
	if !ok {
		return
	}
	format := r.URL.Query().Get("format")
	if format == "" || format == export.FormatJSON {
		writeJSON(w, http.StatusOK, rep)
		return
	}
	rec := export.Record{ID: rep.ID, Timestamp: rep.Timestamp, Source: rep.Source, Results: rep.Results}
	switch format {
	case export.FormatCSV:
		w.Header().Set("Content-Type", "text/csv")
	case export.FormatHTML:
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
	default:
		writeError(w, http.StatusBadRequest, "unsupported format "+format)
		return
	}
	if err := export.Write(w, format, rec); err != nil {
		h.log.Errorf("export %s: %v", format, err)
	}
}

type recommendationsResponse struct {
	ID              string                     `json:"id"`
	Benchmark       recommend.Benchmark        `json:"benchmark"`
	Recommendations []recommend.Recommendation `json:"recommendations"`
}

func (h *handler) recommendations(w http.ResponseWriter, r *http.Request) {
	rep, ok := h.loadLatest(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, recommendationsResponse{
		ID:              rep.ID,
		Benchmark:       rep.Benchmark,
		Recommendations: rep.Recommendations,
	})
}

// loadLatest writes the error response itself and reports false when no
// report can be served.
func (h *handler) loadLatest(w http.ResponseWriter, r *http.Request) (report.Report, bool) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return report.Report{}, false
	}
	rep, found, err := h.engine.Latest(r.Context())
	if err != nil {
		h.log.Errorf("load latest: %v", err)
		writeError(w, http.StatusInternalServerError, "history unavailable")
		return report.Report{}, false
	}
	if !found {
		writeError(w, http.StatusNotFound, "no calculation yet")
		return report.Report{}, false
	}
	return rep, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
