// Package server exposes the query tool, the stats engine and the catalog over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/j-veylop/kpi-dashboard-tui/internal/catalog"
	"github.com/j-veylop/kpi-dashboard-tui/internal/logger"
	"github.com/j-veylop/kpi-dashboard-tui/internal/models"
	"github.com/j-veylop/kpi-dashboard-tui/internal/query"
	"github.com/j-veylop/kpi-dashboard-tui/internal/services/kpi"
	"github.com/j-veylop/kpi-dashboard-tui/internal/stats"
	"github.com/j-veylop/kpi-dashboard-tui/internal/version"
)

// statusClientClosedRequest is the non-standard status used when the caller went away.
const statusClientClosedRequest = 499

// maxBodyBytes caps request bodies for the JSON endpoints.
const maxBodyBytes = 8 << 20

// ToolCaller runs the getKPI tool with raw JSON arguments.
type ToolCaller interface {
	CallTool(ctx context.Context, args json.RawMessage) (any, error)
}

// Handler serves the HTTP endpoints.
type Handler struct {
	tool    ToolCaller
	catalog *catalog.Catalog
}

// NewHandler creates a handler. A nil catalog means catalog.Default().
func NewHandler(tool ToolCaller, cat *catalog.Catalog) *Handler {
	if cat == nil {
		cat = catalog.Default()
	}
	return &Handler{tool: tool, catalog: cat}
}

type technologyView struct {
	KPIs       []kpiView `json:"kpis"`
	Technology string    `json:"technology"`
}

type kpiView struct {
	Key         string   `json:"key"`
	DisplayName string   `json:"displayName"`
	Synonyms    []string `json:"synonyms"`
}

// Health handles GET /health.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": version.GetVersion(),
	})
}

// Catalog handles GET /catalog.
func (h *Handler) Catalog(w http.ResponseWriter, r *http.Request) {
	techs := h.catalog.Technologies()
	out := make([]technologyView, 0, len(techs))
	for _, tech := range techs {
		out = append(out, h.technologyView(tech))
	}
	writeJSON(w, http.StatusOK, out)
}

// Technology handles GET /catalog/{technology}.
func (h *Handler) Technology(w http.ResponseWriter, r *http.Request) {
	tech := catalog.Technology(chi.URLParam(r, "technology"))
	if !h.catalog.HasTechnology(tech) {
		writeJSONError(w, "unknown technology: "+tech.String(), http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, h.technologyView(tech))
}

func (h *Handler) technologyView(tech catalog.Technology) technologyView {
	keys := h.catalog.AllowedKPIs(tech)
	view := technologyView{Technology: tech.String(), KPIs: make([]kpiView, 0, len(keys))}
	for _, key := range keys {
		meta, _ := h.catalog.Metadata(key)
		view.KPIs = append(view.KPIs, kpiView{
			Key:         key,
			DisplayName: h.catalog.DisplayName(key),
			Synonyms:    meta.Synonyms,
		})
	}
	return view
}

// GetKPI handles POST /tools/getKPI.
//
// Request body is the tool arguments object:
//
//	{"technology":"gsm","start_date":"2024-01-01","end_date":"2024-01-31","element":"BTS","kpi":["dcr"]}
//
// The response is the decoded KPI API body on success. Failures map to
// 400 (validation), 502 (upstream status, transport or parse) and 499 (canceled).
func (h *Handler) GetKPI(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeJSONError(w, "Failed to read request body", http.StatusBadRequest)
		return
	}

	out, err := h.tool.CallTool(r.Context(), body)
	if err != nil {
		h.writeToolError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) writeToolError(w http.ResponseWriter, err error) {
	var verr *query.ValidationError
	if errors.As(err, &verr) {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": verr.Error(),
			"field": verr.Field,
		})
		return
	}

	var execErr *kpi.ExecutionError
	if errors.As(err, &execErr) {
		switch execErr.Kind {
		case kpi.KindStatus:
			writeJSON(w, http.StatusBadGateway, map[string]any{
				"error":  execErr.Error(),
				"status": execErr.StatusCode,
				"body":   execErr.Body,
			})
		case kpi.KindCanceled:
			writeJSONError(w, execErr.Error(), statusClientClosedRequest)
		default:
			writeJSONError(w, execErr.Error(), http.StatusBadGateway)
		}
		return
	}

	logger.Error("unexpected tool error", "error", err)
	writeJSONError(w, "internal error", http.StatusInternalServerError)
}

type statsRequest struct {
	KPI     string          `json:"kpi"`
	Records []models.Record `json:"records"`
}

type statsResponse struct {
	Series  []models.Record `json:"series"`
	Summary stats.Summary   `json:"summary"`
	Trend   string          `json:"trend"`
}

// Stats handles POST /stats. Body: {"kpi": "...", "records": [...]}.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	var in statsRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&in); err != nil {
		writeJSONError(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}
	if in.KPI == "" {
		writeJSONError(w, "Missing required field: kpi", http.StatusBadRequest)
		return
	}

	series, summary := stats.Summarize(in.Records, in.KPI)
	if series == nil {
		series = []models.Record{}
	}

	writeJSON(w, http.StatusOK, statsResponse{
		Series:  series,
		Summary: summary,
		Trend:   summary.Trend().String(),
	})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Debug("failed to write response", "error", err)
	}
}

func writeJSONError(w http.ResponseWriter, msg string, code int) {
	writeJSON(w, code, map[string]string{"error": msg})
}
