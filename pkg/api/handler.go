package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/observatorio-cat/observatorio/pkg/kit"
	"github.com/observatorio-cat/observatorio/pkg/loader"
	"github.com/observatorio-cat/observatorio/pkg/roles"
)

// NewRouter returns an http.Handler with all observatory API routes.
func NewRouter(svc *Service) http.Handler {
	mux := http.NewServeMux()
	h := &handler{
		svc:         svc,
		summary:     svc.summaryEndpoint(),
		query:       svc.queryEndpoint(),
		counts:      svc.countsEndpoint(),
		series:      svc.seriesEndpoint(),
		regionCross: svc.regionCrossEndpoint(),
		profile:     svc.profileEndpoint(),
		files:       svc.filesEndpoint(),
	}

	mux.HandleFunc("GET /v1/summary", h.handleSummary)
	mux.HandleFunc("POST /v1/query", h.handleQuery)
	mux.HandleFunc("GET /v1/counts/{column}", h.handleCounts)
	mux.HandleFunc("GET /v1/series/{unit}", h.handleSeries)
	mux.HandleFunc("GET /v1/regions", h.handleRegionCross)
	mux.HandleFunc("GET /v1/profile", h.handleProfile)
	mux.HandleFunc("GET /v1/files", h.handleFiles)
	mux.HandleFunc("POST /v1/export", h.handleExport)
	mux.HandleFunc("POST /v1/reload", h.handleReload)
	mux.HandleFunc("GET /v1/health", h.handleHealth)

	return cors(mux)
}

type handler struct {
	svc         *Service
	summary     kit.Endpoint
	query       kit.Endpoint
	counts      kit.Endpoint
	series      kit.Endpoint
	regionCross kit.Endpoint
	profile     kit.Endpoint
	files       kit.Endpoint
}

func (h *handler) handleSummary(w http.ResponseWriter, r *http.Request) {
	resp, err := h.summary(r.Context(), nil)
	if err != nil {
		writeLoadError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *handler) handleQuery(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeQuery(w, r)
	if !ok {
		return
	}
	resp, err := h.query(r.Context(), req)
	if err != nil {
		writeLoadError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *handler) handleCounts(w http.ResponseWriter, r *http.Request) {
	column := r.PathValue("column")
	if column == "" {
		writeError(w, http.StatusBadRequest, "missing column")
		return
	}
	req := &countsReq{Column: column, TopN: queryInt(r, "top_n")}
	req.queryReq = queryFromParams(r)

	resp, err := h.counts(r.Context(), req)
	if err != nil {
		writeLoadError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *handler) handleSeries(w http.ResponseWriter, r *http.Request) {
	unit := r.PathValue("unit")
	if unit != "mes" && unit != "ano" {
		writeError(w, http.StatusBadRequest, "unit must be mes or ano")
		return
	}
	req := &seriesReq{Unit: unit, queryReq: queryFromParams(r)}

	resp, err := h.series(r.Context(), req)
	if err != nil {
		writeLoadError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *handler) handleRegionCross(w http.ResponseWriter, r *http.Request) {
	req := queryFromParams(r)
	resp, err := h.regionCross(r.Context(), &req)
	if err != nil {
		writeLoadError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *handler) handleProfile(w http.ResponseWriter, r *http.Request) {
	resp, err := h.profile(r.Context(), nil)
	if err != nil {
		writeLoadError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *handler) handleFiles(w http.ResponseWriter, r *http.Request) {
	resp, err := h.files(r.Context(), nil)
	if err != nil {
		writeLoadError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleExport streams the filtered table as CSV (UTF-8 with BOM).
func (h *handler) handleExport(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeQuery(w, r)
	if !ok {
		return
	}
	ds, err := h.svc.Dataset()
	if err != nil {
		writeLoadError(w, err)
		return
	}
	filtered := ds.Table.Filter(req.predicates()...)

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="dados_filtrados.csv"`)
	if err := filtered.WriteCSV(w); err != nil {
		h.svc.logger.Warn("export interrupted", "error", err)
	}
}

func (h *handler) handleReload(w http.ResponseWriter, r *http.Request) {
	h.svc.Reload()
	writeJSON(w, http.StatusOK, map[string]string{"status": "reloaded"})
}

type healthResponse struct {
	Status string `json:"status"`
	Rows   int    `json:"rows"`
	Files  int    `json:"files"`
}

func (h *handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{Status: "ok"}
	if ds, err := h.svc.Dataset(); err == nil {
		resp.Rows = ds.Table.NumRows()
		resp.Files = len(h.svc.Reports())
	} else {
		resp.Status = "degraded"
	}
	writeJSON(w, http.StatusOK, resp)
}

// --- helpers ---

func decodeQuery(w http.ResponseWriter, r *http.Request) (*queryReq, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, 64*1024)
	req := &queryReq{}
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return nil, false
	}
	return req, true
}

// queryFromParams reads the filter set from URL query parameters, the
// GET-friendly variant of the POST body.
func queryFromParams(r *http.Request) queryReq {
	q := r.URL.Query()
	list := func(name string) []string {
		if v := q.Get(name); v != "" {
			return strings.Split(v, ",")
		}
		return nil
	}
	return queryReq{
		UF:           list("uf"),
		Regiao:       list("regiao"),
		Mes:          q.Get("mes"),
		Ano:          q.Get("ano"),
		TipoAcidente: list("tipo_acidente"),
		CnaeCodigo:   list("cnae_codigo"),
		Setor:        list("setor"),
		Arquivo:      list("arquivo_origem"),
		Termo:        q.Get("termo"),
	}
}

func queryInt(r *http.Request, name string) int {
	n, _ := strconv.Atoi(r.URL.Query().Get(name))
	return n
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}

// writeLoadError maps pipeline failures to status codes: configuration and
// source problems are the client's to fix, everything else is a 500.
func writeLoadError(w http.ResponseWriter, err error) {
	var (
		notFound   *loader.NoFilesFoundError
		noneLoaded *loader.NoFilesLoadedError
		loadErr    *loader.LoadError
		missing    *roles.MissingColumnsError
	)
	switch {
	case errors.As(err, &notFound), errors.As(err, &noneLoaded):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.As(err, &loadErr), errors.As(err, &missing):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

// cors is a simple CORS middleware for browser-based dashboards.
func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
