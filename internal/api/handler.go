// Package api provides HTTP handlers for the metadata catalog REST API.
package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"metacat/internal/domain"
	"metacat/internal/service"
)

// Handler holds the services behind the REST API.
type Handler struct {
	connections *service.ConnectionService
	assets      *service.AssetService
	discovery   *service.DiscoveryService
	lineage     *service.LineageService
	logger      *slog.Logger
}

// NewHandler creates a Handler with all required service dependencies.
func NewHandler(
	connections *service.ConnectionService,
	assets *service.AssetService,
	discovery *service.DiscoveryService,
	lineage *service.LineageService,
	logger *slog.Logger,
) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		connections: connections,
		assets:      assets,
		discovery:   discovery,
		lineage:     lineage,
		logger:      logger.With("component", "api"),
	}
}

// Routes registers every API route on the given router.
func (h *Handler) Routes(r chi.Router) {
	r.Route("/connections", func(r chi.Router) {
		r.Post("/", h.createConnection)
		r.Get("/", h.listConnections)
		r.Get("/{connectionID}", h.getConnection)
		r.Delete("/{connectionID}", h.deleteConnection)
	})

	r.Route("/discovery", func(r chi.Router) {
		r.Post("/run", h.runDiscovery)
		r.Post("/events", h.postDiscoveryEvent)
	})

	r.Route("/assets", func(r chi.Router) {
		r.Get("/", h.listAssets)
		r.Get("/{assetID}", h.getAsset)
		r.Get("/{assetID}/lineage", h.getAssetLineage)
	})

	r.Route("/lineage", func(r chi.Router) {
		r.Post("/sql", h.extractSQLLineage)
		r.Post("/infer", h.inferLineage)
	})
}

// --- helpers ---

type errorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Warn("write response failed", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	code := httpStatusFromDomainError(err)
	if code == http.StatusInternalServerError {
		h.logger.Error("request failed", "error", err)
	}
	h.writeJSON(w, code, errorResponse{Code: code, Message: err.Error()})
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return domain.ErrValidation("invalid request body: %v", err)
	}
	return nil
}

// pageFromQuery extracts a PageRequest from max_results/page_offset params.
func pageFromQuery(r *http.Request) domain.PageRequest {
	p := domain.PageRequest{}
	if v, err := strconv.Atoi(r.URL.Query().Get("max_results")); err == nil {
		p.MaxResults = v
	}
	if v, err := strconv.Atoi(r.URL.Query().Get("page_offset")); err == nil {
		p.PageOffset = v
	}
	return p
}
