package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"metacat/internal/domain"
)

// Connection is the API representation of a registered connection. Secrets
// never leave the server; only non-credential config fields are echoed back.
type Connection struct {
	ID            string           `json:"id"`
	Name          string           `json:"name"`
	ConnectorType string           `json:"connector_type"`
	Config        ConnectionConfig `json:"config"`
	Status        string           `json:"status"`
	CreatedAt     time.Time        `json:"created_at"`
}

// ConnectionConfig is the redacted config echoed in responses.
type ConnectionConfig struct {
	Account   string `json:"account,omitempty"`
	Container string `json:"container,omitempty"`
	Region    string `json:"region,omitempty"`
	Endpoint  string `json:"endpoint,omitempty"`
	Prefix    string `json:"prefix,omitempty"`
}

type createConnectionRequest struct {
	Name          string                  `json:"name"`
	ConnectorType string                  `json:"connector_type"`
	Config        domain.ConnectionConfig `json:"config"`
}

type connectionListResponse struct {
	Data  []Connection `json:"data"`
	Total int64        `json:"total"`
}

func (h *Handler) createConnection(w http.ResponseWriter, r *http.Request) {
	var req createConnectionRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, err)
		return
	}

	conn, err := h.connections.Create(r.Context(), &domain.Connection{
		Name:          req.Name,
		ConnectorType: domain.StorageKind(req.ConnectorType),
		Config:        req.Config,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, connectionToAPI(*conn))
}

func (h *Handler) listConnections(w http.ResponseWriter, r *http.Request) {
	page := pageFromQuery(r)
	conns, total, err := h.connections.List(r.Context(), page)
	if err != nil {
		h.writeError(w, err)
		return
	}
	data := make([]Connection, len(conns))
	for i, c := range conns {
		data[i] = connectionToAPI(c)
	}
	h.writeJSON(w, http.StatusOK, connectionListResponse{Data: data, Total: total})
}

func (h *Handler) getConnection(w http.ResponseWriter, r *http.Request) {
	conn, err := h.connections.GetByID(r.Context(), chi.URLParam(r, "connectionID"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, connectionToAPI(*conn))
}

func (h *Handler) deleteConnection(w http.ResponseWriter, r *http.Request) {
	if err := h.connections.Delete(r.Context(), chi.URLParam(r, "connectionID")); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func connectionToAPI(c domain.Connection) Connection {
	return Connection{
		ID:            c.ID,
		Name:          c.Name,
		ConnectorType: string(c.ConnectorType),
		Config: ConnectionConfig{
			Account:   c.Config.Account,
			Container: c.Config.Container,
			Region:    c.Config.Region,
			Endpoint:  c.Config.Endpoint,
			Prefix:    c.Config.Prefix,
		},
		Status:    c.Status,
		CreatedAt: c.CreatedAt,
	}
}
