package api

import (
	"net/http"

	"metacat/internal/domain"
	"metacat/internal/service"
)

type runDiscoveryRequest struct {
	ConnectionID string `json:"connection_id"`
}

// discoveryEventRequest is one pushed object notification. Content is
// base64-encoded raw bytes; columns, when present, override inference.
type discoveryEventRequest struct {
	ConnectorID string                `json:"connector_id"`
	Path        string                `json:"path"`
	Account     string                `json:"account,omitempty"`
	Container   string                `json:"container,omitempty"`
	SizeBytes   int64                 `json:"size_bytes,omitempty"`
	Content     []byte                `json:"content,omitempty"`
	Columns     []domain.SchemaColumn `json:"columns,omitempty"`
}

type discoveryEventResponse struct {
	Action string `json:"action"`
	Asset  *Asset `json:"asset,omitempty"`
}

func (h *Handler) runDiscovery(w http.ResponseWriter, r *http.Request) {
	var req runDiscoveryRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, err)
		return
	}
	if req.ConnectionID == "" {
		h.writeError(w, domain.ErrValidation("connection_id is required"))
		return
	}

	report, err := h.discovery.RunDiscovery(r.Context(), req.ConnectionID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, report)
}

func (h *Handler) postDiscoveryEvent(w http.ResponseWriter, r *http.Request) {
	var req discoveryEventRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, err)
		return
	}

	asset, action, err := h.discovery.ProcessObject(r.Context(), service.ObjectEvent{
		ConnectorID:   req.ConnectorID,
		RawPath:       req.Path,
		AccountHint:   req.Account,
		ContainerHint: req.Container,
		SizeBytes:     req.SizeBytes,
		Content:       req.Content,
		Columns:       req.Columns,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}

	resp := discoveryEventResponse{Action: string(action)}
	if asset != nil {
		a := assetToAPI(*asset)
		resp.Asset = &a
	}
	status := http.StatusOK
	if action == domain.ActionInsert {
		status = http.StatusCreated
	}
	h.writeJSON(w, status, resp)
}
