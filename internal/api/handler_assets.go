package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"metacat/internal/domain"
)

// Asset is the API representation of a discovered asset.
type Asset struct {
	ID                  string                   `json:"id"`
	Name                string                   `json:"name"`
	Type                string                   `json:"type"`
	Catalog             string                   `json:"catalog,omitempty"`
	ConnectorID         string                   `json:"connector_id"`
	TechnicalMetadata   domain.TechnicalMetadata `json:"technical_metadata"`
	OperationalMetadata map[string]any           `json:"operational_metadata,omitempty"`
	Columns             []domain.SchemaColumn    `json:"columns"`
	DiscoveredAt        time.Time                `json:"discovered_at"`
	UpdatedAt           time.Time                `json:"updated_at"`
}

type assetListResponse struct {
	Data  []Asset `json:"data"`
	Total int64   `json:"total"`
}

func (h *Handler) listAssets(w http.ResponseWriter, r *http.Request) {
	page := pageFromQuery(r)
	connectorID := r.URL.Query().Get("connector_id")

	assets, total, err := h.assets.List(r.Context(), connectorID, page)
	if err != nil {
		h.writeError(w, err)
		return
	}
	data := make([]Asset, len(assets))
	for i, a := range assets {
		data[i] = assetToAPI(a)
	}
	h.writeJSON(w, http.StatusOK, assetListResponse{Data: data, Total: total})
}

func (h *Handler) getAsset(w http.ResponseWriter, r *http.Request) {
	asset, err := h.assets.GetByID(r.Context(), chi.URLParam(r, "assetID"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, assetToAPI(*asset))
}

func (h *Handler) getAssetLineage(w http.ResponseWriter, r *http.Request) {
	assetID := chi.URLParam(r, "assetID")
	rels, err := h.lineage.ListForAsset(r.Context(), assetID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	data := make([]LineageRelationship, len(rels))
	for i, rel := range rels {
		data[i] = relationshipToAPI(rel)
	}
	h.writeJSON(w, http.StatusOK, lineageListResponse{Data: data})
}

func assetToAPI(a domain.Asset) Asset {
	columns := a.Columns
	if columns == nil {
		columns = []domain.SchemaColumn{}
	}
	return Asset{
		ID:                  a.ID,
		Name:                a.Name,
		Type:                a.Type,
		Catalog:             a.Catalog,
		ConnectorID:         a.ConnectorID,
		TechnicalMetadata:   a.TechnicalMetadata,
		OperationalMetadata: a.OperationalMetadata,
		Columns:             columns,
		DiscoveredAt:        a.DiscoveredAt,
		UpdatedAt:           a.UpdatedAt,
	}
}
