package api

import (
	"database/sql"
	"net/http"
	"strconv"
	"time"

	"github.com/janvolk/upkeep/internal/dates"
	"github.com/janvolk/upkeep/internal/model"
	"github.com/janvolk/upkeep/internal/store"
)

// AssetsHandler handles asset CRUD endpoints.
type AssetsHandler struct {
	DB *sql.DB
}

type assetRequest struct {
	Name               string `json:"name"`
	Type               string `json:"type"`
	Make               string `json:"make"`
	Model              string `json:"model"`
	Serial             string `json:"serial"`
	PurchaseDate       string `json:"purchase_date"`
	WarrantyExpiration string `json:"warranty_expiration"`
	Notes              string `json:"notes"`
}

// toModel validates the request and builds an asset for the given user.
func (req *assetRequest) toModel(userID int64) (*model.Asset, string) {
	if req.Name == "" {
		return nil, "name required"
	}

	a := &model.Asset{
		UserID: userID,
		Name:   req.Name,
		Type:   req.Type,
		Make:   req.Make,
		Model:  req.Model,
		Serial: req.Serial,
		Notes:  req.Notes,
	}
	if req.PurchaseDate != "" {
		t, ok := dates.ParseISODate(req.PurchaseDate)
		if !ok {
			return nil, "invalid purchase date"
		}
		a.PurchaseDate = &t
	}
	if req.WarrantyExpiration != "" {
		t, ok := dates.ParseISODate(req.WarrantyExpiration)
		if !ok {
			return nil, "invalid warranty expiration date"
		}
		a.WarrantyExpiration = &t
	}
	return a, ""
}

// List handles GET /api/assets.
func (h *AssetsHandler) List(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())
	assets, err := store.ListAssets(r.Context(), h.DB, claims.UserID, r.URL.Query().Get("q"))
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to list assets")
		return
	}
	if assets == nil {
		assets = []model.Asset{}
	}
	jsonResponse(w, http.StatusOK, assets)
}

// Create handles POST /api/assets.
func (h *AssetsHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())

	var req assetRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	a, msg := req.toModel(claims.UserID)
	if msg != "" {
		jsonError(w, http.StatusBadRequest, msg)
		return
	}

	created, err := store.CreateAsset(r.Context(), h.DB, a)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to create asset")
		return
	}

	jsonResponse(w, http.StatusCreated, created)
}

// Get handles GET /api/assets/{id}.
func (h *AssetsHandler) Get(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid asset id")
		return
	}

	asset, err := store.GetAsset(r.Context(), h.DB, claims.UserID, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get asset")
		return
	}
	if asset == nil {
		jsonError(w, http.StatusNotFound, "asset not found")
		return
	}

	// Include the asset's tasks, the way the detail page shows them.
	tasks, err := store.ListTasks(r.Context(), h.DB, claims.UserID, dates.DateOnly(time.Now()), store.TaskFilter{AssetID: id})
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get asset tasks")
		return
	}
	if tasks == nil {
		tasks = []model.Task{}
	}

	jsonResponse(w, http.StatusOK, map[string]any{
		"asset": asset,
		"tasks": tasks,
	})
}

// Update handles PUT /api/assets/{id}.
func (h *AssetsHandler) Update(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid asset id")
		return
	}

	existing, err := store.GetAsset(r.Context(), h.DB, claims.UserID, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get asset")
		return
	}
	if existing == nil {
		jsonError(w, http.StatusNotFound, "asset not found")
		return
	}

	var req assetRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	a, msg := req.toModel(claims.UserID)
	if msg != "" {
		jsonError(w, http.StatusBadRequest, msg)
		return
	}
	a.ID = id

	if err := store.UpdateAsset(r.Context(), h.DB, a); err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to update asset")
		return
	}

	updated, _ := store.GetAsset(r.Context(), h.DB, claims.UserID, id)
	jsonResponse(w, http.StatusOK, updated)
}

// Delete handles DELETE /api/assets/{id}.
func (h *AssetsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid asset id")
		return
	}

	if err := store.DeleteAsset(r.Context(), h.DB, claims.UserID, id); err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to delete asset")
		return
	}

	jsonResponse(w, http.StatusOK, map[string]string{"message": "asset deleted"})
}
