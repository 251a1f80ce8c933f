package web

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/janvolk/upkeep/internal/dates"
	"github.com/janvolk/upkeep/internal/model"
	"github.com/janvolk/upkeep/internal/store"
)

// AssetsPage handles GET /assets.
func (s *Server) AssetsPage(w http.ResponseWriter, r *http.Request) {
	claims := GetWebClaims(r.Context())
	search := r.URL.Query().Get("q")

	assets, err := store.ListAssets(r.Context(), s.DB, claims.UserID, search)
	if err != nil {
		slog.Error("failed to list assets", "error", err)
	}

	s.Templates.Render(w, "assets.html", &struct {
		PageData
		Assets []model.Asset
		Search string
	}{
		PageData: PageData{Title: "Assets", User: claims},
		Assets:   assets,
		Search:   search,
	})
}

// assetFromForm builds an asset from the submitted form fields.
func assetFromForm(r *http.Request, userID int64) (*model.Asset, error) {
	name := r.FormValue("name")
	if name == "" {
		return nil, fmt.Errorf("name required")
	}

	a := &model.Asset{
		UserID: userID,
		Name:   name,
		Type:   r.FormValue("type"),
		Make:   r.FormValue("make"),
		Model:  r.FormValue("model"),
		Serial: r.FormValue("serial"),
		Notes:  r.FormValue("notes"),
	}
	if v := r.FormValue("purchase_date"); v != "" {
		t, ok := dates.ParseISODate(v)
		if !ok {
			return nil, fmt.Errorf("invalid purchase date")
		}
		a.PurchaseDate = &t
	}
	if v := r.FormValue("warranty_expiration"); v != "" {
		t, ok := dates.ParseISODate(v)
		if !ok {
			return nil, fmt.Errorf("invalid warranty expiration date")
		}
		a.WarrantyExpiration = &t
	}
	return a, nil
}

// AssetCreateSubmit handles POST /assets.
func (s *Server) AssetCreateSubmit(w http.ResponseWriter, r *http.Request) {
	claims := GetWebClaims(r.Context())

	a, err := assetFromForm(r, claims.UserID)
	if err != nil {
		http.Redirect(w, r, "/assets", http.StatusSeeOther)
		return
	}

	if _, err := store.CreateAsset(r.Context(), s.DB, a); err != nil {
		slog.Error("failed to create asset", "error", err)
	} else {
		slog.Info("asset created", "user", claims.Email, "asset", a.Name)
	}
	http.Redirect(w, r, "/assets", http.StatusSeeOther)
}

// AssetDetailPage handles GET /assets/{id}.
func (s *Server) AssetDetailPage(w http.ResponseWriter, r *http.Request) {
	claims := GetWebClaims(r.Context())
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	asset, err := store.GetAsset(r.Context(), s.DB, claims.UserID, id)
	if err != nil {
		slog.Error("failed to get asset", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if asset == nil {
		http.Error(w, "asset not found", http.StatusNotFound)
		return
	}

	today := dates.DateOnly(time.Now())
	tasks, err := store.ListTasks(r.Context(), s.DB, claims.UserID, today, store.TaskFilter{AssetID: id})
	if err != nil {
		slog.Error("failed to list asset tasks", "error", err)
	}

	s.Templates.Render(w, "asset_detail.html", &struct {
		PageData
		Asset *model.Asset
		Tasks []model.Task
	}{
		PageData: PageData{Title: asset.Name, User: claims},
		Asset:    asset,
		Tasks:    tasks,
	})
}

// AssetUpdateSubmit handles POST /assets/{id}.
func (s *Server) AssetUpdateSubmit(w http.ResponseWriter, r *http.Request) {
	claims := GetWebClaims(r.Context())
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	existing, err := store.GetAsset(r.Context(), s.DB, claims.UserID, id)
	if err != nil || existing == nil {
		http.Error(w, "asset not found", http.StatusNotFound)
		return
	}

	a, err := assetFromForm(r, claims.UserID)
	if err != nil {
		http.Redirect(w, r, fmt.Sprintf("/assets/%d", id), http.StatusSeeOther)
		return
	}
	a.ID = id

	if err := store.UpdateAsset(r.Context(), s.DB, a); err != nil {
		slog.Error("failed to update asset", "error", err)
		http.Error(w, "failed to update", http.StatusInternalServerError)
		return
	}

	slog.Info("asset updated", "user", claims.Email, "asset", a.Name)
	http.Redirect(w, r, fmt.Sprintf("/assets/%d", id), http.StatusSeeOther)
}

// AssetDeleteSubmit handles POST /assets/{id}/delete. Tasks and attachments
// go with the asset.
func (s *Server) AssetDeleteSubmit(w http.ResponseWriter, r *http.Request) {
	claims := GetWebClaims(r.Context())
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	if err := store.DeleteAsset(r.Context(), s.DB, claims.UserID, id); err != nil {
		slog.Error("failed to delete asset", "error", err)
		http.Error(w, "failed to delete", http.StatusInternalServerError)
		return
	}

	slog.Info("asset deleted", "user", claims.Email, "asset_id", id)
	http.Redirect(w, r, "/assets", http.StatusSeeOther)
}
