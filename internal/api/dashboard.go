package api

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/janvolk/upkeep/internal/dashboard"
)

// DashboardHandler serves the dashboard snapshot as JSON.
type DashboardHandler struct {
	DB *sql.DB
}

// Get handles GET /api/dashboard.
func (h *DashboardHandler) Get(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())

	snap, err := dashboard.Build(r.Context(), h.DB, claims.UserID, time.Now())
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to build dashboard")
		return
	}

	jsonResponse(w, http.StatusOK, snap)
}
