package web

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/janvolk/upkeep/internal/dashboard"
)

// Dashboard handles GET /.
func (s *Server) Dashboard(w http.ResponseWriter, r *http.Request) {
	claims := GetWebClaims(r.Context())

	snap, err := dashboard.Build(r.Context(), s.DB, claims.UserID, time.Now())
	if err != nil {
		slog.Error("failed to build dashboard", "user", claims.Email, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	s.Templates.Render(w, "dashboard.html", &struct {
		PageData
		Snapshot *dashboard.Snapshot
	}{
		PageData: PageData{Title: "Dashboard", User: claims},
		Snapshot: snap,
	})
}
