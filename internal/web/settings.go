package web

import (
	"log/slog"
	"net/http"

	"golang.org/x/crypto/bcrypt"

	"github.com/janvolk/upkeep/internal/model"
	"github.com/janvolk/upkeep/internal/store"
)

// SettingsPage handles GET /settings.
func (s *Server) SettingsPage(w http.ResponseWriter, r *http.Request) {
	claims := GetWebClaims(r.Context())
	s.Templates.Render(w, "settings.html", &PageData{Title: "Settings", User: claims})
}

// SettingsSubmit handles POST /settings: the change-password form.
func (s *Server) SettingsSubmit(w http.ResponseWriter, r *http.Request) {
	claims := GetWebClaims(r.Context())
	page := func(errMsg, okMsg string) {
		s.Templates.Render(w, "settings.html", &PageData{
			Title: "Settings", User: claims, Error: errMsg, Success: okMsg,
		})
	}

	current := r.FormValue("current_password")
	newPassword := r.FormValue("new_password")
	if current == "" || newPassword == "" {
		page("Enter your current and new password.", "")
		return
	}
	if err := model.ValidatePassword(newPassword); err != nil {
		page(err.Error(), "")
		return
	}

	user, err := store.GetUser(r.Context(), s.DB, claims.UserID)
	if err != nil || user == nil {
		page("Something went wrong, try again.", "")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(current)); err != nil {
		page("Current password is incorrect.", "")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		page("Something went wrong, try again.", "")
		return
	}

	if err := store.UpdateUserPassword(r.Context(), s.DB, claims.UserID, string(hash)); err != nil {
		slog.Error("failed to update password", "error", err)
		page("Something went wrong, try again.", "")
		return
	}

	slog.Info("user changed password", "user", claims.Email)
	page("", "Password updated.")
}
