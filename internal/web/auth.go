package web

import (
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/janvolk/upkeep/internal/auth"
	"github.com/janvolk/upkeep/internal/model"
	"github.com/janvolk/upkeep/internal/store"
)

// LoginPage handles GET /login.
func (s *Server) LoginPage(w http.ResponseWriter, r *http.Request) {
	s.Templates.Render(w, "login.html", &PageData{Title: "Log in"})
}

// LoginSubmit handles POST /login.
func (s *Server) LoginSubmit(w http.ResponseWriter, r *http.Request) {
	email := strings.ToLower(r.FormValue("email"))
	password := r.FormValue("password")

	if email == "" || password == "" {
		s.Templates.Render(w, "login.html", &PageData{
			Title: "Log in",
			Error: "Enter your email and password.",
		})
		return
	}

	user, err := store.GetUserByEmail(r.Context(), s.DB, email)
	if err != nil || user == nil {
		s.Templates.Render(w, "login.html", &PageData{
			Title: "Log in",
			Error: "Incorrect email or password.",
		})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.Templates.Render(w, "login.html", &PageData{
			Title: "Log in",
			Error: "Incorrect email or password.",
		})
		return
	}

	s.setSessionCookie(w, user)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// RegisterPage handles GET /register.
func (s *Server) RegisterPage(w http.ResponseWriter, r *http.Request) {
	s.Templates.Render(w, "register.html", &PageData{Title: "Sign up"})
}

// RegisterSubmit handles POST /register.
func (s *Server) RegisterSubmit(w http.ResponseWriter, r *http.Request) {
	email := strings.TrimSpace(strings.ToLower(r.FormValue("email")))
	password := r.FormValue("password")

	if email == "" || !strings.Contains(email, "@") {
		s.Templates.Render(w, "register.html", &PageData{
			Title: "Sign up",
			Error: "Enter a valid email address.",
		})
		return
	}
	if err := model.ValidatePassword(password); err != nil {
		s.Templates.Render(w, "register.html", &PageData{
			Title: "Sign up",
			Error: err.Error(),
		})
		return
	}

	existing, err := store.GetUserByEmail(r.Context(), s.DB, email)
	if err != nil {
		s.Templates.Render(w, "register.html", &PageData{
			Title: "Sign up",
			Error: "Something went wrong, try again.",
		})
		return
	}
	if existing != nil {
		s.Templates.Render(w, "register.html", &PageData{
			Title: "Sign up",
			Error: "That email is already registered.",
		})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		s.Templates.Render(w, "register.html", &PageData{
			Title: "Sign up",
			Error: "Something went wrong, try again.",
		})
		return
	}

	user, err := store.CreateUser(r.Context(), s.DB, email, string(hash))
	if err != nil {
		s.Templates.Render(w, "register.html", &PageData{
			Title: "Sign up",
			Error: "Something went wrong, try again.",
		})
		return
	}

	s.setSessionCookie(w, user)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Logout handles POST /logout. The session token is revoked so it cannot be
// replayed before it expires.
func (s *Server) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie("token"); err == nil && cookie.Value != "" {
		if claims, err := auth.ValidateToken(s.JWTSecret, cookie.Value); err == nil && claims.ID != "" {
			_ = store.RevokeToken(r.Context(), s.DB, claims.ID, claims.ExpiresAt.Time)
		}
	}

	clearAuthCookie(w)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (s *Server) setSessionCookie(w http.ResponseWriter, user *model.User) {
	token, err := auth.GenerateToken(s.JWTSecret, user.ID, user.Email)
	if err != nil {
		http.Error(w, "failed to start session", http.StatusInternalServerError)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "token",
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
		MaxAge:   int(auth.TokenExpiry.Seconds()),
	})
}
