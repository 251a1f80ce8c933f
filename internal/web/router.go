package web

import (
	"database/sql"
	"net/http"

	webembed "github.com/janvolk/upkeep/web"
)

// NewRouter creates the web page router with all page routes registered.
func NewRouter(db *sql.DB, jwtSecret string) (http.Handler, error) {
	templates, err := LoadTemplates()
	if err != nil {
		return nil, err
	}

	s := &Server{
		DB:        db,
		Templates: templates,
		JWTSecret: jwtSecret,
	}

	mux := http.NewServeMux()
	cookieAuth := CookieAuthMiddleware(jwtSecret, db)

	// Static assets.
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.FS(webembed.StaticFS()))))

	// Public routes.
	mux.HandleFunc("GET /login", s.LoginPage)
	mux.HandleFunc("POST /login", s.LoginSubmit)
	mux.HandleFunc("GET /register", s.RegisterPage)
	mux.HandleFunc("POST /register", s.RegisterSubmit)
	mux.HandleFunc("POST /logout", s.Logout)

	// Authenticated routes.
	mux.Handle("GET /{$}", cookieAuth(http.HandlerFunc(s.Dashboard)))

	mux.Handle("GET /assets", cookieAuth(http.HandlerFunc(s.AssetsPage)))
	mux.Handle("POST /assets", cookieAuth(http.HandlerFunc(s.AssetCreateSubmit)))
	mux.Handle("GET /assets/{id}", cookieAuth(http.HandlerFunc(s.AssetDetailPage)))
	mux.Handle("POST /assets/{id}", cookieAuth(http.HandlerFunc(s.AssetUpdateSubmit)))
	mux.Handle("POST /assets/{id}/delete", cookieAuth(http.HandlerFunc(s.AssetDeleteSubmit)))

	mux.Handle("GET /tasks", cookieAuth(http.HandlerFunc(s.TasksPage)))
	mux.Handle("POST /tasks", cookieAuth(http.HandlerFunc(s.TaskCreateSubmit)))
	mux.Handle("GET /tasks/export", cookieAuth(http.HandlerFunc(s.TasksExportCSV)))
	mux.Handle("GET /tasks/{id}", cookieAuth(http.HandlerFunc(s.TaskDetailPage)))
	mux.Handle("POST /tasks/{id}", cookieAuth(http.HandlerFunc(s.TaskUpdateSubmit)))
	mux.Handle("POST /tasks/{id}/complete", cookieAuth(http.HandlerFunc(s.TaskCompleteSubmit)))
	mux.Handle("POST /tasks/{id}/delete", cookieAuth(http.HandlerFunc(s.TaskDeleteSubmit)))
	mux.Handle("POST /tasks/{id}/attachments", cookieAuth(http.HandlerFunc(s.AttachmentUploadSubmit)))

	mux.Handle("GET /attachments/{id}", cookieAuth(http.HandlerFunc(s.AttachmentGet)))
	mux.Handle("POST /attachments/{id}/delete", cookieAuth(http.HandlerFunc(s.AttachmentDeleteSubmit)))

	mux.Handle("GET /settings", cookieAuth(http.HandlerFunc(s.SettingsPage)))
	mux.Handle("POST /settings", cookieAuth(http.HandlerFunc(s.SettingsSubmit)))

	return mux, nil
}
