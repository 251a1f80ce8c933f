package api

import (
	"database/sql"
	"net/http"
)

// NewRouter creates the API router with all endpoints registered.
func NewRouter(db *sql.DB, jwtSecret string) http.Handler {
	mux := http.NewServeMux()

	authHandler := &AuthHandler{DB: db, JWTSecret: jwtSecret}
	assetsHandler := &AssetsHandler{DB: db}
	tasksHandler := &TasksHandler{DB: db}
	dashboardHandler := &DashboardHandler{DB: db}

	authMW := AuthMiddleware(jwtSecret, db)

	// Public: register and login.
	mux.HandleFunc("POST /api/auth/register", authHandler.Register)
	mux.HandleFunc("POST /api/auth/login", authHandler.Login)

	// Session management.
	mux.Handle("POST /api/auth/logout", authMW(http.HandlerFunc(authHandler.Logout)))
	mux.Handle("PUT /api/auth/password", authMW(http.HandlerFunc(authHandler.ChangePassword)))

	// Assets.
	mux.Handle("GET /api/assets", authMW(http.HandlerFunc(assetsHandler.List)))
	mux.Handle("POST /api/assets", authMW(http.HandlerFunc(assetsHandler.Create)))
	mux.Handle("GET /api/assets/{id}", authMW(http.HandlerFunc(assetsHandler.Get)))
	mux.Handle("PUT /api/assets/{id}", authMW(http.HandlerFunc(assetsHandler.Update)))
	mux.Handle("DELETE /api/assets/{id}", authMW(http.HandlerFunc(assetsHandler.Delete)))

	// Tasks.
	mux.Handle("GET /api/tasks", authMW(http.HandlerFunc(tasksHandler.List)))
	mux.Handle("POST /api/tasks", authMW(http.HandlerFunc(tasksHandler.Create)))
	mux.Handle("GET /api/tasks/{id}", authMW(http.HandlerFunc(tasksHandler.Get)))
	mux.Handle("PUT /api/tasks/{id}", authMW(http.HandlerFunc(tasksHandler.Update)))
	mux.Handle("POST /api/tasks/{id}/complete", authMW(http.HandlerFunc(tasksHandler.Complete)))
	mux.Handle("DELETE /api/tasks/{id}", authMW(http.HandlerFunc(tasksHandler.Delete)))

	// Dashboard.
	mux.Handle("GET /api/dashboard", authMW(http.HandlerFunc(dashboardHandler.Get)))

	return mux
}
