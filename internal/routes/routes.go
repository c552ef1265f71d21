package routes

import (
	"net/http"

	"fileflow/internal/config"
	"fileflow/internal/handlers"
	"fileflow/internal/middleware"

	"github.com/gorilla/mux"
)

func InitRoutes(
	router *mux.Router,
	cfg *config.Config,
	users middleware.UserProvider,
	authHandler *handlers.AuthHandler,
	documentHandler *handlers.DocumentHandler,
) {
	router.Use(middleware.RequestID, middleware.Logging, middleware.Recoverer)

	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/health", handlers.Health).Methods("GET")

	authRequired := middleware.JWTAuth(cfg, users)

	// --- Аутентификация ---
	auth := api.PathPrefix("/auth").Subrouter()
	auth.HandleFunc("/register", authHandler.Register).Methods("POST")
	auth.HandleFunc("/login", authHandler.Login).Methods("POST")
	auth.HandleFunc("/refresh-token", authHandler.Refresh).Methods("POST")
	auth.HandleFunc("/logout", authHandler.Logout).Methods("POST")
	auth.Handle("/me", authRequired(http.HandlerFunc(authHandler.Me))).Methods("GET")

	// --- Документы (все маршруты под access-токеном) ---
	docs := api.PathPrefix("/documents").Subrouter()
	docs.Use(authRequired)
	docs.HandleFunc("/upload", documentHandler.UploadDocument).Methods("POST")
	docs.HandleFunc("", documentHandler.ListDocuments).Methods("GET")
	docs.HandleFunc("/{id:[0-9]+}", documentHandler.GetDocument).Methods("GET")
	docs.HandleFunc("/{id:[0-9]+}/download", documentHandler.DownloadDocument).Methods("GET")
	docs.HandleFunc("/{id:[0-9]+}", documentHandler.DeleteDocument).Methods("DELETE")

	// Статическая раздача директории загрузок.
	router.PathPrefix("/uploads/").Handler(
		http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.UploadDir))))
}
