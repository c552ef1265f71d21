package app

import (
	"context"

	"fileflow/internal/config"
	"fileflow/internal/db"
	"fileflow/internal/handlers"
	"fileflow/internal/repository"
	"fileflow/internal/routes"
	"fileflow/internal/services"
	"fileflow/internal/storage"

	"github.com/gorilla/mux"
)

func InitApp(ctx context.Context, cfg *config.Config) (*mux.Router, error) {
	conn, err := db.NewPostgresConnection(ctx, cfg)
	if err != nil {
		return nil, err
	}

	fileStore, err := storage.NewLocalStorage(cfg.UploadDir)
	if err != nil {
		return nil, err
	}

	// Репозитории
	userRepo := repository.NewUserRepository(conn)
	tokenRepo := repository.NewRefreshTokenRepository(conn)
	docRepo := repository.NewDocumentRepository(conn)

	// Сервисы
	authService := services.NewAuthService(userRepo, tokenRepo, cfg)
	docService := services.NewDocumentService(docRepo, fileStore)

	// Хендлеры
	authHandler := handlers.NewAuthHandler(authService, cfg)
	docHandler := handlers.NewDocumentHandler(docService)

	// Маршруты
	router := mux.NewRouter()
	routes.InitRoutes(router, cfg, userRepo, authHandler, docHandler)

	return router, nil
}
