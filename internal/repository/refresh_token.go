package repository

import (
	"context"

	"fileflow/internal/logger"
	"fileflow/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// RefreshTokenRepository хранит выданные refresh-токены.
// Токен, удалённый при ротации или выходе, перестаёт приниматься
// независимо от своего срока действия.
type RefreshTokenRepository struct {
	db *pgxpool.Pool
}

func NewRefreshTokenRepository(db *pgxpool.Pool) *RefreshTokenRepository {
	return &RefreshTokenRepository{db: db}
}

func (r *RefreshTokenRepository) Save(ctx context.Context, userID models.UserID, token string) error {
	logger.Log.Debug("Сохранение refresh токена (repo)", zap.Int("user_id", int(userID)))
	query := `INSERT INTO refresh_tokens (user_id, token) VALUES ($1, $2)`
	_, err := r.db.Exec(ctx, query, userID, token)
	if err != nil {
		logger.Log.Error("Ошибка сохранения refresh токена (repo)", zap.Error(err))
	}
	return err
}

func (r *RefreshTokenRepository) IsValid(ctx context.Context, userID models.UserID, token string) (bool, error) {
	logger.Log.Debug("Проверка refresh токена (repo)", zap.Int("user_id", int(userID)))
	query := `SELECT EXISTS(SELECT 1 FROM refresh_tokens WHERE user_id = $1 AND token = $2)`
	var exists bool
	err := r.db.QueryRow(ctx, query, userID, token).Scan(&exists)
	if err != nil {
		logger.Log.Error("Ошибка проверки refresh токена (repo)", zap.Error(err))
	}
	return exists, err
}

func (r *RefreshTokenRepository) Delete(ctx context.Context, userID models.UserID, token string) error {
	logger.Log.Debug("Удаление refresh токена (repo)", zap.Int("user_id", int(userID)))
	query := `DELETE FROM refresh_tokens WHERE user_id = $1 AND token = $2`
	_, err := r.db.Exec(ctx, query, userID, token)
	if err != nil {
		logger.Log.Error("Ошибка удаления refresh токена (repo)", zap.Error(err))
	}
	return err
}

func (r *RefreshTokenRepository) DeleteAllForUser(ctx context.Context, userID models.UserID) error {
	logger.Log.Debug("Удаление всех refresh токенов пользователя (repo)", zap.Int("user_id", int(userID)))
	query := `DELETE FROM refresh_tokens WHERE user_id = $1`
	_, err := r.db.Exec(ctx, query, userID)
	if err != nil {
		logger.Log.Error("Ошибка удаления refresh токенов (repo)", zap.Error(err))
	}
	return err
}
