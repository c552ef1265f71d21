package services

import (
	"context"
	"errors"

	"fileflow/internal/config"
	"fileflow/internal/logger"
	"fileflow/internal/models"
	"fileflow/internal/repository"
	"fileflow/internal/utils"

	"go.uber.org/zap"
)

var (
	// ErrInvalidCredentials — одна ошибка и для неизвестного email, и для
	// неверного пароля: по ответу нельзя определить, существует ли аккаунт.
	ErrInvalidCredentials  = errors.New("неверный email или пароль")
	ErrInvalidRefreshToken = errors.New("недействительный refresh токен")
)

type UserRepo interface {
	CreateUser(ctx context.Context, user *models.User) error
	IsEmailTaken(ctx context.Context, email string) (bool, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id models.UserID) (*models.User, error)
}

type RefreshTokenRepo interface {
	Save(ctx context.Context, userID models.UserID, token string) error
	IsValid(ctx context.Context, userID models.UserID, token string) (bool, error)
	Delete(ctx context.Context, userID models.UserID, token string) error
	DeleteAllForUser(ctx context.Context, userID models.UserID) error
}

type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

type AuthService struct {
	users  UserRepo
	tokens RefreshTokenRepo
	cfg    *config.Config
}

func NewAuthService(users UserRepo, tokens RefreshTokenRepo, cfg *config.Config) *AuthService {
	return &AuthService{users: users, tokens: tokens, cfg: cfg}
}

func (s *AuthService) Register(ctx context.Context, name, email, password string) (*models.User, error) {
	logger.Log.Info("Регистрация пользователя (service)", zap.String("email", email))

	if exists, err := s.users.IsEmailTaken(ctx, email); err != nil {
		logger.Log.Error("Ошибка проверки email (service)", zap.Error(err))
		return nil, err
	} else if exists {
		return nil, repository.ErrEmailTaken
	}

	hashed, err := utils.HashPassword(password)
	if err != nil {
		logger.Log.Error("Ошибка хеширования пароля (service)", zap.Error(err))
		return nil, err
	}

	user := &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: hashed,
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		logger.Log.Error("Ошибка создания пользователя (service)", zap.Error(err))
		return nil, err
	}

	logger.Log.Info("Пользователь зарегистрирован (service)", zap.Int("user_id", int(user.ID)))
	return user, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, *TokenPair, error) {
	logger.Log.Info("Попытка входа (service)", zap.String("email", email))

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		logger.Log.Warn("Пользователь не найден (service)", zap.String("email", email))
		return nil, nil, ErrInvalidCredentials
	}

	if !utils.CheckPasswordHash(password, user.PasswordHash) {
		logger.Log.Warn("Неверный пароль (service)", zap.Int("user_id", int(user.ID)))
		return nil, nil, ErrInvalidCredentials
	}

	pair, err := s.IssueTokens(ctx, user)
	if err != nil {
		return nil, nil, err
	}

	logger.Log.Info("Вход выполнен (service)", zap.Int("user_id", int(user.ID)))
	return user, pair, nil
}

// IssueTokens выдаёт пару токенов: access c коротким TTL и refresh с длинным,
// подписанные независимыми секретами. Refresh-токен сохраняется на сервере —
// без записи в хранилище он не будет принят при обновлении.
func (s *AuthService) IssueTokens(ctx context.Context, user *models.User) (*TokenPair, error) {
	accessToken, err := utils.GenerateToken(s.cfg.JWTSecret, user.ID, s.cfg.AccessTokenTTL, utils.TokenTypeAccess)
	if err != nil {
		logger.Log.Error("Ошибка генерации access-токена", zap.Error(err))
		return nil, err
	}

	refreshToken, err := utils.GenerateToken(s.cfg.JWTRefreshSecret, user.ID, s.cfg.RefreshTokenTTL, utils.TokenTypeRefresh)
	if err != nil {
		logger.Log.Error("Ошибка генерации refresh-токена", zap.Error(err))
		return nil, err
	}

	if err := s.tokens.Save(ctx, user.ID, refreshToken); err != nil {
		logger.Log.Error("Ошибка сохранения refresh-токена", zap.Error(err))
		return nil, err
	}

	return &TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// Refresh проверяет refresh-токен и выдаёт новую пару с ротацией:
// старый токен удаляется из хранилища и повторно принят не будет.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*models.User, *TokenPair, error) {
	userID, tokenType, err := utils.ParseToken(s.cfg.JWTRefreshSecret, refreshToken)
	if err != nil || tokenType != utils.TokenTypeRefresh {
		logger.Log.Warn("Неверный или просроченный refresh токен (service)")
		return nil, nil, ErrInvalidRefreshToken
	}

	valid, err := s.tokens.IsValid(ctx, userID, refreshToken)
	if err != nil {
		return nil, nil, err
	}
	if !valid {
		// Корректно подписанный токен, которого нет в хранилище, уже был
		// ротирован: кто-то предъявляет украденную копию. Отзываем все
		// сессии пользователя.
		logger.Log.Warn("Повторное использование refresh-токена, отзыв всех сессий (service)",
			zap.Int("user_id", int(userID)))
		if err := s.tokens.DeleteAllForUser(ctx, userID); err != nil {
			logger.Log.Error("Ошибка отзыва сессий пользователя", zap.Error(err))
		}
		return nil, nil, ErrInvalidRefreshToken
	}

	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		logger.Log.Warn("Пользователь refresh-токена не найден (service)", zap.Int("user_id", int(userID)))
		return nil, nil, ErrInvalidRefreshToken
	}

	pair, err := s.IssueTokens(ctx, user)
	if err != nil {
		return nil, nil, err
	}

	if err := s.tokens.Delete(ctx, userID, refreshToken); err != nil {
		logger.Log.Error("Ошибка удаления старого refresh-токена", zap.Error(err))
		return nil, nil, err
	}

	logger.Log.Info("Токены обновлены (service)", zap.Int("user_id", int(userID)))
	return user, pair, nil
}

// Logout удаляет refresh-токен из хранилища. Выданные access-токены
// остаются действительными до естественного истечения.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	userID, tokenType, err := utils.ParseToken(s.cfg.JWTRefreshSecret, refreshToken)
	if err != nil || tokenType != utils.TokenTypeRefresh {
		// Невалидный токен удалять нечего — выход всё равно успешен.
		return nil
	}

	logger.Log.Info("Выход пользователя (service)", zap.Int("user_id", int(userID)))
	return s.tokens.Delete(ctx, userID, refreshToken)
}

func (s *AuthService) GetUserByID(ctx context.Context, id models.UserID) (*models.User, error) {
	user, err := s.users.GetUserByID(ctx, id)
	if err != nil {
		logger.Log.Warn("Пользователь не найден по ID (service)", zap.Int("user_id", int(id)), zap.Error(err))
	}
	return user, err
}
