package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"fileflow/internal/config"
	"fileflow/internal/logger"
	"fileflow/internal/middleware"
	"fileflow/internal/models"
	"fileflow/internal/repository"
	"fileflow/internal/services"
	"fileflow/internal/utils"
	helpers "fileflow/internal/utils/helpers"

	"go.uber.org/zap"
)

const refreshCookieName = "refresh_token"

type AuthHandler struct {
	authService *services.AuthService
	cfg         *config.Config
}

func NewAuthHandler(authService *services.AuthService, cfg *config.Config) *AuthHandler {
	return &AuthHandler{authService: authService, cfg: cfg}
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	User        *models.User `json:"user"`
	AccessToken string       `json:"access_token"`
}

// setRefreshCookie кладёт refresh-токен в httpOnly cookie: скрипту на
// клиенте он недоступен, отправляется только на маршруты /api/auth.
func (h *AuthHandler) setRefreshCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookieName,
		Value:    token,
		Path:     "/api/auth",
		MaxAge:   int(h.cfg.RefreshTokenTTL.Seconds()),
		HttpOnly: true,
		Secure:   h.cfg.Env == "prod",
		SameSite: http.SameSiteStrictMode,
	})
}

func (h *AuthHandler) clearRefreshCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookieName,
		Value:    "",
		Path:     "/api/auth",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cfg.Env == "prod",
		SameSite: http.SameSiteStrictMode,
	})
}

// Register godoc
// @Summary Регистрация нового пользователя
// @Tags auth
// @Accept json
// @Produce json
// @Param input body registerRequest true "Данные регистрации"
// @Success 201 {object} authResponse
// @Failure 400 {string} string "Ошибка валидации"
// @Router /api/auth/register [post]
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Log.Warn("Ошибка декодирования JSON в Register", zap.Error(err))
		helpers.Error(w, http.StatusBadRequest, "Невалидный JSON")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	if req.Name == "" {
		helpers.Error(w, http.StatusBadRequest, "Имя обязательно")
		return
	}
	if !utils.IsValidEmail(req.Email) {
		helpers.Error(w, http.StatusBadRequest, "Некорректный адрес электронной почты")
		return
	}
	if msg := utils.ValidatePassword(req.Password); msg != "" {
		helpers.Error(w, http.StatusBadRequest, msg)
		return
	}

	user, err := h.authService.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			helpers.Error(w, http.StatusBadRequest, err.Error())
			return
		}
		logger.Log.Error("Ошибка регистрации пользователя", zap.Error(err))
		helpers.Error(w, http.StatusInternalServerError, "Не удалось зарегистрироваться, попробуйте ещё раз")
		return
	}

	pair, err := h.authService.IssueTokens(r.Context(), user)
	if err != nil {
		logger.Log.Error("Ошибка выдачи токенов после регистрации", zap.Error(err))
		helpers.Error(w, http.StatusInternalServerError, "Ошибка генерации токенов")
		return
	}

	h.setRefreshCookie(w, pair.RefreshToken)
	helpers.JSON(w, http.StatusCreated, authResponse{User: user, AccessToken: pair.AccessToken})
}

// Login godoc
// @Summary Авторизация пользователя
// @Tags auth
// @Accept json
// @Produce json
// @Param input body loginRequest true "Данные для входа"
// @Success 200 {object} authResponse
// @Failure 400 {string} string "Неверный email или пароль"
// @Router /api/auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Log.Warn("Ошибка декодирования JSON в Login", zap.Error(err))
		helpers.Error(w, http.StatusBadRequest, "Невалидный JSON")
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if !utils.IsValidEmail(req.Email) {
		helpers.Error(w, http.StatusBadRequest, "Некорректный адрес электронной почты")
		return
	}
	if req.Password == "" {
		helpers.Error(w, http.StatusBadRequest, "Пароль обязателен")
		return
	}

	user, pair, err := h.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			helpers.Error(w, http.StatusBadRequest, err.Error())
			return
		}
		logger.Log.Error("Ошибка входа", zap.Error(err))
		helpers.Error(w, http.StatusInternalServerError, "Ошибка сервера")
		return
	}

	h.setRefreshCookie(w, pair.RefreshToken)
	helpers.JSON(w, http.StatusOK, authResponse{User: user, AccessToken: pair.AccessToken})
}

// Refresh godoc
// @Summary Обновление пары токенов по refresh-cookie
// @Tags auth
// @Produce json
// @Success 200 {object} authResponse
// @Failure 401 {string} string "Недействительный refresh токен"
// @Router /api/auth/refresh-token [post]
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(refreshCookieName)
	if err != nil {
		logger.Log.Warn("Отсутствует refresh cookie в Refresh")
		helpers.Error(w, http.StatusUnauthorized, "Отсутствует refresh токен")
		return
	}

	user, pair, err := h.authService.Refresh(r.Context(), cookie.Value)
	if err != nil {
		if errors.Is(err, services.ErrInvalidRefreshToken) {
			helpers.Error(w, http.StatusUnauthorized, err.Error())
			return
		}
		logger.Log.Error("Ошибка обновления токенов", zap.Error(err))
		helpers.Error(w, http.StatusInternalServerError, "Ошибка генерации токенов")
		return
	}

	h.setRefreshCookie(w, pair.RefreshToken)
	helpers.JSON(w, http.StatusOK, authResponse{User: user, AccessToken: pair.AccessToken})
}

// Logout godoc
// @Summary Выход (удаление refresh токена и очистка cookie)
// @Tags auth
// @Produce json
// @Success 200 {object} map[string]string
// @Router /api/auth/logout [post]
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(refreshCookieName); err == nil {
		if err := h.authService.Logout(r.Context(), cookie.Value); err != nil {
			logger.Log.Error("Ошибка при удалении refresh токена", zap.Error(err))
		}
	}

	h.clearRefreshCookie(w)
	helpers.JSON(w, http.StatusOK, map[string]string{"message": "Выход выполнен"})
}

// Me godoc
// @Summary Профиль текущего пользователя
// @Tags auth
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {object} models.User
// @Failure 401 {string} string "Нет доступа"
// @Router /api/auth/me [get]
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.CurrentUser(r.Context())
	if !ok {
		helpers.Error(w, http.StatusUnauthorized, "Требуется аутентификация")
		return
	}

	helpers.JSON(w, http.StatusOK, user)
}
