package utils

import (
	"errors"
	"time"

	"fileflow/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

var ErrInvalidToken = errors.New("неверный или просроченный токен")

// GenerateToken создаёт подписанный JWT с идентификатором пользователя.
// Access- и refresh-токены различаются секретом, TTL и token_type.
func GenerateToken(secret string, userID models.UserID, ttl time.Duration, tokenType string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"user_id":    int(userID),
		"token_type": tokenType,
		"exp":        now.Add(ttl).Unix(),
		"iat":        now.Unix(),
		// iat даёт секундную точность — двух выдач в одну секунду достаточно,
		// чтобы токены совпали; jti делает каждый токен уникальным.
		"jti": uuid.NewString(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseToken проверяет подпись и срок действия и возвращает
// идентификатор пользователя и тип токена.
func ParseToken(secret, tokenString string) (models.UserID, string, error) {
	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return 0, "", ErrInvalidToken
	}

	userID, ok1 := claims["user_id"].(float64)
	tokenType, ok2 := claims["token_type"].(string)
	if !ok1 || !ok2 {
		return 0, "", ErrInvalidToken
	}

	return models.UserID(userID), tokenType, nil
}
