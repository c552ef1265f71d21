package utils

import (
	"regexp"
	"strings"
	"unicode"
)

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

func IsValidEmail(email string) bool {
	return emailRe.MatchString(strings.TrimSpace(email))
}

// ValidatePassword — политика паролей при регистрации:
// минимум 8 символов и хотя бы одна цифра.
func ValidatePassword(password string) string {
	if len(password) < 8 {
		return "Пароль должен содержать не менее 8 символов"
	}
	hasDigit := false
	for _, r := range password {
		if unicode.IsDigit(r) {
			hasDigit = true
			break
		}
	}
	if !hasDigit {
		return "Пароль должен содержать хотя бы одну цифру"
	}
	return ""
}
