package utils

import "testing"

func TestIsValidEmail(t *testing.T) {
	valid := []string{
		"user@example.com",
		"ivan.petrov@mail.ru",
		"a@b.co",
		"  padded@example.com  ",
	}
	for _, email := range valid {
		if !IsValidEmail(email) {
			t.Errorf("email %q должен считаться валидным", email)
		}
	}

	invalid := []string{
		"",
		"plainaddress",
		"@no-local.com",
		"no-domain@",
		"no-tld@domain",
		"spa ce@example.com",
		"two@@example.com",
	}
	for _, email := range invalid {
		if IsValidEmail(email) {
			t.Errorf("email %q должен считаться невалидным", email)
		}
	}
}

func TestValidatePassword(t *testing.T) {
	cases := []struct {
		password string
		ok       bool
	}{
		{"password1", true},
		{"12345678", true},
		{"длинныйпароль1", true},
		{"", false},
		{"short1", false},
		{"nodigitshere", false},
		{"1234567", false},
	}

	for _, tc := range cases {
		msg := ValidatePassword(tc.password)
		if tc.ok && msg != "" {
			t.Errorf("пароль %q отклонён: %s", tc.password, msg)
		}
		if !tc.ok && msg == "" {
			t.Errorf("пароль %q должен быть отклонён", tc.password)
		}
	}
}
