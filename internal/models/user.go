package models

import "time"

// UserID — типизированный идентификатор пользователя.
// Владелец документа сравнивается с запрашивающим только через этот тип.
type UserID int

type User struct {
	ID           UserID    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}
