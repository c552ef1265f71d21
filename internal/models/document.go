package models

import "time"

type Document struct {
	ID         int       `json:"id"`
	Name       string    `json:"name"`
	Subject    string    `json:"subject"`
	College    string    `json:"college"`
	FileName   string    `json:"file_name"`
	FilePath   string    `json:"-"`
	FileType   string    `json:"file_type"`
	FileSize   int64     `json:"file_size"`
	UploadedBy UserID    `json:"-"`
	Uploader   *Uploader `json:"uploaded_by,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// Uploader — публичная часть данных о загрузившем пользователе (без пароля).
type Uploader struct {
	ID    UserID `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// OwnedBy — единственное место, где проверяется владение документом.
func (d *Document) OwnedBy(id UserID) bool {
	return d.UploadedBy == id
}
