package repository

import (
	"context"
	"errors"
	"fmt"

	"fileflow/internal/logger"
	"fileflow/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

var ErrDocumentNotFound = errors.New("документ не найден")

type DocumentRepository struct {
	db *pgxpool.Pool
}

func NewDocumentRepository(db *pgxpool.Pool) *DocumentRepository {
	return &DocumentRepository{db: db}
}

// SaveDocument сохраняет метаданные документа.
func (r *DocumentRepository) SaveDocument(ctx context.Context, doc *models.Document) error {
	logger.Log.Info("Репозиторий: сохранение документа",
		zap.String("file_name", doc.FileName), zap.Int("user_id", int(doc.UploadedBy)))
	query := `
		INSERT INTO documents (name, subject, college, file_name, file_path, file_type, file_size, uploaded_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at`
	err := r.db.QueryRow(ctx, query,
		doc.Name,
		doc.Subject,
		doc.College,
		doc.FileName,
		doc.FilePath,
		doc.FileType,
		doc.FileSize,
		doc.UploadedBy,
	).Scan(&doc.ID, &doc.CreatedAt)
	if err != nil {
		logger.Log.Error("Ошибка сохранения документа (repo)", zap.Error(err))
	}
	return err
}

// buildSearchQuery собирает запрос поиска: свободный текст ищется по всем
// текстовым полям через ILIKE, subject и college фильтруются точно, условия
// пересекаются по AND. Результат — от новых к старым.
func buildSearchQuery(search, subject, college string) (string, []interface{}) {
	query := `
		SELECT d.id, d.name, d.subject, d.college, d.file_name, d.file_path, d.file_type, d.file_size,
		       d.uploaded_by, d.created_at, u.id, u.name, u.email
		FROM documents d
		JOIN users u ON u.id = d.uploaded_by`

	var (
		conds []string
		args  []interface{}
	)
	if search != "" {
		args = append(args, "%"+search+"%")
		n := len(args)
		conds = append(conds, fmt.Sprintf(
			"(d.name ILIKE $%d OR d.subject ILIKE $%d OR d.college ILIKE $%d OR d.file_name ILIKE $%d)", n, n, n, n))
	}
	if subject != "" {
		args = append(args, subject)
		conds = append(conds, fmt.Sprintf("d.subject = $%d", len(args)))
	}
	if college != "" {
		args = append(args, college)
		conds = append(conds, fmt.Sprintf("d.college = $%d", len(args)))
	}
	for i, c := range conds {
		if i == 0 {
			query += " WHERE " + c
		} else {
			query += " AND " + c
		}
	}
	query += " ORDER BY d.created_at DESC"
	return query, args
}

// SearchDocuments — поиск документов с данными загрузившего.
func (r *DocumentRepository) SearchDocuments(ctx context.Context, search, subject, college string) ([]*models.Document, error) {
	query, args := buildSearchQuery(search, subject, college)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		logger.Log.Error("Ошибка поиска документов (repo)", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var docs []*models.Document
	for rows.Next() {
		var d models.Document
		var up models.Uploader
		err := rows.Scan(
			&d.ID,
			&d.Name,
			&d.Subject,
			&d.College,
			&d.FileName,
			&d.FilePath,
			&d.FileType,
			&d.FileSize,
			&d.UploadedBy,
			&d.CreatedAt,
			&up.ID,
			&up.Name,
			&up.Email,
		)
		if err != nil {
			logger.Log.Error("Ошибка сканирования документа (repo)", zap.Error(err))
			return nil, err
		}
		d.Uploader = &up
		docs = append(docs, &d)
	}
	return docs, rows.Err()
}

// GetDocumentByID возвращает документ с данными загрузившего.
func (r *DocumentRepository) GetDocumentByID(ctx context.Context, id int) (*models.Document, error) {
	logger.Log.Debug("Репозиторий: получение документа по ID", zap.Int("doc_id", id))
	query := `
		SELECT d.id, d.name, d.subject, d.college, d.file_name, d.file_path, d.file_type, d.file_size,
		       d.uploaded_by, d.created_at, u.id, u.name, u.email
		FROM documents d
		JOIN users u ON u.id = d.uploaded_by
		WHERE d.id = $1`

	var d models.Document
	var up models.Uploader
	err := r.db.QueryRow(ctx, query, id).Scan(
		&d.ID,
		&d.Name,
		&d.Subject,
		&d.College,
		&d.FileName,
		&d.FilePath,
		&d.FileType,
		&d.FileSize,
		&d.UploadedBy,
		&d.CreatedAt,
		&up.ID,
		&up.Name,
		&up.Email,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrDocumentNotFound
		}
		logger.Log.Error("Ошибка получения документа по ID (repo)", zap.Int("doc_id", id), zap.Error(err))
		return nil, err
	}
	d.Uploader = &up
	return &d, nil
}

func (r *DocumentRepository) DeleteDocument(ctx context.Context, id int) error {
	logger.Log.Info("Репозиторий: удаление документа", zap.Int("doc_id", id))
	query := `DELETE FROM documents WHERE id = $1`
	_, err := r.db.Exec(ctx, query, id)
	if err != nil {
		logger.Log.Error("Ошибка удаления документа (repo)", zap.Int("doc_id", id), zap.Error(err))
	}
	return err
}
