package services

import (
	"context"
	"errors"
	"io"
	"os"

	"fileflow/internal/logger"
	"fileflow/internal/models"
	"fileflow/internal/storage"

	"go.uber.org/zap"
)

var (
	ErrNotOwner    = errors.New("удалять документ может только загрузивший его пользователь")
	ErrFileMissing = errors.New("файл документа отсутствует на диске")
)

type DocumentRepo interface {
	SaveDocument(ctx context.Context, doc *models.Document) error
	SearchDocuments(ctx context.Context, search, subject, college string) ([]*models.Document, error)
	GetDocumentByID(ctx context.Context, id int) (*models.Document, error)
	DeleteDocument(ctx context.Context, id int) error
}

type DocumentService struct {
	repo  DocumentRepo
	files storage.FileStore
}

func NewDocumentService(repo DocumentRepo, files storage.FileStore) *DocumentService {
	return &DocumentService{repo: repo, files: files}
}

// Upload пишет файл на диск и сохраняет метаданные. Записи не атомарны,
// поэтому при ошибке вставки уже записанный файл удаляется — осиротевших
// файлов после неуспешной загрузки не остаётся.
func (s *DocumentService) Upload(ctx context.Context, doc *models.Document, src io.Reader) error {
	path, size, err := s.files.Save(src, doc.FileName)
	if err != nil {
		logger.Log.Error("Ошибка записи файла (service)", zap.Error(err))
		return err
	}
	doc.FilePath = path
	doc.FileSize = size

	if err := s.repo.SaveDocument(ctx, doc); err != nil {
		logger.Log.Error("Ошибка сохранения документа в базе (service)", zap.Error(err))
		if rmErr := s.files.Remove(path); rmErr != nil {
			logger.Log.Error("Не удалось удалить файл после ошибки вставки",
				zap.String("file_path", path), zap.Error(rmErr))
		}
		return err
	}

	logger.Log.Info("Документ загружен (service)",
		zap.Int("doc_id", doc.ID), zap.Int("user_id", int(doc.UploadedBy)))
	return nil
}

func (s *DocumentService) List(ctx context.Context, search, subject, college string) ([]*models.Document, error) {
	return s.repo.SearchDocuments(ctx, search, subject, college)
}

func (s *DocumentService) GetByID(ctx context.Context, id int) (*models.Document, error) {
	logger.Log.Debug("Сервис: получение документа по ID", zap.Int("doc_id", id))
	return s.repo.GetDocumentByID(ctx, id)
}

// Download возвращает метаданные и открытый файл. Отсутствие файла на
// диске — ErrFileMissing, а не ошибка потока на полпути.
func (s *DocumentService) Download(ctx context.Context, id int) (*models.Document, *os.File, error) {
	doc, err := s.repo.GetDocumentByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	f, err := s.files.Open(doc.FilePath)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Log.Error("Файл документа отсутствует на диске",
				zap.Int("doc_id", id), zap.String("file_path", doc.FilePath))
			return nil, nil, ErrFileMissing
		}
		return nil, nil, err
	}

	return doc, f, nil
}

// Delete удаляет документ. Разрешено только владельцу; ошибка удаления
// файла с диска логируется, но не блокирует удаление метаданных.
func (s *DocumentService) Delete(ctx context.Context, id int, requester models.UserID) error {
	doc, err := s.repo.GetDocumentByID(ctx, id)
	if err != nil {
		return err
	}

	if !doc.OwnedBy(requester) {
		logger.Log.Warn("Попытка удаления чужого документа",
			zap.Int("doc_id", id), zap.Int("user_id", int(requester)), zap.Int("owner_id", int(doc.UploadedBy)))
		return ErrNotOwner
	}

	if err := s.files.Remove(doc.FilePath); err != nil {
		logger.Log.Error("Ошибка удаления файла с диска",
			zap.String("file_path", doc.FilePath), zap.Error(err))
	}

	if err := s.repo.DeleteDocument(ctx, id); err != nil {
		logger.Log.Error("Ошибка удаления документа из базы (service)", zap.Int("doc_id", id), zap.Error(err))
		return err
	}

	logger.Log.Info("Документ удалён (service)", zap.Int("doc_id", id), zap.Int("user_id", int(requester)))
	return nil
}
