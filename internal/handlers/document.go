package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"fileflow/internal/logger"
	"fileflow/internal/middleware"
	"fileflow/internal/models"
	"fileflow/internal/repository"
	"fileflow/internal/services"
	helpers "fileflow/internal/utils/helpers"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// Лимит размера файла, как в исходном ограничении загрузки.
const maxUploadSize = 10 << 20 // 10MB

// Запас на остальные поля multipart-формы сверх самого файла.
const uploadBodySlack = 512 << 10

type DocumentHandler struct {
	service *services.DocumentService
}

func NewDocumentHandler(service *services.DocumentService) *DocumentHandler {
	return &DocumentHandler{service: service}
}

type documentSummary struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	Subject   string    `json:"subject"`
	College   string    `json:"college"`
	FileName  string    `json:"file_name"`
	CreatedAt time.Time `json:"created_at"`
}

// UploadDocument godoc
// @Summary Загрузка PDF-документа
// @Tags documents
// @Security ApiKeyAuth
// @Accept multipart/form-data
// @Produce json
// @Param name formData string true "Название"
// @Param subject formData string true "Предмет"
// @Param college formData string true "Учебное заведение"
// @Param document formData file true "PDF-файл (до 10 МБ)"
// @Success 201 {object} documentSummary
// @Failure 400 {string} string "Ошибка загрузки"
// @Router /api/documents/upload [post]
func (h *DocumentHandler) UploadDocument(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.CurrentUserID(r.Context())
	if !ok {
		helpers.Error(w, http.StatusUnauthorized, "Требуется аутентификация")
		return
	}
	logger.Log.Info("Запрос на загрузку документа", zap.Int("user_id", int(userID)))

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize+uploadBodySlack)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		logger.Log.Warn("Ошибка разбора формы при загрузке документа", zap.Error(err))
		helpers.Error(w, http.StatusBadRequest, "Файл превышает 10 МБ или форма повреждена")
		return
	}

	name := strings.TrimSpace(r.FormValue("name"))
	subject := strings.TrimSpace(r.FormValue("subject"))
	college := strings.TrimSpace(r.FormValue("college"))

	// Обязательные поля проверяются до записи на диск: неполная форма
	// не оставляет после себя файлов.
	if name == "" || subject == "" || college == "" {
		helpers.Error(w, http.StatusBadRequest, "Поля name, subject и college обязательны")
		return
	}

	file, header, err := r.FormFile("document")
	if err != nil {
		logger.Log.Warn("Файл не найден при загрузке", zap.Error(err))
		helpers.Error(w, http.StatusBadRequest, "Файл не приложен")
		return
	}
	defer file.Close()

	if contentType := header.Header.Get("Content-Type"); contentType != "application/pdf" {
		logger.Log.Warn("Отклонён файл с недопустимым типом",
			zap.String("content_type", contentType), zap.Int("user_id", int(userID)))
		helpers.Error(w, http.StatusBadRequest, "Разрешены только PDF-файлы")
		return
	}

	// MaxBytesReader ограничивает тело запроса целиком, включая запас на
	// остальные поля формы. Сам файл проверяется отдельно по точному лимиту.
	if header.Size > maxUploadSize {
		logger.Log.Warn("Отклонён файл больше лимита",
			zap.Int64("file_size", header.Size), zap.Int("user_id", int(userID)))
		helpers.Error(w, http.StatusBadRequest, "Файл превышает 10 МБ")
		return
	}

	doc := &models.Document{
		Name:       name,
		Subject:    subject,
		College:    college,
		FileName:   header.Filename,
		FileType:   "application/pdf",
		UploadedBy: userID,
	}

	if err := h.service.Upload(r.Context(), doc, file); err != nil {
		logger.Log.Error("Ошибка при сохранении документа", zap.Error(err))
		helpers.Error(w, http.StatusInternalServerError, "Ошибка при сохранении документа")
		return
	}

	helpers.JSON(w, http.StatusCreated, map[string]interface{}{
		"message": "Документ загружен",
		"document": documentSummary{
			ID:        doc.ID,
			Name:      doc.Name,
			Subject:   doc.Subject,
			College:   doc.College,
			FileName:  doc.FileName,
			CreatedAt: doc.CreatedAt,
		},
	})
}

// ListDocuments godoc
// @Summary Список документов с поиском и фильтрами
// @Tags documents
// @Security ApiKeyAuth
// @Produce json
// @Param search query string false "Поиск по тексту"
// @Param subject query string false "Точный фильтр по предмету"
// @Param college query string false "Точный фильтр по учебному заведению"
// @Success 200 {object} map[string]interface{}
// @Failure 500 {string} string "Ошибка сервера"
// @Router /api/documents [get]
func (h *DocumentHandler) ListDocuments(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	docs, err := h.service.List(r.Context(), q.Get("search"), q.Get("subject"), q.Get("college"))
	if err != nil {
		logger.Log.Error("Ошибка при получении документов", zap.Error(err))
		helpers.Error(w, http.StatusInternalServerError, "Ошибка при получении документов")
		return
	}

	if docs == nil {
		docs = []*models.Document{}
	}
	logger.Log.Debug("Документы получены", zap.Int("count", len(docs)))
	helpers.JSON(w, http.StatusOK, map[string]interface{}{"documents": docs})
}

// GetDocument godoc
// @Summary Документ по ID
// @Tags documents
// @Security ApiKeyAuth
// @Produce json
// @Param id path int true "ID документа"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {string} string "Документ не найден"
// @Router /api/documents/{id} [get]
func (h *DocumentHandler) GetDocument(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		helpers.Error(w, http.StatusBadRequest, "Невалидный ID")
		return
	}

	doc, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrDocumentNotFound) {
			helpers.Error(w, http.StatusNotFound, err.Error())
			return
		}
		logger.Log.Error("Ошибка получения документа", zap.Int("doc_id", id), zap.Error(err))
		helpers.Error(w, http.StatusInternalServerError, "Ошибка сервера")
		return
	}

	helpers.JSON(w, http.StatusOK, map[string]interface{}{"document": doc})
}

// DownloadDocument godoc
// @Summary Скачать документ по ID
// @Tags documents
// @Security ApiKeyAuth
// @Produce octet-stream
// @Param id path int true "ID документа"
// @Success 200 {file} file
// @Failure 404 {string} string "Документ не найден"
// @Router /api/documents/{id}/download [get]
func (h *DocumentHandler) DownloadDocument(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		helpers.Error(w, http.StatusBadRequest, "Невалидный ID")
		return
	}

	doc, f, err := h.service.Download(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrDocumentNotFound) || errors.Is(err, services.ErrFileMissing) {
			helpers.Error(w, http.StatusNotFound, "Документ не найден")
			return
		}
		logger.Log.Error("Ошибка скачивания документа", zap.Int("doc_id", id), zap.Error(err))
		helpers.Error(w, http.StatusInternalServerError, "Ошибка сервера")
		return
	}
	defer f.Close()

	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.FileName))
	w.Header().Set("Content-Type", doc.FileType)
	w.Header().Set("Content-Length", strconv.FormatInt(doc.FileSize, 10))
	if _, err := io.Copy(w, f); err != nil {
		logger.Log.Error("Ошибка потоковой отдачи файла", zap.Int("doc_id", id), zap.Error(err))
		return
	}

	logger.Log.Info("Документ скачан", zap.Int("doc_id", id), zap.String("file_name", doc.FileName))
}

// DeleteDocument godoc
// @Summary Удаление документа (только владельцем)
// @Tags documents
// @Security ApiKeyAuth
// @Produce json
// @Param id path int true "ID документа"
// @Success 200 {object} map[string]string
// @Failure 403 {string} string "Можно удалять только свои документы"
// @Failure 404 {string} string "Документ не найден"
// @Router /api/documents/{id} [delete]
func (h *DocumentHandler) DeleteDocument(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.CurrentUserID(r.Context())
	if !ok {
		helpers.Error(w, http.StatusUnauthorized, "Требуется аутентификация")
		return
	}

	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		helpers.Error(w, http.StatusBadRequest, "Невалидный ID")
		return
	}

	if err := h.service.Delete(r.Context(), id, userID); err != nil {
		switch {
		case errors.Is(err, repository.ErrDocumentNotFound):
			helpers.Error(w, http.StatusNotFound, err.Error())
		case errors.Is(err, services.ErrNotOwner):
			helpers.Error(w, http.StatusForbidden, err.Error())
		default:
			logger.Log.Error("Ошибка удаления документа", zap.Int("doc_id", id), zap.Error(err))
			helpers.Error(w, http.StatusInternalServerError, "Ошибка при удалении")
		}
		return
	}

	helpers.JSON(w, http.StatusOK, map[string]string{"message": "Документ удалён"})
}
