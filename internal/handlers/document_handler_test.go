package handlers

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"path/filepath"
	"testing"

	"fileflow/internal/middleware"
	"fileflow/internal/models"
	"fileflow/internal/repository"
	"fileflow/internal/services"
	"fileflow/internal/storage"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memDocRepo struct {
	docs   map[int]*models.Document
	nextID int
}

func newMemDocRepo() *memDocRepo {
	return &memDocRepo{docs: make(map[int]*models.Document), nextID: 1}
}

func (r *memDocRepo) SaveDocument(_ context.Context, doc *models.Document) error {
	doc.ID = r.nextID
	r.nextID++
	r.docs[doc.ID] = doc
	return nil
}

func (r *memDocRepo) SearchDocuments(_ context.Context, search, subject, college string) ([]*models.Document, error) {
	var out []*models.Document
	for _, d := range r.docs {
		if subject != "" && d.Subject != subject {
			continue
		}
		if college != "" && d.College != college {
			continue
		}
		out = append(out, d)
	}
	return out, nil
}

func (r *memDocRepo) GetDocumentByID(_ context.Context, id int) (*models.Document, error) {
	doc, ok := r.docs[id]
	if !ok {
		return nil, repository.ErrDocumentNotFound
	}
	return doc, nil
}

func (r *memDocRepo) DeleteDocument(_ context.Context, id int) error {
	if _, ok := r.docs[id]; !ok {
		return repository.ErrDocumentNotFound
	}
	delete(r.docs, id)
	return nil
}

func newTestDocumentHandler(t *testing.T) (*DocumentHandler, *memDocRepo, string) {
	t.Helper()
	dir := t.TempDir()
	repo := newMemDocRepo()
	files, err := storage.NewLocalStorage(dir)
	require.NoError(t, err)
	svc := services.NewDocumentService(repo, files)
	return NewDocumentHandler(svc), repo, dir
}

// multipartBody собирает форму загрузки. Content-Type части задаётся
// вручную: стандартный CreateFormFile всегда пишет octet-stream.
func multipartBody(t *testing.T, fields map[string]string, fileName, fileContentType string, fileData []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}

	if fileName != "" {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition",
			fmt.Sprintf(`form-data; name="document"; filename=%q`, fileName))
		h.Set("Content-Type", fileContentType)
		part, err := mw.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write(fileData)
		require.NoError(t, err)
	}

	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func uploadRequest(t *testing.T, userID models.UserID, fields map[string]string, fileName, fileContentType string, fileData []byte) *http.Request {
	t.Helper()
	body, contentType := multipartBody(t, fields, fileName, fileContentType, fileData)
	req := httptest.NewRequest(http.MethodPost, "/api/documents/upload", body)
	req.Header.Set("Content-Type", contentType)
	ctx := context.WithValue(req.Context(), middleware.ContextUserID, userID)
	return req.WithContext(ctx)
}

func filesOnDisk(t *testing.T, dir string) int {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	return len(entries)
}

func TestUploadDocument_Success(t *testing.T) {
	h, repo, dir := newTestDocumentHandler(t)

	fields := map[string]string{"name": "Лекция 1", "subject": "Математика", "college": "МГУ"}
	req := uploadRequest(t, 1, fields, "lecture.pdf", "application/pdf", []byte("%PDF-1.4 данные"))
	rec := httptest.NewRecorder()
	h.UploadDocument(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	require.Len(t, repo.docs, 1)
	assert.Equal(t, 1, filesOnDisk(t, dir))

	doc := repo.docs[1]
	assert.Equal(t, "lecture.pdf", doc.FileName)
	assert.Equal(t, models.UserID(1), doc.UploadedBy)
	assert.Equal(t, "application/pdf", doc.FileType)
	// на диске файл лежит под сгенерированным именем, не под исходным
	assert.NotEqual(t, "lecture.pdf", filepath.Base(doc.FilePath))
}

func TestUploadDocument_RejectsNonPDF(t *testing.T) {
	h, repo, dir := newTestDocumentHandler(t)

	fields := map[string]string{"name": "A", "subject": "B", "college": "C"}
	req := uploadRequest(t, 1, fields, "notes.txt", "text/plain", []byte("просто текст"))
	rec := httptest.NewRecorder()
	h.UploadDocument(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, repo.docs)
	assert.Equal(t, 0, filesOnDisk(t, dir))
}

func TestUploadDocument_MissingFields(t *testing.T) {
	h, repo, dir := newTestDocumentHandler(t)

	fields := map[string]string{"name": "A", "subject": "", "college": "C"}
	req := uploadRequest(t, 1, fields, "lecture.pdf", "application/pdf", []byte("%PDF-1.4"))
	rec := httptest.NewRecorder()
	h.UploadDocument(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, repo.docs)
	assert.Equal(t, 0, filesOnDisk(t, dir))
}

func TestUploadDocument_MissingFile(t *testing.T) {
	h, repo, _ := newTestDocumentHandler(t)

	fields := map[string]string{"name": "A", "subject": "B", "college": "C"}
	req := uploadRequest(t, 1, fields, "", "", nil)
	rec := httptest.NewRecorder()
	h.UploadDocument(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, repo.docs)
}

func TestUploadDocument_TooLarge(t *testing.T) {
	h, repo, dir := newTestDocumentHandler(t)
	fields := map[string]string{"name": "A", "subject": "B", "college": "C"}

	// файл на байт больше лимита: форма разбирается успешно,
	// отказ идёт по точному размеру файла
	justOver := bytes.Repeat([]byte("a"), maxUploadSize+1)
	req := uploadRequest(t, 1, fields, "big.pdf", "application/pdf", justOver)
	rec := httptest.NewRecorder()
	h.UploadDocument(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, repo.docs)
	assert.Equal(t, 0, filesOnDisk(t, dir))

	// тело целиком превышает общий лимит, разбор формы обрывается
	huge := bytes.Repeat([]byte("a"), maxUploadSize+uploadBodySlack+1)
	req = uploadRequest(t, 1, fields, "huge.pdf", "application/pdf", huge)
	rec = httptest.NewRecorder()
	h.UploadDocument(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, repo.docs)
	assert.Equal(t, 0, filesOnDisk(t, dir))
}

func TestUploadDocument_AtLimit(t *testing.T) {
	h, repo, _ := newTestDocumentHandler(t)

	fields := map[string]string{"name": "A", "subject": "B", "college": "C"}
	exact := bytes.Repeat([]byte("a"), maxUploadSize)
	req := uploadRequest(t, 1, fields, "limit.pdf", "application/pdf", exact)
	rec := httptest.NewRecorder()
	h.UploadDocument(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	require.Len(t, repo.docs, 1)
	assert.Equal(t, int64(maxUploadSize), repo.docs[1].FileSize)
}

func TestUploadDocument_Unauthenticated(t *testing.T) {
	h, _, _ := newTestDocumentHandler(t)

	body, contentType := multipartBody(t,
		map[string]string{"name": "A", "subject": "B", "college": "C"},
		"lecture.pdf", "application/pdf", []byte("%PDF-1.4"))
	req := httptest.NewRequest(http.MethodPost, "/api/documents/upload", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	h.UploadDocument(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestListDocuments_EmptyIsArray(t *testing.T) {
	h, _, _ := newTestDocumentHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/documents", nil)
	rec := httptest.NewRecorder()
	h.ListDocuments(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	// пустой список сериализуется как [], а не null
	assert.Contains(t, rec.Body.String(), `"documents":[]`)
}

func TestGetDocument_NotFound(t *testing.T) {
	h, _, _ := newTestDocumentHandler(t)

	req := mux.SetURLVars(httptest.NewRequest(http.MethodGet, "/api/documents/99", nil),
		map[string]string{"id": "99"})
	rec := httptest.NewRecorder()
	h.GetDocument(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDownloadDocument(t *testing.T) {
	h, repo, _ := newTestDocumentHandler(t)

	fields := map[string]string{"name": "Лекция", "subject": "Физика", "college": "МФТИ"}
	content := []byte("%PDF-1.4 содержимое")
	req := uploadRequest(t, 1, fields, "lecture.pdf", "application/pdf", content)
	rec := httptest.NewRecorder()
	h.UploadDocument(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	dlReq := mux.SetURLVars(httptest.NewRequest(http.MethodGet, "/api/documents/1/download", nil),
		map[string]string{"id": "1"})
	rec = httptest.NewRecorder()
	h.DownloadDocument(rec, dlReq)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, content, rec.Body.Bytes())
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), `filename="lecture.pdf"`)

	// файл удалён с диска, метаданные остались: клиент получает 404
	require.NoError(t, os.Remove(repo.docs[1].FilePath))

	rec = httptest.NewRecorder()
	h.DownloadDocument(rec, dlReq)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteDocument_OnlyOwner(t *testing.T) {
	h, repo, dir := newTestDocumentHandler(t)

	fields := map[string]string{"name": "Лекция", "subject": "Физика", "college": "МФТИ"}
	req := uploadRequest(t, 1, fields, "lecture.pdf", "application/pdf", []byte("%PDF-1.4"))
	rec := httptest.NewRecorder()
	h.UploadDocument(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	deleteAs := func(userID models.UserID) *httptest.ResponseRecorder {
		delReq := mux.SetURLVars(httptest.NewRequest(http.MethodDelete, "/api/documents/1", nil),
			map[string]string{"id": "1"})
		ctx := context.WithValue(delReq.Context(), middleware.ContextUserID, userID)
		rec := httptest.NewRecorder()
		h.DeleteDocument(rec, delReq.WithContext(ctx))
		return rec
	}

	// чужой пользователь получает 403, документ и файл на месте
	rec = deleteAs(2)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Len(t, repo.docs, 1)
	assert.Equal(t, 1, filesOnDisk(t, dir))

	// владелец удаляет успешно
	rec = deleteAs(1)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, repo.docs)
	assert.Equal(t, 0, filesOnDisk(t, dir))

	// повторное удаление даёт 404
	rec = deleteAs(1)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
