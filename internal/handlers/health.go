package handlers

import (
	"net/http"

	helpers "fileflow/internal/utils/helpers"
)

// Health godoc
// @Summary Проверка работоспособности API
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /api/health [get]
func Health(w http.ResponseWriter, _ *http.Request) {
	helpers.JSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"message": "FileFlow API работает",
	})
}
