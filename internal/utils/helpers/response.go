// Package helpers — единый формат JSON-ответов API.
package helpers

import (
	"encoding/json"
	"net/http"
)

// Response — конверт ответа: заполнено либо data, либо error.
type Response struct {
	Data  interface{} `json:"data,omitempty"`
	Error string      `json:"error,omitempty"`
}

// JSON пишет успешный ответ со статусом status.
func JSON(w http.ResponseWriter, status int, data interface{}) {
	writeEnvelope(w, status, Response{Data: data})
}

// Error пишет ответ с текстом ошибки для клиента.
func Error(w http.ResponseWriter, status int, errMsg string) {
	writeEnvelope(w, status, Response{Error: errMsg})
}

func writeEnvelope(w http.ResponseWriter, status int, resp Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Статус уже отправлен: если кодирование сорвалось, соединение
	// оборвано и ответить по-другому уже нельзя.
	_ = json.NewEncoder(w).Encode(resp)
}
