package web

import (
	"encoding/json"
	"net/http"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"sena-tracker/internal/repository"
	"sena-tracker/internal/service"
	"sena-tracker/internal/state"
)

type errorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
	// Data is the locally applied result when only the store write failed.
	Data interface{} `json:"data,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// statusFor сопоставляет ошибку сервиса с HTTP статусом
func statusFor(err error) int {
	var (
		reqErr    *requestError
		remoteErr *repository.RemoteError
	)
	switch {
	case errors.As(err, &reqErr), errors.Is(err, service.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, state.ErrFichaNotFound), errors.Is(err, state.ErrApprenticeNotFound):
		return http.StatusNotFound
	case errors.Is(err, state.ErrFichaExists):
		return http.StatusConflict
	case errors.As(err, &remoteErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	resp := errorResponse{Error: err.Error()}

	var reqErr *requestError
	if errors.As(err, &reqErr) {
		resp.Fields = reqErr.fields
	}
	if status >= http.StatusInternalServerError {
		h.log.Error("❌ ошибка обработки запроса", zap.String("path", r.URL.Path), zap.Error(err))
		if status == http.StatusInternalServerError {
			resp.Error = http.StatusText(status)
		}
	}
	writeJSON(w, status, resp)
}

// writePartial answers 502 for writes applied locally but rejected by the store.
func (h *Handler) writePartial(w http.ResponseWriter, r *http.Request, err error, data interface{}) {
	h.log.Warn("⚠️ сохранено локально, хранилище недоступно", zap.String("path", r.URL.Path), zap.Error(err))
	writeJSON(w, http.StatusBadGateway, errorResponse{Error: err.Error(), Data: data})
}
