// internal/pkg/httpx/response.go
package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"zirako/internal/pkg/apperr"
	"zirako/internal/pkg/auth"
	"zirako/internal/pkg/logger"
)

// Envelope 是所有 JSON 接口统一的响应结构
type Envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Validator 由请求体结构实现，解码后立即校验
type Validator interface {
	Validate() error
}

// maxBodyBytes 限制请求体大小
const maxBodyBytes = 1 << 20

func WriteJSON(w http.ResponseWriter, status int, body Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func OK(w http.ResponseWriter, data any) {
	WriteJSON(w, http.StatusOK, Envelope{Success: true, Data: data})
}

func Created(w http.ResponseWriter, data any, message string) {
	WriteJSON(w, http.StatusCreated, Envelope{Success: true, Data: data, Message: message})
}

func Message(w http.ResponseWriter, message string) {
	WriteJSON(w, http.StatusOK, Envelope{Success: true, Message: message})
}

// StatusFor 把错误种类映射为 HTTP 状态码
func StatusFor(err error) int {
	switch apperr.KindOf(err) {
	case apperr.ErrValidation:
		return http.StatusBadRequest
	case apperr.ErrUnauthorized:
		return http.StatusUnauthorized
	case apperr.ErrForbidden:
		return http.StatusForbidden
	case apperr.ErrNotFound:
		return http.StatusNotFound
	case apperr.ErrInvalidState, apperr.ErrConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// WriteError 输出错误响应；未分类的错误记录日志并隐藏细节
func WriteError(ctx context.Context, w http.ResponseWriter, err error) {
	status := StatusFor(err)
	msg := apperr.Message(err)
	if status == http.StatusInternalServerError {
		logger.Ctx(ctx).Error().Err(err).Msg("request failed")
		msg = "Error interno del servidor"
	}
	WriteJSON(w, status, Envelope{Success: false, Error: msg})
}

// DecodeJSON 严格解码请求体：拒绝未知字段与多余内容，然后调用 Validate
func DecodeJSON(r *http.Request, dst Validator) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return apperr.Validation("request body is required")
		}
		return apperr.Validation("invalid request body: %v", err)
	}
	if dec.More() {
		return apperr.Validation("request body must contain a single JSON object")
	}
	return dst.Validate()
}

// PathID 解析路由中的数字 ID
func PathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.Validation("invalid %s", name)
	}
	return id, nil
}

// QueryInt 读取整数查询参数，缺失或非法时返回 fallback
func QueryInt(r *http.Request, name string, fallback int) int {
	if v := r.URL.Query().Get(name); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

// RequireAccount 从 context 中取当前账户，未登录时写 401 并返回 false
func RequireAccount(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id := auth.AccountID(r.Context())
	if id == 0 {
		WriteError(r.Context(), w, apperr.Unauthorized("No autorizado"))
		return 0, false
	}
	return id, true
}
