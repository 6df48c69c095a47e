// internal/service/account/interfaces/http_handler.go
package interfaces

import (
	"net/http"
	"time"

	"zirako/internal/pkg/auth"
	"zirako/internal/pkg/httpx"
	"zirako/internal/service/account/application"
)

// AccountHandler 封装了认证与个人资料相关的 HTTP 处理器
type AccountHandler struct {
	service   *application.AccountService
	cookieTTL time.Duration
}

func NewAccountHandler(service *application.AccountService, cookieTTL time.Duration) *AccountHandler {
	return &AccountHandler{service: service, cookieTTL: cookieTTL}
}

// RegisterRoutes 在 ServeMux 上注册所有路由
func (h *AccountHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/auth/register", h.handleRegister)
	mux.HandleFunc("POST /api/auth/login", h.handleLogin)
	mux.HandleFunc("POST /api/auth/logout", h.handleLogout)
	mux.HandleFunc("GET /api/auth/verify", h.handleVerify)
	mux.HandleFunc("POST /api/auth/forgot-password", h.handleForgotPassword)
	mux.HandleFunc("GET /api/profile", h.handleProfile)
	mux.HandleFunc("PUT /api/profile", h.handleUpdateProfile)
}

func (h *AccountHandler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req application.RegisterRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(r.Context(), w, err)
		return
	}
	a, err := h.service.Register(r.Context(), &req)
	if err != nil {
		httpx.WriteError(r.Context(), w, err)
		return
	}
	httpx.Created(w, application.ToAccountResponse(a), "Usuario registrado exitosamente. Revisa tu correo para verificar tu cuenta.")
}

func (h *AccountHandler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req application.LoginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(r.Context(), w, err)
		return
	}
	res, err := h.service.Login(r.Context(), &req)
	if err != nil {
		httpx.WriteError(r.Context(), w, err)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     auth.CookieName,
		Value:    res.Token,
		Path:     "/",
		MaxAge:   int(h.cookieTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	httpx.OK(w, res)
}

func (h *AccountHandler) handleLogout(w http.ResponseWriter, _ *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	httpx.Message(w, "Sesión cerrada")
}

func (h *AccountHandler) handleVerify(w http.ResponseWriter, r *http.Request) {
	if err := h.service.VerifyEmail(r.Context(), r.URL.Query().Get("token")); err != nil {
		httpx.WriteError(r.Context(), w, err)
		return
	}
	httpx.Message(w, "Email verificado exitosamente")
}

func (h *AccountHandler) handleForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req application.ForgotPasswordRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(r.Context(), w, err)
		return
	}
	if err := h.service.ForgotPassword(r.Context(), req.Email); err != nil {
		httpx.WriteError(r.Context(), w, err)
		return
	}
	httpx.Message(w, "Si el correo existe, recibirás una contraseña temporal")
}

func (h *AccountHandler) handleProfile(w http.ResponseWriter, r *http.Request) {
	accountID, ok := httpx.RequireAccount(w, r)
	if !ok {
		return
	}
	p, err := h.service.Profile(r.Context(), accountID)
	if err != nil {
		httpx.WriteError(r.Context(), w, err)
		return
	}
	httpx.OK(w, p)
}

func (h *AccountHandler) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	accountID, ok := httpx.RequireAccount(w, r)
	if !ok {
		return
	}
	var req application.UpdateProfileRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(r.Context(), w, err)
		return
	}
	a, err := h.service.UpdateProfile(r.Context(), accountID, &req)
	if err != nil {
		httpx.WriteError(r.Context(), w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, httpx.Envelope{Success: true, Data: application.ToAccountResponse(a), Message: "Perfil actualizado"})
}
