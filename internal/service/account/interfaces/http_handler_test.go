package interfaces

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"

	"zirako/internal/pkg/auth"
	"zirako/internal/service/account/application"
	"zirako/internal/service/account/domain"
	"zirako/internal/service/account/infrastructure"
	rewardapp "zirako/internal/service/reward/application"
	rewarddomain "zirako/internal/service/reward/domain"
	rewardinfra "zirako/internal/service/reward/infrastructure"
)

type discardNotifier struct{}

func (discardNotifier) Welcome(_ context.Context, _ *domain.Account) error     { return nil }
func (discardNotifier) VerifyEmail(_ context.Context, _ *domain.Account) error { return nil }
func (discardNotifier) PasswordReset(_ context.Context, _ *domain.Account, _ string) error {
	return nil
}

func newMux(t *testing.T) (*http.ServeMux, *rewardinfra.MemoryRepository) {
	t.Helper()
	tracer := noop.NewTracerProvider().Tracer("test")
	rewards := rewardinfra.NewMemoryRepository()
	tx := &rewardinfra.SerialTx{}
	svc := application.NewAccountService(
		infrastructure.NewMemoryRepository(),
		rewardapp.NewRewardService(rewards, tx, tracer),
		discardNotifier{},
		auth.NewIssuer("test-secret", time.Hour),
		tx, tracer,
	)
	mux := http.NewServeMux()
	NewAccountHandler(svc, time.Hour).RegisterRoutes(mux)
	return mux, rewards
}

func do(mux *http.ServeMux, method, path, body string, account int64) *httptest.ResponseRecorder {
	r := httptest.NewRequest(method, path, strings.NewReader(body))
	if account != 0 {
		r = r.WithContext(auth.WithClaims(r.Context(), &auth.Claims{AccountID: account}))
	}
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, r)
	return rec
}

const ana = `{"email":"ana@example.com","password":"secreto1","name":"Ana"}`

func TestAuthFlow(t *testing.T) {
	mux, rewards := newMux(t)

	assert.Equal(t, http.StatusBadRequest, do(mux, http.MethodPost, "/api/auth/register", `{"email":"x"}`, 0).Code)

	rec := do(mux, http.MethodPost, "/api/auth/register", ana, 0)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.NotContains(t, rec.Body.String(), "password")
	assert.Equal(t, http.StatusConflict, do(mux, http.MethodPost, "/api/auth/register", ana, 0).Code)

	rec = do(mux, http.MethodPost, "/api/auth/login", `{"email":"ana@example.com","password":"malamala"}`, 0)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(mux, http.MethodPost, "/api/auth/login", `{"email":"ana@example.com","password":"secreto1"}`, 0)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var env struct {
		Data application.LoginResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.NotEmpty(t, env.Data.Token)
	assert.Equal(t, "ana@example.com", env.Data.Account.Email)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, auth.CookieName, cookies[0].Name)
	assert.Equal(t, env.Data.Token, cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)

	rec = do(mux, http.MethodPost, "/api/auth/logout", "", 0)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, -1, rec.Result().Cookies()[0].MaxAge)

	id := env.Data.Account.ID
	rewards.Seed(id, 0, rewarddomain.TierBronze)
	assert.Equal(t, http.StatusUnauthorized, do(mux, http.MethodGet, "/api/profile", "", 0).Code)
	assert.Equal(t, http.StatusOK, do(mux, http.MethodGet, "/api/profile", "", id).Code)

	rec = do(mux, http.MethodPut, "/api/profile", `{"city":"Palmira"}`, id)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), "Palmira")
}

func TestVerifyAndForgotPassword(t *testing.T) {
	mux, _ := newMux(t)

	assert.Equal(t, http.StatusBadRequest, do(mux, http.MethodGet, "/api/auth/verify", "", 0).Code)
	assert.Equal(t, http.StatusBadRequest, do(mux, http.MethodGet, "/api/auth/verify?token=nope", "", 0).Code)

	rec := do(mux, http.MethodPost, "/api/auth/forgot-password", `{"email":"nadie@example.com"}`, 0)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Si el correo existe")
}
