package interfaces

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"

	"zirako/internal/pkg/auth"
	"zirako/internal/pkg/httpx"
	"zirako/internal/service/reward/application"
	"zirako/internal/service/reward/domain"
	"zirako/internal/service/reward/infrastructure"
)

func newMux(t *testing.T) (*http.ServeMux, *infrastructure.MemoryRepository) {
	t.Helper()
	repo := infrastructure.NewMemoryRepository()
	repo.Seed(5, 0, domain.TierBronze)
	svc := application.NewRewardService(repo, &infrastructure.SerialTx{}, noop.NewTracerProvider().Tracer("test"))
	mux := http.NewServeMux()
	NewImpactHandler(svc).RegisterRoutes(mux)
	return mux, repo
}

func asAccount(r *http.Request, id int64) *http.Request {
	return r.WithContext(auth.WithClaims(r.Context(), &auth.Claims{AccountID: id}))
}

func TestRecordImpact(t *testing.T) {
	mux, repo := newMux(t)

	tests := []struct {
		name    string
		body    string
		account int64
		status  int
	}{
		{"anonymous", `{"action_kind":"donation"}`, 0, http.StatusUnauthorized},
		{"unknown kind", `{"action_kind":"recycling"}`, 5, http.StatusBadRequest},
		{"client supplied points", `{"action_kind":"donation","points":9999}`, 5, http.StatusBadRequest},
		{"ok", `{"action_kind":"pickup","note":"puerta 3"}`, 5, http.StatusCreated},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/api/impact", strings.NewReader(tt.body))
			if tt.account != 0 {
				r = asAccount(r, tt.account)
			}
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, r)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
		})
	}

	points, err := repo.GetPoints(t.Context(), 5)
	require.NoError(t, err)
	assert.Equal(t, int64(20), points)
}

func TestImpactSummary(t *testing.T) {
	mux, _ := newMux(t)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, asAccount(httptest.NewRequest(http.MethodPost, "/api/impact", strings.NewReader(`{"action_kind":"exchange"}`)), 5))
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, asAccount(httptest.NewRequest(http.MethodGet, "/api/impact", nil), 5))
	require.Equal(t, http.StatusOK, rec.Code)

	var env struct {
		httpx.Envelope
		Data domain.Summary `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.True(t, env.Success)
	assert.Equal(t, int64(30), env.Data.Points)
	assert.Equal(t, "2", env.Data.TotalCo2Kg.String())
	assert.Equal(t, int64(17), env.Data.Equivalences.KmDriven)
}
