package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndParse(t *testing.T) {
	iss := NewIssuer("secret", time.Hour)

	token, err := iss.Issue(42, "ana@example.com", "Ana")
	require.NoError(t, err)

	claims, err := iss.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.AccountID)
	assert.Equal(t, "ana@example.com", claims.Email)
	assert.Equal(t, "42", claims.Subject)
}

func TestParseRejectsForeignAndExpiredTokens(t *testing.T) {
	iss := NewIssuer("secret", time.Hour)
	token, err := iss.Issue(1, "a@b.co", "A")
	require.NoError(t, err)

	_, err = NewIssuer("other", time.Hour).Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	later := NewIssuer("secret", time.Hour)
	later.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = later.Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = iss.Parse("not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("s3creto")
	require.NoError(t, err)

	assert.True(t, CheckPassword(hash, "s3creto"))
	assert.False(t, CheckPassword(hash, "otra"))
}

func TestAuthenticateMiddleware(t *testing.T) {
	iss := NewIssuer("secret", time.Hour)
	token, err := iss.Issue(7, "b@c.co", "B")
	require.NoError(t, err)

	var seen int64
	h := Authenticate(iss)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = AccountID(r.Context())
	}))

	tests := []struct {
		name  string
		setup func(r *http.Request)
		want  int64
	}{
		{"bearer", func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+token) }, 7},
		{"cookie", func(r *http.Request) { r.AddCookie(&http.Cookie{Name: CookieName, Value: token}) }, 7},
		{"anonymous", func(r *http.Request) {}, 0},
		{"garbage", func(r *http.Request) { r.Header.Set("Authorization", "Bearer nope") }, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seen = -1
			r := httptest.NewRequest(http.MethodGet, "/api/profile", nil)
			tt.setup(r)
			h.ServeHTTP(httptest.NewRecorder(), r)
			assert.Equal(t, tt.want, seen)
		})
	}
}
