// internal/pkg/auth/middleware.go
package auth

import (
	"context"
	"net/http"
	"strings"
)

// CookieName 是浏览器端保存令牌的 cookie 名
const CookieName = "auth-token"

type claimsKey struct{}

// Authenticate 解析 Authorization 头或 cookie 中的令牌；
// 令牌缺失或无效时不拦截请求，由具体路由决定是否需要登录。
func Authenticate(issuer *Issuer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := tokenFromRequest(r)
			if token != "" {
				if claims, err := issuer.Parse(token); err == nil {
					r = r.WithContext(WithClaims(r.Context(), claims))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

func tokenFromRequest(r *http.Request) string {
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	if c, err := r.Cookie(CookieName); err == nil {
		return c.Value
	}
	if t := r.URL.Query().Get("token"); t != "" {
		return t
	}
	return ""
}

// WithClaims 把登录信息放入 context
func WithClaims(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, claimsKey{}, claims)
}

// FromContext 取出当前登录信息
func FromContext(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(claimsKey{}).(*Claims)
	return claims, ok
}

// AccountID 返回当前登录账户 ID，未登录时为 0
func AccountID(ctx context.Context) int64 {
	if claims, ok := FromContext(ctx); ok {
		return claims.AccountID
	}
	return 0
}
