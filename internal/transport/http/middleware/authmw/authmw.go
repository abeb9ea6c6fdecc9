package authmw

import (
	"context"
	"net/http"

	"github.com/dineeasy/order-svc/internal/auth"
)

type ctxKey struct{}

// Require returns middleware that only admits requests carrying a valid
// session cookie for the given role. Verified claims are stored on the
// request context.
func Require(tm *auth.TokenManager, role auth.Role) func(http.Handler) http.Handler {
	cookieName := auth.CustomerCookie
	if role == auth.RoleStaff {
		cookieName = auth.StaffCookie
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(cookieName)
			if err != nil {
				http.Error(w, "authentication required", http.StatusUnauthorized)

				return
			}

			claims, err := tm.Verify(cookie.Value, role)
			if err != nil {
				http.Error(w, "invalid session", http.StatusUnauthorized)

				return
			}

			ctx := context.WithValue(r.Context(), ctxKey{}, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ClaimsFromContext returns the verified claims stored by Require.
func ClaimsFromContext(ctx context.Context) (*auth.Claims, bool) {
	claims, ok := ctx.Value(ctxKey{}).(*auth.Claims)

	return claims, ok
}
