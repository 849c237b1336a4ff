package http

import (
	"net/http"
	"strings"

	"github.com/nimbuzyn/nimbuzyn/pkg/httpx"
)

// sessionMiddleware authenticates requests via the Bearer session token and
// stores the resolved user id on the request context.
func (r *Router) sessionMiddleware() httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			token, ok := bearerToken(req)
			if !ok {
				httpx.WriteError(w, http.StatusUnauthorized, "unauthorized", "missing bearer token")
				return
			}

			user, err := r.Sessions.Resolve(req.Context(), token)
			if err != nil {
				httpx.WriteError(w, http.StatusUnauthorized, "unauthorized", "invalid or expired session")
				return
			}

			ctx := httpx.ContextWithUserID(req.Context(), user.ID)
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	const prefix = "Bearer "
	h := r.Header.Get("Authorization")
	if len(h) <= len(prefix) || !strings.EqualFold(h[:len(prefix)], prefix) {
		return "", false
	}
	return strings.TrimSpace(h[len(prefix):]), true
}
