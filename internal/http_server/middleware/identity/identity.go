package identity

import (
	"context"
	"log/slog"
	"net/http"

	resp "club_service/internal/lib/api/response"
	sl "club_service/internal/lib/logger"
	"club_service/internal/models"

	"github.com/go-chi/render"
)

// CookieName carries the opaque session token.
const CookieName = "session_token"

type ctxKey struct{}

type Resolver interface {
	Resolve(ctx context.Context, token string) (models.Identity, error)
}

// New resolves the session cookie once per request and stores the identity
// in the request context. No cookie, an unknown token, or an expired one
// all produce an anonymous identity; only a storage failure aborts the
// request.
func New(log *slog.Logger, resolver Resolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := ""
			if c, err := r.Cookie(CookieName); err == nil {
				token = c.Value
			}

			id, err := resolver.Resolve(r.Context(), token)
			if err != nil {
				log.Error("failed to resolve session", sl.Err(err))

				render.Status(r, http.StatusInternalServerError)
				render.JSON(w, r, resp.Error("Internal error"))

				return
			}

			next.ServeHTTP(w, r.WithContext(
				context.WithValue(r.Context(), ctxKey{}, id),
			))
		})
	}
}

// FromContext returns the identity stowed by the middleware, anonymous when
// the middleware never ran.
func FromContext(ctx context.Context) models.Identity {
	if id, ok := ctx.Value(ctxKey{}).(models.Identity); ok {
		return id
	}
	return models.Identity{}
}

// SetCookie writes the session cookie for an established session.
func SetCookie(w http.ResponseWriter, s models.Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    s.Token,
		Path:     "/",
		Expires:  s.ExpiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearCookie expires the session cookie on logout.
func ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
