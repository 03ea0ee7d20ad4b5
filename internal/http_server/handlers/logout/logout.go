package logout

import (
	"context"
	"log/slog"
	"net/http"

	"club_service/internal/http_server/middleware/identity"
	resp "club_service/internal/lib/api/response"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
)

type SessionEnder interface {
	Logout(ctx context.Context, token string)
}

// New invalidates the session and clears the cookie. Logout is best-effort:
// it answers ok even when there was no session to remove.
func New(
	log *slog.Logger,
	sessions SessionEnder,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.logout.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		token := ""
		if c, err := r.Cookie(identity.CookieName); err == nil {
			token = c.Value
		}

		sessions.Logout(r.Context(), token)

		identity.ClearCookie(w)

		log.Info("user logged out")

		render.JSON(w, r, resp.OK())
	}
}
