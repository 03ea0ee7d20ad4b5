package admin

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"club_service/internal/http_server/middleware/identity"
	resp "club_service/internal/lib/api/response"
	sl "club_service/internal/lib/logger"
	msgsvc "club_service/internal/messages"
	"club_service/internal/models"
	"club_service/internal/policy"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
)

const recentMessages = 10

type Store interface {
	Stats(ctx context.Context) (models.Stats, error)
	AllUsers(ctx context.Context) ([]models.User, error)
}

type MessageLister interface {
	List(ctx context.Context, id models.Identity, limit int) ([]msgsvc.View, error)
}

type UserView struct {
	UserID    int64     `json:"user_id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
	IsMember  bool      `json:"is_member"`
	IsAdmin   bool      `json:"is_admin"`
	JoinedAt  time.Time `json:"joined_date"`
}

type Response struct {
	resp.Response
	Stats    models.Stats  `json:"stats"`
	Users    []UserView    `json:"users"`
	Messages []msgsvc.View `json:"messages"`
}

// New serves the admin dashboard: counters, the full user list, and the
// latest messages. Message authors still go through the regular projection,
// so an admin who is not a member sees them redacted.
func New(log *slog.Logger, store Store, msgs MessageLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.admin.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		id := identity.FromContext(r.Context())

		if err := policy.CanViewAdmin(id); err != nil {
			render.Status(r, http.StatusForbidden)
			render.JSON(w, r, resp.Error("You don't have admin privileges"))

			return
		}

		stats, err := store.Stats(r.Context())
		if err != nil {
			log.Error("failed to load stats", sl.Err(err))

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, resp.Error("Internal error"))

			return
		}

		users, err := store.AllUsers(r.Context())
		if err != nil {
			log.Error("failed to load users", sl.Err(err))

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, resp.Error("Internal error"))

			return
		}

		views, err := msgs.List(r.Context(), id, recentMessages)
		if err != nil {
			log.Error("failed to load messages", sl.Err(err))

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, resp.Error("Internal error"))

			return
		}

		userViews := make([]UserView, 0, len(users))
		for _, u := range users {
			userViews = append(userViews, UserView{
				UserID:    u.ID,
				FirstName: u.FirstName,
				LastName:  u.LastName,
				Email:     u.Email,
				IsMember:  u.IsMember,
				IsAdmin:   u.IsAdmin,
				JoinedAt:  u.JoinedAt,
			})
		}

		render.JSON(w, r, Response{
			Response: resp.OK(),
			Stats:    stats,
			Users:    userViews,
			Messages: views,
		})
	}
}
