package profile

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"club_service/internal/http_server/middleware/identity"
	resp "club_service/internal/lib/api/response"
	sl "club_service/internal/lib/logger"
	"club_service/internal/models"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
)

type MessageLister interface {
	ByAuthor(ctx context.Context, userID int64) ([]models.Message, error)
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

type MessageView struct {
	MessageID int64     `json:"message_id"`
	Title     string    `json:"title"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

type Response struct {
	resp.Response
	User         UserView      `json:"user"`
	Messages     []MessageView `json:"messages"`
	MessageCount int           `json:"message_count"`
}

func New(log *slog.Logger, msgs MessageLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.profile.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		id := identity.FromContext(r.Context())
		if id.Anonymous() {
			render.Status(r, http.StatusUnauthorized)
			render.JSON(w, r, resp.Error("You need to log in to view your profile"))

			return
		}

		own, err := msgs.ByAuthor(r.Context(), id.User.ID)
		if err != nil {
			log.Error("failed to load profile messages", sl.Err(err))

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, resp.Error("Internal error"))

			return
		}

		views := make([]MessageView, 0, len(own))
		for _, m := range own {
			views = append(views, MessageView{
				MessageID: m.ID,
				Title:     m.Title,
				Text:      m.Text,
				CreatedAt: m.CreatedAt,
			})
		}

		render.JSON(w, r, Response{
			Response: resp.OK(),
			User: UserView{
				UserID:    id.User.ID,
				FirstName: id.User.FirstName,
				LastName:  id.User.LastName,
				Email:     id.User.Email,
				IsMember:  id.User.IsMember,
				IsAdmin:   id.User.IsAdmin,
				JoinedAt:  id.User.JoinedAt,
			},
			Messages:     views,
			MessageCount: len(views),
		})
	}
}
