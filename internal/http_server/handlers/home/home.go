package home

import (
	"context"
	"log/slog"
	"net/http"

	"club_service/internal/http_server/middleware/identity"
	resp "club_service/internal/lib/api/response"
	sl "club_service/internal/lib/logger"
	msgsvc "club_service/internal/messages"
	"club_service/internal/models"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
)

const latestMessages = 10

type StatsProvider interface {
	Stats(ctx context.Context) (models.Stats, error)
}

type MessageLister interface {
	List(ctx context.Context, id models.Identity, limit int) ([]msgsvc.View, error)
}

type Response struct {
	resp.Response
	Stats    models.Stats  `json:"stats"`
	Messages []msgsvc.View `json:"messages"`
}

func New(log *slog.Logger, stats StatsProvider, msgs MessageLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.home.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		s, err := stats.Stats(r.Context())
		if err != nil {
			log.Error("failed to load stats", sl.Err(err))

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, resp.Error("Internal error"))

			return
		}

		views, err := msgs.List(r.Context(), identity.FromContext(r.Context()), latestMessages)
		if err != nil {
			log.Error("failed to load messages", sl.Err(err))

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, resp.Error("Internal error"))

			return
		}

		render.JSON(w, r, Response{
			Response: resp.OK(),
			Stats:    s,
			Messages: views,
		})
	}
}
