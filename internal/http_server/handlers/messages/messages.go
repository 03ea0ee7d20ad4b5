// Package messages holds the handlers for the message routes: list,
// detail, create, delete. They share one service interface, so they live in
// one package instead of one package per route.
package messages

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"club_service/internal/http_server/middleware/identity"
	resp "club_service/internal/lib/api/response"
	sl "club_service/internal/lib/logger"
	msgsvc "club_service/internal/messages"
	"club_service/internal/models"
	"club_service/internal/policy"
	"club_service/internal/storage"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
)

type Service interface {
	Create(ctx context.Context, id models.Identity, title, text string) (models.Message, error)
	List(ctx context.Context, id models.Identity, limit int) ([]msgsvc.View, error)
	Get(ctx context.Context, id models.Identity, msgID int64) (msgsvc.View, error)
	Delete(ctx context.Context, id models.Identity, msgID int64) error
}

type CreateRequest struct {
	Title string `json:"title" validate:"required,min=3,max=255"`
	Text  string `json:"text" validate:"required,min=10,max=5000"`
}

type CreateResponse struct {
	resp.Response
	MessageID int64 `json:"message_id"`
}

type ListResponse struct {
	resp.Response
	Messages []msgsvc.View `json:"messages"`
}

type DetailResponse struct {
	resp.Response
	Message msgsvc.View `json:"message"`
}

func NewList(log *slog.Logger, svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.messages.NewList"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		views, err := svc.List(r.Context(), identity.FromContext(r.Context()), 0)
		if err != nil {
			log.Error("failed to list messages", sl.Err(err))

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, resp.Error("Internal error"))

			return
		}

		render.JSON(w, r, ListResponse{
			Response: resp.OK(),
			Messages: views,
		})
	}
}

func NewDetail(log *slog.Logger, svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.messages.NewDetail"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		msgID, ok := messageID(w, r)
		if !ok {
			return
		}

		view, err := svc.Get(r.Context(), identity.FromContext(r.Context()), msgID)
		if err != nil {
			if errors.Is(err, storage.ErrMessageNotFound) {
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, resp.Error("Message not found"))

				return
			}

			log.Error("failed to get message", sl.Err(err))

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, resp.Error("Internal error"))

			return
		}

		render.JSON(w, r, DetailResponse{
			Response: resp.OK(),
			Message:  view,
		})
	}
}

func NewCreate(log *slog.Logger, validate *validator.Validate, svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.messages.NewCreate"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		var req CreateRequest

		err := render.DecodeJSON(r.Body, &req)
		if err != nil {
			log.Error("Failed to decode request body", sl.Err(err))

			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, resp.Error("Failed to decode request"))

			return
		}

		if err := validate.Struct(req); err != nil {
			validateErr := err.(validator.ValidationErrors)

			log.Error("Invalid request", sl.Err(err))

			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, resp.ValidationError(validateErr))

			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		msg, err := svc.Create(ctx, identity.FromContext(r.Context()), req.Title, req.Text)
		if err != nil {
			if errors.Is(err, policy.ErrRequiresLogin) {
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, resp.Error("You need to log in to post a message"))

				return
			}

			log.Error("failed to create message", sl.Err(err))

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, resp.Error("Internal error"))

			return
		}

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, CreateResponse{
			Response:  resp.OK(),
			MessageID: msg.ID,
		})
	}
}

func NewDelete(log *slog.Logger, svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.messages.NewDelete"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		msgID, ok := messageID(w, r)
		if !ok {
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		err := svc.Delete(ctx, identity.FromContext(r.Context()), msgID)
		if err != nil {
			switch {
			case errors.Is(err, policy.ErrRequiresAdmin):
				render.Status(r, http.StatusForbidden)
				render.JSON(w, r, resp.Error("You don't have permission to delete messages"))
			case errors.Is(err, storage.ErrMessageNotFound):
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, resp.Error("Message not found"))
			default:
				log.Error("failed to delete message", sl.Err(err))

				render.Status(r, http.StatusInternalServerError)
				render.JSON(w, r, resp.Error("Internal error"))
			}

			return
		}

		render.JSON(w, r, resp.OK())
	}
}

func messageID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, resp.Error("Message not found"))

		return 0, false
	}

	return id, true
}
