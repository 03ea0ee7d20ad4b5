package joinclub

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"club_service/internal/http_server/middleware/identity"
	resp "club_service/internal/lib/api/response"
	sl "club_service/internal/lib/logger"
	"club_service/internal/membership"
	"club_service/internal/models"
	"club_service/internal/policy"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
)

type Request struct {
	Passcode string `json:"passcode" validate:"required,min=3,max=50"`
}

type Joiner interface {
	Join(ctx context.Context, id models.Identity, passcode string) error
}

func New(
	log *slog.Logger,
	validate *validator.Validate,
	joiner Joiner,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.joinclub.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		var req Request

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

		id := identity.FromContext(r.Context())

		if err := joiner.Join(ctx, id, req.Passcode); err != nil {
			switch {
			case errors.Is(err, policy.ErrRequiresLogin):
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, resp.Error("You need to log in to join the club"))
			case errors.Is(err, membership.ErrWrongPasscode):
				render.Status(r, http.StatusForbidden)
				render.JSON(w, r, resp.Error("Incorrect passcode"))
			default:
				log.Error("failed to join club", sl.Err(err))

				render.Status(r, http.StatusInternalServerError)
				render.JSON(w, r, resp.Error("Internal error"))
			}

			return
		}

		// covers both a fresh join and the already-member no-op
		render.JSON(w, r, resp.OK())
	}
}
