package login

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"club_service/internal/auth"
	"club_service/internal/http_server/middleware/identity"
	resp "club_service/internal/lib/api/response"
	sl "club_service/internal/lib/logger"
	"club_service/internal/models"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
)

type Request struct {
	Email string `json:"email" validate:"required,email"`
	Pass  string `json:"password" validate:"required"`
}

type Response struct {
	resp.Response
	UserID   int64 `json:"user_id"`
	IsMember bool  `json:"is_member"`
	IsAdmin  bool  `json:"is_admin"`
}

type Authenticator interface {
	Authenticate(ctx context.Context, email, password string) (models.User, models.Session, error)
}

func New(
	log *slog.Logger,
	validate *validator.Validate,
	authenticator Authenticator,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.login.New"

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

		log.Info("Request body decoded")

		if err := validate.Struct(req); err != nil {
			validateErr := err.(validator.ValidationErrors)

			log.Error("Invalid request", sl.Err(err))

			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, resp.ValidationError(validateErr))

			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		user, sess, err := authenticator.Authenticate(ctx, req.Email, req.Pass)
		if err != nil {
			if errors.Is(err, auth.ErrInvalidCredentials) {
				// same answer for unknown email and wrong password
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, resp.Error("Invalid email or password"))

				return
			}

			log.Error("failed to login user", sl.Err(err))

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, resp.Error("Internal error"))

			return
		}

		log.Info("User logged in successfully")

		identity.SetCookie(w, sess)

		render.JSON(w, r, Response{
			Response: resp.OK(),
			UserID:   user.ID,
			IsMember: user.IsMember,
			IsAdmin:  user.IsAdmin,
		})
	}
}
