package signup

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"club_service/internal/auth"
	resp "club_service/internal/lib/api/response"
	sl "club_service/internal/lib/logger"
	"club_service/internal/models"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
)

// Field order here is load-bearing: when several fields are invalid at once
// the first failing rule in this order is the one the user sees.
type Request struct {
	FirstName       string `json:"first_name" validate:"required,min=2,max=100,personname"`
	LastName        string `json:"last_name" validate:"required,min=2,max=100,personname"`
	Email           string `json:"email" validate:"required,email,max=255"`
	Password        string `json:"password" validate:"required,min=6,userpassword"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=Password"`
}

type Response struct {
	resp.Response
	UserID int64 `json:"user_id"`
}

type UserRegistrar interface {
	Signup(ctx context.Context, req auth.SignupRequest) (models.User, error)
}

func New(
	log *slog.Logger,
	validate *validator.Validate,
	registrar UserRegistrar,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.signup.New"

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

		user, err := registrar.Signup(ctx, auth.SignupRequest{
			FirstName: req.FirstName,
			LastName:  req.LastName,
			Email:     req.Email,
			Password:  req.Password,
		})
		if err != nil {
			if errors.Is(err, auth.ErrEmailTaken) {
				render.Status(r, http.StatusConflict)
				render.JSON(w, r, resp.Error("Email already registered"))

				return
			}

			log.Error("failed to register user", sl.Err(err))

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, resp.Error("Internal error"))

			return
		}

		log.Info("User registered", slog.Int64("id", user.ID))

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, Response{
			Response: resp.OK(),
			UserID:   user.ID,
		})
	}
}
