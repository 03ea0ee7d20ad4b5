package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	sl "club_service/internal/lib/logger"
	"club_service/internal/models"
	"club_service/internal/storage"

	"golang.org/x/crypto/bcrypt"
)

type SignupRequest struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
}

// Signup creates a non-member user. The raw password is hashed before it
// reaches storage and never logged. Admin privilege is granted only when
// the normalized email matches the configured bootstrap admin address;
// there is no way to request it through the signup payload.
func (a *Auth) Signup(ctx context.Context, req SignupRequest) (models.User, error) {
	const op = "auth.Signup"

	log := a.log.With(slog.String("op", op))

	email := NormalizeEmail(req.Email)

	passHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Error("failed to generate password hash", sl.Err(err))
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	isAdmin := a.bootstrapAdmin != "" && email == a.bootstrapAdmin

	user, err := a.usrSaver.CreateUser(ctx, req.FirstName, req.LastName, email, passHash, isAdmin)
	if err != nil {
		if errors.Is(err, storage.ErrUserExists) {
			log.Warn("email already registered")
			return models.User{}, fmt.Errorf("%s: %w", op, ErrEmailTaken)
		}

		log.Error("failed to save user", sl.Err(err))
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("user registered", slog.Int64("uid", user.ID))

	return user, nil
}
