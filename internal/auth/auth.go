package auth

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	sl "club_service/internal/lib/logger"
	"club_service/internal/models"
	"club_service/internal/storage"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email already taken")
)

type Auth struct {
	log            *slog.Logger
	usrSaver       UserSaver
	usrProvider    UserProvider
	sessions       SessionStore
	sessionTTL     time.Duration
	bootstrapAdmin string
}

type UserSaver interface {
	CreateUser(ctx context.Context, firstName, lastName, email string, passHash []byte, isAdmin bool) (models.User, error)
}

type UserProvider interface {
	UserByEmail(ctx context.Context, email string) (models.User, error)
	UserByID(ctx context.Context, id int64) (models.User, error)
}

type SessionStore interface {
	CreateSession(ctx context.Context, s models.Session) error
	SessionByToken(ctx context.Context, token string) (models.Session, error)
	DeleteSession(ctx context.Context, token string) error
	DeleteExpiredSessions(ctx context.Context) (int64, error)
}

func New(
	log *slog.Logger,
	userSaver UserSaver,
	userProvider UserProvider,
	sessions SessionStore,
	sessionTTL time.Duration,
	bootstrapAdmin string,
) *Auth {
	return &Auth{
		log:            log,
		usrSaver:       userSaver,
		usrProvider:    userProvider,
		sessions:       sessions,
		sessionTTL:     sessionTTL,
		bootstrapAdmin: NormalizeEmail(bootstrapAdmin),
	}
}

// NormalizeEmail is applied before every storage lookup and write, so the
// unique-email constraint always sees the same spelling.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// * Authenticate проверяет учетные данные и открывает новую сессию.
//
// Unknown email and wrong password both come back as ErrInvalidCredentials;
// only the internal log lines differ. Exactly one session is created per
// successful call and none on rejection.
func (a *Auth) Authenticate(ctx context.Context, email, password string) (models.User, models.Session, error) {
	const op = "auth.Authenticate"

	log := a.log.With(slog.String("op", op))

	user, err := a.usrProvider.UserByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			log.Warn("unknown email")
			return models.User{}, models.Session{}, ErrInvalidCredentials
		}

		log.Error("failed to get user", sl.Err(err))
		return models.User{}, models.Session{}, err
	}

	if err := bcrypt.CompareHashAndPassword(user.PassHash, []byte(password)); err != nil {
		log.Info("password mismatch", slog.Int64("uid", user.ID))
		return models.User{}, models.Session{}, ErrInvalidCredentials
	}

	token, err := newSessionToken()
	if err != nil {
		log.Error("failed to generate session token", sl.Err(err))
		return models.User{}, models.Session{}, err
	}

	sess := models.Session{
		Token:     token,
		UserID:    user.ID,
		ExpiresAt: time.Now().Add(a.sessionTTL),
	}

	if err := a.sessions.CreateSession(ctx, sess); err != nil {
		log.Error("failed to save session", sl.Err(err))
		return models.User{}, models.Session{}, err
	}

	log.Info("user logged in successfully", slog.Int64("uid", user.ID))

	return user, sess, nil
}

// Resolve maps a session token to an identity. Missing, expired, and
// orphaned sessions all come back anonymous; an expired row is deleted
// best-effort on the way out. The error return is reserved for storage
// failures.
func (a *Auth) Resolve(ctx context.Context, token string) (models.Identity, error) {
	const op = "auth.Resolve"

	log := a.log.With(slog.String("op", op))

	if token == "" {
		return models.Identity{}, nil
	}

	sess, err := a.sessions.SessionByToken(ctx, token)
	if err != nil {
		if errors.Is(err, storage.ErrSessionNotFound) {
			return models.Identity{}, nil
		}

		log.Error("failed to get session", sl.Err(err))
		return models.Identity{}, err
	}

	if sess.Expired(time.Now()) {
		if err := a.sessions.DeleteSession(ctx, token); err != nil {
			log.Warn("failed to delete expired session", sl.Err(err))
		}
		return models.Identity{}, nil
	}

	user, err := a.usrProvider.UserByID(ctx, sess.UserID)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			// orphaned session
			return models.Identity{}, nil
		}

		log.Error("failed to load session user", sl.Err(err))
		return models.Identity{}, err
	}

	return models.Identity{User: &user}, nil
}

// Logout is best-effort: the caller-visible flow never fails even when the
// underlying delete does.
func (a *Auth) Logout(ctx context.Context, token string) {
	const op = "auth.Logout"

	log := a.log.With(slog.String("op", op))

	if token == "" {
		return
	}

	if err := a.sessions.DeleteSession(ctx, token); err != nil {
		log.Warn("failed to delete session", sl.Err(err))
		return
	}

	log.Info("user logged out successfully")
}

// ReapExpiredSessions deletes expired session rows on a fixed interval
// until ctx is cancelled. Correctness never depends on it: Resolve treats
// expired rows as anonymous regardless; this only reclaims storage.
func (a *Auth) ReapExpiredSessions(ctx context.Context, interval time.Duration) {
	const op = "auth.ReapExpiredSessions"

	log := a.log.With(slog.String("op", op))

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := a.sessions.DeleteExpiredSessions(ctx)
			if err != nil {
				log.Warn("failed to reap sessions", sl.Err(err))
				continue
			}
			if n > 0 {
				log.Info("reaped expired sessions", slog.Int64("count", n))
			}
		}
	}
}
