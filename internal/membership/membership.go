package membership

import (
	"context"
	"crypto/subtle"
	"errors"
	"log/slog"

	sl "club_service/internal/lib/logger"
	"club_service/internal/models"
	"club_service/internal/policy"
)

var ErrWrongPasscode = errors.New("wrong passcode")

type MemberUpdater interface {
	SetMembership(ctx context.Context, userID int64, isMember bool) error
}

type Service struct {
	log      *slog.Logger
	users    MemberUpdater
	passcode string
}

func New(log *slog.Logger, users MemberUpdater, passcode string) *Service {
	return &Service{
		log:      log,
		users:    users,
		passcode: passcode,
	}
}

// Join flips is_member on a correct passcode. A repeat attempt by someone
// who already joined is a no-op success, not an error.
func (s *Service) Join(ctx context.Context, id models.Identity, passcode string) error {
	const op = "membership.Join"

	log := s.log.With(slog.String("op", op))

	if err := policy.CanJoinClub(id); err != nil {
		if errors.Is(err, policy.ErrAlreadyMember) {
			return nil
		}
		return err
	}

	if subtle.ConstantTimeCompare([]byte(passcode), []byte(s.passcode)) != 1 {
		log.Info("wrong passcode", slog.Int64("uid", id.User.ID))
		return ErrWrongPasscode
	}

	if err := s.users.SetMembership(ctx, id.User.ID, true); err != nil {
		log.Error("failed to update membership", sl.Err(err))
		return err
	}

	log.Info("user joined the club", slog.Int64("uid", id.User.ID))

	return nil
}
