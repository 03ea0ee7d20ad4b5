package messages

import (
	"context"
	"log/slog"
	"time"

	sl "club_service/internal/lib/logger"
	"club_service/internal/models"
	"club_service/internal/policy"
)

type Store interface {
	CreateMessage(ctx context.Context, title, text string, userID int64) (models.Message, error)
	MessageByID(ctx context.Context, id int64) (models.MessageWithAuthor, error)
	Messages(ctx context.Context, limit int) ([]models.MessageWithAuthor, error)
	MessagesByUser(ctx context.Context, userID int64) ([]models.Message, error)
	DeleteMessage(ctx context.Context, id int64) error
}

type Service struct {
	log   *slog.Logger
	store Store
}

func New(log *slog.Logger, store Store) *Service {
	return &Service{
		log:   log,
		store: store,
	}
}

// View is the message representation handed to rendering. Author is nil for
// non-member viewers; the redacted fields never leave the service.
type View struct {
	ID        int64     `json:"message_id"`
	Title     string    `json:"title"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
	Author    *Author   `json:"author,omitempty"`
}

type Author struct {
	UserID    int64  `json:"user_id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
}

func project(m models.MessageWithAuthor, withAuthor bool) View {
	v := View{
		ID:        m.ID,
		Title:     m.Title,
		Text:      m.Text,
		CreatedAt: m.CreatedAt,
	}
	if withAuthor {
		v.Author = &Author{
			UserID:    m.UserID,
			FirstName: m.AuthorFirstName,
			LastName:  m.AuthorLastName,
			Email:     m.AuthorEmail,
		}
	}
	return v
}

func (s *Service) Create(ctx context.Context, id models.Identity, title, text string) (models.Message, error) {
	const op = "messages.Create"

	if err := policy.CanCreateMessage(id); err != nil {
		return models.Message{}, err
	}

	msg, err := s.store.CreateMessage(ctx, title, text, id.User.ID)
	if err != nil {
		s.log.With(slog.String("op", op)).Error("failed to create message", sl.Err(err))
		return models.Message{}, err
	}

	s.log.With(slog.String("op", op)).Info("message created",
		slog.Int64("message_id", msg.ID),
		slog.Int64("uid", id.User.ID),
	)

	return msg, nil
}

// List returns newest-first messages projected for the given identity.
// limit <= 0 returns all of them.
func (s *Service) List(ctx context.Context, id models.Identity, limit int) ([]View, error) {
	msgs, err := s.store.Messages(ctx, limit)
	if err != nil {
		return nil, err
	}

	withAuthor := policy.CanSeeAuthors(id)

	views := make([]View, 0, len(msgs))
	for _, m := range msgs {
		views = append(views, project(m, withAuthor))
	}

	return views, nil
}

func (s *Service) Get(ctx context.Context, id models.Identity, msgID int64) (View, error) {
	m, err := s.store.MessageByID(ctx, msgID)
	if err != nil {
		return View{}, err
	}

	return project(m, policy.CanSeeAuthors(id)), nil
}

// Delete removes a message, admins only. The policy check runs before any
// storage access, so a denied attempt cannot touch the row.
func (s *Service) Delete(ctx context.Context, id models.Identity, msgID int64) error {
	const op = "messages.Delete"

	if err := policy.CanDeleteMessage(id); err != nil {
		return err
	}

	if err := s.store.DeleteMessage(ctx, msgID); err != nil {
		return err
	}

	s.log.With(slog.String("op", op)).Info("message deleted",
		slog.Int64("message_id", msgID),
		slog.Int64("uid", id.User.ID),
	)

	return nil
}

// ByAuthor lists a user's own messages for the profile page.
func (s *Service) ByAuthor(ctx context.Context, userID int64) ([]models.Message, error) {
	return s.store.MessagesByUser(ctx, userID)
}
