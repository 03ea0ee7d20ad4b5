package messages

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"club_service/internal/models"
	"club_service/internal/policy"
	"club_service/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	nextID int64
	msgs   map[int64]models.MessageWithAuthor
}

func newFakeStore() *fakeStore {
	return &fakeStore{msgs: make(map[int64]models.MessageWithAuthor)}
}

func (f *fakeStore) add(title, text string, userID int64, first, last, email string) int64 {
	f.nextID++
	f.msgs[f.nextID] = models.MessageWithAuthor{
		Message: models.Message{
			ID:        f.nextID,
			Title:     title,
			Text:      text,
			UserID:    userID,
			CreatedAt: time.Now(),
		},
		AuthorFirstName: first,
		AuthorLastName:  last,
		AuthorEmail:     email,
	}
	return f.nextID
}

func (f *fakeStore) CreateMessage(_ context.Context, title, text string, userID int64) (models.Message, error) {
	id := f.add(title, text, userID, "", "", "")
	return f.msgs[id].Message, nil
}

func (f *fakeStore) MessageByID(_ context.Context, id int64) (models.MessageWithAuthor, error) {
	m, ok := f.msgs[id]
	if !ok {
		return models.MessageWithAuthor{}, storage.ErrMessageNotFound
	}
	return m, nil
}

func (f *fakeStore) Messages(_ context.Context, limit int) ([]models.MessageWithAuthor, error) {
	var out []models.MessageWithAuthor
	for _, m := range f.msgs {
		out = append(out, m)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (f *fakeStore) MessagesByUser(_ context.Context, userID int64) ([]models.Message, error) {
	var out []models.Message
	for _, m := range f.msgs {
		if m.UserID == userID {
			out = append(out, m.Message)
		}
	}
	return out, nil
}

func (f *fakeStore) DeleteMessage(_ context.Context, id int64) error {
	if _, ok := f.msgs[id]; !ok {
		return storage.ErrMessageNotFound
	}
	delete(f.msgs, id)
	return nil
}

func newTestService(st *fakeStore) *Service {
	return New(slog.New(slog.NewTextHandler(io.Discard, nil)), st)
}

var (
	anonymous = models.Identity{}
	regular   = models.Identity{User: &models.User{ID: 1}}
	member    = models.Identity{User: &models.User{ID: 2, IsMember: true}}
	admin     = models.Identity{User: &models.User{ID: 3, IsAdmin: true}}
)

func TestListRedaction(t *testing.T) {
	st := newFakeStore()
	st.add("Hello there", "a long enough body", 1, "Ada", "Lovelace", "ada@x.com")
	svc := newTestService(st)
	ctx := context.Background()

	tests := []struct {
		name       string
		id         models.Identity
		wantAuthor bool
	}{
		{"anonymous", anonymous, false},
		{"non-member", regular, false},
		{"member", member, true},
		{"admin without membership", admin, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			views, err := svc.List(ctx, tt.id, 0)
			require.NoError(t, err)
			require.Len(t, views, 1)

			if tt.wantAuthor {
				require.NotNil(t, views[0].Author)
				assert.Equal(t, "ada@x.com", views[0].Author.Email)
			} else {
				assert.Nil(t, views[0].Author)
			}
		})
	}
}

func TestGetRedaction(t *testing.T) {
	st := newFakeStore()
	msgID := st.add("Hello there", "a long enough body", 1, "Ada", "Lovelace", "ada@x.com")
	svc := newTestService(st)
	ctx := context.Background()

	view, err := svc.Get(ctx, member, msgID)
	require.NoError(t, err)
	require.NotNil(t, view.Author)
	assert.Equal(t, int64(1), view.Author.UserID)

	view, err = svc.Get(ctx, anonymous, msgID)
	require.NoError(t, err)
	assert.Nil(t, view.Author)
}

func TestGetNotFound(t *testing.T) {
	svc := newTestService(newFakeStore())

	_, err := svc.Get(context.Background(), member, 42)
	require.ErrorIs(t, err, storage.ErrMessageNotFound)
}

func TestCreateRequiresLogin(t *testing.T) {
	st := newFakeStore()
	svc := newTestService(st)

	_, err := svc.Create(context.Background(), anonymous, "Hello there", "a long enough body")
	require.ErrorIs(t, err, policy.ErrRequiresLogin)
	assert.Empty(t, st.msgs)
}

func TestCreateByMemberAndNonMember(t *testing.T) {
	st := newFakeStore()
	svc := newTestService(st)
	ctx := context.Background()

	msg, err := svc.Create(ctx, regular, "Hello there", "a long enough body")
	require.NoError(t, err)
	assert.Equal(t, regular.User.ID, msg.UserID)

	_, err = svc.Create(ctx, member, "Another one", "another long enough body")
	require.NoError(t, err)
	assert.Len(t, st.msgs, 2)
}

func TestDeleteRequiresAdmin(t *testing.T) {
	st := newFakeStore()
	msgID := st.add("Hello there", "a long enough body", 1, "Ada", "Lovelace", "ada@x.com")
	svc := newTestService(st)
	ctx := context.Background()

	for _, id := range []models.Identity{anonymous, regular, member} {
		err := svc.Delete(ctx, id, msgID)
		require.ErrorIs(t, err, policy.ErrRequiresAdmin)
		assert.Contains(t, st.msgs, msgID, "denied delete must leave the message in storage")
	}

	require.NoError(t, svc.Delete(ctx, admin, msgID))
	assert.NotContains(t, st.msgs, msgID)
}

func TestDeleteNotFound(t *testing.T) {
	svc := newTestService(newFakeStore())

	err := svc.Delete(context.Background(), admin, 42)
	require.ErrorIs(t, err, storage.ErrMessageNotFound)
}
