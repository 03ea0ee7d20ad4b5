package membership

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"club_service/internal/models"
	"club_service/internal/policy"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUpdater struct {
	calls  int
	lastID int64
	last   bool
	err    error
}

func (f *fakeUpdater) SetMembership(_ context.Context, userID int64, isMember bool) error {
	if f.err != nil {
		return f.err
	}
	f.calls++
	f.lastID = userID
	f.last = isMember
	return nil
}

func newService(u *fakeUpdater) *Service {
	return New(slog.New(slog.NewTextHandler(io.Discard, nil)), u, "secret123")
}

func TestJoinWithCorrectPasscode(t *testing.T) {
	u := &fakeUpdater{}
	s := newService(u)

	id := models.Identity{User: &models.User{ID: 7}}

	require.NoError(t, s.Join(context.Background(), id, "secret123"))
	assert.Equal(t, 1, u.calls)
	assert.Equal(t, int64(7), u.lastID)
	assert.True(t, u.last)
}

func TestJoinAlreadyMemberIsNoOp(t *testing.T) {
	u := &fakeUpdater{}
	s := newService(u)

	id := models.Identity{User: &models.User{ID: 7, IsMember: true}}

	require.NoError(t, s.Join(context.Background(), id, "secret123"))
	assert.Zero(t, u.calls, "repeat join must not touch storage")

	// even a wrong passcode is a no-op success for a member
	require.NoError(t, s.Join(context.Background(), id, "nope"))
	assert.Zero(t, u.calls)
}

func TestJoinWrongPasscode(t *testing.T) {
	u := &fakeUpdater{}
	s := newService(u)

	id := models.Identity{User: &models.User{ID: 7}}

	err := s.Join(context.Background(), id, "letmein")
	require.ErrorIs(t, err, ErrWrongPasscode)
	assert.Zero(t, u.calls)
}

func TestJoinAnonymous(t *testing.T) {
	u := &fakeUpdater{}
	s := newService(u)

	err := s.Join(context.Background(), models.Identity{}, "secret123")
	require.ErrorIs(t, err, policy.ErrRequiresLogin)
	assert.Zero(t, u.calls)
}
