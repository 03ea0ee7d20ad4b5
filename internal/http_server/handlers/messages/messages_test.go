package messages

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	resp "club_service/internal/lib/api/response"
	msgsvc "club_service/internal/messages"
	"club_service/internal/models"
	"club_service/internal/policy"
	"club_service/internal/storage"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeService struct {
	views     []msgsvc.View
	deleteErr error
	deleted   []int64
}

func (f *fakeService) Create(_ context.Context, id models.Identity, title, text string) (models.Message, error) {
	if err := policy.CanCreateMessage(id); err != nil {
		return models.Message{}, err
	}
	return models.Message{ID: 1, Title: title, Text: text, UserID: id.User.ID}, nil
}

func (f *fakeService) List(_ context.Context, _ models.Identity, _ int) ([]msgsvc.View, error) {
	return f.views, nil
}

func (f *fakeService) Get(_ context.Context, _ models.Identity, msgID int64) (msgsvc.View, error) {
	for _, v := range f.views {
		if v.ID == msgID {
			return v, nil
		}
	}
	return msgsvc.View{}, storage.ErrMessageNotFound
}

func (f *fakeService) Delete(_ context.Context, _ models.Identity, msgID int64) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, msgID)
	return nil
}

func newRouter(f *fakeService) *chi.Mux {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	r := chi.NewRouter()
	r.Get("/messages", NewList(log, f))
	r.Get("/messages/{id}", NewDetail(log, f))
	r.Post("/messages/{id}/delete", NewDelete(log, f))

	return r
}

func TestListOK(t *testing.T) {
	f := &fakeService{views: []msgsvc.View{{ID: 1, Title: "Hello there"}}}
	r := newRouter(f)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/messages", nil))

	require.Equal(t, http.StatusOK, rr.Code)

	var got ListResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	require.Len(t, got.Messages, 1)
	assert.Equal(t, "Hello there", got.Messages[0].Title)
}

func TestDetailNotFound(t *testing.T) {
	r := newRouter(&fakeService{})

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/messages/42", nil))

	require.Equal(t, http.StatusNotFound, rr.Code)
}

func TestDetailBadID(t *testing.T) {
	r := newRouter(&fakeService{})

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/messages/notanumber", nil))

	require.Equal(t, http.StatusNotFound, rr.Code)
}

func TestDeleteForbiddenForNonAdmin(t *testing.T) {
	f := &fakeService{deleteErr: policy.ErrRequiresAdmin}
	r := newRouter(f)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/messages/1/delete", nil))

	require.Equal(t, http.StatusForbidden, rr.Code)
	assert.Empty(t, f.deleted)

	var got resp.Response
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.Equal(t, "You don't have permission to delete messages", got.Error)
}

func TestDeleteOK(t *testing.T) {
	f := &fakeService{}
	r := newRouter(f)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/messages/7/delete", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, []int64{7}, f.deleted)
}
