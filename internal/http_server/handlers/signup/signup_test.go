package signup

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"club_service/internal/auth"
	"club_service/internal/lib/api/validate"
	"club_service/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRegistrar struct {
	err    error
	gotReq auth.SignupRequest
	called int
}

func (f *fakeRegistrar) Signup(_ context.Context, req auth.SignupRequest) (models.User, error) {
	f.called++
	f.gotReq = req
	if f.err != nil {
		return models.User{}, f.err
	}
	return models.User{ID: 1, Email: req.Email}, nil
}

func post(t *testing.T, h http.HandlerFunc, body any) *httptest.ResponseRecorder {
	t.Helper()

	buf, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/signup", bytes.NewReader(buf))
	rr := httptest.NewRecorder()
	h(rr, req)

	return rr
}

func newHandler(f *fakeRegistrar) http.HandlerFunc {
	return New(slog.New(slog.NewTextHandler(io.Discard, nil)), validate.New(), f)
}

func validBody() map[string]string {
	return map[string]string{
		"first_name":       "Ada",
		"last_name":        "Lovelace",
		"email":            "ada@x.com",
		"password":         "Passw0rd",
		"confirm_password": "Passw0rd",
	}
}

func TestSignupSuccess(t *testing.T) {
	f := &fakeRegistrar{}

	rr := post(t, newHandler(f), validBody())

	require.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, 1, f.called)
	assert.Equal(t, "Ada", f.gotReq.FirstName)

	var resp Response
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, int64(1), resp.UserID)
}

// When several fields are invalid at once, the first failing rule in
// declared order is the one surfaced.
func TestSignupFirstErrorWins(t *testing.T) {
	f := &fakeRegistrar{}
	h := newHandler(f)

	body := validBody()
	body["first_name"] = "A"        // too short
	body["email"] = "not-an-email"  // also invalid
	body["password"] = "short"      // also invalid
	body["confirm_password"] = "42" // also invalid

	rr := post(t, h, body)

	require.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Zero(t, f.called)

	var resp Response
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "field FirstName must be at least 2 characters", resp.Error)
}

func TestSignupValidationMessages(t *testing.T) {
	f := &fakeRegistrar{}
	h := newHandler(f)

	tests := []struct {
		name    string
		mutate  func(map[string]string)
		wantErr string
	}{
		{
			"name with digits",
			func(b map[string]string) { b["first_name"] = "Ada99" },
			"field FirstName can only contain letters, spaces, hyphens, and apostrophes",
		},
		{
			"missing last name",
			func(b map[string]string) { b["last_name"] = "" },
			"field LastName is required",
		},
		{
			"bad email",
			func(b map[string]string) { b["email"] = "nope" },
			"field Email must be a valid email address",
		},
		{
			"weak password",
			func(b map[string]string) { b["password"] = "password"; b["confirm_password"] = "password" },
			"password must contain at least one uppercase letter, one lowercase letter, and one number",
		},
		{
			"mismatched confirmation",
			func(b map[string]string) { b["confirm_password"] = "Passw0rd2" },
			"passwords do not match",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := validBody()
			tt.mutate(body)

			rr := post(t, h, body)

			require.Equal(t, http.StatusBadRequest, rr.Code)

			var resp Response
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantErr, resp.Error)
		})
	}

	assert.Zero(t, f.called)
}

func TestSignupEmailTaken(t *testing.T) {
	f := &fakeRegistrar{err: fmt.Errorf("auth.Signup: %w", auth.ErrEmailTaken)}

	rr := post(t, newHandler(f), validBody())

	require.Equal(t, http.StatusConflict, rr.Code)

	var resp Response
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "Email already registered", resp.Error)
}
