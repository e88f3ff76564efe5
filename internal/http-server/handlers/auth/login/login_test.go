package login_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clinic-portal/api"
	"clinic-portal/internal/http-server/handlers/auth/login"
	"clinic-portal/pkg/response"
)

type authStub struct {
	resp *api.LoginResponse
	err  error

	lastReq *api.LoginRequest
}

func (a *authStub) Login(_ context.Context, req *api.LoginRequest) (*api.LoginResponse, error) {
	a.lastReq = req
	if a.err != nil {
		return nil, a.err
	}
	return a.resp, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func doLogin(t *testing.T, stub *authStub, body string) *httptest.ResponseRecorder {
	t.Helper()

	handler := login.New(discardLogger(), stub)

	req, err := http.NewRequest(http.MethodPost, "/auth/login", bytes.NewBufferString(body))
	require.NoError(t, err)

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	return rr
}

func TestLogin_Success(t *testing.T) {
	stub := &authStub{resp: &api.LoginResponse{SessionID: "sess-1", Role: "PATIENT"}}

	rr := doLogin(t, stub, `{"email":"ann@clinic.test","password":"secret"}`)

	require.Equal(t, http.StatusOK, rr.Code)
	require.NotNil(t, stub.lastReq)
	assert.Equal(t, "ann@clinic.test", stub.lastReq.Email)

	var resp login.Response
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "sess-1", resp.Session.SessionID)
	assert.Equal(t, "PATIENT", resp.Session.Role)
	assert.Empty(t, resp.Code)
}

func TestLogin_MissingFields(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"no email", `{"password":"secret"}`},
		{"no password", `{"email":"ann@clinic.test"}`},
		{"garbage", `{`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			stub := &authStub{}

			rr := doLogin(t, stub, tc.body)

			assert.Equal(t, http.StatusBadRequest, rr.Code)
			assert.Nil(t, stub.lastReq)

			var resp response.Response
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
			assert.Equal(t, string(response.BAD_REQUEST), resp.Code)
		})
	}
}

func TestLogin_InvalidCredentials(t *testing.T) {
	stub := &authStub{err: response.ErrUnauthorized}

	rr := doLogin(t, stub, `{"email":"ann@clinic.test","password":"wrong"}`)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	var resp response.Response
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, string(response.UNAUTHORIZED), resp.Code)
}

func TestLogin_UpstreamFailure(t *testing.T) {
	stub := &authStub{err: errors.New("connection refused")}

	rr := doLogin(t, stub, `{"email":"ann@clinic.test","password":"secret"}`)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)

	var resp response.Response
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, string(response.FAILED_REQUEST), resp.Code)
}
