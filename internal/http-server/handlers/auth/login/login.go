package login

import (
	"clinic-portal/api"
	"clinic-portal/pkg/response"
	"clinic-portal/pkg/sl"
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
)

type Authenticator interface {
	Login(ctx context.Context, req *api.LoginRequest) (*api.LoginResponse, error)
}

type Request struct {
	api.LoginRequest
}

type Response struct {
	response.Response
	Session api.LoginResponse `json:"session,omitempty"`
}

func New(log *slog.Logger, authenticator Authenticator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.auth.login.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		var req Request

		if err := render.DecodeJSON(r.Body, &req); err != nil {
			log.Error("Failed to decode request body", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "failed to decode request"))
			return
		}

		if req.Email == "" {
			log.Error("email is empty")
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "email is required"))
			return
		}

		if req.Password == "" {
			log.Error("password is empty")
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "password is required"))
			return
		}

		session, err := authenticator.Login(r.Context(), &req.LoginRequest)

		if errors.Is(err, response.ErrUnauthorized) {
			log.Info("Invalid credentials")
			w.WriteHeader(http.StatusUnauthorized)
			render.JSON(w, r, response.Error(string(response.UNAUTHORIZED), "invalid email or password"))
			return
		}

		if err != nil {
			log.Error("Failed to log in", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to log in"))
			return
		}

		log.Info("User logged in", slog.String("role", session.Role))

		responseOK(w, r, session)
	}
}

func responseOK(w http.ResponseWriter, r *http.Request, session *api.LoginResponse) {
	render.JSON(w, r, Response{
		Session: *session,
	})
}
