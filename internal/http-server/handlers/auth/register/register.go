package register

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

	"clinic-portal/internal/upstream"
)

type Registrar interface {
	Register(ctx context.Context, req *api.RegisterRequest) error
}

type Request struct {
	api.RegisterRequest
}

func New(log *slog.Logger, registrar Registrar) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.auth.register.New"

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

		if req.Email == "" || req.Password == "" || req.FirstName == "" || req.LastName == "" {
			log.Error("missing required fields")
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "first_name, last_name, email and password are required"))
			return
		}

		err := registrar.Register(r.Context(), &req.RegisterRequest)

		var ue *upstream.Error
		if errors.As(err, &ue) && ue.StatusCode == http.StatusConflict {
			log.Info("Email already registered")
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "email is already registered"))
			return
		}

		if err != nil {
			log.Error("Failed to register", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to register"))
			return
		}

		log.Info("User registered")

		w.WriteHeader(http.StatusCreated)
		render.JSON(w, r, response.Response{})
	}
}
