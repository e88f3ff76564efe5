package password

import (
	"clinic-portal/api"
	"clinic-portal/internal/http-server/middleware/auth"
	"clinic-portal/internal/models"
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

type PasswordChanger interface {
	ChangePassword(ctx context.Context, sess *models.Session, req *api.ChangePasswordRequest) error
}

type Request struct {
	api.ChangePasswordRequest
}

func New(log *slog.Logger, changer PasswordChanger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.account.password.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		sess, ok := auth.FromContext(r.Context())
		if !ok {
			w.WriteHeader(http.StatusUnauthorized)
			render.JSON(w, r, response.Error(string(response.UNAUTHORIZED), "authorization required"))
			return
		}

		var req Request

		if err := render.DecodeJSON(r.Body, &req); err != nil {
			log.Error("Failed to decode request body", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "failed to decode request"))
			return
		}

		if req.OldPassword == "" || req.NewPassword == "" {
			log.Error("missing required fields")
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "old_password and new_password are required"))
			return
		}

		err := changer.ChangePassword(r.Context(), sess, &req.ChangePasswordRequest)

		if errors.Is(err, response.ErrAuthExpired) {
			log.Info("Session expired")
			w.WriteHeader(http.StatusUnauthorized)
			render.JSON(w, r, response.Error(string(response.SESSION_EXPIRED), "session expired, please log in again"))
			return
		}

		var ue *upstream.Error
		if errors.As(err, &ue) && ue.StatusCode == http.StatusBadRequest {
			log.Info("Old password rejected")
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "old password is incorrect"))
			return
		}

		if err != nil {
			log.Error("Failed to change password", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to change password"))
			return
		}

		log.Info("Password changed")
		render.JSON(w, r, response.Response{})
	}
}
