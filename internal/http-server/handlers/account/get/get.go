package get

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
)

type ProfileGetter interface {
	Me(ctx context.Context, sess *models.Session) (*api.ProfileResponse, error)
}

type Response struct {
	response.Response
	Profile api.ProfileResponse `json:"profile,omitempty"`
}

func New(log *slog.Logger, getter ProfileGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.account.get.New"

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

		profile, err := getter.Me(r.Context(), sess)

		if errors.Is(err, response.ErrAuthExpired) {
			log.Info("Session expired")
			w.WriteHeader(http.StatusUnauthorized)
			render.JSON(w, r, response.Error(string(response.SESSION_EXPIRED), "session expired, please log in again"))
			return
		}

		if err != nil {
			log.Error("Failed to get profile", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to get profile"))
			return
		}

		render.JSON(w, r, Response{Profile: *profile})
	}
}
