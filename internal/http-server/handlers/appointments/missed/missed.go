package missed

import (
	"clinic-portal/internal/http-server/middleware/auth"
	"clinic-portal/internal/models"
	"clinic-portal/pkg/response"
	"clinic-portal/pkg/sl"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
)

type MissedMarker interface {
	MarkMissed(ctx context.Context, sess *models.Session, appointmentID int64) error
}

func New(log *slog.Logger, marker MissedMarker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.appointments.missed.New"

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

		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			log.Error("invalid appointment id", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "invalid appointment id"))
			return
		}

		err = marker.MarkMissed(r.Context(), sess, id)

		if errors.Is(err, response.ErrForbidden) {
			log.Info("Non-admin attempted to mark missed")
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error(string(response.FORBIDDEN), "admin role required"))
			return
		}

		if errors.Is(err, response.ErrNotFound) {
			log.Error("resource not found")
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error(string(response.NOT_FOUND), "resource not found"))
			return
		}

		if errors.Is(err, response.ErrBadRequest) {
			log.Info("Appointment is not completed")
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "only completed appointments can be marked missed"))
			return
		}

		if errors.Is(err, response.ErrAuthExpired) {
			log.Info("Session expired")
			w.WriteHeader(http.StatusUnauthorized)
			render.JSON(w, r, response.Error(string(response.SESSION_EXPIRED), "session expired, please log in again"))
			return
		}

		if err != nil {
			log.Error("Failed to mark appointment as missed", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to mark appointment as missed"))
			return
		}

		log.Info("Appointment marked as missed", slog.Int64("appointment_id", id))
		render.JSON(w, r, response.Response{})
	}
}
