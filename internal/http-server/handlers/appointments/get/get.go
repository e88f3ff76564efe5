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
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
)

type AppointmentLister interface {
	Appointments(ctx context.Context, sess *models.Session, page int, search string) (*api.AppointmentsPageResponse, error)
}

type Response struct {
	response.Response
	Appointments api.AppointmentsPageResponse `json:"appointments,omitempty"`
}

func New(log *slog.Logger, lister AppointmentLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.appointments.get.New"

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

		page := 1
		if p := r.URL.Query().Get("page"); p != "" {
			var err error
			page, err = strconv.Atoi(p)
			if err != nil {
				log.Error("invalid page", sl.Err(err))
				w.WriteHeader(http.StatusBadRequest)
				render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "invalid page"))
				return
			}
		}

		search := r.URL.Query().Get("search")

		appointments, err := lister.Appointments(r.Context(), sess, page, search)

		if errors.Is(err, response.ErrAuthExpired) {
			log.Info("Session expired")
			w.WriteHeader(http.StatusUnauthorized)
			render.JSON(w, r, response.Error(string(response.SESSION_EXPIRED), "session expired, please log in again"))
			return
		}

		if err != nil {
			log.Error("Failed to list appointments", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to list appointments"))
			return
		}

		log.Info("Appointments listed",
			slog.Int("page", appointments.Page),
			slog.Int("total_pages", appointments.TotalPages),
		)
		render.JSON(w, r, Response{Appointments: *appointments})
	}
}
