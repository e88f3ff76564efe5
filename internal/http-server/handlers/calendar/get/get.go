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

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
)

type CalendarGetter interface {
	CalendarPage(ctx context.Context, sess *models.Session, doctorID int64, page int) (*api.CalendarPageResponse, error)
}

type Response struct {
	response.Response
	Calendar api.CalendarPageResponse `json:"calendar,omitempty"`
}

func New(log *slog.Logger, getter CalendarGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.calendar.get.New"

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

		doctorID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			log.Error("invalid doctor id", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "invalid doctor id"))
			return
		}

		page := 0
		if p := r.URL.Query().Get("page"); p != "" {
			page, err = strconv.Atoi(p)
			if err != nil {
				log.Error("invalid page", sl.Err(err))
				w.WriteHeader(http.StatusBadRequest)
				render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "invalid page"))
				return
			}
		}

		calendar, err := getter.CalendarPage(r.Context(), sess, doctorID, page)

		if errors.Is(err, response.ErrAuthExpired) {
			log.Info("Session expired")
			w.WriteHeader(http.StatusUnauthorized)
			render.JSON(w, r, response.Error(string(response.SESSION_EXPIRED), "session expired, please log in again"))
			return
		}

		if err != nil {
			log.Error("Failed to build calendar page", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to build calendar page"))
			return
		}

		log.Info("Calendar page built", slog.Int64("doctor_id", doctorID), slog.Int("page", calendar.Page))
		render.JSON(w, r, Response{Calendar: *calendar})
	}
}
