package selectdate

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

type DateSelector interface {
	SelectDate(ctx context.Context, sess *models.Session, doctorID int64, req *api.SelectDateRequest) (*api.SelectDateResponse, error)
}

type Request struct {
	api.SelectDateRequest
}

type Response struct {
	response.Response
	Selection api.SelectDateResponse `json:"selection,omitempty"`
}

func New(log *slog.Logger, selector DateSelector) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.calendar.selectdate.New"

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

		var req Request

		if err := render.DecodeJSON(r.Body, &req); err != nil {
			log.Error("Failed to decode request body", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "failed to decode request"))
			return
		}

		if req.Date == "" {
			log.Error("date is empty")
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "date is required"))
			return
		}

		selection, err := selector.SelectDate(r.Context(), sess, doctorID, &req.SelectDateRequest)

		if errors.Is(err, response.ErrDayNotSelectable) {
			log.Info("Day not selectable", slog.String("date", req.Date))
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error(string(response.DAY_NOT_SELECTABLE), "day is not selectable"))
			return
		}

		if errors.Is(err, response.ErrAuthExpired) {
			log.Info("Session expired")
			w.WriteHeader(http.StatusUnauthorized)
			render.JSON(w, r, response.Error(string(response.SESSION_EXPIRED), "session expired, please log in again"))
			return
		}

		if err != nil {
			log.Error("Failed to select date", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to fetch slots"))
			return
		}

		log.Info("Date selected", slog.Int64("doctor_id", doctorID), slog.String("date", selection.Date))
		render.JSON(w, r, Response{Selection: *selection})
	}
}
