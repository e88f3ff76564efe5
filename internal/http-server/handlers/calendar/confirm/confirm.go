package confirm

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

type BookingConfirmer interface {
	ConfirmBooking(ctx context.Context, sess *models.Session, doctorID int64, req *api.ConfirmRequest) (*api.ConfirmResponse, error)
}

type Request struct {
	api.ConfirmRequest
}

type Response struct {
	response.Response
	Booking api.ConfirmResponse `json:"booking,omitempty"`
}

func New(log *slog.Logger, confirmer BookingConfirmer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.calendar.confirm.New"

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

		booking, err := confirmer.ConfirmBooking(r.Context(), sess, doctorID, &req.ConfirmRequest)

		if errors.Is(err, response.ErrNoSelection) {
			log.Info("Confirm without complete selection")
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.NO_SELECTION), "date and slot must be selected"))
			return
		}

		if errors.Is(err, response.ErrAuthExpired) {
			log.Info("Session expired")
			w.WriteHeader(http.StatusUnauthorized)
			render.JSON(w, r, response.Error(string(response.SESSION_EXPIRED), "session expired, please log in again"))
			return
		}

		if err != nil {
			log.Error("Failed to book appointment", sl.Err(err))
			w.WriteHeader(http.StatusBadGateway)
			render.JSON(w, r, response.Error(string(response.UPSTREAM_FAILED), "failed to book appointment"))
			return
		}

		log.Info("Appointment booked",
			slog.Int64("doctor_id", doctorID),
			slog.String("appointment_date", booking.AppointmentDate),
		)

		w.WriteHeader(http.StatusCreated)
		responseOK(w, r, booking)
	}
}

func responseOK(w http.ResponseWriter, r *http.Request, booking *api.ConfirmResponse) {
	render.JSON(w, r, Response{
		Booking: *booking,
	})
}
