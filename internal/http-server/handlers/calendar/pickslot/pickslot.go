package pickslot

import (
	"clinic-portal/api"
	"clinic-portal/internal/http-server/middleware/auth"
	"clinic-portal/internal/models"
	"clinic-portal/pkg/response"
	"clinic-portal/pkg/sl"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
)

type SlotPicker interface {
	PickSlot(sess *models.Session, doctorID int64, req *api.PickSlotRequest) error
}

type Request struct {
	api.PickSlotRequest
}

func New(log *slog.Logger, picker SlotPicker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.calendar.pickslot.New"

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

		err = picker.PickSlot(sess, doctorID, &req.PickSlotRequest)

		if errors.Is(err, response.ErrNoSelection) {
			log.Info("No date selected")
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error(string(response.NO_SELECTION), "select a date first"))
			return
		}

		if errors.Is(err, response.ErrBadRequest) {
			log.Error("slot is empty")
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "slot is required"))
			return
		}

		if err != nil {
			log.Error("Failed to pick slot", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to pick slot"))
			return
		}

		log.Info("Slot picked", slog.Int64("doctor_id", doctorID), slog.String("slot", req.Slot))
		render.JSON(w, r, response.Response{})
	}
}
