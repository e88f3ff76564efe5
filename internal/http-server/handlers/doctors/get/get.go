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

type DoctorGetter interface {
	Doctors(ctx context.Context, sess *models.Session, specialtyID int64) ([]*api.DoctorResponse, error)
	DoctorDetail(ctx context.Context, sess *models.Session, doctorID int64) (*api.DoctorDetailResponse, error)
}

type Response struct {
	response.Response
	Doctors []api.DoctorResponse      `json:"doctors,omitempty"`
	Doctor  *api.DoctorDetailResponse `json:"doctor,omitempty"`
}

func New(log *slog.Logger, getter DoctorGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.doctors.get.New"

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

		if idStr := chi.URLParam(r, "id"); idStr != "" {
			id, err := strconv.ParseInt(idStr, 10, 64)
			if err != nil {
				log.Error("invalid doctor id", sl.Err(err))
				w.WriteHeader(http.StatusBadRequest)
				render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "invalid doctor id"))
				return
			}

			doctor, err := getter.DoctorDetail(r.Context(), sess, id)

			if errors.Is(err, response.ErrNotFound) {
				log.Error("resource not found")
				w.WriteHeader(http.StatusNotFound)
				render.JSON(w, r, response.Error(string(response.NOT_FOUND), "resource not found"))
				return
			}

			if err != nil {
				log.Error("Failed to get doctor", sl.Err(err))
				w.WriteHeader(http.StatusInternalServerError)
				render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to get doctor"))
				return
			}

			log.Info("Doctor retrieved", slog.Int64("doctor_id", id))
			render.JSON(w, r, Response{Doctor: doctor})
			return
		}

		var specialtyID int64
		if s := r.URL.Query().Get("specialty_id"); s != "" {
			id, err := strconv.ParseInt(s, 10, 64)
			if err != nil {
				log.Error("invalid specialty_id", sl.Err(err))
				w.WriteHeader(http.StatusBadRequest)
				render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "invalid specialty_id"))
				return
			}
			specialtyID = id
		}

		doctors, err := getter.Doctors(r.Context(), sess, specialtyID)
		if err != nil {
			log.Error("Failed to list doctors", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to list doctors"))
			return
		}

		doctorsResponse := make([]api.DoctorResponse, len(doctors))
		for i, d := range doctors {
			doctorsResponse[i] = *d
		}

		log.Info("Doctors listed", slog.Int("count", len(doctorsResponse)))
		render.JSON(w, r, Response{Doctors: doctorsResponse})
	}
}
