package get

import (
	"clinic-portal/api"
	"clinic-portal/internal/http-server/middleware/auth"
	"clinic-portal/internal/models"
	"clinic-portal/pkg/response"
	"clinic-portal/pkg/sl"
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
)

type SpecialtyGetter interface {
	Specialties(ctx context.Context, sess *models.Session) ([]*api.SpecialtyResponse, error)
}

type Response struct {
	response.Response
	Specialties []api.SpecialtyResponse `json:"specialties,omitempty"`
}

func New(log *slog.Logger, getter SpecialtyGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.specialties.get.New"

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

		specialties, err := getter.Specialties(r.Context(), sess)
		if err != nil {
			log.Error("Failed to list specialties", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to list specialties"))
			return
		}

		specialtiesResponse := make([]api.SpecialtyResponse, len(specialties))
		for i, s := range specialties {
			specialtiesResponse[i] = *s
		}

		render.JSON(w, r, Response{Specialties: specialtiesResponse})
	}
}
