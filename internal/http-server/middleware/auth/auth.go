package auth

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"clinic-portal/internal/models"
	"clinic-portal/pkg/response"
	"clinic-portal/pkg/sl"
)

type ctxKey struct{}

type SessionResolver interface {
	Get(ctx context.Context, id string) (*models.Session, error)
}

// FromContext returns the session injected by the middleware.
func FromContext(ctx context.Context) (*models.Session, bool) {
	sess, ok := ctx.Value(ctxKey{}).(*models.Session)
	return sess, ok
}

// NewContext injects a session. Meant for handler tests.
func NewContext(ctx context.Context, sess *models.Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, sess)
}

// New resolves the bearer session id from the Authorization header and puts
// the session into the request context. Requests without a valid session get
// a 401.
func New(log *slog.Logger, sessions SessionResolver) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			const op = "middleware.auth.New"

			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			header := r.Header.Get("Authorization")
			sessionID := strings.TrimPrefix(header, "Bearer ")
			if header == "" || sessionID == header {
				log.Info("Missing bearer session id")
				w.WriteHeader(http.StatusUnauthorized)
				render.JSON(w, r, response.Error(string(response.UNAUTHORIZED), "authorization required"))
				return
			}

			sess, err := sessions.Get(r.Context(), sessionID)
			if err != nil {
				log.Info("Session rejected", sl.Err(err))
				w.WriteHeader(http.StatusUnauthorized)
				render.JSON(w, r, response.Error(string(response.SESSION_EXPIRED), "session expired, please log in again"))
				return
			}

			next.ServeHTTP(w, r.WithContext(NewContext(r.Context(), sess)))
		}

		return http.HandlerFunc(fn)
	}
}
