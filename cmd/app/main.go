package main

import (
	"clinic-portal/internal/availability"
	"clinic-portal/internal/config"
	accountGet "clinic-portal/internal/http-server/handlers/account/get"
	accountPassword "clinic-portal/internal/http-server/handlers/account/password"
	appointmentCancel "clinic-portal/internal/http-server/handlers/appointments/cancel"
	appointmentGet "clinic-portal/internal/http-server/handlers/appointments/get"
	appointmentMissed "clinic-portal/internal/http-server/handlers/appointments/missed"
	authLogin "clinic-portal/internal/http-server/handlers/auth/login"
	authLogout "clinic-portal/internal/http-server/handlers/auth/logout"
	authRegister "clinic-portal/internal/http-server/handlers/auth/register"
	calendarClose "clinic-portal/internal/http-server/handlers/calendar/closemodal"
	calendarConfirm "clinic-portal/internal/http-server/handlers/calendar/confirm"
	calendarGet "clinic-portal/internal/http-server/handlers/calendar/get"
	calendarPickSlot "clinic-portal/internal/http-server/handlers/calendar/pickslot"
	calendarSelectDate "clinic-portal/internal/http-server/handlers/calendar/selectdate"
	doctorGet "clinic-portal/internal/http-server/handlers/doctors/get"
	reviewAdd "clinic-portal/internal/http-server/handlers/reviews/add"
	specialtyGet "clinic-portal/internal/http-server/handlers/specialties/get"
	"clinic-portal/internal/http-server/middleware/auth"
	svc "clinic-portal/internal/service"
	"clinic-portal/internal/session"
	"clinic-portal/internal/upstream"
	slogpretty "clinic-portal/pkg/handlers/slogPretty"
	mwLogger "clinic-portal/pkg/middleware/mwLogger"
	"clinic-portal/pkg/sl"
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/chi/v5"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

func CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Content-Type", "application/json; charset=utf-8")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func main() {

	cfg := config.MustLoad()

	log := setupLogger(cfg.Env)

	log.Info("Starting portal", slog.String("env", cfg.Env))
	log.Debug("Debug messages are enabled")

	client := upstream.New(cfg.Upstream.BaseURL, cfg.Upstream.Timeout)

	sessions, err := session.NewRedisStore(cfg.Redis.Addr, cfg.Session.TTL)
	if err != nil {
		log.Error("Failed to init session store", sl.Err(err))
		os.Exit(1)
	}

	service := svc.NewService(client, sessions, availability.New(client))

	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(mwLogger.New(log))
	router.Use(middleware.Recoverer)
	router.Use(middleware.URLFormat)
	router.Use(CORS)

	router.Post("/auth/login", authLogin.New(log, service))
	router.Post("/auth/register", authRegister.New(log, service))

	router.Group(func(r chi.Router) {
		r.Use(auth.New(log, sessions))

		r.Post("/auth/logout", authLogout.New(log, service))

		r.Get("/doctors", doctorGet.New(log, service))
		r.Get("/doctors/{id}", doctorGet.New(log, service))
		r.Get("/specialties", specialtyGet.New(log, service))

		r.Get("/doctors/{id}/calendar", calendarGet.New(log, service))
		r.Post("/doctors/{id}/calendar/select-date", calendarSelectDate.New(log, service))
		r.Post("/doctors/{id}/calendar/pick-slot", calendarPickSlot.New(log, service))
		r.Post("/doctors/{id}/calendar/close", calendarClose.New(log, service))
		r.Post("/doctors/{id}/calendar/confirm", calendarConfirm.New(log, service))

		r.Get("/appointments", appointmentGet.New(log, service))
		r.Put("/appointments/{id}/cancel", appointmentCancel.New(log, service))
		r.Put("/appointments/{id}/missed", appointmentMissed.New(log, service))

		r.Post("/reviews", reviewAdd.New(log, service))

		r.Get("/account", accountGet.New(log, service))
		r.Post("/account/change-password", accountPassword.New(log, service))
	})

	serv := &http.Server{
		Addr:         cfg.Address,
		Handler:      router,
		ReadTimeout:  cfg.HTTPServer.Timeout,
		WriteTimeout: cfg.HTTPServer.Timeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	serverErrCh := make(chan error, 1)

	go func() {
		log.Info("Starting HTTP server", slog.String("addr", cfg.Address))
		if err := serv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrCh <- err
		} else {
			serverErrCh <- nil
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info("Received shutdown signal", slog.String("signal", sig.String()))
	case err := <-serverErrCh:
		if err != nil {
			log.Error("HTTP server stopped unexpectedly", sl.Err(err))
		} else {
			log.Info("HTTP server stopped gracefully")
		}
	}

	shutdownTimeout := cfg.HTTPServer.ShutdownTimeout

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	log.Info("Shutting down HTTP server", slog.String("timeout", shutdownTimeout.String()))

	if err := serv.Shutdown(ctx); err != nil {
		log.Error("Server shutdown failed", sl.Err(err))
	} else {
		log.Info("Server shutdown complete")
	}

	if sessions != nil {
		if err := sessions.Close(); err != nil {
			log.Error("Failed to close session store", sl.Err(err))
		} else {
			log.Info("Session store closed")
		}
	}

	log.Info("Shutdown finished, server stopped")

}

func setupLogger(env string) *slog.Logger {
	var log *slog.Logger
	switch env {
	case envLocal:
		log = setupPrettySlog()
	case envDev:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	case envProd:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	}

	return log
}

func setupPrettySlog() *slog.Logger {
	opts := slogpretty.PrettyHandlerOptions{
		SlogOpts: &slog.HandlerOptions{
			Level: slog.LevelDebug,
		},
	}

	handler := opts.NewPrettyHandler(os.Stdout)

	return slog.New(handler)
}
