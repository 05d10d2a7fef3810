package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/example/training-management/internal/application"
	"github.com/example/training-management/internal/config"
	httptransport "github.com/example/training-management/internal/http"
	"github.com/example/training-management/internal/persistence"
	"github.com/example/training-management/internal/persistence/jsonfile"
	"github.com/example/training-management/internal/persistence/sqlite"
)

// entityStore is the full persistence surface the API wires against.
// Both storage backends satisfy it.
type entityStore interface {
	persistence.UserRepository
	persistence.RoleRepository
	persistence.RequestRepository
	persistence.SessionRepository
	persistence.ParticipantRepository
	persistence.AttendanceRepository
	persistence.AuthSessionRepository
	Migrate(ctx context.Context) error
	Close() error
}

func main() {
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	storage, err := openStorage(cfg)
	if err != nil {
		logger.Error("failed to open storage", "error", err, "backend", cfg.StorageBackend)
		os.Exit(1)
	}
	defer func() {
		if cerr := storage.Close(); cerr != nil {
			logger.Error("failed to close storage", "error", cerr)
		}
	}()

	if err := storage.Migrate(context.Background()); err != nil {
		logger.Error("failed to apply migrations", "error", err)
		os.Exit(1)
	}

	tokenGenerator := uuid.NewString
	now := time.Now

	users := newUserRepositoryAdapter(storage)
	roles := newRoleCatalogAdapter(storage)
	requests := newRequestRepositoryAdapter(storage)
	sessions := newSessionRepositoryAdapter(storage)
	participants := newParticipantRepositoryAdapter(storage)
	attendance := newAttendanceRepositoryAdapter(storage)
	credentials := newCredentialStoreAdapter(storage)
	authSessions := newAuthSessionRepositoryAdapter(storage)
	reportStore := newReportStoreAdapter(storage)

	userService := application.NewUserServiceWithLogger(users, roles, nil, now, logger)
	requestService := application.NewRequestServiceWithLogger(requests, now, logger)
	sessionService := application.NewTrainingSessionServiceWithLogger(sessions, participants, now, logger)
	registrationService := application.NewRegistrationServiceWithLogger(sessions, participants, users, now, logger)
	attendanceService := application.NewAttendanceServiceWithLogger(attendance, sessions, now, logger)
	reportService := application.NewReportServiceWithLogger(reportStore, now, logger)
	dashboardService := application.NewDashboardServiceWithLogger(reportStore, now, logger)
	authService := application.NewAuthServiceWithLogger(credentials, authSessions, roles, nil, tokenGenerator, now, cfg.SessionTTL, logger)

	router := httptransport.NewRouter(httptransport.RouterConfig{
		Auth:          httptransport.NewAuthHandler(authService, logger),
		Users:         httptransport.NewUserHandler(userService, logger),
		Requests:      httptransport.NewRequestHandler(requestService, logger),
		Sessions:      httptransport.NewSessionHandler(sessionService, logger),
		Registrations: httptransport.NewRegistrationHandler(registrationService, attendanceService, logger),
		Dashboard:     httptransport.NewDashboardHandler(dashboardService, logger),
		Reports:       httptransport.NewReportHandler(reportService, logger),
	})

	protected := httptransport.RequireSession(authService, logger)(router)
	handler := httptransport.RequestLogger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/api/auth/") {
			router.ServeHTTP(w, r)
			return
		}
		protected.ServeHTTP(w, r)
	}))

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("failed to shutdown server", "error", err)
		}
	}()

	logger.Info("training management API listening", "addr", server.Addr, "backend", cfg.StorageBackend)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server encountered error", "error", err)
		os.Exit(1)
	}
}

func openStorage(cfg config.Config) (entityStore, error) {
	switch cfg.StorageBackend {
	case config.BackendSQLite:
		return sqlite.Open(cfg.SQLiteDSN)
	case config.BackendJSONFile:
		return jsonfile.Open(cfg.DataDir)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
}
