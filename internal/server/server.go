package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/staybnb/webserver/config"
	"github.com/staybnb/webserver/internal/auth"
	"github.com/staybnb/webserver/internal/db"
	"github.com/staybnb/webserver/internal/handlers"
	"github.com/staybnb/webserver/internal/logger"
	"github.com/staybnb/webserver/internal/mq"
	"github.com/staybnb/webserver/internal/services"
	"github.com/staybnb/webserver/internal/storage"
	"github.com/staybnb/webserver/internal/store"
	"github.com/staybnb/webserver/internal/uploads"
)

// Server wraps the HTTP server and the connections it owns.
type Server struct {
	httpServer *http.Server
	db         *sql.DB
	mq         *mq.MQ
	log        *logger.Logger
}

// New connects to the database, the upload backend and, when configured,
// the message broker, and builds the router.
func New(ctx context.Context, cfg config.Config, log *logger.Logger) (*Server, error) {
	dbConn, err := db.Open(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}

	objects, err := storage.New(ctx, cfg)
	if err != nil {
		_ = dbConn.Close()
		return nil, err
	}

	broker, err := mq.Open(ctx, cfg)
	if err != nil {
		_ = dbConn.Close()
		return nil, err
	}

	views, err := handlers.NewRenderer()
	if err != nil {
		_ = dbConn.Close()
		if broker != nil {
			_ = broker.Close()
		}
		return nil, err
	}

	userRepo := store.NewUserRepository(dbConn)
	propertyRepo := store.NewPropertyRepository(dbConn)

	sessions := auth.NewSessionManager(cfg.Session)
	userService := services.NewUserService(userRepo, auth.NewPasswordHasher())
	propertyService := services.NewPropertyService(propertyRepo, uploads.NewUploader(objects, cfg.Upload.MaxBytes))
	if broker != nil {
		propertyService.WithEvents(broker, cfg.MQ.Channel)
	}

	router := chi.NewRouter()
	router.Use(
		middleware.RealIP,
		handlers.RequestLogger(log),
		middleware.Recoverer,
		middleware.Timeout(60*time.Second),
	)
	router.Get("/healthz", handlers.Healthz)
	router.Get("/", handlers.Home(views, sessions))
	handlers.AuthRouter(router, userService, sessions, views)
	handlers.PropertyRouter(router, handlers.NewPropertyHandler(
		propertyService,
		userService,
		sessions,
		objects,
		views,
		cfg.Upload.MaxBytes,
	))

	port := cfg.ServerPort
	if port == 0 {
		port = 8080
	}

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	log.Info().
		Str("upload_backend", cfg.Upload.Backend).
		Str("mq_backend", cfg.MQ.Backend).
		Int("port", port).
		Msg("server configured")

	return &Server{
		httpServer: httpServer,
		db:         dbConn,
		mq:         broker,
		log:        log,
	}, nil
}

// Start runs the HTTP server until Shutdown is called.
func (s *Server) Start() error {
	s.log.Info().Str("addr", s.httpServer.Addr).Msg("listening")
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting requests, waits for in-flight ones until ctx is
// done and then closes the database and broker connections.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.httpServer.Shutdown(ctx)
	if s.mq != nil {
		if cerr := s.mq.Close(); cerr != nil {
			s.log.Warn().Err(cerr).Msg("close mq failed")
		}
	}
	if s.db != nil {
		_ = s.db.Close()
	}
	return err
}
