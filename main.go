package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/isdelr/task-manager-be/internal/api"
	"github.com/isdelr/task-manager-be/internal/auth"
	"github.com/isdelr/task-manager-be/internal/config"
	"github.com/isdelr/task-manager-be/internal/logger"
	"github.com/isdelr/task-manager-be/internal/scheduler"
	"github.com/isdelr/task-manager-be/internal/services"
	"github.com/isdelr/task-manager-be/internal/store"
	"github.com/isdelr/task-manager-be/internal/store/mongodb"
	"github.com/isdelr/task-manager-be/internal/store/sqlite"
	"github.com/isdelr/task-manager-be/internal/websocket"
	"github.com/rs/zerolog/log"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg.LogLevel, cfg.LogFormat)

	// Set up storage
	st, err := openStore(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize storage")
	}
	defer st.Close(context.Background())

	// Set up WebSocket Hub
	hub := websocket.NewHub()
	go hub.Run()

	// Set up auth and services
	hasher := auth.NewPasswordHasher(cfg.BcryptCost)
	tokens := auth.NewTokenManager(cfg.SecretKey, cfg.TokenTTL)

	var revocations store.RevocationStore
	if cfg.RevokeOnLogout {
		revocations = st.Revocations()
	}

	userService := services.NewUserService(st.Users(), hasher, tokens, revocations)
	taskService := services.NewTaskService(st.Tasks(), hub)

	var sched *scheduler.Scheduler
	if revocations != nil {
		sched, err = scheduler.New(revocations, cfg.PurgeSchedule)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize scheduler")
		}
		sched.Start()
	}

	guard := auth.NewGuard(tokens, userService, revocations)

	// Set up router
	router := api.NewRouter(api.Dependencies{
		Guard:          guard,
		Hub:            hub,
		UserService:    userService,
		TaskService:    taskService,
		AllowedOrigins: cfg.AllowedOrigins,
	})

	// Set up server
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info().Int("port", cfg.ServerPort).Bool("mongodb", cfg.UseMongo()).Msg("Server starting")
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("ListenAndServe failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if sched != nil {
		sched.Stop(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	hub.Stop()

	log.Info().Msg("Server exiting")
}

func openStore(cfg *config.Config) (store.Store, error) {
	if cfg.UseMongo() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return mongodb.Open(ctx, cfg.MongoURI, cfg.MongoDatabase)
	}
	return sqlite.Open(cfg.DatabasePath)
}
