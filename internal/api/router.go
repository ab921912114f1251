package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/isdelr/task-manager-be/internal/api/handlers"
	"github.com/isdelr/task-manager-be/internal/auth"
	"github.com/isdelr/task-manager-be/internal/services"
	"github.com/isdelr/task-manager-be/internal/websocket"
	"github.com/rs/zerolog/hlog"
	"github.com/rs/zerolog/log"
)

// Dependencies are the collaborators the router wires into handlers.
type Dependencies struct {
	Guard          *auth.Guard
	Hub            *websocket.Hub
	UserService    services.UserServiceProvider
	TaskService    services.TaskServiceProvider
	AllowedOrigins []string
}

// NewRouter creates and configures a new Chi router.
func NewRouter(deps Dependencies) *chi.Mux {
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(hlog.NewHandler(log.Logger))
	r.Use(hlog.AccessHandler(accessLog))
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: deps.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	userHandler := handlers.NewUserHandler(deps.UserService)
	taskHandler := handlers.NewTaskHandler(deps.TaskService)
	wsHandler := handlers.NewWebSocketHandler(deps.Hub)

	r.Get("/health", handlers.Health)

	r.Route("/api", func(r chi.Router) {
		r.Route("/user", func(r chi.Router) {
			r.Post("/register", userHandler.Register)
			r.Post("/login", userHandler.Login)

			r.Group(func(r chi.Router) {
				r.Use(deps.Guard.Middleware)
				r.Post("/logout", userHandler.Logout)
				r.Get("/me", userHandler.GetMe)
				r.Post("/password", userHandler.ChangePassword)
			})
		})

		r.Route("/tasks", func(r chi.Router) {
			r.Use(deps.Guard.Middleware)
			r.Post("/create", taskHandler.Create)
			r.Get("/all", taskHandler.GetAll)
			r.Put("/update/{taskId}", taskHandler.Update)
			r.Delete("/delete/{taskId}", taskHandler.Delete)
			r.Get("/events", wsHandler.Serve)
		})
	})

	return r
}

func accessLog(r *http.Request, status, size int, duration time.Duration) {
	hlog.FromRequest(r).Info().
		Str("request_id", middleware.GetReqID(r.Context())).
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Int("status", status).
		Int("size", size).
		Dur("duration", duration).
		Msg("Request handled")
}
