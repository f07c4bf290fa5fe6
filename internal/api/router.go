package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/isdelr/exercise-tracker/internal/api/handlers"
	"github.com/isdelr/exercise-tracker/internal/services"
)

// NewRouter creates and configures a new Chi router.
func NewRouter(exerciseService services.ExerciseServiceProvider, allowedOrigins []string) *chi.Mux {
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	exerciseHandler := handlers.NewExerciseHandler(exerciseService)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	r.Route("/api/exercise", func(r chi.Router) {
		r.Post("/new-user", exerciseHandler.NewUser)
		r.Post("/add", exerciseHandler.AddExercise)
		r.Get("/log", exerciseHandler.GetLog)
		r.Get("/users", exerciseHandler.ListUsers)
	})

	r.NotFound(handlers.NotFound)
	r.MethodNotAllowed(handlers.NotFound)

	return r
}
