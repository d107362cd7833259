package api

import (
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/streakd/streakd/internal/api/handler"
	"github.com/streakd/streakd/internal/api/middleware"
	"github.com/streakd/streakd/internal/service"
)

// Services bundles the business services the router dispatches to.
type Services struct {
	Users       *service.UserService
	Habits      *service.HabitService
	Completions *service.CompletionService
	Stats       *service.StatsService
	// DB is pinged by the health check. Optional.
	DB handler.Pinger
}

// NewRouter creates and configures the HTTP router.
func NewRouter(svc Services) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware chain
	r.Use(middleware.Recovery)
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.UserID)
	r.Use(middleware.Logging)

	systemHandler := handler.NewSystemHandler(svc.DB)
	userHandler := handler.NewUserHandler(svc.Users)
	habitHandler := handler.NewHabitHandler(svc.Habits)
	completionHandler := handler.NewCompletionHandler(svc.Completions, svc.Stats)

	// Routes without identity
	r.Get("/v1/health", systemHandler.Health)
	r.Post("/v1/users", userHandler.Register)

	// Routes scoped to the authenticated user
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireUser)

		r.Get("/v1/users/me", userHandler.Me)
		r.Delete("/v1/users/me", userHandler.DeleteMe)

		r.Route("/v1/habits", func(r chi.Router) {
			r.Get("/", habitHandler.ListHabits)
			r.Post("/", habitHandler.CreateHabit)
			r.Get("/stats", completionHandler.Stats)
			r.Get("/{id}", habitHandler.GetHabit)
			r.Patch("/{id}", habitHandler.UpdateHabit)
			r.Delete("/{id}", habitHandler.DeleteHabit)

			r.Post("/{id}/complete", completionHandler.CompleteHabit)
			r.Get("/{id}/completions", habitHandler.ListCompletions)
		})
	})

	return r
}
