package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/saulo-duarte/chronos-habits/internal/auth"
	"github.com/saulo-duarte/chronos-habits/internal/config"
	"github.com/saulo-duarte/chronos-habits/internal/habit"
	"github.com/saulo-duarte/chronos-habits/internal/middlewares"
	"github.com/saulo-duarte/chronos-habits/internal/suggestion"
	"github.com/saulo-duarte/chronos-habits/internal/user"
	"github.com/saulo-duarte/chronos-habits/internal/weekly_review"
)

type RouterConfig struct {
	UserHandler         *user.Handler
	HabitHandler        *habit.Handler
	SuggestionHandler   *suggestion.Handler
	WeeklyReviewHandler *weekly_review.Handler
}

func New(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewares.CorsMiddleware)
	r.Use(middlewares.Metrics)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		config.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/logout", auth.NewHandler().Logout)
	})

	r.Group(func(r chi.Router) {
		r.Use(auth.AuthMiddleware)

		r.Mount("/habits", habit.Routes(cfg.HabitHandler))
		r.Mount("/sub-habits", habit.SubHabitRoutes(cfg.HabitHandler))
		r.Mount("/users", user.Routes(cfg.UserHandler))
		r.Mount("/weekly-reviews", weekly_review.Routes(cfg.WeeklyReviewHandler))

		r.Post("/habits/{id}/suggestions", cfg.SuggestionHandler.Suggest)
	})
	return r
}
