package routes

import (
	"net/http"

	"github.com/Bernardstanislas/secretariat/internal/api"
	"github.com/Bernardstanislas/secretariat/internal/config"
	"github.com/Bernardstanislas/secretariat/internal/middleware"
	"github.com/Bernardstanislas/secretariat/ui"

	"github.com/go-chi/chi/v5"
)

// RegisterUIRoutes registers the onboarding and login pages.
func RegisterUIRoutes(r chi.Router, cfg *config.Config, deps *api.Dependencies) {
	handler := ui.NewUIHandler(
		deps.Services.Directory,
		deps.Services.Onboarding,
		deps.Services.Login,
		deps.Services.Sessions,
		deps.Services.Github,
		cfg.Domain,
	)
	limiter := middleware.NewRateLimiter(cfg.Server.RateLimitPerSecond, cfg.Server.RateLimitBurst, "127.0.0.1", "::1")

	r.Group(func(pages chi.Router) {
		pages.Use(middleware.SessionMiddleware(deps.Services.Sessions))

		pages.Get("/", func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, "/login", http.StatusFound)
		})

		pages.Get("/onboarding", handler.OnboardingFormHandler)
		pages.With(limiter.Middleware).Post("/onboarding", handler.OnboardingSubmitHandler)
		pages.Get("/onboardingSuccess/{prNumber}", handler.OnboardingSuccessHandler)

		pages.Get("/login", handler.LoginFormHandler)
		pages.With(limiter.Middleware).Post("/login", handler.LoginSubmitHandler)
		pages.Get("/users", handler.TokenLoginHandler)
		pages.Post("/logout", handler.LogoutHandler)

		pages.With(middleware.RequireSession("/login")).Get("/account", handler.AccountHandler)
	})
}
