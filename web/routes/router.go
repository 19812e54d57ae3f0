package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pusdatin-klh/sinta-admin-web/internal/session"
	"github.com/pusdatin-klh/sinta-admin-web/pkg/config"
	"github.com/pusdatin-klh/sinta-admin-web/pkg/enums"
	"github.com/pusdatin-klh/sinta-admin-web/pkg/logger"
	"github.com/pusdatin-klh/sinta-admin-web/pkg/metrics"
	redisclient "github.com/pusdatin-klh/sinta-admin-web/pkg/redis"
	"github.com/pusdatin-klh/sinta-admin-web/web"
	"github.com/pusdatin-klh/sinta-admin-web/web/controllers"
	"github.com/pusdatin-klh/sinta-admin-web/web/middleware"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	redisClient *redisclient.Client,
	sessionManager *session.Manager,
	ctrl *controllers.Controllers,
	httpMetrics *metrics.HTTPMetrics,
	registry *prometheus.Registry,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg, ctrl.Views),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(httpMetrics),
		middleware.Sessions(sessionManager, cfg.Session, logg),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, redisClient))
	})

	if registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(web.StaticFS()))))

	r.Get("/", ctrl.Home)
	r.Get("/login", ctrl.LoginForm)
	r.With(middleware.AuthRateLimit(loginPolicy, redisClient, logg, ctrl.Views)).Post("/login", ctrl.Login)
	r.Get("/register", ctrl.RegisterForm)
	r.With(middleware.AuthRateLimit(registerPolicy, redisClient, logg, ctrl.Views)).Post("/register", ctrl.Register)
	r.Post("/logout", ctrl.Logout)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Get("/profile", ctrl.Profile)
		r.Post("/profile", ctrl.ProfileUpdate)
		r.Post("/profile/password", ctrl.ProfilePassword)
	})

	r.Route("/admin", func(r chi.Router) {
		r.Use(middleware.RequireRole(enums.RoleAdmin))
		r.Get("/dashboard", ctrl.AdminDashboard)
		r.Get("/users/aktif", ctrl.UsersActive)
		r.Get("/users/pending", ctrl.UsersPending)
		r.Get("/users/logs", ctrl.ActivityLogs)
		r.Post("/users/{id}/approve", ctrl.ApproveUser)
		r.Post("/users/{id}/reject", ctrl.RejectUser)
		r.Post("/users/{id}/delete", ctrl.DeleteUser)
		r.Get("/settings", ctrl.Settings)
		r.Get("/settings/add", ctrl.SettingsAddForm)
		r.Post("/settings/add", ctrl.SettingsAdd)
		r.Post("/settings/{id}/delete", ctrl.DeletePusdatin)
	})

	r.Route("/pusdatin", func(r chi.Router) {
		r.Use(middleware.RequireRole(enums.RolePusdatin))
		r.Get("/dashboard", ctrl.PusdatinDashboard)
	})

	r.Route("/dinas", func(r chi.Router) {
		r.Use(middleware.RequireRole(enums.RoleProvince, enums.RoleRegency))
		r.Get("/dashboard", ctrl.DinasDashboard)
	})

	return r
}
