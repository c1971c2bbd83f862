package transport

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/teamtodo/taskgate/internal/auth"
	"github.com/teamtodo/taskgate/internal/config"
	"github.com/teamtodo/taskgate/internal/observability"
	"github.com/teamtodo/taskgate/internal/registry"
)

// Dependencies bundles everything the router needs.
type Dependencies struct {
	Config      *config.Config
	Registry    *registry.Registry
	Dispatcher  Dispatcher
	AuthHandler *AuthHandler
	TokenIssuer *auth.TokenIssuer
	Metrics     *observability.Metrics
	Logger      *zap.Logger
}

// NewRouter assembles the HTTP surface: the account endpoints, the routed
// call table, and the operational endpoints.
func NewRouter(deps Dependencies) http.Handler {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(Recovery(logger))
	r.Use(SecurityHeaders)
	r.Use(CORS(deps.Config.Server.CORS))
	r.Use(RequestLogging(logger))
	r.Use(SessionAuth(deps.TokenIssuer, deps.Config.Auth.CookieName))

	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		WriteJSON(w, logger, http.StatusOK, map[string]string{"status": "ok"})
	})
	if deps.Config.Observability.Metrics.Enabled {
		path := deps.Config.Observability.Metrics.Path
		if path == "" {
			path = "/metrics"
		}
		r.Method(http.MethodGet, path, observability.Handler())
	}

	r.Post("/signup", deps.AuthHandler.Signup)
	r.Post("/signup/confirm", deps.AuthHandler.SignupConfirm)
	r.Post("/login", deps.AuthHandler.Login)
	r.Post("/login/verify", deps.AuthHandler.LoginVerify)
	r.Post("/logout", deps.AuthHandler.Logout)
	r.Post("/change-password", deps.AuthHandler.ChangePassword)
	r.Get("/auth", deps.AuthHandler.Session)

	for _, route := range deps.Registry.Routes() {
		handler := CallHandler(route, deps.Dispatcher, logger)
		if deps.Metrics != nil {
			r.With(deps.Metrics.HTTPMiddleware(route.Pattern)).
				Method(route.Method, route.Pattern, handler)
			continue
		}
		r.Method(route.Method, route.Pattern, handler)
	}

	return r
}
