// Package apiserver provides the JSON API HTTP server of the catalog
package apiserver

import (
	"context"
	"net/http"

	"github.com/esasma/API-Recettes/internal/infrastructure/config"
	"github.com/esasma/API-Recettes/internal/infrastructure/http/handlers"
	"github.com/esasma/API-Recettes/internal/infrastructure/http/middleware"
	"github.com/esasma/API-Recettes/internal/infrastructure/monitoring"
	"github.com/esasma/API-Recettes/internal/ports/inbound"
	"github.com/esasma/API-Recettes/pkg/healthcheck"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

// Server is the catalog API HTTP server
type Server struct {
	config *config.Config
	logger *zap.Logger
	server *http.Server
	router *chi.Mux
}

// Dependencies are the collaborators the routes are served by
type Dependencies struct {
	Recipes  inbound.RecipeService
	Cuisines inbound.CuisineService
	Health   *healthcheck.HealthCheck
	Metrics  *monitoring.MetricsCollector
}

// NewServer creates a new API server instance
func NewServer(cfg *config.Config, log *zap.Logger, deps Dependencies) *Server {
	s := &Server{
		config: cfg,
		logger: log.Named("api-server"),
	}
	s.router = s.setupRoutes(deps)

	var handler http.Handler = s.router
	if cfg.Monitoring.EnableTracing {
		handler = otelhttp.NewHandler(handler, cfg.App.Name,
			otelhttp.WithSpanNameFormatter(func(operation string, r *http.Request) string {
				return r.Method + " " + r.URL.Path
			}),
		)
	}

	s.server = &http.Server{
		Addr:           cfg.Server.Address(),
		Handler:        handler,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
	}

	return s
}

// setupRoutes configures the catalog routes
func (s *Server) setupRoutes(deps Dependencies) *chi.Mux {
	mon := s.config.Monitoring
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(s.logger, mon.HealthCheckPath, mon.ReadinessPath, mon.MetricsPath))
	r.Use(chimiddleware.Recoverer)
	if mon.EnableMetrics && deps.Metrics != nil {
		r.Use(deps.Metrics.HTTPMiddleware)
	}
	r.Use(middleware.Security())
	r.Use(middleware.CORS(s.config.Server))

	if deps.Health != nil {
		r.Get(mon.HealthCheckPath, deps.Health.Handler())
		r.Get(mon.ReadinessPath, deps.Health.ReadinessHandler())
		r.Get("/live", deps.Health.LivenessHandler())
	}
	if mon.EnableMetrics && deps.Metrics != nil {
		r.Method(http.MethodGet, mon.MetricsPath, deps.Metrics.Handler())
	}
	r.Get("/openapi.yaml", serveOpenAPISpec)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/recipes", http.StatusFound)
	})

	recipes := handlers.NewRecipeHandlers(deps.Recipes, s.logger)
	cuisines := handlers.NewCuisineHandlers(deps.Cuisines, s.logger)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RateLimit(s.config.RateLimit))
		r.Use(middleware.JSONOnly())

		r.Route("/recipes", func(r chi.Router) {
			r.Get("/", recipes.ListRecipes)
			r.Post("/add", recipes.CreateRecipe)
			r.Get("/cuisine/{cuisineId}", recipes.ListByCuisine)
			r.Get("/goal/{goalId}", recipes.ListByGoal)
			r.Get("/no-allergy/{allergyId}", recipes.ListWithoutAllergy)

			r.Route("/{recipeId}", func(r chi.Router) {
				r.Get("/", recipes.GetRecipe)
				r.Put("/update", recipes.UpdateRecipe)
				r.Delete("/delete", recipes.DeleteRecipe)
				r.Post("/add/ingredients", recipes.AddIngredient)
				r.Put("/instructions/{stepNumber}/update", recipes.UpdateInstructionStep)
				r.Delete("/instructions/{instructionId}/delete", recipes.RemoveInstructionStep)
				r.Delete("/ingredients/{ingredientId}/delete", recipes.RemoveIngredient)
			})
		})

		r.Route("/cuisines", func(r chi.Router) {
			r.Post("/add", cuisines.AddCuisine)
			r.Delete("/{cuisineId}/delete", cuisines.DeleteCuisine)
		})
	})

	return r
}

// Handler returns the root handler, including tracing when enabled
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Start starts the HTTP server and blocks until it stops
func (s *Server) Start() error {
	s.logger.Info("Starting catalog API server", zap.String("address", s.server.Addr))
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down catalog API server")
	return s.server.Shutdown(ctx)
}
