package main

import (
	"os"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/basicauth"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ManuelReschke/PosCloud/app/controllers"
	"github.com/ManuelReschke/PosCloud/app/repository"
	"github.com/ManuelReschke/PosCloud/internal/pkg/auth"
	"github.com/ManuelReschke/PosCloud/internal/pkg/billing"
	"github.com/ManuelReschke/PosCloud/internal/pkg/cache"
	"github.com/ManuelReschke/PosCloud/internal/pkg/config"
	"github.com/ManuelReschke/PosCloud/internal/pkg/database"
	"github.com/ManuelReschke/PosCloud/internal/pkg/metrics"
	"github.com/ManuelReschke/PosCloud/internal/pkg/ratelimit"
	"github.com/ManuelReschke/PosCloud/internal/pkg/router"
	"github.com/ManuelReschke/PosCloud/internal/pkg/security"
	"github.com/ManuelReschke/PosCloud/internal/pkg/tenant"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.IsDev() {
		log.SetLevel(log.LevelDebug)
	}

	app, err := NewApplication(cfg)
	if err != nil {
		log.Fatalf("startup: %v", err)
	}
	log.Fatal(app.Listen(cfg.ListenAddr()))
}

func NewApplication(cfg *config.Config) (*fiber.App, error) {
	db, err := database.SetupDatabase(cfg)
	if err != nil {
		return nil, err
	}
	planCache := cache.New(cache.SetupCache(cfg))

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(registry)

	tokens := security.NewTokenIssuer(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTTTL)
	repos := repository.NewFactory(db).GetRepositories()

	ctrl := &controllers.Controllers{
		Auth: auth.NewService(repos, tokens, cfg.TrialDays),
		Billing: billing.NewService(repos, billing.Options{
			Cache:        planCache,
			Metrics:      m,
			PlanCacheTTL: cfg.PlanCacheTTL,
		}),
		Tenants:             tenant.NewService(repos, m),
		StripeWebhookSecret: cfg.StripeWebhookSecret,
	}

	app := fiber.New(fiber.Config{
		AppName:      "PosCloud",
		BodyLimit:    1 << 20,
		ErrorHandler: controllers.ErrorHandler,

		EnableTrustedProxyCheck: true,
		TrustedProxies:          cfg.TrustedProxies,
	})

	// recovery and logging
	app.Use(recover.New(), logger.New())

	// prometheus metrics and fiber monitor share the ops credentials
	ops := basicauth.New(basicauth.Config{
		Users: map[string]string{
			cfg.MetricsUser: cfg.MetricsPassword,
		},
	})
	if cfg.MetricsPassword == "" {
		log.Warn("METRICS_PASSWORD is empty; /metrics and /monitor are disabled")
		ops = func(c *fiber.Ctx) error { return fiber.ErrNotFound }
	}
	app.Get("/metrics", ops, adaptor.HTTPHandler(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))
	app.Get("/monitor", ops, monitor.New(monitor.Config{Title: "PosCloud Monitor"}))

	// SWAGGER / OPENAPI
	if docPath := findOpenAPIDoc(); docPath != "" {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/docs/api/",
			FilePath: docPath,
			Path:     "v1",
		}))
	} else {
		log.Warn("openapi.yml not found; API docs are disabled")
	}

	// ROUTER
	router.InstallRouter(app, router.Deps{
		Config:         cfg,
		Controllers:    ctrl,
		Tokens:         tokens,
		Metrics:        m,
		DB:             db,
		Cache:          planCache,
		LimiterStorage: ratelimit.NewStorage(cfg, planCache.Client()),
	})

	return app, nil
}

func findOpenAPIDoc() string {
	// Define possible base paths
	basePaths := []string{
		"./",        // Current directory
		"../../",    // From cmd/poscloud to project root
		"../../../", // Fallback
	}
	for _, path := range basePaths {
		candidate := path + "public/docs/v1/openapi.yml"
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return ""
}
