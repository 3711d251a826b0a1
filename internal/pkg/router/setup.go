package router

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/ManuelReschke/PosCloud/app/controllers"
	"github.com/ManuelReschke/PosCloud/internal/pkg/cache"
	"github.com/ManuelReschke/PosCloud/internal/pkg/config"
	"github.com/ManuelReschke/PosCloud/internal/pkg/metrics"
	"github.com/ManuelReschke/PosCloud/internal/pkg/security"
)

// Router installs a group of routes on the app.
type Router interface {
	InstallRouter(app *fiber.App)
}

// Deps carries everything the routes are wired to.
type Deps struct {
	Config      *config.Config
	Controllers *controllers.Controllers
	Tokens      *security.TokenIssuer
	Metrics     *metrics.Metrics
	DB          *gorm.DB
	Cache       *cache.Cache
	// LimiterStorage is optional; nil keeps limiter counters in memory.
	LimiterStorage fiber.Storage
}

func InstallRouter(app *fiber.App, deps Deps) {
	setup(app, NewApiRouter(deps))
}

func setup(app *fiber.App, router ...Router) {
	for _, r := range router {
		r.InstallRouter(app)
	}
}
