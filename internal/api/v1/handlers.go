package apiv1

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/ManuelReschke/PosCloud/internal/pkg/cache"
	"github.com/ManuelReschke/PosCloud/internal/pkg/database"
)

// Pong defines model for Pong.
type Pong struct {
	Ping string `json:"ping"`
}

// Health defines model for Health.
type Health struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Cache    string `json:"cache"`
}

// APIServer serves the unauthenticated v1 liveness and health endpoints
type APIServer struct {
	db    *gorm.DB
	cache *cache.Cache
}

// NewAPIServer creates a new API server instance
func NewAPIServer(db *gorm.DB, c *cache.Cache) *APIServer {
	return &APIServer{db: db, cache: c}
}

// RegisterHandlers mounts the v1 endpoints on router.
func RegisterHandlers(router fiber.Router, s *APIServer) {
	router.Get("/ping", s.GetPing)
	router.Get("/health", s.GetHealth)
}

// GetPing handles the ping endpoint
func (s *APIServer) GetPing(c *fiber.Ctx) error {
	response := Pong{
		Ping: "pong",
	}

	return c.Status(fiber.StatusOK).JSON(response)
}

// GetHealth reports database and cache reachability. A missing cache is
// "disabled" and does not make the service unhealthy.
func (s *APIServer) GetHealth(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
	defer cancel()

	resp := Health{Status: "ok", Database: "ok", Cache: "disabled"}
	if err := database.Ping(ctx, s.db); err != nil {
		resp.Status = "degraded"
		resp.Database = "unreachable"
	}
	if s.cache.Enabled() {
		resp.Cache = "ok"
		if err := s.cache.Ping(ctx); err != nil {
			resp.Status = "degraded"
			resp.Cache = "unreachable"
		}
	}

	status := fiber.StatusOK
	if resp.Database != "ok" {
		status = fiber.StatusServiceUnavailable
	}
	return c.Status(status).JSON(resp)
}
