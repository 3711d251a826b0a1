package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"

	"github.com/ManuelReschke/PosCloud/app/controllers"
	"github.com/ManuelReschke/PosCloud/app/models"
	apiv1 "github.com/ManuelReschke/PosCloud/internal/api/v1"
	"github.com/ManuelReschke/PosCloud/internal/pkg/middleware"
	"github.com/ManuelReschke/PosCloud/internal/pkg/ratelimit"
)

type ApiRouter struct {
	deps Deps
}

func (h ApiRouter) InstallRouter(app *fiber.App) {
	cfg := h.deps.Config
	ctrl := h.deps.Controllers

	api := app.Group("/api",
		h.deps.Metrics.Middleware(),
		cors.New(cors.Config{
			AllowOrigins: cfg.CORSOrigin,
			AllowHeaders: "Origin, Content-Type, Accept, Authorization, Stripe-Signature",
		}),
		ratelimit.New(cfg, h.deps.LimiterStorage, controllers.ClientIP),
	)
	api.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
			"message": "Hello from api",
		})
	})

	// API v1 liveness and health
	v1 := api.Group("/v1")
	apiServer := apiv1.NewAPIServer(h.deps.DB, h.deps.Cache)
	apiv1.RegisterHandlers(v1, apiServer)

	requireAuth := middleware.RequireAuth(h.deps.Tokens)
	tenantScoped := func(p models.Permission) []fiber.Handler {
		return []fiber.Handler{middleware.RequirePermission(p), middleware.RequireTenant}
	}
	admin := middleware.RequirePermission(models.PermAdminister)

	auth := api.Group("/auth")
	auth.Post("/register", ctrl.HandleRegister)
	auth.Post("/login", ctrl.HandleLogin)
	auth.Get("/me", requireAuth, ctrl.HandleMe)

	subs := api.Group("/subscriptions", requireAuth)
	subs.Get("/current", append(tenantScoped(models.PermViewBilling), ctrl.HandleCurrentSubscription)...)
	subs.Get("/plans", append(tenantScoped(models.PermViewTenant), ctrl.HandleListPlans)...)
	subs.Post("/subscribe", append(tenantScoped(models.PermManageBilling), ctrl.HandleSubscribe)...)
	subs.Get("/billing", append(tenantScoped(models.PermViewBilling), ctrl.HandleListBilling)...)
	subs.Post("/billing/update-payment", append(tenantScoped(models.PermManageBilling), ctrl.HandleUpdatePayment)...)
	subs.Post("/admin/plans", admin, ctrl.HandleAdminCreatePlan)
	subs.Put("/admin/plans/:planId/active", admin, ctrl.HandleAdminSetPlanActive)

	tenants := api.Group("/tenants", requireAuth)
	tenants.Get("/me", append(tenantScoped(models.PermViewTenant), ctrl.HandleGetTenant)...)
	tenants.Put("/me", append(tenantScoped(models.PermManageTenant), ctrl.HandleUpdateTenant)...)
	tenants.Get("/modules", append(tenantScoped(models.PermViewTenant), ctrl.HandleListModules)...)
	tenants.Post("/modules/toggle", append(tenantScoped(models.PermManageTenant), ctrl.HandleToggleModule)...)
	tenants.Get("/admin/all", admin, ctrl.HandleAdminListTenants)
	tenants.Put("/admin/:tenantId/status", admin, ctrl.HandleAdminSetTenantStatus)

	outlets := api.Group("/outlets", requireAuth)
	outlets.Get("/", append(tenantScoped(models.PermViewTenant), ctrl.HandleListOutlets)...)
	outlets.Post("/", append(tenantScoped(models.PermManageTenant), ctrl.HandleCreateOutlet)...)

	// Authenticated by the Stripe-Signature header, not a bearer token.
	api.Post("/webhooks/stripe", ctrl.HandleStripeWebhook)
}

func NewApiRouter(deps Deps) *ApiRouter {
	return &ApiRouter{deps: deps}
}
