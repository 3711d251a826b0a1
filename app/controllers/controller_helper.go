package controllers

import (
	"errors"
	"reflect"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"

	"github.com/ManuelReschke/PosCloud/internal/pkg/auth"
	"github.com/ManuelReschke/PosCloud/internal/pkg/billing"
	"github.com/ManuelReschke/PosCloud/internal/pkg/tenant"
)

// requestValidator reports request DTO fields by their json name.
var requestValidator = func() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}()

type apiError struct {
	status int
	code   string
}

// errorTable maps service errors onto HTTP responses.
var errorTable = []struct {
	err error
	apiError
}{
	{billing.ErrPlanNotFound, apiError{fiber.StatusNotFound, "plan_not_found"}},
	{billing.ErrTenantNotFound, apiError{fiber.StatusNotFound, "tenant_not_found"}},
	{billing.ErrSubscriptionNotFound, apiError{fiber.StatusNotFound, "subscription_not_found"}},
	{billing.ErrBillingNotFound, apiError{fiber.StatusNotFound, "billing_not_found"}},
	{billing.ErrInvalidPaymentStatus, apiError{fiber.StatusBadRequest, "invalid_status"}},
	{billing.ErrInvalidSignature, apiError{fiber.StatusBadRequest, "invalid_signature"}},
	{tenant.ErrTenantNotFound, apiError{fiber.StatusNotFound, "tenant_not_found"}},
	{tenant.ErrInvalidStatus, apiError{fiber.StatusBadRequest, "invalid_status"}},
	{tenant.ErrInvalidTransition, apiError{fiber.StatusConflict, "invalid_transition"}},
	{tenant.ErrUnknownModule, apiError{fiber.StatusBadRequest, "unknown_module"}},
	{tenant.ErrOutletLimitReached, apiError{fiber.StatusForbidden, "outlet_limit_reached"}},
	{tenant.ErrTenantInactive, apiError{fiber.StatusForbidden, "tenant_inactive"}},
	{auth.ErrEmailTaken, apiError{fiber.StatusConflict, "email_taken"}},
	{auth.ErrInvalidCredentials, apiError{fiber.StatusUnauthorized, "invalid_credentials"}},
	{auth.ErrUserNotFound, apiError{fiber.StatusNotFound, "user_not_found"}},
}

// respondError writes the JSON error body for err. Unmapped errors are
// logged and reported as a generic 500.
func respondError(c *fiber.Ctx, err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return validationFailed(c, verrs)
	}

	for _, e := range errorTable {
		if errors.Is(err, e.err) {
			return c.Status(e.status).JSON(fiber.Map{
				"error":   e.code,
				"message": e.err.Error(),
			})
		}
	}

	log.Errorf("%s %s failed: %v", c.Method(), c.Route().Path, err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error":   "internal_error",
		"message": "internal server error",
	})
}

// ErrorHandler is the fiber error handler. fiber errors such as 404 and 405
// keep their status; anything else becomes a generic 500.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(fiber.Map{
			"error":   "http_error",
			"message": fe.Message,
		})
	}
	log.Errorf("%s %s: %v", c.Method(), c.Path(), err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error":   "internal_error",
		"message": "internal server error",
	})
}

func validationFailed(c *fiber.Ctx, verrs validator.ValidationErrors) error {
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[lowerFirst(fe.Field())] = fe.Tag()
	}
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error":   "validation_failed",
		"message": "request validation failed",
		"fields":  fields,
	})
}

// bindJSON parses and validates the request body into dst.
// It writes the 400 response itself and returns false on failure.
func bindJSON(c *fiber.Ctx, dst interface{}) (bool, error) {
	if err := c.BodyParser(dst); err != nil {
		return false, c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "invalid_body",
			"message": "request body must be valid JSON",
		})
	}
	if err := requestValidator.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return false, validationFailed(c, verrs)
		}
		return false, respondError(c, err)
	}
	return true, nil
}

// uuidParam parses a UUID route parameter or writes a 400.
func uuidParam(c *fiber.Ctx, name string) (uuid.UUID, bool, error) {
	return uuidField(c, name, c.Params(name))
}

// uuidField parses raw as the UUID for the named field or writes a 400.
func uuidField(c *fiber.Ctx, field, raw string) (uuid.UUID, bool, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, false, c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "validation_failed",
			"message": "request validation failed",
			"fields":  fiber.Map{field: "uuid"},
		})
	}
	return id, true, nil
}

// ClientIP returns the originating client address. The headers set by
// Cloudflare and common reverse proxies are honoured only when the request
// came from a trusted proxy (fiber's TrustedProxies).
func ClientIP(c *fiber.Ctx) string {
	if !c.IsProxyTrusted() {
		return strings.TrimPrefix(c.IP(), "::ffff:")
	}
	if ip := strings.TrimSpace(c.Get("CF-Connecting-IP")); ip != "" {
		return ip
	}
	if xff := c.Get(fiber.HeaderXForwardedFor); xff != "" {
		if ip := strings.TrimSpace(strings.SplitN(xff, ",", 2)[0]); ip != "" {
			return ip
		}
	}
	if ip := strings.TrimSpace(c.Get("X-Real-IP")); ip != "" {
		return ip
	}
	return strings.TrimPrefix(c.IP(), "::ffff:")
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToLower(r[0])
	return string(r)
}
