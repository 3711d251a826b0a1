package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ManuelReschke/PosCloud/internal/pkg/auth"
	"github.com/ManuelReschke/PosCloud/internal/pkg/usercontext"
)

// HandleRegister signs up a new business with its owner account.
func (h *Controllers) HandleRegister(c *fiber.Ctx) error {
	var req auth.RegisterInput
	if ok, err := bindJSON(c, &req); !ok {
		return err
	}

	session, err := h.Auth.Register(c.UserContext(), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(session)
}

func (h *Controllers) HandleLogin(c *fiber.Ctx) error {
	var req auth.LoginInput
	if ok, err := bindJSON(c, &req); !ok {
		return err
	}

	session, err := h.Auth.Login(c.UserContext(), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(session)
}

// HandleMe returns the caller's identity and user record.
func (h *Controllers) HandleMe(c *fiber.Ctx) error {
	id, _ := usercontext.GetIdentity(c)
	user, err := h.Auth.Me(c.UserContext(), id.UserID)
	if err != nil {
		return respondError(c, err)
	}

	resp := fiber.Map{
		"userId": id.UserID,
		"role":   id.Role,
		"user":   user,
	}
	if id.HasTenant() {
		resp["tenantId"] = id.TenantID
	} else {
		resp["tenantId"] = nil
	}
	return c.JSON(resp)
}
