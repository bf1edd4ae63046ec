// FILE: internal/controller/oauth_controller.go
package controller

import (
	"fmt"

	"datacloud-analytics-be/internal/pkg/serverutils"
	"datacloud-analytics-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IOAuthController interface {
	RegisterRoutes(r fiber.Router)
}

type oauthController struct {
	service   service.IOAuthService
	clientURL string
}

func NewOAuthController(service service.IOAuthService, clientURL string) IOAuthController {
	return &oauthController{
		service:   service,
		clientURL: clientURL,
	}
}

func (c *oauthController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/auth")
	h.Get("/:provider", c.RedirectToProvider)
	h.Get("/:provider/callback", c.HandleCallback)
}

func (c *oauthController) RedirectToProvider(ctx *fiber.Ctx) error {
	provider := ctx.Params("provider")
	url, err := c.service.GetLoginURL(provider)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
	}
	return ctx.Redirect(url, fiber.StatusTemporaryRedirect)
}

func (c *oauthController) HandleCallback(ctx *fiber.Ctx) error {
	provider := ctx.Params("provider")
	code := ctx.Query("code")
	if code == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Missing authorization code"))
	}

	res, err := c.service.HandleCallback(ctx.Context(), provider, code)
	if err != nil {
		return ctx.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse(401, err.Error()))
	}

	// Hand the token to the SPA via fragment so it never hits server logs.
	return ctx.Redirect(fmt.Sprintf("%s/auth/callback#token=%s", c.clientURL, res.Token), fiber.StatusTemporaryRedirect)
}
