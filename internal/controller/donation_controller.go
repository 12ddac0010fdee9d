package controller

import (
	"music-promo-be/internal/dto"
	"music-promo-be/internal/pkg/serverutils"
	"music-promo-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IDonationController interface {
	RegisterRoutes(r fiber.Router)
	Checkout(ctx *fiber.Ctx) error
	Webhook(ctx *fiber.Ctx) error
}

type donationController struct {
	donationService service.IDonationService
}

func NewDonationController(donationService service.IDonationService) IDonationController {
	return &donationController{
		donationService: donationService,
	}
}

func (c *donationController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/donation/v1")
	// Checkout and the gateway callback are both unauthenticated: donors
	// do not have accounts, and Midtrans authenticates via signature.
	h.Post("checkout", c.Checkout)
	h.Post("webhook", c.Webhook)
}

func (c *donationController) Checkout(ctx *fiber.Ctx) error {
	var req dto.DonationCheckoutRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.donationService.Checkout(ctx.Context(), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Checkout created", res))
}

func (c *donationController) Webhook(ctx *fiber.Ctx) error {
	var req dto.MidtransWebhookRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := c.donationService.HandleNotification(ctx.Context(), &req); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("OK", nil))
}
