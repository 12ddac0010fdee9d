package controller

import (
	"music-promo-be/internal/dto"
	"music-promo-be/internal/pkg/serverutils"
	"music-promo-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ITierController interface {
	RegisterRoutes(r fiber.Router)
	Current(ctx *fiber.Ctx) error
	Subscribe(ctx *fiber.Ctx) error
}

type tierController struct {
	tierService service.ITierService
}

func NewTierController(tierService service.ITierService) ITierController {
	return &tierController{
		tierService: tierService,
	}
}

func (c *tierController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/tier/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Get("me", c.Current)
	h.Post("subscribe", c.Subscribe)
}

func (c *tierController) Current(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	res, err := c.tierService.CurrentTier(ctx.Context(), userId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Current tier", res))
}

func (c *tierController) Subscribe(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	var req dto.SubscribeRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.tierService.Subscribe(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Subscription updated", res))
}
