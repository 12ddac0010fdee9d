package controller

import (
	"music-promo-be/internal/dto"
	"music-promo-be/internal/pkg/serverutils"
	"music-promo-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IModerationController interface {
	RegisterRoutes(r fiber.Router)
	Submit(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	ListMine(ctx *fiber.Ctx) error
	Queue(ctx *fiber.Ctx) error
	Approve(ctx *fiber.Ctx) error
	Reject(ctx *fiber.Ctx) error
	BulkApprove(ctx *fiber.Ctx) error
	BulkReject(ctx *fiber.Ctx) error
}

type moderationController struct {
	moderationService service.IModerationService
}

func NewModerationController(moderationService service.IModerationService) IModerationController {
	return &moderationController{
		moderationService: moderationService,
	}
}

func (c *moderationController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/moderation/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Post("items", c.Submit)
	h.Get("items/mine", c.ListMine)
	h.Get("items/:id", c.Show)

	m := h.Group("", serverutils.RoleMiddleware("moderator", "admin"))
	m.Get("queue", c.Queue)
	m.Post("items/:id/approve", c.Approve)
	m.Post("items/:id/reject", c.Reject)
	m.Post("items/bulk-approve", c.BulkApprove)
	m.Post("items/bulk-reject", c.BulkReject)
}

func (c *moderationController) Submit(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	var req dto.SubmitItemRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.moderationService.Submit(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Item submitted for review", res))
}

func (c *moderationController) Show(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	res, err := c.moderationService.Show(ctx.Context(), id)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Item detail", res))
}

func (c *moderationController) ListMine(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	res, err := c.moderationService.List(ctx.Context(), &userId,
		ctx.Query("status"), ctx.Query("content_type"),
		ctx.QueryInt("page", 1), ctx.QueryInt("limit", 20))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Your submissions", res))
}

func (c *moderationController) Queue(ctx *fiber.Ctx) error {
	status := ctx.Query("status", "pending")

	res, err := c.moderationService.List(ctx.Context(), nil,
		status, ctx.Query("content_type"),
		ctx.QueryInt("page", 1), ctx.QueryInt("limit", 20))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Moderation queue", res))
}

func (c *moderationController) Approve(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	// The note is optional on approval.
	var req dto.DecideRequest
	if len(ctx.Body()) > 0 {
		if err := ctx.BodyParser(&req); err != nil {
			return err
		}
	}

	res, err := c.moderationService.Approve(ctx.Context(), id, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Item approved", res))
}

func (c *moderationController) Reject(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var req dto.DecideRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	res, err := c.moderationService.Reject(ctx.Context(), id, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Item rejected", res))
}

func (c *moderationController) BulkApprove(ctx *fiber.Ctx) error {
	var req dto.BulkDecideRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.moderationService.BulkApprove(ctx.Context(), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Bulk approve processed", res))
}

func (c *moderationController) BulkReject(ctx *fiber.Ctx) error {
	var req dto.BulkDecideRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.moderationService.BulkReject(ctx.Context(), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Bulk reject processed", res))
}
