package controller

import (
	"music-promo-be/internal/dto"
	"music-promo-be/internal/pkg/serverutils"
	"music-promo-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IWalletController interface {
	RegisterRoutes(r fiber.Router)
	Balance(ctx *fiber.Ctx) error
	Transactions(ctx *fiber.Ctx) error
	CategoryStats(ctx *fiber.Ctx) error
	RequestWithdrawal(ctx *fiber.Ctx) error
	ShowWithdrawal(ctx *fiber.Ctx) error
	ListWithdrawals(ctx *fiber.Ctx) error
	CancelWithdrawal(ctx *fiber.Ctx) error
	WithdrawalQueue(ctx *fiber.Ctx) error
	MarkProcessing(ctx *fiber.Ctx) error
	CompleteWithdrawal(ctx *fiber.Ctx) error
	RejectWithdrawal(ctx *fiber.Ctx) error
	ReverseTransaction(ctx *fiber.Ctx) error
}

type walletController struct {
	ledgerService     service.ILedgerService
	withdrawalService service.IWithdrawalService
}

func NewWalletController(ledgerService service.ILedgerService, withdrawalService service.IWithdrawalService) IWalletController {
	return &walletController{
		ledgerService:     ledgerService,
		withdrawalService: withdrawalService,
	}
}

func (c *walletController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/wallet/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Get("balance", c.Balance)
	h.Get("transactions", c.Transactions)
	h.Get("stats", c.CategoryStats)
	h.Post("withdrawals", c.RequestWithdrawal)
	h.Get("withdrawals", c.ListWithdrawals)
	h.Get("withdrawals/:id", c.ShowWithdrawal)
	h.Post("withdrawals/:id/cancel", c.CancelWithdrawal)

	op := h.Group("", serverutils.RoleMiddleware("admin"))
	op.Get("withdrawal-queue", c.WithdrawalQueue)
	op.Post("withdrawals/:id/processing", c.MarkProcessing)
	op.Post("withdrawals/:id/complete", c.CompleteWithdrawal)
	op.Post("withdrawals/:id/reject", c.RejectWithdrawal)
	op.Post("transactions/:id/reverse", c.ReverseTransaction)
}

func (c *walletController) currentUser(ctx *fiber.Ctx) uuid.UUID {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)
	return userId
}

func (c *walletController) Balance(ctx *fiber.Ctx) error {
	res, err := c.ledgerService.GetBalance(ctx.Context(), c.currentUser(ctx))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Wallet balance", res))
}

func (c *walletController) Transactions(ctx *fiber.Ctx) error {
	res, err := c.ledgerService.GetTransactions(ctx.Context(), c.currentUser(ctx),
		ctx.QueryInt("page", 1), ctx.QueryInt("limit", 20))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Transaction history", res))
}

func (c *walletController) CategoryStats(ctx *fiber.Ctx) error {
	res, err := c.ledgerService.GetCategoryStats(ctx.Context(), c.currentUser(ctx))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Category stats", res))
}

func (c *walletController) RequestWithdrawal(ctx *fiber.Ctx) error {
	var req dto.RequestWithdrawalRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.withdrawalService.Request(ctx.Context(), c.currentUser(ctx), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Withdrawal requested", res))
}

func (c *walletController) ShowWithdrawal(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	res, err := c.withdrawalService.Show(ctx.Context(), c.currentUser(ctx), id)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Withdrawal detail", res))
}

func (c *walletController) ListWithdrawals(ctx *fiber.Ctx) error {
	res, err := c.withdrawalService.List(ctx.Context(), c.currentUser(ctx),
		ctx.QueryInt("page", 1), ctx.QueryInt("limit", 20))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Withdrawal history", res))
}

func (c *walletController) CancelWithdrawal(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	res, err := c.withdrawalService.Cancel(ctx.Context(), c.currentUser(ctx), id)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Withdrawal cancelled", res))
}

func (c *walletController) WithdrawalQueue(ctx *fiber.Ctx) error {
	res, err := c.withdrawalService.Queue(ctx.Context(),
		ctx.Query("status"),
		ctx.QueryInt("page", 1), ctx.QueryInt("limit", 20))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Withdrawal queue", res))
}

func (c *walletController) MarkProcessing(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	res, err := c.withdrawalService.MarkProcessing(ctx.Context(), id)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Withdrawal moved to processing", res))
}

func (c *walletController) CompleteWithdrawal(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	res, err := c.withdrawalService.Complete(ctx.Context(), id)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Withdrawal completed", res))
}

func (c *walletController) RejectWithdrawal(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var req dto.DecideRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	res, err := c.withdrawalService.Reject(ctx.Context(), id, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Withdrawal rejected", res))
}

func (c *walletController) ReverseTransaction(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var body struct {
		UserId uuid.UUID `json:"user_id"`
	}
	if err := ctx.BodyParser(&body); err != nil {
		return err
	}

	res, err := c.ledgerService.Reverse(ctx.Context(), body.UserId, id)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Transaction reversed", res))
}
