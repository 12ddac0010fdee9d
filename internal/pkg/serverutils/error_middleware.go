package serverutils

import (
	"github.com/gofiber/fiber/v2"

	"music-promo-be/internal/apperror"
)

// ErrorHandlerMiddleware converts domain errors into the response
// envelope so controllers can return errors bare.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		if fe, ok := err.(*fiber.Error); ok {
			return ctx.Status(fe.Code).JSON(ErrorResponse(fe.Code, fe.Message))
		}

		code := statusForKind(apperror.KindOf(err))
		return ctx.Status(code).JSON(ErrorResponse(code, err.Error()))
	}
}

func statusForKind(kind apperror.Kind) int {
	switch kind {
	case apperror.KindValidation:
		return fiber.StatusBadRequest
	case apperror.KindNotFound:
		return fiber.StatusNotFound
	case apperror.KindInvalidState, apperror.KindDemoItem:
		return fiber.StatusConflict
	case apperror.KindInsufficientBalance:
		return fiber.StatusUnprocessableEntity
	default:
		return fiber.StatusInternalServerError
	}
}
