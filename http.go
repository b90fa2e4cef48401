package auth

import (
	"github.com/gofiber/fiber/v2"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-router"
)

// ErrorResponse is the JSON error body for API clients.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// HTTPStatusFromError maps structured error categories to HTTP status
// codes. Unknown errors surface as 500.
func HTTPStatusFromError(err error) int {
	if err == nil {
		return fiber.StatusOK
	}

	var rich *goerrors.Error
	if !goerrors.As(err, &rich) {
		return fiber.StatusInternalServerError
	}

	// blocked-on-verification is a policy failure, not a credential one
	if rich.TextCode == TextCodeEmailNotVerified {
		return fiber.StatusForbidden
	}

	switch rich.Category {
	case goerrors.CategoryAuth:
		return fiber.StatusUnauthorized
	case goerrors.CategoryConflict:
		return fiber.StatusConflict
	case goerrors.CategoryValidation, goerrors.CategoryBadInput:
		return fiber.StatusBadRequest
	case goerrors.CategoryNotFound:
		return fiber.StatusNotFound
	case goerrors.CategoryRateLimit:
		return fiber.StatusTooManyRequests
	default:
		return fiber.StatusInternalServerError
	}
}

func renderError(ctx router.Context, err error) error {
	resp := ErrorResponse{Error: err.Error()}

	var rich *goerrors.Error
	if goerrors.As(err, &rich) {
		resp.Error = rich.Message
		resp.Code = rich.TextCode
	}

	return ctx.JSON(HTTPStatusFromError(err), resp)
}
