package ui

import (
	"errors"

	"phone8ez/adapters/excel"
	"phone8ez/domain/core"
	apperrors "phone8ez/internal/errors"
	"phone8ez/internal/exchange"
	"phone8ez/internal/sheet"

	"github.com/gin-gonic/gin"
)

// errorCode classifies err into one of the application error codes
func errorCode(err error) string {
	switch {
	case errors.Is(err, exchange.ErrCloudReserved):
		return apperrors.CodeNotImplemented
	case errors.Is(err, exchange.ErrEmptyCollection):
		return apperrors.CodeConflict
	case errors.Is(err, exchange.ErrUnknownMode):
		return apperrors.CodeInvalidInput
	case exchange.IsValidationError(err), errors.Is(err, exchange.ErrFileRead):
		return apperrors.CodeValidationError
	case errors.Is(err, sheet.ErrEmptySheet), errors.Is(err, sheet.ErrNoBody),
		errors.Is(err, sheet.ErrTooFewDatasets), errors.Is(err, sheet.ErrHeaderMismatch),
		errors.Is(err, sheet.ErrEmptyMergeSource),
		errors.Is(err, excel.ErrUnsupportedFormat), errors.Is(err, excel.ErrNoRows):
		return apperrors.CodeValidationError
	case core.IsNotFoundError(err):
		return apperrors.CodeNotFound
	case core.IsValidationError(err):
		return apperrors.CodeInvalidInput
	case errors.Is(err, core.ErrUnauthenticated):
		return apperrors.CodeUnauthorized
	case errors.Is(err, core.ErrForbidden):
		return apperrors.CodeForbidden
	case errors.Is(err, core.ErrSubscriptionRequired):
		return apperrors.CodePaymentRequired
	case apperrors.IsAppError(err):
		return apperrors.GetCode(err)
	default:
		return apperrors.CodeInternalError
	}
}

// respondError writes the JSON error body for err and aborts the request.
// Server-side failures are logged and their details hidden from the client.
func (s *Server) respondError(c *gin.Context, handler string, err error) {
	code := errorCode(err)
	status := apperrors.HTTPStatus(code)

	body := gin.H{"error": exchange.Message(err), "code": code}
	var elemErr *exchange.ElementError
	if errors.As(err, &elemErr) {
		body["item"] = elemErr.Position()
	}

	if status >= 500 && code != apperrors.CodeNotImplemented {
		s.logger.Error("[%s] %v", handler, err)
		body["error"] = "internal server error"
	} else {
		s.logger.Warn("[%s] %v", handler, err)
	}
	c.AbortWithStatusJSON(status, body)
}
