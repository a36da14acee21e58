package controllers

import (
	"errors"

	"go-storefront-payments/src/controllers/models"
	"go-storefront-payments/src/infrastructure/log"
	"go-storefront-payments/src/services/catalog"
	"go-storefront-payments/src/services/payment"

	"github.com/gofiber/fiber/v2"
)

const internalErrorMessage = "Something went wrong, please try again later"

// ErrorHandler maps domain errors to status codes. Anything unrecognized is
// logged and answered with an opaque 500.
func ErrorHandler(logger log.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code, message := classify(err)
		if code >= fiber.StatusInternalServerError {
			logger.Exception(c.UserContext(), "HTTP request error", err)
		}
		return c.Status(code).JSON(models.MessageResponse{Success: false, Message: message})
	}
}

func classify(err error) (int, string) {
	var paymentErr *payment.Error
	if errors.As(err, &paymentErr) {
		switch {
		case errors.Is(paymentErr, payment.ErrNotFound):
			return fiber.StatusNotFound, paymentErr.Message
		case errors.Is(paymentErr, payment.ErrConflict):
			return fiber.StatusConflict, paymentErr.Message
		case errors.Is(paymentErr, payment.ErrValidation), errors.Is(paymentErr, payment.ErrIntegrity):
			return fiber.StatusBadRequest, paymentErr.Message
		}
	}

	switch {
	case errors.Is(err, catalog.ErrProductNotFound):
		return fiber.StatusNotFound, "Product not found"
	case errors.Is(err, catalog.ErrMissingCategory):
		return fiber.StatusBadRequest, "Provide category id"
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		if fiberErr.Code >= fiber.StatusInternalServerError {
			return fiberErr.Code, internalErrorMessage
		}
		return fiberErr.Code, fiberErr.Message
	}

	return fiber.StatusInternalServerError, internalErrorMessage
}
