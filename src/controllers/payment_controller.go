package controllers

import (
	"go-storefront-payments/src/controllers/models"
	"go-storefront-payments/src/infrastructure/auth"
	"go-storefront-payments/src/services/payment"

	"github.com/gofiber/fiber/v2"
)

type PaymentController struct {
	paymentService payment.Service
	authenticate   fiber.Handler
	authorizeOps   fiber.Handler
	verifyLimiter  fiber.Handler
}

// NewPaymentController wires the checkout routes behind authenticate. The
// verify route is additionally guarded by verifyLimiter when it is set, and
// the operator routes under /admin by authorizeOps.
func NewPaymentController(paymentService payment.Service, authenticate, authorizeOps, verifyLimiter fiber.Handler) *PaymentController {
	return &PaymentController{
		paymentService: paymentService,
		authenticate:   authenticate,
		authorizeOps:   authorizeOps,
		verifyLimiter:  verifyLimiter,
	}
}

func (c *PaymentController) Route(app *fiber.App) {
	api := app.Group("/payment", c.authenticate)
	api.Post("/create-order", c.CreateOrder)
	if c.verifyLimiter != nil {
		api.Post("/verify", c.verifyLimiter, c.VerifyPayment)
	} else {
		api.Post("/verify", c.VerifyPayment)
	}
	api.Get("/my-orders", c.ListMyOrders)
	api.Get("/orders/:id", c.GetOrder)

	ops := app.Group("/admin", c.authenticate, c.authorizeOps)
	ops.Post("/replay-failed-events", c.ReplayFailedEvents)
}

// CreateOrder godoc
// @Summary      Start checkout
// @Description  Persists a pending order and opens the matching Razorpay order
// @Tags         payment
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        order  body  models.CreateOrderRequest  true  "Checkout payload"
// @Success      200  {object}  models.CreateOrderResponse
// @Failure      400  {object}  models.MessageResponse
// @Failure      401  {object}  models.MessageResponse
// @Failure      500  {object}  models.MessageResponse
// @Router       /payment/create-order [post]
func (c *PaymentController) CreateOrder(ctx *fiber.Ctx) error {
	userID, err := auth.UserIDFromCtx(ctx)
	if err != nil {
		return err
	}

	var req models.CreateOrderRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request")
	}

	result, err := c.paymentService.CreateOrder(ctx.UserContext(), req.ToInput(userID))
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusOK).JSON(models.CreateOrderResponse{
		Success: true,
		Order:   result.Intent,
		OrderID: result.OrderID,
	})
}

// VerifyPayment godoc
// @Summary      Verify a payment
// @Description  Checks the Razorpay signature and marks the order paid
// @Tags         payment
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payment  body  models.VerifyPaymentRequest  true  "Checkout confirmation"
// @Success      200  {object}  models.MessageResponse
// @Failure      400  {object}  models.MessageResponse
// @Failure      429  {object}  models.MessageResponse
// @Failure      500  {object}  models.MessageResponse
// @Router       /payment/verify [post]
func (c *PaymentController) VerifyPayment(ctx *fiber.Ctx) error {
	var req models.VerifyPaymentRequest
	if err := ctx.BodyParser(&req); err != nil {
		return payment.ErrInvalidData
	}

	if err := c.paymentService.VerifyPayment(ctx.UserContext(), req.ToInput()); err != nil {
		return err
	}
	return ctx.Status(fiber.StatusOK).JSON(models.MessageResponse{Success: true, Message: "Payment verified"})
}

// ListMyOrders godoc
// @Summary      List my orders
// @Tags         payment
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  models.OrdersResponse
// @Failure      400  {object}  models.MessageResponse
// @Failure      401  {object}  models.MessageResponse
// @Router       /payment/my-orders [get]
func (c *PaymentController) ListMyOrders(ctx *fiber.Ctx) error {
	userID, err := auth.UserIDFromCtx(ctx)
	if err != nil {
		return err
	}

	orders, err := c.paymentService.ListMyOrders(ctx.UserContext(), userID)
	if err != nil {
		return err
	}
	return ctx.JSON(models.OrdersResponse{Success: true, Data: orders})
}

// GetOrder godoc
// @Summary      Get one of my orders
// @Tags         payment
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Order ID"
// @Success      200  {object}  models.OrderResponse
// @Failure      404  {object}  models.MessageResponse
// @Router       /payment/orders/{id} [get]
func (c *PaymentController) GetOrder(ctx *fiber.Ctx) error {
	userID, err := auth.UserIDFromCtx(ctx)
	if err != nil {
		return err
	}

	order, err := c.paymentService.GetOrder(ctx.UserContext(), userID, ctx.Params("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(models.OrderResponse{Success: true, Data: order})
}

// ReplayFailedEvents godoc
// @Summary      Replay failed payment events
// @Description  Republishes stored events that could not be delivered
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  models.ReplayResponse
// @Failure      401  {object}  models.MessageResponse
// @Failure      403  {object}  models.MessageResponse
// @Failure      409  {object}  models.MessageResponse
// @Failure      500  {object}  models.MessageResponse
// @Router       /admin/replay-failed-events [post]
func (c *PaymentController) ReplayFailedEvents(ctx *fiber.Ctx) error {
	result, err := c.paymentService.ReplayFailedEvents(ctx.UserContext())
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusOK).JSON(models.ReplayResponse{Success: true, Result: result})
}
