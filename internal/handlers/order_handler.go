package handlers

import (
	"log"

	"gudang/internal/models"
	"gudang/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// createOrderRequest is the wire format for placing an order.
type createOrderRequest struct {
	Products []orderItemRequest `json:"products" validate:"required,min=1,dive"`
}

type orderItemRequest struct {
	ProductID string `json:"productId" validate:"required,len=24,hexadecimal"`
	Quantity  int    `json:"quantity" validate:"required,gt=0"`
}

// OrderHandler handles HTTP requests for orders.
type OrderHandler struct {
	service  *services.OrderService
	validate *validator.Validate
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(service *services.OrderService) *OrderHandler {
	return &OrderHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the order routes with the Fiber app.
func (h *OrderHandler) RegisterRoutes(router fiber.Router) {
	orderRoutes := router.Group("/orders")
	orderRoutes.Post("/", h.HandleCreateOrder)
	orderRoutes.Get("/:orderId", h.HandleGetOrderByID)
	orderRoutes.Post("/:orderId/revert", h.HandleRevertOrder)
}

// HandleCreateOrder places a new order. Stock checks, decrements and the
// order insert happen atomically in the service; any line-item failure
// surfaces as a 400 with nothing persisted.
func (h *OrderHandler) HandleCreateOrder(c *fiber.Ctx) error {
	var req createOrderRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing create order request body: %v", err)
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	if err := h.validate.Struct(&req); err != nil {
		return err
	}

	items := make([]models.OrderItem, 0, len(req.Products))
	for _, item := range req.Products {
		items = append(items, models.OrderItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		})
	}

	order, err := h.service.CreateOrder(items)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(order)
}

// HandleGetOrderByID retrieves a single order by its ID.
func (h *OrderHandler) HandleGetOrderByID(c *fiber.Ctx) error {
	orderID := c.Params("orderId")
	if !models.IsValidID(orderID) {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid order ID")
	}

	order, err := h.service.GetOrderByID(orderID)
	if err != nil {
		return err
	}
	return c.JSON(order)
}

// HandleRevertOrder restores the stock an order consumed and soft-deletes
// the order.
func (h *OrderHandler) HandleRevertOrder(c *fiber.Ctx) error {
	orderID := c.Params("orderId")
	if !models.IsValidID(orderID) {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid order ID")
	}

	if err := h.service.RevertOrder(orderID); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
