package handlers

import (
	"log"

	"gudang/internal/models"
	"gudang/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// ProductHandler handles HTTP requests for products.
type ProductHandler struct {
	service  *services.ProductService
	validate *validator.Validate
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.ProductService) *ProductHandler {
	return &ProductHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the product routes with the Fiber app.
func (h *ProductHandler) RegisterRoutes(router fiber.Router) {
	productRoutes := router.Group("/products")
	productRoutes.Get("/", h.HandleGetProducts)
	productRoutes.Post("/", h.HandleCreateProduct)
	productRoutes.Post("/:productId/restock", h.HandleRestockProduct)
	productRoutes.Post("/:productId/sell", h.HandleSellProduct)
}

// HandleGetProducts retrieves all products.
func (h *ProductHandler) HandleGetProducts(c *fiber.Ctx) error {
	products, err := h.service.GetAllProducts()
	if err != nil {
		return err
	}
	return c.JSON(products)
}

// HandleCreateProduct creates a new product.
func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	var product models.Product
	if err := c.BodyParser(&product); err != nil {
		log.Printf("Error parsing create product request body: %v", err)
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	// The identifier is always generated server-side.
	product.ID = ""

	if err := h.validate.Struct(&product); err != nil {
		return err
	}

	if err := h.service.CreateProduct(&product); err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(product)
}

// HandleRestockProduct increments the product's stock by one.
func (h *ProductHandler) HandleRestockProduct(c *fiber.Ctx) error {
	return h.handleAdjustStock(c, 1)
}

// HandleSellProduct decrements the product's stock by one.
func (h *ProductHandler) HandleSellProduct(c *fiber.Ctx) error {
	return h.handleAdjustStock(c, -1)
}

func (h *ProductHandler) handleAdjustStock(c *fiber.Ctx, delta int) error {
	productID := c.Params("productId")
	if !models.IsValidID(productID) {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid product ID")
	}

	product, err := h.service.AdjustStock(productID, delta)
	if err != nil {
		return err
	}
	return c.JSON(product)
}
