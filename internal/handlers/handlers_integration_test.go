package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync/atomic"
	"testing"

	"gudang/internal/handlers"
	"gudang/internal/models"
	"gudang/internal/repositories"
	"gudang/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var dbCounter int64

// setupApp builds the Fiber app against a fresh in-memory SQLite database,
// with all repositories, services and handlers wired the same way main does.
func setupApp(t *testing.T) *fiber.App {
	t.Helper()

	viper.SetDefault("APP_ENV", "development")
	viper.AutomaticEnv()

	// A unique name per setup keeps test databases isolated from each other.
	dsn := fmt.Sprintf("file:gudangtest%d?mode=memory&cache=shared", atomic.AddInt64(&dbCounter, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err, "failed to open in-memory database")

	err = db.AutoMigrate(&models.Product{}, &models.Order{}, &models.OrderItem{})
	require.NoError(t, err, "failed to migrate test database")

	productRepo := repositories.NewGORMProductRepository(db)
	orderRepo := repositories.NewGORMOrderRepository(db)
	txManager := repositories.NewGORMTxManager(db)

	productService := services.NewProductService(productRepo, txManager)
	orderService := services.NewOrderService(orderRepo, txManager, nil) // nil event publisher

	productHandler := handlers.NewProductHandler(productService)
	orderHandler := handlers.NewOrderHandler(orderService)

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.NewErrorHandler(viper.GetString("APP_ENV")),
	})
	productHandler.RegisterRoutes(app)
	orderHandler.RegisterRoutes(app)

	return app
}

// TestMain suppresses logging during tests for cleaner output.
func TestMain(m *testing.M) {
	log.SetOutput(io.Discard)
	os.Exit(m.Run())
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(jsonBody)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()

	var decoded map[string]interface{}
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &decoded), "body was: %s", raw)
	}
	return resp, decoded
}

func createProduct(t *testing.T, app *fiber.App, name string, price float64, stock int) string {
	t.Helper()

	resp, body := doJSON(t, app, http.MethodPost, "/products", map[string]interface{}{
		"name":        name,
		"description": "integration test product",
		"price":       price,
		"stock":       stock,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	id, _ := body["id"].(string)
	require.True(t, models.IsValidID(id), "created product ID %q is not a 24-hex identifier", id)
	return id
}

func getStock(t *testing.T, app *fiber.App, productID string) int {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, "/products", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var products []map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&products))
	for _, p := range products {
		if p["id"] == productID {
			return int(p["stock"].(float64))
		}
	}
	t.Fatalf("product %s not found in listing", productID)
	return 0
}

func TestCreateAndListProducts(t *testing.T) {
	app := setupApp(t)

	id := createProduct(t, app, "Laptop", 1200, 10)

	req := httptest.NewRequest(http.MethodGet, "/products", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var products []map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&products))
	require.Len(t, products, 1)
	assert.Equal(t, id, products[0]["id"])
	assert.Equal(t, "Laptop", products[0]["name"])
	assert.Equal(t, 1200.0, products[0]["price"])
	assert.Equal(t, 10.0, products[0]["stock"])
}

func TestCreateProduct_Validation(t *testing.T) {
	app := setupApp(t)

	cases := []struct {
		name string
		body map[string]interface{}
	}{
		{"missing name", map[string]interface{}{"description": "d", "price": 10, "stock": 1}},
		{"name too long", map[string]interface{}{"name": strings.Repeat("x", 51), "description": "d", "price": 10, "stock": 1}},
		{"zero price", map[string]interface{}{"name": "Widget", "description": "d", "price": 0, "stock": 1}},
		{"negative price", map[string]interface{}{"name": "Widget", "description": "d", "price": -5, "stock": 1}},
		{"negative stock", map[string]interface{}{"name": "Widget", "description": "d", "price": 10, "stock": -1}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp, body := doJSON(t, app, http.MethodPost, "/products", tc.body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			assert.Equal(t, "Validation failed", body["message"])
		})
	}

	// Zero stock is allowed even though zero price is not.
	resp, _ := doJSON(t, app, http.MethodPost, "/products", map[string]interface{}{
		"name": "Widget", "description": "d", "price": 10, "stock": 0,
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
}

func TestRestockAndSell(t *testing.T) {
	app := setupApp(t)
	id := createProduct(t, app, "Mouse", 25, 1)

	resp, body := doJSON(t, app, http.MethodPost, "/products/"+id+"/sell", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 0.0, body["stock"])

	// Selling at zero stock must be rejected and leave stock untouched.
	resp, body = doJSON(t, app, http.MethodPost, "/products/"+id+"/sell", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body["message"], "stock cannot be negative")
	assert.Equal(t, 0, getStock(t, app, id))

	resp, body = doJSON(t, app, http.MethodPost, "/products/"+id+"/restock", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 1.0, body["stock"])
}

func TestIdentifierFormatValidation(t *testing.T) {
	app := setupApp(t)
	unusedID := models.NewID()

	// Malformed identifiers are a validation failure (400), distinct from a
	// well-formed identifier that points at nothing (404).
	cases := []struct {
		name   string
		method string
		path   string
		status int
	}{
		{"restock malformed id", http.MethodPost, "/products/not-hex/restock", http.StatusBadRequest},
		{"restock short hex id", http.MethodPost, "/products/abc123/restock", http.StatusBadRequest},
		{"restock unknown id", http.MethodPost, "/products/" + unusedID + "/restock", http.StatusNotFound},
		{"sell malformed id", http.MethodPost, "/products/zzzzzzzzzzzzzzzzzzzzzzzz/sell", http.StatusBadRequest},
		{"sell unknown id", http.MethodPost, "/products/" + unusedID + "/sell", http.StatusNotFound},
		{"revert malformed id", http.MethodPost, "/orders/not-an-id/revert", http.StatusBadRequest},
		{"revert unknown id", http.MethodPost, "/orders/" + unusedID + "/revert", http.StatusNotFound},
		{"get order malformed id", http.MethodGet, "/orders/not-an-id", http.StatusBadRequest},
		{"get order unknown id", http.MethodGet, "/orders/" + unusedID, http.StatusNotFound},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp, body := doJSON(t, app, tc.method, tc.path, nil)
			assert.Equal(t, tc.status, resp.StatusCode)
			assert.NotEmpty(t, body["message"])
		})
	}
}

func TestCreateOrder_EndToEnd(t *testing.T) {
	app := setupApp(t)
	id := createProduct(t, app, "Laptop", 100, 10)

	resp, body := doJSON(t, app, http.MethodPost, "/orders", map[string]interface{}{
		"products": []map[string]interface{}{
			{"productId": id, "quantity": 1},
		},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, 100.0, body["totalAmount"])
	assert.Equal(t, "fake-customer-id", body["customerId"])
	assert.Equal(t, false, body["isDeleted"])
	orderID, _ := body["id"].(string)
	require.True(t, models.IsValidID(orderID))
	assert.Equal(t, 9, getStock(t, app, id))

	// Revert restores stock and soft-deletes the order.
	req := httptest.NewRequest(http.MethodPost, "/orders/"+orderID+"/revert", nil)
	revertResp, err := app.Test(req, -1)
	require.NoError(t, err)
	revertResp.Body.Close()
	assert.Equal(t, http.StatusNoContent, revertResp.StatusCode)
	assert.Equal(t, 10, getStock(t, app, id))

	resp, body = doJSON(t, app, http.MethodGet, "/orders/"+orderID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["isDeleted"])

	// A second revert is rejected and stock stays put.
	resp, body = doJSON(t, app, http.MethodPost, "/orders/"+orderID+"/revert", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body["message"], "already reverted")
	assert.Equal(t, 10, getStock(t, app, id))
}

func TestCreateOrder_MultiProductTotal(t *testing.T) {
	app := setupApp(t)
	x := createProduct(t, app, "Product X", 100, 10)
	y := createProduct(t, app, "Product Y", 200, 10)

	resp, body := doJSON(t, app, http.MethodPost, "/orders", map[string]interface{}{
		"products": []map[string]interface{}{
			{"productId": x, "quantity": 1},
			{"productId": y, "quantity": 2},
		},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, 500.0, body["totalAmount"])
	assert.Equal(t, 9, getStock(t, app, x))
	assert.Equal(t, 8, getStock(t, app, y))

	items, ok := body["products"].([]interface{})
	require.True(t, ok)
	require.Len(t, items, 2)
	first := items[0].(map[string]interface{})
	assert.Equal(t, x, first["productId"])
	assert.Equal(t, 1.0, first["quantity"])
}

func TestCreateOrder_AtomicRollback(t *testing.T) {
	app := setupApp(t)
	a := createProduct(t, app, "Product A", 100, 10)
	b := createProduct(t, app, "Product B", 50, 1)

	// The second line item exceeds stock; the first item's decrement must
	// not survive the rollback.
	resp, body := doJSON(t, app, http.MethodPost, "/orders", map[string]interface{}{
		"products": []map[string]interface{}{
			{"productId": a, "quantity": 2},
			{"productId": b, "quantity": 5},
		},
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body["message"], "insufficient stock")
	assert.Equal(t, 10, getStock(t, app, a))
	assert.Equal(t, 1, getStock(t, app, b))

	// Same again with an unknown product in the second position.
	resp, body = doJSON(t, app, http.MethodPost, "/orders", map[string]interface{}{
		"products": []map[string]interface{}{
			{"productId": a, "quantity": 2},
			{"productId": models.NewID(), "quantity": 1},
		},
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body["message"], "product not found")
	assert.Equal(t, 10, getStock(t, app, a))
}

func TestCreateOrder_BodyValidation(t *testing.T) {
	app := setupApp(t)
	id := createProduct(t, app, "Product A", 100, 10)

	cases := []struct {
		name string
		body map[string]interface{}
	}{
		{"no products", map[string]interface{}{}},
		{"empty products", map[string]interface{}{"products": []map[string]interface{}{}}},
		{"zero quantity", map[string]interface{}{"products": []map[string]interface{}{
			{"productId": id, "quantity": 0},
		}}},
		{"negative quantity", map[string]interface{}{"products": []map[string]interface{}{
			{"productId": id, "quantity": -1},
		}}},
		{"short product id", map[string]interface{}{"products": []map[string]interface{}{
			{"productId": "abc123", "quantity": 1},
		}}},
		{"non-hex product id", map[string]interface{}{"products": []map[string]interface{}{
			{"productId": "zzzzzzzzzzzzzzzzzzzzzzzz", "quantity": 1},
		}}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp, body := doJSON(t, app, http.MethodPost, "/orders", tc.body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			assert.Equal(t, "Validation failed", body["message"])
			assert.Equal(t, 10, getStock(t, app, id))
		})
	}
}
