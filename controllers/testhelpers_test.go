package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/synergyx/agency-api/config"
	"github.com/synergyx/agency-api/gateway"
	"github.com/synergyx/agency-api/middleware"
	"github.com/synergyx/agency-api/models"
	"github.com/synergyx/agency-api/utils"
)

// setupTestDB installs an isolated in-memory database as the global handle.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, config.Migrate(db))

	prev := config.DB
	config.DB = db
	t.Cleanup(func() { config.DB = prev })
	return db
}

// stubGateway replaces the PayPal client in tests. Each func defaults to a
// happy-path response when nil.
type stubGateway struct {
	createFn  func(ctx context.Context, amountUSD float64, description, referenceID string) (string, error)
	captureFn func(ctx context.Context, paypalOrderID string) (*gateway.CaptureResult, error)
	verifyFn  func(ctx context.Context, req *http.Request, webhookID string) (bool, error)
}

func (s *stubGateway) CreateOrder(ctx context.Context, amountUSD float64, description, referenceID string) (string, error) {
	if s.createFn != nil {
		return s.createFn(ctx, amountUSD, description, referenceID)
	}
	return "PAYPAL-" + referenceID, nil
}

func (s *stubGateway) CaptureOrder(ctx context.Context, paypalOrderID string) (*gateway.CaptureResult, error) {
	if s.captureFn != nil {
		return s.captureFn(ctx, paypalOrderID)
	}
	return &gateway.CaptureResult{Status: "COMPLETED", CaptureID: "CAP-1"}, nil
}

func (s *stubGateway) VerifyWebhookSignature(ctx context.Context, req *http.Request, webhookID string) (bool, error) {
	if s.verifyFn != nil {
		return s.verifyFn(ctx, req, webhookID)
	}
	return true, nil
}

// installStubGateway swaps the process gateway for the test's duration.
func installStubGateway(t *testing.T, stub *stubGateway) {
	t.Helper()
	prev := gateway.Default
	gateway.Default = stub
	t.Cleanup(func() { gateway.Default = prev })
}

// newTestRouter builds a gin engine with the payment and order routes used
// in tests. JWT_SECRET is pinned so tokens verify.
func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	t.Setenv("JWT_SECRET", "test-secret")

	router := gin.New()
	v1 := router.Group("/v1")
	v1.POST("/checkout/orders", middleware.OptionalAuthMiddleware(), CreateOrder)
	v1.POST("/webhooks/paypal", PayPalWebhook)

	user := v1.Group("/user")
	user.Use(middleware.AuthMiddleware())
	user.POST("/orders/:id/capture", CapturePayment)
	user.GET("/orders", ListOrders)
	user.GET("/orders/:id", GetOrderDetails)
	user.POST("/orders/:id/cancel", CancelOrder)
	user.GET("/orders/:id/intake", GetIntakeForm)
	user.PATCH("/orders/:id/intake", UpdateIntakeForm)
	user.POST("/orders/:id/intake/complete", CompleteIntakeForm)

	admin := v1.Group("/admin")
	admin.Use(middleware.AuthMiddleware(), middleware.AdminMiddleware())
	admin.GET("/orders", AdminListOrders)
	admin.PATCH("/orders/:id/status", AdminUpdateOrderStatus)

	return router
}

// createTestUser inserts a verified client account and returns it with a
// valid bearer token.
func createTestUser(t *testing.T, email string) (*models.User, string) {
	t.Helper()
	user := models.User{
		Email:      email,
		Password:   "unused",
		FullName:   "Test User",
		Role:       models.RoleClient,
		IsVerified: true,
	}
	require.NoError(t, config.DB.Create(&user).Error)

	token, err := utils.GenerateToken(&user)
	require.NoError(t, err)
	return &user, token
}

// createTestAdmin inserts an admin account with a token.
func createTestAdmin(t *testing.T) (*models.User, string) {
	t.Helper()
	admin := models.User{
		Email:      "admin@synergyx.test",
		Password:   "unused",
		FullName:   "Admin",
		Role:       models.RoleAdmin,
		IsVerified: true,
	}
	require.NoError(t, config.DB.Create(&admin).Error)

	token, err := utils.GenerateToken(&admin)
	require.NoError(t, err)
	return &admin, token
}

// doJSON performs a JSON request against the router.
func doJSON(router *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// decodeData unmarshals the data field of the standard response envelope.
func decodeData(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var envelope struct {
		Data map[string]interface{} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	return envelope.Data
}

// captureWebhookBody builds a PAYMENT.CAPTURE.COMPLETED event payload.
func captureWebhookBody(paypalOrderID, captureID string) map[string]interface{} {
	return map[string]interface{}{
		"id":         fmt.Sprintf("WH-%s", captureID),
		"event_type": "PAYMENT.CAPTURE.COMPLETED",
		"resource": map[string]interface{}{
			"id":     captureID,
			"status": "COMPLETED",
			"amount": map[string]interface{}{
				"value":         "0.00",
				"currency_code": "USD",
			},
			"supplementary_data": map[string]interface{}{
				"related_ids": map[string]interface{}{
					"order_id": paypalOrderID,
				},
			},
		},
	}
}
