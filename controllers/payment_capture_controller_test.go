package controllers

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/synergyx/agency-api/config"
	"github.com/synergyx/agency-api/gateway"
	"github.com/synergyx/agency-api/models"
)

func TestCapturePaymentCompletesOrder(t *testing.T) {
	setupTestDB(t)
	installStubGateway(t, &stubGateway{
		captureFn: func(ctx context.Context, paypalOrderID string) (*gateway.CaptureResult, error) {
			return &gateway.CaptureResult{Status: "COMPLETED", CaptureID: "CAP-42", AmountUSD: 2000}, nil
		},
	})
	router := newTestRouter(t)
	_, token := createTestUser(t, "buyer@example.com")

	w := doJSON(router, http.MethodPost, "/v1/checkout/orders", token, map[string]interface{}{"product_slug": "seo-local"})
	require.Equal(t, http.StatusCreated, w.Code)
	orderID := decodeData(t, w)["order_id"].(string)

	w = doJSON(router, http.MethodPost, "/v1/user/orders/"+orderID+"/capture", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var order models.Order
	require.NoError(t, config.DB.First(&order, "id = ?", orderID).Error)
	require.Equal(t, models.OrderStatusIntakePending, order.Status)
	require.Equal(t, "CAP-42", order.PayPalCaptureID)
	require.NotNil(t, order.PaymentCompletedAt)

	// The intake form is provisioned alongside completion.
	var form models.IntakeForm
	require.NoError(t, config.DB.Where("order_id = ?", orderID).First(&form).Error)
	require.Equal(t, 1, form.CurrentStep)
}

func TestCapturePaymentAmountEpsilon(t *testing.T) {
	setupTestDB(t)
	installStubGateway(t, &stubGateway{
		captureFn: func(ctx context.Context, paypalOrderID string) (*gateway.CaptureResult, error) {
			// Two cents of per-line rounding; must still settle.
			return &gateway.CaptureResult{Status: "COMPLETED", CaptureID: "CAP-1", AmountUSD: 3999.98}, nil
		},
	})
	router := newTestRouter(t)
	_, token := createTestUser(t, "buyer@example.com")

	w := doJSON(router, http.MethodPost, "/v1/checkout/orders", token, map[string]interface{}{
		"product_slug": "google-ads-starter",
		"addon_slugs":  []string{"branding-starter"},
	})
	require.Equal(t, http.StatusCreated, w.Code)
	orderID := decodeData(t, w)["order_id"].(string)

	w = doJSON(router, http.MethodPost, "/v1/user/orders/"+orderID+"/capture", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var order models.Order
	require.NoError(t, config.DB.First(&order, "id = ?", orderID).Error)
	require.True(t, order.IsPaid())
}

func TestCapturePaymentProviderAmountMismatch(t *testing.T) {
	setupTestDB(t)
	installStubGateway(t, &stubGateway{
		captureFn: func(ctx context.Context, paypalOrderID string) (*gateway.CaptureResult, error) {
			return &gateway.CaptureResult{Status: "COMPLETED", CaptureID: "CAP-1", AmountUSD: 3990.00}, nil
		},
	})
	router := newTestRouter(t)
	_, token := createTestUser(t, "buyer@example.com")

	w := doJSON(router, http.MethodPost, "/v1/checkout/orders", token, map[string]interface{}{
		"product_slug": "google-ads-starter",
		"addon_slugs":  []string{"branding-starter"},
	})
	require.Equal(t, http.StatusCreated, w.Code)
	orderID := decodeData(t, w)["order_id"].(string)

	w = doJSON(router, http.MethodPost, "/v1/user/orders/"+orderID+"/capture", token, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var order models.Order
	require.NoError(t, config.DB.First(&order, "id = ?", orderID).Error)
	require.Equal(t, models.OrderStatusPaymentFailed, order.Status)
	require.Equal(t, models.FailureAmountMismatch, order.FailureReason)
	require.Empty(t, order.PayPalCaptureID)
}

func TestCapturePaymentTamperedStoredAmount(t *testing.T) {
	setupTestDB(t)
	installStubGateway(t, &stubGateway{})
	router := newTestRouter(t)
	_, token := createTestUser(t, "buyer@example.com")

	w := doJSON(router, http.MethodPost, "/v1/checkout/orders", token, map[string]interface{}{"product_slug": "seo-local"})
	require.Equal(t, http.StatusCreated, w.Code)
	orderID := decodeData(t, w)["order_id"].(string)

	// Simulate a row tampered below the catalog price.
	require.NoError(t, config.DB.Model(&models.Order{}).Where("id = ?", orderID).Update("amount_usd", 1.0).Error)

	w = doJSON(router, http.MethodPost, "/v1/user/orders/"+orderID+"/capture", token, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var order models.Order
	require.NoError(t, config.DB.First(&order, "id = ?", orderID).Error)
	require.Equal(t, models.FailureAmountMismatch, order.FailureReason)
}

func TestCapturePaymentIncompleteStatus(t *testing.T) {
	setupTestDB(t)
	installStubGateway(t, &stubGateway{
		captureFn: func(ctx context.Context, paypalOrderID string) (*gateway.CaptureResult, error) {
			return &gateway.CaptureResult{Status: "PENDING", AmountUSD: 2000}, nil
		},
	})
	router := newTestRouter(t)
	_, token := createTestUser(t, "buyer@example.com")

	w := doJSON(router, http.MethodPost, "/v1/checkout/orders", token, map[string]interface{}{"product_slug": "seo-local"})
	orderID := decodeData(t, w)["order_id"].(string)

	w = doJSON(router, http.MethodPost, "/v1/user/orders/"+orderID+"/capture", token, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var order models.Order
	require.NoError(t, config.DB.First(&order, "id = ?", orderID).Error)
	require.Equal(t, models.OrderStatusPaymentFailed, order.Status)
	require.Equal(t, models.FailureCaptureIncomplete, order.FailureReason)
}

func TestCapturePaymentIdempotentReplay(t *testing.T) {
	setupTestDB(t)
	installStubGateway(t, &stubGateway{
		captureFn: func(ctx context.Context, paypalOrderID string) (*gateway.CaptureResult, error) {
			return &gateway.CaptureResult{Status: "COMPLETED", CaptureID: "CAP-1", AmountUSD: 2000}, nil
		},
	})
	router := newTestRouter(t)
	_, token := createTestUser(t, "buyer@example.com")

	w := doJSON(router, http.MethodPost, "/v1/checkout/orders", token, map[string]interface{}{"product_slug": "seo-local"})
	orderID := decodeData(t, w)["order_id"].(string)

	w = doJSON(router, http.MethodPost, "/v1/user/orders/"+orderID+"/capture", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = doJSON(router, http.MethodPost, "/v1/user/orders/"+orderID+"/capture", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	// Exactly one intake form regardless of replays.
	var count int64
	require.NoError(t, config.DB.Model(&models.IntakeForm{}).Where("order_id = ?", orderID).Count(&count).Error)
	require.EqualValues(t, 1, count)
}

func TestCapturePaymentRequiresAuth(t *testing.T) {
	setupTestDB(t)
	installStubGateway(t, &stubGateway{})
	router := newTestRouter(t)
	_, token := createTestUser(t, "buyer@example.com")

	w := doJSON(router, http.MethodPost, "/v1/checkout/orders", token, map[string]interface{}{"product_slug": "seo-local"})
	require.Equal(t, http.StatusCreated, w.Code)
	orderID := decodeData(t, w)["order_id"].(string)

	w = doJSON(router, http.MethodPost, "/v1/user/orders/"+orderID+"/capture", "", nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	// The order must be untouched.
	var order models.Order
	require.NoError(t, config.DB.First(&order, "id = ?", orderID).Error)
	require.Equal(t, models.OrderStatusPaymentProcessing, order.Status)
	require.Empty(t, order.PayPalCaptureID)
}

func TestCapturePaymentForeignOrderReadsAsMissing(t *testing.T) {
	setupTestDB(t)
	installStubGateway(t, &stubGateway{})
	router := newTestRouter(t)
	_, ownerToken := createTestUser(t, "owner@example.com")
	_, otherToken := createTestUser(t, "other@example.com")

	w := doJSON(router, http.MethodPost, "/v1/checkout/orders", ownerToken, map[string]interface{}{"product_slug": "seo-local"})
	orderID := decodeData(t, w)["order_id"].(string)

	w = doJSON(router, http.MethodPost, "/v1/user/orders/"+orderID+"/capture", otherToken, nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}
