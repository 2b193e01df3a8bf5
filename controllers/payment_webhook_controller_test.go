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

func TestWebhookCompletesOrder(t *testing.T) {
	setupTestDB(t)
	installStubGateway(t, &stubGateway{})
	router := newTestRouter(t)
	_, token := createTestUser(t, "buyer@example.com")

	w := doJSON(router, http.MethodPost, "/v1/checkout/orders", token, map[string]interface{}{"product_slug": "seo-local"})
	orderID := decodeData(t, w)["order_id"].(string)

	var order models.Order
	require.NoError(t, config.DB.First(&order, "id = ?", orderID).Error)

	w = doJSON(router, http.MethodPost, "/v1/webhooks/paypal", "", captureWebhookBody(order.PayPalOrderID, "CAP-W1"))
	require.Equal(t, http.StatusOK, w.Code)

	require.NoError(t, config.DB.First(&order, "id = ?", orderID).Error)
	require.Equal(t, models.OrderStatusIntakePending, order.Status)
	require.Equal(t, "CAP-W1", order.PayPalCaptureID)
}

func TestWebhookDoubleDeliveryIsIdempotent(t *testing.T) {
	setupTestDB(t)
	installStubGateway(t, &stubGateway{})
	router := newTestRouter(t)
	_, token := createTestUser(t, "buyer@example.com")

	w := doJSON(router, http.MethodPost, "/v1/checkout/orders", token, map[string]interface{}{"product_slug": "seo-local"})
	orderID := decodeData(t, w)["order_id"].(string)

	var order models.Order
	require.NoError(t, config.DB.First(&order, "id = ?", orderID).Error)

	body := captureWebhookBody(order.PayPalOrderID, "CAP-W1")
	w = doJSON(router, http.MethodPost, "/v1/webhooks/paypal", "", body)
	require.Equal(t, http.StatusOK, w.Code)
	w = doJSON(router, http.MethodPost, "/v1/webhooks/paypal", "", body)
	require.Equal(t, http.StatusOK, w.Code)

	var count int64
	require.NoError(t, config.DB.Model(&models.IntakeForm{}).Where("order_id = ?", orderID).Count(&count).Error)
	require.EqualValues(t, 1, count)

	require.NoError(t, config.DB.First(&order, "id = ?", orderID).Error)
	require.Equal(t, "CAP-W1", order.PayPalCaptureID)
}

func TestWebhookThenCaptureSingleSideEffect(t *testing.T) {
	setupTestDB(t)
	installStubGateway(t, &stubGateway{
		captureFn: func(ctx context.Context, paypalOrderID string) (*gateway.CaptureResult, error) {
			return &gateway.CaptureResult{Status: "COMPLETED", CaptureID: "CAP-API", AmountUSD: 2000}, nil
		},
	})
	router := newTestRouter(t)
	_, token := createTestUser(t, "buyer@example.com")

	w := doJSON(router, http.MethodPost, "/v1/checkout/orders", token, map[string]interface{}{"product_slug": "seo-local"})
	orderID := decodeData(t, w)["order_id"].(string)

	var order models.Order
	require.NoError(t, config.DB.First(&order, "id = ?", orderID).Error)

	// Webhook lands first, then the client calls capture.
	w = doJSON(router, http.MethodPost, "/v1/webhooks/paypal", "", captureWebhookBody(order.PayPalOrderID, "CAP-WH"))
	require.Equal(t, http.StatusOK, w.Code)
	w = doJSON(router, http.MethodPost, "/v1/user/orders/"+orderID+"/capture", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	// The webhook's capture reference sticks; the replay does not overwrite.
	require.NoError(t, config.DB.First(&order, "id = ?", orderID).Error)
	require.Equal(t, "CAP-WH", order.PayPalCaptureID)

	var count int64
	require.NoError(t, config.DB.Model(&models.IntakeForm{}).Where("order_id = ?", orderID).Count(&count).Error)
	require.EqualValues(t, 1, count)
}

func TestWebhookProvisionsGuestAccount(t *testing.T) {
	setupTestDB(t)
	installStubGateway(t, &stubGateway{})
	router := newTestRouter(t)

	w := doJSON(router, http.MethodPost, "/v1/checkout/orders", "", map[string]interface{}{
		"product_slug": "seo-local",
		"guest_email":  "newguest@example.com",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	orderID := decodeData(t, w)["order_id"].(string)

	var order models.Order
	require.NoError(t, config.DB.First(&order, "id = ?", orderID).Error)
	require.Nil(t, order.UserID)

	w = doJSON(router, http.MethodPost, "/v1/webhooks/paypal", "", captureWebhookBody(order.PayPalOrderID, "CAP-G1"))
	require.Equal(t, http.StatusOK, w.Code)

	require.NoError(t, config.DB.First(&order, "id = ?", orderID).Error)
	require.NotNil(t, order.UserID)

	var user models.User
	require.NoError(t, config.DB.First(&user, *order.UserID).Error)
	require.Equal(t, "newguest@example.com", user.Email)
	require.True(t, user.IsVerified)

	// Intake form belongs to the provisioned account.
	var form models.IntakeForm
	require.NoError(t, config.DB.Where("order_id = ?", orderID).First(&form).Error)
	require.Equal(t, user.ID, form.UserID)
}

func TestWebhookGuestReusesExistingAccount(t *testing.T) {
	setupTestDB(t)
	installStubGateway(t, &stubGateway{})
	router := newTestRouter(t)
	existing, _ := createTestUser(t, "repeat@example.com")

	w := doJSON(router, http.MethodPost, "/v1/checkout/orders", "", map[string]interface{}{
		"product_slug": "seo-local",
		"guest_email":  "repeat@example.com",
	})
	orderID := decodeData(t, w)["order_id"].(string)

	var order models.Order
	require.NoError(t, config.DB.First(&order, "id = ?", orderID).Error)

	w = doJSON(router, http.MethodPost, "/v1/webhooks/paypal", "", captureWebhookBody(order.PayPalOrderID, "CAP-G2"))
	require.Equal(t, http.StatusOK, w.Code)

	require.NoError(t, config.DB.First(&order, "id = ?", orderID).Error)
	require.NotNil(t, order.UserID)
	require.Equal(t, existing.ID, *order.UserID)
}

func TestWebhookIgnoresOtherEvents(t *testing.T) {
	setupTestDB(t)
	installStubGateway(t, &stubGateway{})
	router := newTestRouter(t)

	w := doJSON(router, http.MethodPost, "/v1/webhooks/paypal", "", map[string]interface{}{
		"id":         "WH-OTHER",
		"event_type": "CHECKOUT.ORDER.APPROVED",
	})
	require.Equal(t, http.StatusOK, w.Code)
}

func TestWebhookUnknownOrder(t *testing.T) {
	setupTestDB(t)
	installStubGateway(t, &stubGateway{})
	router := newTestRouter(t)

	w := doJSON(router, http.MethodPost, "/v1/webhooks/paypal", "", captureWebhookBody("PAYPAL-UNKNOWN", "CAP-X"))
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestWebhookRejectsBadSignature(t *testing.T) {
	setupTestDB(t)
	installStubGateway(t, &stubGateway{
		verifyFn: func(ctx context.Context, req *http.Request, webhookID string) (bool, error) {
			return false, nil
		},
	})
	router := newTestRouter(t)
	t.Setenv("PAYPAL_WEBHOOK_ID", "WH-ID-1")

	w := doJSON(router, http.MethodPost, "/v1/webhooks/paypal", "", captureWebhookBody("PAYPAL-ANY", "CAP-X"))
	require.Equal(t, http.StatusUnauthorized, w.Code)
}
