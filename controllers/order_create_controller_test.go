package controllers

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/synergyx/agency-api/config"
	"github.com/synergyx/agency-api/models"
)

func TestCreateOrderPricesFromCatalog(t *testing.T) {
	setupTestDB(t)
	installStubGateway(t, &stubGateway{})
	router := newTestRouter(t)
	_, token := createTestUser(t, "buyer@example.com")

	w := doJSON(router, http.MethodPost, "/v1/checkout/orders", token, map[string]interface{}{
		"product_slug": "seo-local",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	data := decodeData(t, w)
	require.Equal(t, 2000.0, data["amount_usd"])

	var order models.Order
	require.NoError(t, config.DB.First(&order, "id = ?", data["order_id"]).Error)
	require.Equal(t, models.OrderStatusPaymentProcessing, order.Status)
	require.Equal(t, 2000.0, order.AmountUSD)
	require.NotEmpty(t, order.PayPalOrderID)
}

func TestCreateOrderSumsAddons(t *testing.T) {
	setupTestDB(t)
	installStubGateway(t, &stubGateway{})
	router := newTestRouter(t)
	_, token := createTestUser(t, "buyer@example.com")

	w := doJSON(router, http.MethodPost, "/v1/checkout/orders", token, map[string]interface{}{
		"product_slug": "google-ads-starter",
		"addon_slugs":  []string{"branding-starter"},
	})
	require.Equal(t, http.StatusCreated, w.Code)

	data := decodeData(t, w)
	require.Equal(t, 4000.0, data["amount_usd"])

	var addons []models.OrderAddon
	require.NoError(t, config.DB.Where("order_id = ?", data["order_id"]).Find(&addons).Error)
	require.Len(t, addons, 1)
	require.Equal(t, "branding-starter", addons[0].Slug)
	require.Equal(t, 2500.0, addons[0].PriceUSD)
}

func TestCreateOrderIgnoresClientAmount(t *testing.T) {
	setupTestDB(t)
	installStubGateway(t, &stubGateway{})
	router := newTestRouter(t)
	_, token := createTestUser(t, "buyer@example.com")

	// A client-supplied amount field must not influence pricing.
	w := doJSON(router, http.MethodPost, "/v1/checkout/orders", token, map[string]interface{}{
		"product_slug": "seo-local",
		"amount_usd":   1.0,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	require.Equal(t, 2000.0, decodeData(t, w)["amount_usd"])
}

func TestCreateOrderUnknownProduct(t *testing.T) {
	setupTestDB(t)
	installStubGateway(t, &stubGateway{})
	router := newTestRouter(t)
	_, token := createTestUser(t, "buyer@example.com")

	w := doJSON(router, http.MethodPost, "/v1/checkout/orders", token, map[string]interface{}{
		"product_slug": "no-such-package",
	})
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateOrderUnknownAddon(t *testing.T) {
	setupTestDB(t)
	installStubGateway(t, &stubGateway{})
	router := newTestRouter(t)
	_, token := createTestUser(t, "buyer@example.com")

	w := doJSON(router, http.MethodPost, "/v1/checkout/orders", token, map[string]interface{}{
		"product_slug": "seo-local",
		"addon_slugs":  []string{"no-such-addon"},
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateOrderGuestRequiresEmail(t *testing.T) {
	setupTestDB(t)
	installStubGateway(t, &stubGateway{})
	router := newTestRouter(t)

	w := doJSON(router, http.MethodPost, "/v1/checkout/orders", "", map[string]interface{}{
		"product_slug": "seo-local",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateOrderGuestWithEmail(t *testing.T) {
	setupTestDB(t)
	installStubGateway(t, &stubGateway{})
	router := newTestRouter(t)

	w := doJSON(router, http.MethodPost, "/v1/checkout/orders", "", map[string]interface{}{
		"product_slug": "seo-local",
		"guest_email":  "guest@example.com",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var order models.Order
	require.NoError(t, config.DB.First(&order, "id = ?", decodeData(t, w)["order_id"]).Error)
	require.Nil(t, order.UserID)
	require.Equal(t, "guest@example.com", order.GuestEmail)
}

func TestCreateOrderDBPriceOverridesStatic(t *testing.T) {
	setupTestDB(t)
	installStubGateway(t, &stubGateway{})
	router := newTestRouter(t)
	_, token := createTestUser(t, "buyer@example.com")

	// Admin-edited price in the database wins over the compiled-in catalog.
	product, _ := models.FindDefaultProduct("seo-local")
	product.PriceUSD = 2200
	require.NoError(t, config.DB.Create(&product).Error)

	w := doJSON(router, http.MethodPost, "/v1/checkout/orders", token, map[string]interface{}{
		"product_slug": "seo-local",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	require.Equal(t, 2200.0, decodeData(t, w)["amount_usd"])
}

func TestCreateOrderGatewayFailureLeavesPending(t *testing.T) {
	setupTestDB(t)
	installStubGateway(t, &stubGateway{
		createFn: func(ctx context.Context, amountUSD float64, description, referenceID string) (string, error) {
			return "", errors.New("provider unavailable")
		},
	})
	router := newTestRouter(t)
	_, token := createTestUser(t, "buyer@example.com")

	w := doJSON(router, http.MethodPost, "/v1/checkout/orders", token, map[string]interface{}{
		"product_slug": "seo-local",
	})
	require.Equal(t, http.StatusInternalServerError, w.Code)

	var order models.Order
	require.NoError(t, config.DB.Order("created_at DESC").First(&order).Error)
	require.Equal(t, models.OrderStatusPending, order.Status)
	require.Empty(t, order.PayPalOrderID)
}
