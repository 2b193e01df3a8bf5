package controllers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/synergyx/agency-api/config"
	"github.com/synergyx/agency-api/models"
)

// completePaidOrder drives an order through checkout and the payment webhook.
func completePaidOrder(t *testing.T, router *gin.Engine, token string) string {
	t.Helper()
	w := doJSON(router, http.MethodPost, "/v1/checkout/orders", token, map[string]interface{}{"product_slug": "seo-local"})
	require.Equal(t, http.StatusCreated, w.Code)
	orderID := decodeData(t, w)["order_id"].(string)

	var order models.Order
	require.NoError(t, config.DB.First(&order, "id = ?", orderID).Error)
	w = doJSON(router, http.MethodPost, "/v1/webhooks/paypal", "", captureWebhookBody(order.PayPalOrderID, "CAP-I1"))
	require.Equal(t, http.StatusOK, w.Code)
	return orderID
}

func TestIntakeAutoSave(t *testing.T) {
	setupTestDB(t)
	installStubGateway(t, &stubGateway{})
	router := newTestRouter(t)
	_, token := createTestUser(t, "buyer@example.com")
	orderID := completePaidOrder(t, router, token)

	w := doJSON(router, http.MethodPatch, "/v1/user/orders/"+orderID+"/intake", token, map[string]interface{}{
		"business_name": "Acme Coffee",
		"industry":      "Food & Beverage",
		"current_step":  2,
	})
	require.Equal(t, http.StatusOK, w.Code)

	var form models.IntakeForm
	require.NoError(t, config.DB.Where("order_id = ?", orderID).First(&form).Error)
	require.Equal(t, "Acme Coffee", form.BusinessName)
	require.Equal(t, 2, form.CurrentStep)
	require.False(t, form.IsCompleted)
}

func TestIntakeCompleteRequiresAnswers(t *testing.T) {
	setupTestDB(t)
	installStubGateway(t, &stubGateway{})
	router := newTestRouter(t)
	_, token := createTestUser(t, "buyer@example.com")
	orderID := completePaidOrder(t, router, token)

	w := doJSON(router, http.MethodPost, "/v1/user/orders/"+orderID+"/intake/complete", token, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestIntakeCompleteProvisionsProject(t *testing.T) {
	setupTestDB(t)
	installStubGateway(t, &stubGateway{})
	router := newTestRouter(t)
	user, token := createTestUser(t, "buyer@example.com")
	orderID := completePaidOrder(t, router, token)

	w := doJSON(router, http.MethodPatch, "/v1/user/orders/"+orderID+"/intake", token, map[string]interface{}{
		"business_name": "Acme Coffee",
		"contact_email": "owner@acme.test",
		"project_goals": "Grow local search traffic",
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(router, http.MethodPost, "/v1/user/orders/"+orderID+"/intake/complete", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var form models.IntakeForm
	require.NoError(t, config.DB.Where("order_id = ?", orderID).First(&form).Error)
	require.True(t, form.IsCompleted)
	require.NotNil(t, form.CompletedAt)

	var order models.Order
	require.NoError(t, config.DB.First(&order, "id = ?", orderID).Error)
	require.Equal(t, models.OrderStatusIntakeCompleted, order.Status)

	var project models.Project
	require.NoError(t, config.DB.Where("order_id = ?", orderID).First(&project).Error)
	require.Equal(t, user.ID, project.UserID)
	require.Equal(t, models.ProjectStatusNotStarted, project.Status)
	require.Contains(t, project.ProjectName, "Acme Coffee")
}

func TestIntakeCompleteIsIdempotent(t *testing.T) {
	setupTestDB(t)
	installStubGateway(t, &stubGateway{})
	router := newTestRouter(t)
	_, token := createTestUser(t, "buyer@example.com")
	orderID := completePaidOrder(t, router, token)

	doJSON(router, http.MethodPatch, "/v1/user/orders/"+orderID+"/intake", token, map[string]interface{}{
		"business_name": "Acme Coffee",
		"contact_email": "owner@acme.test",
		"project_goals": "Grow local search traffic",
	})
	w := doJSON(router, http.MethodPost, "/v1/user/orders/"+orderID+"/intake/complete", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = doJSON(router, http.MethodPost, "/v1/user/orders/"+orderID+"/intake/complete", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var count int64
	require.NoError(t, config.DB.Model(&models.Project{}).Where("order_id = ?", orderID).Count(&count).Error)
	require.EqualValues(t, 1, count)
}

func TestIntakeFrozenAfterCompletion(t *testing.T) {
	setupTestDB(t)
	installStubGateway(t, &stubGateway{})
	router := newTestRouter(t)
	_, token := createTestUser(t, "buyer@example.com")
	orderID := completePaidOrder(t, router, token)

	doJSON(router, http.MethodPatch, "/v1/user/orders/"+orderID+"/intake", token, map[string]interface{}{
		"business_name": "Acme Coffee",
		"contact_email": "owner@acme.test",
		"project_goals": "Grow local search traffic",
	})
	doJSON(router, http.MethodPost, "/v1/user/orders/"+orderID+"/intake/complete", token, nil)

	w := doJSON(router, http.MethodPatch, "/v1/user/orders/"+orderID+"/intake", token, map[string]interface{}{
		"business_name": "Changed",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestIntakeForeignOrderReadsAsMissing(t *testing.T) {
	setupTestDB(t)
	installStubGateway(t, &stubGateway{})
	router := newTestRouter(t)
	_, ownerToken := createTestUser(t, "owner@example.com")
	_, otherToken := createTestUser(t, "other@example.com")
	orderID := completePaidOrder(t, router, ownerToken)

	w := doJSON(router, http.MethodGet, "/v1/user/orders/"+orderID+"/intake", otherToken, nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}
