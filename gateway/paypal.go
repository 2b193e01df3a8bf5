// Package gateway wraps the PayPal REST API behind a small interface so the
// checkout controllers can be tested against a stub.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"

	"github.com/plutov/paypal/v4"
)

// CaptureResult is the normalized outcome of a capture call.
type CaptureResult struct {
	// Status is the provider's order status, e.g. "COMPLETED".
	Status string
	// CaptureID is the provider's capture reference, empty until captured.
	CaptureID string
	// AmountUSD is the provider-reported captured amount.
	AmountUSD float64
}

// Gateway is the payment-provider surface the reconciliation workflow needs.
type Gateway interface {
	// CreateOrder creates a remote order for amountUSD and returns the
	// provider's order ID. referenceID is the local order ID embedded as the
	// correlation token.
	CreateOrder(ctx context.Context, amountUSD float64, description, referenceID string) (string, error)

	// CaptureOrder finalizes the payment for a previously approved remote
	// order. If the provider reports the order as already captured, the
	// existing capture data is returned instead of an error so callers can
	// detect idempotent replay.
	CaptureOrder(ctx context.Context, paypalOrderID string) (*CaptureResult, error)

	// VerifyWebhookSignature checks an inbound webhook request against the
	// provider's certificate. The request body must carry the exact raw bytes
	// the provider signed. Fails closed on missing headers.
	VerifyWebhookSignature(ctx context.Context, req *http.Request, webhookID string) (bool, error)
}

// Default is the process-wide gateway, set by Init at startup and replaced
// with a stub in tests.
var Default Gateway

// Client implements Gateway against the PayPal REST API.
type Client struct {
	pc *paypal.Client
}

// Init creates the PayPal client from the environment and installs it as the
// default gateway.
func Init(clientID, clientSecret, mode string) error {
	apiBase := paypal.APIBaseSandBox
	if mode == "live" {
		apiBase = paypal.APIBaseLive
	}

	pc, err := paypal.NewClient(clientID, clientSecret, apiBase)
	if err != nil {
		return fmt.Errorf("failed to create PayPal client: %w", err)
	}
	if _, err := pc.GetAccessToken(context.Background()); err != nil {
		return fmt.Errorf("failed to get PayPal access token: %w", err)
	}

	Default = &Client{pc: pc}
	return nil
}

// CreateOrder implements Gateway.
func (c *Client) CreateOrder(ctx context.Context, amountUSD float64, description, referenceID string) (string, error) {
	if amountUSD <= 0 {
		return "", fmt.Errorf("invalid order amount: %.2f", amountUSD)
	}

	appURL := os.Getenv("APP_URL")
	units := []paypal.PurchaseUnitRequest{
		{
			Amount: &paypal.PurchaseUnitAmount{
				Currency: "USD",
				Value:    fmt.Sprintf("%.2f", amountUSD),
			},
			Description: description,
			CustomID:    referenceID,
		},
	}
	appCtx := &paypal.ApplicationContext{
		BrandName:          "SynergyX",
		ShippingPreference: paypal.ShippingPreferenceNoShipping,
		UserAction:         paypal.UserActionPayNow,
		ReturnURL:          appURL + "/checkout/success",
		CancelURL:          appURL + "/checkout/cancel",
	}

	order, err := c.pc.CreateOrder(ctx, paypal.OrderIntentCapture, units, nil, appCtx)
	if err != nil {
		return "", fmt.Errorf("paypal create order: %w", err)
	}
	return order.ID, nil
}

// CaptureOrder implements Gateway.
func (c *Client) CaptureOrder(ctx context.Context, paypalOrderID string) (*CaptureResult, error) {
	capture, err := c.pc.CaptureOrder(ctx, paypalOrderID, paypal.CaptureOrderRequest{})
	if err != nil {
		if isAlreadyCaptured(err) {
			return c.existingCapture(ctx, paypalOrderID)
		}
		return nil, fmt.Errorf("paypal capture order: %w", err)
	}

	result := &CaptureResult{Status: capture.Status}
	for _, unit := range capture.PurchaseUnits {
		if unit.Payments == nil || len(unit.Payments.Captures) == 0 {
			continue
		}
		captured := unit.Payments.Captures[0]
		result.CaptureID = captured.ID
		if captured.Amount != nil {
			amount, err := strconv.ParseFloat(captured.Amount.Value, 64)
			if err != nil {
				return nil, fmt.Errorf("paypal capture amount %q: %w", captured.Amount.Value, err)
			}
			result.AmountUSD = amount
		}
		break
	}
	return result, nil
}

// existingCapture fetches the remote order and returns its recorded capture,
// used when the provider reports ORDER_ALREADY_CAPTURED.
func (c *Client) existingCapture(ctx context.Context, paypalOrderID string) (*CaptureResult, error) {
	order, err := c.pc.GetOrder(ctx, paypalOrderID)
	if err != nil {
		return nil, fmt.Errorf("paypal get order: %w", err)
	}

	result := &CaptureResult{Status: order.Status}
	for _, unit := range order.PurchaseUnits {
		if unit.Payments == nil || len(unit.Payments.Captures) == 0 {
			continue
		}
		captured := unit.Payments.Captures[0]
		result.CaptureID = captured.ID
		if captured.Amount != nil {
			amount, err := strconv.ParseFloat(captured.Amount.Value, 64)
			if err != nil {
				return nil, fmt.Errorf("paypal capture amount %q: %w", captured.Amount.Value, err)
			}
			result.AmountUSD = amount
		}
		break
	}
	return result, nil
}

// VerifyWebhookSignature implements Gateway.
func (c *Client) VerifyWebhookSignature(ctx context.Context, req *http.Request, webhookID string) (bool, error) {
	for _, h := range []string{
		"Paypal-Transmission-Id",
		"Paypal-Transmission-Time",
		"Paypal-Cert-Url",
		"Paypal-Auth-Algo",
		"Paypal-Transmission-Sig",
	} {
		if req.Header.Get(h) == "" {
			return false, fmt.Errorf("missing webhook header %s", h)
		}
	}

	resp, err := c.pc.VerifyWebhookSignature(ctx, req, webhookID)
	if err != nil {
		return false, fmt.Errorf("paypal verify webhook signature: %w", err)
	}
	return resp.VerificationStatus == "SUCCESS", nil
}

func isAlreadyCaptured(err error) bool {
	var perr *paypal.ErrorResponse
	if !errors.As(err, &perr) {
		return false
	}
	for _, detail := range perr.Details {
		if detail.Issue == "ORDER_ALREADY_CAPTURED" {
			return true
		}
	}
	return false
}
