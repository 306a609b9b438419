package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Notification is a push message about an order, addressed to a partner,
// customer or shop owner by recipient ID. Token resolution happens inside
// the notification service.
type Notification struct {
	OrderID     int64  `json:"order_id"`
	OrderNumber string `json:"order_number,omitempty"`
	Status      string `json:"status"`
	Recipient   string `json:"recipient"`
	RecipientID int64  `json:"recipient_id"`
}

// Recipient kinds.
const (
	RecipientPartner  = "partner"
	RecipientCustomer = "customer"
	RecipientShop     = "shop"
)

// Status tags shipped with notifications.
const (
	StatusAssigned       = "ASSIGNED"
	StatusManualAssigned = "MANUAL_ASSIGNMENT"
	StatusAccepted       = "DRIVER_ACCEPTED"
	StatusRejected       = "DRIVER_REJECTED"
	StatusOutForDelivery = "OUT_FOR_DELIVERY"
	StatusDelivered      = "DELIVERED"
	StatusCancelled      = "CANCELLED"
)

// Gateway sends push notifications. Implementations must be safe for
// concurrent use.
type Gateway interface {
	Send(ctx context.Context, n Notification) error
}

// HTTPGateway sends notifications through the notification service's HTTP API.
type HTTPGateway struct {
	baseURL string
	client  *http.Client
}

// NewHTTPGateway creates a notification gateway for the given base URL.
func NewHTTPGateway(baseURL string, timeout time.Duration) *HTTPGateway {
	if baseURL == "" {
		return nil
	}
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &HTTPGateway{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

// Send delivers one notification.
func (g *HTTPGateway) Send(ctx context.Context, n Notification) error {
	body, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("notify gateway: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/api/notifications", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("notify gateway: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("notify gateway: %w", err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		_ = resp.Body.Close()
	}()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("notify gateway: notification service replied %d", resp.StatusCode)
	}
	return nil
}

type nopGateway struct{}

// Nop returns a Gateway that drops every notification. Used when no
// notification service is configured.
func Nop() Gateway { return nopGateway{} }

func (nopGateway) Send(context.Context, Notification) error { return nil }
