package order

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/localkart/dispatch/internal/domain"
)

// StatusError is a non-2xx reply from the orders service.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("orders service replied %d", e.Code)
}

type orderDTO struct {
	ID              int64    `json:"id"`
	OrderNumber     string   `json:"order_number"`
	Status          string   `json:"status"`
	TotalAmount     float64  `json:"total_amount"`
	DeliveryAddress string   `json:"delivery_address"`
	ShopLat         *float64 `json:"shop_lat"`
	ShopLng         *float64 `json:"shop_lng"`
	CustomerName    string   `json:"customer_name"`
	CustomerPhone   string   `json:"customer_phone"`
}

func (d orderDTO) toDomain() domain.Order {
	return domain.Order{
		ID:              d.ID,
		OrderNumber:     d.OrderNumber,
		Status:          d.Status,
		TotalAmount:     d.TotalAmount,
		DeliveryAddress: d.DeliveryAddress,
		ShopLat:         d.ShopLat,
		ShopLng:         d.ShopLng,
		CustomerName:    d.CustomerName,
		CustomerPhone:   d.CustomerPhone,
	}
}

// HTTPGateway is an orders gateway backed by the order subsystem's HTTP API.
type HTTPGateway struct {
	baseURL string
	client  *http.Client
}

// NewHTTPGateway creates an orders gateway for the given base URL.
func NewHTTPGateway(baseURL string, timeout time.Duration) *HTTPGateway {
	if baseURL == "" {
		return nil
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &HTTPGateway{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

// GetByID fetches an order by ID. Returns (nil, nil) when the order
// subsystem does not know the ID.
func (g *HTTPGateway) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	url := fmt.Sprintf("%s/api/orders/%d", g.baseURL, id)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("order gateway: GetByID: %w", err)
	}
	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("order gateway: GetByID: %w", err)
	}
	defer drainAndClose(resp.Body)

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("order gateway: GetByID: %w", &StatusError{Code: resp.StatusCode})
	}

	var dto orderDTO
	if err := json.NewDecoder(resp.Body).Decode(&dto); err != nil {
		return nil, fmt.Errorf("order gateway: GetByID: decode: %w", err)
	}
	ord := dto.toDomain()
	return &ord, nil
}

// UpdateStatus writes a status notice back to the order subsystem.
func (g *HTTPGateway) UpdateStatus(ctx context.Context, id int64, status string) error {
	body, err := json.Marshal(map[string]string{"status": status})
	if err != nil {
		return fmt.Errorf("order gateway: UpdateStatus: %w", err)
	}
	url := fmt.Sprintf("%s/api/orders/%d/status", g.baseURL, id)
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("order gateway: UpdateStatus: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("order gateway: UpdateStatus: %w", err)
	}
	defer drainAndClose(resp.Body)

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return fmt.Errorf("order gateway: UpdateStatus: %w", &StatusError{Code: resp.StatusCode})
	}
	return nil
}

// drainAndClose empties the body so the connection can be reused.
func drainAndClose(body io.ReadCloser) {
	_, _ = io.Copy(io.Discard, io.LimitReader(body, 4096))
	_ = body.Close()
}
