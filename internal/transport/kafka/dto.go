package kafka

import (
	"strings"
	"time"

	"github.com/localkart/dispatch/internal/service/orderevents"
)

// EventDTO is the wire form of an order event.
type EventDTO struct {
	OrderID     int64     `json:"order_id"`
	OrderNumber string    `json:"order_number"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

// ToDomain converts EventDTO to an orderevents.Event
func ToDomain(dto EventDTO) orderevents.Event {
	return orderevents.Event{
		OrderID:     dto.OrderID,
		OrderNumber: strings.TrimSpace(dto.OrderNumber),
		Status:      strings.TrimSpace(dto.Status),
		CreatedAt:   dto.CreatedAt,
	}
}
