package orderevents

import (
	"time"
)

// Event is a single order lifecycle event from the order subsystem.
type Event struct {
	OrderID     int64     `json:"order_id"`
	OrderNumber string    `json:"order_number"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}
