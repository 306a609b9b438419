package domain

// Order is the read model of an order owned by the order subsystem.
// The dispatch core reads it for candidate ranking and fee computation
// and writes back only terminal status notices through the gateway.
type Order struct {
	ID              int64
	OrderNumber     string
	Status          string
	TotalAmount     float64
	DeliveryAddress string
	ShopLat         *float64
	ShopLng         *float64
	CustomerName    string
	CustomerPhone   string
}

// Order status notices written back on assignment transitions.
const (
	OrderStatusOutForDelivery = "OUT_FOR_DELIVERY"
	OrderStatusDelivered      = "DELIVERED"
	OrderStatusReadyForPickup = "READY_FOR_PICKUP"
)

// HasShopLocation reports whether the order carries shop coordinates.
func (o Order) HasShopLocation() bool {
	return o.ShopLat != nil && o.ShopLng != nil
}
