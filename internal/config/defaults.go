package config

import (
	"time"

	"github.com/localkart/dispatch/internal/fee"
)

const defaultPort = 8080

var defaultDB = DB{
	Host: "127.0.0.1",
	Port: "5432",
	User: "dispatch",
	Pass: "dispatch",
	Name: "dispatch_db",
}

var defaultKafka = Kafka{
	Topic:   "order-events",
	GroupID: "dispatch-worker",
}

var defaultOrdersGateway = OrdersGateway{
	BaseURL:     "http://localhost:8090",
	MaxAttempts: 4,
	BaseDelay:   150 * time.Millisecond,
	MaxDelay:    2 * time.Second,
}

var defaultTracking = Tracking{
	MovingSpeedMPS:  0,
	DefaultSpeedKmh: 30,
	OnlineWindow:    10 * time.Minute,
	NearbyFreshness: 15 * time.Minute,
}

var defaultRateLimit = RateLimit{
	Enabled:    true,
	Limit:      12,
	Window:     time.Minute,
	TTL:        10 * time.Minute,
	MaxBuckets: 10000,
}

var defaultFee = Fee{
	Ranges: []fee.Range{
		{MinKm: 0, MaxKm: 3, Fee: 30},
		{MinKm: 3, MaxKm: 7, Fee: 50},
		{MinKm: 7, MaxKm: 12, Fee: 80},
		{MinKm: 12, MaxKm: 0, Fee: 120},
	},
	CommissionRate: 0.75,
}

// DefaultPort returns the default port.
func DefaultPort() int { return defaultPort }

// DefaultDB returns the default database settings.
func DefaultDB() DB { return defaultDB }

// DefaultKafka returns the default kafka settings.
func DefaultKafka() Kafka { return defaultKafka }

// DefaultOrdersGateway returns the default orders gateway settings.
func DefaultOrdersGateway() OrdersGateway { return defaultOrdersGateway }

// DefaultTracking returns the default tracking thresholds.
func DefaultTracking() Tracking { return defaultTracking }

// DefaultRateLimit returns the default location-ping rate limit settings.
func DefaultRateLimit() RateLimit { return defaultRateLimit }

// DefaultFee returns the default fee schedule settings.
func DefaultFee() Fee {
	f := defaultFee
	f.Ranges = append([]fee.Range(nil), defaultFee.Ranges...)
	return f
}
