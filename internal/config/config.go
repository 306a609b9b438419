package config

import (
	"fmt"
	"log"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	"github.com/localkart/dispatch/internal/fee"
)

// DB stores postgres connection settings.
type DB struct {
	Host string
	Port string
	User string
	Pass string
	Name string
}

// DSN returns the postgres connection string.
func (d DB) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s/%s?sslmode=disable",
		d.User, d.Pass, net.JoinHostPort(d.Host, d.Port), d.Name)
}

// Kafka stores order-events consumer settings. Empty brokers disable the consumer.
type Kafka struct {
	Brokers []string
	Topic   string
	GroupID string
}

// OrdersGateway stores order-subsystem client settings.
type OrdersGateway struct {
	BaseURL     string
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

// Notify stores push-notification gateway settings. Empty BaseURL means
// notifications are disabled (nop gateway).
type Notify struct {
	BaseURL string
}

// Tracking stores location tracker policy thresholds.
type Tracking struct {
	MovingSpeedMPS  float64       // speed above this marks a sample as moving
	DefaultSpeedKmh float64       // assumed urban speed for ETA fallback
	OnlineWindow    time.Duration // recency window for the is-online check
	NearbyFreshness time.Duration // latest-sample freshness for nearby queries
}

// RateLimit stores location-ping rate limit settings.
type RateLimit struct {
	Enabled    bool
	Limit      int
	Window     time.Duration
	TTL        time.Duration
	MaxBuckets int
}

// Pprof stores debug server settings. Empty Addr disables it.
type Pprof struct {
	Addr string
	User string
	Pass string
}

// Fee stores the delivery fee tier table and commission rate.
type Fee struct {
	Ranges         []fee.Range
	CommissionRate float64
}

// Config stores all service settings.
type Config struct {
	Port      int
	DB        DB
	Kafka     Kafka
	Orders    OrdersGateway
	Notify    Notify
	Tracking  Tracking
	RateLimit RateLimit
	Pprof     Pprof
	Fee       Fee
}

// Load reads configuration in order: .env (if present) → environment → flags.
func Load() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("warning: .env not loaded: %v", err)
	}

	cfg := &Config{
		Port:      DefaultPort(),
		DB:        DefaultDB(),
		Kafka:     DefaultKafka(),
		Orders:    DefaultOrdersGateway(),
		Notify:    Notify{BaseURL: os.Getenv("NOTIFY_BASE_URL")},
		Tracking:  DefaultTracking(),
		RateLimit: DefaultRateLimit(),
		Pprof: Pprof{
			Addr: os.Getenv("PPROF_ADDR"),
			User: os.Getenv("PPROF_USER"),
			Pass: os.Getenv("PPROF_PASS"),
		},
		Fee: DefaultFee(),
	}

	if v := os.Getenv("PORT"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid PORT %q: %w", v, err)
		}
		cfg.Port = p
	}

	if v := os.Getenv("POSTGRES_HOST"); v != "" {
		cfg.DB.Host = v
	}
	if v := os.Getenv("POSTGRES_PORT"); v != "" {
		if _, err := strconv.Atoi(v); err != nil {
			return nil, fmt.Errorf("invalid POSTGRES_PORT %q: %w", v, err)
		}
		cfg.DB.Port = v
	}
	if v := os.Getenv("POSTGRES_USER"); v != "" {
		cfg.DB.User = v
	}
	if v := os.Getenv("POSTGRES_PASSWORD"); v != "" {
		cfg.DB.Pass = v
	}
	if v := os.Getenv("POSTGRES_DB"); v != "" {
		cfg.DB.Name = v
	}

	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		cfg.Kafka.Brokers = splitCSV(v)
	}
	if v := os.Getenv("KAFKA_ORDERS_TOPIC"); v != "" {
		cfg.Kafka.Topic = v
	}
	if v := os.Getenv("KAFKA_GROUP_ID"); v != "" {
		cfg.Kafka.GroupID = v
	}

	if v := os.Getenv("ORDERS_BASE_URL"); v != "" {
		cfg.Orders.BaseURL = v
	}

	if err := loadTracking(&cfg.Tracking); err != nil {
		return nil, err
	}
	if err := loadFee(&cfg.Fee); err != nil {
		return nil, err
	}

	pflag.IntVarP(&cfg.Port, "port", "p", cfg.Port, "port to listen on")
	if err := pflag.CommandLine.Parse(os.Args[1:]); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	if cfg.Port <= 0 || cfg.Port > 65535 {
		return nil, fmt.Errorf("invalid port: %d", cfg.Port)
	}
	return cfg, nil
}

func loadTracking(t *Tracking) error {
	if v := os.Getenv("TRACKING_MOVING_SPEED_MPS"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid TRACKING_MOVING_SPEED_MPS %q: %w", v, err)
		}
		t.MovingSpeedMPS = f
	}
	if v := os.Getenv("TRACKING_DEFAULT_SPEED_KMH"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f <= 0 {
			return fmt.Errorf("invalid TRACKING_DEFAULT_SPEED_KMH %q", v)
		}
		t.DefaultSpeedKmh = f
	}
	if v := os.Getenv("TRACKING_ONLINE_WINDOW"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return fmt.Errorf("invalid TRACKING_ONLINE_WINDOW %q", v)
		}
		t.OnlineWindow = d
	}
	if v := os.Getenv("TRACKING_NEARBY_FRESHNESS"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return fmt.Errorf("invalid TRACKING_NEARBY_FRESHNESS %q", v)
		}
		t.NearbyFreshness = d
	}
	return nil
}

func loadFee(f *Fee) error {
	if v := os.Getenv("FEE_COMMISSION_RATE"); v != "" {
		r, err := strconv.ParseFloat(v, 64)
		if err != nil || r <= 0 || r > 1 {
			return fmt.Errorf("invalid FEE_COMMISSION_RATE %q", v)
		}
		f.CommissionRate = r
	}
	if v := os.Getenv("FEE_RANGES"); v != "" {
		ranges, err := parseFeeRanges(v)
		if err != nil {
			return err
		}
		f.Ranges = ranges
	}
	return nil
}

// parseFeeRanges parses "0-3:30,3-7:50,7-:80" into fee ranges.
// An empty upper bound means the tier is open-ended.
func parseFeeRanges(s string) ([]fee.Range, error) {
	var out []fee.Range
	for _, part := range splitCSV(s) {
		span, feeStr, ok := strings.Cut(part, ":")
		if !ok {
			return nil, fmt.Errorf("invalid FEE_RANGES entry %q", part)
		}
		minStr, maxStr, ok := strings.Cut(span, "-")
		if !ok {
			return nil, fmt.Errorf("invalid FEE_RANGES span %q", span)
		}

		minKm, err := strconv.ParseFloat(minStr, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid FEE_RANGES min %q: %w", minStr, err)
		}
		var maxKm float64
		if maxStr != "" {
			maxKm, err = strconv.ParseFloat(maxStr, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid FEE_RANGES max %q: %w", maxStr, err)
			}
		}
		amount, err := strconv.ParseFloat(feeStr, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid FEE_RANGES fee %q: %w", feeStr, err)
		}
		out = append(out, fee.Range{MinKm: minKm, MaxKm: maxKm, Fee: amount})
	}
	return out, nil
}

func splitCSV(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
