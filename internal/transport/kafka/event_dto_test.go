package kafka_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/localkart/dispatch/internal/service/orderevents"
	"github.com/localkart/dispatch/internal/transport/kafka"
)

func TestToDomain_TrimsAndCopiesFields(t *testing.T) {
	t.Parallel()

	ts := time.Date(2026, 3, 2, 3, 4, 5, 0, time.UTC)

	dto := kafka.EventDTO{
		OrderID:     42,
		OrderNumber: "  ORD-42  ",
		Status:      "  ready_for_pickup  ",
		CreatedAt:   ts,
	}

	got := kafka.ToDomain(dto)

	require.Equal(t, orderevents.Event{
		OrderID:     42,
		OrderNumber: "ORD-42",
		Status:      "ready_for_pickup",
		CreatedAt:   ts,
	}, got)
}
