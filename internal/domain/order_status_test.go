package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nikolayk812/storefront/internal/domain"
)

func TestToOrderStatus(t *testing.T) {
	for _, status := range domain.OrderStatuses() {
		got, err := domain.ToOrderStatus(string(status))
		assert.NoError(t, err)
		assert.Equal(t, status, got)
	}

	_, err := domain.ToOrderStatus("Teleported")
	assert.Error(t, err)
}

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name string
		from domain.OrderStatus
		to   domain.OrderStatus
		want bool
	}{
		{
			name: "placed to confirmed",
			from: domain.OrderStatusPlaced,
			to:   domain.OrderStatusConfirmed,
			want: true,
		},
		{
			name: "shipped back to packed",
			from: domain.OrderStatusShipped,
			to:   domain.OrderStatusPacked,
			want: true,
		},
		{
			name: "placed to cancelled",
			from: domain.OrderStatusPlaced,
			to:   domain.OrderStatusCancelled,
			want: true,
		},
		{
			name: "shipped to cancelled: rejected",
			from: domain.OrderStatusShipped,
			to:   domain.OrderStatusCancelled,
			want: false,
		},
		{
			name: "delivered to cancelled: rejected",
			from: domain.OrderStatusDelivered,
			to:   domain.OrderStatusCancelled,
			want: false,
		},
		{
			name: "unknown target: rejected",
			from: domain.OrderStatusPlaced,
			to:   domain.OrderStatus("Teleported"),
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, domain.CanTransition(tt.from, tt.to))
		})
	}
}
