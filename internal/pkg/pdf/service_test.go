package pdf

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/your-org/eventhub-storefront/internal/config"
	"github.com/your-org/eventhub-storefront/internal/domain/cart"
	"github.com/your-org/eventhub-storefront/internal/domain/checkout"
	"github.com/your-org/eventhub-storefront/internal/domain/event"
)

func TestFormatCLP(t *testing.T) {
	tests := map[int64]string{
		0:       "$0",
		950:     "$950",
		1000:    "$1.000",
		45000:   "$45.000",
		113400:  "$113.400",
		1234567: "$1.234.567",
		-2500:   "-$2.500",
	}
	for amount, want := range tests {
		assert.Equal(t, want, FormatCLP(amount))
	}
}

func TestReceiptHTML(t *testing.T) {
	svc := NewService(&config.Config{App: config.AppConfig{Name: "EventHub"}})
	order := &checkout.Order{
		ID:       "ORD-1790000000000",
		Customer: checkout.Customer{FirstName: "Ana", LastName: "Rojas", Email: "ana@example.cl"},
		Payment:  checkout.PaymentSummary{CardName: "ANA ROJAS", CardLast4: "1111"},
		Items: []cart.Line{
			{Event: event.Event{ID: "1", Title: "Tech Summit <Santiago>", Price: 45000}, Quantity: 2},
		},
		Subtotal:   90000,
		ServiceFee: 4500,
		Total:      94500,
		CreatedAt:  time.Date(2026, 10, 18, 15, 30, 0, 0, time.UTC),
	}

	html, err := svc.ReceiptHTML(order)
	require.NoError(t, err)

	assert.Contains(t, html, "ORD-1790000000000")
	assert.Contains(t, html, "18-10-2026 15:30")
	assert.Contains(t, html, "Ana Rojas")
	assert.Contains(t, html, "$90.000")
	assert.Contains(t, html, "$94.500")
	assert.Contains(t, html, "**** 1111")
	// Event titles are escaped
	assert.Contains(t, html, "Tech Summit &lt;Santiago&gt;")
}
