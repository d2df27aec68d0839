package receipt

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maglieria/storefront/internal/domain"
)

func sampleOrder() domain.Order {
	return domain.Order{
		ID:            7,
		Status:        domain.OrderStatusPending,
		PaymentMethod: "contrassegno",
		TotalAmount:   decimal.RequireFromString("39.98"),
		CreatedAt:     time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
		Shipping: domain.ShippingProfile{
			FirstName: "Niccolò", LastName: "Ferri", Address: "Via Po 3",
			City: "Torino", Province: "TO", ZipCode: "10123", Country: "IT",
			Email: "n.ferri@example.com",
		},
		Items: []domain.OrderItem{
			{ProductName: "Maglietta Nera", Size: "M", Language: "it", Quantity: 2, UnitPrice: decimal.RequireFromString("19.99")},
		},
	}
}

func TestRenderProducesPDF(t *testing.T) {
	out, err := NewPDFRenderer("Maglieria", "secret").Render(sampleOrder())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestReferenceSigning(t *testing.T) {
	unsigned := NewPDFRenderer("", "").Reference(sampleOrder())
	assert.Equal(t, "order:7|39.98", unsigned)

	signed := NewPDFRenderer("", "secret").Reference(sampleOrder())
	assert.True(t, strings.HasPrefix(signed, "order:7|39.98|"))
	assert.NotEqual(t, signed, NewPDFRenderer("", "other").Reference(sampleOrder()))
}

func TestJoinNonEmpty(t *testing.T) {
	assert.Equal(t, "10123 Torino", joinNonEmpty(" ", "10123", "Torino", ""))
	assert.Equal(t, "", joinNonEmpty(" "))
}
