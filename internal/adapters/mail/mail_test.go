package mail

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maglieria/storefront/internal/domain"
)

func TestOrderConfirmationTemplateItemizes(t *testing.T) {
	order := domain.Order{
		ID:          12,
		Status:      domain.OrderStatusPending,
		TotalAmount: decimal.RequireFromString("39.98"),
		Shipping:    domain.ShippingProfile{FirstName: "Luca", LastName: "Rossi", City: "Milano", Email: "luca@example.com"},
		Items: []domain.OrderItem{
			{ProductName: "Maglietta Nera", Size: "M", Language: "it", Quantity: 2, UnitPrice: decimal.RequireFromString("19.99")},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, orderConfirmationTemplate.Execute(&buf, order))
	html := buf.String()
	assert.Contains(t, html, "#12")
	assert.Contains(t, html, "Maglietta Nera")
	assert.Contains(t, html, "€ 39.98")
	assert.Contains(t, html, "Milano")
}

func TestPasswordResetTemplateEscapesLink(t *testing.T) {
	var buf bytes.Buffer
	err := passwordResetTemplate.Execute(&buf, map[string]string{
		"Link":     "https://shop.example/reset?token=abc",
		"ValidFor": humanDuration(30 * time.Minute),
	})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "token=abc")
	assert.Contains(t, buf.String(), "30 minuti")
}

func TestNewSMTPNotifierRequiresHostAndSender(t *testing.T) {
	_, err := NewSMTPNotifier(SMTPConfig{From: "shop@example.com"})
	assert.Error(t, err)
	_, err = NewSMTPNotifier(SMTPConfig{Host: "localhost"})
	assert.Error(t, err)

	n, err := NewSMTPNotifier(SMTPConfig{Host: "localhost", Port: 2525, From: "shop@example.com"})
	require.NoError(t, err)
	assert.Equal(t, 2525, n.cfg.Port)
}

func TestHumanDuration(t *testing.T) {
	assert.Equal(t, "1 ora", humanDuration(time.Hour))
	assert.Equal(t, "1 ora", humanDuration(0))
	assert.Equal(t, "2 ore", humanDuration(2*time.Hour))
	assert.Equal(t, "45 minuti", humanDuration(45*time.Minute))
}
