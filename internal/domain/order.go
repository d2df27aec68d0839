package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending: {OrderStatusShipped, OrderStatusCancelled},
	OrderStatusShipped: {OrderStatusDelivered, OrderStatusCancelled},
}

// ParseOrderStatus accepts the lowercase status names used on the wire.
func ParseOrderStatus(raw string) (OrderStatus, error) {
	s := OrderStatus(strings.ToLower(strings.TrimSpace(raw)))
	switch s {
	case OrderStatusPending, OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return s, nil
	default:
		return "", fmt.Errorf("%w: unknown order status %q", ErrInvalidInput, raw)
	}
}

// CanTransition reports whether an order may move from one status to another.
// Delivered and cancelled are terminal.
func CanTransition(from, to OrderStatus) bool {
	return lo.Contains(orderTransitions[from], to)
}

// OrderItem is a line of a placed order. Name and image are snapshots taken at purchase time.
type OrderItem struct {
	ID           int64
	OrderID      int64
	ProductID    int64
	ProductName  string
	ProductImage string
	Size         string
	Language     string
	Quantity     int
	UnitPrice    decimal.Decimal
}

func (i OrderItem) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Order is the persisted purchase header plus its items.
type Order struct {
	ID            int64
	UserID        *int64
	Shipping      ShippingProfile
	TotalAmount   decimal.Decimal
	Status        OrderStatus
	PaymentMethod string
	CreatedAt     time.Time
	UpdatedAt     time.Time
	Items         []OrderItem
}

// Line and order bounds follow the NUMERIC(10,2) price and NUMERIC(12,2) total columns.
const (
	MaxLineQuantity = 1000
	PriceScale      = 2
)

var (
	MaxUnitPrice  = decimal.RequireFromString("99999999.99")
	MaxOrderTotal = decimal.RequireFromString("9999999999.99")
)

// ComputeTotal is the authoritative order total.
func ComputeTotal(items []OrderItem) decimal.Decimal {
	return lo.Reduce(items, func(acc decimal.Decimal, item OrderItem, _ int) decimal.Decimal {
		return acc.Add(item.LineTotal())
	}, decimal.Zero)
}

// ValidateLine checks a single submitted line before anything is persisted.
func ValidateLine(line CartLine) error {
	if line.ProductID <= 0 {
		return fmt.Errorf("%w: product id is required", ErrInvalidInput)
	}
	if line.Quantity < 1 {
		return fmt.Errorf("%w: quantity must be >= 1", ErrInvalidInput)
	}
	if line.Quantity > MaxLineQuantity {
		return fmt.Errorf("%w: quantity must be <= %d", ErrInvalidInput, MaxLineQuantity)
	}
	if line.UnitPrice.IsNegative() {
		return fmt.Errorf("%w: price must be >= 0", ErrInvalidInput)
	}
	if line.UnitPrice.GreaterThan(MaxUnitPrice) {
		return fmt.Errorf("%w: price must be <= %s", ErrInvalidInput, MaxUnitPrice)
	}
	if !line.UnitPrice.Equal(line.UnitPrice.Round(PriceScale)) {
		return fmt.Errorf("%w: price must have at most %d decimals", ErrInvalidInput, PriceScale)
	}
	if strings.TrimSpace(line.Size) == "" || strings.TrimSpace(line.Language) == "" {
		return fmt.Errorf("%w: size and language are required", ErrInvalidInput)
	}
	return nil
}

// ItemsFromCart converts cart lines into unsaved order items.
func ItemsFromCart(c *Cart) []OrderItem {
	return lo.Map(c.Lines(), func(l CartLine, _ int) OrderItem {
		return OrderItem{
			ProductID:    l.ProductID,
			ProductName:  l.Name,
			ProductImage: l.Image,
			Size:         l.Size,
			Language:     l.Language,
			Quantity:     l.Quantity,
			UnitPrice:    l.UnitPrice,
		}
	})
}
