package application

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/maglieria/storefront/internal/domain"
	"github.com/maglieria/storefront/internal/ports"
)

const orderConfirmedMessage = "Ordine confermato con successo!"

// SubmitOrder validates a checkout, persists header and items in one transaction
// and then sends a best-effort confirmation email.
//
// The caller-supplied total is required but only compared against the
// recomputed one; the recomputed value is what gets stored.
func (s *Service) SubmitOrder(ctx context.Context, in SubmitOrderInput) (SubmitOrderResponse, error) {
	customer, cart, err := validateSubmission(in)
	if err != nil {
		return SubmitOrderResponse{}, err
	}

	items := domain.ItemsFromCart(cart)
	if err := s.fillSnapshots(ctx, items); err != nil {
		return SubmitOrderResponse{}, err
	}

	total := domain.ComputeTotal(items)
	if supplied := in.TotalAmount.MustGet(); !supplied.Equal(total) {
		s.logger.WarnContext(ctx, "client total differs from recomputed total",
			"operation", "submit_order",
			"outcome", "total_mismatch",
			"client_total", supplied.StringFixed(2),
			"computed_total", total.StringFixed(2),
		)
	}

	now := s.nowFn()
	order := domain.Order{
		UserID:        in.UserID.ToPointer(),
		Shipping:      customer,
		TotalAmount:   total,
		Status:        domain.OrderStatusPending,
		PaymentMethod: strings.TrimSpace(in.PaymentMethod.OrElse("")),
		CreatedAt:     now,
		UpdatedAt:     now,
		Items:         items,
	}

	params := ports.PlaceOrderParams{Order: order}
	if userID, ok := in.UserID.Get(); ok && in.SaveInfo {
		params.SyncProfileFor = &userID
	}

	event := ports.OutboxEvent{
		EventID:   uuid.New(),
		EventType: eventTypeOrderPlaced,
		Payload: eventPayload(map[string]any{
			"user_id":        order.UserID,
			"email":          customer.Email,
			"total_amount":   total.StringFixed(2),
			"item_count":     len(items),
			"payment_method": order.PaymentMethod,
			"placed_at":      now,
		}),
		OccurredAt: now,
	}

	placed, err := s.orders.PlaceWithOutboxTx(ctx, params, event)
	if err != nil {
		s.logger.ErrorContext(ctx, "order transaction rolled back",
			"operation", "submit_order",
			"outcome", "failure",
			"item_count", len(items),
			"error", err,
		)
		return SubmitOrderResponse{}, fmt.Errorf("%w: %v", domain.ErrPersistence, err)
	}

	s.logger.InfoContext(ctx, "order placed",
		"operation", "submit_order",
		"outcome", "success",
		"order_id", placed.ID,
		"item_count", len(placed.Items),
		"total_amount", placed.TotalAmount.StringFixed(2),
	)

	s.sendConfirmation(ctx, placed)
	return SubmitOrderResponse{OrderID: placed.ID, Message: orderConfirmedMessage}, nil
}

// validateSubmission runs every check that must pass before the store is touched.
func validateSubmission(in SubmitOrderInput) (domain.ShippingProfile, *domain.Cart, error) {
	if len(in.Items) == 0 {
		return domain.ShippingProfile{}, nil, fmt.Errorf("%w: the cart is empty", domain.ErrInvalidInput)
	}
	supplied, ok := in.TotalAmount.Get()
	if !ok {
		return domain.ShippingProfile{}, nil, fmt.Errorf("%w: totalAmount is required", domain.ErrInvalidInput)
	}
	if supplied.IsNegative() {
		return domain.ShippingProfile{}, nil, fmt.Errorf("%w: totalAmount must be >= 0", domain.ErrInvalidInput)
	}

	customer := in.Customer.Normalized()
	if err := customer.Validate(); err != nil {
		return domain.ShippingProfile{}, nil, err
	}

	cart := &domain.Cart{}
	for i, line := range in.Items {
		line.Name = strings.TrimSpace(line.Name)
		line.Image = strings.TrimSpace(line.Image)
		if err := domain.ValidateLine(line); err != nil {
			return domain.ShippingProfile{}, nil, fmt.Errorf("item %d: %w", i, err)
		}
		if err := cart.Add(line); err != nil {
			return domain.ShippingProfile{}, nil, fmt.Errorf("item %d: %w", i, err)
		}
	}
	if cart.Total().GreaterThan(domain.MaxOrderTotal) {
		return domain.ShippingProfile{}, nil, fmt.Errorf("%w: order total must be <= %s", domain.ErrInvalidInput, domain.MaxOrderTotal)
	}
	return customer, cart, nil
}

// fillSnapshots completes missing name or image snapshots from the catalog.
func (s *Service) fillSnapshots(ctx context.Context, items []domain.OrderItem) error {
	missing := lo.FilterMap(items, func(it domain.OrderItem, _ int) (int64, bool) {
		return it.ProductID, it.ProductName == "" || it.ProductImage == ""
	})
	if len(missing) == 0 {
		return nil
	}

	products, err := s.products.GetByIDs(ctx, missing)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrPersistence, err)
	}
	for i := range items {
		p, ok := products[items[i].ProductID]
		if !ok {
			if items[i].ProductName == "" {
				return fmt.Errorf("%w: unknown product %d", domain.ErrInvalidInput, items[i].ProductID)
			}
			continue
		}
		if items[i].ProductName == "" {
			items[i].ProductName = p.Name
		}
		if items[i].ProductImage == "" {
			items[i].ProductImage = p.ImageFor(items[i].Language)
		}
	}
	return nil
}

func (s *Service) sendConfirmation(ctx context.Context, order domain.Order) {
	var receipt []byte
	if s.cfg.AttachReceipts && s.receipts != nil {
		pdf, err := s.receipts.Render(order)
		if err != nil {
			s.warn(ctx, "receipt rendering failed", "render_receipt", err, "order_id", order.ID)
		} else {
			receipt = pdf
		}
	}
	if err := s.notifier.SendOrderConfirmation(ctx, order, receipt); err != nil {
		s.logger.ErrorContext(ctx, "order confirmation email failed",
			"operation", "send_order_confirmation",
			"outcome", "failure",
			"order_id", order.ID,
			"error", err,
		)
	}
}
