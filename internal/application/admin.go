package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/samber/lo"

	"github.com/maglieria/storefront/internal/domain"
	"github.com/maglieria/storefront/internal/ports"
)

func (s *Service) ListOrders(ctx context.Context, actor ports.AuthClaims, q OrderListQuery) (OrderListResponse, error) {
	if _, err := s.RequireAdmin(ctx, actor); err != nil {
		return OrderListResponse{}, err
	}
	page, limit, offset := pageBounds(q.Page, q.Limit)
	filter := ports.OrderListFilter{Limit: limit, Offset: offset}
	if q.Status != "" {
		status, err := domain.ParseOrderStatus(q.Status)
		if err != nil {
			return OrderListResponse{}, err
		}
		filter.Status = &status
	}

	orders, total, err := s.orders.List(ctx, filter)
	if err != nil {
		return OrderListResponse{}, err
	}
	return OrderListResponse{
		Orders: lo.Map(orders, func(o domain.Order, _ int) OrderResponse { return toOrderResponse(o) }),
		Total:  total,
		Page:   page,
		Limit:  limit,
	}, nil
}

// UpdateOrderStatus moves an order along pending -> shipped -> delivered,
// with cancellation allowed until delivery.
func (s *Service) UpdateOrderStatus(ctx context.Context, actor ports.AuthClaims, orderID int64, rawStatus string) (OrderResponse, error) {
	if _, err := s.RequireAdmin(ctx, actor); err != nil {
		return OrderResponse{}, err
	}
	target, err := domain.ParseOrderStatus(rawStatus)
	if err != nil {
		return OrderResponse{}, err
	}
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return OrderResponse{}, err
	}
	if order.Status == target {
		return toOrderResponse(order), nil
	}
	if !domain.CanTransition(order.Status, target) {
		return OrderResponse{}, fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, order.Status, target)
	}

	now := s.nowFn()
	if err := s.orders.UpdateStatus(ctx, orderID, order.Status, target, now); err != nil {
		return OrderResponse{}, err
	}
	order.Status = target
	order.UpdatedAt = now

	s.logger.InfoContext(ctx, "order status changed",
		"operation", "update_order_status",
		"outcome", "success",
		"order_id", orderID,
		"status", string(target),
		"actor_id", actor.UserID,
	)
	return toOrderResponse(order), nil
}

func (s *Service) DeleteOrder(ctx context.Context, actor ports.AuthClaims, orderID int64) error {
	if _, err := s.RequireAdmin(ctx, actor); err != nil {
		return err
	}
	return s.orders.Delete(ctx, orderID)
}

func (s *Service) OrderReceipt(ctx context.Context, actor ports.AuthClaims, orderID int64) (Receipt, error) {
	if _, err := s.RequireAdmin(ctx, actor); err != nil {
		return Receipt{}, err
	}
	if s.receipts == nil {
		return Receipt{}, errors.New("receipt renderer is not configured")
	}
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return Receipt{}, err
	}
	pdf, err := s.receipts.Render(order)
	if err != nil {
		return Receipt{}, fmt.Errorf("render receipt: %w", err)
	}
	return Receipt{Filename: fmt.Sprintf("ricevuta-ordine-%d.pdf", order.ID), Content: pdf}, nil
}

func (s *Service) ListUsers(ctx context.Context, actor ports.AuthClaims, page, limit int) ([]UserResponse, error) {
	if _, err := s.RequireAdmin(ctx, actor); err != nil {
		return nil, err
	}
	_, limit, offset := pageBounds(page, limit)
	users, err := s.users.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	return lo.Map(users, func(u domain.User, _ int) UserResponse { return toUserResponse(u) }), nil
}

// DeleteUser keeps the user's orders; their owner reference is cleared by the store.
func (s *Service) DeleteUser(ctx context.Context, actor ports.AuthClaims, userID int64) error {
	if _, err := s.RequireAdmin(ctx, actor); err != nil {
		return err
	}
	if userID == actor.UserID {
		return fmt.Errorf("%w: administrators cannot delete their own account", domain.ErrConflict)
	}
	return s.users.Delete(ctx, userID)
}

func (s *Service) SetUserAdmin(ctx context.Context, actor ports.AuthClaims, userID int64, isAdmin bool) (UserResponse, error) {
	if _, err := s.RequireAdmin(ctx, actor); err != nil {
		return UserResponse{}, err
	}
	if userID == actor.UserID && !isAdmin {
		return UserResponse{}, fmt.Errorf("%w: administrators cannot revoke their own privilege", domain.ErrConflict)
	}
	if err := s.users.SetAdmin(ctx, userID, isAdmin, s.nowFn()); err != nil {
		return UserResponse{}, err
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return UserResponse{}, err
	}
	return toUserResponse(user), nil
}
