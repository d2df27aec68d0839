package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/samber/lo"

	"github.com/maglieria/storefront/internal/domain"
	"github.com/maglieria/storefront/internal/ports"
)

func (s *Service) Me(ctx context.Context, claims ports.AuthClaims) (UserResponse, error) {
	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		return UserResponse{}, err
	}
	return toUserResponse(user), nil
}

// UpdateProfile is last-write-wins. The email address is not editable here.
func (s *Service) UpdateProfile(ctx context.Context, claims ports.AuthClaims, userID int64, req UpdateProfileRequest) (UserResponse, error) {
	if userID != claims.UserID {
		return UserResponse{}, domain.ErrForbidden
	}
	current, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return UserResponse{}, err
	}

	profile := profileFromFields(current.Email, req.ProfileFields)
	if profile.FirstName == "" || profile.LastName == "" {
		return UserResponse{}, fmt.Errorf("%w: first and last name are required", domain.ErrInvalidInput)
	}

	var passwordHash *string
	if req.Password != nil && *req.Password != "" {
		if err := domain.ValidatePassword(*req.Password); err != nil {
			return UserResponse{}, err
		}
		hashed, err := s.hasher.Hash(*req.Password)
		if err != nil {
			return UserResponse{}, fmt.Errorf("hash password: %w", err)
		}
		passwordHash = &hashed
	}

	updated, err := s.users.UpdateProfile(ctx, userID, profile, passwordHash, s.nowFn())
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return UserResponse{}, err
		}
		return UserResponse{}, fmt.Errorf("%w: %v", domain.ErrPersistence, err)
	}
	return toUserResponse(updated), nil
}

func (s *Service) MyOrders(ctx context.Context, claims ports.AuthClaims, page, limit int) ([]OrderResponse, error) {
	_, limit, offset := pageBounds(page, limit)
	orders, err := s.orders.ListByUser(ctx, claims.UserID, limit, offset)
	if err != nil {
		return nil, err
	}
	return lo.Map(orders, func(o domain.Order, _ int) OrderResponse { return toOrderResponse(o) }), nil
}

// OrderItems is visible to the order's owner and to administrators.
// Anyone else gets ErrNotFound, the same as for an id that does not exist.
func (s *Service) OrderItems(ctx context.Context, claims ports.AuthClaims, orderID int64) ([]OrderItemResponse, error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID == nil || *order.UserID != claims.UserID {
		if _, err := s.RequireAdmin(ctx, claims); err != nil {
			if errors.Is(err, domain.ErrForbidden) {
				return nil, domain.ErrNotFound
			}
			return nil, err
		}
	}
	return lo.Map(order.Items, func(it domain.OrderItem, _ int) OrderItemResponse { return toOrderItemResponse(it) }), nil
}
