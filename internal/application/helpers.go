package application

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"

	"github.com/samber/lo"

	"github.com/maglieria/storefront/internal/domain"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// hashToken stores reset tokens as digests so a leaked row cannot be replayed.
func hashToken(token string) string {
	sum := sha256.Sum256([]byte(strings.TrimSpace(token)))
	return hex.EncodeToString(sum[:])
}

func randomHex(bytesLen int) (string, error) {
	raw := make([]byte, bytesLen)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	return hex.EncodeToString(raw), nil
}

// pageBounds clamps page/limit and returns the row offset.
func pageBounds(page, limit int) (int, int, int) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 || limit > maxPageSize {
		limit = defaultPageSize
	}
	return page, limit, (page - 1) * limit
}

func eventPayload(fields map[string]any) []byte {
	raw, _ := json.Marshal(fields)
	return raw
}

func (s *Service) warn(ctx context.Context, msg, operation string, err error, attrs ...any) {
	args := append([]any{"operation", operation, "outcome", "failure", "error", err}, attrs...)
	s.logger.WarnContext(ctx, msg, args...)
}

func profileFromFields(email string, f ProfileFields) domain.ShippingProfile {
	return domain.ShippingProfile{
		FirstName: f.FirstName,
		LastName:  f.LastName,
		Email:     email,
		Address:   f.Address,
		City:      f.City,
		Province:  f.Province,
		ZipCode:   f.ZipCode,
		Country:   f.Country,
		Phone:     f.PhoneNumber,
	}.Normalized()
}

func toUserResponse(u domain.User) UserResponse {
	return UserResponse{
		ID: u.ID,
		ProfileFields: ProfileFields{
			FirstName:   u.Profile.FirstName,
			LastName:    u.Profile.LastName,
			Address:     u.Profile.Address,
			City:        u.Profile.City,
			Province:    u.Profile.Province,
			ZipCode:     u.Profile.ZipCode,
			Country:     u.Profile.Country,
			PhoneNumber: u.Profile.Phone,
		},
		Email:     u.Email,
		IsAdmin:   u.IsAdmin,
		CreatedAt: u.CreatedAt,
	}
}

func toProductResponse(p domain.Product) ProductResponse {
	images := p.Images
	if images == nil {
		images = map[string]string{}
	}
	return ProductResponse{
		ID:              p.ID,
		Name:            p.Name,
		Price:           p.Price,
		Description:     p.Description,
		Sizes:           lo.Ternary(p.Sizes == nil, []string{}, p.Sizes),
		Languages:       lo.Ternary(p.Languages == nil, []string{}, p.Languages),
		CoverImage:      p.CoverImage,
		Images:          images,
		DefaultSize:     p.DefaultSize(),
		DefaultLanguage: p.DefaultLanguage(),
	}
}

func toOrderItemResponse(it domain.OrderItem) OrderItemResponse {
	return OrderItemResponse{
		ID:           it.ID,
		ProductID:    it.ProductID,
		ProductName:  it.ProductName,
		ProductImage: it.ProductImage,
		Size:         it.Size,
		Language:     it.Language,
		Quantity:     it.Quantity,
		Price:        it.UnitPrice,
		LineTotal:    it.LineTotal(),
	}
}

func toOrderResponse(o domain.Order) OrderResponse {
	return OrderResponse{
		ID:            o.ID,
		UserID:        o.UserID,
		FirstName:     o.Shipping.FirstName,
		LastName:      o.Shipping.LastName,
		Email:         o.Shipping.Email,
		Address:       o.Shipping.Address,
		City:          o.Shipping.City,
		Province:      o.Shipping.Province,
		ZipCode:       o.Shipping.ZipCode,
		Country:       o.Shipping.Country,
		PhoneNumber:   o.Shipping.Phone,
		TotalAmount:   o.TotalAmount,
		Status:        string(o.Status),
		PaymentMethod: o.PaymentMethod,
		OrderDate:     o.CreatedAt,
		Items:         lo.Map(o.Items, func(it domain.OrderItem, _ int) OrderItemResponse { return toOrderItemResponse(it) }),
	}
}

func toCommentResponse(c domain.Comment) CommentResponse {
	return CommentResponse{
		ID:          c.ID,
		Rating:      c.Rating,
		Comment:     c.Body,
		Author:      c.AuthorName,
		IsAnonymous: c.Anonymous,
		CreatedAt:   c.CreatedAt,
	}
}
