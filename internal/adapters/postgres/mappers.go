package postgres

import (
	"errors"
	"strings"

	"github.com/maglieria/storefront/internal/domain"
	"github.com/samber/lo"
	"gorm.io/gorm"
)

func toDomainUser(row userModel) domain.User {
	return domain.User{
		ID:           row.ID,
		Email:        row.Email,
		PasswordHash: row.PasswordHash,
		Profile: domain.ShippingProfile{
			FirstName: row.FirstName,
			LastName:  row.LastName,
			Email:     row.Email,
			Address:   row.Address,
			City:      row.City,
			Province:  row.Province,
			ZipCode:   row.ZipCode,
			Country:   row.Country,
			Phone:     row.Phone,
		},
		IsAdmin:             row.IsAdmin,
		ResetTokenHash:      row.ResetTokenHash,
		ResetTokenExpiresAt: row.ResetTokenExpiresAt,
		CreatedAt:           row.CreatedAt,
		UpdatedAt:           row.UpdatedAt,
	}
}

// profileColumns lists the user columns overwritten by a profile save.
// Email is the login identity and is never changed here.
// shippingColumns are the delivery fields an order may copy onto its owner.
func shippingColumns(p domain.ShippingProfile) map[string]any {
	return map[string]any{
		"address":      p.Address,
		"city":         p.City,
		"province":     p.Province,
		"zip_code":     p.ZipCode,
		"country":      p.Country,
		"phone_number": p.Phone,
	}
}

func profileColumns(p domain.ShippingProfile) map[string]any {
	cols := shippingColumns(p)
	cols["first_name"] = p.FirstName
	cols["last_name"] = p.LastName
	return cols
}

func toProductModel(p domain.Product) productModel {
	return productModel{
		ID:          p.ID,
		Name:        p.Name,
		Price:       p.Price,
		Description: p.Description,
		Sizes:       lo.Ternary(p.Sizes == nil, []string{}, p.Sizes),
		Languages:   lo.Ternary(p.Languages == nil, []string{}, p.Languages),
		CoverImage:  p.CoverImage,
		Images:      lo.Ternary(p.Images == nil, map[string]string{}, p.Images),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func toDomainProduct(row productModel) domain.Product {
	return domain.Product{
		ID:          row.ID,
		Name:        row.Name,
		Price:       row.Price,
		Description: row.Description,
		Sizes:       row.Sizes,
		Languages:   row.Languages,
		CoverImage:  row.CoverImage,
		Images:      lo.Ternary(row.Images == nil, map[string]string{}, row.Images),
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}
}

func toOrderModel(o domain.Order) orderModel {
	return orderModel{
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
		Phone:         o.Shipping.Phone,
		TotalAmount:   o.TotalAmount,
		Status:        string(o.Status),
		PaymentMethod: nullableString(o.PaymentMethod),
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
	}
}

func toDomainOrder(row orderModel, items []orderItemModel) domain.Order {
	return domain.Order{
		ID:     row.ID,
		UserID: row.UserID,
		Shipping: domain.ShippingProfile{
			FirstName: row.FirstName,
			LastName:  row.LastName,
			Email:     row.Email,
			Address:   row.Address,
			City:      row.City,
			Province:  row.Province,
			ZipCode:   row.ZipCode,
			Country:   row.Country,
			Phone:     row.Phone,
		},
		TotalAmount:   row.TotalAmount,
		Status:        domain.OrderStatus(row.Status),
		PaymentMethod: lo.FromPtr(row.PaymentMethod),
		CreatedAt:     row.CreatedAt,
		UpdatedAt:     row.UpdatedAt,
		Items:         lo.Map(items, func(it orderItemModel, _ int) domain.OrderItem { return toDomainOrderItem(it) }),
	}
}

func toOrderItemModel(orderID int64, item domain.OrderItem) orderItemModel {
	return orderItemModel{
		OrderID:      orderID,
		ProductID:    item.ProductID,
		ProductName:  item.ProductName,
		ProductImage: item.ProductImage,
		Size:         item.Size,
		Language:     item.Language,
		Quantity:     item.Quantity,
		UnitPrice:    item.UnitPrice,
	}
}

func toDomainOrderItem(row orderItemModel) domain.OrderItem {
	return domain.OrderItem{
		ID:           row.ID,
		OrderID:      row.OrderID,
		ProductID:    row.ProductID,
		ProductName:  row.ProductName,
		ProductImage: row.ProductImage,
		Size:         row.Size,
		Language:     row.Language,
		Quantity:     row.Quantity,
		UnitPrice:    row.UnitPrice,
	}
}

func toDomainComment(row commentModel) domain.Comment {
	return domain.Comment{
		ID:         row.ID,
		Rating:     row.Rating,
		Body:       row.Body,
		AuthorName: row.AuthorName,
		Anonymous:  row.Anonymous,
		CreatedAt:  row.CreatedAt,
	}
}

func nullableString(v string) *string {
	trimmed := strings.TrimSpace(v)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func isUniqueViolation(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
