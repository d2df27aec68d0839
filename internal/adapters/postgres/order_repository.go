package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/maglieria/storefront/internal/domain"
	"github.com/maglieria/storefront/internal/ports"
	"github.com/samber/lo"
	"gorm.io/gorm"
)

type orderRepository struct {
	db *gorm.DB
}

// PlaceWithOutboxTx persists a complete order. Any failure rolls back every write,
// including the optional profile sync.
func (r *orderRepository) PlaceWithOutboxTx(ctx context.Context, params ports.PlaceOrderParams, outboxEvent ports.OutboxEvent) (domain.Order, error) {
	var result domain.Order
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		order := params.Order

		if params.SyncProfileFor != nil {
			updates := shippingColumns(order.Shipping)
			updates["updated_at"] = order.CreatedAt
			if err := tx.Model(&userModel{}).Where("id = ?", *params.SyncProfileFor).Updates(updates).Error; err != nil {
				return fmt.Errorf("sync profile: %w", err)
			}
		}

		header := toOrderModel(order)
		header.ID = 0
		if err := tx.Create(&header).Error; err != nil {
			return fmt.Errorf("insert order: %w", err)
		}

		items := make([]orderItemModel, 0, len(order.Items))
		for i, item := range order.Items {
			row := toOrderItemModel(header.ID, item)
			if err := tx.Create(&row).Error; err != nil {
				return fmt.Errorf("insert order item %d: %w", i, err)
			}
			items = append(items, row)
		}

		payload := withField(outboxEvent.Payload, "order_id", header.ID)
		if err := tx.Create(&outboxModel{
			OutboxID:     outboxEvent.EventID,
			EventType:    outboxEvent.EventType,
			PartitionKey: fmt.Sprintf("%d", header.ID),
			Payload:      string(payload),
			CreatedAt:    outboxEvent.OccurredAt,
		}).Error; err != nil {
			return fmt.Errorf("enqueue order event: %w", err)
		}

		result = toDomainOrder(header, items)
		return nil
	})
	if err != nil {
		return domain.Order{}, err
	}
	return result, nil
}

func (r *orderRepository) GetByID(ctx context.Context, orderID int64) (domain.Order, error) {
	var header orderModel
	if err := r.db.WithContext(ctx).Where("id = ?", orderID).Take(&header).Error; err != nil {
		if isNotFound(err) {
			return domain.Order{}, domain.ErrNotFound
		}
		return domain.Order{}, err
	}
	var items []orderItemModel
	if err := r.db.WithContext(ctx).Where("order_id = ?", orderID).Order("id ASC").Find(&items).Error; err != nil {
		return domain.Order{}, err
	}
	return toDomainOrder(header, items), nil
}

func (r *orderRepository) ListItems(ctx context.Context, orderID int64) ([]domain.OrderItem, error) {
	var items []orderItemModel
	if err := r.db.WithContext(ctx).Where("order_id = ?", orderID).Order("id ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return lo.Map(items, func(it orderItemModel, _ int) domain.OrderItem { return toDomainOrderItem(it) }), nil
}

func (r *orderRepository) List(ctx context.Context, filter ports.OrderListFilter) ([]domain.Order, int64, error) {
	scoped := func() *gorm.DB {
		q := r.db.WithContext(ctx).Model(&orderModel{})
		if filter.Status != nil {
			q = q.Where("status = ?", string(*filter.Status))
		}
		return q
	}
	var total int64
	if err := scoped().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var headers []orderModel
	if err := scoped().Order("created_at DESC").Order("id DESC").
		Limit(filter.Limit).
		Offset(filter.Offset).
		Find(&headers).Error; err != nil {
		return nil, 0, err
	}
	orders, err := r.withItems(ctx, headers)
	if err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

func (r *orderRepository) ListByUser(ctx context.Context, userID int64, limit, offset int) ([]domain.Order, error) {
	var headers []orderModel
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").Order("id DESC").
		Limit(limit).
		Offset(offset).
		Find(&headers).Error; err != nil {
		return nil, err
	}
	return r.withItems(ctx, headers)
}

// UpdateStatus is a compare-and-set on the current status.
func (r *orderRepository) UpdateStatus(ctx context.Context, orderID int64, from, to domain.OrderStatus, at time.Time) error {
	res := r.db.WithContext(ctx).
		Model(&orderModel{}).
		Where("id = ?", orderID).
		Where("status = ?", string(from)).
		Updates(map[string]any{
			"status":     string(to),
			"updated_at": at,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		var count int64
		if err := r.db.WithContext(ctx).Model(&orderModel{}).Where("id = ?", orderID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return domain.ErrNotFound
		}
		return fmt.Errorf("%w: order status changed concurrently", domain.ErrConflict)
	}
	return nil
}

func (r *orderRepository) Delete(ctx context.Context, orderID int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", orderID).Delete(&orderItemModel{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", orderID).Delete(&orderModel{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrNotFound
		}
		return nil
	})
}

func (r *orderRepository) withItems(ctx context.Context, headers []orderModel) ([]domain.Order, error) {
	if len(headers) == 0 {
		return []domain.Order{}, nil
	}
	ids := lo.Map(headers, func(h orderModel, _ int) int64 { return h.ID })
	var items []orderItemModel
	if err := r.db.WithContext(ctx).Where("order_id IN ?", ids).Order("id ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	byOrder := lo.GroupBy(items, func(it orderItemModel) int64 { return it.OrderID })
	return lo.Map(headers, func(h orderModel, _ int) domain.Order {
		return toDomainOrder(h, byOrder[h.ID])
	}), nil
}
