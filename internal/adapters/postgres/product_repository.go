package postgres

import (
	"context"

	"github.com/maglieria/storefront/internal/domain"
	"github.com/samber/lo"
	"gorm.io/gorm"
)

type productRepository struct {
	db *gorm.DB
}

func (r *productRepository) Create(ctx context.Context, product domain.Product) (domain.Product, error) {
	rec := toProductModel(product)
	rec.ID = 0
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return domain.Product{}, err
	}
	return toDomainProduct(rec), nil
}

func (r *productRepository) GetByID(ctx context.Context, productID int64) (domain.Product, error) {
	var rec productModel
	if err := r.db.WithContext(ctx).Where("id = ?", productID).Take(&rec).Error; err != nil {
		if isNotFound(err) {
			return domain.Product{}, domain.ErrNotFound
		}
		return domain.Product{}, err
	}
	return toDomainProduct(rec), nil
}

func (r *productRepository) GetByIDs(ctx context.Context, productIDs []int64) (map[int64]domain.Product, error) {
	ids := lo.Uniq(productIDs)
	if len(ids) == 0 {
		return map[int64]domain.Product{}, nil
	}
	var rows []productModel
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	return lo.SliceToMap(rows, func(row productModel) (int64, domain.Product) {
		return row.ID, toDomainProduct(row)
	}), nil
}

func (r *productRepository) List(ctx context.Context) ([]domain.Product, error) {
	var rows []productModel
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return lo.Map(rows, func(row productModel, _ int) domain.Product { return toDomainProduct(row) }), nil
}

func (r *productRepository) Update(ctx context.Context, product domain.Product) (domain.Product, error) {
	rec := toProductModel(product)
	res := r.db.WithContext(ctx).
		Model(&rec).
		Select("name", "price", "description", "sizes", "languages", "cover_image", "images", "updated_at").
		Updates(&rec)
	if res.Error != nil {
		return domain.Product{}, res.Error
	}
	if res.RowsAffected == 0 {
		return domain.Product{}, domain.ErrNotFound
	}
	return r.GetByID(ctx, product.ID)
}

func (r *productRepository) Delete(ctx context.Context, productID int64) error {
	res := r.db.WithContext(ctx).Where("id = ?", productID).Delete(&productModel{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
