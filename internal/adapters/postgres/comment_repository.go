package postgres

import (
	"context"

	"github.com/maglieria/storefront/internal/domain"
	"github.com/samber/lo"
	"gorm.io/gorm"
)

type commentRepository struct {
	db *gorm.DB
}

func (r *commentRepository) Create(ctx context.Context, comment domain.Comment) (domain.Comment, error) {
	rec := commentModel{
		Rating:     comment.Rating,
		Body:       comment.Body,
		AuthorName: comment.AuthorName,
		Anonymous:  comment.Anonymous,
		CreatedAt:  comment.CreatedAt,
	}
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return domain.Comment{}, err
	}
	return toDomainComment(rec), nil
}

func (r *commentRepository) List(ctx context.Context, limit, offset int) ([]domain.Comment, error) {
	var rows []commentModel
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").Order("id DESC").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return lo.Map(rows, func(row commentModel, _ int) domain.Comment { return toDomainComment(row) }), nil
}
