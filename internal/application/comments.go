package application

import (
	"context"
	"fmt"

	"github.com/samber/lo"

	"github.com/maglieria/storefront/internal/domain"
)

func (s *Service) ListComments(ctx context.Context, page, limit int) ([]CommentResponse, error) {
	_, limit, offset := pageBounds(page, limit)
	comments, err := s.comments.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	return lo.Map(comments, func(c domain.Comment, _ int) CommentResponse { return toCommentResponse(c) }), nil
}

func (s *Service) AddComment(ctx context.Context, req CommentRequest) (CommentResponse, error) {
	comment, err := domain.NewComment(req.Rating, req.Comment, req.Author, req.IsAnonymous, s.nowFn())
	if err != nil {
		return CommentResponse{}, err
	}
	created, err := s.comments.Create(ctx, comment)
	if err != nil {
		return CommentResponse{}, fmt.Errorf("%w: %v", domain.ErrPersistence, err)
	}
	return toCommentResponse(created), nil
}
