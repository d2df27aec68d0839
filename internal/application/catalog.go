package application

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/samber/lo"
	"github.com/tidwall/gjson"

	"github.com/maglieria/storefront/internal/domain"
)

func (s *Service) ListProducts(ctx context.Context) ([]ProductResponse, error) {
	products, err := s.loadProducts(ctx)
	if err != nil {
		return nil, err
	}
	return lo.Map(products, func(p domain.Product, _ int) ProductResponse { return toProductResponse(p) }), nil
}

// GetProduct resolves displayImage when a language is requested.
func (s *Service) GetProduct(ctx context.Context, productID int64, language string) (ProductResponse, error) {
	product, err := s.loadProduct(ctx, productID)
	if err != nil {
		return ProductResponse{}, err
	}
	resp := toProductResponse(product)
	if lang := strings.TrimSpace(language); lang != "" {
		resp.DisplayImage = product.ImageFor(lang)
	}
	return resp, nil
}

func (s *Service) CreateProduct(ctx context.Context, in ProductInput) (ProductResponse, error) {
	product, err := productFromInput(in)
	if err != nil {
		return ProductResponse{}, err
	}
	now := s.nowFn()
	product.CreatedAt = now
	product.UpdatedAt = now

	created, err := s.products.Create(ctx, product)
	if err != nil {
		return ProductResponse{}, fmt.Errorf("%w: %v", domain.ErrPersistence, err)
	}
	s.invalidateCatalog(ctx)
	return toProductResponse(created), nil
}

func (s *Service) UpdateProduct(ctx context.Context, productID int64, in ProductInput) (ProductResponse, error) {
	product, err := productFromInput(in)
	if err != nil {
		return ProductResponse{}, err
	}
	existing, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return ProductResponse{}, err
	}
	product.ID = productID
	product.CreatedAt = existing.CreatedAt
	product.UpdatedAt = s.nowFn()

	updated, err := s.products.Update(ctx, product)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return ProductResponse{}, err
		}
		return ProductResponse{}, fmt.Errorf("%w: %v", domain.ErrPersistence, err)
	}
	s.invalidateCatalog(ctx, productID)
	return toProductResponse(updated), nil
}

// DeleteProduct leaves order history intact; items keep their snapshots.
func (s *Service) DeleteProduct(ctx context.Context, productID int64) error {
	if err := s.products.Delete(ctx, productID); err != nil {
		return err
	}
	s.invalidateCatalog(ctx, productID)
	return nil
}

func (s *Service) loadProducts(ctx context.Context) ([]domain.Product, error) {
	if s.catalog != nil {
		cached, ok, err := s.catalog.GetProductList(ctx)
		if err != nil {
			s.warn(ctx, "catalog cache read failed", "list_products", err)
		} else if ok {
			return cached, nil
		}
	}
	products, err := s.products.List(ctx)
	if err != nil {
		return nil, err
	}
	if s.catalog != nil {
		if err := s.catalog.PutProductList(ctx, products); err != nil {
			s.warn(ctx, "catalog cache write failed", "list_products", err)
		}
	}
	return products, nil
}

func (s *Service) loadProduct(ctx context.Context, productID int64) (domain.Product, error) {
	if s.catalog != nil {
		cached, ok, err := s.catalog.GetProduct(ctx, productID)
		if err != nil {
			s.warn(ctx, "catalog cache read failed", "get_product", err, "product_id", productID)
		} else if ok {
			return cached, nil
		}
	}
	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return domain.Product{}, err
	}
	if s.catalog != nil {
		if err := s.catalog.PutProduct(ctx, product); err != nil {
			s.warn(ctx, "catalog cache write failed", "get_product", err, "product_id", productID)
		}
	}
	return product, nil
}

func (s *Service) invalidateCatalog(ctx context.Context, productIDs ...int64) {
	if s.catalog == nil {
		return
	}
	if err := s.catalog.Invalidate(ctx, productIDs...); err != nil {
		s.warn(ctx, "catalog cache invalidation failed", "invalidate_catalog", err)
	}
}

func productFromInput(in ProductInput) (domain.Product, error) {
	images, err := ParseImageMap(in.Images)
	if err != nil {
		return domain.Product{}, err
	}
	product := domain.Product{
		Name:        strings.TrimSpace(in.Name),
		Price:       in.Price.Round(2),
		Description: strings.TrimSpace(in.Description),
		Sizes:       cleanList(in.Sizes),
		Languages:   cleanList(in.Languages),
		CoverImage:  strings.TrimSpace(in.CoverImage),
		Images:      images,
	}
	if !in.Price.Equal(product.Price) {
		return domain.Product{}, fmt.Errorf("%w: price must have at most two decimals", domain.ErrInvalidInput)
	}
	if err := product.Validate(); err != nil {
		return domain.Product{}, err
	}
	return product, nil
}

// ParseImageMap accepts a JSON object of language -> image reference, or a JSON
// string that itself holds such an object. Absent or null input yields an empty map.
func ParseImageMap(raw []byte) (map[string]string, error) {
	images := map[string]string{}
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return images, nil
	}
	if !gjson.Valid(trimmed) {
		return nil, fmt.Errorf("%w: images must be valid JSON", domain.ErrInvalidInput)
	}

	result := gjson.Parse(trimmed)
	if result.Type == gjson.String {
		inner := strings.TrimSpace(result.String())
		if inner == "" {
			return images, nil
		}
		if !gjson.Valid(inner) {
			return nil, fmt.Errorf("%w: images string must hold a JSON object", domain.ErrInvalidInput)
		}
		result = gjson.Parse(inner)
	}
	if !result.IsObject() {
		return nil, fmt.Errorf("%w: images must map languages to image references", domain.ErrInvalidInput)
	}

	var parseErr error
	result.ForEach(func(key, value gjson.Result) bool {
		lang := strings.TrimSpace(key.String())
		if value.Type != gjson.String || lang == "" || strings.TrimSpace(value.String()) == "" {
			parseErr = fmt.Errorf("%w: image for %q must be a non-empty string", domain.ErrInvalidInput, key.String())
			return false
		}
		images[lang] = strings.TrimSpace(value.String())
		return true
	})
	if parseErr != nil {
		return nil, parseErr
	}
	return images, nil
}

func cleanList(in []string) []string {
	out := lo.FilterMap(in, func(v string, _ int) (string, bool) {
		v = strings.TrimSpace(v)
		return v, v != ""
	})
	return lo.Uniq(out)
}
