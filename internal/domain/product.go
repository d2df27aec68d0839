package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Product is a catalog entry. Images maps a language code to an image reference.
type Product struct {
	ID          int64
	Name        string
	Price       decimal.Decimal
	Description string
	Sizes       []string
	Languages   []string
	CoverImage  string
	Images      map[string]string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Validate rejects products that could not be rendered or ordered.
func (p Product) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("%w: product name is required", ErrInvalidInput)
	}
	if p.Price.IsNegative() {
		return fmt.Errorf("%w: price must be >= 0", ErrInvalidInput)
	}
	if len(p.Sizes) == 0 {
		return fmt.Errorf("%w: at least one size is required", ErrInvalidInput)
	}
	if len(p.Languages) == 0 {
		return fmt.Errorf("%w: at least one language is required", ErrInvalidInput)
	}
	for lang, ref := range p.Images {
		if strings.TrimSpace(lang) == "" || strings.TrimSpace(ref) == "" {
			return fmt.Errorf("%w: image map entries need a language and a reference", ErrInvalidInput)
		}
	}
	return nil
}

func (p Product) DefaultSize() string {
	if len(p.Sizes) == 0 {
		return ""
	}
	return p.Sizes[0]
}

func (p Product) DefaultLanguage() string {
	if len(p.Languages) == 0 {
		return ""
	}
	return p.Languages[0]
}

// ImageFor resolves the display image for a language, falling back to the cover image.
func (p Product) ImageFor(language string) string {
	if ref, ok := p.Images[language]; ok && ref != "" {
		return ref
	}
	return p.CoverImage
}
