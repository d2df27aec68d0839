package domain

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// CartLine is one selectable product variant with its captured name, image and price.
type CartLine struct {
	ProductID int64
	Name      string
	Image     string
	Size      string
	Language  string
	Quantity  int
	UnitPrice decimal.Decimal
}

type cartKey struct {
	productID int64
	size      string
	language  string
}

func (l CartLine) key() cartKey {
	return cartKey{productID: l.ProductID, size: l.Size, language: l.Language}
}

// Cart is an ordered collection of lines keyed by product, size and language.
type Cart struct {
	lines []CartLine
}

// Add merges quantities when the same variant is added twice.
// A merge must carry the same unit price and stay within MaxLineQuantity.
func (c *Cart) Add(line CartLine) error {
	if line.Quantity < 1 {
		return fmt.Errorf("%w: quantity must be >= 1", ErrInvalidInput)
	}
	if line.Quantity > MaxLineQuantity {
		return fmt.Errorf("%w: quantity must be <= %d", ErrInvalidInput, MaxLineQuantity)
	}
	line.Size = strings.TrimSpace(line.Size)
	line.Language = strings.TrimSpace(line.Language)
	for i := range c.lines {
		if c.lines[i].key() != line.key() {
			continue
		}
		if !c.lines[i].UnitPrice.Equal(line.UnitPrice) {
			return fmt.Errorf("%w: conflicting prices %s and %s for the same variant", ErrInvalidInput, c.lines[i].UnitPrice, line.UnitPrice)
		}
		if c.lines[i].Quantity > MaxLineQuantity-line.Quantity {
			return fmt.Errorf("%w: merged quantity must be <= %d", ErrInvalidInput, MaxLineQuantity)
		}
		c.lines[i].Quantity += line.Quantity
		return nil
	}
	c.lines = append(c.lines, line)
	return nil
}

// SetQuantity updates a line; zero removes it.
func (c *Cart) SetQuantity(productID int64, size, language string, quantity int) error {
	if quantity < 0 {
		return fmt.Errorf("%w: quantity must be >= 0", ErrInvalidInput)
	}
	if quantity > MaxLineQuantity {
		return fmt.Errorf("%w: quantity must be <= %d", ErrInvalidInput, MaxLineQuantity)
	}
	k := cartKey{productID: productID, size: size, language: language}
	for i := range c.lines {
		if c.lines[i].key() != k {
			continue
		}
		if quantity == 0 {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			return nil
		}
		c.lines[i].Quantity = quantity
		return nil
	}
	return ErrNotFound
}

func (c *Cart) Remove(productID int64, size, language string) {
	k := cartKey{productID: productID, size: size, language: language}
	c.lines = lo.Reject(c.lines, func(l CartLine, _ int) bool { return l.key() == k })
}

func (c *Cart) Lines() []CartLine {
	return append([]CartLine(nil), c.lines...)
}

func (c *Cart) Len() int { return len(c.lines) }

// Total is sum(unit price * quantity) over all lines.
func (c *Cart) Total() decimal.Decimal {
	return lo.Reduce(c.lines, func(acc decimal.Decimal, l CartLine, _ int) decimal.Decimal {
		return acc.Add(l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity))))
	}, decimal.Zero)
}
