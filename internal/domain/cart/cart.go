// Package cart implements the in-memory sale cart used by quick sales and
// pre-sales. A Cart is an explicit value owned by one session; pricing and
// bonus synthesis run synchronously on every mutation.
package cart

import (
	"encoding/json"

	"github.com/google/uuid"

	"github.com/granjasanluis/reparto-api/internal/domain/bonus"
	"github.com/granjasanluis/reparto-api/internal/domain/entity"
	"github.com/granjasanluis/reparto-api/internal/domain/pricing"
	"github.com/granjasanluis/reparto-api/pkg/apperror"
)

// ProductResolver looks up a product snapshot by ID so bonus lines can be
// synthesized for products that are not themselves in the cart
type ProductResolver func(productID uuid.UUID) *entity.Product

// Line is one cart line. Bonus lines carry zero prices and are rebuilt
// from the regular lines on every mutation; they are never edited directly.
type Line struct {
	Product       *entity.Product `json:"product"`
	Quantity      int             `json:"quantity"`
	UnitPrice     int64           `json:"-"` // cents
	Discount      int64           `json:"-"` // cents
	Total         int64           `json:"-"` // cents
	IsBonus       bool            `json:"is_bonus"`
	UsedWholesale bool            `json:"used_wholesale"`
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (l Line) MarshalJSON() ([]byte, error) {
	type Alias Line
	return json.Marshal(&struct {
		Alias
		UnitPrice float64 `json:"unit_price"`
		Discount  float64 `json:"discount"`
		Total     float64 `json:"total"`
	}{
		Alias:     Alias(l),
		UnitPrice: float64(l.UnitPrice) / 100,
		Discount:  float64(l.Discount) / 100,
		Total:     float64(l.Total) / 100,
	})
}

// Cart holds the regular lines of a sale in progress plus the bonus lines
// derived from them
type Cart struct {
	resolve  ProductResolver
	customer *entity.Customer
	regular  []Line
	bonuses  []Line
}

// New creates an empty cart. The resolver may be nil, in which case bonus
// rules targeting products absent from the cart are skipped.
func New(resolve ProductResolver) *Cart {
	return &Cart{resolve: resolve}
}

// Customer returns the active customer, if any
func (c *Cart) Customer() *entity.Customer {
	return c.customer
}

// SetCustomer switches the active customer, repricing every regular line
// and rebuilding the bonus lines
func (c *Cart) SetCustomer(customer *entity.Customer) {
	c.customer = customer
	for i := range c.regular {
		c.reprice(&c.regular[i])
	}
	c.Resync()
}

// AddItem adds quantity units of product, merging with an existing line
// for the same product
func (c *Cart) AddItem(product *entity.Product, quantity int) error {
	if product == nil {
		return apperror.NewBadRequestError("Product is required")
	}
	if quantity <= 0 {
		return apperror.NewBadRequestError("Quantity must be greater than zero")
	}

	if line := c.find(product.ID); line != nil {
		line.Quantity += quantity
		c.reprice(line)
	} else {
		line := Line{Product: product, Quantity: quantity}
		c.reprice(&line)
		c.regular = append(c.regular, line)
	}

	c.Resync()
	return nil
}

// UpdateQuantity sets the quantity of an existing regular line. A quantity
// of zero or less removes the line.
func (c *Cart) UpdateQuantity(productID uuid.UUID, quantity int) error {
	line := c.find(productID)
	if line == nil {
		return apperror.NewNotFoundError("Cart line")
	}

	if quantity <= 0 {
		c.Remove(productID)
		return nil
	}

	line.Quantity = quantity
	c.reprice(line)
	c.Resync()
	return nil
}

// SetLineDiscount applies a flat discount in cents to a regular line
func (c *Cart) SetLineDiscount(productID uuid.UUID, discount int64) error {
	line := c.find(productID)
	if line == nil {
		return apperror.NewNotFoundError("Cart line")
	}
	if discount < 0 {
		return apperror.NewBadRequestError("Discount cannot be negative")
	}

	line.Discount = discount
	line.Total = int64(line.Quantity)*line.UnitPrice - line.Discount
	c.Resync()
	return nil
}

// Remove deletes a regular line and, through resynchronization, whatever
// bonus quantities it contributed
func (c *Cart) Remove(productID uuid.UUID) {
	for i := range c.regular {
		if c.regular[i].Product.ID == productID {
			c.regular = append(c.regular[:i], c.regular[i+1:]...)
			break
		}
	}
	c.Resync()
}

// Lines returns the regular lines followed by the synthesized bonus lines
func (c *Cart) Lines() []Line {
	lines := make([]Line, 0, len(c.regular)+len(c.bonuses))
	lines = append(lines, c.regular...)
	lines = append(lines, c.bonuses...)
	return lines
}

// Subtotal is the sum of regular line amounts before discounts, in cents
func (c *Cart) Subtotal() int64 {
	var subtotal int64
	for _, line := range c.regular {
		subtotal += int64(line.Quantity) * line.UnitPrice
	}
	return subtotal
}

// TotalDiscount is the sum of line discounts, in cents
func (c *Cart) TotalDiscount() int64 {
	var discount int64
	for _, line := range c.regular {
		discount += line.Discount
	}
	return discount
}

// Total is the amount payable, in cents
func (c *Cart) Total() int64 {
	return c.Subtotal() - c.TotalDiscount()
}

// IsEmpty reports whether the cart has no regular lines
func (c *Cart) IsEmpty() bool {
	return len(c.regular) == 0
}

// Resync discards all bonus lines and rebuilds them from the current
// regular lines and their products' bonus rules. The rebuild is a pure
// function of the regular lines, so running it again without an
// intervening mutation yields an identical result.
func (c *Cart) Resync() {
	sold := make([]bonus.Line, 0, len(c.regular))
	rules := make(map[uuid.UUID][]entity.BonusRule, len(c.regular))
	for _, line := range c.regular {
		sold = append(sold, bonus.Line{ProductID: line.Product.ID, Quantity: line.Quantity})
		rules[line.Product.ID] = line.Product.BonusRules
	}

	grants := bonus.Aggregate(sold, bonus.RulesByProduct(rules))

	c.bonuses = c.bonuses[:0]
	for _, grant := range grants {
		product := c.lookup(grant.ProductID)
		if product == nil {
			continue
		}
		c.bonuses = append(c.bonuses, Line{
			Product:  product,
			Quantity: grant.Quantity,
			IsBonus:  true,
		})
	}
}

func (c *Cart) find(productID uuid.UUID) *Line {
	for i := range c.regular {
		if c.regular[i].Product.ID == productID {
			return &c.regular[i]
		}
	}
	return nil
}

// lookup resolves a bonus target product, preferring snapshots already in
// the cart over the external resolver
func (c *Cart) lookup(productID uuid.UUID) *entity.Product {
	if line := c.find(productID); line != nil {
		return line.Product
	}
	if c.resolve != nil {
		return c.resolve(productID)
	}
	return nil
}

func (c *Cart) reprice(line *Line) {
	quote := pricing.Compute(line.Product, line.Quantity, c.customer)
	line.UnitPrice = quote.UnitPrice
	line.UsedWholesale = quote.UsedWholesale
	line.Total = int64(line.Quantity)*line.UnitPrice - line.Discount
}
