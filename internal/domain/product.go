package domain

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// DateLayout is the calendar date format used for grocery expiry dates
const DateLayout = "2006-01-02"

// Kind is the variant tag of a product
type Kind string

const (
	KindElectronics Kind = "Electronics"
	KindGrocery     Kind = "Grocery"
	KindClothing    Kind = "Clothing"
)

// Kinds lists every known product kind in menu order
var Kinds = []Kind{KindElectronics, KindGrocery, KindClothing}

// ParseKind resolves a tag name case-insensitively
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds {
		if strings.EqualFold(string(k), strings.TrimSpace(s)) {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: unknown product type %q", ErrInvalidProduct, s)
}

// ElectronicsDetails holds the electronics-only fields
type ElectronicsDetails struct {
	Brand         string
	WarrantyYears int
}

// GroceryDetails holds the grocery-only fields
type GroceryDetails struct {
	ExpiryDate time.Time // UTC midnight
}

// ClothingDetails holds the clothing-only fields
type ClothingDetails struct {
	Size     string
	Material string
}

// Product is a catalog entry. Exactly one of the detail pointers is set,
// and it always matches Kind.
type Product struct {
	ID       string
	Name     string
	Price    float64
	Quantity int
	Kind     Kind

	Electronics *ElectronicsDetails
	Grocery     *GroceryDetails
	Clothing    *ClothingDetails
}

// NewElectronics creates an electronics product
func NewElectronics(id, name string, price float64, quantity int, brand string, warrantyYears int) Product {
	return Product{
		ID:          id,
		Name:        name,
		Price:       price,
		Quantity:    quantity,
		Kind:        KindElectronics,
		Electronics: &ElectronicsDetails{Brand: brand, WarrantyYears: warrantyYears},
	}
}

// NewGrocery creates a grocery product. Only the calendar date of expiry is kept.
func NewGrocery(id, name string, price float64, quantity int, expiry time.Time) Product {
	return Product{
		ID:       id,
		Name:     name,
		Price:    price,
		Quantity: quantity,
		Kind:     KindGrocery,
		Grocery:  &GroceryDetails{ExpiryDate: DateOf(expiry)},
	}
}

// NewClothing creates a clothing product
func NewClothing(id, name string, price float64, quantity int, size, material string) Product {
	return Product{
		ID:       id,
		Name:     name,
		Price:    price,
		Quantity: quantity,
		Kind:     KindClothing,
		Clothing: &ClothingDetails{Size: size, Material: material},
	}
}

// ParseDate parses a YYYY-MM-DD calendar date
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, strings.TrimSpace(s))
}

// DateOf truncates t to its calendar date, expressed as UTC midnight
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Validate checks the shared invariants and that the payload matches Kind
func (p *Product) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("%w: id is required", ErrInvalidProduct)
	}
	if math.IsNaN(p.Price) || math.IsInf(p.Price, 0) {
		return fmt.Errorf("%w: price must be a finite number", ErrInvalidProduct)
	}
	if p.Price < 0 {
		return fmt.Errorf("%w: price must be >= 0", ErrInvalidProduct)
	}
	if p.Quantity < 0 {
		return fmt.Errorf("%w: quantity must be >= 0", ErrInvalidProduct)
	}

	var ok bool
	switch p.Kind {
	case KindElectronics:
		ok = p.Electronics != nil && p.Grocery == nil && p.Clothing == nil
		if ok && p.Electronics.WarrantyYears < 0 {
			return fmt.Errorf("%w: warranty years must be >= 0", ErrInvalidProduct)
		}
	case KindGrocery:
		ok = p.Grocery != nil && p.Electronics == nil && p.Clothing == nil
	case KindClothing:
		ok = p.Clothing != nil && p.Electronics == nil && p.Grocery == nil
	default:
		return fmt.Errorf("%w: unknown product type %q", ErrInvalidProduct, p.Kind)
	}
	if !ok {
		return fmt.Errorf("%w: details do not match type %s", ErrInvalidProduct, p.Kind)
	}
	return nil
}

// Restock adds amount units to the stock
func (p *Product) Restock(amount int) error {
	if amount < 0 {
		return fmt.Errorf("%w: restock amount must be >= 0, got %d", ErrInvalidQuantity, amount)
	}
	if amount > math.MaxInt-p.Quantity {
		return fmt.Errorf("%w: restock of %d would overflow stock of %d", ErrInvalidQuantity, amount, p.Quantity)
	}
	p.Quantity += amount
	return nil
}

// Sell removes quantity units from the stock. Stock is left untouched on error.
func (p *Product) Sell(quantity int) error {
	if quantity <= 0 {
		return fmt.Errorf("%w: sale quantity must be > 0, got %d", ErrInvalidQuantity, quantity)
	}
	if quantity > p.Quantity {
		return fmt.Errorf("%w: requested %d, available %d", ErrOutOfStock, quantity, p.Quantity)
	}
	p.Quantity -= quantity
	return nil
}

// TotalValue returns price times quantity in stock
func (p *Product) TotalValue() float64 {
	return p.Price * float64(p.Quantity)
}

// IsExpired reports whether the calendar date of now is after the expiry date.
// Products without an expiry date never expire.
func (p *Product) IsExpired(now time.Time) bool {
	if p.Grocery == nil {
		return false
	}
	return DateOf(now).After(p.Grocery.ExpiryDate)
}

// Clone returns a deep copy so callers cannot mutate inventory-owned state
func (p *Product) Clone() Product {
	c := *p
	if p.Electronics != nil {
		e := *p.Electronics
		c.Electronics = &e
	}
	if p.Grocery != nil {
		g := *p.Grocery
		c.Grocery = &g
	}
	if p.Clothing != nil {
		cl := *p.Clothing
		c.Clothing = &cl
	}
	return c
}

// Describe renders the shared fields followed by the variant fields
func (p *Product) Describe(now time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Type: %s\n", p.Kind)
	fmt.Fprintf(&b, "ID: %s\n", p.ID)
	fmt.Fprintf(&b, "Name: %s\n", p.Name)
	fmt.Fprintf(&b, "Price: %.2f\n", p.Price)
	fmt.Fprintf(&b, "Quantity: %d", p.Quantity)

	switch {
	case p.Electronics != nil:
		fmt.Fprintf(&b, "\nBrand: %s", p.Electronics.Brand)
		fmt.Fprintf(&b, "\nWarranty: %d years", p.Electronics.WarrantyYears)
	case p.Grocery != nil:
		status := "not expired"
		if p.IsExpired(now) {
			status = "expired"
		}
		fmt.Fprintf(&b, "\nExpiry Date: %s (%s)", p.Grocery.ExpiryDate.Format(DateLayout), status)
	case p.Clothing != nil:
		fmt.Fprintf(&b, "\nSize: %s", p.Clothing.Size)
		fmt.Fprintf(&b, "\nMaterial: %s", p.Clothing.Material)
	}
	return b.String()
}
