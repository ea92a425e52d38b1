package usecase

import (
	"fmt"
	"strings"
	"time"

	"github.com/stockkeep/backend/internal/domain"
)

// Inventory is an insertion-ordered catalog of products keyed by ID.
// It is not safe for concurrent use; InventoryService adds the locking.
type Inventory struct {
	products map[string]*domain.Product
	order    []string
	now      func() time.Time
}

// InventoryOption configures an Inventory
type InventoryOption func(*Inventory)

// WithClock overrides the clock used for expiry checks
func WithClock(now func() time.Time) InventoryOption {
	return func(inv *Inventory) {
		inv.now = now
	}
}

// NewInventory creates an empty inventory
func NewInventory(opts ...InventoryOption) *Inventory {
	inv := &Inventory{
		products: make(map[string]*domain.Product),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(inv)
	}
	return inv
}

// Now returns the inventory's current time
func (inv *Inventory) Now() time.Time {
	return inv.now()
}

// Len returns the number of products
func (inv *Inventory) Len() int {
	return len(inv.order)
}

// Add inserts a product. The inventory keeps its own copy.
func (inv *Inventory) Add(product domain.Product) error {
	if err := product.Validate(); err != nil {
		return err
	}
	if _, exists := inv.products[product.ID]; exists {
		return fmt.Errorf("%w: %s", domain.ErrDuplicateID, product.ID)
	}
	p := product.Clone()
	inv.products[p.ID] = &p
	inv.order = append(inv.order, p.ID)
	return nil
}

// Remove deletes a product and reports whether it was present
func (inv *Inventory) Remove(id string) bool {
	if _, exists := inv.products[id]; !exists {
		return false
	}
	delete(inv.products, id)
	for i, existing := range inv.order {
		if existing == id {
			inv.order = append(inv.order[:i], inv.order[i+1:]...)
			break
		}
	}
	return true
}

// Get returns a copy of the product with the given ID
func (inv *Inventory) Get(id string) (domain.Product, error) {
	p, exists := inv.products[id]
	if !exists {
		return domain.Product{}, fmt.Errorf("%w: %s", domain.ErrNotFound, id)
	}
	return p.Clone(), nil
}

// SearchByName returns products whose name equals name, ignoring case
func (inv *Inventory) SearchByName(name string) []domain.Product {
	return inv.filter(func(p *domain.Product) bool {
		return strings.EqualFold(p.Name, name)
	})
}

// SearchByType returns products whose type tag equals tag, ignoring case
func (inv *Inventory) SearchByType(tag string) []domain.Product {
	return inv.filter(func(p *domain.Product) bool {
		return strings.EqualFold(string(p.Kind), tag)
	})
}

// ListAll returns every product in insertion order
func (inv *Inventory) ListAll() []domain.Product {
	return inv.filter(func(*domain.Product) bool { return true })
}

// Sell decreases the stock of a product
func (inv *Inventory) Sell(id string, quantity int) error {
	p, exists := inv.products[id]
	if !exists {
		return fmt.Errorf("%w: %s", domain.ErrNotFound, id)
	}
	return p.Sell(quantity)
}

// Restock increases the stock of a product
func (inv *Inventory) Restock(id string, quantity int) error {
	p, exists := inv.products[id]
	if !exists {
		return fmt.Errorf("%w: %s", domain.ErrNotFound, id)
	}
	return p.Restock(quantity)
}

// TotalValue sums price times quantity over all products
func (inv *Inventory) TotalValue() float64 {
	var total float64
	for _, id := range inv.order {
		total += inv.products[id].TotalValue()
	}
	return total
}

// SweepExpired removes every expired grocery product and returns the removed IDs
func (inv *Inventory) SweepExpired() []string {
	now := inv.now()
	removed := []string{}
	kept := inv.order[:0]
	for _, id := range inv.order {
		if inv.products[id].IsExpired(now) {
			delete(inv.products, id)
			removed = append(removed, id)
			continue
		}
		kept = append(kept, id)
	}
	inv.order = kept
	return removed
}

// Replace swaps the whole catalog for products. Nothing changes unless every
// product is valid and IDs are unique.
func (inv *Inventory) Replace(products []domain.Product) error {
	next := make(map[string]*domain.Product, len(products))
	order := make([]string, 0, len(products))
	for i := range products {
		if err := products[i].Validate(); err != nil {
			return fmt.Errorf("%w: %v", domain.ErrInvalidData, err)
		}
		if _, exists := next[products[i].ID]; exists {
			return fmt.Errorf("%w: duplicate id %s", domain.ErrInvalidData, products[i].ID)
		}
		p := products[i].Clone()
		next[p.ID] = &p
		order = append(order, p.ID)
	}
	inv.products = next
	inv.order = order
	return nil
}

func (inv *Inventory) filter(match func(*domain.Product) bool) []domain.Product {
	result := []domain.Product{}
	for _, id := range inv.order {
		if p := inv.products[id]; match(p) {
			result = append(result, p.Clone())
		}
	}
	return result
}
