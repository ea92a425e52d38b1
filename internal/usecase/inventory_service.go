package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/stockkeep/backend/internal/domain"
)

// ProductInput carries the fields needed to create any kind of product.
// Fields that do not belong to Type are ignored.
type ProductInput struct {
	Type     string  `json:"type" validate:"required"`
	ID       string  `json:"id" validate:"required"`
	Name     string  `json:"name"`
	Price    float64 `json:"price" validate:"gte=0"`
	Quantity int     `json:"quantity" validate:"gte=0"`

	Brand         string `json:"brand,omitempty"`
	WarrantyYears int    `json:"warranty_years,omitempty" validate:"gte=0"`

	ExpiryDate string `json:"expiry_date,omitempty" validate:"omitempty,datetime=2006-01-02"`

	Size     string `json:"size,omitempty"`
	Material string `json:"material,omitempty"`
}

// InventoryServiceConfig holds optional settings for the inventory service
type InventoryServiceConfig struct {
	Logger *slog.Logger
}

// InventoryService serializes access to one Inventory and handles persistence
type InventoryService struct {
	mu        sync.Mutex
	inventory *Inventory
	store     domain.SnapshotStore
	codec     domain.ProductCodec
	validate  *validator.Validate
	logger    *slog.Logger
}

// NewInventoryService creates a service around inventory
func NewInventoryService(
	inventory *Inventory,
	store domain.SnapshotStore,
	codec domain.ProductCodec,
	config InventoryServiceConfig,
) *InventoryService {
	logger := config.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &InventoryService{
		inventory: inventory,
		store:     store,
		codec:     codec,
		validate:  validator.New(),
		logger:    logger,
	}
}

// BuildProduct validates input and constructs the matching product variant
func (s *InventoryService) BuildProduct(input ProductInput) (domain.Product, error) {
	if err := s.validate.Struct(input); err != nil {
		return domain.Product{}, fmt.Errorf("%w: %s", domain.ErrInvalidProduct, describeInputError(err))
	}

	kind, err := domain.ParseKind(input.Type)
	if err != nil {
		return domain.Product{}, err
	}

	var product domain.Product
	switch kind {
	case domain.KindElectronics:
		product = domain.NewElectronics(input.ID, input.Name, input.Price, input.Quantity, input.Brand, input.WarrantyYears)
	case domain.KindGrocery:
		if input.ExpiryDate == "" {
			return domain.Product{}, fmt.Errorf("%w: expiry_date is required for grocery products", domain.ErrInvalidProduct)
		}
		expiry, err := domain.ParseDate(input.ExpiryDate)
		if err != nil {
			return domain.Product{}, fmt.Errorf("%w: expiry_date must be YYYY-MM-DD", domain.ErrInvalidProduct)
		}
		product = domain.NewGrocery(input.ID, input.Name, input.Price, input.Quantity, expiry)
	default:
		product = domain.NewClothing(input.ID, input.Name, input.Price, input.Quantity, input.Size, input.Material)
	}

	// validator's gte lets NaN and +Inf through
	if err := product.Validate(); err != nil {
		return domain.Product{}, err
	}
	return product, nil
}

// AddProduct validates input and adds the resulting product
func (s *InventoryService) AddProduct(ctx context.Context, input ProductInput) (domain.Product, error) {
	product, err := s.BuildProduct(input)
	if err != nil {
		s.logger.Warn("product rejected", "product_id", input.ID, "error", err)
		return domain.Product{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.inventory.Add(product); err != nil {
		s.logger.Warn("add product failed", "product_id", product.ID, "error", err)
		return domain.Product{}, err
	}

	s.logger.Info("product added", "product_id", product.ID, "type", product.Kind, "quantity", product.Quantity)
	return product, nil
}

// RemoveProduct deletes a product; removing an unknown ID is not an error
func (s *InventoryService) RemoveProduct(ctx context.Context, id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := s.inventory.Remove(id)
	if removed {
		s.logger.Info("product removed", "product_id", id)
	}
	return removed
}

// GetProduct returns a single product
func (s *InventoryService) GetProduct(ctx context.Context, id string) (domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.inventory.Get(id)
}

// Sell decreases stock and returns the updated product
func (s *InventoryService) Sell(ctx context.Context, id string, quantity int) (domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.inventory.Sell(id, quantity); err != nil {
		s.logger.Warn("sale rejected", "product_id", id, "quantity", quantity, "error", err)
		return domain.Product{}, err
	}

	product, err := s.inventory.Get(id)
	if err != nil {
		return domain.Product{}, err
	}
	s.logger.Info("product sold", "product_id", id, "quantity", quantity, "remaining", product.Quantity)
	return product, nil
}

// Restock increases stock and returns the updated product
func (s *InventoryService) Restock(ctx context.Context, id string, quantity int) (domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.inventory.Restock(id, quantity); err != nil {
		s.logger.Warn("restock rejected", "product_id", id, "quantity", quantity, "error", err)
		return domain.Product{}, err
	}

	product, err := s.inventory.Get(id)
	if err != nil {
		return domain.Product{}, err
	}
	s.logger.Info("product restocked", "product_id", id, "quantity", quantity, "stock", product.Quantity)
	return product, nil
}

// SearchByName finds products by case-insensitive exact name
func (s *InventoryService) SearchByName(ctx context.Context, name string) []domain.Product {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.inventory.SearchByName(name)
}

// SearchByType finds products by case-insensitive type tag
func (s *InventoryService) SearchByType(ctx context.Context, tag string) []domain.Product {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.inventory.SearchByType(tag)
}

// ListProducts returns every product in insertion order
func (s *InventoryService) ListProducts(ctx context.Context) []domain.Product {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.inventory.ListAll()
}

// TotalValue returns the value of all stock
func (s *InventoryService) TotalValue(ctx context.Context) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.inventory.TotalValue()
}

// SweepExpired removes expired groceries and returns their IDs
func (s *InventoryService) SweepExpired(ctx context.Context) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := s.inventory.SweepExpired()
	if len(removed) > 0 {
		s.logger.Info("expired products removed", "count", len(removed), "product_ids", removed)
	}
	return removed
}

// Save serializes the inventory and writes it under name. It returns the
// number of products saved.
func (s *InventoryService) Save(ctx context.Context, name string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	products := s.inventory.ListAll()
	data, err := s.codec.Serialize(products)
	if err != nil {
		return 0, fmt.Errorf("serialize inventory: %w", err)
	}
	if err := s.store.Save(ctx, name, data); err != nil {
		s.logger.Error("save inventory failed", "name", name, "error", err)
		return 0, err
	}

	s.logger.Info("inventory saved", "name", name, "count", len(products))
	return len(products), nil
}

// Load replaces the inventory with the snapshot stored under name.
// On any error the current inventory is left unchanged.
func (s *InventoryService) Load(ctx context.Context, name string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.store.Load(ctx, name)
	if err != nil {
		s.logger.Warn("load inventory failed", "name", name, "error", err)
		return 0, err
	}

	products, err := s.codec.Deserialize(data)
	if err == nil {
		err = s.inventory.Replace(products)
	}
	if err != nil {
		s.logger.Warn("inventory data rejected", "name", name, "error", err)
		return 0, err
	}

	s.logger.Info("inventory loaded", "name", name, "count", len(products))
	return len(products), nil
}

// Describe renders a product using the inventory clock for expiry status
func (s *InventoryService) Describe(product domain.Product) string {
	return product.Describe(s.Now())
}

func describeInputError(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err.Error()
	}
	fe := verrs[0]
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "gte":
		return fmt.Sprintf("%s must be >= %s", fe.Field(), fe.Param())
	case "datetime":
		return fmt.Sprintf("%s must be YYYY-MM-DD", fe.Field())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}

// Now returns the time the service uses for expiry checks
func (s *InventoryService) Now() time.Time {
	return s.inventory.Now()
}
