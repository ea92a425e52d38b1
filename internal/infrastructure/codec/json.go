package codec

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/stockkeep/backend/internal/domain"
)

// header holds the keys shared by every record. Pointers let validation
// tell a missing key apart from a zero value.
type header struct {
	ID       *string  `json:"id" validate:"required,min=1"`
	Name     *string  `json:"name" validate:"required"`
	Price    *float64 `json:"price" validate:"required,gte=0"`
	Quantity *int     `json:"quantity" validate:"required,gte=0"`
}

type electronicsFields struct {
	Warranty *int    `json:"warranty" validate:"required,gte=0"`
	Brand    *string `json:"brand" validate:"required"`
}

type groceryFields struct {
	ExpiryDate *string `json:"expiry_date" validate:"required,datetime=2006-01-02"`
}

type clothingFields struct {
	Size     *string `json:"size" validate:"required"`
	Material *string `json:"material" validate:"required"`
}

// record is the persisted shape of one product. Only the embedded fields
// of the product's own kind are set.
type record struct {
	Type string `json:"type"`
	header
	*electronicsFields
	*groceryFields
	*clothingFields
}

// JSONCodec converts products to and from a tagged JSON array
type JSONCodec struct {
	validate *validator.Validate
}

// NewJSONCodec creates a codec
func NewJSONCodec() *JSONCodec {
	return &JSONCodec{validate: validator.New()}
}

// Serialize encodes products as a JSON array of tagged objects
func (c *JSONCodec) Serialize(products []domain.Product) ([]byte, error) {
	records := make([]record, 0, len(products))
	for i := range products {
		rec, err := toRecord(&products[i])
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return json.MarshalIndent(records, "", "  ")
}

// Deserialize decodes a JSON array produced by Serialize. Elements with an
// unknown type tag are skipped; any other malformed element fails the whole
// payload with domain.ErrInvalidData.
func (c *JSONCodec) Deserialize(data []byte) ([]domain.Product, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, fmt.Errorf("%w: top level must be a JSON array", domain.ErrInvalidData)
	}

	var elements []json.RawMessage
	if err := json.Unmarshal(trimmed, &elements); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidData, err)
	}

	products := make([]domain.Product, 0, len(elements))
	for i, raw := range elements {
		p, ok, err := c.decodeElement(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: element %d: %v", domain.ErrInvalidData, i, err)
		}
		if ok {
			products = append(products, p)
		}
	}
	return products, nil
}

// decodeElement returns ok=false for elements with an unknown type tag
func (c *JSONCodec) decodeElement(raw json.RawMessage) (domain.Product, bool, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		return domain.Product{}, false, fmt.Errorf("not a JSON object")
	}

	rawType, ok := fields["type"]
	if !ok {
		return domain.Product{}, false, fmt.Errorf("missing key \"type\"")
	}
	var tagPtr *string
	if err := json.Unmarshal(rawType, &tagPtr); err != nil || tagPtr == nil {
		return domain.Product{}, false, fmt.Errorf("key \"type\" must be a string")
	}
	tag := *tagPtr

	switch domain.Kind(tag) {
	case domain.KindElectronics, domain.KindGrocery, domain.KindClothing:
	default:
		return domain.Product{}, false, nil
	}

	var h header
	if err := c.decode(raw, &h); err != nil {
		return domain.Product{}, false, err
	}

	switch domain.Kind(tag) {
	case domain.KindElectronics:
		var f electronicsFields
		if err := c.decode(raw, &f); err != nil {
			return domain.Product{}, false, err
		}
		return domain.NewElectronics(*h.ID, *h.Name, *h.Price, *h.Quantity, *f.Brand, *f.Warranty), true, nil
	case domain.KindGrocery:
		var f groceryFields
		if err := c.decode(raw, &f); err != nil {
			return domain.Product{}, false, err
		}
		expiry, err := domain.ParseDate(*f.ExpiryDate)
		if err != nil {
			return domain.Product{}, false, fmt.Errorf("expiry_date: %v", err)
		}
		return domain.NewGrocery(*h.ID, *h.Name, *h.Price, *h.Quantity, expiry), true, nil
	default:
		var f clothingFields
		if err := c.decode(raw, &f); err != nil {
			return domain.Product{}, false, err
		}
		return domain.NewClothing(*h.ID, *h.Name, *h.Price, *h.Quantity, *f.Size, *f.Material), true, nil
	}
}

func (c *JSONCodec) decode(raw json.RawMessage, dst any) error {
	if err := json.Unmarshal(raw, dst); err != nil {
		return err
	}
	if err := c.validate.Struct(dst); err != nil {
		return describeValidation(err)
	}
	return nil
}

func describeValidation(err error) error {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok || len(verrs) == 0 {
		return err
	}
	fe := verrs[0]
	if fe.Tag() == "required" {
		return fmt.Errorf("missing key for field %s", fe.Field())
	}
	return fmt.Errorf("field %s failed %s validation", fe.Field(), fe.Tag())
}

func toRecord(p *domain.Product) (record, error) {
	if err := p.Validate(); err != nil {
		return record{}, err
	}
	id, name, price, qty := p.ID, p.Name, p.Price, p.Quantity
	rec := record{
		Type:   string(p.Kind),
		header: header{ID: &id, Name: &name, Price: &price, Quantity: &qty},
	}
	switch p.Kind {
	case domain.KindElectronics:
		warranty, brand := p.Electronics.WarrantyYears, p.Electronics.Brand
		rec.electronicsFields = &electronicsFields{Warranty: &warranty, Brand: &brand}
	case domain.KindGrocery:
		expiry := p.Grocery.ExpiryDate.Format(domain.DateLayout)
		rec.groceryFields = &groceryFields{ExpiryDate: &expiry}
	case domain.KindClothing:
		size, material := p.Clothing.Size, p.Clothing.Material
		rec.clothingFields = &clothingFields{Size: &size, Material: &material}
	}
	return rec, nil
}
