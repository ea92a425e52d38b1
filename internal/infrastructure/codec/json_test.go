package codec

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockkeep/backend/internal/domain"
)

func sampleProducts() []domain.Product {
	return []domain.Product{
		domain.NewElectronics("e1", "Laptop", 1299.5, 4, "Acme", 2),
		domain.NewGrocery("g1", "Milk", 1.25, 30, time.Date(2026, 11, 2, 0, 0, 0, 0, time.UTC)),
		domain.NewClothing("c1", "Jacket", 89.99, 7, "L", "Denim"),
	}
}

func TestJSONCodec_RoundTrip(t *testing.T) {
	c := NewJSONCodec()
	products := sampleProducts()

	data, err := c.Serialize(products)
	require.NoError(t, err)

	got, err := c.Deserialize(data)
	require.NoError(t, err)
	assert.ElementsMatch(t, products, got)

	now := time.Date(2026, 11, 3, 0, 0, 0, 0, time.UTC)
	for i := range got {
		assert.Equal(t, products[i].IsExpired(now), got[i].IsExpired(now))
	}
}

func TestJSONCodec_SerializeKeys(t *testing.T) {
	data, err := NewJSONCodec().Serialize(sampleProducts())
	require.NoError(t, err)

	var decoded []map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Len(t, decoded, 3)

	assert.Equal(t, map[string]any{
		"type": "Electronics", "id": "e1", "name": "Laptop", "price": 1299.5,
		"quantity": 4.0, "warranty": 2.0, "brand": "Acme",
	}, decoded[0])
	assert.Equal(t, map[string]any{
		"type": "Grocery", "id": "g1", "name": "Milk", "price": 1.25,
		"quantity": 30.0, "expiry_date": "2026-11-02",
	}, decoded[1])
	assert.Equal(t, map[string]any{
		"type": "Clothing", "id": "c1", "name": "Jacket", "price": 89.99,
		"quantity": 7.0, "size": "L", "material": "Denim",
	}, decoded[2])
}

func TestJSONCodec_SerializeEmpty(t *testing.T) {
	data, err := NewJSONCodec().Serialize(nil)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(data))
}

func TestJSONCodec_SerializeRejectsInconsistentProduct(t *testing.T) {
	p := domain.NewClothing("c1", "Shirt", 1, 1, "M", "Cotton")
	p.Kind = domain.KindGrocery

	_, err := NewJSONCodec().Serialize([]domain.Product{p})
	assert.ErrorIs(t, err, domain.ErrInvalidProduct)
}

func TestJSONCodec_DeserializeSkipsUnknownType(t *testing.T) {
	payload := `[
		{"type": "Unknown", "id": "u1", "anything": [1, 2, 3]},
		{"type": "Clothing", "id": "c1", "name": "Shirt", "price": 10, "quantity": 2, "size": "M", "material": "Cotton"}
	]`

	got, err := NewJSONCodec().Deserialize([]byte(payload))

	require.NoError(t, err)
	assert.Equal(t, []domain.Product{domain.NewClothing("c1", "Shirt", 10, 2, "M", "Cotton")}, got)
}

func TestJSONCodec_DeserializeInvalid(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{name: "not json", payload: `{{{`},
		{name: "empty", payload: ``},
		{name: "object at top level", payload: `{"type": "Clothing"}`},
		{name: "null at top level", payload: `null`},
		{name: "array of numbers", payload: `[1, 2]`},
		{name: "null element", payload: `[null]`},
		{name: "missing type", payload: `[{"id": "x"}]`},
		{name: "non-string type", payload: `[{"type": 3}]`},
		{name: "null type", payload: `[{"type": null, "id": "x"}]`},
		{name: "missing id", payload: `[{"type": "Clothing", "name": "S", "price": 1, "quantity": 1, "size": "M", "material": "C"}]`},
		{name: "empty id", payload: `[{"type": "Clothing", "id": "", "name": "S", "price": 1, "quantity": 1, "size": "M", "material": "C"}]`},
		{name: "mistyped price", payload: `[{"type": "Clothing", "id": "c", "name": "S", "price": "cheap", "quantity": 1, "size": "M", "material": "C"}]`},
		{name: "fractional quantity", payload: `[{"type": "Clothing", "id": "c", "name": "S", "price": 1, "quantity": 1.5, "size": "M", "material": "C"}]`},
		{name: "negative quantity", payload: `[{"type": "Clothing", "id": "c", "name": "S", "price": 1, "quantity": -1, "size": "M", "material": "C"}]`},
		{name: "missing material", payload: `[{"type": "Clothing", "id": "c", "name": "S", "price": 1, "quantity": 1, "size": "M"}]`},
		{name: "missing brand", payload: `[{"type": "Electronics", "id": "e", "name": "S", "price": 1, "quantity": 1, "warranty": 1}]`},
		{name: "negative warranty", payload: `[{"type": "Electronics", "id": "e", "name": "S", "price": 1, "quantity": 1, "warranty": -1, "brand": "A"}]`},
		{name: "missing expiry", payload: `[{"type": "Grocery", "id": "g", "name": "S", "price": 1, "quantity": 1}]`},
		{name: "bad expiry", payload: `[{"type": "Grocery", "id": "g", "name": "S", "price": 1, "quantity": 1, "expiry_date": "not-a-date"}]`},
		{name: "impossible expiry", payload: `[{"type": "Grocery", "id": "g", "name": "S", "price": 1, "quantity": 1, "expiry_date": "2026-02-30"}]`},
	}

	c := NewJSONCodec()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.Deserialize([]byte(tt.payload))
			assert.ErrorIs(t, err, domain.ErrInvalidData)
			assert.Nil(t, got)
		})
	}
}
