package shell

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockkeep/backend/internal/domain"
	"github.com/stockkeep/backend/internal/infrastructure/codec"
	"github.com/stockkeep/backend/internal/infrastructure/storage"
	"github.com/stockkeep/backend/internal/usecase"
)

var testNow = time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)

func newTestService(store domain.SnapshotStore) *usecase.InventoryService {
	return usecase.NewInventoryService(
		usecase.NewInventory(usecase.WithClock(func() time.Time { return testNow })),
		store,
		codec.NewJSONCodec(),
		usecase.InventoryServiceConfig{},
	)
}

// run feeds the given input lines to a fresh shell and returns its output
func run(t *testing.T, svc *usecase.InventoryService, lines ...string) string {
	t.Helper()
	var out bytes.Buffer
	sh := NewShell(svc, strings.NewReader(strings.Join(lines, "\n")+"\n"), &out)
	require.NoError(t, sh.Run(context.Background()))
	return out.String()
}

func addLaptop() []string {
	return []string{"1", "electronics", "e1", "Laptop", "1000", "3", "Acme", "2"}
}

func TestShell_AddProducts(t *testing.T) {
	svc := newTestService(storage.NewMemoryStore(0))

	input := append(addLaptop(),
		"1", "Grocery", "g1", "Milk", "2.5", "4", "2026-10-10",
		"1", "CLOTHING", "c1", "Shirt", "20", "5", "M", "Cotton",
		"0",
	)
	out := run(t, svc, input...)

	assert.Contains(t, out, "Product e1 added.")
	assert.Contains(t, out, "Product g1 added.")
	assert.Contains(t, out, "Product c1 added.")
	assert.Contains(t, out, "Goodbye.")

	products := svc.ListProducts(context.Background())
	require.Len(t, products, 3)
	assert.Equal(t, domain.NewElectronics("e1", "Laptop", 1000, 3, "Acme", 2), products[0])
}

func TestShell_AddErrors(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
		want  string
	}{
		{
			name:  "unknown type",
			lines: []string{"1", "toys"},
			want:  "Error: invalid product: unknown product type \"toys\"",
		},
		{
			name:  "duplicate id",
			lines: append(addLaptop(), addLaptop()...),
			want:  "Error: product ID already exists: e1",
		},
		{
			name:  "infinite price",
			lines: []string{"1", "clothing", "c1", "Hat", "Inf", "1", "M", "Felt"},
			want:  "Error: invalid product: price must be a finite number",
		},
		{
			name:  "bad expiry date",
			lines: []string{"1", "grocery", "g1", "Milk", "1", "1", "soon"},
			want:  "Error: invalid product",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := run(t, newTestService(storage.NewMemoryStore(0)), tt.lines...)
			assert.Contains(t, out, tt.want)
		})
	}
}

func TestShell_RepromptsOnBadNumbers(t *testing.T) {
	svc := newTestService(storage.NewMemoryStore(0))

	out := run(t, svc, "1", "clothing", "c1", "Hat", "cheap", "9.5", "many", "2", "L", "Felt")

	assert.Contains(t, out, "Please enter a number.")
	assert.Contains(t, out, "Please enter a whole number.")
	p, err := svc.GetProduct(context.Background(), "c1")
	require.NoError(t, err)
	assert.Equal(t, 9.5, p.Price)
	assert.Equal(t, 2, p.Quantity)
}

func TestShell_SellAndRestock(t *testing.T) {
	svc := newTestService(storage.NewMemoryStore(0))

	input := append(addLaptop(),
		"2", "e1", "2",
		"2", "e1", "5",
		"2", "nope", "1",
		"3", "e1", "4",
		"3", "e1", "-1",
	)
	out := run(t, svc, input...)

	assert.Contains(t, out, "Sold 2 of e1. Stock: 1")
	assert.Contains(t, out, "Error: not enough stock for this product")
	assert.Contains(t, out, "Error: product not found: nope")
	assert.Contains(t, out, "Restocked 4 of e1. Stock: 5")
	assert.Contains(t, out, "Error: invalid quantity")
}

func TestShell_SearchViewAndValue(t *testing.T) {
	svc := newTestService(storage.NewMemoryStore(0))

	input := append(addLaptop(),
		"5", "name", "LAPTOP",
		"5", "type", "grocery",
		"5", "price",
		"6",
		"7",
	)
	out := run(t, svc, input...)

	assert.Contains(t, out, "Type: Electronics\nID: e1\nName: Laptop\nPrice: 1000.00\nQuantity: 3\nBrand: Acme\nWarranty: 2 years")
	assert.Contains(t, out, "No products found.")
	assert.Contains(t, out, "Invalid search mode.")
	assert.Contains(t, out, "Total inventory value: 3000.00")
}

func TestShell_RemoveAndSweep(t *testing.T) {
	svc := newTestService(storage.NewMemoryStore(0))

	input := append(addLaptop(),
		"1", "grocery", "g1", "Milk", "1", "1", "2026-10-14",
		"1", "grocery", "g2", "Bread", "1", "1", "2026-10-15",
		"8",
		"4", "e1",
		"4", "e1",
		"6",
	)
	out := run(t, svc, input...)

	assert.Contains(t, out, "Removed 1 expired product(s).\ng1\n")
	assert.Contains(t, out, "Product e1 removed.")
	assert.Contains(t, out, "No product with ID e1.")
	assert.Contains(t, out, "Expiry Date: 2026-10-15 (not expired)")
	assert.Equal(t, []string{"g2"}, []string{svc.ListProducts(context.Background())[0].ID})
}

func TestShell_SaveAndLoad(t *testing.T) {
	store := storage.NewMemoryStore(0)
	svc := newTestService(store)

	out := run(t, svc, append(addLaptop(), "9", "inventory.json")...)
	assert.Contains(t, out, "Saved 1 product(s) to inventory.json.")

	fresh := newTestService(store)
	out = run(t, fresh, "10", "inventory.json", "10", "missing.json")

	assert.Contains(t, out, "Loaded 1 product(s) from inventory.json.")
	assert.Contains(t, out, "Error: snapshot not found")
	assert.Len(t, fresh.ListProducts(context.Background()), 1)
}

func TestShell_InvalidChoice(t *testing.T) {
	out := run(t, newTestService(storage.NewMemoryStore(0)), "42", "0")

	assert.Contains(t, out, "Invalid choice. Please try again.")
}

func TestShell_EndsAtEOF(t *testing.T) {
	t.Run("between commands", func(t *testing.T) {
		var out bytes.Buffer
		sh := NewShell(newTestService(storage.NewMemoryStore(0)), strings.NewReader(""), &out)
		assert.NoError(t, sh.Run(context.Background()))
	})

	t.Run("mid prompt", func(t *testing.T) {
		var out bytes.Buffer
		sh := NewShell(newTestService(storage.NewMemoryStore(0)), strings.NewReader("1\nelectronics\ne1"), &out)
		assert.NoError(t, sh.Run(context.Background()))
	})
}

func TestShell_StopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	sh := NewShell(newTestService(storage.NewMemoryStore(0)), strings.NewReader("7\n"), &out)

	assert.ErrorIs(t, sh.Run(ctx), context.Canceled)
}

func TestShell_CancelInterruptsPendingPrompt(t *testing.T) {
	in, writer := io.Pipe()
	t.Cleanup(func() { _ = writer.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	var out bytes.Buffer
	sh := NewShell(newTestService(storage.NewMemoryStore(0)), in, &out)

	result := make(chan error, 1)
	go func() { result <- sh.Run(ctx) }()

	// nothing is ever written, so Run is parked on the menu prompt
	cancel()

	select {
	case err := <-result:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
