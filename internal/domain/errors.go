package domain

import "errors"

var (
	// ErrOutOfStock is returned when a sale asks for more units than are in stock
	ErrOutOfStock = errors.New("not enough stock for this product")

	// ErrDuplicateID is returned when a product ID is already in the inventory
	ErrDuplicateID = errors.New("product ID already exists")

	// ErrNotFound is returned when a product ID is not in the inventory
	ErrNotFound = errors.New("product not found")

	// ErrInvalidData is returned when persisted inventory data is malformed
	ErrInvalidData = errors.New("invalid inventory data")

	// ErrInvalidQuantity is returned for a non-positive sale or a negative restock
	ErrInvalidQuantity = errors.New("invalid quantity")

	// ErrInvalidProduct is returned when product fields fail validation
	ErrInvalidProduct = errors.New("invalid product")

	// ErrSnapshotNotFound is returned when a named snapshot does not exist in the store
	ErrSnapshotNotFound = errors.New("snapshot not found")
)
