package domain

import "context"

// SnapshotStore persists serialized inventory snapshots under a caller-supplied name
type SnapshotStore interface {
	Save(ctx context.Context, name string, data []byte) error
	Load(ctx context.Context, name string) ([]byte, error)
}

// ProductCodec converts products to and from their persisted form
type ProductCodec interface {
	Serialize(products []Product) ([]byte, error)
	Deserialize(data []byte) ([]Product, error)
}
