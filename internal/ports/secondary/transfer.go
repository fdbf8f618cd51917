package secondary

import (
	"context"

	"github.com/example/skillmatrix/internal/core/delta"
)

// TransferStore moves bundles, receipts and seeds between devices as files.
type TransferStore interface {
	// WriteBundle stores a bundle and returns the path written.
	WriteBundle(ctx context.Context, b *delta.Bundle) (string, error)

	// ReadBundle loads a bundle from path.
	ReadBundle(ctx context.Context, path string) (*delta.Bundle, error)

	// WriteReceipt stores a receipt and returns the path written.
	WriteReceipt(ctx context.Context, r *delta.Receipt) (string, error)

	// ReadReceipt loads a receipt from path.
	ReadReceipt(ctx context.Context, path string) (*delta.Receipt, error)

	// WriteSeed stores a seed and returns the path written.
	WriteSeed(ctx context.Context, s *delta.Seed) (string, error)

	// ReadSeed loads a seed from path.
	ReadSeed(ctx context.Context, path string) (*delta.Seed, error)
}
