package primary

import (
	"context"

	"github.com/example/skillmatrix/internal/core/delta"
)

// SyncService defines the primary port for the offline delta sync protocol.
type SyncService interface {
	// Export builds a bundle of a line's unsynced records. Returns nil when
	// there is nothing to send.
	Export(ctx context.Context, lineID string) (*delta.Bundle, error)

	// Import applies a bundle on the authority and returns the receipt.
	// Integrity failures reject the whole bundle.
	Import(ctx context.Context, bundle *delta.Bundle) (*ImportResponse, error)

	// MarkSynced applies a receipt on the field device. Re-applying is a no-op.
	MarkSynced(ctx context.Context, receipt *delta.Receipt) (int, error)

	// ExportSeed packages a line's master data on the authority.
	ExportSeed(ctx context.Context, lineID string) (*delta.Seed, error)

	// ImportSeed provisions a field device from a seed, keeping the
	// authority's ids. Entities whose name is taken locally under another id
	// are reported, not applied.
	ImportSeed(ctx context.Context, seed *delta.Seed) (*SeedImportResponse, error)
}

// SeedImportResponse tallies an applied seed.
type SeedImportResponse struct {
	LineID           string
	LineCreated      bool
	SeedVersion      int64
	UsersVersion     int64
	EmployeesAdded   int
	EmployeesUpdated int
	PositionsAdded   int
	PositionsUpdated int
	Conflicts        []delta.SeedConflict
}

// ImportResponse contains the tally and the receipt for the field device.
type ImportResponse struct {
	Result  delta.Result
	Receipt delta.Receipt
}
