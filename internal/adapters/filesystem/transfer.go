// Package filesystem contains filesystem-based adapter implementations.
package filesystem

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/example/skillmatrix/internal/core/delta"
	"github.com/example/skillmatrix/internal/ports/secondary"
)

// TransferAdapter implements secondary.TransferStore as JSON files in a directory.
type TransferAdapter struct {
	basePath string
}

// NewTransferAdapter creates a new filesystem transfer adapter.
// If basePath is empty, defaults to ~/.skillmatrix/transfer.
func NewTransferAdapter(basePath string) (*TransferAdapter, error) {
	if basePath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		basePath = filepath.Join(home, ".skillmatrix", "transfer")
	}
	return &TransferAdapter{basePath: basePath}, nil
}

// BasePath returns the directory files are written to.
func (a *TransferAdapter) BasePath() string {
	return a.basePath
}

// WriteBundle writes bundle_<line>_<bundleId>.json.
func (a *TransferAdapter) WriteBundle(ctx context.Context, b *delta.Bundle) (string, error) {
	name := fmt.Sprintf("bundle_%s_%s.json", b.TargetLineID, b.BundleID)
	return a.write(name, b)
}

// ReadBundle loads a bundle from path.
func (a *TransferAdapter) ReadBundle(ctx context.Context, path string) (*delta.Bundle, error) {
	var b delta.Bundle
	if err := read(path, &b); err != nil {
		return nil, fmt.Errorf("failed to read bundle: %w", err)
	}
	return &b, nil
}

// WriteReceipt writes receipt_<bundleId>.json.
func (a *TransferAdapter) WriteReceipt(ctx context.Context, r *delta.Receipt) (string, error) {
	name := fmt.Sprintf("receipt_%s.json", r.BundleID)
	return a.write(name, r)
}

// ReadReceipt loads a receipt from path.
func (a *TransferAdapter) ReadReceipt(ctx context.Context, path string) (*delta.Receipt, error) {
	var r delta.Receipt
	if err := read(path, &r); err != nil {
		return nil, fmt.Errorf("failed to read receipt: %w", err)
	}
	return &r, nil
}

// WriteSeed writes seed_<line>_<seedId>.json.
func (a *TransferAdapter) WriteSeed(ctx context.Context, s *delta.Seed) (string, error) {
	return a.write(fmt.Sprintf("seed_%s_%s.json", s.LineID, s.SeedID), s)
}

// ReadSeed loads a seed from path.
func (a *TransferAdapter) ReadSeed(ctx context.Context, path string) (*delta.Seed, error) {
	var s delta.Seed
	if err := read(path, &s); err != nil {
		return nil, fmt.Errorf("failed to read seed: %w", err)
	}
	return &s, nil
}

func (a *TransferAdapter) write(name string, v any) (string, error) {
	if err := os.MkdirAll(a.basePath, 0755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode %s: %w", name, err)
	}
	path := filepath.Join(a.basePath, name)
	// write-then-rename so a reader never sees a partial file
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", name, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return "", fmt.Errorf("failed to move %s into place: %w", name, err)
	}
	return path, nil
}

func read(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

// Ensure TransferAdapter implements the interface
var _ secondary.TransferStore = (*TransferAdapter)(nil)
