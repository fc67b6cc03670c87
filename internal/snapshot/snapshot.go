// Package snapshot writes the per-run backup file: every normalized product,
// before reconciliation touches the index.
package snapshot

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/electrodex/electrodex/internal/types"
)

// Writer persists one dated snapshot per run. Two runs on the same day
// overwrite the same file; the snapshot is a recovery point, not an archive.
type Writer struct {
	dir    string
	logger *slog.Logger

	now func() time.Time
}

// NewWriter builds a snapshot writer rooted at dir.
func NewWriter(dir string, logger *slog.Logger) *Writer {
	return &Writer{
		dir:    dir,
		logger: logger.With("component", "snapshot"),
		now:    time.Now,
	}
}

// Write dumps the products to products_YYYY-MM-DD.json under the snapshot
// directory, creating it if needed. Returns the written path.
func (w *Writer) Write(products []types.Product) (string, error) {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return "", fmt.Errorf("snapshot dir: %w", err)
	}

	name := fmt.Sprintf("products_%s.json", w.now().Format("2006-01-02"))
	path := filepath.Join(w.dir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("snapshot create: %w", err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(products); err != nil {
		return "", fmt.Errorf("snapshot encode: %w", err)
	}

	w.logger.Info("snapshot written", "path", path, "products", len(products))
	return path, nil
}
