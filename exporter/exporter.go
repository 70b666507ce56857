// Package exporter writes crawl results to date-stamped JSON files
package exporter

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"cafepick/menuworker/internal/model"
	"cafepick/menuworker/logger"
)

// WriteProducts writes one brand's products to
// <dir>/<brand>-products-<YYYY-MM-DD>.json and returns the path.
// An existing file for the same brand and day is overwritten.
func WriteProducts(dir, brand string, products []model.Product) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}

	filename := fmt.Sprintf("%s-products-%s.json", brand, time.Now().Format("2006-01-02"))
	path := filepath.Join(dir, filename)

	data, err := json.MarshalIndent(products, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding products: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}

	logger.ForExporter().Info().
		Str("brand", brand).
		Int("products", len(products)).
		Str("path", path).
		Msg("Products exported")
	return path, nil
}
