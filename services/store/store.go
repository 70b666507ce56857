// Package store persists crawled products. The crawler core treats it
// as a black box that accepts an ordered product list for a brand and
// reports what changed.
package store

import (
	"context"

	"cafepick/menuworker/internal/model"
)

// Options controls one save
type Options struct {
	// DryRun computes the same counts without persisting anything
	DryRun bool

	// WithImages runs the image optimization step for products carrying
	// an external image URL
	WithImages bool
}

// UploadResult reports what one save changed
type UploadResult struct {
	Created     int      `json:"created"`
	Updated     int      `json:"updated"`
	Unchanged   int      `json:"unchanged"`
	Removed     int      `json:"removed"`
	Reactivated int      `json:"reactivated"`
	Errors      []string `json:"errors,omitempty"`
}

// Store accepts an ordered list of product records for a named brand
type Store interface {
	// Save upserts the batch and retires stored items missing from it
	Save(ctx context.Context, brand string, products []model.Product, opts Options) (UploadResult, error)

	// Close releases the store connection
	Close() error
}

// ImageStore downloads, transcodes and stores an image keyed by its
// external URL, returning an opaque storage identifier.
type ImageStore interface {
	Optimize(ctx context.Context, externalImageURL string) (string, error)
}

// NoopImageStore skips image optimization
type NoopImageStore struct{}

// Optimize returns an empty storage id without doing anything
func (NoopImageStore) Optimize(ctx context.Context, externalImageURL string) (string, error) {
	return "", nil
}
