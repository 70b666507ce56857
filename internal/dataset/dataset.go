// Package dataset is the append-only product sink strategies emit into.
// No filtering or transformation happens here; the persistence
// collaborator owns that.
package dataset

import (
	"sync"

	"cafepick/menuworker/internal/model"
)

// Dataset collects products in insertion order. Appends from concurrent
// extraction batches are safe.
type Dataset struct {
	mu    sync.Mutex
	items []model.Product
}

// New creates an empty dataset
func New() *Dataset {
	return &Dataset{}
}

// Append adds one product
func (d *Dataset) Append(p model.Product) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.items = append(d.items, p)
}

// Items returns a copy of the collected products in insertion order
func (d *Dataset) Items() []model.Product {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]model.Product, len(d.items))
	copy(out, d.items)
	return out
}

// Len returns the number of collected products
func (d *Dataset) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.items)
}
