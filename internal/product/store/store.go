// Package store provides an interface for product storage operations.
package store

import (
	"context"
	"slices"
)

// ProductStore is an interface for product storage operations.
// It abstracts the underlying data store, allowing for different implementations (e.g., file, in-memory).
type ProductStore interface {
	// FindByID retrieves a single product by its unique identifier.
	// Returns ErrProductNotFound if no product exists with the given ID.
	FindByID(ctx context.Context, id int64) (*Product, error)

	// FindAll returns all products in insertion order.
	// Returns an empty slice if no products exist.
	FindAll(ctx context.Context) ([]Product, error)

	// Create assigns the next ID to the product and adds it to the collection.
	// Returns ErrDuplicateCode if another product already uses the same code.
	Create(ctx context.Context, product Product) (*Product, error)

	// Update merges the patch into an existing product, keeping its ID.
	// Returns ErrProductNotFound if no product exists with the given ID.
	Update(ctx context.Context, id int64, patch Patch) (*Product, error)

	// DeleteByID removes a product by its ID.
	// Returns ErrProductNotFound if no product exists with the given ID.
	DeleteByID(ctx context.Context, id int64) error
}

// Product represents a product entity in the store.
type Product struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Code        string     `json:"code"`
	Price       float64    `json:"price"`
	Stock       int32      `json:"stock"`
	Thumbnails  Thumbnails `json:"thumbnails"`
}

// Clone returns a copy of the product that shares no memory with p.
func (p Product) Clone() Product {
	p.Thumbnails = p.Thumbnails.clone()
	return p
}

// Patch is a partial product. Nil fields keep the existing value.
// There is no ID field: identity is never taken from a patch.
type Patch struct {
	Title       *string
	Description *string
	Code        *string
	Price       *float64
	Stock       *int32
	Thumbnails  *Thumbnails
}

// Apply merges the patch over p and returns the result. p.ID is always kept.
func (pt Patch) Apply(p Product) Product {
	merged := p.Clone()
	if pt.Title != nil {
		merged.Title = *pt.Title
	}
	if pt.Description != nil {
		merged.Description = *pt.Description
	}
	if pt.Code != nil {
		merged.Code = *pt.Code
	}
	if pt.Price != nil {
		merged.Price = *pt.Price
	}
	if pt.Stock != nil {
		merged.Stock = *pt.Stock
	}
	if pt.Thumbnails != nil {
		merged.Thumbnails = pt.Thumbnails.clone()
	}
	return merged
}

func cloneAll(products []Product) []Product {
	out := make([]Product, len(products))
	for i, p := range products {
		out[i] = p.Clone()
	}
	return out
}

func indexByID(products []Product, id int64) int {
	return slices.IndexFunc(products, func(p Product) bool { return p.ID == id })
}

// codeTaken reports whether a product other than the one at skip uses code.
func codeTaken(products []Product, code string, skip int) bool {
	for i, p := range products {
		if i != skip && p.Code == code {
			return true
		}
	}
	return false
}
