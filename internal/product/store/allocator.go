package store

import (
	"math"

	perrors "github.com/abgdnv/catalog/internal/product/errors"
)

// Allocator issues strictly increasing product IDs.
// It is not safe for concurrent use; FileStore guards it with its own lock.
type Allocator struct {
	last int64
}

// NewAllocator returns an allocator whose first ID is one above the highest
// ID among the given products, or 1 when there are none.
func NewAllocator(products []Product) *Allocator {
	a := &Allocator{}
	for _, p := range products {
		a.Commit(p.ID)
	}
	return a
}

// Next returns the ID the next accepted product will get. It does not reserve
// it: call Commit once the product has been stored.
// Returns ErrIDsExhausted once math.MaxInt64 has been used.
func (a *Allocator) Next() (int64, error) {
	if a.last == math.MaxInt64 {
		return 0, perrors.ErrIDsExhausted
	}
	return a.last + 1, nil
}

// Commit records id as used. Lower IDs are ignored.
func (a *Allocator) Commit(id int64) {
	if id > a.last {
		a.last = id
	}
}
