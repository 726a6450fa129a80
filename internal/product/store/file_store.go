package store

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"sync"

	perrors "github.com/abgdnv/catalog/internal/product/errors"
)

const defaultFilePerm os.FileMode = 0o644

// FileStore implements ProductStore on top of a single JSON file.
// The file is read once when the store is opened; afterwards the in-memory
// collection is the source of truth and every mutation rewrites the whole
// file before it becomes visible. A failed write leaves both unchanged.
type FileStore struct {
	mu       sync.RWMutex
	path     string
	perm     os.FileMode
	products []Product
	ids      *Allocator
	logger   *slog.Logger
}

// NewFileStore opens the collection stored at path.
// A missing file is treated as an empty collection and is created on the first write.
// Returns ErrStoreRead if the file exists but can't be read or parsed.
func NewFileStore(ctx context.Context, path string, perm os.FileMode, logger *slog.Logger) (*FileStore, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if perm == 0 {
		perm = defaultFilePerm
	}
	products, err := loadFile(path)
	if err != nil {
		return nil, err
	}
	s := &FileStore{
		path:     path,
		perm:     perm,
		products: products,
		ids:      NewAllocator(products),
		logger:   logger.With("component", "store", "path", path),
	}
	s.checkLoaded()
	s.logger.Debug("Product file loaded", "count", len(products))
	return s, nil
}

// checkLoaded warns about duplicate IDs or codes in a file written by another tool.
// Lookups resolve to the first match in that case.
func (s *FileStore) checkLoaded() {
	seenIDs := make(map[int64]struct{}, len(s.products))
	seenCodes := make(map[string]struct{}, len(s.products))
	for _, p := range s.products {
		if _, ok := seenIDs[p.ID]; ok {
			s.logger.Warn("Duplicate product ID in file", "ID", p.ID)
		}
		if _, ok := seenCodes[p.Code]; ok {
			s.logger.Warn("Duplicate product code in file", "code", p.Code)
		}
		seenIDs[p.ID] = struct{}{}
		seenCodes[p.Code] = struct{}{}
	}
}

// FindByID retrieves a product by its unique identifier.
// Returns ErrProductNotFound if no product exists with the given ID.
func (s *FileStore) FindByID(ctx context.Context, id int64) (*Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := indexByID(s.products, id)
	if i < 0 {
		return nil, perrors.ErrProductNotFound
	}
	p := s.products[i].Clone()
	return &p, nil
}

// FindAll returns a copy of the collection in insertion order.
func (s *FileStore) FindAll(ctx context.Context) ([]Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	return cloneAll(s.products), nil
}

// Create assigns the next ID to the product, appends it and rewrites the file.
// Returns ErrDuplicateCode if another product already uses the same code and
// ErrIDsExhausted once the highest possible ID has been assigned.
func (s *FileStore) Create(ctx context.Context, product Product) (*Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if codeTaken(s.products, product.Code, -1) {
		return nil, fmt.Errorf("code %q: %w", product.Code, perrors.ErrDuplicateCode)
	}
	id, err := s.ids.Next()
	if err != nil {
		return nil, err
	}
	created := product.Clone()
	created.ID = id

	next := append(slices.Clip(s.products), created)
	if err := s.commit(next); err != nil {
		return nil, err
	}
	s.ids.Commit(created.ID)

	out := created.Clone()
	return &out, nil
}

// Update merges the patch into the product with the given ID and rewrites the file.
// Returns ErrProductNotFound if no product exists with the given ID and
// ErrDuplicateCode if the patched code belongs to another product.
func (s *FileStore) Update(ctx context.Context, id int64, patch Patch) (*Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	i := indexByID(s.products, id)
	if i < 0 {
		return nil, perrors.ErrProductNotFound
	}
	merged := patch.Apply(s.products[i])
	if codeTaken(s.products, merged.Code, i) {
		return nil, fmt.Errorf("code %q: %w", merged.Code, perrors.ErrDuplicateCode)
	}

	next := slices.Clone(s.products)
	next[i] = merged
	if err := s.commit(next); err != nil {
		return nil, err
	}

	out := merged.Clone()
	return &out, nil
}

// DeleteByID removes the product with the given ID and rewrites the file.
// Returns ErrProductNotFound if no product exists with the given ID.
func (s *FileStore) DeleteByID(ctx context.Context, id int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	i := indexByID(s.products, id)
	if i < 0 {
		return perrors.ErrProductNotFound
	}
	next := slices.Delete(slices.Clone(s.products), i, i+1)
	return s.commit(next)
}

// commit persists next and, only if that succeeded, makes it the current collection.
// Must be called with s.mu held for writing.
func (s *FileStore) commit(next []Product) error {
	if err := saveFile(s.path, next, s.perm); err != nil {
		return err
	}
	s.products = next
	return nil
}
