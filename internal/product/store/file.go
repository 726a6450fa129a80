package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	perrors "github.com/abgdnv/catalog/internal/product/errors"
)

// loadFile reads the whole collection from path.
// A missing or blank file is an empty collection.
func loadFile(path string) ([]Product, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []Product{}, nil
		}
		return nil, fmt.Errorf("%w: %w", perrors.ErrStoreRead, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return []Product{}, nil
	}
	var products []Product
	if err := json.Unmarshal(data, &products); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", perrors.ErrStoreRead, path, err)
	}
	if products == nil {
		products = []Product{}
	}
	return products, nil
}

// saveFile replaces the content of path with the collection.
// The data goes to a temp file in the same directory first and is renamed over
// path, so readers see either the old or the new collection, never a mix.
func saveFile(path string, products []Product, perm os.FileMode) error {
	data, err := json.MarshalIndent(products, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: %w", perrors.ErrStoreWrite, err)
	}
	data = append(data, '\n')
	if err := writeFileAtomic(path, data, perm); err != nil {
		return fmt.Errorf("%w: %s: %w", perrors.ErrStoreWrite, path, err)
	}
	return nil
}

func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp.*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		_ = tmp.Close()
		if !committed {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return err
	}
	if err := tmp.Chmod(perm); err != nil {
		return err
	}
	if err := tmp.Sync(); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		return err
	}
	committed = true
	syncDir(dir)
	return nil
}

// syncDir flushes the directory entry after a rename. Best effort: some
// platforms can't open a directory for syncing.
func syncDir(dir string) {
	d, err := os.Open(dir)
	if err != nil {
		return
	}
	_ = d.Sync()
	_ = d.Close()
}
