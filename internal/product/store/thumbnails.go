package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
)

// Thumbnails holds image references for a product. The JSON form is either a
// single string or an array of strings, and it is written back in the form it
// was read or built with.
type Thumbnails struct {
	refs   []string
	single bool
}

// SingleThumbnail returns Thumbnails holding one reference, encoded as a JSON string.
func SingleThumbnail(ref string) Thumbnails {
	return Thumbnails{refs: []string{ref}, single: true}
}

// ThumbnailList returns Thumbnails encoded as a JSON array. An empty call
// yields an empty but present list.
func ThumbnailList(refs ...string) Thumbnails {
	return Thumbnails{refs: append([]string{}, refs...)}
}

// Refs returns a copy of the references.
func (t Thumbnails) Refs() []string {
	return slices.Clone(t.refs)
}

// IsSingle reports whether the references are encoded as one JSON string.
func (t Thumbnails) IsSingle() bool {
	return t.single
}

// IsZero reports whether no thumbnails were given at all.
func (t Thumbnails) IsZero() bool {
	return t.refs == nil && !t.single
}

func (t Thumbnails) clone() Thumbnails {
	return Thumbnails{refs: slices.Clone(t.refs), single: t.single}
}

func (t Thumbnails) MarshalJSON() ([]byte, error) {
	switch {
	case t.single:
		return json.Marshal(t.refs[0])
	case t.refs == nil:
		return []byte("null"), nil
	default:
		return json.Marshal(t.refs)
	}
}

func (t *Thumbnails) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*t = Thumbnails{}
		return nil
	case len(data) > 0 && data[0] == '"':
		var ref string
		if err := json.Unmarshal(data, &ref); err != nil {
			return err
		}
		*t = SingleThumbnail(ref)
		return nil
	case len(data) > 0 && data[0] == '[':
		var refs []string
		if err := json.Unmarshal(data, &refs); err != nil {
			return err
		}
		*t = ThumbnailList(refs...)
		return nil
	default:
		return fmt.Errorf("thumbnails must be a string or an array of strings, got %s", data)
	}
}
