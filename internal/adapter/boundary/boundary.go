// Package boundary loads the reference outline files (world and US atlas
// TopoJSON) that the map draws under the detections. Documents are served
// as-is; only their JSON validity is checked.
package boundary

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
)

var (
	// ErrInvalidJSON is returned when a boundary file is not a JSON document.
	ErrInvalidJSON = errors.New("boundary file is not valid JSON")
	// ErrNotFound is returned by Set.Get for an unknown name.
	ErrNotFound = errors.New("boundary not found")
)

// Set holds loaded boundary documents by name. It is not modified after loading.
type Set struct {
	docs map[string]json.RawMessage
}

// NewSet returns an empty set ready for Add.
func NewSet() *Set {
	return &Set{docs: make(map[string]json.RawMessage)}
}

// Add stores doc under name, replacing any previous document.
func (s *Set) Add(name string, doc json.RawMessage) {
	s.docs[name] = doc
}

// Get returns the document registered under name.
func (s *Set) Get(name string) (json.RawMessage, error) {
	doc, ok := s.docs[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return doc, nil
}

// Names lists the loaded boundaries in sorted order.
func (s *Set) Names() []string {
	names := make([]string, 0, len(s.docs))
	for n := range s.docs {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Len is the number of loaded documents.
func (s *Set) Len() int {
	return len(s.docs)
}

// LoadFile reads one boundary file and checks it is a JSON document.
func LoadFile(ctx context.Context, path string) (json.RawMessage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read boundary %s: %w", path, err)
	}
	if !json.Valid(data) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidJSON, path)
	}
	return json.RawMessage(data), nil
}
