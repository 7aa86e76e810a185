package catalog

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
)

// Source supplies read-only catalog records.
type Source interface {
	ListItems(ctx context.Context) ([]Item, error)
	GetItem(ctx context.Context, id string) (Item, error)
}

//go:embed seed.json
var seedJSON []byte

// MemorySource serves a fixed item list in catalog order.
type MemorySource struct {
	items []Item
	index map[string]int
}

// NewMemorySource builds a source over items. Later duplicates of an id are ignored.
func NewMemorySource(items []Item) *MemorySource {
	m := &MemorySource{index: make(map[string]int, len(items))}
	for _, it := range items {
		if _, dup := m.index[it.ID]; dup {
			continue
		}
		m.index[it.ID] = len(m.items)
		m.items = append(m.items, it)
	}
	return m
}

// SeedItems decodes the embedded demo catalog.
func SeedItems() ([]Item, error) {
	return DecodeItems(seedJSON)
}

// DecodeItems parses a catalog export: a JSON array of items.
func DecodeItems(data []byte) ([]Item, error) {
	var items []Item
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	return items, nil
}

// NewSeedSource returns a MemorySource over the embedded demo catalog.
func NewSeedSource() (*MemorySource, error) {
	items, err := SeedItems()
	if err != nil {
		return nil, err
	}
	return NewMemorySource(items), nil
}

// ListItems implements Source.
func (m *MemorySource) ListItems(context.Context) ([]Item, error) {
	out := make([]Item, len(m.items))
	copy(out, m.items)
	return out, nil
}

// GetItem implements Source.
func (m *MemorySource) GetItem(_ context.Context, id string) (Item, error) {
	i, ok := m.index[strings.TrimSpace(id)]
	if !ok {
		return Item{}, fmt.Errorf("%s: %w", id, ErrNotFound)
	}
	return m.items[i], nil
}

// FilterByCategory keeps items in the given menu section. An empty category keeps all.
func FilterByCategory(items []Item, category string) []Item {
	category = strings.TrimSpace(category)
	if category == "" {
		return items
	}
	out := make([]Item, 0, len(items))
	for _, it := range items {
		if strings.EqualFold(it.Category, category) {
			out = append(out, it)
		}
	}
	return out
}
