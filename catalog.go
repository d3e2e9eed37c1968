package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
)

// Entry is one successfully parsed beatmap.
type Entry struct {
	SetID  int64
	ItemID int64
	Path   string
}

// Catalog maps each beatmap set to the beatmaps found for it. Sets keep the
// order in which they were first seen; an item is listed once per set.
type Catalog struct {
	order []int64
	items map[int64][]int64
	paths map[int64]string
}

func NewCatalog() *Catalog {
	return &Catalog{items: map[int64][]int64{}, paths: map[int64]string{}}
}

// Add records e and reports whether its set had not been seen before.
func (c *Catalog) Add(e Entry) (newSet bool) {
	items, seen := c.items[e.SetID]
	if !seen {
		c.order = append(c.order, e.SetID)
	}
	if e.Path != "" {
		c.paths[e.ItemID] = e.Path
	}
	for _, id := range items {
		if id == e.ItemID {
			return !seen
		}
	}
	c.items[e.SetID] = append(items, e.ItemID)
	return !seen
}

func (c *Catalog) Sets() []int64 { return append([]int64(nil), c.order...) }

func (c *Catalog) Items(setID int64) []int64 {
	return append([]int64(nil), c.items[setID]...)
}

func (c *Catalog) Path(itemID int64) string { return c.paths[itemID] }

func (c *Catalog) Len() int { return len(c.order) }

// MarshalJSON writes {"<set>": [items...]} with sets in first-seen order.
func (c *Catalog) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, set := range c.order {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, _ := json.Marshal(strconv.FormatInt(set, 10))
		buf.Write(key)
		buf.WriteByte(':')
		items, err := json.Marshal(c.items[set])
		if err != nil {
			return nil, err
		}
		buf.Write(items)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (c *Catalog) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	if tok, err := dec.Token(); err != nil {
		return err
	} else if tok != json.Delim('{') {
		return fmt.Errorf("catalog: expected object, got %v", tok)
	}
	fresh := NewCatalog()
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		set, err := strconv.ParseInt(tok.(string), 10, 64)
		if err != nil {
			return fmt.Errorf("catalog: set id %q: %w", tok, err)
		}
		var items []int64
		if err := dec.Decode(&items); err != nil {
			return fmt.Errorf("catalog: set %d: %w", set, err)
		}
		if _, ok := fresh.items[set]; !ok {
			fresh.order = append(fresh.order, set)
		}
		fresh.items[set] = items
	}
	*c = *fresh
	return nil
}

// WriteFile stores the catalog as indented JSON, replacing path atomically.
func (c *Catalog) WriteFile(path string) error {
	raw, err := json.Marshal(c)
	if err != nil {
		return err
	}
	var out bytes.Buffer
	if err := json.Indent(&out, raw, "", "\t"); err != nil {
		return err
	}
	out.WriteByte('\n')
	return writeFileAtomic(path, out.Bytes())
}

func ReadCatalogFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c := NewCatalog()
	if err := json.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	return c, nil
}
