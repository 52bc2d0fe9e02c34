package types

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// CategoryCount is the number of posts whose primary category is Category
type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// CategoryCounts is a category -> count mapping that remembers the order
// in which categories were first seen. A category is present only once it
// has been counted at least once.
type CategoryCounts []CategoryCount

// Add increments category by n, appending it if it is new
func (c *CategoryCounts) Add(category string, n int) {
	if n <= 0 {
		return
	}
	for i := range *c {
		if (*c)[i].Category == category {
			(*c)[i].Count += n
			return
		}
	}
	*c = append(*c, CategoryCount{Category: category, Count: n})
}

// Get returns the count for category, zero when absent
func (c CategoryCounts) Get(category string) int {
	for _, cc := range c {
		if cc.Category == category {
			return cc.Count
		}
	}
	return 0
}

// Top returns the category with the highest count. Ties resolve to the
// earliest-seen category; ok is false when c is empty.
func (c CategoryCounts) Top() (category string, ok bool) {
	best := -1
	for _, cc := range c {
		if cc.Count > best {
			best = cc.Count
			category = cc.Category
		}
	}
	return category, best >= 0
}

// Merge adds every entry of other into c
func (c *CategoryCounts) Merge(other CategoryCounts) {
	for _, cc := range other {
		c.Add(cc.Category, cc.Count)
	}
}

// MarshalJSON encodes the counts as a JSON object in first-seen order
func (c CategoryCounts) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, cc := range c {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(cc.Category)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		fmt.Fprintf(&buf, "%d", cc.Count)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object, keeping key order
func (c *CategoryCounts) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*c = nil
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("category counts: expected object, got %v", tok)
	}

	out := CategoryCounts{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("category counts: expected string key, got %v", keyTok)
		}
		var n int
		if err := dec.Decode(&n); err != nil {
			return fmt.Errorf("category counts: value for %q: %w", key, err)
		}
		out.Add(key, n)
	}
	if _, err := dec.Token(); err != nil {
		return err
	}

	*c = out
	return nil
}
