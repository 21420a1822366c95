package document

import (
	"fmt"
	"strconv"
	"strings"
)

// PropertyType tags a cached property value as text or numeric.
type PropertyType string

const (
	// PropertyText is a free-form text property.
	PropertyText PropertyType = "text"

	// PropertyNumber is a numeric property, stored with invariant
	// formatting.
	PropertyNumber PropertyType = "number"
)

// Entry is one cached property value.
type Entry struct {
	// Name is the property name as first written (storage is
	// case-sensitive).
	Name string `json:"name"`

	// Value is the property value in its text form.
	Value string `json:"value"`

	// Type tags the value as text or numeric.
	Type PropertyType `json:"type"`

	// Dirty marks an unflushed change.
	Dirty bool `json:"dirty"`
}

// Number returns the numeric value of a number-typed entry.
func (e *Entry) Number() (float64, error) {
	if e.Type != PropertyNumber {
		return 0, fmt.Errorf("property %s is not numeric", e.Name)
	}
	return strconv.ParseFloat(e.Value, 64)
}

// PropertyCache is the change-tracked property mapping for one document
// configuration. Names are stored with their original casing but compared
// case-insensitively; entries persist until the owning document goes away.
// Not safe for concurrent use; callers serialize per document.
type PropertyCache struct {
	configuration string
	entries       map[string]*Entry // keyed by lowercase name
	order         []string          // lowercase names in first-write order
}

// NewPropertyCache creates an empty cache scoped to a document
// configuration name.
func NewPropertyCache(configuration string) *PropertyCache {
	return &PropertyCache{
		configuration: configuration,
		entries:       make(map[string]*Entry),
	}
}

// Configuration returns the owning configuration name.
func (c *PropertyCache) Configuration() string {
	return c.configuration
}

// Get returns the entry for a name, matched case-insensitively.
func (c *PropertyCache) Get(name string) (*Entry, bool) {
	e, ok := c.entries[strings.ToLower(name)]
	return e, ok
}

// GetText returns the text value for a name, or "" when absent.
func (c *PropertyCache) GetText(name string) string {
	if e, ok := c.Get(name); ok {
		return e.Value
	}
	return ""
}

// Set writes a property value, creating the entry on first write. The
// entry keeps the casing of the first write. The dirty flag is set
// whenever the stored value changes.
func (c *PropertyCache) Set(name, value string, typ PropertyType) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("property name must not be empty")
	}
	if typ == PropertyNumber {
		if _, err := strconv.ParseFloat(value, 64); err != nil {
			return fmt.Errorf("property %s: value %q is not numeric", name, value)
		}
	}

	key := strings.ToLower(name)
	if e, ok := c.entries[key]; ok {
		if e.Value != value || e.Type != typ {
			e.Value = value
			e.Type = typ
			e.Dirty = true
		}
		return nil
	}

	c.entries[key] = &Entry{Name: name, Value: value, Type: typ, Dirty: true}
	c.order = append(c.order, key)
	return nil
}

// SetNumber writes a numeric property with invariant formatting.
func (c *PropertyCache) SetNumber(name string, value float64) error {
	return c.Set(name, strconv.FormatFloat(value, 'g', -1, 64), PropertyNumber)
}

// Entries returns all entries in first-write order.
func (c *PropertyCache) Entries() []*Entry {
	out := make([]*Entry, 0, len(c.order))
	for _, key := range c.order {
		out = append(out, c.entries[key])
	}
	return out
}

// AnyDirty reports whether any entry has an unflushed change.
func (c *PropertyCache) AnyDirty() bool {
	for _, e := range c.entries {
		if e.Dirty {
			return true
		}
	}
	return false
}

// MarkAllClean clears the dirty flags without discarding values.
func (c *PropertyCache) MarkAllClean() {
	for _, e := range c.entries {
		e.Dirty = false
	}
}

// Len returns the number of cached entries.
func (c *PropertyCache) Len() int {
	return len(c.entries)
}
