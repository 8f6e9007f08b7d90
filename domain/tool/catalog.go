package tool

import (
	"context"
	"fmt"
)

// Catalog is the ordered, read-only set of tools available for one
// credential configuration. The zero value is an empty catalog.
type Catalog struct {
	tools []Tool
	index map[string]int
}

// NewCatalog creates a catalog preserving the order of tools.
func NewCatalog(tools ...Tool) (*Catalog, error) {
	c := &Catalog{
		tools: make([]Tool, 0, len(tools)),
		index: make(map[string]int, len(tools)),
	}
	for _, t := range tools {
		if t.Name() == "" {
			return nil, ErrEmptyName
		}
		if _, exists := c.index[t.Name()]; exists {
			return nil, fmt.Errorf("%w: %s", ErrToolExists, t.Name())
		}
		c.index[t.Name()] = len(c.tools)
		c.tools = append(c.tools, t)
	}
	return c, nil
}

// EmptyCatalog returns a catalog with no tools.
func EmptyCatalog() *Catalog {
	return &Catalog{}
}

// Len returns the number of tools.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.tools)
}

// IsEmpty reports whether the catalog has no tools.
func (c *Catalog) IsEmpty() bool {
	return c.Len() == 0
}

// Tools returns a copy of the tools in catalog order.
func (c *Catalog) Tools() []Tool {
	if c == nil {
		return nil
	}
	out := make([]Tool, len(c.tools))
	copy(out, c.tools)
	return out
}

// Names returns tool names in catalog order.
func (c *Catalog) Names() []string {
	if c == nil {
		return nil
	}
	names := make([]string, len(c.tools))
	for i, t := range c.tools {
		names[i] = t.Name()
	}
	return names
}

// Get retrieves a tool by name.
func (c *Catalog) Get(name string) (Tool, bool) {
	if c == nil {
		return nil, false
	}
	i, ok := c.index[name]
	if !ok {
		return nil, false
	}
	return c.tools[i], true
}

// Has checks if a tool is in the catalog.
func (c *Catalog) Has(name string) bool {
	_, ok := c.Get(name)
	return ok
}

// Invoke runs the named tool. An unknown name yields an error string.
func (c *Catalog) Invoke(ctx context.Context, name, input string) string {
	t, ok := c.Get(name)
	if !ok {
		return fmt.Sprintf("Error: unknown tool '%s'", name)
	}
	return t.Invoke(ctx, input)
}

// Filter returns a catalog holding only the named tools, in catalog order.
// Unknown names are ignored. An empty names list returns c unchanged.
func (c *Catalog) Filter(names ...string) *Catalog {
	if len(names) == 0 || c == nil {
		return c
	}
	want := make(map[string]bool, len(names))
	for _, n := range names {
		want[n] = true
	}
	var kept []Tool
	for _, t := range c.tools {
		if want[t.Name()] {
			kept = append(kept, t)
		}
	}
	filtered, _ := NewCatalog(kept...)
	return filtered
}

// Map returns a new catalog with fn applied to every tool, in order.
func (c *Catalog) Map(fn func(Tool) Tool) *Catalog {
	if c == nil {
		return EmptyCatalog()
	}
	mapped := make([]Tool, len(c.tools))
	for i, t := range c.tools {
		mapped[i] = fn(t)
	}
	out, err := NewCatalog(mapped...)
	if err != nil {
		return c
	}
	return out
}
