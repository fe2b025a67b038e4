package mealie

import "strings"

// CatalogEntry pairs a recipe's normalized (lowercase) name with its Mealie
// identifier. The normalized name is only used for matching, never displayed.
type CatalogEntry struct {
	NormalizedName string
	RecipeID       string
}

// Catalog is the in-memory recipe index in service pagination order. Order is
// part of the contract: the matcher resolves score ties in favor of the entry
// seen first.
type Catalog struct {
	entries []CatalogEntry
	index   map[string]int
}

// NewCatalog returns an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{index: make(map[string]int)}
}

// Add records a recipe under its normalized name. A later recipe with the
// same normalized name silently overwrites the earlier id, keeping the
// original position.
func (c *Catalog) Add(name, id string) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		return
	}
	if i, ok := c.index[key]; ok {
		c.entries[i].RecipeID = id
		return
	}
	c.index[key] = len(c.entries)
	c.entries = append(c.entries, CatalogEntry{NormalizedName: key, RecipeID: id})
}

// Entries returns the entries in insertion order. The returned slice is the
// catalog's backing storage and must not be mutated.
func (c *Catalog) Entries() []CatalogEntry {
	return c.entries
}

// Len returns the number of distinct recipe names in the catalog.
func (c *Catalog) Len() int {
	return len(c.entries)
}
