// Package catalog holds the static set of subscription packages that can be
// purchased through the checkout flow.
package catalog

import "sort"

// Package is a pricing tier. Price is expressed in cents of the catalog
// currency and Credits is the amount granted to the user once the checkout
// session completes.
type Package struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Price   int64  `json:"price"`
	Credits int64  `json:"credits"`
}

// Catalog is an immutable set of packages indexed by their identifier.
type Catalog struct {
	packages map[string]Package
}

// New creates a catalog with the packages provided. Packages with an empty
// identifier are ignored and duplicated identifiers keep the last one.
func New(packages ...Package) *Catalog {
	c := &Catalog{packages: make(map[string]Package, len(packages))}
	for _, p := range packages {
		if p.ID == "" {
			continue
		}
		c.packages[p.ID] = p
	}
	return c
}

// Default returns the catalog offered on the premium page.
func Default() *Catalog {
	return New(
		Package{ID: "silver", Name: "Silver Package", Price: 1999, Credits: 100},
		Package{ID: "security", Name: "Security Package", Price: 2499, Credits: 150},
		Package{ID: "gold", Name: "Gold Package", Price: 2999, Credits: 200},
		Package{ID: "boost", Name: "Boost Package", Price: 3499, Credits: 250},
		Package{ID: "platinum", Name: "Platinum Package", Price: 4999, Credits: 400},
		Package{ID: "vip", Name: "VIP Package", Price: 5999, Credits: 500},
	)
}

// Lookup returns the package with the given identifier and true, or an empty
// package and false if it does not exist.
func (c *Catalog) Lookup(id string) (Package, bool) {
	if c == nil {
		return Package{}, false
	}
	p, ok := c.packages[id]
	return p, ok
}

// Packages returns every package sorted by price, then by identifier.
func (c *Catalog) Packages() []Package {
	if c == nil {
		return nil
	}
	list := make([]Package, 0, len(c.packages))
	for _, p := range c.packages {
		list = append(list, p)
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].Price != list[j].Price {
			return list[i].Price < list[j].Price
		}
		return list[i].ID < list[j].ID
	})
	return list
}
