package report

import (
	_ "embed"
	"errors"
	"fmt"
	"sync"

	"github.com/patrickwarner/pubreport/internal/lens"
	"gopkg.in/yaml.v3"
)

//go:embed reasons.yaml
var defaultReasonsYAML []byte

// ErrUnknownReason is returned for a category/subcategory pair that is not
// in the catalog.
var ErrUnknownReason = errors.New("unknown report reason")

// Subcategory is a selectable sub-reason.
type Subcategory struct {
	ID    string `yaml:"id"`
	Label string `yaml:"label"`
}

// Category groups sub-reasons under a primary reason.
type Category struct {
	ID            string        `yaml:"id"`
	Label         string        `yaml:"label"`
	Subcategories []Subcategory `yaml:"subcategories"`
}

// Catalog is the set of reasons a viewer can pick from.
type Catalog struct {
	Categories []Category `yaml:"categories"`
}

// LoadCatalog parses a YAML reason catalog. Every category needs at least one
// subcategory and ids must be unique within their level.
func LoadCatalog(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse reason catalog: %w", err)
	}
	if len(c.Categories) == 0 {
		return nil, fmt.Errorf("reason catalog has no categories")
	}

	seen := make(map[string]bool, len(c.Categories))
	for _, cat := range c.Categories {
		if cat.ID == "" {
			return nil, fmt.Errorf("reason catalog: category without id")
		}
		if seen[cat.ID] {
			return nil, fmt.Errorf("reason catalog: duplicate category %s", cat.ID)
		}
		seen[cat.ID] = true
		if len(cat.Subcategories) == 0 {
			return nil, fmt.Errorf("reason catalog: category %s has no subcategories", cat.ID)
		}
		subs := make(map[string]bool, len(cat.Subcategories))
		for _, sub := range cat.Subcategories {
			if sub.ID == "" || subs[sub.ID] {
				return nil, fmt.Errorf("reason catalog: bad subcategory %q in %s", sub.ID, cat.ID)
			}
			subs[sub.ID] = true
		}
	}
	return &c, nil
}

var defaultCatalog = sync.OnceValue(func() *Catalog {
	c, err := LoadCatalog(defaultReasonsYAML)
	if err != nil {
		panic(err)
	}
	return c
})

// DefaultCatalog returns the embedded Lens reason catalog.
func DefaultCatalog() *Catalog {
	return defaultCatalog()
}

// Category looks up a category by id.
func (c *Catalog) Category(id string) (Category, bool) {
	for _, cat := range c.Categories {
		if cat.ID == id {
			return cat, true
		}
	}
	return Category{}, false
}

// Reason validates a category/subcategory pair and returns it in API form.
func (c *Catalog) Reason(category, subcategory string) (lens.ReportingReason, error) {
	cat, ok := c.Category(category)
	if !ok {
		return lens.ReportingReason{}, fmt.Errorf("%w: category %q", ErrUnknownReason, category)
	}
	for _, sub := range cat.Subcategories {
		if sub.ID == subcategory {
			return lens.ReportingReason{Category: cat.ID, Subcategory: sub.ID}, nil
		}
	}
	return lens.ReportingReason{}, fmt.Errorf("%w: subcategory %q of %s", ErrUnknownReason, subcategory, category)
}
