// Package catalog declares the inventory domains: where their corpus files
// live, how they are wrapped, and how their records are filtered and sorted.
package catalog

import (
	"sort"

	"expedia_inspired/internal/domain"
	"expedia_inspired/internal/query"
)

// Relation is an auxiliary list keyed by a foreign id (reviews of a stay, ...).
type Relation struct {
	File       domain.FileRef
	ForeignKey string
}

type Domain struct {
	Name string
	// Search is the default search file. Variants, when set, are chosen by
	// the VariantParam query parameter.
	Search       domain.FileRef
	Variants     map[string]domain.FileRef
	VariantParam string
	Details      domain.FileRef
	IDPolicy     query.IDPolicy
	Spec         query.Spec
	Relations    map[string]Relation
}

// SearchFile picks the search file for a variant name ("" selects the default).
func (d Domain) SearchFile(variant string) (domain.FileRef, bool) {
	if variant == "" || len(d.Variants) == 0 {
		return d.Search, true
	}
	ref, ok := d.Variants[variant]
	return ref, ok
}

// SearchFiles lists every search file of the domain.
func (d Domain) SearchFiles() []domain.FileRef {
	if len(d.Variants) == 0 {
		return []domain.FileRef{d.Search}
	}
	keys := make([]string, 0, len(d.Variants))
	for k := range d.Variants {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]domain.FileRef, 0, len(keys))
	for _, k := range keys {
		out = append(out, d.Variants[k])
	}
	return out
}

var registry = map[string]Domain{}

func register(d Domain) { registry[d.Name] = d }

func Lookup(name string) (Domain, bool) {
	d, ok := registry[name]
	return d, ok
}

// Names returns the registered domain names in sorted order.
func Names() []string {
	out := make([]string, 0, len(registry))
	for k := range registry {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func file(dir, name string, shape domain.Shape) domain.FileRef {
	return domain.FileRef{Dir: dir, Name: name, Shape: shape}
}
