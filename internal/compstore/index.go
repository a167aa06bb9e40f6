package compstore

import "github.com/axisproperty/dealengine/internal/schema"

// Index is an in-memory, exact-match lookup over ComparableSales, keyed by
// (property_type, tenure). It is rebuilt from the repository at pipeline
// start — the repository remains the durable source of truth.
type Index struct {
	byKey map[indexKey][]ComparableSale
}

type indexKey struct {
	propertyType schema.PropertyType
	tenure       schema.Tenure
}

// NewIndex builds an Index over sales.
func NewIndex(sales []ComparableSale) *Index {
	idx := &Index{byKey: make(map[indexKey][]ComparableSale)}
	for _, s := range sales {
		key := indexKey{s.PropertyType, s.Tenure}
		idx.byKey[key] = append(idx.byKey[key], s)
	}
	return idx
}

// FindExactMatch returns every sale with exactly the given property type
// and tenure. The returned slice must not be mutated by callers.
func (idx *Index) FindExactMatch(propertyType schema.PropertyType, tenure schema.Tenure) []ComparableSale {
	return idx.byKey[indexKey{propertyType, tenure}]
}
