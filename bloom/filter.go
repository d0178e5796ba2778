// Package bloom provides Bloom filters over document text for ruling out
// documents that cannot contain a query.
package bloom

import (
	"github.com/bits-and-blooms/bloom/v3"
	"github.com/fwojciec/causelist"
)

// GramSize is the length in bytes of the substrings stored in a text filter.
const GramSize = 3

// DefaultFalsePositiveRate is used for text filters.
const DefaultFalsePositiveRate = 0.01

// Filter wraps a Bloom filter for substring prefiltering.
type Filter struct {
	f *bloom.BloomFilter
}

// NewFilter creates a new Bloom filter sized for n expected items
// with the given false positive rate.
func NewFilter(n uint, fpRate float64) *Filter {
	return &Filter{
		f: bloom.NewWithEstimates(max(n, 1), fpRate),
	}
}

// NewTextFilter indexes every trigram of the case-folded text.
func NewTextFilter(text string, fpRate float64) *Filter {
	grams := make(map[string]struct{})
	folded := causelist.FoldCase(text)
	for i := 0; i+GramSize <= len(folded); i++ {
		grams[folded[i:i+GramSize]] = struct{}{}
	}

	f := NewFilter(uint(len(grams)), fpRate)
	for g := range grams {
		f.Add(g)
	}
	return f
}

// Add adds a key to the filter.
func (f *Filter) Add(key string) {
	f.f.AddString(key)
}

// Test returns true if the key might be in the filter.
// False positives are possible; false negatives are not.
func (f *Filter) Test(key string) bool {
	return f.f.TestString(key)
}

// MayContain reports whether a text filter could contain query as a
// case-insensitive substring. Queries shorter than a trigram always pass.
func (f *Filter) MayContain(query string) bool {
	folded := causelist.FoldCase(query)
	for i := 0; i+GramSize <= len(folded); i++ {
		if !f.Test(folded[i : i+GramSize]) {
			return false
		}
	}
	return true
}

// MarshalBinary encodes the filter for storage.
func (f *Filter) MarshalBinary() ([]byte, error) {
	return f.f.GobEncode()
}

// Decode restores a filter encoded with MarshalBinary.
func Decode(data []byte) (*Filter, error) {
	var bf bloom.BloomFilter
	if err := bf.GobDecode(data); err != nil {
		return nil, err
	}
	return &Filter{f: &bf}, nil
}
