package domain

import (
	"encoding/json"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// ElementCount maps each of the five elements to a count, always in table order.
type ElementCount struct {
	counts *orderedmap.OrderedMap[Element, int]
}

// NewElementCount returns a count with every element at zero.
func NewElementCount() ElementCount {
	m := orderedmap.New[Element, int](len(Elements))
	for _, e := range Elements {
		m.Set(e, 0)
	}
	return ElementCount{counts: m}
}

// Tally counts the elements of the chart's four stems and four branches.
// Characters that do not resolve are skipped.
func Tally(c Chart) ElementCount {
	ec := NewElementCount()
	for _, p := range c.Pillars() {
		for _, char := range []string{string(p.Stem), string(p.Branch)} {
			if e, ok := ElementOf(char); ok {
				ec.Add(e, 1)
			}
		}
	}
	return ec
}

// Add increments e by n. Unresolved elements are ignored.
func (ec *ElementCount) Add(e Element, n int) {
	if !e.Valid() {
		return
	}
	ec.init()
	ec.counts.Set(e, ec.counts.Value(e)+n)
}

// Get returns the count for e, zero when e is unresolved.
func (ec ElementCount) Get(e Element) int {
	if ec.counts == nil {
		return 0
	}
	return ec.counts.Value(e)
}

// Total sums all five counts.
func (ec ElementCount) Total() int {
	total := 0
	for _, e := range Elements {
		total += ec.Get(e)
	}
	return total
}

func (ec *ElementCount) init() {
	if ec.counts == nil {
		*ec = NewElementCount()
	}
}

// MarshalJSON writes the counts as an object keyed by element in table order.
func (ec ElementCount) MarshalJSON() ([]byte, error) {
	if ec.counts == nil {
		return NewElementCount().counts.MarshalJSON()
	}
	return ec.counts.MarshalJSON()
}

// UnmarshalJSON reads counts back, keeping table order regardless of input order.
func (ec *ElementCount) UnmarshalJSON(data []byte) error {
	var raw map[Element]int
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*ec = NewElementCount()
	for _, e := range Elements {
		ec.counts.Set(e, raw[e])
	}
	return nil
}

// MarshalYAML writes the counts as an ordered mapping.
func (ec ElementCount) MarshalYAML() (interface{}, error) {
	if ec.counts == nil {
		return NewElementCount().counts.MarshalYAML()
	}
	return ec.counts.MarshalYAML()
}
