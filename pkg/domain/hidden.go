package domain

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// HiddenStemEntry is the hidden-stem analysis of one branch.
type HiddenStemEntry struct {
	Stems   []Stem   `json:"藏干" yaml:"藏干"`
	TenGods []TenGod `json:"十神" yaml:"十神"`
}

// HiddenStemAnalysis is keyed by branch in first-seen order.
// A branch that appears in several pillars occupies one key; the entry is
// overwritten by the last occurrence.
type HiddenStemAnalysis struct {
	entries *orderedmap.OrderedMap[Branch, HiddenStemEntry]
}

// AnalyzeHiddenStems resolves the hidden stems of every branch against the day master,
// walking year, month, day and hour.
func AnalyzeHiddenStems(c Chart) HiddenStemAnalysis {
	h := HiddenStemAnalysis{entries: orderedmap.New[Branch, HiddenStemEntry](4)}
	dm := c.DayMaster()
	for _, b := range c.Branches() {
		stems := b.HiddenStems()
		if stems == nil {
			stems = []Stem{}
		}
		h.Set(b, HiddenStemEntry{
			Stems:   stems,
			TenGods: ResolveTenGods(dm, stems),
		})
	}
	return h
}

// Set stores the entry for b, keeping b's original position if already present.
func (h *HiddenStemAnalysis) Set(b Branch, entry HiddenStemEntry) {
	if h.entries == nil {
		h.entries = orderedmap.New[Branch, HiddenStemEntry]()
	}
	h.entries.Set(b, entry)
}

// Get returns the entry stored for b.
func (h HiddenStemAnalysis) Get(b Branch) (HiddenStemEntry, bool) {
	if h.entries == nil {
		return HiddenStemEntry{}, false
	}
	return h.entries.Get(b)
}

// Len is the number of distinct branches.
func (h HiddenStemAnalysis) Len() int {
	if h.entries == nil {
		return 0
	}
	return h.entries.Len()
}

// Branches lists the keys in order.
func (h HiddenStemAnalysis) Branches() []Branch {
	if h.entries == nil {
		return nil
	}
	out := make([]Branch, 0, h.entries.Len())
	for pair := h.entries.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, pair.Key)
	}
	return out
}

func (h HiddenStemAnalysis) MarshalJSON() ([]byte, error) {
	if h.entries == nil {
		return []byte("{}"), nil
	}
	return h.entries.MarshalJSON()
}

func (h *HiddenStemAnalysis) UnmarshalJSON(data []byte) error {
	h.entries = orderedmap.New[Branch, HiddenStemEntry]()
	return h.entries.UnmarshalJSON(data)
}

func (h HiddenStemAnalysis) MarshalYAML() (interface{}, error) {
	if h.entries == nil {
		return map[string]any{}, nil
	}
	return h.entries.MarshalYAML()
}
