package domain

import (
	"fmt"
	"unicode/utf8"
)

// CycleLength is the period of the sexagenary (干支) cycle.
const CycleLength = 60

// Pillar is a stem/branch pair such as 甲子.
type Pillar struct {
	Stem   Stem
	Branch Branch
}

// String renders the pillar as its two characters.
func (p Pillar) String() string {
	return string(p.Stem) + string(p.Branch)
}

// MarshalText implements encoding.TextMarshaler.
func (p Pillar) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. Only cycle members are accepted.
func (p *Pillar) UnmarshalText(text []byte) error {
	parsed, err := ParsePillar(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

var sexagenary [CycleLength]Pillar

var cycleIndex = make(map[Pillar]int, CycleLength)

func init() {
	for i := 0; i < CycleLength; i++ {
		p := Pillar{Stem: Stems[i%len(Stems)], Branch: Branches[i%len(Branches)]}
		sexagenary[i] = p
		cycleIndex[p] = i
	}
}

// Sexagenary returns the 60 pillars of the cycle in order, starting at 甲子.
// Entry i pairs Stems[i mod 10] with Branches[i mod 12].
func Sexagenary() []Pillar {
	out := make([]Pillar, CycleLength)
	copy(out, sexagenary[:])
	return out
}

// PillarAt returns cycle entry i mod 60.
func PillarAt(i int) Pillar {
	i %= CycleLength
	if i < 0 {
		i += CycleLength
	}
	return sexagenary[i]
}

// CycleIndex reports the position of p in the sexagenary cycle.
// Pairs of mismatched parity (e.g. 甲丑) are not cycle members.
func CycleIndex(p Pillar) (int, bool) {
	i, ok := cycleIndex[p]
	return i, ok
}

// ParsePillar parses a two-character pillar such as "丙寅".
func ParsePillar(s string) (Pillar, error) {
	if utf8.RuneCountInString(s) != 2 {
		return Pillar{}, fmt.Errorf("%w: %q must be exactly one stem and one branch", ErrInvalidPillar, s)
	}
	stem, size := utf8.DecodeRuneInString(s)
	p := Pillar{Stem: Stem(string(stem)), Branch: Branch(s[size:])}
	if _, ok := CycleIndex(p); !ok {
		return Pillar{}, fmt.Errorf("%w: %q is not in the sexagenary cycle", ErrInvalidPillar, s)
	}
	return p, nil
}

// CycleEntry describes one cycle member with the element of each character.
type CycleEntry struct {
	Index         int     `json:"index" yaml:"index"`
	Pillar        Pillar  `json:"pillar" yaml:"pillar"`
	Stem          Stem    `json:"stem" yaml:"stem"`
	Branch        Branch  `json:"branch" yaml:"branch"`
	StemElement   Element `json:"stem_element" yaml:"stem_element"`
	BranchElement Element `json:"branch_element" yaml:"branch_element"`
}

// CycleTable lists the sexagenary cycle in order.
func CycleTable() []CycleEntry {
	entries := make([]CycleEntry, CycleLength)
	for i, p := range sexagenary {
		se, _ := p.Stem.Element()
		be, _ := p.Branch.Element()
		entries[i] = CycleEntry{Index: i, Pillar: p, Stem: p.Stem, Branch: p.Branch, StemElement: se, BranchElement: be}
	}
	return entries
}
