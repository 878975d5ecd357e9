package domain

import (
	"crypto/sha256"
	"math/big"
)

// Chart holds the four pillars (四柱) of a reading.
type Chart struct {
	Year  Pillar `json:"year" yaml:"year"`
	Month Pillar `json:"month" yaml:"month"`
	Day   Pillar `json:"day" yaml:"day"`
	Hour  Pillar `json:"hour" yaml:"hour"`
}

// NewChart assembles a chart from explicit pillars, e.g. ones read from an almanac.
func NewChart(year, month, day, hour string) (Chart, error) {
	var c Chart
	for _, f := range []struct {
		dst *Pillar
		src string
	}{
		{&c.Year, year},
		{&c.Month, month},
		{&c.Day, day},
		{&c.Hour, hour},
	} {
		p, err := ParsePillar(f.src)
		if err != nil {
			return Chart{}, err
		}
		*f.dst = p
	}
	return c, nil
}

// DeriveChart maps an opaque birth identifier to a chart.
//
// This is NOT a calendrical conversion. The SHA-256 digest of the text is read as a
// big-endian integer D and the pillars are cycle[D mod 60], cycle[(D/10) mod 60],
// cycle[(D/100) mod 60] and cycle[(D/1000) mod 60] for year, month, day and hour.
// The same text always yields the same chart.
func DeriveChart(input string) Chart {
	idx := ChartIndices(input)
	return Chart{
		Year:  sexagenary[idx[0]],
		Month: sexagenary[idx[1]],
		Day:   sexagenary[idx[2]],
		Hour:  sexagenary[idx[3]],
	}
}

// ChartIndices returns the cycle positions DeriveChart selects for year, month, day and hour.
func ChartIndices(input string) [4]int {
	sum := sha256.Sum256([]byte(input))
	d := new(big.Int).SetBytes(sum[:])

	var (
		idx     [4]int
		divisor = big.NewInt(1)
		ten     = big.NewInt(10)
		period  = big.NewInt(CycleLength)
		q       = new(big.Int)
	)
	for i := range idx {
		q.Quo(d, divisor)
		idx[i] = int(q.Mod(q, period).Int64())
		divisor.Mul(divisor, ten)
	}
	return idx
}

// Pillars returns the pillars in year, month, day, hour order.
func (c Chart) Pillars() [4]Pillar {
	return [4]Pillar{c.Year, c.Month, c.Day, c.Hour}
}

// DayMaster is the stem of the day pillar, the reference point of every relation.
func (c Chart) DayMaster() Stem {
	return c.Day.Stem
}

// Stems returns the four pillar stems in year, month, day, hour order.
func (c Chart) Stems() []Stem {
	return []Stem{c.Year.Stem, c.Month.Stem, c.Day.Stem, c.Hour.Stem}
}

// Branches returns the four pillar branches in year, month, day, hour order.
func (c Chart) Branches() []Branch {
	return []Branch{c.Year.Branch, c.Month.Branch, c.Day.Branch, c.Hour.Branch}
}
