package domain

// Element is one of the five phases (五行).
// The zero value is the unresolved element and never appears in a valid chart.
type Element string

const (
	Wood  Element = "木"
	Fire  Element = "火"
	Earth Element = "土"
	Metal Element = "金"
	Water Element = "水"
)

// Elements lists the five phases in canonical table order.
// Every iteration that must be deterministic walks this slice.
var Elements = []Element{Wood, Fire, Earth, Metal, Water}

// generates is the 相生 cycle: wood feeds fire, fire makes earth, earth bears metal,
// metal carries water, water nourishes wood.
var generates = map[Element]Element{
	Wood:  Fire,
	Fire:  Earth,
	Earth: Metal,
	Metal: Water,
	Water: Wood,
}

// overcomes is the 相克 cycle.
var overcomes = map[Element]Element{
	Wood:  Earth,
	Fire:  Metal,
	Earth: Water,
	Metal: Wood,
	Water: Fire,
}

// Valid reports whether e is one of the five phases.
func (e Element) Valid() bool {
	_, ok := generates[e]
	return ok
}

// String returns the element's character.
func (e Element) String() string {
	return string(e)
}

// Generates returns the element e produces. Unresolved elements return "".
func (e Element) Generates() Element {
	return generates[e]
}

// Overcomes returns the element e restrains. Unresolved elements return "".
func (e Element) Overcomes() Element {
	return overcomes[e]
}

// GeneratedBy returns the first element, in table order, whose generated element is e.
func (e Element) GeneratedBy() Element {
	for _, candidate := range Elements {
		if generates[candidate] == e {
			return candidate
		}
	}
	return ""
}

// OvercomeBy returns the element that restrains e.
func (e Element) OvercomeBy() Element {
	for _, candidate := range Elements {
		if overcomes[candidate] == e {
			return candidate
		}
	}
	return ""
}
