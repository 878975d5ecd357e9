package domain

// Ten-god labels. Each names a yin/yang pair of the classical ten gods (十神).
const (
	LabelPeer     = "比肩/劫财" // same element
	LabelOutput   = "食神/伤官" // the day master generates it
	LabelWealth   = "偏财/正财" // the day master overcomes it
	LabelOfficer  = "七杀/正官" // it overcomes the day master
	LabelResource = "正印/偏印" // it generates the day master
	LabelUnknown  = "未知"
)

// tenGods is keyed by day master element, then by the other stem's element.
var tenGods = map[Element]map[Element]string{
	Wood: {
		Wood:  LabelPeer,
		Fire:  LabelOutput,
		Earth: LabelWealth,
		Metal: LabelOfficer,
		Water: LabelResource,
	},
	Fire: {
		Wood:  LabelResource,
		Fire:  LabelPeer,
		Earth: LabelOutput,
		Metal: LabelWealth,
		Water: LabelOfficer,
	},
	Earth: {
		Wood:  LabelOfficer,
		Fire:  LabelResource,
		Earth: LabelPeer,
		Metal: LabelOutput,
		Water: LabelWealth,
	},
	Metal: {
		Wood:  LabelWealth,
		Fire:  LabelOfficer,
		Earth: LabelResource,
		Metal: LabelPeer,
		Water: LabelOutput,
	},
	Water: {
		Wood:  LabelOutput,
		Fire:  LabelWealth,
		Earth: LabelOfficer,
		Metal: LabelResource,
		Water: LabelPeer,
	},
}

// TenGod relates one stem to the day master.
type TenGod struct {
	Stem    Stem    `json:"干" yaml:"干"`
	Element Element `json:"五行" yaml:"五行"`
	Label   string  `json:"十神" yaml:"十神"`
}

// Relation returns the ten-god label of other as seen from the day master element dm.
func Relation(dm, other Element) string {
	row, ok := tenGods[dm]
	if !ok {
		return LabelUnknown
	}
	label, ok := row[other]
	if !ok {
		return LabelUnknown
	}
	return label
}

// ResolveTenGods labels each stem relative to dayMaster, preserving input order.
// Stems whose element (or the day master's) does not resolve are omitted.
func ResolveTenGods(dayMaster Stem, others []Stem) []TenGod {
	dm, ok := dayMaster.Element()
	out := make([]TenGod, 0, len(others))
	if !ok {
		return out
	}
	for _, s := range others {
		e, ok := s.Element()
		if !ok {
			continue
		}
		out = append(out, TenGod{Stem: s, Element: e, Label: Relation(dm, e)})
	}
	return out
}
