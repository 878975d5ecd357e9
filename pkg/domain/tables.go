package domain

// Stem is one of the ten Heavenly Stems (天干).
type Stem string

// Branch is one of the twelve Earthly Branches (地支).
type Branch string

const (
	StemJia  Stem = "甲"
	StemYi   Stem = "乙"
	StemBing Stem = "丙"
	StemDing Stem = "丁"
	StemWu   Stem = "戊"
	StemJi   Stem = "己"
	StemGeng Stem = "庚"
	StemXin  Stem = "辛"
	StemRen  Stem = "壬"
	StemGui  Stem = "癸"
)

const (
	BranchZi   Branch = "子"
	BranchChou Branch = "丑"
	BranchYin  Branch = "寅"
	BranchMao  Branch = "卯"
	BranchChen Branch = "辰"
	BranchSi   Branch = "巳"
	BranchWu   Branch = "午"
	BranchWei  Branch = "未"
	BranchShen Branch = "申"
	BranchYou  Branch = "酉"
	BranchXu   Branch = "戌"
	BranchHai  Branch = "亥"
)

// Stems is the ordered stem axis of the sexagenary cycle.
var Stems = []Stem{
	StemJia, StemYi, StemBing, StemDing, StemWu,
	StemJi, StemGeng, StemXin, StemRen, StemGui,
}

// Branches is the ordered branch axis of the sexagenary cycle.
var Branches = []Branch{
	BranchZi, BranchChou, BranchYin, BranchMao, BranchChen, BranchSi,
	BranchWu, BranchWei, BranchShen, BranchYou, BranchXu, BranchHai,
}

// elementOf covers the closed alphabet of stems and branches.
var elementOf = map[string]Element{
	"甲": Wood, "乙": Wood, "丙": Fire, "丁": Fire, "戊": Earth,
	"己": Earth, "庚": Metal, "辛": Metal, "壬": Water, "癸": Water,
	"子": Water, "丑": Earth, "寅": Wood, "卯": Wood, "辰": Earth, "巳": Fire,
	"午": Fire, "未": Earth, "申": Metal, "酉": Metal, "戌": Earth, "亥": Water,
}

// hiddenStems lists the 藏干 of each branch, principal qi first.
var hiddenStems = map[Branch][]Stem{
	BranchZi:   {StemGui},
	BranchChou: {StemJi, StemGui, StemXin},
	BranchYin:  {StemJia, StemBing, StemWu},
	BranchMao:  {StemYi},
	BranchChen: {StemWu, StemYi, StemGui},
	BranchSi:   {StemBing, StemGeng, StemWu},
	BranchWu:   {StemDing, StemJi},
	BranchWei:  {StemJi, StemDing, StemYi},
	BranchShen: {StemGeng, StemRen, StemWu},
	BranchYou:  {StemXin},
	BranchXu:   {StemWu, StemXin, StemDing},
	BranchHai:  {StemRen, StemJia},
}

// ElementOf resolves a stem or branch character to its element.
// Characters outside the stem/branch alphabet report false.
func ElementOf(char string) (Element, bool) {
	e, ok := elementOf[char]
	return e, ok
}

// Element resolves the stem's element.
func (s Stem) Element() (Element, bool) {
	return ElementOf(string(s))
}

// Element resolves the branch's element.
func (b Branch) Element() (Element, bool) {
	return ElementOf(string(b))
}

// HiddenStems returns a copy of the branch's hidden stems, or nil for an unknown branch.
func (b Branch) HiddenStems() []Stem {
	stems, ok := hiddenStems[b]
	if !ok {
		return nil
	}
	out := make([]Stem, len(stems))
	copy(out, stems)
	return out
}
