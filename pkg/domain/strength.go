package domain

import "fmt"

// Strength is the body-strength (身强弱) classification of a day master.
type Strength string

const (
	Strong Strength = "身旺"
	Weak   Strength = "身弱"
)

// StrongThreshold is the lowest score classified as Strong.
const StrongThreshold = 6

// inCommandBonus is added when the day master's element rules the month (得令).
const inCommandBonus = 3

// Classify maps a score to a classification.
func Classify(score int) Strength {
	if score >= StrongThreshold {
		return Strong
	}
	return Weak
}

// StrengthJudgment is the derived strength record of a chart.
type StrengthJudgment struct {
	DayMaster      Stem     `json:"日主" yaml:"日主"`
	Element        Element  `json:"五行" yaml:"五行"`
	InCommand      bool     `json:"得令" yaml:"得令"`
	Score          int      `json:"命局评分" yaml:"命局评分"`
	Status         Strength `json:"身强弱" yaml:"身强弱"`
	Recommendation string   `json:"推荐用神" yaml:"推荐用神"`

	// Useful holds the two recommended elements (用神) named in Recommendation.
	Useful []Element `json:"-" yaml:"-"`
}

// InCommand reports whether the day master's element is among the elements of
// the month branch's hidden stems.
func InCommand(c Chart) bool {
	dm, ok := c.DayMaster().Element()
	if !ok {
		return false
	}
	for _, s := range c.Month.Branch.HiddenStems() {
		if e, ok := s.Element(); ok && e == dm {
			return true
		}
	}
	return false
}

// StrengthScore accumulates the body-strength heuristic:
//
//	+3 when in command
//	+ count(dm) + count(dm→→) + count(dm)
//	− count(dm→) − count(dm⊣)
//
// where → is "generates" and ⊣ is "overcomes". The day master's own element is
// counted twice on purpose; fixtures depend on it.
func StrengthScore(dm Element, inCommand bool, counts ElementCount) int {
	score := 0
	if inCommand {
		score += inCommandBonus
	}
	score += counts.Get(dm)
	score += counts.Get(dm.Generates().Generates())
	score += counts.Get(dm)
	score -= counts.Get(dm.Generates())
	score -= counts.Get(dm.Overcomes())
	return score
}

// JudgeStrength scores the day master and recommends balancing elements.
func JudgeStrength(c Chart, counts ElementCount) StrengthJudgment {
	dayMaster := c.DayMaster()
	dm, _ := dayMaster.Element()
	inCommand := InCommand(c)
	score := StrengthScore(dm, inCommand, counts)
	status := Classify(score)

	j := StrengthJudgment{
		DayMaster: dayMaster,
		Element:   dm,
		InCommand: inCommand,
		Score:     score,
		Status:    status,
	}

	prefix := fmt.Sprintf("你日主为%s（%s），命局得分为%d，属【%s】格局。", dayMaster, dm, score, status)
	if status == Strong {
		drain, restrain := dm.Generates(), dm.Overcomes()
		j.Useful = []Element{drain, restrain}
		j.Recommendation = prefix + fmt.Sprintf("建议用神为：%s（泄），%s（克）。", drain, restrain)
		return j
	}

	resource := dm.GeneratedBy()
	j.Useful = []Element{resource, dm}
	j.Recommendation = prefix + fmt.Sprintf("建议用神为：%s（印），%s（比劫）。", resource, dm)
	return j
}
