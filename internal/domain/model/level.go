package model

import (
	"fmt"
	"strings"
)

// Level is a graded proficiency for a skill.
type Level string

// Known levels. Anything else is treated as LevelUnknown.
const (
	LevelUnknown Level = "UNKNOWN"
	LevelBasic   Level = "BASIC"
	LevelGood    Level = "GOOD"
	LevelExpert  Level = "EXPERT"
)

type levelBand struct {
	min, max int
	emoji    string
}

var levelBands = map[Level]levelBand{
	LevelUnknown: {0, 40, "🟥"},
	LevelBasic:   {41, 60, "🟨"},
	LevelGood:    {61, 85, "🟩"},
	LevelExpert:  {86, 100, "🟦"},
}

// Valid reports whether l is one of the four known levels.
func (l Level) Valid() bool {
	_, ok := levelBands[l]
	return ok
}

// Normalize maps unrecognized values to LevelUnknown.
func (l Level) Normalize() Level {
	if l.Valid() {
		return l
	}
	return LevelUnknown
}

// Class is the CSS class used to badge the level.
func (l Level) Class() string {
	return "level-" + strings.ToLower(string(l.Normalize()))
}

// DisplayText renders the level the way the API does when it omits levelDisplay.
func (l Level) DisplayText() string {
	n := l.Normalize()
	b := levelBands[n]
	return fmt.Sprintf("%s %s (%d-%d%%)", b.emoji, n, b.min, b.max)
}

// LevelFromScore maps a percentage to its band.
func LevelFromScore(score int) Level {
	for _, l := range []Level{LevelUnknown, LevelBasic, LevelGood, LevelExpert} {
		b := levelBands[l]
		if score >= b.min && score <= b.max {
			return l
		}
	}
	return LevelUnknown
}
