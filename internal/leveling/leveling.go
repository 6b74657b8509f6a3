// Package leveling holds Rogue's experience level table.
package leveling

import (
	"fmt"
	"io"
)

// Leveling constants
const (
	// BaseXP is the experience needed to reach level 2.
	BaseXP = 10

	// NumThresholds is the number of level thresholds; each doubles the last.
	NumThresholds = 19

	// MaxPlayerLevel is reached once every threshold is passed.
	MaxPlayerLevel = NumThresholds + 1
)

// Thresholds returns the experience needed for levels 2 through
// MaxPlayerLevel. Thresholds()[i] is the requirement for level i+2.
func Thresholds() []int64 {
	levels := make([]int64, NumThresholds)
	levels[0] = BaseXP
	for i := 1; i < len(levels); i++ {
		levels[i] = levels[i-1] << 1
	}
	return levels
}

// XPForLevel returns the total XP required to reach a given level.
func XPForLevel(level int) int64 {
	if level <= 1 {
		return 0
	}
	if level > MaxPlayerLevel {
		level = MaxPlayerLevel
	}
	return Thresholds()[level-2]
}

// LevelForXP returns the level a character with xp experience has reached.
func LevelForXP(xp int64) int {
	thresholds := Thresholds()
	i := 0
	for ; i < len(thresholds); i++ {
		if thresholds[i] > xp {
			break
		}
	}
	return i + 1
}

// LevelUpInfo contains information about a level-up event
type LevelUpInfo struct {
	OldLevel int
	NewLevel int
}

// Gained returns the number of levels gained, or 0.
func (l LevelUpInfo) Gained() int {
	if l.NewLevel <= l.OldLevel {
		return 0
	}
	return l.NewLevel - l.OldLevel
}

// CheckLevel recomputes the level for xp. Rogue sets the level outright, so
// losing experience also lowers it.
func CheckLevel(oldLevel int, xp int64) LevelUpInfo {
	return LevelUpInfo{OldLevel: oldLevel, NewLevel: LevelForXP(xp)}
}

// WriteTable prints one "XP level N: threshold" line per level.
func WriteTable(w io.Writer) error {
	for i, xp := range Thresholds() {
		if _, err := fmt.Fprintf(w, "XP level %2d: %10d\n", i+2, xp); err != nil {
			return err
		}
	}
	return nil
}
