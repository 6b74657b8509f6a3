// Package spawnlog parses the spawn log written by roguemonsters: one line of
// level-initialization spawns followed by one line of wander spawns, per
// dungeon level.
package spawnlog

import (
	"errors"
	"fmt"
	"sort"

	"github.com/lawnchairsociety/roguestats/internal/monster"
)

// ErrInvalidInput is wrapped by every validation failure of a spawn log.
var ErrInvalidInput = errors.New("invalid spawn log")

// Header describes the source a table was parsed from.
type Header struct {
	Filename        string  `json:"filename" yaml:"filename"`
	Levels          int     `json:"levels" yaml:"levels"`
	Lines           int     `json:"lines" yaml:"lines"`
	MonstersPerLine float64 `json:"monstersperline" yaml:"monstersperline"`
	TotalMonsters   int     `json:"totalmonsters" yaml:"totalmonsters"`
}

// Table holds raw per-level counts for both spawn sources.
// Levels are 1-based and contiguous.
type Table struct {
	LevelSpawns  map[int]monster.Counts
	WanderSpawns map[int]monster.Counts
}

// Log is a parsed spawn log.
type Log struct {
	Header Header
	Table  Table
}

// NewTable returns an empty table.
func NewTable() Table {
	return Table{
		LevelSpawns:  make(map[int]monster.Counts),
		WanderSpawns: make(map[int]monster.Counts),
	}
}

// NumLevels returns the number of levels in the table.
func (t Table) NumLevels() int {
	return len(t.LevelSpawns)
}

// Levels returns the level numbers in ascending order.
func (t Table) Levels() []int {
	levels := make([]int, 0, len(t.LevelSpawns))
	for level := range t.LevelSpawns {
		levels = append(levels, level)
	}
	sort.Ints(levels)
	return levels
}

// Level returns the level-init and wander counts of one level.
func (t Table) Level(level int) (lvl, wander monster.Counts) {
	return t.LevelSpawns[level], t.WanderSpawns[level]
}

// Validate checks that both sources cover the same levels, numbered 1..N.
func (t Table) Validate() error {
	if len(t.LevelSpawns) != len(t.WanderSpawns) {
		return fmt.Errorf("%w: %d level records but %d wander records",
			ErrInvalidInput, len(t.LevelSpawns), len(t.WanderSpawns))
	}
	for level := range t.LevelSpawns {
		if _, ok := t.WanderSpawns[level]; !ok {
			return fmt.Errorf("%w: level %d has no wander record", ErrInvalidInput, level)
		}
	}
	for level := 1; level <= len(t.LevelSpawns); level++ {
		if _, ok := t.LevelSpawns[level]; !ok {
			return fmt.Errorf("%w: level %d is missing", ErrInvalidInput, level)
		}
	}
	return nil
}

// Equal reports whether two tables hold the same counts.
func (t Table) Equal(other Table) bool {
	return equalCounts(t.LevelSpawns, other.LevelSpawns) &&
		equalCounts(t.WanderSpawns, other.WanderSpawns)
}

func equalCounts(a, b map[int]monster.Counts) bool {
	if len(a) != len(b) {
		return false
	}
	for level, counts := range a {
		if other, ok := b[level]; !ok || other != counts {
			return false
		}
	}
	return true
}
