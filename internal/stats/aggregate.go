// Package stats turns raw spawn counts into weighted, normalized spawn
// distributions and the projections derived from them.
package stats

import (
	"github.com/lawnchairsociety/roguestats/internal/monster"
	"github.com/lawnchairsociety/roguestats/internal/spawnlog"
)

// Weights scales the level-init and wander sources before they are combined.
type Weights struct {
	Level  int `json:"level" yaml:"level"`
	Wander int `json:"wander" yaml:"wander"`
}

// NewWeights returns weights with the magnitude of the given values.
func NewWeights(level, wander int) Weights {
	return Weights{Level: abs(level), Wander: abs(wander)}
}

// DefaultWeights counts both sources equally.
func DefaultWeights() Weights {
	return Weights{Level: 1, Wander: 1}
}

// Distribution is the weighted, normalized view of a spawn table.
type Distribution struct {
	Weights Weights

	// Combined holds the weighted sums; Combined[i] is level i+1.
	Combined []monster.Counts

	// Levels holds each level's percentage share per species; Levels[i] is level i+1.
	Levels []monster.Shares

	// Monsters is the transpose of Levels.
	Monsters map[monster.Species][]float64
}

// Aggregate combines both sources of every level with w, normalizes each
// level to percentages and transposes the result. t is not modified.
func Aggregate(t spawnlog.Table, w Weights) *Distribution {
	levels := t.Levels()
	combined := make([]monster.Counts, len(levels))
	shares := make([]monster.Shares, len(levels))
	for i, level := range levels {
		lvl, wander := t.Level(level)
		combined[i] = Combine(lvl, wander, w)
		shares[i] = Normalize(combined[i])
	}

	return &Distribution{
		Weights:  NewWeights(w.Level, w.Wander),
		Combined: combined,
		Levels:   shares,
		Monsters: Transpose(shares),
	}
}

// Combine returns lvl*w.Level + wander*w.Wander per species.
func Combine(lvl, wander monster.Counts, w Weights) monster.Counts {
	lw, ww := abs(w.Level), abs(w.Wander)
	var out monster.Counts
	for s := range out {
		out[s] = lvl[s]*lw + wander[s]*ww
	}
	return out
}

// Normalize rescales counts so they sum to 100. A zero total yields all zeros.
func Normalize(counts monster.Counts) monster.Shares {
	var out monster.Shares
	total := counts.Total()
	if total == 0 {
		return out
	}
	for s, n := range counts {
		out[s] = 100 * float64(n) / float64(total)
	}
	return out
}

// Transpose maps every species to its per-level values, in level order.
func Transpose(levels []monster.Shares) map[monster.Species][]float64 {
	monsters := make(map[monster.Species][]float64, monster.Count)
	for _, s := range monster.All() {
		seq := make([]float64, len(levels))
		for i, shares := range levels {
			seq[i] = shares[s]
		}
		monsters[s] = seq
	}
	return monsters
}

// LevelsFromMonsters is the inverse of Transpose.
func LevelsFromMonsters(monsters map[monster.Species][]float64) []monster.Shares {
	n := 0
	for _, seq := range monsters {
		if len(seq) > n {
			n = len(seq)
		}
	}
	levels := make([]monster.Shares, n)
	for s, seq := range monsters {
		if !s.Valid() {
			continue
		}
		for i, v := range seq {
			levels[i][s] = v
		}
	}
	return levels
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
