package stats

import (
	"sort"
	"strings"

	"github.com/lawnchairsociety/roguestats/internal/monster"
)

// Range is the first and last level of a species' first contiguous run of
// presence. The zero Range means the species never appears.
type Range struct {
	First int `json:"first" yaml:"first"`
	Last  int `json:"last" yaml:"last"`
}

// Absent reports whether r is the never-present sentinel.
func (r Range) Absent() bool {
	return r.First == 0 && r.Last == 0
}

// Less orders ranges by first level, then last level.
func (r Range) Less(other Range) bool {
	if r.First != other.First {
		return r.First < other.First
	}
	return r.Last < other.Last
}

// MonsterRange scans seq (level 1 first) for the first run of positive values.
// A species that disappears and comes back later keeps only its first run.
func MonsterRange(seq []float64) Range {
	var r Range
	for i, v := range seq {
		level := i + 1
		if v > 0 {
			if r.First == 0 {
				r.First = level
			}
			r.Last = level
		} else if r.Last != 0 {
			break
		}
	}
	return r
}

// Ranges computes MonsterRange for every species.
func Ranges(monsters map[monster.Species][]float64) map[monster.Species]Range {
	ranges := make(map[monster.Species]Range, len(monsters))
	for s, seq := range monsters {
		ranges[s] = MonsterRange(seq)
	}
	return ranges
}

// SpeciesByRange orders species by (range, species), so absent species come first.
func SpeciesByRange(ranges map[monster.Species]Range) []monster.Species {
	species := make([]monster.Species, 0, len(ranges))
	for s := range ranges {
		species = append(species, s)
	}
	sort.SliceStable(species, func(i, j int) bool {
		ri, rj := ranges[species[i]], ranges[species[j]]
		if ri != rj {
			return ri.Less(rj)
		}
		return species[i] < species[j]
	})
	return species
}

// PresentSpecies returns, per level, the symbols of species with a positive
// share in alphabet order.
func PresentSpecies(levels []monster.Shares) map[int]string {
	present := make(map[int]string, len(levels))
	for i, shares := range levels {
		var b strings.Builder
		for s, v := range shares {
			if v > 0 {
				b.WriteString(monster.Species(s).Symbol())
			}
		}
		present[i+1] = b.String()
	}
	return present
}

// RankSpecies returns, per level, the present species ordered by descending
// share. Equal shares put the later letter first.
func RankSpecies(levels []monster.Shares) map[int]string {
	ranked := make(map[int]string, len(levels))
	for i, shares := range levels {
		type entry struct {
			value   float64
			species monster.Species
		}
		entries := make([]entry, 0, monster.Count)
		for s, v := range shares {
			if v > 0 {
				entries = append(entries, entry{v, monster.Species(s)})
			}
		}
		sort.SliceStable(entries, func(a, b int) bool {
			if entries[a].value != entries[b].value {
				return entries[a].value > entries[b].value
			}
			return entries[a].species > entries[b].species
		})

		var b strings.Builder
		for _, e := range entries {
			b.WriteString(e.species.Symbol())
		}
		ranked[i+1] = b.String()
	}
	return ranked
}

// RankLevels returns, per species, the levels where it appears ordered by
// descending share. Equal shares put the higher level first. Absent species
// map to an empty slice.
func RankLevels(monsters map[monster.Species][]float64) map[monster.Species][]int {
	ranked := make(map[monster.Species][]int, len(monsters))
	for s, seq := range monsters {
		type entry struct {
			value float64
			level int
		}
		entries := make([]entry, 0, len(seq))
		for i, v := range seq {
			if v > 0 {
				entries = append(entries, entry{v, i + 1})
			}
		}
		sort.SliceStable(entries, func(a, b int) bool {
			if entries[a].value != entries[b].value {
				return entries[a].value > entries[b].value
			}
			return entries[a].level > entries[b].level
		})

		levels := make([]int, len(entries))
		for i, e := range entries {
			levels[i] = e.level
		}
		ranked[s] = levels
	}
	return ranked
}
