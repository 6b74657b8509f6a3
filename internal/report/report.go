// Package report assembles the derived views of a spawn distribution into a
// single value and renders it as text, JSON or YAML.
package report

import (
	"github.com/lawnchairsociety/roguestats/internal/monster"
	"github.com/lawnchairsociety/roguestats/internal/spawnlog"
	"github.com/lawnchairsociety/roguestats/internal/stats"
)

// RangeEntry is one species in the "sorted by level" view.
type RangeEntry struct {
	Monster string `json:"monster" yaml:"monster"`
	First   int    `json:"first" yaml:"first"`
	Last    int    `json:"last" yaml:"last"`
}

// Report holds every view computed for one spawn log. Levels are keyed by
// their 1-based number and species by their symbol.
type Report struct {
	Header  spawnlog.Header `json:"header" yaml:"header"`
	Weights stats.Weights   `json:"weights" yaml:"weights"`

	// Alphabet lists the species symbols in index order.
	Alphabet []string `json:"monsters" yaml:"monsters"`

	// Levels is the normalized level -> species table.
	Levels map[int][]float64 `json:"levels" yaml:"levels"`

	// Monsters is the species -> per-level table.
	Monsters map[string][]float64 `json:"monster_levels" yaml:"monster_levels"`

	Ranges        map[string]stats.Range `json:"ranges" yaml:"ranges"`
	RangesByLevel []RangeEntry           `json:"ranges_by_level" yaml:"ranges_by_level"`

	// Present lists, per level, the species with a positive share.
	Present map[int]string `json:"present" yaml:"present"`

	// LevelRanking lists, per level, species by descending share.
	LevelRanking map[int]string `json:"level_ranking" yaml:"level_ranking"`

	// MonsterRanking lists, per species, levels by descending share.
	MonsterRanking map[string][]int `json:"monster_ranking" yaml:"monster_ranking"`
}

// Build derives every view from a parsed log and its distribution.
func Build(header spawnlog.Header, d *stats.Distribution) *Report {
	r := &Report{
		Header:         header,
		Weights:        d.Weights,
		Alphabet:       monster.Symbols(),
		Levels:         make(map[int][]float64, len(d.Levels)),
		Monsters:       make(map[string][]float64, len(d.Monsters)),
		Ranges:         make(map[string]stats.Range, len(d.Monsters)),
		Present:        stats.PresentSpecies(d.Levels),
		LevelRanking:   stats.RankSpecies(d.Levels),
		MonsterRanking: make(map[string][]int, len(d.Monsters)),
	}

	for i, shares := range d.Levels {
		r.Levels[i+1] = append([]float64(nil), shares[:]...)
	}
	for s, seq := range d.Monsters {
		r.Monsters[s.Symbol()] = append([]float64(nil), seq...)
	}

	ranges := stats.Ranges(d.Monsters)
	for s, rng := range ranges {
		r.Ranges[s.Symbol()] = rng
	}
	for _, s := range stats.SpeciesByRange(ranges) {
		rng := ranges[s]
		r.RangesByLevel = append(r.RangesByLevel, RangeEntry{Monster: s.Symbol(), First: rng.First, Last: rng.Last})
	}

	for s, levels := range stats.RankLevels(d.Monsters) {
		r.MonsterRanking[s.Symbol()] = levels
	}
	return r
}
