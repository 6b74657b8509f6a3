package roguemonsters

import (
	"bufio"
	"fmt"
	"io"
)

// Monster tables in rough order of vorpalness. A blank never spawns.
const (
	LevelMonsters  = "K BHISOR LCA NYTWFP GMXVJD"
	WanderMonsters = "KEBHISORZ CAQ YTW PUGM VJ "
)

// Defaults for Options.
const (
	DefaultMonsters = 100
	DefaultLevels   = 30
)

// Options configures Generate.
type Options struct {
	// Monsters is the number of monsters per line.
	Monsters int

	// Levels is the number of levels.
	Levels int

	Seed int64
}

// RandMonster picks a monster for level. The deeper the level, the meaner
// the monster.
func (r *RNG) RandMonster(level int, wander bool) byte {
	mons := LevelMonsters
	if wander {
		mons = WanderMonsters
	}
	for {
		d := level + r.Rnd(5) + r.Rnd(6) - 5
		if d < 1 {
			d = r.Rnd(5) + 1
		}
		if d > len(mons) {
			d = r.Rnd(5) + 22
		}
		if c := mons[d-1]; c != ' ' {
			return c
		}
	}
}

// Generate writes a level-init line and a wander line of opts.Monsters
// monsters for each of opts.Levels levels.
func Generate(w io.Writer, opts Options) error {
	if opts.Monsters <= 0 {
		return fmt.Errorf("invalid number of monsters: %d", opts.Monsters)
	}
	if opts.Levels <= 0 {
		return fmt.Errorf("invalid number of levels: %d", opts.Levels)
	}

	rng := NewRNG(opts.Seed)
	bw := bufio.NewWriter(w)
	line := make([]byte, opts.Monsters+1)
	line[opts.Monsters] = '\n'

	for level := 1; level <= opts.Levels; level++ {
		for _, wander := range []bool{false, true} {
			for i := 0; i < opts.Monsters; i++ {
				line[i] = rng.RandMonster(level, wander)
			}
			if _, err := bw.Write(line); err != nil {
				return err
			}
		}
	}
	return bw.Flush()
}
