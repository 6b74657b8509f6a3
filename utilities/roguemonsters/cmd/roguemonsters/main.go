// roguemonsters generates random level and wander monsters using the rules
// of Rogue, in the spawn log format read by roguestats.
//
// Usage:
//
//	roguemonsters [-seed N] [MONSTERS] [LEVELS]
package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/lawnchairsociety/roguestats/utilities/roguemonsters"
)

func main() {
	seed := flag.Int64("seed", 0, "Seed for random generation (default: current time)")
	flag.Usage = printUsage
	flag.Parse()

	if flag.NArg() > 2 {
		printUsage()
		os.Exit(1)
	}

	opts := roguemonsters.Options{
		Monsters: roguemonsters.DefaultMonsters,
		Levels:   roguemonsters.DefaultLevels,
		Seed:     *seed,
	}
	if opts.Seed == 0 {
		opts.Seed = roguemonsters.TimeSeed()
	}

	if flag.NArg() >= 1 {
		opts.Monsters = readInt(flag.Arg(0), "MONSTERS")
	}
	if flag.NArg() >= 2 {
		opts.Levels = readInt(flag.Arg(1), "LEVELS")
	}

	if err := roguemonsters.Generate(os.Stdout, opts); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func readInt(s, name string) int {
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		fmt.Fprintf(os.Stderr, "Invalid number of %s: %s\n", name, s)
		printUsage()
		os.Exit(1)
	}
	return n
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `Usage: roguemonsters [-seed N] [MONSTERS] [LEVELS]

Generates MONSTERS [default: %d] monsters for each one of LEVELS [default: %d] levels,
printing a line of generated level monsters and a line of wander monsters
chosen randomly according to Rogue level rules.

Options:
`, roguemonsters.DefaultMonsters, roguemonsters.DefaultLevels)
	flag.PrintDefaults()
}
