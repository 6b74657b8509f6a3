// Package monster defines the Rogue monster alphabet and the fixed-size
// vectors indexed by it.
package monster

// Alphabet lists every monster symbol in index order.
const Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// Count is the number of species in the alphabet.
const Count = len(Alphabet)

// Species is the stable index of a monster symbol in Alphabet.
type Species int

// Counts holds one non-negative count per species.
type Counts [Count]int

// Shares holds one percentage (or weighted value) per species.
type Shares [Count]float64

// names follows the PC version of Rogue (A.I. Design 1.48).
var names = [Count]string{
	"aquator",
	"bat",
	"centaur",
	"dragon",
	"emu",
	"venus flytrap",
	"griffin",
	"hobgoblin",
	"ice monster",
	"jabberwock",
	"kestrel",
	"leprechaun",
	"medusa",
	"nymph",
	"orc",
	"phantom",
	"quagga",
	"rattlesnake",
	"snake",
	"troll",
	"ur-vile",
	"vampire",
	"wraith",
	"xeroc",
	"yeti",
	"zombie",
}

// All returns every species in alphabet order.
func All() []Species {
	all := make([]Species, Count)
	for i := range all {
		all[i] = Species(i)
	}
	return all
}

// FromSymbol returns the species for an uppercase letter.
func FromSymbol(r byte) (Species, bool) {
	if r < 'A' || r > 'Z' {
		return 0, false
	}
	return Species(r - 'A'), true
}

// Symbol returns the single-letter symbol of the species.
func (s Species) Symbol() string {
	if !s.Valid() {
		return "?"
	}
	return Alphabet[s : s+1]
}

// Name returns the Rogue name of the species.
func (s Species) Name() string {
	if !s.Valid() {
		return "unknown"
	}
	return names[s]
}

// Valid reports whether s indexes the alphabet.
func (s Species) Valid() bool {
	return s >= 0 && int(s) < Count
}

// String implements fmt.Stringer.
func (s Species) String() string {
	return s.Symbol()
}

// Symbols returns the alphabet as one string per species.
func Symbols() []string {
	symbols := make([]string, Count)
	for i := range symbols {
		symbols[i] = Species(i).Symbol()
	}
	return symbols
}

// Total returns the sum of all counts.
func (c Counts) Total() int {
	total := 0
	for _, n := range c {
		total += n
	}
	return total
}

// Total returns the sum of all shares.
func (s Shares) Total() float64 {
	total := 0.0
	for _, v := range s {
		total += v
	}
	return total
}
