package report

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/lawnchairsociety/roguestats/internal/monster"
)

// Format selects a renderer.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat validates a format name. The empty string means text.
func ParseFormat(name string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(name))) {
	case "", FormatText:
		return FormatText, nil
	case FormatJSON:
		return FormatJSON, nil
	case FormatYAML, "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want text, json or yaml)", name)
	}
}

// TextOptions controls the text renderer.
type TextOptions struct {
	// Precision is the number of decimals printed for percentages.
	Precision int

	// BlankZeros prints zero percentages as blanks in the main tables.
	BlankZeros bool

	// Legend appends the Rogue name of every species.
	Legend bool
}

// DefaultTextOptions matches the classic roguestats output.
func DefaultTextOptions() TextOptions {
	return TextOptions{Precision: 1, BlankZeros: true, Legend: true}
}

// Render writes r to w in the given format.
func Render(w io.Writer, r *Report, format Format, opts TextOptions) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(r); err != nil {
			return err
		}
		return enc.Close()
	case FormatText, "":
		_, err := io.WriteString(w, Text(r, opts))
		return err
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

// Text renders r as nested, column-aligned mappings.
func Text(r *Report, opts TextOptions) string {
	if opts.Precision < 0 {
		opts.Precision = 0
	}
	p := printer{intLen: 2, precision: opts.Precision}
	levels := sortedLevels(r.Levels)
	symbols := sortedSymbols(r.Monsters)

	var b strings.Builder

	b.WriteString("Main data: Monsters per Level, normalized as percentage of level\n")
	b.WriteString(p.object(2, item{"", p.quoted(r.Alphabet, p.intLen+p.precision+1)}))
	b.WriteString(p.object(2, mapItems(levels, func(level int) string {
		return p.floats(r.Levels[level], opts.BlankZeros)
	})...))
	b.WriteString(p.object(2, symbolItems(symbols, func(s string) string {
		return p.floats(r.Monsters[s], opts.BlankZeros)
	})...))

	b.WriteString("Monsters level range: first and last level of each monster\n")
	b.WriteString(p.object(1, symbolItems(sortedSymbols(r.Ranges), func(s string) string {
		rng := r.Ranges[s]
		return p.ints([]int{rng.First, rng.Last})
	})...))
	b.WriteString("Sorted by level:\n")
	byLevel := make([]item, len(r.RangesByLevel))
	for i, e := range r.RangesByLevel {
		byLevel[i] = item{e.Monster, p.ints([]int{e.First, e.Last})}
	}
	b.WriteString(p.object(1, byLevel...))

	b.WriteString("Monster types in each level:\n")
	b.WriteString(p.object(2, mapItems(sortedLevels(r.Present), func(level int) string {
		return p.str(r.Present[level], 4)
	})...))

	b.WriteString("Monster distribution in each level, sorted by most frequent monster:\n")
	b.WriteString(p.object(2, mapItems(sortedLevels(r.LevelRanking), func(level int) string {
		return p.str(r.LevelRanking[level], p.intLen)
	})...))

	b.WriteString("Distribution in levels for each monster, sorted by most frequent level:\n")
	b.WriteString(p.object(1, symbolItems(sortedSymbols(r.MonsterRanking), func(s string) string {
		return p.ints(r.MonsterRanking[s])
	})...))

	if opts.Legend {
		b.WriteString("Monster names:\n")
		b.WriteString(p.object(1, symbolItems(r.Alphabet, func(s string) string {
			species, _ := monster.FromSymbol(s[0])
			return strconv.Quote(species.Name())
		})...))
	}
	return b.String()
}

type item struct {
	key   string
	value string
}

type printer struct {
	intLen    int
	precision int
}

func (p printer) object(keyLen int, items ...item) string {
	lines := make([]string, len(items))
	for i, it := range items {
		lines[i] = fmt.Sprintf("%*s: %s", keyLen+2, strconv.Quote(it.key), it.value)
	}
	return "{\n" + strings.Join(lines, ",\n") + "\n}\n"
}

func (p printer) floats(values []float64, blankZeros bool) string {
	width := p.intLen + p.precision + 1
	parts := make([]string, len(values))
	for i, v := range values {
		if blankZeros && v == 0 {
			parts[i] = strings.Repeat(" ", width)
			continue
		}
		parts[i] = fmt.Sprintf("%*.*f", width, p.precision, v)
	}
	return "[ " + strings.Join(parts, ", ") + " ]"
}

func (p printer) ints(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = fmt.Sprintf("%*d", p.intLen, v)
	}
	return "[ " + strings.Join(parts, ", ") + " ]"
}

func (p printer) quoted(values []string, width int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = p.str(v, width)
	}
	return "[ " + strings.Join(parts, ", ") + " ]"
}

func (p printer) str(s string, width int) string {
	return fmt.Sprintf("%*s", width, strconv.Quote(s))
}

func mapItems(levels []int, value func(int) string) []item {
	items := make([]item, len(levels))
	for i, level := range levels {
		items[i] = item{strconv.Itoa(level), value(level)}
	}
	return items
}

func symbolItems(symbols []string, value func(string) string) []item {
	items := make([]item, len(symbols))
	for i, s := range symbols {
		items[i] = item{s, value(s)}
	}
	return items
}

func sortedLevels[V any](m map[int]V) []int {
	levels := make([]int, 0, len(m))
	for level := range m {
		levels = append(levels, level)
	}
	sort.Ints(levels)
	return levels
}

func sortedSymbols[V any](m map[string]V) []string {
	symbols := make([]string, 0, len(m))
	for s := range m {
		symbols = append(symbols, s)
	}
	sort.Strings(symbols)
	return symbols
}
