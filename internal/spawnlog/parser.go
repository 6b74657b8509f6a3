package spawnlog

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/lawnchairsociety/roguestats/internal/monster"
)

// Parse reads a spawn log. Line 2k holds the level-init spawns of level k+1
// and line 2k+1 its wander spawns. name is the source path, or "" / "-" for
// an unnamed stream.
func Parse(r io.Reader, name string) (*Log, error) {
	table := NewTable()
	br := bufio.NewReader(r)

	lines := 0
	total := 0
	for {
		line, err := br.ReadString('\n')
		if len(line) > 0 {
			content := strings.TrimSuffix(strings.TrimSuffix(line, "\n"), "\r")
			total += len(content)

			level := lines/2 + 1
			spawns := table.LevelSpawns
			if lines%2 == 1 {
				spawns = table.WanderSpawns
			}
			spawns[level] = addSymbols(spawns[level], content)
			lines++
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read spawn log: %w", err)
		}
	}

	if lines == 0 {
		return nil, fmt.Errorf("%w: no records", ErrInvalidInput)
	}
	if lines%2 != 0 {
		return nil, fmt.Errorf("%w: %d lines, level %d has no wander record",
			ErrInvalidInput, lines, lines/2+1)
	}
	if err := table.Validate(); err != nil {
		return nil, err
	}

	return &Log{
		Header: Header{
			Filename:        sourcePath(name),
			Levels:          table.NumLevels(),
			Lines:           lines,
			MonstersPerLine: float64(total) / float64(lines),
			TotalMonsters:   total,
		},
		Table: table,
	}, nil
}

func addSymbols(counts monster.Counts, content string) monster.Counts {
	for i := 0; i < len(content); i++ {
		if s, ok := monster.FromSymbol(content[i]); ok {
			counts[s]++
		}
	}
	return counts
}

func sourcePath(name string) string {
	if name == "" || name == "-" {
		return ""
	}
	abs, err := filepath.Abs(name)
	if err != nil {
		return name
	}
	return abs
}
