package spawnlog

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lawnchairsociety/roguestats/internal/monster"
)

func TestParse_SingleLevel(t *testing.T) {
	log, err := Parse(strings.NewReader("AA\nB\n"), "")
	require.NoError(t, err)

	lvl, wander := log.Table.Level(1)
	assert.Equal(t, 2, lvl[0])
	assert.Equal(t, 0, lvl[1])
	assert.Equal(t, 1, wander[1])
	assert.Equal(t, 1, log.Table.NumLevels())

	assert.Equal(t, "", log.Header.Filename)
	assert.Equal(t, 2, log.Header.Lines)
	assert.Equal(t, 1, log.Header.Levels)
	assert.Equal(t, 3, log.Header.TotalMonsters)
	assert.InDelta(t, 1.5, log.Header.MonstersPerLine, 1e-9)
}

func TestParse_MultipleLevels(t *testing.T) {
	input := "KKB\nKE\nBHI\nZZ\nDDD\nJ\n"
	log, err := Parse(strings.NewReader(input), "")
	require.NoError(t, err)

	assert.Equal(t, []int{1, 2, 3}, log.Table.Levels())

	lvl, wander := log.Table.Level(1)
	k, _ := monster.FromSymbol('K')
	e, _ := monster.FromSymbol('E')
	assert.Equal(t, 2, lvl[k])
	assert.Equal(t, 1, wander[k])
	assert.Equal(t, 1, wander[e])

	lvl, wander = log.Table.Level(3)
	assert.Equal(t, 3, lvl[3])
	assert.Equal(t, 1, wander[9])
	assert.Equal(t, 14, log.Header.TotalMonsters)
	assert.Equal(t, 3, log.Header.Levels)
	assert.Equal(t, 6, log.Header.Lines)
	assert.InDelta(t, 14.0/6.0, log.Header.MonstersPerLine, 1e-9)
}

func TestParse_IgnoresNonMonsterCharacters(t *testing.T) {
	log, err := Parse(strings.NewReader("A a.A\r\n\n"), "")
	require.NoError(t, err)

	lvl, wander := log.Table.Level(1)
	assert.Equal(t, 2, lvl[0])
	assert.Equal(t, 2, lvl.Total())
	assert.Equal(t, 0, wander.Total())
	// The carriage return is line ending, not content.
	assert.Equal(t, 5, log.Header.TotalMonsters)
}

func TestParse_EmptyLinesStillCreateLevels(t *testing.T) {
	log, err := Parse(strings.NewReader("\n\nA\n\n"), "")
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, log.Table.Levels())
	assert.Equal(t, 1, log.Header.TotalMonsters)
	assert.Equal(t, 4, log.Header.Lines)
}

func TestParse_MissingFinalNewline(t *testing.T) {
	log, err := Parse(strings.NewReader("A\nB"), "")
	require.NoError(t, err)
	_, wander := log.Table.Level(1)
	assert.Equal(t, 1, wander[1])
	assert.Equal(t, 2, log.Header.Lines)
}

func TestParse_OddLineCount(t *testing.T) {
	_, err := Parse(strings.NewReader("AA\nB\nC\n"), "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidInput))
	assert.Contains(t, err.Error(), "level 2")
}

func TestParse_EmptyInput(t *testing.T) {
	_, err := Parse(strings.NewReader(""), "")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestParse_ReadError(t *testing.T) {
	_, err := Parse(iotest.ErrReader(errors.New("boom")), "")
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrInvalidInput))
	assert.Contains(t, err.Error(), "boom")
}

func TestParse_LongLines(t *testing.T) {
	long := strings.Repeat("Z", 200000)
	log, err := Parse(strings.NewReader(long+"\n"+long+"\n"), "")
	require.NoError(t, err)
	lvl, _ := log.Table.Level(1)
	assert.Equal(t, 200000, lvl[25])
}

func TestParse_FilenameIsAbsolute(t *testing.T) {
	log, err := Parse(strings.NewReader("A\nB\n"), "monsters.txt")
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(log.Header.Filename))
	assert.Equal(t, "monsters.txt", filepath.Base(log.Header.Filename))

	log, err = Parse(strings.NewReader("A\nB\n"), "-")
	require.NoError(t, err)
	assert.Equal(t, "", log.Header.Filename)
}

func TestTableValidate(t *testing.T) {
	tests := []struct {
		name    string
		level   []int
		wander  []int
		wantErr bool
	}{
		{"matching", []int{1, 2}, []int{1, 2}, false},
		{"empty", nil, nil, false},
		{"missing wander", []int{1, 2}, []int{1}, true},
		{"different keys", []int{1, 2}, []int{1, 3}, true},
		{"gap", []int{1, 3}, []int{1, 3}, true},
		{"zero based", []int{0, 1}, []int{0, 1}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table := NewTable()
			for _, l := range tt.level {
				table.LevelSpawns[l] = monster.Counts{}
			}
			for _, l := range tt.wander {
				table.WanderSpawns[l] = monster.Counts{}
			}
			err := table.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidInput)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestTableEqual(t *testing.T) {
	a, err := Parse(strings.NewReader("AB\nC\n"), "")
	require.NoError(t, err)
	b, err := Parse(strings.NewReader("BA\nC\n"), "")
	require.NoError(t, err)
	c, err := Parse(strings.NewReader("AB\nD\n"), "")
	require.NoError(t, err)

	assert.True(t, a.Table.Equal(b.Table))
	assert.False(t, a.Table.Equal(c.Table))
}
