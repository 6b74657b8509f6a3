package roguemonsters

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lawnchairsociety/roguestats/internal/spawnlog"
	"github.com/lawnchairsociety/roguestats/internal/stats"
)

func TestRNG_Sequence(t *testing.T) {
	r := NewRNG(1)
	assert.Equal(t, int64(125), r.Ran())
	assert.Equal(t, int64(15625), r.Ran())
	assert.Equal(t, int64(1953125), r.Ran())
	assert.Equal(t, int64(870964), r.Ran())
}

func TestRNG_Rnd(t *testing.T) {
	r := NewRNG(1)
	assert.Equal(t, 0, r.Rnd(10))
	assert.Equal(t, 9, r.Rnd(10))
	assert.Equal(t, 0, r.Rnd(0))
	assert.Equal(t, 0, r.Rnd(-3))

	// A zero seed would stick at zero forever.
	assert.NotZero(t, NewRNG(0).Ran())

	r = NewRNG(42)
	for i := 0; i < 1000; i++ {
		n := r.Rnd(7)
		require.GreaterOrEqual(t, n, 0)
		require.Less(t, n, 7)
	}
}

func TestRandMonster_Tables(t *testing.T) {
	r := NewRNG(7)
	for level := 1; level <= 40; level++ {
		for i := 0; i < 200; i++ {
			c := r.RandMonster(level, false)
			require.NotEqual(t, byte(' '), c)
			require.Contains(t, LevelMonsters, string(c))

			c = r.RandMonster(level, true)
			require.NotEqual(t, byte(' '), c)
			require.Contains(t, WanderMonsters, string(c))
		}
	}
}

func TestRandMonster_ShallowLevelsStayWeak(t *testing.T) {
	r := NewRNG(99)
	// Level 1 never goes past the fifth table entry.
	for i := 0; i < 500; i++ {
		c := r.RandMonster(1, false)
		assert.Contains(t, LevelMonsters[:5], string(c))
	}
}

func TestGenerate_Layout(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Generate(&buf, Options{Monsters: 12, Levels: 5, Seed: 3}))

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 10)
	for _, line := range lines {
		assert.Len(t, line, 12)
	}
}

func TestGenerate_Deterministic(t *testing.T) {
	var a, b, c bytes.Buffer
	require.NoError(t, Generate(&a, Options{Monsters: 50, Levels: 10, Seed: 1234}))
	require.NoError(t, Generate(&b, Options{Monsters: 50, Levels: 10, Seed: 1234}))
	require.NoError(t, Generate(&c, Options{Monsters: 50, Levels: 10, Seed: 4321}))

	assert.Equal(t, a.String(), b.String())
	assert.NotEqual(t, a.String(), c.String())
}

func TestGenerate_InvalidOptions(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, Generate(&buf, Options{Monsters: 0, Levels: 1}))
	assert.Error(t, Generate(&buf, Options{Monsters: 1, Levels: -1}))
	assert.Zero(t, buf.Len())
}

func TestGenerate_ParsesAsSpawnLog(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Generate(&buf, Options{Monsters: DefaultMonsters, Levels: DefaultLevels, Seed: 5}))

	log, err := spawnlog.Parse(&buf, "")
	require.NoError(t, err)
	assert.Equal(t, DefaultLevels, log.Header.Levels)
	assert.Equal(t, 2*DefaultLevels, log.Header.Lines)
	assert.Equal(t, DefaultMonsters*2*DefaultLevels, log.Header.TotalMonsters)

	d := stats.Aggregate(log.Table, stats.DefaultWeights())
	for i, shares := range d.Levels {
		assert.InDelta(t, 100.0, shares.Total(), 1e-9, "level %d", i+1)
	}
}
