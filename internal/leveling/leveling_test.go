package leveling

import (
	"bytes"
	"strings"
	"testing"
)

func TestThresholds(t *testing.T) {
	levels := Thresholds()

	if len(levels) != 19 {
		t.Fatalf("expected 19 thresholds, got %d", len(levels))
	}
	if levels[0] != 10 {
		t.Errorf("expected first threshold 10, got %d", levels[0])
	}
	if levels[18] != 2621440 {
		t.Errorf("expected last threshold 2621440, got %d", levels[18])
	}
	for i := 1; i < len(levels); i++ {
		if levels[i] != 2*levels[i-1] {
			t.Errorf("threshold %d = %d, want double of %d", i, levels[i], levels[i-1])
		}
	}
}

func TestXPForLevel(t *testing.T) {
	tests := []struct {
		level    int
		expected int64
	}{
		{0, 0},
		{1, 0},
		{2, 10},
		{3, 20},
		{10, 2560},
		{20, 2621440},
		{25, 2621440},
	}

	for _, tt := range tests {
		if got := XPForLevel(tt.level); got != tt.expected {
			t.Errorf("XPForLevel(%d) = %d, want %d", tt.level, got, tt.expected)
		}
	}
}

func TestLevelForXP(t *testing.T) {
	tests := []struct {
		xp       int64
		expected int
	}{
		{0, 1},
		{9, 1},
		{10, 2},
		{19, 2},
		{20, 3},
		{2621439, 19},
		{2621440, 20},
		{1 << 40, 20},
	}

	for _, tt := range tests {
		if got := LevelForXP(tt.xp); got != tt.expected {
			t.Errorf("LevelForXP(%d) = %d, want %d", tt.xp, got, tt.expected)
		}
	}
}

func TestLevelForXP_MatchesXPForLevel(t *testing.T) {
	for level := 1; level <= MaxPlayerLevel; level++ {
		if got := LevelForXP(XPForLevel(level)); got != level {
			t.Errorf("LevelForXP(XPForLevel(%d)) = %d", level, got)
		}
	}
}

func TestCheckLevel(t *testing.T) {
	up := CheckLevel(1, 25)
	if up.NewLevel != 3 || up.Gained() != 2 {
		t.Errorf("expected level 3 with 2 gained, got %+v gained %d", up, up.Gained())
	}

	down := CheckLevel(5, 15)
	if down.NewLevel != 2 || down.Gained() != 0 {
		t.Errorf("expected drain to level 2, got %+v", down)
	}
}

func TestWriteTable(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteTable(&buf); err != nil {
		t.Fatalf("WriteTable failed: %v", err)
	}

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	if len(lines) != 19 {
		t.Fatalf("expected 19 lines, got %d", len(lines))
	}
	if lines[0] != "XP level  2:         10" {
		t.Errorf("unexpected first line %q", lines[0])
	}
	if lines[18] != "XP level 20:    2621440" {
		t.Errorf("unexpected last line %q", lines[18])
	}
}
