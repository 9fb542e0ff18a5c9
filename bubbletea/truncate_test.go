package bubbletea_test

import (
	"testing"

	bt "github.com/ggnexus/nexus/bubbletea"
	"github.com/mattn/go-runewidth"
	"github.com/stretchr/testify/assert"
)

func TestTruncate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		in    string
		width int
		want  string
	}{
		{"fits unchanged", "short", 10, "short"},
		{"exact width unchanged", "12345", 5, "12345"},
		{"cut with ellipsis", "a very long session title", 10, "a very lo…"},
		{"zero width", "anything", 0, ""},
		{"empty input", "", 5, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, bt.Truncate(tt.in, tt.width))
		})
	}
}

func TestTruncate_WideRunes(t *testing.T) {
	t.Parallel()
	// CJK characters occupy two cells; the result must never exceed
	// the width budget.
	got := bt.Truncate("新しいゲームを探している", 8)
	assert.LessOrEqual(t, runewidth.StringWidth(got), 8)
	assert.Contains(t, got, "…")
}

func TestTruncate_GraphemeClusters(t *testing.T) {
	t.Parallel()
	// Flag emoji are multi-rune clusters; a cut must not split one.
	got := bt.Truncate("🇵🇱🇵🇱🇵🇱 team", 5)
	assert.LessOrEqual(t, runewidth.StringWidth(got), 5)
}
