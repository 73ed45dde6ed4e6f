package tui

import (
	"testing"
	"unicode/utf8"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
)

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "exact", truncate("exact", 5))
	assert.Equal(t, "a long ...", truncate("a long message preview", 10))
	assert.Equal(t, "ab", truncate("abcdef", 2))

	// multibyte runes must never be split mid-sequence
	assert.Equal(t, "ééé", truncate("ééééé ça va bien", 3))
	assert.Equal(t, "ééé...", truncate("ééééé ça va bien", 6))
	for _, width := range []int{1, 2, 3, 4, 5, 6, 7} {
		got := truncate("🙂🙂 ça va 🙂", width)
		assert.True(t, utf8.ValidString(got))
		assert.LessOrEqual(t, ansi.StringWidth(got), width)
	}
}
