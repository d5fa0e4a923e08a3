package styles

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"The Matrix", 20, "The Matrix"},
		{"The Matrix", 10, "The Matrix"},
		{"The Matrix", 8, "The M..."},
		{"The Matrix", 3, "The"},
		{"The Matrix", 0, ""},
		{"Amélie", 5, "Am..."},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Truncate(tt.in, tt.width), "%q/%d", tt.in, tt.width)
	}
}

func TestFormatRating(t *testing.T) {
	assert.Equal(t, "", FormatRating(0))
	assert.Equal(t, "★ 8.7", FormatRating(8.7))
}

func TestRenderListRowWidth(t *testing.T) {
	row := RenderListRow([]RowPart{{Text: "♥"}, {Text: " Inception"}}, true, 30)
	assert.Equal(t, 30, lipgloss.Width(row))
}

func TestApplyTheme(t *testing.T) {
	defer ApplyTheme("")
	ApplyTheme("rose")
	assert.Equal(t, Rose, Accent)
	ApplyTheme("unknown")
	assert.Equal(t, MarqueeGold, Accent)
}
