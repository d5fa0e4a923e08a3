package components

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mmcdole/cineverse/internal/tui/styles"
)

// SearchBar is the single-line query input above the movie list.
type SearchBar struct {
	input textinput.Model
	width int
}

func NewSearchBar() SearchBar {
	ti := textinput.New()
	ti.Placeholder = "Search titles..."
	ti.Prompt = "/ "
	ti.PromptStyle = styles.FilterPromptStyle
	ti.TextStyle = styles.FilterStyle
	ti.CharLimit = 100
	return SearchBar{input: ti}
}

// Update routes a message to the input and reports whether the text changed.
func (s SearchBar) Update(msg tea.Msg) (SearchBar, tea.Cmd, bool) {
	before := s.input.Value()
	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd, s.input.Value() != before
}

func (s *SearchBar) Focus() tea.Cmd    { return s.input.Focus() }
func (s *SearchBar) Blur()             { s.input.Blur() }
func (s SearchBar) Focused() bool      { return s.input.Focused() }
func (s SearchBar) Value() string      { return s.input.Value() }
func (s *SearchBar) SetValue(v string) { s.input.SetValue(v) }

func (s *SearchBar) SetWidth(width int) {
	s.width = width
	s.input.Width = max(width-len(s.input.Prompt)-1, 1)
}

func (s SearchBar) View() string {
	if !s.input.Focused() && s.input.Value() == "" {
		return styles.DimStyle.Render("/ search")
	}
	return s.input.View()
}
