package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/mmcdole/cineverse/internal/tui/styles"
)

func (m *Model) updateLayout() {
	if !m.ready {
		return
	}
	bodyHeight := max(m.height-ChromeHeight, 3)
	listWidth := m.width
	if m.showDetails {
		listWidth = m.width * ListColumnPercent / 100
		m.details.SetSize(m.width-listWidth, bodyHeight)
	}
	for _, t := range m.tabs {
		t.list.SetSize(listWidth, bodyHeight)
	}
	m.searchBar.SetWidth(m.width)
}

// View renders the application
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	if m.showHelp {
		return lipgloss.JoinVertical(lipgloss.Left,
			m.renderTabs(),
			m.renderHelp(),
		)
	}

	body := m.current().list.View()
	if m.showDetails {
		body = lipgloss.JoinHorizontal(lipgloss.Top, body, m.details.View())
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderTabs(),
		m.searchBar.View(),
		body,
		m.renderFooter(),
	)
}

func (m Model) renderTabs() string {
	parts := make([]string, 0, len(m.tabs)+1)
	for _, t := range m.tabs {
		style := styles.InactiveTabStyle
		if t.tab == m.active {
			style = styles.ActiveTabStyle
		}
		parts = append(parts, style.Render(t.tab.String()))
	}
	if m.loading {
		frame := styles.SpinnerFrames[m.spinnerFrame%len(styles.SpinnerFrames)]
		parts = append(parts, styles.DimStyle.Render(" "+frame+" loading"))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m Model) renderFooter() string {
	if m.status != "" {
		style := styles.SuccessStyle
		if m.statusIsErr {
			style = styles.ErrorStyle
		}
		return style.Render(styles.Truncate(m.status, m.width))
	}
	return renderBindings(m.keys.ShortHelp(), "  ")
}

func (m Model) renderHelp() string {
	cols := make([]string, 0, 3)
	for _, group := range m.keys.FullHelp() {
		cols = append(cols, lipgloss.NewStyle().PaddingRight(4).Render(renderBindings(group, "\n")))
	}
	return styles.ActiveBorder.Padding(1, 2).Render(
		styles.TitleStyle.Render("Keys") + "\n\n" + lipgloss.JoinHorizontal(lipgloss.Top, cols...),
	)
}

func renderBindings(bindings []key.Binding, sep string) string {
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		parts = append(parts, styles.HelpKeyStyle.Render(h.Key)+" "+styles.HelpDescStyle.Render(h.Desc))
	}
	return strings.Join(parts, sep)
}
