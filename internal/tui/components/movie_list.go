package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mmcdole/cineverse/internal/domain"
	"github.com/mmcdole/cineverse/internal/tui/styles"
)

// Layout constants shared by bordered panels
const (
	BorderWidth          = 2
	BorderHeight         = 2
	ScrollIndicatorLines = 2
)

// MovieList is a scrollable list of the movies a feed has loaded so far.
type MovieList struct {
	title       string
	movies      []domain.Movie
	hasMore     bool
	cursor      int
	offset      int
	width       int
	height      int
	maxVisible  int
	focused     bool
	showRatings bool
	emptyText   string
}

func NewMovieList(title string, showRatings bool) *MovieList {
	return &MovieList{title: title, showRatings: showRatings, emptyText: "No movies"}
}

// SetItems replaces the loaded movies. The cursor keeps its index, clamped
// to the new length.
func (l *MovieList) SetItems(movies []domain.Movie, hasMore bool) {
	l.movies = movies
	l.hasMore = hasMore
	if l.cursor >= len(movies) {
		l.cursor = max(len(movies)-1, 0)
	}
	l.ensureVisible()
}

func (l *MovieList) SetEmptyText(text string) { l.emptyText = text }

func (l *MovieList) SetSize(width, height int) {
	l.width = width
	l.height = height
	l.maxVisible = max(height-BorderHeight-ScrollIndicatorLines-1, 1)
	l.ensureVisible()
}

func (l *MovieList) SetFocused(focused bool) { l.focused = focused }

func (l *MovieList) Len() int    { return len(l.movies) }
func (l *MovieList) Cursor() int { return l.cursor }

// PageStep is the distance moved by half-page navigation.
func (l *MovieList) PageStep() int { return max(l.maxVisible/2, 1) }

// Selected returns the movie under the cursor.
func (l *MovieList) Selected() (domain.Movie, bool) {
	if l.cursor < 0 || l.cursor >= len(l.movies) {
		return domain.Movie{}, false
	}
	return l.movies[l.cursor], true
}

// Move shifts the cursor by delta, clamped to the loaded items, and reports
// whether it changed.
func (l *MovieList) Move(delta int) bool {
	return l.MoveTo(l.cursor + delta)
}

// MoveTo places the cursor at i, clamped to the loaded items.
func (l *MovieList) MoveTo(i int) bool {
	if len(l.movies) == 0 {
		return false
	}
	i = max(0, min(i, len(l.movies)-1))
	if i == l.cursor {
		return false
	}
	l.cursor = i
	l.ensureVisible()
	return true
}

func (l *MovieList) ensureVisible() {
	if l.maxVisible <= 0 {
		return
	}
	if l.cursor < l.offset {
		l.offset = l.cursor
	}
	if l.cursor >= l.offset+l.maxVisible {
		l.offset = l.cursor - l.maxVisible + 1
	}
}

func (l *MovieList) View() string {
	style := styles.InactiveBorder
	if l.focused {
		style = styles.ActiveBorder
	}
	frameW, frameH := style.GetFrameSize()
	return style.
		Width(max(l.width-frameW, 0)).
		Height(max(l.height-frameH, 0)).
		Render(l.renderContent())
}

func (l *MovieList) renderContent() string {
	itemWidth := max(l.width-BorderWidth, 10)

	title := l.title
	if n := len(l.movies); n > 0 {
		title = fmt.Sprintf("%s (%d%s)", l.title, n, moreSuffix(l.hasMore))
	}
	titleLine := styles.AccentStyle.Render(styles.Truncate(title, itemWidth))

	if len(l.movies) == 0 {
		return titleLine + "\n \n" + styles.DimStyle.Render(l.emptyText) + "\n "
	}

	end := min(l.offset+l.maxVisible, len(l.movies))
	lines := make([]string, 0, end-l.offset)
	for i := l.offset; i < end; i++ {
		lines = append(lines, l.renderMovie(l.movies[i], i == l.cursor, itemWidth))
	}

	// Always reserve the indicator lines so the layout doesn't shift
	header := " "
	if l.offset > 0 {
		header = styles.DimStyle.Render("↑ more")
	}
	footer := " "
	if end < len(l.movies) || l.hasMore {
		footer = styles.DimStyle.Render("↓ more")
	}

	return titleLine + "\n" + header + "\n" + strings.Join(lines, "\n") + "\n" + footer
}

func (l *MovieList) renderMovie(m domain.Movie, selected bool, width int) string {
	marker, markerFg := styles.NotFavoriteChar, styles.DimGray
	if m.IsFavorite {
		marker, markerFg = styles.FavoriteChar, styles.Rose
	}

	rating := ""
	if l.showRatings {
		rating = styles.FormatRating(m.Rating)
	}

	title := m.Title
	if y := m.Year(); y > 0 {
		title = fmt.Sprintf("%s (%d)", m.Title, y)
	}
	// marker, space, margins and a gap before the rating
	avail := max(width-4-lipgloss.Width(rating)-1, 5)
	title = styles.Truncate(title, avail)

	parts := []styles.RowPart{
		{Text: marker, Foreground: &markerFg},
		{Text: " " + title},
	}
	if rating != "" {
		gap := max(width-2-lipgloss.Width(marker)-1-lipgloss.Width(title)-lipgloss.Width(rating), 1)
		ratingFg := styles.Accent
		parts = append(parts,
			styles.RowPart{Text: strings.Repeat(" ", gap)},
			styles.RowPart{Text: rating, Foreground: &ratingFg},
		)
	}
	return styles.RenderListRow(parts, selected, width)
}

func moreSuffix(hasMore bool) string {
	if hasMore {
		return "+"
	}
	return ""
}
