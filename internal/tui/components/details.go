package components

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/mmcdole/cineverse/internal/domain"
	"github.com/mmcdole/cineverse/internal/tui/styles"
)

// Details shows the full record of one movie. It follows a live
// ObserveMovie stream, so a nil movie means the movie has left the catalog.
type Details struct {
	movie   *domain.Movie
	addedAt time.Time
	width   int
	height  int
}

func NewDetails() Details {
	return Details{}
}

// SetMovie sets the movie to display; nil shows a "no longer available" note.
func (d *Details) SetMovie(m *domain.Movie) {
	d.movie = m
}

// SetAddedAt records when the movie was favorited; zero hides the line.
func (d *Details) SetAddedAt(t time.Time) {
	d.addedAt = t
}

func (d *Details) SetSize(width, height int) {
	d.width = width
	d.height = height
}

func (d Details) View() string {
	style := styles.InactiveBorder
	frameW, frameH := style.GetFrameSize()
	contentWidth := max(d.width-frameW-1, 10)

	return style.
		Width(max(d.width-frameW, 0)).
		Height(max(d.height-frameH, 0)).
		Render(d.render(contentWidth))
}

func (d Details) render(width int) string {
	if d.movie == nil {
		return styles.DimStyle.Render("This movie is no longer in the catalog.")
	}
	m := d.movie

	var lines []string
	title := m.Title
	if m.IsFavorite {
		title = styles.FavoriteChar + " " + title
	}
	lines = append(lines, styles.TitleStyle.Render(styles.Truncate(title, width)))

	var meta []string
	if y := m.Year(); y > 0 {
		meta = append(meta, fmt.Sprint(y))
	}
	if m.Duration != "" {
		meta = append(meta, m.Duration)
	}
	if r := styles.FormatRating(m.Rating); r != "" {
		meta = append(meta, r)
	}
	if len(meta) > 0 {
		lines = append(lines, styles.SubtitleStyle.Render(strings.Join(meta, "  ")))
	}
	if len(m.Genres) > 0 {
		lines = append(lines, styles.AccentStyle.Render(styles.Truncate(strings.Join(m.Genres, ", "), width)))
	}
	lines = append(lines, "")

	if m.Director != "" {
		lines = append(lines, field("Director", m.Director, width))
	}
	if len(m.Cast) > 0 {
		lines = append(lines, field("Cast", strings.Join(m.Cast, ", "), width))
	}
	if !d.addedAt.IsZero() && m.IsFavorite {
		lines = append(lines, field("Favorite since", d.addedAt.Format("2006-01-02"), width))
	}

	if m.Synopsis != "" {
		lines = append(lines, "", lipgloss.NewStyle().Width(width).Foreground(styles.LightGray).Render(m.Synopsis))
	}
	return strings.Join(lines, "\n")
}

func field(label, value string, width int) string {
	prefix := label + ": "
	return styles.DimStyle.Render(prefix) + styles.Truncate(value, width-len(prefix))
}
