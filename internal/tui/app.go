package tui

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mmcdole/cineverse/internal/domain"
	"github.com/mmcdole/cineverse/internal/library"
	"github.com/mmcdole/cineverse/internal/live"
	"github.com/mmcdole/cineverse/internal/paging"
	"github.com/mmcdole/cineverse/internal/search"
	"github.com/mmcdole/cineverse/internal/tui/components"
)

// Tab selects which movie list is shown.
type Tab int

const (
	TabAll Tab = iota
	TabFavorites
)

func (t Tab) String() string {
	if t == TabFavorites {
		return "Favorites"
	}
	return "All Movies"
}

// Layout proportions
const (
	ListColumnPercent = 55
	ChromeHeight      = 3 // tabs, search bar, footer
	statusTTL         = 4 * time.Second
	tickInterval      = 100 * time.Millisecond
)

// Options carries the dependencies of the terminal client.
type Options struct {
	Repo *library.Repository

	// NewSearch creates one search controller per tab.
	NewSearch func() *search.Controller

	Paging      paging.Config
	ShowRatings bool

	// AddedAt optionally reports when a movie was favorited.
	AddedAt func(id string) (time.Time, bool)

	Logger *slog.Logger
}

// tabView is one list with its own query and feed.
type tabView struct {
	tab     Tab
	search  *search.Controller
	feed    *paging.Feed
	updates <-chan paging.Snapshot
	list    *components.MovieList
}

// Model is the main Bubble Tea model for the application
type Model struct {
	ctx     context.Context
	repo    *library.Repository
	addedAt func(id string) (time.Time, bool)
	logger  *slog.Logger
	keys    KeyMap

	tabs   []*tabView
	active Tab

	searchBar components.SearchBar

	// Details pane follows a live ObserveMovie subscription
	details      components.Details
	showDetails  bool
	detailSeq    int
	detailCh     <-chan *domain.Movie
	detailCancel context.CancelFunc

	showHelp bool

	// Dimensions
	width  int
	height int
	ready  bool

	// UI state
	status       string
	statusIsErr  bool
	statusSeq    int
	loading      bool
	spinnerFrame int
}

// NewModel wires one feed per tab. Feeds and subscriptions live until ctx
// is cancelled.
func NewModel(ctx context.Context, opts Options) Model {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	newSearch := opts.NewSearch
	if newSearch == nil {
		newSearch = func() *search.Controller { return search.NewController(nil, 0, logger) }
	}

	sources := []live.Stream[[]domain.Movie]{
		TabAll:       opts.Repo.ObserveMovies(),
		TabFavorites: opts.Repo.ObserveFavorites(),
	}

	tabs := make([]*tabView, len(sources))
	for i, src := range sources {
		t := Tab(i)
		ctrl := newSearch()
		pager := paging.NewPager(ctrl.ObserveFilteredMovies(src), opts.Paging, logger)
		feed := pager.Open(ctx)
		list := components.NewMovieList(t.String(), opts.ShowRatings)
		if t == TabFavorites {
			list.SetEmptyText("No favorites yet. Press f on a movie to add it.")
		}
		tabs[i] = &tabView{
			tab:     t,
			search:  ctrl,
			feed:    feed,
			updates: feed.Updates().Subscribe(ctx),
			list:    list,
		}
	}
	tabs[TabAll].list.SetFocused(true)

	return Model{
		ctx:       ctx,
		repo:      opts.Repo,
		addedAt:   opts.AddedAt,
		logger:    logger,
		keys:      DefaultKeyMap(),
		tabs:      tabs,
		active:    TabAll,
		searchBar: components.NewSearchBar(),
		details:   components.NewDetails(),
		loading:   true,
	}
}

// Init initializes the application
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		FetchMoviesCmd(m.repo, false),
		TickCmd(tickInterval),
	}
	for _, t := range m.tabs {
		cmds = append(cmds, listenSnapshotsCmd(t.tab, t.updates))
	}
	return tea.Batch(cmds...)
}

// Update handles all messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.updateLayout()
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case TickMsg:
		// The spinner only ticks while a fetch is in flight
		if !m.loading {
			return m, nil
		}
		m.spinnerFrame++
		return m, TickCmd(tickInterval)

	case SnapshotMsg:
		t := m.tabs[msg.Tab]
		t.list.SetItems(msg.Snapshot.Items, msg.Snapshot.HasMore())
		return m, listenSnapshotsCmd(t.tab, t.updates)

	case FeedClosedMsg:
		m.logger.Debug("feed closed", "tab", msg.Tab.String())
		return m, nil

	case FetchDoneMsg:
		m.loading = false
		if msg.Err != nil {
			cmd := m.setStatus(ErrMsg{Err: msg.Err, Context: "loading movies"}.Error(), true)
			return m, cmd
		}
		cmd := m.setStatus(fmt.Sprintf("Loaded %d movies", msg.Count), false)
		return m, cmd

	case FavoriteToggledMsg:
		if msg.Err != nil {
			cmd := m.setStatus(ErrMsg{Err: msg.Err, Context: "updating favorites"}.Error(), true)
			return m, cmd
		}
		cmd := m.setStatus("Updated favorites: "+msg.Title, false)
		return m, cmd

	case MovieDetailMsg:
		if !m.showDetails || msg.Seq != m.detailSeq {
			return m, nil
		}
		m.details.SetMovie(msg.Movie)
		m.details.SetAddedAt(m.favoriteSince(msg.Movie))
		return m, listenMovieCmd(m.detailSeq, m.detailCh)

	case ClearStatusMsg:
		if msg.Seq == m.statusSeq {
			m.status = ""
			m.statusIsErr = false
		}
		return m, nil
	}

	return m, nil
}

func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m.quit()
	}

	if m.showHelp {
		m.showHelp = false
		return m, nil
	}

	if m.searchBar.Focused() {
		return m.handleSearchKey(msg)
	}

	t := m.current()
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.quit()

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.Search):
		cmd := m.searchBar.Focus()
		return m, cmd

	case key.Matches(msg, m.keys.NextTab):
		m.switchTab()
		return m, nil

	case key.Matches(msg, m.keys.Up):
		return m.moveCursor(t.list.Move(-1))
	case key.Matches(msg, m.keys.Down):
		return m.moveCursor(t.list.Move(1))
	case key.Matches(msg, m.keys.HalfUp):
		return m.moveCursor(t.list.Move(-t.list.PageStep()))
	case key.Matches(msg, m.keys.HalfDown):
		return m.moveCursor(t.list.Move(t.list.PageStep()))
	case key.Matches(msg, m.keys.Home):
		return m.moveCursor(t.list.MoveTo(0))
	case key.Matches(msg, m.keys.End):
		return m.moveCursor(t.list.MoveTo(t.list.Len() - 1))

	case key.Matches(msg, m.keys.Details):
		cmd := m.openDetails()
		return m, cmd

	case key.Matches(msg, m.keys.Back):
		if m.showDetails {
			m.closeDetails()
			return m, nil
		}
		if t.search.Query() != "" {
			t.search.SetQuery("")
			m.searchBar.SetValue("")
		}
		return m, nil

	case key.Matches(msg, m.keys.Favorite):
		movie, ok := t.list.Selected()
		if !ok {
			return m, nil
		}
		return m, ToggleFavoriteCmd(m.repo, movie)

	case key.Matches(msg, m.keys.Refresh):
		if m.loading {
			return m, FetchMoviesCmd(m.repo, true)
		}
		m.loading = true
		return m, tea.Batch(FetchMoviesCmd(m.repo, true), TickCmd(tickInterval))
	}

	return m, nil
}

func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	t := m.current()
	switch msg.Type {
	case tea.KeyEsc:
		m.searchBar.SetValue("")
		m.searchBar.Blur()
		t.search.SetQuery("")
		return m, nil
	case tea.KeyEnter, tea.KeyDown, tea.KeyTab:
		m.searchBar.Blur()
		return m, nil
	}

	var (
		cmd     tea.Cmd
		changed bool
	)
	m.searchBar, cmd, changed = m.searchBar.Update(msg)
	if changed {
		t.search.SetQuery(m.searchBar.Value())
	}
	return m, cmd
}

// moveCursor reports the new position to the feed so it can prefetch, and
// retargets the details pane when it is open.
func (m Model) moveCursor(moved bool) (tea.Model, tea.Cmd) {
	if !moved {
		return m, nil
	}
	t := m.current()
	t.feed.Access(t.list.Cursor())
	if m.showDetails {
		cmd := m.openDetails()
		return m, cmd
	}
	return m, nil
}

func (m *Model) switchTab() {
	m.closeDetails()
	m.current().list.SetFocused(false)
	m.active = (m.active + 1) % Tab(len(m.tabs))
	t := m.current()
	t.list.SetFocused(true)
	m.searchBar.SetValue(t.search.Query())
}

func (m *Model) openDetails() tea.Cmd {
	movie, ok := m.current().list.Selected()
	if !ok {
		return nil
	}
	m.closeDetails()

	ctx, cancel := context.WithCancel(m.ctx)
	m.detailCancel = cancel
	m.detailSeq++
	m.detailCh = m.repo.ObserveMovie(movie.ID).Subscribe(ctx)
	m.showDetails = true
	m.details.SetMovie(&movie)
	m.details.SetAddedAt(m.favoriteSince(&movie))
	m.updateLayout()
	return listenMovieCmd(m.detailSeq, m.detailCh)
}

func (m *Model) closeDetails() {
	if m.detailCancel != nil {
		m.detailCancel()
		m.detailCancel = nil
	}
	if m.showDetails {
		m.showDetails = false
		m.updateLayout()
	}
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	m.closeDetails()
	for _, t := range m.tabs {
		t.search.Close()
	}
	return m, tea.Quit
}

func (m Model) current() *tabView {
	return m.tabs[m.active]
}

func (m Model) favoriteSince(movie *domain.Movie) time.Time {
	if m.addedAt == nil || movie == nil || !movie.IsFavorite {
		return time.Time{}
	}
	at, _ := m.addedAt(movie.ID)
	return at
}

func (m *Model) setStatus(text string, isErr bool) tea.Cmd {
	m.statusSeq++
	m.status = text
	m.statusIsErr = isErr
	return ClearStatusCmd(m.statusSeq, statusTTL)
}
