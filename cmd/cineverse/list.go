package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"text/tabwriter"

	"github.com/mmcdole/cineverse/internal/domain"
	"github.com/mmcdole/cineverse/internal/library"
	"github.com/mmcdole/cineverse/internal/live"
	"github.com/mmcdole/cineverse/internal/paging"
	"github.com/mmcdole/cineverse/internal/search"
	"github.com/mmcdole/cineverse/internal/tui/styles"
)

// runList fetches the catalog once and prints a single page.
func runList(
	ctx context.Context,
	w io.Writer,
	repo *library.Repository,
	ctrl *search.Controller,
	cfg paging.Config,
	opts options,
	logger *slog.Logger,
) error {
	defer ctrl.Close()

	if err := repo.FetchMovies(ctx); err != nil {
		return err
	}

	var src live.Stream[[]domain.Movie] = repo.ObserveMovies()
	if opts.favorites {
		src = repo.ObserveFavorites()
	}
	// The query is in place before subscribing, so it applies without waiting
	// for the debounce window.
	ctrl.SetQuery(opts.query)
	pager := paging.NewPager(ctrl.ObserveFilteredMovies(src), cfg, logger)

	page, err := pager.Load(ctx, opts.page)
	if err != nil {
		return err
	}
	return printPage(w, page)
}

func printPage(w io.Writer, page paging.Page) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, m := range page.Items {
		marker := " "
		if m.IsFavorite {
			marker = styles.FavoriteChar
		}
		year := ""
		if y := m.Year(); y > 0 {
			year = fmt.Sprint(y)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", marker, m.ID, m.Title, year, styles.FormatRating(m.Rating))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	var nav []string
	if page.PrevKey != nil {
		nav = append(nav, fmt.Sprintf("prev: -page %d", *page.PrevKey))
	}
	if page.NextKey != nil {
		nav = append(nav, fmt.Sprintf("next: -page %d", *page.NextKey))
	}
	if len(page.Items) == 0 {
		nav = append([]string{"no movies on this page"}, nav...)
	}
	if len(nav) > 0 {
		_, err := fmt.Fprintf(w, "\n%s\n", strings.Join(nav, "  "))
		return err
	}
	return nil
}
