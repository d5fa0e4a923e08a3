package paging

import (
	"context"
	"slices"

	"github.com/mmcdole/cineverse/internal/domain"
	"github.com/mmcdole/cineverse/internal/live"
)

// Snapshot is the feed's current window. Items is Pages flattened; item i is
// list position i because windows always start at the first page.
// Generation counts upstream lists seen so far.
type Snapshot struct {
	Pages      []Page
	Items      []domain.Movie
	Generation int
}

// HasMore reports whether a further page exists past the loaded ones.
func (s Snapshot) HasMore() bool {
	return len(s.Pages) > 0 && s.Pages[len(s.Pages)-1].NextKey != nil
}

// Feed is an incrementally loaded view that follows its pager's source.
type Feed struct {
	pager   *Pager
	anchor  *live.Subject[int]
	updates *live.Subject[Snapshot]
	done    chan struct{}
}

// Open starts a feed. It runs until ctx is cancelled or the source ends.
func (p *Pager) Open(ctx context.Context) *Feed {
	f := &Feed{
		pager:   p,
		anchor:  live.NewSubject[int](),
		updates: live.NewSubject[Snapshot](),
		done:    make(chan struct{}),
	}
	go f.run(ctx)
	return f
}

// Access records that the consumer is showing item i.
func (f *Feed) Access(i int) {
	f.anchor.Set(i)
}

// Updates streams snapshots. A subscriber first receives the latest one.
func (f *Feed) Updates() live.Stream[Snapshot] {
	return f.updates
}

// Snapshot returns the latest published snapshot.
func (f *Feed) Snapshot() (Snapshot, bool) {
	return f.updates.Value()
}

// Done is closed once the feed has stopped.
func (f *Feed) Done() <-chan struct{} {
	return f.done
}

func (f *Feed) run(ctx context.Context) {
	defer close(f.done)
	defer f.updates.Close()
	defer f.anchor.Close()

	lists := f.pager.source.Subscribe(ctx)
	access := f.anchor.Subscribe(ctx)

	var (
		list   []domain.Movie
		loaded bool
		pages  []Page
		anchor *int
		gen    int
	)
	for {
		select {
		case <-ctx.Done():
			return
		case l, ok := <-lists:
			if !ok {
				return
			}
			list, loaded = l, true
			gen++
			pages = f.reload(list, pages, anchor)
			pages = f.prefetch(list, pages, anchor)
			f.publish(pages, gen)
		case i, ok := <-access:
			if !ok {
				return
			}
			anchor = &i
			if !loaded {
				continue
			}
			if next := f.prefetch(list, pages, anchor); len(next) != len(pages) {
				pages = next
				f.publish(pages, gen)
			}
		}
	}
}

// reload rebuilds the window over a new list. It covers the page the anchor
// maps to and at least as many pages as were loaded before.
func (f *Feed) reload(list []domain.Movie, prev []Page, anchor *int) []Page {
	last := InitialKey
	if key, ok := RefreshKey(State{Pages: prev, Anchor: anchor}); ok {
		last = key
	}
	if n := len(prev); n > 0 && prev[n-1].Key > last {
		last = prev[n-1].Key
	}
	if size := f.pager.cfg.PageSize; len(list) > 0 {
		last = min(last, (len(list)-1)/size)
	} else {
		last = InitialKey
	}

	pages := make([]Page, 0, last+1)
	for key := InitialKey; key <= last; key++ {
		page := f.pager.Slice(key, list)
		pages = append(pages, page)
		if page.NextKey == nil {
			break
		}
	}
	f.pager.logger.Debug("feed reloaded", "items", len(list), "pages", len(pages))
	return pages
}

// prefetch appends the next page when the anchor is within PrefetchDistance
// of the end of the loaded items.
func (f *Feed) prefetch(list []domain.Movie, pages []Page, anchor *int) []Page {
	if anchor == nil || len(pages) == 0 {
		return pages
	}
	tail := pages[len(pages)-1]
	if tail.NextKey == nil {
		return pages
	}
	if *anchor < countItems(pages)-f.pager.cfg.PrefetchDistance {
		return pages
	}
	return append(slices.Clip(pages), f.pager.Slice(*tail.NextKey, list))
}

func (f *Feed) publish(pages []Page, gen int) {
	items := make([]domain.Movie, 0, countItems(pages))
	for _, p := range pages {
		items = append(items, p.Items...)
	}
	f.updates.Set(Snapshot{Pages: slices.Clone(pages), Items: items, Generation: gen})
}

func countItems(pages []Page) int {
	n := 0
	for _, p := range pages {
		n += len(p.Items)
	}
	return n
}
