package catalog

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"wareg/internal/model"
	"wareg/internal/notify"
	"wareg/internal/pagination"

	"github.com/rs/zerolog"
)

// QueryMode decides how the free-text search combines with the other filters.
type QueryMode string

const (
	// QueryBypass searches the whole catalogue and ignores category and rating.
	// A later category or rating change drops the search.
	QueryBypass QueryMode = "bypass"
	// QueryComposed applies category, rating and search together.
	QueryComposed QueryMode = "composed"
)

// DefaultPageSize is the number of menus shown per page.
const DefaultPageSize = 9

// MenuSource supplies the full menu catalogue.
type MenuSource interface {
	ListMenus(ctx context.Context) ([]model.MenuItem, error)
}

// Options configures a View.
type Options struct {
	SessionID string
	PageSize  int
	QueryMode QueryMode
}

// View is one session's filtered, paginated menu page.
type View struct {
	mu sync.Mutex

	master     []model.MenuItem
	filtered   []model.MenuItem
	categories []string
	rating     *int
	query      string
	loaded     bool
	pager      *pagination.Pager

	fetchOnce sync.Once

	opts   Options
	source MenuSource
	events notify.Publisher
	logger zerolog.Logger
}

// NewView creates an empty view. Nothing is fetched until FetchMenus is called.
func NewView(source MenuSource, events notify.Publisher, opts Options, logger zerolog.Logger) *View {
	if opts.PageSize < 1 {
		opts.PageSize = DefaultPageSize
	}
	if opts.QueryMode == "" {
		opts.QueryMode = QueryBypass
	}
	if events == nil {
		events = notify.Nop
	}

	return &View{
		master:     []model.MenuItem{},
		filtered:   []model.MenuItem{},
		categories: []string{},
		pager:      pagination.NewPager(opts.PageSize),
		opts:       opts,
		source:     source,
		events:     events,
		logger:     logger.With().Str("component", "catalog").Str("session_id", opts.SessionID).Logger(),
	}
}

// FetchMenus loads the catalogue the first time it is called and is a no-op
// afterwards, even if that first attempt failed. A failure leaves the lists empty
// and is returned only to the first caller.
func (v *View) FetchMenus(ctx context.Context) error {
	var err error

	v.fetchOnce.Do(func() {
		var menus []model.MenuItem
		menus, err = v.source.ListMenus(ctx)
		if err != nil {
			v.logger.Error().Err(err).Msg("error fetching menus")
			v.events.Publish(ctx, notify.Event{
				Kind:      notify.KindMenusFetchFailed,
				SessionID: v.opts.SessionID,
				Err:       err,
			})
			err = fmt.Errorf("failed to fetch menus: %w", err)
			return
		}

		if menus == nil {
			menus = []model.MenuItem{}
		}

		v.mu.Lock()
		defer v.mu.Unlock()

		v.master = menus
		v.filtered = menus
		v.loaded = true
		v.pager.Reset()

		v.logger.Debug().Int("count", len(menus)).Msg("menus loaded")
	})

	return err
}

// HandleCategoryChange toggles category in the selection and re-filters.
func (v *View) HandleCategoryChange(category string) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if i := slices.Index(v.categories, category); i >= 0 {
		v.categories = slices.Delete(v.categories, i, i+1)
	} else {
		v.categories = append(v.categories, category)
	}

	v.refilterLocked()
}

// HandleRatingChange sets the rating bucket filter. nil clears it.
func (v *View) HandleRatingChange(rating *int) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if rating != nil {
		r := *rating
		rating = &r
	}
	v.rating = rating

	v.refilterLocked()
}

// HandleFilterByQuery searches menu names and goes back to page 1.
func (v *View) HandleFilterByQuery(query string) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.query = query

	base := v.master
	if v.opts.QueryMode == QueryComposed {
		base = FilterMenus(v.master, v.categories, v.rating)
	}
	v.filtered = MatchQuery(base, query)
	v.pager.Reset()
}

// refilterLocked re-applies category and rating and keeps the page in range.
func (v *View) refilterLocked() {
	filtered := FilterMenus(v.master, v.categories, v.rating)

	if v.opts.QueryMode == QueryComposed {
		filtered = MatchQuery(filtered, v.query)
	} else {
		v.query = ""
	}

	v.filtered = filtered
	v.pager.Clamp(len(v.filtered))
}

// GoToNextPage moves forward one page, stopping on the last.
func (v *View) GoToNextPage() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.pager.Next(len(v.filtered))
}

// GoToPreviousPage moves back one page, stopping on the first.
func (v *View) GoToPreviousPage() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.pager.Previous()
}

// CurrentMenus returns the menus on the current page.
func (v *View) CurrentMenus() []model.MenuItem {
	v.mu.Lock()
	defer v.mu.Unlock()
	return pagination.NewResult(v.filtered, v.pager).Data
}

// Lookup finds a menu in the full catalogue.
func (v *View) Lookup(menuID int) (model.MenuItem, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()

	for _, m := range v.master {
		if m.ID == menuID {
			return m, true
		}
	}
	return model.MenuItem{}, false
}

// Snapshot returns the full state of the page.
func (v *View) Snapshot() model.CatalogView {
	v.mu.Lock()
	defer v.mu.Unlock()

	page := pagination.NewResult(v.filtered, v.pager)

	var rating *int
	if v.rating != nil {
		r := *v.rating
		rating = &r
	}

	return model.CatalogView{
		Menus:              page.Data,
		Page:               page.Page,
		PageSize:           page.PerPage,
		TotalPages:         page.TotalPages,
		TotalCount:         page.TotalCount,
		HasPrev:            page.HasPrev,
		HasNext:            page.HasNext,
		ShowPager:          page.TotalCount > page.PerPage,
		Categories:         slices.Clone(model.KnownCategories),
		SelectedCategories: slices.Clone(v.categories),
		SelectedRating:     rating,
		Query:              v.query,
		QueryMode:          string(v.opts.QueryMode),
		Loaded:             v.loaded,
	}
}
