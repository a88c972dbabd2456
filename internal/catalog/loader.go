package catalog

import (
	"context"
	"errors"
	"log"
	"sync"

	"cravecart/internal/domain"
	"cravecart/internal/upstream"
)

const (
	pageSize = 10

	// Top-dish sampling stops once this many cuisines are collected or the
	// page ceiling is hit, then one filtered slice is unioned in.
	sampleTarget    = 20
	samplePageLimit = 5
	minSampleRating = 4.8
)

// Fetcher is the remote catalog the loader paginates over.
type Fetcher interface {
	GetItemList(ctx context.Context, page, count int) ([]domain.Cuisine, error)
	GetItemsByFilter(ctx context.Context, minRating float64) ([]domain.Cuisine, error)
}

// Loader owns one browsing session's catalog state: the merged cuisine list,
// the pagination cursor and the top-dishes view. A new load supersedes and
// cancels any in-flight one; a superseded load's results are discarded.
type Loader struct {
	fetcher Fetcher

	mu        sync.Mutex
	cuisines  []domain.Cuisine
	topDishes []domain.MenuItem
	nextPage  int
	hasMore   bool
	loadedTop bool
	cancel    context.CancelFunc
}

func NewLoader(fetcher Fetcher) *Loader {
	return &Loader{
		fetcher:  fetcher,
		nextPage: 1,
		hasMore:  true,
	}
}

func (l *Loader) Cuisines() []domain.Cuisine {
	l.mu.Lock()
	defer l.mu.Unlock()

	cuisines := make([]domain.Cuisine, len(l.cuisines))
	copy(cuisines, l.cuisines)
	return cuisines
}

func (l *Loader) TopDishes() []domain.MenuItem {
	l.mu.Lock()
	defer l.mu.Unlock()

	dishes := make([]domain.MenuItem, len(l.topDishes))
	copy(dishes, l.topDishes)
	return dishes
}

func (l *Loader) HasMore() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.hasMore
}

// Reset drops all session state, e.g. after a language switch.
func (l *Loader) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}
	l.cuisines = nil
	l.topDishes = nil
	l.nextPage = 1
	l.hasMore = true
	l.loadedTop = false
}

// Refresh resets the session and loads the first page again.
func (l *Loader) Refresh(ctx context.Context) error {
	l.Reset()
	return l.LoadMore(ctx)
}

// LoadMore fetches the next catalog page and merges it in. Pages are fetched
// one at a time so dedup order stays deterministic. An ErrNoCuisines on an
// already-populated catalog just ends pagination.
func (l *Loader) LoadMore(ctx context.Context) error {
	l.mu.Lock()
	if !l.hasMore {
		l.mu.Unlock()
		return nil
	}
	if l.cancel != nil {
		l.cancel()
	}
	ctx, cancel := context.WithCancel(ctx)
	l.cancel = cancel
	page := l.nextPage
	populated := len(l.cuisines) > 0
	l.mu.Unlock()

	log.Printf("catalog: fetching page %d", page)
	incoming, err := l.fetcher.GetItemList(ctx, page, pageSize)
	if err != nil {
		if errors.Is(err, upstream.ErrNoCuisines) && populated {
			l.mu.Lock()
			l.hasMore = false
			l.mu.Unlock()
			return nil
		}
		return err
	}
	if ctx.Err() != nil {
		// Superseded by a newer load; drop the result.
		return ctx.Err()
	}

	l.mu.Lock()
	merged, anyNew := MergePage(l.cuisines, incoming)
	l.cuisines = merged
	if anyNew {
		l.nextPage++
	} else {
		l.hasMore = false
	}
	needTop := anyNew && !l.loadedTop
	l.mu.Unlock()

	if needTop {
		l.loadTopDishes(ctx)
	}
	return nil
}

// loadTopDishes builds the sample per the heuristic: sequential pages until
// sampleTarget cuisines or samplePageLimit pages, plus one high-rating
// filtered slice, deduped by cuisine id. The already-loaded cuisines serve
// as the fallback when sampling yields nothing.
func (l *Loader) loadTopDishes(ctx context.Context) {
	var sample []domain.Cuisine

	for page := 1; page <= samplePageLimit; page++ {
		cuisines, err := l.fetcher.GetItemList(ctx, page, pageSize)
		if err != nil {
			log.Printf("catalog: top-dish sample page %d failed: %v", page, err)
			break
		}
		sample = append(sample, cuisines...)
		if len(sample) >= sampleTarget {
			break
		}
	}

	if filtered, err := l.fetcher.GetItemsByFilter(ctx, minSampleRating); err == nil {
		sample = append(sample, filtered...)
	} else {
		log.Printf("catalog: filtered sample skipped: %v", err)
	}

	if ctx.Err() != nil {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	sample = append(sample, l.cuisines...)
	top := TopDishes(DedupCuisines(sample), l.cuisines)
	if len(top) == 0 {
		log.Printf("catalog: no top dishes found")
		return
	}
	l.topDishes = top
	l.loadedTop = true
}
