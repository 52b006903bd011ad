package client

import (
	"context"
	"sync"
	"time"
)

// DefaultDebounce is how long the controller waits after the last
// search keystroke before issuing a request.
const DefaultDebounce = 500 * time.Millisecond

// ListController drives a paginated, searchable list view over a
// ResourceClient. Pages are 0-indexed here and translated to the
// 1-indexed wire format on fetch. Search input is debounced so a burst
// of keystrokes produces a single request.
type ListController[T any] struct {
	mu       sync.Mutex
	client   *ResourceClient[T]
	debounce time.Duration
	timer    *time.Timer

	page   int
	limit  int
	search string
	status string

	items   []T
	total   int
	loading bool
	err     error

	// OnUpdate fires after every completed fetch, including failed
	// ones. Optional.
	OnUpdate func()
}

func NewListController[T any](client *ResourceClient[T], limit int) *ListController[T] {
	if limit <= 0 {
		limit = 10
	}
	return &ListController[T]{
		client:   client,
		debounce: DefaultDebounce,
		limit:    limit,
	}
}

// Load fetches the current page immediately, bypassing the debounce.
func (lc *ListController[T]) Load(ctx context.Context) error {
	lc.mu.Lock()
	q := lc.query()
	lc.mu.Unlock()
	return lc.fetch(ctx, q)
}

// SetPage moves to a 0-indexed page and fetches it immediately.
func (lc *ListController[T]) SetPage(ctx context.Context, page int) error {
	lc.mu.Lock()
	if page < 0 {
		page = 0
	}
	lc.page = page
	q := lc.query()
	lc.mu.Unlock()
	return lc.fetch(ctx, q)
}

// SetSearch updates the search term, resets to the first page and
// schedules a debounced fetch. Rapid successive calls collapse into
// one request.
func (lc *ListController[T]) SetSearch(ctx context.Context, search string) {
	lc.mu.Lock()
	lc.search = search
	lc.page = 0
	lc.scheduleLocked(ctx)
	lc.mu.Unlock()
}

// SetStatusFilter updates the status filter, resets to the first page
// and fetches immediately. Only search input is debounced.
func (lc *ListController[T]) SetStatusFilter(ctx context.Context, status string) error {
	lc.mu.Lock()
	lc.status = status
	lc.page = 0
	q := lc.query()
	lc.mu.Unlock()
	return lc.fetch(ctx, q)
}

// SetLimit changes the page size, resets to the first page and fetches
// immediately.
func (lc *ListController[T]) SetLimit(ctx context.Context, limit int) error {
	lc.mu.Lock()
	if limit > 0 {
		lc.limit = limit
	}
	lc.page = 0
	q := lc.query()
	lc.mu.Unlock()
	return lc.fetch(ctx, q)
}

func (lc *ListController[T]) Items() []T {
	lc.mu.Lock()
	defer lc.mu.Unlock()
	return lc.items
}

func (lc *ListController[T]) Total() int {
	lc.mu.Lock()
	defer lc.mu.Unlock()
	return lc.total
}

func (lc *ListController[T]) Page() int {
	lc.mu.Lock()
	defer lc.mu.Unlock()
	return lc.page
}

func (lc *ListController[T]) Loading() bool {
	lc.mu.Lock()
	defer lc.mu.Unlock()
	return lc.loading
}

func (lc *ListController[T]) Err() error {
	lc.mu.Lock()
	defer lc.mu.Unlock()
	return lc.err
}

// query translates the controller state to the wire format: the
// 0-indexed page becomes 1-indexed.
func (lc *ListController[T]) query() ListQuery {
	return ListQuery{
		Page:   lc.page + 1,
		Limit:  lc.limit,
		Search: lc.search,
		Status: lc.status,
	}
}

func (lc *ListController[T]) scheduleLocked(ctx context.Context) {
	if lc.timer != nil {
		lc.timer.Stop()
	}
	lc.timer = time.AfterFunc(lc.debounce, func() {
		lc.mu.Lock()
		q := lc.query()
		lc.mu.Unlock()
		_ = lc.fetch(ctx, q)
	})
}

func (lc *ListController[T]) fetch(ctx context.Context, q ListQuery) error {
	lc.mu.Lock()
	lc.loading = true
	lc.mu.Unlock()

	result, err := lc.client.List(ctx, q)

	lc.mu.Lock()
	lc.loading = false
	lc.err = err
	if err == nil {
		lc.items = result.Items
		lc.total = result.Total
	}
	onUpdate := lc.OnUpdate
	lc.mu.Unlock()

	if onUpdate != nil {
		onUpdate()
	}
	return err
}
