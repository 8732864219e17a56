// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package navigate tracks what the user is looking at (all subjects, a
// keyword search, or one entity) and decides which query to run for each
// action: search, page turn, drill-in, back, home, and endpoint switch.
//
// Drill-in pushes the current state onto a stack and back pops it, so the
// listing offset is never reused as a detail-view flag. Every action runs a
// live query; nothing is cached between states. Actions are serialized and
// a new state is committed only after its query completes.
package navigate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/pdiddy/sparql-search/internal/search"
	"github.com/pdiddy/sparql-search/pkg/types"
)

var (
	// ErrEmptyKeyword is returned by Search for a blank keyword.
	ErrEmptyKeyword = errors.New("keyword is empty")

	// ErrEmptyURI is returned by Open for a blank URI.
	ErrEmptyURI = errors.New("entity URI is empty")

	// ErrNoNextPage means the forward control is disabled.
	ErrNoNextPage = errors.New("no next page")

	// ErrNoPreviousPage means the back-page control is disabled.
	ErrNoPreviousPage = errors.New("no previous page")

	// ErrNotInDetail is returned by Back outside the entity view.
	ErrNotInDetail = errors.New("not viewing an entity")
)

// Executor runs the queries a navigator needs against one endpoint.
// *search.Client implements it.
type Executor interface {
	Endpoint() types.Endpoint
	ListAllSubjects(ctx context.Context, limit, offset int) ([]types.ResultRow, error)
	SearchKeyword(ctx context.Context, keyword string, limit, offset int) ([]types.ResultRow, error)
	GetEntityDetail(ctx context.Context, uri, lang string) (types.EntityDetail, error)
}

// Dialer builds an Executor for an endpoint.
type Dialer func(types.Endpoint) Executor

// Page is the outcome of one navigation action, ready for rendering.
type Page struct {
	Endpoint types.Endpoint
	State    State
	Rows     []types.ResultRow
	Detail   *types.EntityDetail

	// CanForward and CanBack drive the paging controls. In the entity
	// view CanBack means Back is available.
	CanForward bool
	CanBack    bool

	// Notice is set when the query timed out and the page is empty.
	Notice string
}

// Navigator owns the active endpoint and the navigation state.
type Navigator struct {
	mu      sync.Mutex
	dial    Dialer
	exec    Executor
	limit   int
	timeout time.Duration
	lang    string
	state   State
	stack   []State
	page    Page
	logger  *slog.Logger
}

// Option configures a Navigator.
type Option func(*Navigator)

// WithLogger sets the logger used for navigation events.
func WithLogger(l *slog.Logger) Option {
	return func(n *Navigator) { n.logger = l }
}

// WithTimeout bounds each action, including every query it runs, by d.
// A zero duration leaves actions bounded only by the caller's context.
func WithTimeout(d time.Duration) Option {
	return func(n *Navigator) { n.timeout = d }
}

// New returns a navigator on ep in the listing state at offset 0. No query
// runs until the first action (usually Home).
func New(dial Dialer, ep types.Endpoint, limit int, lang string, opts ...Option) (*Navigator, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("%w: limit must be positive, got %d", types.ErrInvalidPage, limit)
	}
	n := &Navigator{
		dial:   dial,
		exec:   dial(ep),
		limit:  limit,
		lang:   lang,
		state:  State{Mode: ModeListingAll},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(n)
	}
	n.page = Page{Endpoint: ep, State: n.state}
	return n, nil
}

// Endpoint returns the active endpoint.
func (n *Navigator) Endpoint() types.Endpoint {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.exec.Endpoint()
}

// State returns the current navigation state.
func (n *Navigator) State() State {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.state
}

// Page returns the last committed page.
func (n *Navigator) Page() Page {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.page
}

// Limit returns the page size.
func (n *Navigator) Limit() int { return n.limit }

// Depth returns how many states Back can return through.
func (n *Navigator) Depth() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.stack)
}

// Home lists all subjects from offset 0 and clears the back stack.
func (n *Navigator) Home(ctx context.Context) (Page, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.transition(ctx, n.exec, State{Mode: ModeListingAll}, nil)
}

// Search runs a keyword search from offset 0 and clears the back stack.
func (n *Navigator) Search(ctx context.Context, keyword string) (Page, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return Page{}, ErrEmptyKeyword
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.transition(ctx, n.exec, State{Mode: ModeKeywordSearch, Keyword: keyword}, nil)
}

// Open shows the entity uri and remembers the current state for Back.
func (n *Navigator) Open(ctx context.Context, uri string) (Page, error) {
	uri = strings.TrimSpace(uri)
	if uri == "" {
		return Page{}, ErrEmptyURI
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	stack := append(n.stack[:len(n.stack):len(n.stack)], n.state)
	return n.transition(ctx, n.exec, State{Mode: ModeEntityDetail, URI: uri}, stack)
}

// Back leaves the entity view for the state it was opened from, re-running
// that state's query. With nothing to return to it lists all subjects.
func (n *Navigator) Back(ctx context.Context) (Page, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.state.Mode != ModeEntityDetail {
		return Page{}, ErrNotInDetail
	}
	if len(n.stack) == 0 {
		return n.transition(ctx, n.exec, State{Mode: ModeListingAll}, nil)
	}
	prev := n.stack[len(n.stack)-1]
	return n.transition(ctx, n.exec, prev, n.stack[:len(n.stack)-1])
}

// PageForward moves one page ahead in a listing or search.
func (n *Navigator) PageForward(ctx context.Context) (Page, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.state.Mode == ModeEntityDetail || !n.page.CanForward {
		return Page{}, ErrNoNextPage
	}
	next := n.state
	next.Offset += n.limit
	return n.transition(ctx, n.exec, next, n.stack)
}

// PageBack moves one page back in a listing or search.
func (n *Navigator) PageBack(ctx context.Context) (Page, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.state.Mode == ModeEntityDetail || n.state.Offset == 0 {
		return Page{}, ErrNoPreviousPage
	}
	prev := n.state
	prev.Offset = max(prev.Offset-n.limit, 0)
	return n.transition(ctx, n.exec, prev, n.stack)
}

// Refresh re-runs the current state's query.
func (n *Navigator) Refresh(ctx context.Context) (Page, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.transition(ctx, n.exec, n.state, n.stack)
}

// Restore jumps to st, for example one saved in a page file, and clears
// the back stack.
func (n *Navigator) Restore(ctx context.Context, st State) (Page, error) {
	if err := st.Validate(n.limit); err != nil {
		return Page{}, err
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.transition(ctx, n.exec, st, nil)
}

// SwitchEndpoint makes ep the active endpoint and lists its subjects from
// offset 0. If that first query fails for any reason other than a timeout,
// the previous endpoint and state stay active and the error is returned.
func (n *Navigator) SwitchEndpoint(ctx context.Context, ep types.Endpoint) (Page, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	prev := n.exec.Endpoint()
	page, err := n.transition(ctx, n.dial(ep), State{Mode: ModeListingAll}, nil)
	if err != nil {
		n.logger.Warn("endpoint switch rolled back", "from", prev.ID, "to", ep.ID, "error", err)
		return Page{}, err
	}
	return page, nil
}

// transition runs target's query on exec and, unless it failed hard,
// commits exec, target and stack together.
func (n *Navigator) transition(ctx context.Context, exec Executor, target State, stack []State) (Page, error) {
	page, err := n.load(ctx, exec, target)
	if err != nil {
		return Page{}, err
	}
	page.CanBack = page.CanBack || (target.Mode == ModeEntityDetail)

	n.exec = exec
	n.state = target
	n.stack = stack
	n.page = page
	n.logger.Debug("navigated", "endpoint", exec.Endpoint().ID, "mode", target.Mode.String(),
		"offset", target.Offset, "rows", len(page.Rows), "depth", len(stack))
	return page, nil
}

func (n *Navigator) load(ctx context.Context, exec Executor, st State) (Page, error) {
	ep := exec.Endpoint()
	page := Page{Endpoint: ep, State: st}
	req := n.request(ep, st)
	if st.Mode != ModeEntityDetail {
		if err := req.Validate(); err != nil {
			return Page{}, err
		}
	}
	if req.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, req.Timeout)
		defer cancel()
	}

	var (
		rows []types.ResultRow
		err  error
	)
	switch st.Mode {
	case ModeListingAll:
		rows, err = exec.ListAllSubjects(ctx, req.Limit, req.Offset)
	case ModeKeywordSearch:
		rows, err = exec.SearchKeyword(ctx, req.Keyword, req.Limit, req.Offset)
	case ModeEntityDetail:
		var d types.EntityDetail
		d, err = exec.GetEntityDetail(ctx, st.URI, n.lang)
		if err == nil {
			page.Detail = &d
		}
	default:
		return Page{}, fmt.Errorf("unknown mode %d", st.Mode)
	}

	if err != nil {
		if !errors.Is(err, search.ErrQueryTimeout) {
			return Page{}, err
		}
		page.Notice = fmt.Sprintf("%s did not answer in time; no results to show", ep.DisplayName())
		rows = nil
	}

	page.Rows = rows
	if st.Mode != ModeEntityDetail {
		page.CanForward = search.HasMore(rows, req.Limit)
		page.CanBack = req.Offset > 0
	}
	return page, nil
}

// request describes the query st needs on ep.
func (n *Navigator) request(ep types.Endpoint, st State) types.SearchRequest {
	return types.SearchRequest{
		Endpoint: ep,
		Keyword:  st.Keyword,
		Limit:    n.limit,
		Offset:   st.Offset,
		Timeout:  n.timeout,
	}
}
