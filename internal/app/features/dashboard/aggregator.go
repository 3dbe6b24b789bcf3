// internal/app/features/dashboard/aggregator.go
package dashboard

import (
	"context"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/sila-platform/siladesk/internal/app/system/listctrl"
	"github.com/sila-platform/siladesk/internal/app/system/query"
	"github.com/sila-platform/siladesk/internal/app/system/session"
	"github.com/sila-platform/siladesk/internal/app/system/transport"
)

// loadFailedMsg mirrors the message surfaced when a statistics fetch fails.
const loadFailedMsg = "Failed to load statistics. Please try again."

// Snapshot is a copy of the aggregator's state for rendering. Exactly one
// of Ministry/Charity is set, per the session's role.
type Snapshot struct {
	State    listctrl.State
	Err      string
	Ministry *MinistryStats
	Charity  *CharityStats
}

// Aggregator fetches the role-specific statistics document and re-fetches
// it when filters change, debounced the same way resource lists are.
type Aggregator struct {
	api  *transport.Client
	sess *session.Store
	log  *zap.Logger

	mu       sync.Mutex
	state    listctrl.State
	errMsg   string
	filters  Filters
	ministry *MinistryStats
	charity  *CharityStats
	wait     time.Duration
	timer    *time.Timer
	closed   bool
}

// NewAggregator builds the dashboard statistics aggregator.
func NewAggregator(api *transport.Client, sess *session.Store, log *zap.Logger) *Aggregator {
	return &Aggregator{
		api:  api,
		sess: sess,
		log:  log,
		wait: listctrl.DefaultDebounce,
	}
}

// SetDebounceWindow overrides the filter quiet window. Test hook.
func (a *Aggregator) SetDebounceWindow(d time.Duration) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if d > 0 {
		a.wait = d
	}
}

// Snapshot returns a copy of the current state.
func (a *Aggregator) Snapshot() Snapshot {
	a.mu.Lock()
	defer a.mu.Unlock()
	return Snapshot{State: a.state, Err: a.errMsg, Ministry: a.ministry, Charity: a.charity}
}

// Filters returns the current filter values.
func (a *Aggregator) Filters() Filters {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.filters
}

// statsPath resolves the endpoint and filter keys for the session's role.
// Ministry wins when a session carries both roles, matching navigation.
func (a *Aggregator) statsPath() (string, map[string]string) {
	roles := a.sess.Roles()
	a.mu.Lock()
	f := a.filters
	a.mu.Unlock()
	if roles.IsMinistry {
		return MinistryStatsPath, map[string]string{
			"program_id": f.ProgramID,
			"status":     f.Status,
			"date_from":  f.DateFrom,
			"date_to":    f.DateTo,
		}
	}
	return CharityStatsPath, map[string]string{
		"event_id":  f.EventID,
		"status":    f.Status,
		"date_from": f.DateFrom,
		"date_to":   f.DateTo,
	}
}

// Refresh fetches the statistics document for the current role and
// filters. On failure the stored stats are cleared and a user-readable
// message installed. A closed aggregator discards the completion.
func (a *Aggregator) Refresh(ctx context.Context) error {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return nil
	}
	a.state = listctrl.Loading
	a.errMsg = ""
	a.mu.Unlock()

	path, params := a.statsPath()
	ministry := path == MinistryStatsPath
	url := path + query.Encode(params)

	var (
		mStats MinistryStats
		cStats CharityStats
		err    error
	)
	if ministry {
		err = a.api.JSON(ctx, http.MethodGet, url, nil, &mStats)
	} else {
		err = a.api.JSON(ctx, http.MethodGet, url, nil, &cStats)
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return nil
	}
	if err != nil {
		a.log.Warn("statistics fetch failed", zap.Error(err))
		a.state = listctrl.Failed
		a.errMsg = loadFailedMsg
		a.ministry = nil
		a.charity = nil
		return err
	}
	a.state = listctrl.Loaded
	if ministry {
		a.ministry = &mStats
		a.charity = nil
	} else {
		a.charity = &cStats
		a.ministry = nil
	}
	return nil
}

// SetFilters records new filter values and schedules a debounced Refresh.
// Calls landing within the quiet window collapse into a single re-fetch
// carrying only the final values.
func (a *Aggregator) SetFilters(ctx context.Context, f Filters) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return
	}
	a.filters = f
	if a.timer != nil {
		a.timer.Stop()
	}
	a.timer = time.AfterFunc(a.wait, func() {
		_ = a.Refresh(ctx)
	})
}

// ClearFilters resets every filter and schedules the debounced re-fetch.
func (a *Aggregator) ClearFilters(ctx context.Context) {
	a.SetFilters(ctx, Filters{})
}

// Close marks the aggregator unmounted: the debounce timer stops and any
// in-flight completion is discarded.
func (a *Aggregator) Close() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.closed = true
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
}
