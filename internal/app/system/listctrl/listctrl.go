// internal/app/system/listctrl/listctrl.go

// Package listctrl is the generic fetch/create/update/delete state machine
// every resource list view (programs, events, beneficiaries) runs on.
//
// The lifecycle: Load moves Idle -> Loading -> Loaded or Failed. Writes
// (Create/Update/Delete) optimistically mutate the in-memory list first,
// then unconditionally re-invoke Load to reconcile with server truth -- the
// optimistic splice is a UX shortcut, the re-fetch is the correctness
// backstop and must not be optimized away.
//
// Within one controller, a write's reconciling Load races any concurrently
// debounced filter-driven Load; whichever completes last owns the list.
// That last-write-wins property is accepted, not a bug.
package listctrl

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/sila-platform/siladesk/internal/app/system/query"
	"github.com/sila-platform/siladesk/internal/app/system/session"
	"github.com/sila-platform/siladesk/internal/app/system/transport"
)

// DefaultDebounce is the quiet period a filter change must survive before
// it triggers a re-fetch, so a user adjusting several filter fields costs
// one request, not five.
const DefaultDebounce = 300 * time.Millisecond

// State is the controller's fetch state.
type State int

const (
	Idle State = iota
	Loading
	Loaded
	Failed
)

// String returns a readable form for logs.
func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Loaded:
		return "loaded"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Descriptor tells the controller how to speak REST for one resource type.
type Descriptor[T any] struct {
	// Name is the plural resource name for log fields and generic load
	// failure messages ("programs"). Singular is used for write failures.
	Name     string
	Singular string

	// CollectionPath is the list/create endpoint ("/programs/").
	CollectionPath string

	// ItemPath builds the per-item endpoint ("/programs/3/").
	ItemPath func(id int64) string

	// ID extracts the server-assigned id from an item.
	ID func(T) int64

	// UpdateMethod is the verb the backend expects for edits: PATCH for
	// programs, PUT for events and beneficiaries.
	UpdateMethod string

	// PrependOnCreate puts freshly created items at the head of the list
	// (events, beneficiaries) instead of the tail (programs).
	PrependOnCreate bool

	// Visible is the advisory role-based display filter applied after
	// every load. It is a multi-tenant display convenience, never a
	// security boundary; the server enforces authorization. nil means no
	// filtering.
	Visible func(item T, viewer session.Viewer) bool
}

// Snapshot is a point-in-time copy of the controller's state, safe to read
// while operations are in flight.
type Snapshot[T any] struct {
	State State
	Items []T
	Err   string
}

// Controller runs the list state machine for one resource type. All methods
// are safe for concurrent use; the in-memory list is owned by exactly one
// controller, so no cross-controller coordination exists or is needed.
type Controller[T any] struct {
	desc Descriptor[T]
	api  *transport.Client
	sess *session.Store
	log  *zap.Logger
	wait time.Duration

	mu      sync.Mutex
	state   State
	items   []T
	errMsg  string
	filters url.Values
	timer   *time.Timer
	closed  bool
}

// New creates an Idle controller.
func New[T any](desc Descriptor[T], api *transport.Client, sess *session.Store, log *zap.Logger) *Controller[T] {
	if log == nil {
		log = zap.NewNop()
	}
	return &Controller[T]{
		desc: desc,
		api:  api,
		sess: sess,
		log:  log.With(zap.String("resource", desc.Name)),
		wait: DefaultDebounce,
	}
}

// SetDebounceWindow overrides the filter debounce quiet period.
func (c *Controller[T]) SetDebounceWindow(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if d > 0 {
		c.wait = d
	}
}

// Snapshot returns a copy of the current state, items, and error message.
func (c *Controller[T]) Snapshot() Snapshot[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	items := make([]T, len(c.items))
	copy(items, c.items)
	return Snapshot[T]{State: c.state, Items: items, Err: c.errMsg}
}

// Load fetches the collection, normalizes the response shape, applies the
// advisory visibility filter, and installs the result. On failure the
// previous items are kept (so an optimistic mutation survives a failed
// reconcile) and a user-readable message is stored alongside Failed state.
//
// A controller that has been Closed discards the completion instead of
// applying it.
func (c *Controller[T]) Load(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.state = Loading
	c.errMsg = ""
	path := c.desc.CollectionPath + query.EncodeValues(c.filters)
	c.mu.Unlock()

	raw, err := c.api.Do(ctx, http.MethodGet, path, nil)
	if err != nil {
		c.fail(messageOr(err, fmt.Sprintf("Failed to load %s. Please try again later.", c.desc.Name)))
		c.log.Warn("list load failed", zap.Error(err))
		return err
	}

	items, err := decodeList[T](raw)
	if err != nil {
		c.fail(fmt.Sprintf("Failed to load %s. Please try again later.", c.desc.Name))
		c.log.Warn("list response not understood", zap.Error(err))
		return err
	}

	if c.desc.Visible != nil {
		viewer := c.sess.Viewer()
		visible := make([]T, 0, len(items))
		for _, it := range items {
			if c.desc.Visible(it, viewer) {
				visible = append(visible, it)
			}
		}
		items = visible
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.items = items
	c.state = Loaded
	return nil
}

// Create posts input and, on success, splices the server's created item
// into the list (deduplicated by id, prepended or appended per the
// descriptor) before reconciling with an unconditional Load. On failure the
// list is untouched and only the error message changes.
//
// Reconcile failures are reported through the snapshot's Err, not the
// return value: the write itself succeeded.
func (c *Controller[T]) Create(ctx context.Context, input any) error {
	raw, err := c.api.Do(ctx, http.MethodPost, c.desc.CollectionPath, input)
	if err != nil {
		c.setErr(messageOr(err, fmt.Sprintf("Failed to create %s. Please try again.", c.desc.Singular)))
		return err
	}

	if len(raw) > 0 {
		var created T
		if err := json.Unmarshal(raw, &created); err == nil {
			c.splice(created)
		}
	}
	c.setErr("")

	_ = c.Load(ctx)
	return nil
}

// Update edits the item with the given id and optimistically replaces it in
// place (matched by id) with the server's response before reconciling. On
// failure only the error message changes.
func (c *Controller[T]) Update(ctx context.Context, id int64, input any) error {
	raw, err := c.api.Do(ctx, c.desc.UpdateMethod, c.desc.ItemPath(id), input)
	if err != nil {
		c.setErr(messageOr(err, fmt.Sprintf("Failed to update %s. Please try again.", c.desc.Singular)))
		return err
	}

	if len(raw) > 0 {
		var updated T
		if err := json.Unmarshal(raw, &updated); err == nil {
			c.replace(id, updated)
		}
	}
	c.setErr("")

	_ = c.Load(ctx)
	return nil
}

// Delete removes the item with the given id, optimistically dropping it
// from the list before reconciling. If the reconcile fails the optimistic
// removal stands together with the load error message.
func (c *Controller[T]) Delete(ctx context.Context, id int64) error {
	if _, err := c.api.Do(ctx, http.MethodDelete, c.desc.ItemPath(id), nil); err != nil {
		c.setErr(messageOr(err, fmt.Sprintf("Failed to delete %s. Please try again.", c.desc.Singular)))
		return err
	}

	c.mu.Lock()
	if !c.closed {
		kept := c.items[:0:0]
		for _, it := range c.items {
			if c.desc.ID(it) != id {
				kept = append(kept, it)
			}
		}
		c.items = kept
		c.errMsg = ""
	}
	c.mu.Unlock()

	_ = c.Load(ctx)
	return nil
}

// SetFilters records new filter values and schedules a debounced Load.
// Calls landing within the quiet window collapse into a single re-fetch
// carrying only the final values.
func (c *Controller[T]) SetFilters(ctx context.Context, filters url.Values) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.filters = cloneValues(filters)
	if c.timer != nil {
		c.timer.Stop()
	}
	c.timer = time.AfterFunc(c.wait, func() {
		_ = c.Load(ctx)
	})
}

// Close marks the controller unmounted: pending debounce timers stop and
// any in-flight completion is discarded rather than applied to state nobody
// is rendering anymore.
func (c *Controller[T]) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

// splice inserts a created item, removing any stale entry with the same id.
func (c *Controller[T]) splice(created T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	id := c.desc.ID(created)
	kept := c.items[:0:0]
	for _, it := range c.items {
		if c.desc.ID(it) != id {
			kept = append(kept, it)
		}
	}
	if c.desc.PrependOnCreate {
		c.items = append([]T{created}, kept...)
	} else {
		c.items = append(kept, created)
	}
}

// replace swaps the item with the given id in place.
func (c *Controller[T]) replace(id int64, updated T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	for i, it := range c.items {
		if c.desc.ID(it) == id {
			c.items[i] = updated
			return
		}
	}
}

func (c *Controller[T]) fail(msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.state = Failed
	c.errMsg = msg
}

func (c *Controller[T]) setErr(msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.errMsg = msg
}

// decodeList normalizes the two list response shapes -- a bare JSON array
// or a paginated {"results": [...]} envelope -- into one ordered slice.
// Order is the server's response order.
func decodeList[T any](raw []byte) ([]T, error) {
	trimmed := firstByte(raw)
	if trimmed == 0 {
		return nil, nil
	}
	if trimmed == '[' {
		var items []T
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, err
		}
		return items, nil
	}
	var envelope struct {
		Results []T `json:"results"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, err
	}
	return envelope.Results, nil
}

// firstByte returns the first non-whitespace byte of raw, or 0.
func firstByte(raw []byte) byte {
	for _, b := range raw {
		switch b {
		case ' ', '\t', '\n', '\r':
			continue
		}
		return b
	}
	return 0
}

// messageOr prefers the error's own message (HttpError carries the server's
// detail/error field) and falls back to the generic string.
func messageOr(err error, fallback string) string {
	if err != nil && err.Error() != "" {
		return err.Error()
	}
	return fallback
}

func cloneValues(v url.Values) url.Values {
	out := make(url.Values, len(v))
	for k, vs := range v {
		out[k] = append([]string(nil), vs...)
	}
	return out
}
