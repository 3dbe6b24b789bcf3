// internal/app/features/dashboard/view.go
package dashboard

import (
	"context"

	"go.uber.org/zap"

	"github.com/sila-platform/siladesk/internal/app/features/events"
	"github.com/sila-platform/siladesk/internal/app/features/programs"
	"github.com/sila-platform/siladesk/internal/app/system/listctrl"
	"github.com/sila-platform/siladesk/internal/app/system/session"
	"github.com/sila-platform/siladesk/internal/app/system/transport"
)

// View is the dashboard page: the statistics aggregator plus the reference
// lists backing the filter pickers. Ministry sessions pick among their own
// programs, charity sessions among their events; only the relevant list is
// loaded.
type View struct {
	Agg      *Aggregator
	Programs *listctrl.Controller[programs.Program]
	Events   *listctrl.Controller[events.Event]
	sess     *session.Store

	unsub func()
}

// NewView wires the dashboard page.
func NewView(api *transport.Client, sess *session.Store, log *zap.Logger) *View {
	return &View{
		Agg:      NewAggregator(api, sess, log),
		Programs: programs.NewController(api, sess, log),
		Events:   events.NewController(api, sess, log),
		sess:     sess,
	}
}

// Mount fetches the statistics and the role's reference list. The
// reference list is a picker aid; its failure does not fail the mount.
// While mounted, every auth change re-resolves the role and re-fetches,
// since a session change can swap which statistics endpoint applies.
func (v *View) Mount(ctx context.Context) error {
	ch, cancel := v.sess.Subscribe()
	v.unsub = cancel
	go func() {
		for range ch {
			_ = v.Agg.Refresh(ctx)
		}
	}()
	return v.load(ctx)
}

func (v *View) load(ctx context.Context) error {
	roles := v.sess.Roles()
	if roles.IsMinistry {
		_ = v.Programs.Load(ctx)
	} else if roles.IsCharityAdmin {
		_ = v.Events.Load(ctx)
	}
	return v.Agg.Refresh(ctx)
}

// Unmount stops listening for auth changes and discards in-flight work.
func (v *View) Unmount() {
	if v.unsub != nil {
		v.unsub()
		v.unsub = nil
	}
	v.Agg.Close()
	v.Programs.Close()
	v.Events.Close()
}
