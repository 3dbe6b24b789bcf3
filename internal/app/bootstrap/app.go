// internal/app/bootstrap/app.go

// Package bootstrap wires configuration, logging, persisted state, and the
// feature views into a runnable client.
package bootstrap

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/sila-platform/siladesk/internal/app/features/account"
	"github.com/sila-platform/siladesk/internal/app/features/beneficiaries"
	"github.com/sila-platform/siladesk/internal/app/features/dashboard"
	"github.com/sila-platform/siladesk/internal/app/features/events"
	"github.com/sila-platform/siladesk/internal/app/features/programs"
	"github.com/sila-platform/siladesk/internal/app/system/localstate"
	"github.com/sila-platform/siladesk/internal/app/system/session"
	"github.com/sila-platform/siladesk/internal/app/system/timeouts"
	"github.com/sila-platform/siladesk/internal/app/system/transport"
)

// App is the wired client: shared state and transport at the bottom, one
// view per page on top. Views are built eagerly; each page's network work
// only starts when its Mount runs.
type App struct {
	Cfg  Config
	Log  *zap.Logger
	Sess *session.Store
	API  *transport.Client

	Account       *account.Service
	Programs      *programs.View
	Events        *events.View
	Beneficiaries *beneficiaries.View
	Dashboard     *dashboard.View
}

// New builds the client from cfg. Timeouts are configured from the
// environment as a side effect.
func New(cfg Config, log *zap.Logger) (*App, error) {
	timeouts.ConfigureFromEnv()

	state, err := localstate.NewFileStore(cfg.StatePath, []byte(cfg.StateKey), log)
	if err != nil {
		return nil, fmt.Errorf("open state file: %w", err)
	}
	sess := session.NewStore(state, log)
	api := transport.New(cfg.BaseURL, state, log)

	app := &App{
		Cfg:           cfg,
		Log:           log,
		Sess:          sess,
		API:           api,
		Account:       account.NewService(api, sess, log),
		Programs:      programs.NewView(api, sess, log),
		Events:        events.NewView(api, sess, log),
		Beneficiaries: beneficiaries.NewView(api, sess, log),
		Dashboard:     dashboard.NewView(api, sess, log),
	}
	if cfg.DebounceWindow > 0 {
		app.setDebounce(cfg.DebounceWindow)
	}
	return app, nil
}

func (a *App) setDebounce(d time.Duration) {
	a.Programs.Ctrl.SetDebounceWindow(d)
	a.Events.Ctrl.SetDebounceWindow(d)
	a.Beneficiaries.Ctrl.SetDebounceWindow(d)
	a.Dashboard.Agg.SetDebounceWindow(d)
}

// Close unmounts every view, discarding in-flight work.
func (a *App) Close() {
	a.Programs.Unmount()
	a.Events.Unmount()
	a.Beneficiaries.Unmount()
	a.Dashboard.Unmount()
}
