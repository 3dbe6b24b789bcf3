// internal/app/features/events/view.go
package events

import (
	"context"

	"go.uber.org/zap"

	"github.com/sila-platform/siladesk/internal/app/system/listctrl"
	"github.com/sila-platform/siladesk/internal/app/system/session"
	"github.com/sila-platform/siladesk/internal/app/system/transport"
)

// View is the events page: the list controller plus the page-owned form
// state. Only charity admins manage events; everyone may browse.
type View struct {
	Ctrl *listctrl.Controller[Event]
	sess *session.Store
	log  *zap.Logger

	Form            Form
	ShowCreateForm  bool
	Editing         *Form
	EditingID       int64
	DeleteConfirmID int64

	unsub func()
}

// NewView wires the events page.
func NewView(api *transport.Client, sess *session.Store, log *zap.Logger) *View {
	return &View{
		Ctrl: NewController(api, sess, log),
		sess: sess,
		log:  log,
		Form: NewForm(),
	}
}

// Mount performs the initial fetch and re-fetches on every auth change
// while mounted, so the visible events track the session's charity
// identity.
func (v *View) Mount(ctx context.Context) error {
	ch, cancel := v.sess.Subscribe()
	v.unsub = cancel
	go func() {
		for range ch {
			_ = v.Ctrl.Load(ctx)
		}
	}()
	return v.Ctrl.Load(ctx)
}

// Unmount stops listening for auth changes and discards in-flight work.
func (v *View) Unmount() {
	if v.unsub != nil {
		v.unsub()
		v.unsub = nil
	}
	v.Ctrl.Close()
}

// SubmitCreate validates the form, submits it, and on success closes and
// resets the create form. Validation failures block submission without a
// network call.
func (v *View) SubmitCreate(ctx context.Context) error {
	if errs := v.Form.Validate(); !errs.Ok() {
		return errs
	}
	if err := v.Ctrl.Create(ctx, v.Form.Payload()); err != nil {
		return err
	}
	v.ShowCreateForm = false
	v.Form = NewForm()
	return nil
}

// StartEdit opens the edit form for e, closing the create form.
func (v *View) StartEdit(e Event) {
	f := FormFrom(e)
	v.Editing = &f
	v.EditingID = e.ID
	v.ShowCreateForm = false
}

// SubmitEdit submits the open edit form and closes it on success.
func (v *View) SubmitEdit(ctx context.Context) error {
	if v.Editing == nil {
		return nil
	}
	if errs := v.Editing.Validate(); !errs.Ok() {
		return errs
	}
	if err := v.Ctrl.Update(ctx, v.EditingID, v.Editing.Payload()); err != nil {
		return err
	}
	v.Editing = nil
	v.EditingID = 0
	return nil
}

// ConfirmDelete deletes the event pending confirmation and clears the
// prompt on success.
func (v *View) ConfirmDelete(ctx context.Context) error {
	if v.DeleteConfirmID == 0 {
		return nil
	}
	if err := v.Ctrl.Delete(ctx, v.DeleteConfirmID); err != nil {
		return err
	}
	v.DeleteConfirmID = 0
	return nil
}

// CanManage reports whether the current session may create or edit events
// (charity admins only). Display convenience; the server decides.
func (v *View) CanManage() bool {
	return v.sess.Roles().IsCharityAdmin
}
