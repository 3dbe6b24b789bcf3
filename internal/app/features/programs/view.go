// internal/app/features/programs/view.go
package programs

import (
	"context"

	"go.uber.org/zap"

	"github.com/sila-platform/siladesk/internal/app/system/listctrl"
	"github.com/sila-platform/siladesk/internal/app/system/session"
	"github.com/sila-platform/siladesk/internal/app/system/transport"
)

// View is the programs page: the list controller plus the form state the
// page owns (create form visibility, the program being edited, the pending
// delete confirmation). Successful writes close their form and reset it to
// empty defaults; failures leave everything as the user typed it.
type View struct {
	Ctrl *listctrl.Controller[Program]
	sess *session.Store
	log  *zap.Logger

	Form            Form
	ShowCreateForm  bool
	Editing         *Form
	EditingID       int64
	DeleteConfirmID int64

	unsub func()
}

// NewView wires the programs page.
func NewView(api *transport.Client, sess *session.Store, log *zap.Logger) *View {
	return &View{
		Ctrl: NewController(api, sess, log),
		sess: sess,
		log:  log,
		Form: NewForm(ministryName(sess)),
	}
}

// Mount performs the initial fetch and, for the view's mounted lifetime,
// re-fetches whenever the auth-changed signal fires: a login, logout, or
// profile refresh changes which programs the viewer sees, and the reload
// re-derives visibility from the fresh session.
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
	name := ministryName(v.sess)
	if err := v.Ctrl.Create(ctx, v.Form.Payload(name)); err != nil {
		return err
	}
	v.ShowCreateForm = false
	v.Form = NewForm(name)
	return nil
}

// StartEdit opens the edit form for p, closing the create form.
func (v *View) StartEdit(p Program) {
	f := FormFrom(p, ministryName(v.sess))
	v.Editing = &f
	v.EditingID = p.ID
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
	if err := v.Ctrl.Update(ctx, v.EditingID, v.Editing.Payload(ministryName(v.sess))); err != nil {
		return err
	}
	v.Editing = nil
	v.EditingID = 0
	return nil
}

// ConfirmDelete deletes the program pending confirmation and clears the
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

// CanManage reports whether the current session may create or edit
// programs (ministry only). Display convenience; the server decides.
func (v *View) CanManage() bool {
	return v.sess.Roles().IsMinistry
}

// ministryName resolves the owner name used for defaulting and filtering,
// "" for non-ministry sessions.
func ministryName(sess *session.Store) string {
	if !sess.Roles().IsMinistry {
		return ""
	}
	return sess.DisplayName()
}
