// internal/app/features/beneficiaries/view.go
package beneficiaries

import (
	"context"

	"go.uber.org/zap"

	"github.com/sila-platform/siladesk/internal/app/system/listctrl"
	"github.com/sila-platform/siladesk/internal/app/system/session"
	"github.com/sila-platform/siladesk/internal/app/system/transport"
)

// View is the beneficiaries page. The whole page is charity-admin only;
// the route guard keeps everyone else out before a view is built.
type View struct {
	Ctrl *listctrl.Controller[Beneficiary]
	sess *session.Store
	log  *zap.Logger

	Form            Form
	ShowCreateForm  bool
	Editing         *Form
	EditingID       int64
	DeleteConfirmID int64

	unsub func()
}

// NewView wires the beneficiaries page.
func NewView(api *transport.Client, sess *session.Store, log *zap.Logger) *View {
	return &View{
		Ctrl: NewController(api, sess, log),
		sess: sess,
		log:  log,
	}
}

// Mount performs the initial fetch and re-fetches on every auth change
// while mounted; the list is server-scoped per token, so a session change
// means different data.
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
	if errs := v.Form.Validate(true); !errs.Ok() {
		return errs
	}
	if err := v.Ctrl.Create(ctx, v.Form.CreatePayload()); err != nil {
		return err
	}
	v.ShowCreateForm = false
	v.Form = Form{}
	return nil
}

// StartEdit opens the edit form for b, closing the create form.
func (v *View) StartEdit(b Beneficiary) {
	f := FormFrom(b)
	v.Editing = &f
	v.EditingID = b.ID
	v.ShowCreateForm = false
}

// SubmitEdit submits the open edit form and closes it on success.
func (v *View) SubmitEdit(ctx context.Context) error {
	if v.Editing == nil {
		return nil
	}
	if errs := v.Editing.Validate(false); !errs.Ok() {
		return errs
	}
	if err := v.Ctrl.Update(ctx, v.EditingID, v.Editing.UpdatePayload()); err != nil {
		return err
	}
	v.Editing = nil
	v.EditingID = 0
	return nil
}

// ConfirmDelete deletes the beneficiary pending confirmation and clears
// the prompt on success.
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
