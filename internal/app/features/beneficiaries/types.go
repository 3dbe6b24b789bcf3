// internal/app/features/beneficiaries/types.go
package beneficiaries

import (
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/sila-platform/siladesk/internal/app/system/listctrl"
	"github.com/sila-platform/siladesk/internal/app/system/session"
	"github.com/sila-platform/siladesk/internal/app/system/transport"
)

// CollectionPath is the beneficiaries endpoint.
const CollectionPath = "/beneficiaries/"

// User is the account record nested inside a beneficiary.
type User struct {
	Username  string `json:"username,omitempty"`
	Email     string `json:"email,omitempty"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
}

// Beneficiary is a person registered with a charity for aid.
type Beneficiary struct {
	ID            int64   `json:"id"`
	User          User    `json:"user"`
	NationalID    string  `json:"national_id,omitempty"`
	Phone         string  `json:"phone,omitempty"`
	Address       string  `json:"address,omitempty"`
	City          string  `json:"city,omitempty"`
	Region        string  `json:"region,omitempty"`
	DateOfBirth   string  `json:"date_of_birth,omitempty"`
	FamilySize    int     `json:"family_size,omitempty"`
	MonthlyIncome float64 `json:"monthly_income,omitempty"`
	SpecialNeeds  string  `json:"special_needs,omitempty"`
}

// ItemPath builds the per-beneficiary endpoint.
func ItemPath(id int64) string {
	return fmt.Sprintf("/beneficiaries/%d/", id)
}

// NewController builds the list controller for beneficiaries. The route is
// already gated to charity admins, so there is no client-side display
// filter; the server scopes the list to the caller's charity. PUT for
// edits, newest entries first.
func NewController(api *transport.Client, sess *session.Store, log *zap.Logger) *listctrl.Controller[Beneficiary] {
	return listctrl.New(listctrl.Descriptor[Beneficiary]{
		Name:            "beneficiaries",
		Singular:        "beneficiary",
		CollectionPath:  CollectionPath,
		ItemPath:        ItemPath,
		ID:              func(b Beneficiary) int64 { return b.ID },
		UpdateMethod:    http.MethodPut,
		PrependOnCreate: true,
	}, api, sess, log)
}
