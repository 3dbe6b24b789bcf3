// internal/app/features/programs/types.go
package programs

import (
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/sila-platform/siladesk/internal/app/system/listctrl"
	"github.com/sila-platform/siladesk/internal/app/system/session"
	"github.com/sila-platform/siladesk/internal/app/system/transport"
)

// CollectionPath is the programs endpoint.
const CollectionPath = "/programs/"

// StatusActive marks a program visible to the public browsing view.
const StatusActive = "ACTIVE"

// Program is a ministry benefits program.
type Program struct {
	ID                  int64  `json:"id"`
	Name                string `json:"name"`
	Description         string `json:"description,omitempty"`
	MinistryOwner       string `json:"ministry_owner,omitempty"`
	EligibilityCriteria string `json:"eligibility_criteria,omitempty"`
	ApplicationDeadline string `json:"application_deadline,omitempty"`
	Status              string `json:"status,omitempty"`
}

// ItemPath builds the per-program endpoint.
func ItemPath(id int64) string {
	return fmt.Sprintf("/programs/%d/", id)
}

// Visible is the advisory display filter for program lists: ministry users
// see the programs whose owner field contains their organization name
// (case-insensitive substring), everyone else sees only ACTIVE programs.
// A ministry session without a resolvable name sees the unfiltered list.
func Visible(p Program, v session.Viewer) bool {
	if v.Roles.IsMinistry {
		if v.DisplayName == "" {
			return true
		}
		return p.MinistryOwner != "" &&
			strings.Contains(strings.ToLower(p.MinistryOwner), strings.ToLower(v.DisplayName))
	}
	return p.Status == StatusActive
}

// NewController builds the list controller for programs. Programs use PATCH
// for edits and append freshly created entries at the tail.
func NewController(api *transport.Client, sess *session.Store, log *zap.Logger) *listctrl.Controller[Program] {
	return listctrl.New(listctrl.Descriptor[Program]{
		Name:           "programs",
		Singular:       "program",
		CollectionPath: CollectionPath,
		ItemPath:       ItemPath,
		ID:             func(p Program) int64 { return p.ID },
		UpdateMethod:   http.MethodPatch,
		Visible:        Visible,
	}, api, sess, log)
}
