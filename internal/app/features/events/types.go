// internal/app/features/events/types.go
package events

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/sila-platform/siladesk/internal/app/system/listctrl"
	"github.com/sila-platform/siladesk/internal/app/system/session"
	"github.com/sila-platform/siladesk/internal/app/system/transport"
)

// CollectionPath is the events endpoint.
const CollectionPath = "/events/"

// StatusActive is the fallback status check for records lacking is_active.
const StatusActive = "ACTIVE"

// Ref is a reference to a charity or organizer. The backend is not
// consistent about the shape: depending on the serializer in play the field
// arrives as a numeric id, a display string, or an embedded object. Ref
// absorbs all three.
type Ref struct {
	ID   int64
	Name string
}

// UnmarshalJSON accepts a number (id), a string (name), or an object
// carrying id/charity_id and name/charity_name. Anything else is left zero.
func (r *Ref) UnmarshalJSON(data []byte) error {
	*r = Ref{}
	data = []byte(strings.TrimSpace(string(data)))
	if len(data) == 0 || string(data) == "null" {
		return nil
	}
	switch data[0] {
	case '{':
		var obj struct {
			ID          int64  `json:"id"`
			CharityID   int64  `json:"charity_id"`
			Name        string `json:"name"`
			CharityName string `json:"charity_name"`
		}
		if err := json.Unmarshal(data, &obj); err != nil {
			return err
		}
		r.ID = obj.ID
		if r.ID == 0 {
			r.ID = obj.CharityID
		}
		r.Name = obj.Name
		if r.Name == "" {
			r.Name = obj.CharityName
		}
		return nil
	case '"':
		return json.Unmarshal(data, &r.Name)
	default:
		return json.Unmarshal(data, &r.ID)
	}
}

// IsZero reports whether the reference carries neither an id nor a name.
func (r Ref) IsZero() bool { return r.ID == 0 && r.Name == "" }

// Event is a charity-organized event.
type Event struct {
	ID                   int64  `json:"id"`
	Title                string `json:"title"`
	Description          string `json:"description,omitempty"`
	EventDate            string `json:"event_date,omitempty"`
	Location             string `json:"location,omitempty"`
	City                 string `json:"city,omitempty"`
	MaxCapacity          int    `json:"max_capacity,omitempty"`
	CurrentRegistrations int    `json:"current_registrations,omitempty"`
	IsActive             *bool  `json:"is_active,omitempty"`
	Status               string `json:"status,omitempty"`
	Charity              Ref    `json:"charity,omitempty"`
	Organizer            Ref    `json:"organizer,omitempty"`
	CharityName          string `json:"charity_name,omitempty"`
	OrganizerName        string `json:"organizer_name,omitempty"`
}

// ItemPath builds the per-event endpoint.
func ItemPath(id int64) string {
	return fmt.Sprintf("/events/%d/", id)
}

// Visible is the advisory display filter for event lists. Charity admins
// see their own events: charity or organizer reference matching their
// charity id, or an organizer name containing their charity name
// (case-insensitive). Everyone else sees active events, with a status
// fallback for records that lack the is_active flag; records carrying
// neither field stay visible.
func Visible(e Event, v session.Viewer) bool {
	if v.Roles.IsCharityAdmin {
		if v.CharityID != 0 {
			if e.Charity.ID == v.CharityID || e.Organizer.ID == v.CharityID {
				return true
			}
		}
		name := strings.TrimSpace(v.CharityName)
		if name != "" {
			organizer := e.Organizer.Name
			if organizer == "" {
				organizer = e.Charity.Name
			}
			if organizer == "" {
				organizer = e.CharityName
			}
			if organizer == "" {
				organizer = e.OrganizerName
			}
			if strings.Contains(strings.ToLower(organizer), strings.ToLower(name)) {
				return true
			}
		}
		return false
	}
	if e.IsActive != nil {
		return *e.IsActive
	}
	if e.Status != "" {
		return e.Status == StatusActive
	}
	return true
}

// NewController builds the list controller for events. Events use PUT for
// edits and prepend freshly created entries so the newest event is first.
func NewController(api *transport.Client, sess *session.Store, log *zap.Logger) *listctrl.Controller[Event] {
	return listctrl.New(listctrl.Descriptor[Event]{
		Name:            "events",
		Singular:        "event",
		CollectionPath:  CollectionPath,
		ItemPath:        ItemPath,
		ID:              func(e Event) int64 { return e.ID },
		UpdateMethod:    http.MethodPut,
		PrependOnCreate: true,
		Visible:         Visible,
	}, api, sess, log)
}
