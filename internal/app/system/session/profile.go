// internal/app/system/session/profile.go
package session

import "strings"

// Profile is the cached user profile as the backend serializes it. Role
// signals are spread over several fields: the superuser/staff/ministry
// booleans mark ministry accounts, and the mere presence of the nested
// charity_admin object marks charity administrators.
type Profile struct {
	ID             int64         `json:"id,omitempty"`
	Email          string        `json:"email,omitempty"`
	Username       string        `json:"username,omitempty"`
	FirstName      string        `json:"first_name,omitempty"`
	LastName       string        `json:"last_name,omitempty"`
	IsSuperuser    bool          `json:"is_superuser,omitempty"`
	IsStaff        bool          `json:"is_staff,omitempty"`
	IsMinistryUser bool          `json:"is_ministry_user,omitempty"`
	CharityAdmin   *CharityAdmin `json:"charity_admin,omitempty"`

	// Flattened charity fields some backend serializers emit instead of
	// (or alongside) the nested charity_admin object.
	CharityID   int64  `json:"charity_id,omitempty"`
	CharityName string `json:"charity_name,omitempty"`
}

// CharityAdmin is the nested charity-admin record on a Profile.
type CharityAdmin struct {
	ID          int64  `json:"id,omitempty"`
	CharityID   int64  `json:"charity_id,omitempty"`
	Name        string `json:"name,omitempty"`
	CharityName string `json:"charity_name,omitempty"`
}

// DisplayName derives the name shown for p. Ministry accounts store the
// organization name in first_name. Charity admins show their charity's name.
// Everyone else gets first+last name, falling back to the email local part.
func (p *Profile) DisplayName() string {
	if p == nil {
		return ""
	}
	roles := RolesFor(p)

	if roles.IsMinistry {
		if p.FirstName != "" {
			return p.FirstName
		}
	} else if roles.IsCharityAdmin {
		if name := p.charityName(); name != "" {
			return name
		}
	}

	if full := strings.TrimSpace(p.FirstName + " " + p.LastName); full != "" {
		return full
	}
	if p.Email != "" {
		local, _, _ := strings.Cut(p.Email, "@")
		return local
	}
	return ""
}

// charityName returns the best available charity name for p, or "".
func (p *Profile) charityName() string {
	if p.CharityAdmin != nil {
		if p.CharityAdmin.Name != "" {
			return p.CharityAdmin.Name
		}
		if p.CharityAdmin.CharityName != "" {
			return p.CharityAdmin.CharityName
		}
	}
	return p.CharityName
}

// charityID returns the best available charity id for p, or 0.
func (p *Profile) charityID() int64 {
	if p.CharityAdmin != nil {
		if p.CharityAdmin.ID != 0 {
			return p.CharityAdmin.ID
		}
		if p.CharityAdmin.CharityID != 0 {
			return p.CharityAdmin.CharityID
		}
	}
	return p.CharityID
}
