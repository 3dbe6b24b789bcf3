// internal/app/system/session/roles.go
package session

// Roles holds the derived role flags for the current user. The two flags are
// independent booleans, not an enum: a profile can in principle carry both
// ministry markers and a charity_admin object. Where a single branch must be
// chosen (navigation, display), ministry takes precedence.
type Roles struct {
	IsMinistry     bool
	IsCharityAdmin bool
}

// RolesFor derives the canonical role flags from a profile. This is the one
// place role derivation lives; every view consumes the same definition.
// A ministry user is anyone flagged superuser, staff, or ministry user.
// A charity admin is anyone with a charity_admin record present.
func RolesFor(p *Profile) Roles {
	if p == nil {
		return Roles{}
	}
	return Roles{
		IsMinistry:     p.IsSuperuser || p.IsStaff || p.IsMinistryUser,
		IsCharityAdmin: p.CharityAdmin != nil,
	}
}

// Viewer bundles everything the advisory visibility filters need about the
// current user: role flags, the derived display name, and the charity
// identity for matching events to their organizer.
type Viewer struct {
	Roles       Roles
	DisplayName string
	CharityID   int64
	CharityName string
}

// ViewerFor builds the Viewer for a profile (nil profile = anonymous).
func ViewerFor(p *Profile) Viewer {
	if p == nil {
		return Viewer{}
	}
	return Viewer{
		Roles:       RolesFor(p),
		DisplayName: p.DisplayName(),
		CharityID:   p.charityID(),
		CharityName: p.charityName(),
	}
}
