// internal/app/features/account/profile.go
package account

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/sila-platform/siladesk/internal/app/system/inputval"
	"github.com/sila-platform/siladesk/internal/app/system/session"
)

// ProfileForm is the editable profile. Which name fields apply depends on
// the role: ministry accounts store their organization name in first_name,
// charity admins edit the charity's name, regular users edit their own
// first and last name. The password fields are optional; leaving them
// empty keeps the current password.
type ProfileForm struct {
	MinistryName    string
	CharityName     string
	FirstName       string
	LastName        string
	Email           string
	Password        string
	ConfirmPassword string
}

// ProfileFormFor seeds the form from a profile for the given roles.
func ProfileFormFor(p *session.Profile, roles session.Roles) ProfileForm {
	if p == nil {
		return ProfileForm{}
	}
	f := ProfileForm{Email: p.Email}
	switch {
	case roles.IsMinistry:
		f.MinistryName = p.FirstName
	case roles.IsCharityAdmin:
		if p.CharityAdmin != nil {
			f.CharityName = p.CharityAdmin.Name
		}
		if f.CharityName == "" {
			f.CharityName = p.CharityName
		}
	default:
		f.FirstName = p.FirstName
		f.LastName = p.LastName
	}
	return f
}

// Validate collects per-field validation errors. The password checks only
// apply when a new password was entered.
func (f ProfileForm) Validate(roles session.Roles) inputval.ValidationErrors {
	errs := inputval.ValidationErrors{}
	errs.Require("email", f.Email, "Email is required")
	errs.Email("email", f.Email, "Email is invalid")
	switch {
	case roles.IsMinistry:
		errs.Require("ministry_name", f.MinistryName, "Ministry name is required")
	case roles.IsCharityAdmin:
		errs.Require("charity_name", f.CharityName, "Charity name is required")
	}
	if f.Password != "" {
		errs.MinLen("password", f.Password, 8, "Password must be at least 8 characters long")
		errs.Match("confirm_password", f.Password, f.ConfirmPassword, "Passwords do not match")
	}
	return errs
}

// payload builds the PATCH body for the given roles.
func (f ProfileForm) payload(roles session.Roles) map[string]any {
	p := map[string]any{"email": f.Email}
	switch {
	case roles.IsMinistry:
		// Ministry accounts store the organization name in first_name.
		p["first_name"] = f.MinistryName
	case roles.IsCharityAdmin:
		p["charity_name"] = f.CharityName
	default:
		p["first_name"] = f.FirstName
		p["last_name"] = f.LastName
	}
	if f.Password != "" {
		p["password"] = f.Password
	}
	return p
}

// UpdateProfile validates and submits the profile edit, then re-fetches
// the profile so the cached session user reflects what the server actually
// stored. The access token is untouched throughout.
func (s *Service) UpdateProfile(ctx context.Context, f ProfileForm) error {
	roles := s.sess.Roles()
	if errs := f.Validate(roles); !errs.Ok() {
		return errs
	}
	if err := s.api.JSON(ctx, http.MethodPatch, ProfilePath, f.payload(roles), nil); err != nil {
		return err
	}
	refreshed, err := s.fetchProfile(ctx)
	if err != nil {
		s.log.Warn("profile re-fetch after update failed", zap.Error(err))
		return nil
	}
	return s.sess.RefreshUser(refreshed)
}
