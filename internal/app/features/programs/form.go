// internal/app/features/programs/form.go
package programs

import (
	"github.com/sila-platform/siladesk/internal/app/system/htmlsanitize"
	"github.com/sila-platform/siladesk/internal/app/system/inputval"
)

// Form is the create/edit form for a program. The ministry owner defaults
// to the signed-in ministry's name and is forced back to it on submit, so a
// ministry cannot accidentally file a program under another owner.
type Form struct {
	Name                string
	Description         string
	MinistryOwner       string
	EligibilityCriteria string
	ApplicationDeadline string
	Status              string
}

// NewForm returns the empty-defaults form for the given ministry.
func NewForm(ministryName string) Form {
	return Form{
		MinistryOwner: ministryName,
		Status:        StatusActive,
	}
}

// Validate collects per-field validation errors. A non-empty result blocks
// submission before any network call.
func (f Form) Validate() inputval.ValidationErrors {
	errs := inputval.ValidationErrors{}
	errs.Require("name", f.Name, "Program name is required")
	errs.Require("status", f.Status, "Status is required")
	return errs
}

// Payload builds the create/update request body, sanitizing free-text
// fields and pinning the owner to ministryName when one is known.
func (f Form) Payload(ministryName string) map[string]any {
	owner := f.MinistryOwner
	if ministryName != "" {
		owner = ministryName
	}
	return map[string]any{
		"name":                 f.Name,
		"description":          htmlsanitize.Sanitize(f.Description),
		"ministry_owner":       owner,
		"eligibility_criteria": htmlsanitize.Sanitize(f.EligibilityCriteria),
		"application_deadline": f.ApplicationDeadline,
		"status":               f.Status,
	}
}

// FormFrom seeds an edit form from an existing program.
func FormFrom(p Program, ministryName string) Form {
	owner := p.MinistryOwner
	if owner == "" {
		owner = ministryName
	}
	status := p.Status
	if status == "" {
		status = StatusActive
	}
	return Form{
		Name:                p.Name,
		Description:         p.Description,
		MinistryOwner:       owner,
		EligibilityCriteria: p.EligibilityCriteria,
		ApplicationDeadline: p.ApplicationDeadline,
		Status:              status,
	}
}
