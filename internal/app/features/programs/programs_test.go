package programs

import (
	"testing"

	"github.com/sila-platform/siladesk/internal/app/system/session"
)

func TestVisible(t *testing.T) {
	ministry := session.Viewer{
		Roles:       session.Roles{IsMinistry: true},
		DisplayName: "Ministry of Health",
	}
	public := session.Viewer{}

	tests := []struct {
		name    string
		program Program
		viewer  session.Viewer
		want    bool
	}{
		{"ministry sees own programs", Program{MinistryOwner: "Ministry of Health"}, ministry, true},
		{"ministry match is substring", Program{MinistryOwner: "The Ministry of Health (Region West)"}, ministry, true},
		{"ministry match is case-insensitive", Program{MinistryOwner: "MINISTRY OF HEALTH"}, ministry, true},
		{"ministry hides other owners", Program{MinistryOwner: "Ministry of Education", Status: StatusActive}, ministry, false},
		{"ministry hides ownerless programs", Program{Status: StatusActive}, ministry, false},
		{"public sees active", Program{Status: StatusActive}, public, true},
		{"public hides drafts", Program{Status: "DRAFT"}, public, false},
		{"public hides statusless", Program{}, public, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Visible(tt.program, tt.viewer); got != tt.want {
				t.Errorf("Visible() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestVisible_MinistryWithoutName(t *testing.T) {
	// A ministry session with no resolvable name gets the unfiltered list
	// rather than an empty one.
	viewer := session.Viewer{Roles: session.Roles{IsMinistry: true}}
	if !Visible(Program{MinistryOwner: "Ministry of Education"}, viewer) {
		t.Error("nameless ministry session should see everything")
	}
}

func TestForm_Validate(t *testing.T) {
	f := NewForm("Ministry of Health")
	f.Name = "Food Aid"
	if errs := f.Validate(); !errs.Ok() {
		t.Errorf("complete form should validate, got %v", errs)
	}

	errs := Form{}.Validate()
	if errs["name"] == "" || errs["status"] == "" {
		t.Errorf("expected name and status errors, got %v", errs)
	}
}

func TestForm_Payload_PinsOwnerAndSanitizes(t *testing.T) {
	f := Form{
		Name:                "Food Aid",
		Description:         "Monthly support<script>alert(1)</script>",
		MinistryOwner:       "Spoofed Ministry",
		EligibilityCriteria: "<em>Low income</em>",
		Status:              StatusActive,
	}
	p := f.Payload("Ministry of Health")
	if p["ministry_owner"] != "Ministry of Health" {
		t.Errorf("owner = %v, want pinned to session ministry", p["ministry_owner"])
	}
	if p["description"] != "Monthly support" {
		t.Errorf("description not sanitized: %v", p["description"])
	}
	if p["eligibility_criteria"] != "<em>Low income</em>" {
		t.Errorf("safe markup should survive: %v", p["eligibility_criteria"])
	}

	// Without a session ministry the typed owner stands.
	p = f.Payload("")
	if p["ministry_owner"] != "Spoofed Ministry" {
		t.Errorf("owner = %v", p["ministry_owner"])
	}
}

func TestFormFrom_Defaults(t *testing.T) {
	f := FormFrom(Program{Name: "Food Aid"}, "Ministry of Health")
	if f.MinistryOwner != "Ministry of Health" {
		t.Errorf("owner = %q, want session default", f.MinistryOwner)
	}
	if f.Status != StatusActive {
		t.Errorf("status = %q, want default ACTIVE", f.Status)
	}

	f = FormFrom(Program{Name: "X", MinistryOwner: "Ministry of Education", Status: "ARCHIVED"}, "Ministry of Health")
	if f.MinistryOwner != "Ministry of Education" || f.Status != "ARCHIVED" {
		t.Errorf("existing values must win: %+v", f)
	}
}
