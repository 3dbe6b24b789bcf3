package events

import (
	"encoding/json"
	"testing"

	"github.com/sila-platform/siladesk/internal/app/system/session"
)

func TestRef_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want Ref
	}{
		{"numeric id", `7`, Ref{ID: 7}},
		{"string name", `"Hope Charity"`, Ref{Name: "Hope Charity"}},
		{"object", `{"id": 3, "name": "Hope Charity"}`, Ref{ID: 3, Name: "Hope Charity"}},
		{"object alternate keys", `{"charity_id": 9, "charity_name": "Relief Org"}`, Ref{ID: 9, Name: "Relief Org"}},
		{"object prefers primary keys", `{"id": 1, "charity_id": 2, "name": "A", "charity_name": "B"}`, Ref{ID: 1, Name: "A"}},
		{"null", `null`, Ref{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var r Ref
			if err := json.Unmarshal([]byte(tt.in), &r); err != nil {
				t.Fatalf("unmarshal %s: %v", tt.in, err)
			}
			if r != tt.want {
				t.Errorf("got %+v, want %+v", r, tt.want)
			}
		})
	}
}

func TestRef_UnmarshalJSON_InsideEvent(t *testing.T) {
	raw := `{"id": 1, "title": "Food Drive", "charity": {"id": 4, "name": "Hope"}, "organizer": "Hope Charity Org"}`
	var e Event
	if err := json.Unmarshal([]byte(raw), &e); err != nil {
		t.Fatalf("unmarshal event: %v", err)
	}
	if e.Charity.ID != 4 || e.Charity.Name != "Hope" {
		t.Errorf("charity = %+v", e.Charity)
	}
	if e.Organizer.Name != "Hope Charity Org" {
		t.Errorf("organizer = %+v", e.Organizer)
	}
}

func boolPtr(b bool) *bool { return &b }

func TestVisible(t *testing.T) {
	charityViewer := session.Viewer{
		Roles:       session.Roles{IsCharityAdmin: true},
		CharityID:   4,
		CharityName: "Hope",
	}
	public := session.Viewer{}

	tests := []struct {
		name   string
		event  Event
		viewer session.Viewer
		want   bool
	}{
		{"charity match by charity id", Event{Charity: Ref{ID: 4}}, charityViewer, true},
		{"charity match by organizer id", Event{Organizer: Ref{ID: 4}}, charityViewer, true},
		{"charity match by organizer name", Event{Organizer: Ref{Name: "Hope Charity Org"}}, charityViewer, true},
		{"charity name match is case-insensitive", Event{CharityName: "HOPE FOUNDATION"}, charityViewer, true},
		{"charity no match", Event{Charity: Ref{ID: 9}, Organizer: Ref{Name: "Other Org"}}, charityViewer, false},
		{"public sees active", Event{IsActive: boolPtr(true)}, public, true},
		{"public hides inactive", Event{IsActive: boolPtr(false)}, public, false},
		{"public status fallback active", Event{Status: "ACTIVE"}, public, true},
		{"public status fallback inactive", Event{Status: "DRAFT"}, public, false},
		{"public default visible", Event{}, public, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Visible(tt.event, tt.viewer); got != tt.want {
				t.Errorf("Visible() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestVisible_CharityAdminWithoutIdentity(t *testing.T) {
	// A charity admin whose profile resolves neither id nor name sees nothing
	// rather than everyone's events.
	viewer := session.Viewer{Roles: session.Roles{IsCharityAdmin: true}}
	if Visible(Event{Charity: Ref{ID: 4}}, viewer) {
		t.Error("expected no visibility without charity identity")
	}
}

func TestForm_Validate(t *testing.T) {
	f := Form{
		Title:       "Food Drive",
		Description: "Community food drive",
		EventDate:   "2026-10-01T09:00",
		Location:    "City Hall",
		City:        "Riyadh",
		MaxCapacity: "100",
		IsActive:    true,
	}
	if errs := f.Validate(); !errs.Ok() {
		t.Errorf("complete form should validate, got %v", errs)
	}

	empty := Form{}
	errs := empty.Validate()
	for _, field := range []string{"title", "description", "event_date", "location", "city", "max_capacity"} {
		if errs[field] == "" {
			t.Errorf("expected error for %s", field)
		}
	}

	bad := f
	bad.MaxCapacity = "lots"
	if errs := bad.Validate(); errs["max_capacity"] == "" {
		t.Error("expected error for non-numeric capacity")
	}
	bad.MaxCapacity = "0"
	if errs := bad.Validate(); errs["max_capacity"] == "" {
		t.Error("expected error for zero capacity")
	}
}

func TestForm_Payload(t *testing.T) {
	f := Form{
		Title:       "Food Drive",
		Description: "<p>Open to all</p><script>alert(1)</script>",
		EventDate:   "2026-10-01T09:00",
		Location:    "City Hall",
		City:        "Riyadh",
		MaxCapacity: "100",
		IsActive:    true,
	}
	p := f.Payload()
	if p["max_capacity"] != 100 {
		t.Errorf("max_capacity = %v, want 100", p["max_capacity"])
	}
	if p["description"] != "<p>Open to all</p>" {
		t.Errorf("description not sanitized: %v", p["description"])
	}
	if p["is_active"] != true {
		t.Errorf("is_active = %v", p["is_active"])
	}
}

func TestFormFrom(t *testing.T) {
	e := Event{
		ID:          5,
		Title:       "Food Drive",
		EventDate:   "2026-10-01T09:30:00Z",
		MaxCapacity: 100,
	}
	f := FormFrom(e)
	if f.EventDate != "2026-10-01T09:30" {
		t.Errorf("EventDate = %q, want minute-precision input format", f.EventDate)
	}
	if f.MaxCapacity != "100" {
		t.Errorf("MaxCapacity = %q, want \"100\"", f.MaxCapacity)
	}
	if !f.IsActive {
		t.Error("missing is_active should edit as active")
	}

	inactive := Event{IsActive: boolPtr(false)}
	if FormFrom(inactive).IsActive {
		t.Error("inactive event should edit as inactive")
	}

	odd := Event{EventDate: "next tuesday"}
	if FormFrom(odd).EventDate != "next tuesday" {
		t.Error("unparseable date should pass through")
	}
}
