// internal/app/features/events/form.go
package events

import (
	"strconv"
	"time"

	"github.com/sila-platform/siladesk/internal/app/system/htmlsanitize"
	"github.com/sila-platform/siladesk/internal/app/system/inputval"
)

// dateInputLayout is the local datetime format the form field edits,
// minute precision with no zone.
const dateInputLayout = "2006-01-02T15:04"

// Form is the create/edit form for an event. MaxCapacity stays a string
// until submit, matching the raw field input; Payload parses it.
type Form struct {
	Title       string
	Description string
	EventDate   string
	Location    string
	City        string
	MaxCapacity string
	IsActive    bool
}

// NewForm returns the empty-defaults form. New events start active.
func NewForm() Form {
	return Form{IsActive: true}
}

// Validate collects per-field validation errors. A non-empty result blocks
// submission before any network call.
func (f Form) Validate() inputval.ValidationErrors {
	errs := inputval.ValidationErrors{}
	errs.Require("title", f.Title, "Event title is required")
	errs.Require("description", f.Description, "Description is required")
	errs.Require("event_date", f.EventDate, "Event date and time are required")
	errs.Require("location", f.Location, "Location is required")
	errs.Require("city", f.City, "City is required")
	errs.Require("max_capacity", f.MaxCapacity, "Max capacity is required")
	if f.MaxCapacity != "" {
		if n, err := strconv.Atoi(f.MaxCapacity); err != nil || n < 1 {
			errs["max_capacity"] = "Max capacity must be a positive number"
		}
	}
	return errs
}

// Payload builds the create/update request body. Capacity is parsed from
// the form string and the description sanitized.
func (f Form) Payload() map[string]any {
	capacity, _ := strconv.Atoi(f.MaxCapacity)
	return map[string]any{
		"title":        f.Title,
		"description":  htmlsanitize.Sanitize(f.Description),
		"event_date":   f.EventDate,
		"location":     f.Location,
		"city":         f.City,
		"max_capacity": capacity,
		"is_active":    f.IsActive,
	}
}

// FormFrom seeds an edit form from an existing event. The stored date is
// reformatted to the minute-precision input layout; records without the
// is_active flag edit as active.
func FormFrom(e Event) Form {
	active := true
	if e.IsActive != nil {
		active = *e.IsActive
	}
	capacity := ""
	if e.MaxCapacity > 0 {
		capacity = strconv.Itoa(e.MaxCapacity)
	}
	return Form{
		Title:       e.Title,
		Description: e.Description,
		EventDate:   inputDate(e.EventDate),
		Location:    e.Location,
		City:        e.City,
		MaxCapacity: capacity,
		IsActive:    active,
	}
}

// inputDate converts a stored event date to the form's input layout.
// Unparseable values pass through untouched so the user can fix them.
func inputDate(s string) string {
	for _, layout := range []string{time.RFC3339, dateInputLayout, "2006-01-02 15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC().Format(dateInputLayout)
		}
	}
	return s
}
