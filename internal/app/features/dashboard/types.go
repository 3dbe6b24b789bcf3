// internal/app/features/dashboard/types.go

// Package dashboard aggregates the role-specific statistics views and the
// CSV report export.
package dashboard

// Statistics endpoints.
const (
	MinistryStatsPath = "/ministry/statistics/"
	CharityStatsPath  = "/charity/statistics/"
)

// Filters narrow the statistics queries. The program filter only applies
// to the ministry view and the event filter only to the charity view;
// the rest are shared. Empty values are omitted from the query.
type Filters struct {
	ProgramID string
	EventID   string
	Status    string
	DateFrom  string
	DateTo    string
}

// StatusCount is one slice of an applications-by-status breakdown.
type StatusCount struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
}

// ProgramCount is one bar of the applications-by-program chart. The key
// names follow the backend's ORM-style aggregation output.
type ProgramCount struct {
	ProgramName string `json:"program__name"`
	Count       int    `json:"count"`
}

// CharityCount is one bar of the top-charities-by-applications chart.
type CharityCount struct {
	CharityName string `json:"beneficiary__charity__name"`
	Count       int    `json:"count"`
}

// EventCount is one bar of the registrations-by-event chart.
type EventCount struct {
	EventTitle string `json:"event__title"`
	Count      int    `json:"count"`
}

// TimePoint is one point of a per-day series.
type TimePoint struct {
	Day   string `json:"day"`
	Count int    `json:"count"`
}

// ProgramSummary is one row of the ministry's program table.
type ProgramSummary struct {
	ID                  int64  `json:"id"`
	Name                string `json:"name"`
	MinistryOwner       string `json:"ministry_owner,omitempty"`
	Status              string `json:"status,omitempty"`
	TotalApplications   int    `json:"total_applications"`
	UniqueBeneficiaries int    `json:"unique_beneficiaries"`
}

// EventSummary is one row of the charity's event table.
type EventSummary struct {
	ID                   int64  `json:"id"`
	Title                string `json:"title"`
	EventDate            string `json:"event_date,omitempty"`
	Location             string `json:"location,omitempty"`
	MaxCapacity          int    `json:"max_capacity"`
	CurrentRegistrations int    `json:"current_registrations"`
	TotalRegistrations   int    `json:"total_registrations"`
	AttendedCount        int    `json:"attended_count"`
	IsActive             bool   `json:"is_active"`
}

// MinistryStats is the ministry statistics document.
type MinistryStats struct {
	TotalPrograms         int              `json:"total_programs"`
	ActivePrograms        int              `json:"active_programs"`
	TotalApplications     int              `json:"total_applications"`
	UniqueBeneficiaries   int              `json:"unique_beneficiaries"`
	AvgProcessingDays     *float64         `json:"avg_processing_days"`
	ApplicationsByStatus  []StatusCount    `json:"applications_by_status"`
	ApplicationsByProgram []ProgramCount   `json:"applications_by_program"`
	ApplicationsByCharity []CharityCount   `json:"applications_by_charity"`
	ApplicationsOverTime  []TimePoint      `json:"applications_over_time"`
	ProgramsSummary       []ProgramSummary `json:"programs_summary"`
}

// ApprovedCount returns the APPROVED slice of the status breakdown, 0 when
// absent.
func (m *MinistryStats) ApprovedCount() int {
	return statusCount(m.ApplicationsByStatus, "APPROVED")
}

// PendingCount returns the PENDING slice of the status breakdown.
func (m *MinistryStats) PendingCount() int {
	return statusCount(m.ApplicationsByStatus, "PENDING")
}

// ApprovalRate is the approved share of all applications, in whole
// percent. Zero applications means zero percent.
func (m *MinistryStats) ApprovalRate() int {
	if m.TotalApplications <= 0 {
		return 0
	}
	return int(float64(m.ApprovedCount())/float64(m.TotalApplications)*100 + 0.5)
}

// CharityStats is the charity statistics document.
type CharityStats struct {
	TotalBeneficiaries    int            `json:"total_beneficiaries"`
	ActiveBeneficiaries   int            `json:"active_beneficiaries"`
	TotalEvents           int            `json:"total_events"`
	ActiveEvents          int            `json:"active_events"`
	UpcomingEvents        int            `json:"upcoming_events"`
	TotalRegistrations    int            `json:"total_registrations"`
	AttendedRegistrations int            `json:"attended_registrations"`
	AttendanceRate        float64        `json:"attendance_rate"`
	TotalApplications     int            `json:"total_applications"`
	ApplicationsByStatus  []StatusCount  `json:"applications_by_status"`
	RegistrationsByEvent  []EventCount   `json:"registrations_by_event"`
	RegistrationsOverTime []TimePoint    `json:"registrations_over_time"`
	EventsSummary         []EventSummary `json:"events_summary"`
}

func statusCount(breakdown []StatusCount, status string) int {
	for _, s := range breakdown {
		if s.Status == status {
			return s.Count
		}
	}
	return 0
}
