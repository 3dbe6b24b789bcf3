package dashboard_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/sila-platform/siladesk/internal/app/features/dashboard"
	"github.com/sila-platform/siladesk/internal/app/system/listctrl"
	"github.com/sila-platform/siladesk/internal/app/system/localstate"
	"github.com/sila-platform/siladesk/internal/app/system/session"
	"github.com/sila-platform/siladesk/internal/app/system/transport"
)

type fakeStats struct {
	mu sync.Mutex

	ministryGets   int
	charityGets    int
	lastQuery      string
	lastExportBody map[string]any
	exportFails    bool
	statsFail      bool
}

func (f *fakeStats) router() *chi.Mux {
	r := chi.NewRouter()
	r.Get("/ministry/statistics/", func(w http.ResponseWriter, req *http.Request) {
		f.mu.Lock()
		f.ministryGets++
		f.lastQuery = req.URL.RawQuery
		fail := f.statsFail
		f.mu.Unlock()
		if fail {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"error": "stats broke"}`))
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"total_programs":     3,
			"active_programs":    2,
			"total_applications": 10,
			"applications_by_status": []map[string]any{
				{"status": "APPROVED", "count": 4},
				{"status": "PENDING", "count": 6},
			},
			"applications_over_time": []map[string]any{{"day": "2026-08-30", "count": 2}},
		})
	})
	r.Get("/charity/statistics/", func(w http.ResponseWriter, req *http.Request) {
		f.mu.Lock()
		f.charityGets++
		f.lastQuery = req.URL.RawQuery
		f.mu.Unlock()
		json.NewEncoder(w).Encode(map[string]any{
			"total_beneficiaries": 12,
			"total_events":        5,
			"attendance_rate":     62.5,
			"registrations_by_event": []map[string]any{
				{"event__title": "Food Drive", "count": 7},
			},
		})
	})
	export := func(w http.ResponseWriter, req *http.Request) {
		f.mu.Lock()
		fails := f.exportFails
		json.NewDecoder(req.Body).Decode(&f.lastExportBody)
		f.mu.Unlock()
		if fails {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"error": "nothing to export"}`))
			return
		}
		w.Header().Set("Content-Type", "text/csv")
		w.Write([]byte("id,name\n1,Food Aid\n"))
	}
	r.Post("/ministry/statistics/", export)
	r.Post("/charity/statistics/", export)
	return r
}

func newAggregator(t *testing.T, f *fakeStats, user string) *dashboard.Aggregator {
	t.Helper()
	srv := httptest.NewServer(f.router())
	t.Cleanup(srv.Close)
	state := localstate.NewMemStore()
	state.Set(localstate.KeyToken, "tok")
	state.Set(localstate.KeyUser, user)
	sess := session.NewStore(state, zap.NewNop())
	api := transport.New(srv.URL, state, zap.NewNop())
	return dashboard.NewAggregator(api, sess, zap.NewNop())
}

const ministryUser = `{"email": "moh@gov.example", "first_name": "MoH", "is_ministry_user": true}`
const charityUser = `{"email": "amal@example.com", "charity_admin": {"id": 2, "name": "Hope"}}`

func TestRefresh_MinistryEndpointAndShape(t *testing.T) {
	f := &fakeStats{}
	agg := newAggregator(t, f, ministryUser)

	if err := agg.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	snap := agg.Snapshot()
	if snap.State != listctrl.Loaded {
		t.Fatalf("state = %v", snap.State)
	}
	if snap.Ministry == nil || snap.Charity != nil {
		t.Fatal("expected ministry stats only")
	}
	if snap.Ministry.TotalPrograms != 3 {
		t.Errorf("TotalPrograms = %d", snap.Ministry.TotalPrograms)
	}
	if got := snap.Ministry.ApprovedCount(); got != 4 {
		t.Errorf("ApprovedCount = %d", got)
	}
	if got := snap.Ministry.ApprovalRate(); got != 40 {
		t.Errorf("ApprovalRate = %d, want 40", got)
	}
	if f.charityGets != 0 {
		t.Error("ministry session must not hit the charity endpoint")
	}
}

func TestRefresh_CharityEndpoint(t *testing.T) {
	f := &fakeStats{}
	agg := newAggregator(t, f, charityUser)

	if err := agg.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	snap := agg.Snapshot()
	if snap.Charity == nil || snap.Ministry != nil {
		t.Fatal("expected charity stats only")
	}
	if snap.Charity.AttendanceRate != 62.5 {
		t.Errorf("AttendanceRate = %v", snap.Charity.AttendanceRate)
	}
	if len(snap.Charity.RegistrationsByEvent) != 1 || snap.Charity.RegistrationsByEvent[0].EventTitle != "Food Drive" {
		t.Errorf("RegistrationsByEvent = %v", snap.Charity.RegistrationsByEvent)
	}
	if f.ministryGets != 0 {
		t.Error("charity session must not hit the ministry endpoint")
	}
}

func TestRefresh_QueryCarriesOnlyNonEmptyFilters(t *testing.T) {
	f := &fakeStats{}
	agg := newAggregator(t, f, ministryUser)
	agg.SetDebounceWindow(time.Millisecond)

	agg.SetFilters(context.Background(), dashboard.Filters{
		ProgramID: "7",
		EventID:   "ignored-for-ministry",
		Status:    "  ",
		DateFrom:  "2026-01-01",
	})

	deadline := time.Now().Add(2 * time.Second)
	for {
		f.mu.Lock()
		n := f.ministryGets
		f.mu.Unlock()
		if n > 0 || time.Now().After(deadline) {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}

	f.mu.Lock()
	q := f.lastQuery
	f.mu.Unlock()
	if !strings.Contains(q, "program_id=7") || !strings.Contains(q, "date_from=2026-01-01") {
		t.Errorf("query = %q", q)
	}
	if strings.Contains(q, "status") || strings.Contains(q, "event_id") {
		t.Errorf("query carries empty or foreign filters: %q", q)
	}
}

func TestSetFilters_DebounceCollapses(t *testing.T) {
	f := &fakeStats{}
	agg := newAggregator(t, f, ministryUser)
	agg.SetDebounceWindow(40 * time.Millisecond)

	ctx := context.Background()
	agg.SetFilters(ctx, dashboard.Filters{Status: "PENDING"})
	agg.SetFilters(ctx, dashboard.Filters{Status: "APPROVED"})
	agg.SetFilters(ctx, dashboard.Filters{Status: "REJECTED"})

	time.Sleep(200 * time.Millisecond)

	f.mu.Lock()
	gets, q := f.ministryGets, f.lastQuery
	f.mu.Unlock()
	if gets != 1 {
		t.Errorf("fetches = %d, want 1", gets)
	}
	if !strings.Contains(q, "status=REJECTED") {
		t.Errorf("query = %q, want final filter values", q)
	}
}

func TestRefresh_FailureClearsStats(t *testing.T) {
	f := &fakeStats{}
	agg := newAggregator(t, f, ministryUser)

	if err := agg.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	f.mu.Lock()
	f.statsFail = true
	f.mu.Unlock()

	if err := agg.Refresh(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	snap := agg.Snapshot()
	if snap.State != listctrl.Failed {
		t.Errorf("state = %v", snap.State)
	}
	if snap.Ministry != nil {
		t.Error("stale stats must be cleared on failure")
	}
	if snap.Err == "" {
		t.Error("expected a user-readable error message")
	}
}

func TestClose_DiscardsDebouncedRefresh(t *testing.T) {
	f := &fakeStats{}
	agg := newAggregator(t, f, ministryUser)
	agg.SetDebounceWindow(30 * time.Millisecond)

	agg.SetFilters(context.Background(), dashboard.Filters{Status: "PENDING"})
	agg.Close()

	time.Sleep(120 * time.Millisecond)
	f.mu.Lock()
	gets := f.ministryGets
	f.mu.Unlock()
	if gets != 0 {
		t.Errorf("fetches after Close = %d, want 0", gets)
	}
}

func TestExport_WritesDatedCSV(t *testing.T) {
	f := &fakeStats{}
	agg := newAggregator(t, f, ministryUser)
	agg.SetDebounceWindow(time.Hour) // keep the debounce out of the way
	agg.SetFilters(context.Background(), dashboard.Filters{Status: "APPROVED"})

	dir := t.TempDir()
	out, err := agg.Export(context.Background(), dir)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}

	wantName := "ministry_report_" + time.Now().UTC().Format("2006-01-02") + ".csv"
	if filepath.Base(out) != wantName {
		t.Errorf("file = %q, want %q", filepath.Base(out), wantName)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	if !strings.HasPrefix(string(data), "id,name") {
		t.Errorf("content = %q", data)
	}

	f.mu.Lock()
	body := f.lastExportBody
	f.mu.Unlock()
	if body["export_type"] != "all" {
		t.Errorf("export body = %v", body)
	}
	if body["status"] != "APPROVED" {
		t.Errorf("export body missing filters: %v", body)
	}
}

func TestExport_CharityFilename(t *testing.T) {
	f := &fakeStats{}
	agg := newAggregator(t, f, charityUser)

	out, err := agg.Export(context.Background(), t.TempDir())
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if !strings.HasPrefix(filepath.Base(out), "charity_report_") {
		t.Errorf("file = %q", out)
	}
}

func TestExport_SurfacesBackendError(t *testing.T) {
	f := &fakeStats{exportFails: true}
	agg := newAggregator(t, f, ministryUser)

	_, err := agg.Export(context.Background(), t.TempDir())
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "nothing to export") {
		t.Errorf("err = %v, want backend's error field", err)
	}
}
