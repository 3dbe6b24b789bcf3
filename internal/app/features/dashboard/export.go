// internal/app/features/dashboard/export.go
package dashboard

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/sila-platform/siladesk/internal/app/system/timeouts"
)

// ExportType covers every record type in one report.
const ExportType = "all"

// Export posts the current filters to the role's statistics endpoint and
// writes the returned CSV into dir as <role>_report_<date>.csv, returning
// the written path. The backend's error field, when present, comes back in
// the returned error; a silent failure is never possible.
func (a *Aggregator) Export(ctx context.Context, dir string) (string, error) {
	path, params := a.statsPath()
	body := map[string]any{"export_type": ExportType}
	for key, value := range params {
		body[key] = value
	}

	ctx, cancel := timeouts.WithTimeout(ctx, timeouts.Long(), a.log, "report export")
	defer cancel()

	raw, err := a.api.Do(ctx, http.MethodPost, path, body)
	if err != nil {
		a.log.Warn("report export failed", zap.Error(err))
		return "", err
	}

	role := "charity"
	if path == MinistryStatsPath {
		role = "ministry"
	}
	name := role + "_report_" + time.Now().UTC().Format("2006-01-02") + ".csv"
	out := filepath.Join(dir, name)
	if err := os.WriteFile(out, raw, 0o644); err != nil {
		return "", err
	}
	return out, nil
}
