package export

import (
	"fmt"
	"path/filepath"

	"jobharvest/internal/config"
	"jobharvest/internal/logging"
	"jobharvest/pkg/models"
	"jobharvest/pkg/utils"
)

// timestampLayout is the capture-time format used in output files.
const timestampLayout = "2006-01-02 15:04:05"

// recordHeader is the column order shared by all tabular outputs.
var recordHeader = []string{
	"job_title",
	"company_name",
	"job_id",
	"job_description",
	"location",
	"job_url",
	"scraped_at",
}

// recordRow flattens a JobRecord into a row matching recordHeader.
func recordRow(record models.JobRecord) []string {
	return []string{
		record.Title,
		record.Company,
		record.ID,
		record.Description,
		record.Location,
		record.URL,
		record.ScrapedAt.Format(timestampLayout),
	}
}

// Exporter writes harvest results to tabular files.
type Exporter struct {
	cfg    *config.Config
	logger logging.Logger
}

// NewExporter creates an exporter from configuration.
func NewExporter(cfg *config.Config) *Exporter {
	return &Exporter{
		cfg:    cfg,
		logger: logging.GetGlobalLogger(),
	}
}

// BaseFilename derives the output filename stem from the search inputs,
// e.g. "naukri_python_developer_bangalore".
func BaseFilename(keyword, location string) string {
	name := "naukri_" + utils.SanitizeFilename(keyword)
	if location != "" {
		name += "_" + utils.SanitizeFilename(location)
	}
	return name
}

// ExportAll writes the configured output formats for a harvest result and
// returns the paths written. An empty result set writes nothing.
func (e *Exporter) ExportAll(result *models.HarvestResult) ([]string, error) {
	if len(result.Records) == 0 {
		e.logger.Warn("No jobs to save", map[string]interface{}{
			"keyword": result.Keyword,
		})
		return nil, nil
	}

	base := filepath.Join(e.cfg.Export.OutputDir, BaseFilename(result.Keyword, result.Location))

	var paths []string
	for _, format := range e.cfg.Export.Formats {
		var (
			path string
			err  error
		)

		switch format {
		case "csv":
			path = base + ".csv"
			err = e.WriteCSV(result.Records, path)
		case "xlsx":
			path = base + ".xlsx"
			err = e.WriteXLSX(result.Records, path)
		default:
			return paths, utils.NewExportError(fmt.Sprintf("unsupported export format: %s", format))
		}

		if err != nil {
			return paths, err
		}

		e.logger.Info("Saved jobs to file", map[string]interface{}{
			"file": path,
			"jobs": len(result.Records),
		})
		paths = append(paths, path)
	}

	return paths, nil
}
