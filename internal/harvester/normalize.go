package harvester

import (
	"fmt"
	"time"

	"jobharvest/internal/config"
	"jobharvest/internal/logging"
	"jobharvest/pkg/models"
)

const (
	maxDescriptionLen    = 300
	descriptionEllipsis  = "..."
	descriptionSeparator = " | "
	skillsPrefix         = "Skills: "
)

// Normalizer builds canonical JobRecords from raw API listing entries.
type Normalizer struct {
	baseURL string
	now     func() time.Time
	logger  logging.Logger
}

// NewNormalizer creates a normalizer. The capture-time clock is injectable
// so tests can hold it fixed.
func NewNormalizer(cfg *config.Config, now func() time.Time) *Normalizer {
	if now == nil {
		now = time.Now
	}
	return &Normalizer{
		baseURL: cfg.Naukri.BaseURL,
		now:     now,
		logger:  logging.GetGlobalLogger(),
	}
}

// Normalize converts one raw listing entry into a JobRecord. It never
// returns an error: a failure mid-normalization yields an all-empty record,
// which the caller's title check discards.
func (n *Normalizer) Normalize(raw []byte, errs *models.ErrorLog) (record models.JobRecord) {
	defer func() {
		if r := recover(); r != nil {
			n.logger.Error("Error parsing job data", map[string]interface{}{
				"error": fmt.Sprintf("%v", r),
			})
			errs.Addf("parse error: %v", r)
			record = models.JobRecord{}
		}
	}()

	id := normalizeNumericID(safeExtract(raw, "jobId"))

	jobURL := ""
	if id != "" {
		jobURL = fmt.Sprintf("%s/job-listings-%s", n.baseURL, id)
	}

	var parts []string
	if desc := safeExtract(raw, "jobDesc"); desc != "" {
		parts = append(parts, desc)
	}
	if skills := safeExtract(raw, "tagsAndSkills"); skills != "" {
		parts = append(parts, skillsPrefix+skills)
	}

	description := ""
	for i, part := range parts {
		if i > 0 {
			description += descriptionSeparator
		}
		description += part
	}
	if len(description) > maxDescriptionLen {
		description = description[:maxDescriptionLen] + descriptionEllipsis
	}

	return models.JobRecord{
		Title:       safeExtract(raw, "post"),
		Company:     safeExtract(raw, "companyName"),
		ID:          id,
		Description: description,
		Location:    safeExtract(raw, "city"),
		URL:         jobURL,
		ScrapedAt:   n.now().Truncate(time.Second),
	}
}
