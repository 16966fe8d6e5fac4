package models

import "time"

// JobRecord represents one normalized job listing harvested from the search API.
// Records are created once during normalization and never mutated afterwards.
type JobRecord struct {
	Title       string    `json:"job_title"`
	Company     string    `json:"company_name"`
	ID          string    `json:"job_id"`
	Description string    `json:"job_description"`
	Location    string    `json:"location"`
	URL         string    `json:"job_url"`
	ScrapedAt   time.Time `json:"scraped_at"`
}

// IsValid reports whether the record should be retained in a harvest result.
// Listings without a title are discarded.
func (j JobRecord) IsValid() bool {
	return j.Title != ""
}
