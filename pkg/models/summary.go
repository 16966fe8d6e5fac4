package models

// FrequencyEntry is one row of a frequency table, e.g. a company and the
// number of listings attributed to it.
type FrequencyEntry struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Summary is a derived, read-only view over a HarvestResult.
type Summary struct {
	TotalJobs         int              `json:"total_jobs"`
	UniqueCompanies   int              `json:"unique_companies"`
	UniqueLocations   int              `json:"unique_locations"`
	TopCompanies      []FrequencyEntry `json:"top_companies,omitempty"`
	TopLocations      []FrequencyEntry `json:"top_locations,omitempty"`
	ErrorsEncountered int              `json:"errors_encountered"`
	SuccessRate       string           `json:"success_rate,omitempty"`
}
