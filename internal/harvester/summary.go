package harvester

import (
	"fmt"
	"sort"

	"jobharvest/pkg/models"
)

const topEntriesLimit = 10

// Summarize computes aggregate statistics over a harvest result. The input
// may be a finished or partial harvest; it is not modified.
func Summarize(result *models.HarvestResult) models.Summary {
	errorCount := result.Errors.Count()

	if len(result.Records) == 0 {
		return models.Summary{
			ErrorsEncountered: errorCount,
		}
	}

	companies := make([]string, 0, len(result.Records))
	locations := make([]string, 0, len(result.Records))
	for _, record := range result.Records {
		companies = append(companies, record.Company)
		locations = append(locations, record.Location)
	}

	topCompanies := frequencyTable(companies)
	topLocations := frequencyTable(locations)

	summary := models.Summary{
		TotalJobs:         len(result.Records),
		UniqueCompanies:   len(topCompanies),
		UniqueLocations:   len(topLocations),
		ErrorsEncountered: errorCount,
		SuccessRate:       successRate(len(result.Records), errorCount),
	}

	if len(topCompanies) > topEntriesLimit {
		topCompanies = topCompanies[:topEntriesLimit]
	}
	if len(topLocations) > topEntriesLimit {
		topLocations = topLocations[:topEntriesLimit]
	}
	summary.TopCompanies = topCompanies
	summary.TopLocations = topLocations

	return summary
}

// frequencyTable counts occurrences of each value, sorted descending by
// count. Ties keep first-encountered order.
func frequencyTable(values []string) []models.FrequencyEntry {
	counts := make(map[string]int)
	var order []string
	for _, v := range values {
		if _, seen := counts[v]; !seen {
			order = append(order, v)
		}
		counts[v]++
	}

	entries := make([]models.FrequencyEntry, 0, len(order))
	for _, name := range order {
		entries = append(entries, models.FrequencyEntry{Name: name, Count: counts[name]})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Count > entries[j].Count
	})

	return entries
}

// successRate formats retained/(retained+errors) as a percentage with one
// decimal place, or the literal "100%" when no errors were recorded.
func successRate(retained, errorCount int) string {
	if errorCount == 0 {
		return "100%"
	}
	rate := float64(retained) / float64(retained+errorCount) * 100
	return fmt.Sprintf("%.1f%%", rate)
}
