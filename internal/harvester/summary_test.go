package harvester

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobharvest/pkg/models"
)

func resultWithCompanies(companies ...string) *models.HarvestResult {
	result := &models.HarvestResult{Errors: models.NewErrorLog()}
	for i, company := range companies {
		result.Records = append(result.Records, models.JobRecord{
			Title:    fmt.Sprintf("Role %d", i),
			Company:  company,
			Location: "Pune",
		})
	}
	return result
}

func TestSummarizeCountsAndOrder(t *testing.T) {
	result := resultWithCompanies("Acme", "Acme", "Initech")

	summary := Summarize(result)

	assert.Equal(t, 3, summary.TotalJobs)
	assert.Equal(t, 2, summary.UniqueCompanies)
	assert.Equal(t, 1, summary.UniqueLocations)
	require.Len(t, summary.TopCompanies, 2)
	assert.Equal(t, models.FrequencyEntry{Name: "Acme", Count: 2}, summary.TopCompanies[0])
	assert.Equal(t, models.FrequencyEntry{Name: "Initech", Count: 1}, summary.TopCompanies[1])
}

func TestSummarizeTiesKeepFirstEncounteredOrder(t *testing.T) {
	result := resultWithCompanies("Zeta", "Alpha", "Zeta", "Alpha", "Mid")

	summary := Summarize(result)

	require.Len(t, summary.TopCompanies, 3)
	assert.Equal(t, "Zeta", summary.TopCompanies[0].Name, "tied counts stay in first-seen order")
	assert.Equal(t, "Alpha", summary.TopCompanies[1].Name)
	assert.Equal(t, "Mid", summary.TopCompanies[2].Name)
}

func TestSummarizeTopListTruncation(t *testing.T) {
	var companies []string
	for i := 0; i < 15; i++ {
		companies = append(companies, fmt.Sprintf("Company %d", i))
	}
	result := resultWithCompanies(companies...)

	summary := Summarize(result)

	assert.Equal(t, 15, summary.UniqueCompanies, "unique count reflects the full table")
	assert.Len(t, summary.TopCompanies, 10, "top list is capped")
}

func TestSummarizeSuccessRate(t *testing.T) {
	t.Run("No errors yields literal 100%", func(t *testing.T) {
		summary := Summarize(resultWithCompanies("Acme"))
		assert.Equal(t, "100%", summary.SuccessRate)
	})

	t.Run("Errors yield one decimal place", func(t *testing.T) {
		result := resultWithCompanies("Acme", "Acme", "Initech")
		result.Errors.Add("request failed")
		summary := Summarize(result)
		assert.Equal(t, "75.0%", summary.SuccessRate)
		assert.Equal(t, 1, summary.ErrorsEncountered)
	})
}

func TestSummarizeEmptyResult(t *testing.T) {
	result := &models.HarvestResult{Errors: models.NewErrorLog()}
	result.Errors.Add("fetch failed")

	summary := Summarize(result)

	assert.Equal(t, 0, summary.TotalJobs)
	assert.Empty(t, summary.TopCompanies)
	assert.Empty(t, summary.TopLocations)
	assert.Equal(t, 1, summary.ErrorsEncountered)
	assert.Empty(t, summary.SuccessRate)
}
