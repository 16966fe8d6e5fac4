package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"jobharvest/internal/config"
	"jobharvest/internal/export"
	"jobharvest/internal/harvester"
	"jobharvest/internal/logging"
	"jobharvest/internal/naukri"
	"jobharvest/pkg/models"

	"github.com/spf13/cobra"
)

var (
	cfgPath    string
	maxResults int
	outputDir  string
	formats    []string
)

var rootCmd = &cobra.Command{
	Use:   "harvester <keyword> [location]",
	Short: "Harvest job listings from Naukri into CSV/XLSX files",
	Long: `Harvester fetches paginated job search results, normalizes each
listing into a flat record and writes the collection to tabular files.

Examples:
  harvester "python developer"
  harvester "data engineer" bangalore
  harvester "golang" mumbai --max-results 50`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runHarvest,
}

func init() {
	rootCmd.Flags().StringVarP(&cfgPath, "config", "c", "configs/config.yaml", "path to configuration file")
	rootCmd.Flags().IntVarP(&maxResults, "max-results", "n", 0, "maximum number of jobs to collect (default from config)")
	rootCmd.Flags().StringVarP(&outputDir, "output-dir", "o", "", "directory for output files (default from config)")
	rootCmd.Flags().StringSliceVarP(&formats, "format", "f", nil, "output formats: csv, xlsx (default from config)")
}

func runHarvest(cmd *cobra.Command, args []string) error {
	keyword := args[0]
	location := ""
	if len(args) > 1 {
		location = args[1]
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if outputDir != "" {
		cfg.Export.OutputDir = outputDir
	}
	if len(formats) > 0 {
		cfg.Export.Formats = formats
	}

	if err := logging.InitializeLogging(cfg); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	defer logging.CloseLogging()

	client := naukri.NewClient(cfg)
	h := harvester.New(cfg, client)

	result := h.Run(context.Background(), keyword, location, maxResults)

	if len(result.Records) == 0 {
		fmt.Println("No jobs were collected.")
		if result.Errors.Count() > 0 {
			fmt.Printf("Errors encountered: %d\n", result.Errors.Count())
			for _, e := range result.Errors.Entries() {
				fmt.Printf("  - %s\n", e)
			}
		}
		return fmt.Errorf("harvest produced no results")
	}

	exporter := export.NewExporter(cfg)
	files, err := exporter.ExportAll(result)
	if err != nil {
		return fmt.Errorf("failed to export results: %w", err)
	}

	printSummary(result, harvester.Summarize(result), files)
	return nil
}

// printSummary prints the completion banner with aggregate statistics and a
// few sample records.
func printSummary(result *models.HarvestResult, summary models.Summary, files []string) {
	line := strings.Repeat("=", 60)

	fmt.Println()
	fmt.Println(line)
	fmt.Println("HARVEST SUMMARY")
	fmt.Println(line)
	fmt.Printf("Keyword:          %s\n", result.Keyword)
	if result.Location != "" {
		fmt.Printf("Location:         %s\n", result.Location)
	}
	fmt.Printf("Jobs collected:   %d\n", summary.TotalJobs)
	fmt.Printf("Pages fetched:    %d\n", result.PagesFetched)
	fmt.Printf("Unique companies: %d\n", summary.UniqueCompanies)
	fmt.Printf("Unique locations: %d\n", summary.UniqueLocations)
	fmt.Printf("Errors:           %d\n", summary.ErrorsEncountered)
	fmt.Printf("Success rate:     %s\n", summary.SuccessRate)

	if len(summary.TopCompanies) > 0 {
		fmt.Println("\nTop companies:")
		printFrequencies(summary.TopCompanies, 5)
	}
	if len(summary.TopLocations) > 0 {
		fmt.Println("\nTop locations:")
		printFrequencies(summary.TopLocations, 5)
	}

	fmt.Println("\nSample jobs:")
	for i, record := range result.Records {
		if i >= 3 {
			break
		}
		fmt.Printf("  %d. %s at %s (%s)\n", i+1, record.Title, record.Company, record.Location)
	}

	if len(files) > 0 {
		fmt.Println("\nOutput files:")
		for _, f := range files {
			fmt.Printf("  %s\n", f)
		}
	}
	fmt.Println(line)
}

func printFrequencies(entries []models.FrequencyEntry, limit int) {
	for i, entry := range entries {
		if i >= limit {
			break
		}
		name := entry.Name
		if name == "" {
			name = "(unknown)"
		}
		fmt.Printf("  %-40s %s\n", name, strconv.Itoa(entry.Count))
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
