package testcandidates

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/okian/scoutboard/pkg/logger"
)

// File permission constants.
const (
	directoryPermission = 0750
)

// Run executes the complete seed-and-verify cycle.
func Run(ctx context.Context, config *Config) error {
	stats := &Stats{
		StartTime: time.Now(),
	}

	logger.Get().Info(ctx, "starting scoutboard candidate seed run",
		logger.String("baseURL", config.BaseURL),
		logger.Int("candidates", config.NumCandidates),
		logger.Int("workers", config.Workers),
		logger.String("timeout", config.Timeout.String()),
		logger.String("logFile", config.LogFile),
		logger.Any("verbose", config.Verbose))

	// Step 1: Check service health
	if err := checkServiceHealth(ctx, config); err != nil {
		return fmt.Errorf("service health check failed: %w", err)
	}

	// Step 2: Generate candidates
	candidates, err := generateCandidates(ctx, config, stats)
	if err != nil {
		return fmt.Errorf("candidate generation failed: %w", err)
	}

	// Step 3: Submit candidates concurrently
	if err := submitCandidates(ctx, config, candidates, stats); err != nil {
		return fmt.Errorf("candidate submission failed: %w", err)
	}

	// Step 4: Wait for enrichment workers to drain the queue
	logger.Get().Info(ctx, "waiting for candidates to be processed")
	time.Sleep(ProcessingDelay)

	// Step 5: Retrieve the analytics views
	summary, err := fetchAnalysis(ctx, config, stats)
	if err != nil {
		return fmt.Errorf("analysis retrieval failed: %w", err)
	}
	buckets, err := fetchTrends(ctx, config, stats)
	if err != nil {
		return fmt.Errorf("trend retrieval failed: %w", err)
	}
	breakdown, err := fetchBreakdown(ctx, config, "role", stats)
	if err != nil {
		return fmt.Errorf("breakdown retrieval failed: %w", err)
	}

	// Step 6: Verify results
	if err := verifyResults(ctx, config, candidates, summary, buckets, breakdown, stats); err != nil {
		return fmt.Errorf("result verification failed: %w", err)
	}

	// Step 7: Save candidates to file
	if err := saveCandidatesToFile(ctx, config, candidates); err != nil {
		logger.Get().Warn(ctx, "failed to save candidates to file", logger.Error(err))
	}

	// Final statistics
	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)

	displayFinalStats(stats)

	logger.Get().Info(ctx, "seed run completed successfully")
	return nil
}

// checkServiceHealth verifies the service is running.
func checkServiceHealth(ctx context.Context, config *Config) error {
	logger.Get().Info(ctx, "checking service health")

	client := newHTTPClient(config.Timeout)
	url := config.BaseURL + "/healthz"

	resp, err := client.Get(ctx, url)
	if err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logger.Get().Error(context.Background(), "failed to close response body", logger.Error(err))
		}
	}()

	// Accept any 200 response as healthy (the service returns Prometheus metrics)
	if resp.StatusCode != StatusOK {
		return fmt.Errorf("service health check failed with status: %d", resp.StatusCode)
	}

	logger.Get().Info(ctx, "service is healthy")
	return nil
}

// saveCandidatesToFile saves the generated candidates to a JSON file.
func saveCandidatesToFile(ctx context.Context, config *Config, candidates []Candidate) error {
	if len(candidates) == 0 {
		return fmt.Errorf("no candidates to save")
	}

	filename := config.OutputFile
	if filename == "" {
		timestamp := time.Now().Format("20060102_150405")
		filename = "generated_candidates_" + timestamp + ".json"
	}

	dir := filepath.Dir(filename)
	if dir != "." {
		if err := os.MkdirAll(dir, directoryPermission); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			logger.Get().Error(context.Background(), "failed to close file", logger.Error(err))
		}
	}()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(candidates); err != nil {
		return fmt.Errorf("failed to encode candidates: %w", err)
	}

	logger.Get().Info(ctx, "candidates saved to file", logger.String("filename", filename))
	return nil
}

// displayFinalStats prints the final run statistics.
func displayFinalStats(stats *Stats) {
	var successRate, candidatesPerSecond float64

	if stats.CandidatesSubmitted > 0 {
		successRate = float64(stats.CandidatesSuccessful) / float64(stats.CandidatesSubmitted) * PercentageMultiplier
	}

	if stats.Duration > 0 {
		candidatesPerSecond = float64(stats.CandidatesSubmitted) / stats.Duration.Seconds()
	}

	logger.Get().Info(context.Background(), "final statistics",
		logger.Int("candidatesGenerated", stats.CandidatesGenerated),
		logger.Int("candidatesSubmitted", stats.CandidatesSubmitted),
		logger.Int("candidatesSuccessful", stats.CandidatesSuccessful),
		logger.Int("candidatesDuplicate", stats.CandidatesDuplicate),
		logger.Int("candidatesFailed", stats.CandidatesFailed),
		logger.Int("trendBuckets", stats.TrendBuckets),
		logger.Int("breakdownGroups", stats.BreakdownGroups),
		logger.String("duration", stats.Duration.String()),
		logger.Float64("successRate", successRate),
		logger.Float64("candidatesPerSecond", candidatesPerSecond))
}
