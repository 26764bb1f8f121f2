package testcandidates

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/okian/scoutboard/pkg/logger"
)

// fetchAnalysis retrieves the discrepancy summary from the service.
func fetchAnalysis(ctx context.Context, config *Config, stats *Stats) (Analysis, error) {
	client := newHTTPClient(config.Timeout)

	resp, err := client.Get(ctx, config.BaseURL+"/analysis")
	if err != nil {
		return Analysis{}, fmt.Errorf("analysis request failed: %w", err)
	}
	body, err := readResponseBody(resp)
	if err != nil {
		return Analysis{}, fmt.Errorf("failed to read analysis response: %w", err)
	}
	if resp.StatusCode != StatusOK {
		return Analysis{}, fmt.Errorf("analysis request returned status %d", resp.StatusCode)
	}

	var summary Analysis
	if err := json.Unmarshal(body, &summary); err != nil {
		return Analysis{}, fmt.Errorf("failed to decode analysis response: %w", err)
	}

	logger.Get().Info(ctx, "fetched analysis",
		logger.Int("totalCandidates", summary.TotalCandidates),
		logger.Float64("averageDiscrepancy", summary.AverageDiscrepancy))
	return summary, nil
}

// fetchTrends retrieves the weekly trend buckets from the service.
func fetchTrends(ctx context.Context, config *Config, stats *Stats) ([]TrendBucket, error) {
	client := newHTTPClient(config.Timeout)

	resp, err := client.Get(ctx, config.BaseURL+"/trends")
	if err != nil {
		return nil, fmt.Errorf("trends request failed: %w", err)
	}
	body, err := readResponseBody(resp)
	if err != nil {
		return nil, fmt.Errorf("failed to read trends response: %w", err)
	}
	if resp.StatusCode != StatusOK {
		return nil, fmt.Errorf("trends request returned status %d", resp.StatusCode)
	}

	var buckets []TrendBucket
	if err := json.Unmarshal(body, &buckets); err != nil {
		return nil, fmt.Errorf("failed to decode trends response: %w", err)
	}

	stats.TrendBuckets = len(buckets)
	logger.Get().Info(ctx, "fetched trends", logger.Int("buckets", len(buckets)))
	return buckets, nil
}

// fetchBreakdown retrieves one dimension breakdown from the service.
func fetchBreakdown(ctx context.Context, config *Config, by string, stats *Stats) (map[string]DimensionStats, error) {
	client := newHTTPClient(config.Timeout)

	resp, err := client.Get(ctx, config.BaseURL+"/breakdown?by="+by)
	if err != nil {
		return nil, fmt.Errorf("breakdown request failed: %w", err)
	}
	body, err := readResponseBody(resp)
	if err != nil {
		return nil, fmt.Errorf("failed to read breakdown response: %w", err)
	}
	if resp.StatusCode != StatusOK {
		return nil, fmt.Errorf("breakdown request returned status %d", resp.StatusCode)
	}

	var groups map[string]DimensionStats
	if err := json.Unmarshal(body, &groups); err != nil {
		return nil, fmt.Errorf("failed to decode breakdown response: %w", err)
	}

	stats.BreakdownGroups += len(groups)
	logger.Get().Info(ctx, "fetched breakdown",
		logger.String("by", by),
		logger.Int("groups", len(groups)))
	return groups, nil
}
