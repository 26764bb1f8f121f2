package testcandidates

import (
	"context"
	"fmt"
	"log"
	"math"
	"time"
)

// floatTolerance absorbs the JSON float round-trip when comparing the
// locally recomputed summary against the service's.
const floatTolerance = 1e-6

// verifyResults sanity-checks the analytics views against each other
// and, when the submitted population is intact, against a local
// recomputation from the generated candidates.
func verifyResults(ctx context.Context, config *Config, candidates []Candidate, summary Analysis, buckets []TrendBucket, breakdown map[string]DimensionStats, stats *Stats) error {
	log.Println("verifying results...")

	if err := verifyAnalysis(summary); err != nil {
		return fmt.Errorf("analysis verification failed: %w", err)
	}
	log.Println("analysis consistency verified")

	if err := verifyTrends(buckets); err != nil {
		return fmt.Errorf("trend verification failed: %w", err)
	}
	log.Println("trend window verified")

	if err := verifyBreakdown(breakdown, stats); err != nil {
		return fmt.Errorf("breakdown verification failed: %w", err)
	}
	log.Println("breakdown totals verified")

	if err := verifyAgainstGenerated(candidates, summary, buckets, stats); err != nil {
		return fmt.Errorf("local recomputation failed: %w", err)
	}

	if config.Verbose {
		displaySummary(summary, buckets, breakdown)
	}

	log.Println("result verification completed")
	return nil
}

// verifyAnalysis checks the internal consistency of the summary.
func verifyAnalysis(summary Analysis) error {
	counted := summary.AIHigherCount + summary.HumanHigherCount + summary.EqualScoresCount
	if counted != summary.TotalCandidates {
		return fmt.Errorf("comparison counts (%d) do not add up to total candidates (%d)",
			counted, summary.TotalCandidates)
	}
	if summary.TotalCandidates > 0 {
		if summary.MinDiscrepancy > summary.MaxDiscrepancy {
			return fmt.Errorf("min discrepancy (%.3f) exceeds max (%.3f)",
				summary.MinDiscrepancy, summary.MaxDiscrepancy)
		}
		if summary.AverageDiscrepancy < summary.MinDiscrepancy || summary.AverageDiscrepancy > summary.MaxDiscrepancy {
			return fmt.Errorf("average discrepancy (%.3f) outside [min, max]", summary.AverageDiscrepancy)
		}
	}
	return nil
}

// verifyTrends checks the shape of the four-week window.
func verifyTrends(buckets []TrendBucket) error {
	if len(buckets) != 4 {
		return fmt.Errorf("expected 4 trend buckets, got %d", len(buckets))
	}
	for i, b := range buckets {
		if b.WeekStart.Weekday() != time.Monday {
			return fmt.Errorf("bucket %d does not start on a Monday: %s", i, b.WeekStart)
		}
		if i > 0 {
			gap := b.WeekStart.Sub(buckets[i-1].WeekStart)
			if gap != 7*24*time.Hour {
				return fmt.Errorf("bucket %d is not contiguous with its predecessor (gap %s)", i, gap)
			}
		}
		if b.ScoredCandidates > b.TotalCandidates {
			return fmt.Errorf("bucket %d has more scored than total candidates", i)
		}
		if b.AIAccuracy < 0 || b.AIAccuracy > 100 {
			return fmt.Errorf("bucket %d has ai_accuracy outside [0,100]: %.2f", i, b.AIAccuracy)
		}
	}
	return nil
}

// verifyBreakdown checks breakdown group totals against the run size.
func verifyBreakdown(breakdown map[string]DimensionStats, stats *Stats) error {
	total := 0
	for name, g := range breakdown {
		if g.ScoredCount > g.Total {
			return fmt.Errorf("group %q has more scored than total candidates", name)
		}
		total += g.Total
	}
	if total > stats.CandidatesSubmitted {
		return fmt.Errorf("breakdown totals (%d) exceed submitted candidates (%d)",
			total, stats.CandidatesSubmitted)
	}
	return nil
}

// verifyAgainstGenerated recomputes the expected summary and bucket
// volumes from the generated candidates and compares them with the
// service's views. Skipped when any submission failed or was flagged
// duplicate: the server-side population then differs from the local one.
func verifyAgainstGenerated(candidates []Candidate, summary Analysis, buckets []TrendBucket, stats *Stats) error {
	if stats.CandidatesFailed > 0 || stats.CandidatesDuplicate > 0 {
		log.Println("skipping local recomputation: submission losses make the populations differ")
		return nil
	}

	expected := expectedAnalysis(candidates)
	if expected.TotalCandidates != summary.TotalCandidates {
		return fmt.Errorf("scored candidate count mismatch: expected %d, got %d",
			expected.TotalCandidates, summary.TotalCandidates)
	}
	if expected.AIHigherCount != summary.AIHigherCount ||
		expected.HumanHigherCount != summary.HumanHigherCount ||
		expected.EqualScoresCount != summary.EqualScoresCount {
		return fmt.Errorf("comparison counts mismatch: expected %d/%d/%d, got %d/%d/%d",
			expected.AIHigherCount, expected.HumanHigherCount, expected.EqualScoresCount,
			summary.AIHigherCount, summary.HumanHigherCount, summary.EqualScoresCount)
	}
	if math.Abs(expected.AverageDiscrepancy-summary.AverageDiscrepancy) > floatTolerance {
		return fmt.Errorf("average discrepancy mismatch: expected %.6f, got %.6f",
			expected.AverageDiscrepancy, summary.AverageDiscrepancy)
	}

	for i, b := range buckets {
		want := countInWindow(candidates, b.WeekStart)
		if want != b.TotalCandidates {
			return fmt.Errorf("bucket %d volume mismatch: expected %d, got %d",
				i, want, b.TotalCandidates)
		}
	}

	log.Println("local recomputation matches service views")
	return nil
}

// expectedAnalysis folds the generated candidates into the summary the
// service is expected to report.
func expectedAnalysis(candidates []Candidate) Analysis {
	var out Analysis
	var sum float64
	first := true
	for _, c := range candidates {
		if c.AIScore <= 0 || c.HumanScore <= 0 {
			continue
		}
		d := c.AIScore - c.HumanScore
		sum += d
		out.TotalCandidates++
		if first {
			out.MaxDiscrepancy = d
			out.MinDiscrepancy = d
			first = false
		} else {
			if d > out.MaxDiscrepancy {
				out.MaxDiscrepancy = d
			}
			if d < out.MinDiscrepancy {
				out.MinDiscrepancy = d
			}
		}
		switch {
		case d > 0:
			out.AIHigherCount++
		case d < 0:
			out.HumanHigherCount++
		default:
			out.EqualScoresCount++
		}
	}
	if out.TotalCandidates > 0 {
		out.AverageDiscrepancy = sum / float64(out.TotalCandidates)
	}
	return out
}

// countInWindow counts candidates dated inside the week starting at
// start. Dateless and unparseable dates never land in a window,
// matching the service's silent-drop behavior.
func countInWindow(candidates []Candidate, start time.Time) int {
	end := start.AddDate(0, 0, 7)
	count := 0
	for _, c := range candidates {
		if c.DateAdded == "" {
			continue
		}
		t, err := time.Parse(time.RFC3339, c.DateAdded)
		if err != nil {
			continue
		}
		if !t.Before(start) && t.Before(end) {
			count++
		}
	}
	return count
}

// displaySummary prints the retrieved analytics for inspection.
func displaySummary(summary Analysis, buckets []TrendBucket, breakdown map[string]DimensionStats) {
	log.Printf(`discrepancy summary:
   Total scored: %d
   Average: %.3f
   Max: %.3f
   Min: %.3f
   AI higher / human higher / equal: %d / %d / %d
`, summary.TotalCandidates, summary.AverageDiscrepancy, summary.MaxDiscrepancy,
		summary.MinDiscrepancy, summary.AIHigherCount, summary.HumanHigherCount, summary.EqualScoresCount)

	log.Println("weekly trend:")
	for _, b := range buckets {
		log.Printf("   week of %s: total %d, scored %d, ai accuracy %.1f%%",
			b.WeekStart.Format("2006-01-02"), b.TotalCandidates, b.ScoredCandidates, b.AIAccuracy)
	}

	log.Println("breakdown by role:")
	for name, g := range breakdown {
		log.Printf("   %s: total %d, scored %d, avg AI %.2f, avg human %.2f",
			name, g.Total, g.ScoredCount, g.AvgAIScore, g.AvgHumanScore)
	}
}
