// Package trend partitions candidates into rolling Monday-aligned weeks.
//
// The trend view always covers exactly four calendar weeks ending at
// the week containing the reference time. Week windows are derived by
// pure functions over immutable time values; nothing here mutates a
// date in place. Records without a usable date, or dated outside every
// window, simply do not participate in the trend view.
package trend

import (
	"math"
	"time"

	"github.com/okian/scoutboard/internal/domain/model"
)

// Weeks is the fixed number of trend windows.
const Weeks = 4

// alignedTolerance is the absolute discrepancy at or under which the AI
// and human scores are considered aligned.
const alignedTolerance = 1.0

// Bucket holds volume, quality and alignment metrics for one week.
// Buckets are value types built once per Compute call and never
// mutated afterwards.
type Bucket struct {
	WeekStart time.Time

	// TotalCandidates counts every record dated inside the window,
	// scored or not; ScoredCandidates is the sub-count with both scores.
	TotalCandidates  int
	ScoredCandidates int

	// Discrepancy statistics over the scored sub-count. All zero when
	// ScoredCandidates is zero.
	AverageDiscrepancy         float64
	AverageAbsoluteDiscrepancy float64
	AIHigherCount              int
	HumanHigherCount           int
	EqualCount                 int
	MaxDiscrepancy             float64
	MinDiscrepancy             float64

	// AIAccuracy is the percentage of scored records whose absolute
	// discrepancy is at most alignedTolerance.
	AIAccuracy float64
}

// WeekEnd returns the last instant of the bucket's window.
func (b Bucket) WeekEnd() time.Time {
	return WeekEnd(b.WeekStart)
}

// WeekStart returns the Monday 00:00:00 of the week containing t, in
// t's location. Sunday counts as day 7 of the week started the prior
// Monday, not day 0 of a new one.
func WeekStart(t time.Time) time.Time {
	wd := int(t.Weekday())
	if wd == 0 {
		wd = 7
	}
	monday := t.AddDate(0, 0, -(wd - 1))
	y, m, d := monday.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// WeekEnd returns the last instant of the week starting at start:
// the following Sunday at 23:59:59.999.
func WeekEnd(start time.Time) time.Time {
	return start.AddDate(0, 0, 7).Add(-time.Millisecond)
}

// Compute partitions records into the four Monday-aligned weeks ending
// at the week containing now and derives per-week statistics. The
// result always has exactly Weeks buckets, oldest first, contiguous
// and non-overlapping regardless of the weekday now falls on.
// Deterministic for fixed (records, now).
func Compute(records []model.CandidateRecord, now time.Time) []Bucket {
	windows := weekWindows(now)
	groups := partition(records, windows)

	buckets := make([]Bucket, len(windows))
	for i := range windows {
		buckets[i] = deriveBucket(windows[i].start, groups[i])
	}
	return buckets
}

// window is a closed [start, end] week interval.
type window struct {
	start time.Time
	end   time.Time
}

// weekWindows builds the Weeks windows oldest to newest. Stepping back
// in whole weeks before rolling to Monday keeps consecutive windows
// contiguous by construction.
func weekWindows(now time.Time) []window {
	windows := make([]window, 0, Weeks)
	for i := Weeks - 1; i >= 0; i-- {
		start := WeekStart(now.AddDate(0, 0, -7*i))
		windows = append(windows, window{start: start, end: WeekEnd(start)})
	}
	return windows
}

// partition assigns each dated record to the single window containing
// its DateAdded. Windows are disjoint, so the first inclusive match is
// the only one. Dateless and out-of-range records are dropped from the
// trend view; they still exist for non-date-dependent aggregates.
func partition(records []model.CandidateRecord, windows []window) [][]model.CandidateRecord {
	groups := make([][]model.CandidateRecord, len(windows))
	for _, r := range records {
		if !r.HasDate() {
			continue
		}
		for i := range windows {
			if !r.DateAdded.Before(windows[i].start) && !r.DateAdded.After(windows[i].end) {
				groups[i] = append(groups[i], r)
				break
			}
		}
	}
	return groups
}

// deriveBucket folds one week's records into a Bucket. Division by the
// scored count only happens when it is non-zero.
func deriveBucket(start time.Time, group []model.CandidateRecord) Bucket {
	b := Bucket{WeekStart: start, TotalCandidates: len(group)}

	var sum, absSum float64
	var aligned int
	for _, r := range group {
		if !r.Scored() {
			continue
		}
		d := r.Discrepancy()
		if b.ScoredCandidates == 0 {
			b.MaxDiscrepancy = d
			b.MinDiscrepancy = d
		} else {
			if d > b.MaxDiscrepancy {
				b.MaxDiscrepancy = d
			}
			if d < b.MinDiscrepancy {
				b.MinDiscrepancy = d
			}
		}
		b.ScoredCandidates++
		sum += d
		absSum += math.Abs(d)
		switch {
		case d > 0:
			b.AIHigherCount++
		case d < 0:
			b.HumanHigherCount++
		default:
			b.EqualCount++
		}
		if math.Abs(d) <= alignedTolerance {
			aligned++
		}
	}

	if b.ScoredCandidates > 0 {
		n := float64(b.ScoredCandidates)
		b.AverageDiscrepancy = sum / n
		b.AverageAbsoluteDiscrepancy = absSum / n
		b.AIAccuracy = float64(aligned) / n * 100
	}
	return b
}
