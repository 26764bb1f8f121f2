package trend_test

import (
	"testing"
	"time"

	"github.com/okian/scoutboard/internal/domain/model"
	"github.com/okian/scoutboard/internal/domain/trend"
	. "github.com/smartystreets/goconvey/convey"
)

// Wednesday 2026-08-19 12:00 UTC. The containing week runs Monday
// 2026-08-17 through Sunday 2026-08-23.
var refNow = time.Date(2026, time.August, 19, 12, 0, 0, 0, time.UTC)

func dated(ai, human float64, added time.Time) model.CandidateRecord {
	return model.CandidateRecord{AIScore: ai, HumanScore: human, DateAdded: added}
}

func TestWeekStart(t *testing.T) {
	Convey("Given dates across a single week", t, func() {
		monday := time.Date(2026, time.August, 17, 0, 0, 0, 0, time.UTC)

		Convey("Then a mid-week date rolls back to its Monday", func() {
			So(trend.WeekStart(refNow), ShouldEqual, monday)
		})

		Convey("Then a Monday with a time of day rolls to its own midnight", func() {
			at := time.Date(2026, time.August, 17, 23, 30, 0, 0, time.UTC)
			So(trend.WeekStart(at), ShouldEqual, monday)
		})

		Convey("Then Sunday belongs to the week of the preceding Monday", func() {
			sunday := time.Date(2026, time.August, 23, 10, 0, 0, 0, time.UTC)
			So(trend.WeekStart(sunday), ShouldEqual, monday)
		})
	})
}

func TestWeekEnd(t *testing.T) {
	Convey("Given a week start", t, func() {
		monday := time.Date(2026, time.August, 17, 0, 0, 0, 0, time.UTC)

		Convey("Then the week ends the following Sunday at 23:59:59.999", func() {
			want := time.Date(2026, time.August, 23, 23, 59, 59, 999_000_000, time.UTC)
			So(trend.WeekEnd(monday), ShouldEqual, want)
		})
	})
}

func TestCompute_Windows(t *testing.T) {
	Convey("Given any reference time", t, func() {
		buckets := trend.Compute(nil, refNow)

		Convey("Then exactly four buckets come back", func() {
			So(len(buckets), ShouldEqual, trend.Weeks)
		})

		Convey("Then buckets are Monday-aligned, contiguous and oldest first", func() {
			for i, b := range buckets {
				So(b.WeekStart.Weekday(), ShouldEqual, time.Monday)
				So(b.WeekStart.Hour(), ShouldEqual, 0)
				if i > 0 {
					So(b.WeekStart, ShouldEqual, buckets[i-1].WeekStart.AddDate(0, 0, 7))
				}
			}
		})

		Convey("Then the newest bucket covers the reference time", func() {
			last := buckets[trend.Weeks-1]
			So(refNow.Before(last.WeekStart), ShouldBeFalse)
			So(refNow.After(last.WeekEnd()), ShouldBeFalse)
		})
	})

	Convey("Given a reference time on a Sunday", t, func() {
		sunday := time.Date(2026, time.August, 23, 9, 0, 0, 0, time.UTC)
		buckets := trend.Compute(nil, sunday)

		Convey("Then the newest window still starts the preceding Monday", func() {
			So(buckets[trend.Weeks-1].WeekStart, ShouldEqual, time.Date(2026, time.August, 17, 0, 0, 0, 0, time.UTC))
		})
	})
}

func TestCompute_Partitioning(t *testing.T) {
	Convey("Given records spread across the four windows", t, func() {
		week0 := time.Date(2026, time.July, 28, 10, 0, 0, 0, time.UTC)  // oldest window
		week3 := time.Date(2026, time.August, 18, 10, 0, 0, 0, time.UTC) // current window
		records := []model.CandidateRecord{
			dated(8, 6, week0),
			dated(5, 5, week3),
			dated(9, 3, week3),
		}

		Convey("When computing the trend", func() {
			buckets := trend.Compute(records, refNow)

			Convey("Then each record lands in exactly one bucket", func() {
				So(buckets[0].TotalCandidates, ShouldEqual, 1)
				So(buckets[1].TotalCandidates, ShouldEqual, 0)
				So(buckets[2].TotalCandidates, ShouldEqual, 0)
				So(buckets[3].TotalCandidates, ShouldEqual, 2)
			})
		})
	})

	Convey("Given a record dated exactly at a week-end boundary", t, func() {
		// End of the third window: Sunday 2026-08-16 23:59:59.999.
		boundary := time.Date(2026, time.August, 16, 23, 59, 59, 999_000_000, time.UTC)
		buckets := trend.Compute([]model.CandidateRecord{dated(7, 7, boundary)}, refNow)

		Convey("Then it falls in that week, not the next", func() {
			So(buckets[2].TotalCandidates, ShouldEqual, 1)
			So(buckets[3].TotalCandidates, ShouldEqual, 0)
		})
	})

	Convey("Given a record dated on a Sunday", t, func() {
		sunday := time.Date(2026, time.August, 9, 15, 0, 0, 0, time.UTC)
		buckets := trend.Compute([]model.CandidateRecord{dated(6, 6, sunday)}, refNow)

		Convey("Then it buckets with the preceding Monday's week", func() {
			// Week of Monday 2026-08-03 is the second window.
			So(buckets[1].TotalCandidates, ShouldEqual, 1)
			So(buckets[2].TotalCandidates, ShouldEqual, 0)
		})
	})

	Convey("Given dateless and out-of-range records", t, func() {
		records := []model.CandidateRecord{
			{AIScore: 8, HumanScore: 8}, // no date
			dated(9, 9, refNow.AddDate(0, 0, -60)), // older than the window span
			dated(9, 9, refNow.AddDate(0, 0, 30)),  // future
		}

		Convey("Then they are silently absent from every bucket", func() {
			for _, b := range trend.Compute(records, refNow) {
				So(b.TotalCandidates, ShouldEqual, 0)
			}
		})
	})
}

func TestCompute_BucketStats(t *testing.T) {
	Convey("Given a week containing scored and unscored candidates", t, func() {
		day := time.Date(2026, time.August, 18, 8, 0, 0, 0, time.UTC)
		records := []model.CandidateRecord{
			dated(8, 6, day),  // +2, not aligned
			dated(4, 7, day),  // -3, not aligned
			dated(9, 9, day),  // 0, aligned
			dated(6, 5.5, day), // +0.5, aligned
			dated(3, 0, day),  // unscored: volume only
		}

		Convey("When computing the trend", func() {
			b := trend.Compute(records, refNow)[trend.Weeks-1]

			Convey("Then volume and scored counts are tracked separately", func() {
				So(b.TotalCandidates, ShouldEqual, 5)
				So(b.ScoredCandidates, ShouldEqual, 4)
			})

			Convey("Then the signed statistics cover the scored subset", func() {
				So(b.AverageDiscrepancy, ShouldAlmostEqual, (2-3+0+0.5)/4.0)
				So(b.AverageAbsoluteDiscrepancy, ShouldAlmostEqual, (2+3+0+0.5)/4.0)
				So(b.MaxDiscrepancy, ShouldEqual, 2)
				So(b.MinDiscrepancy, ShouldEqual, -3)
				So(b.AIHigherCount, ShouldEqual, 2)
				So(b.HumanHigherCount, ShouldEqual, 1)
				So(b.EqualCount, ShouldEqual, 1)
			})

			Convey("Then accuracy is the aligned share of scored records", func() {
				So(b.AIAccuracy, ShouldAlmostEqual, 50.0)
			})
		})
	})

	Convey("Given a week with volume but no scored candidates", t, func() {
		day := time.Date(2026, time.August, 18, 8, 0, 0, 0, time.UTC)
		records := []model.CandidateRecord{
			dated(7, 0, day),
			dated(0, 0, day),
		}

		Convey("Then the rate fields stay zero instead of dividing by zero", func() {
			b := trend.Compute(records, refNow)[trend.Weeks-1]
			So(b.TotalCandidates, ShouldEqual, 2)
			So(b.ScoredCandidates, ShouldEqual, 0)
			So(b.AverageDiscrepancy, ShouldEqual, 0)
			So(b.AverageAbsoluteDiscrepancy, ShouldEqual, 0)
			So(b.AIAccuracy, ShouldEqual, 0)
		})
	})
}

func TestCompute_Idempotence(t *testing.T) {
	Convey("Given a fixed record list and reference time", t, func() {
		day := time.Date(2026, time.August, 12, 8, 0, 0, 0, time.UTC)
		records := []model.CandidateRecord{
			dated(8, 6, day),
			dated(2, 9, day.AddDate(0, 0, -7)),
			{AIScore: 5, HumanScore: 5},
		}

		Convey("Then repeated computation yields identical output", func() {
			first := trend.Compute(records, refNow)
			second := trend.Compute(records, refNow)
			So(second, ShouldResemble, first)
		})
	})
}
