// Package analysis reduces candidate lists to score discrepancy statistics.
//
// Discrepancy is the signed AIScore - HumanScore difference and is only
// defined for scored records (both scores > 0). Everything here is a
// pure function over the input slice: no I/O, no shared state, and the
// empty input is a valid result rather than an error.
package analysis

import "github.com/okian/scoutboard/internal/domain/model"

// Summary aggregates signed score discrepancies over scored records.
//
// TotalCandidates counts scored records only, not pipeline volume. The
// name predates the distinction and is kept because the reporting
// surface exposes it verbatim.
type Summary struct {
	AverageDiscrepancy float64
	MaxDiscrepancy     float64
	MinDiscrepancy     float64
	TotalCandidates    int
	AIHigherCount      int
	HumanHigherCount   int
	EqualScoresCount   int
}

// Compute derives a Summary from records.
//
// Records missing either score are excluded entirely. If nothing
// remains, the zero Summary is returned. Sign comparison is exact:
// a discrepancy counts as equal only when it is exactly zero, with no
// tolerance applied. Scores arrive on an integer scale in practice, so
// exact comparison is safe; revisit if fractional scores ever appear.
func Compute(records []model.CandidateRecord) Summary {
	scored := scoredSubset(records)
	if len(scored) == 0 {
		return Summary{}
	}
	return derive(scored)
}

// scoredSubset returns the records carrying both scores, in input order.
func scoredSubset(records []model.CandidateRecord) []model.CandidateRecord {
	out := make([]model.CandidateRecord, 0, len(records))
	for _, r := range records {
		if r.Scored() {
			out = append(out, r)
		}
	}
	return out
}

// derive folds an all-scored slice into a Summary. Callers guarantee
// scored is non-empty.
func derive(scored []model.CandidateRecord) Summary {
	s := Summary{TotalCandidates: len(scored)}

	var sum float64
	for i, r := range scored {
		d := r.Discrepancy()
		sum += d
		if i == 0 {
			s.MaxDiscrepancy = d
			s.MinDiscrepancy = d
		} else {
			if d > s.MaxDiscrepancy {
				s.MaxDiscrepancy = d
			}
			if d < s.MinDiscrepancy {
				s.MinDiscrepancy = d
			}
		}
		switch {
		case d > 0:
			s.AIHigherCount++
		case d < 0:
			s.HumanHigherCount++
		default:
			s.EqualScoresCount++
		}
	}
	s.AverageDiscrepancy = sum / float64(len(scored))

	return s
}
