package testcandidates

import (
	"context"
	"crypto/rand"
	"math/big"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/okian/scoutboard/pkg/logger"
)

// Constants for random number generation.
const (
	randomFloatDivisor = 1000000
	profileDivisor     = 10
	dateSpreadDays     = 35
	secondsPerDay      = 86400
)

// Candidate profile cases. Most candidates carry both scores; a slice of
// the population is only AI-screened, only human-reviewed, or dateless.
const (
	caseAlignedScores    = 0 // scores within 1 point of each other
	caseAIOptimist       = 1 // AI clearly higher
	caseHumanOptimist    = 2 // human clearly higher
	caseEqualScores      = 3 // identical scores
	caseAIOnly           = 4 // human review pending
	caseHumanOnly        = 5 // AI screen pending
	caseUnscored         = 6 // fresh intake
	caseDatelessScored   = 7 // imported without a pipeline date
	caseWideScores       = 8
	caseAlignedScoresAlt = 9
)

var (
	roles             = []string{"backend", "frontend", "data", "platform", "mobile"}
	sources           = []string{"referral", "jobboard", "sourced", "inbound"}
	statuses          = []string{"applied", "screening", "interview", "offer"}
	interviewStatuses = []string{"pending", "scheduled", "completed", "cancelled"}
)

// getRandomFloat returns a random float64 between 0.0 and 1.0 using crypto/rand.
func getRandomFloat() float64 {
	n, _ := rand.Int(rand.Reader, big.NewInt(randomFloatDivisor))
	return float64(n.Int64()) / float64(randomFloatDivisor)
}

// pick returns a random element from vals.
func pick(vals []string) string {
	n, _ := rand.Int(rand.Reader, big.NewInt(int64(len(vals))))
	return vals[n.Int64()]
}

// generateCandidates creates the specified number of candidates with
// unique IDs and a realistic mix of scoring profiles.
func generateCandidates(ctx context.Context, config *Config, stats *Stats) ([]Candidate, error) {
	logger.Get().Info(ctx, "generating candidates", logger.Int("numCandidates", config.NumCandidates))

	candidates := make([]Candidate, config.NumCandidates)
	for i := range candidates {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		candidates[i] = generateSingleCandidate(i)
	}

	stats.CandidatesGenerated = len(candidates)
	logger.Get().Info(ctx, "generated candidates successfully", logger.Int("count", len(candidates)))

	return candidates, nil
}

// generateSingleCandidate creates one candidate with the given index.
func generateSingleCandidate(index int) Candidate {
	c := Candidate{
		CandidateID:     "cand_" + strconv.Itoa(index) + "_" + uuid.New().String(),
		Role:            pick(roles),
		Source:          pick(sources),
		Status:          pick(statuses),
		InterviewStatus: pick(interviewStatuses),
		DateAdded:       randomRecentDate(),
	}

	profile, _ := rand.Int(rand.Reader, big.NewInt(profileDivisor))
	switch profile.Int64() {
	case caseAlignedScores, caseAlignedScoresAlt:
		base := 2.0 + getRandomFloat()*7.0
		c.AIScore = clamp(base + (getRandomFloat()-0.5)*2.0)
		c.HumanScore = clamp(base)
	case caseAIOptimist:
		c.HumanScore = 1.0 + getRandomFloat()*5.0
		c.AIScore = clamp(c.HumanScore + 2.0 + getRandomFloat()*2.0)
	case caseHumanOptimist:
		c.AIScore = 1.0 + getRandomFloat()*5.0
		c.HumanScore = clamp(c.AIScore + 2.0 + getRandomFloat()*2.0)
	case caseEqualScores:
		score := 1.0 + getRandomFloat()*9.0
		c.AIScore = score
		c.HumanScore = score
	case caseAIOnly:
		c.AIScore = 1.0 + getRandomFloat()*9.0
	case caseHumanOnly:
		c.HumanScore = 1.0 + getRandomFloat()*9.0
	case caseUnscored:
		// fresh intake: no scores at all
	case caseDatelessScored:
		c.AIScore = 1.0 + getRandomFloat()*9.0
		c.HumanScore = 1.0 + getRandomFloat()*9.0
		c.DateAdded = ""
	case caseWideScores:
		c.AIScore = 0.1 + getRandomFloat()*9.9
		c.HumanScore = 0.1 + getRandomFloat()*9.9
	}

	return c
}

// randomRecentDate returns an RFC3339 timestamp within the last few
// weeks, deliberately spilling past the four-week trend window so the
// service's silent-drop behavior gets exercised.
func randomRecentDate() string {
	offset, _ := rand.Int(rand.Reader, big.NewInt(dateSpreadDays*secondsPerDay))
	t := time.Now().UTC().Add(-time.Duration(offset.Int64()) * time.Second)
	return t.Format(time.RFC3339)
}

// clamp forces a generated score into the accepted [0,10] range.
func clamp(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 10:
		return 10
	default:
		return v
	}
}
