package application

import (
	"github.com/shopspring/decimal"

	"github.com/ericfisherdev/accountpulse/internal/domain/model"
)

var (
	minScore       = decimal.NewFromInt(model.MinHealthScore)
	maxScore       = decimal.NewFromInt(model.MaxHealthScore)
	pcrPenaltyStep = decimal.New(5, -1)
)

// ComputeHealthScore maps a snapshot of account signals to a 1–5 score.
//
// Each signal yields a sub-score in [1,5]. The final score is the mean of the
// sub-scores that are present, rounded half away from zero and clamped to
// [1,5]. Usage is left out of the mean when no volume has been ingested. A
// missing contract end date scores 5. The function is total; callers pass
// non-negative counts.
func ComputeHealthScore(in model.HealthSignals) model.HealthScoreResult {
	blocker := clampScore(model.MaxHealthScore - in.OpenBlockerCount)
	activity := activitySubScore(in.DaysSinceLastActivity)
	pcr := pcrSubScore(in.OpenPCRCount)
	usage := usageSubScore(in.ConversationVolume)
	expiry := expirySubScore(in.DaysUntilContractExpiry)

	sum := decimal.NewFromInt(int64(blocker)).
		Add(decimal.NewFromInt(int64(activity))).
		Add(pcr).
		Add(decimal.NewFromInt(int64(expiry)))
	count := int64(4)
	if usage != nil {
		sum = sum.Add(decimal.NewFromInt(int64(*usage)))
		count++
	}

	mean := sum.Div(decimal.NewFromInt(count))
	score := clampScore(int(mean.Round(0).IntPart()))

	pcrScore, _ := pcr.Float64()

	return model.HealthScoreResult{
		Score: score,
		Breakdown: model.HealthScoreBreakdown{
			BlockerScore:  blocker,
			ActivityScore: activity,
			PCRScore:      pcrScore,
			UsageScore:    usage,
			ExpiryScore:   expiry,
		},
	}
}

// activitySubScore treats never-active accounts like long-idle ones.
func activitySubScore(days *int) int {
	switch {
	case days == nil:
		return 1
	case *days <= 7:
		return 5
	case *days <= 30:
		return 3
	default:
		return 1
	}
}

// pcrSubScore loses half a point per open request. It stays fractional.
func pcrSubScore(openPCRs int) decimal.Decimal {
	score := maxScore.Sub(pcrPenaltyStep.Mul(decimal.NewFromInt(int64(openPCRs))))
	if score.LessThan(minScore) {
		return minScore
	}
	if score.GreaterThan(maxScore) {
		return maxScore
	}
	return score
}

func usageSubScore(volume *int) *int {
	if volume == nil {
		return nil
	}

	var score int
	switch v := *volume; {
	case v <= 0:
		score = 1
	case v < 10:
		score = 2
	case v < 50:
		score = 3
	case v < 200:
		score = 4
	default:
		score = 5
	}
	return &score
}

// expirySubScore treats an account without a contract end date as having no
// renewal pressure.
func expirySubScore(daysUntilExpiry *int) int {
	switch {
	case daysUntilExpiry == nil:
		return 5
	case *daysUntilExpiry > 60:
		return 5
	case *daysUntilExpiry > 30:
		return 3
	default:
		return 1
	}
}

func clampScore(score int) int {
	return max(model.MinHealthScore, min(model.MaxHealthScore, score))
}
