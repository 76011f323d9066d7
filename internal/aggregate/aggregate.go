// Package aggregate implements the Dimension Aggregator (§4.9): a pure,
// stateless weighted average over a dimension's rule results. New
// relative to the teacher (no analogue), but deliberately kept as small
// and dependency-free as the spec insists ("the aggregator is pure,
// stateless, and uses only the numeric score and weight from each rule"),
// mirroring the teacher's habit of keeping pure transform steps
// (pkg/urlutil, pkg/hashutil) free of any I/O or side-channel state.
package aggregate

import (
	"math"
	"sort"

	"github.com/aeoinsight/crawler/internal/model"
	"github.com/aeoinsight/crawler/internal/rules"
)

// RuleOutcome pairs one rule's identity with the RuleResult it produced,
// so DimensionScore can recover priority ordering for evidence.
type RuleOutcome struct {
	RuleID   string
	Priority int
	Result   rules.RuleResult
}

// Contribution is the per-rule share of the final dimension score,
// rounded to one decimal per §4.9.
type Contribution struct {
	RuleID  string
	Amount  float64
}

// DimensionResult is everything DimensionScore computes for one dimension.
type DimensionResult struct {
	Score         int
	Contributions []Contribution
	Evidence      []rules.EvidenceItem
	Issues        []model.Issue
}

// DimensionScore computes finalScore = round(Σ(score·weight) / Σ(weight)),
// falling back to 0 when every weight is 0 (no applicable rules).
// Evidence is concatenated in the outcomes' priority order (already
// sorted by the caller via rules.Registry.RulesForDimension); issues are
// sorted ascending by severity (critical, high, medium, low, then other).
func DimensionScore(dimension string, outcomes []RuleOutcome) DimensionResult {
	var weightedSum, weightSum float64
	for _, o := range outcomes {
		weightedSum += o.Result.Score * o.Result.Weight
		weightSum += o.Result.Weight
	}

	var finalScore float64
	if weightSum > 0 {
		finalScore = weightedSum / weightSum
	}

	contributions := make([]Contribution, 0, len(outcomes))
	var evidence []rules.EvidenceItem
	var issues []model.Issue

	for _, o := range outcomes {
		var amount float64
		if weightSum > 0 {
			amount = roundTo((o.Result.Score * o.Result.Weight) / weightSum, 1)
		}
		contributions = append(contributions, Contribution{RuleID: o.RuleID, Amount: amount})
		evidence = append(evidence, o.Result.Evidence...)

		for _, issue := range o.Result.Issues {
			issues = append(issues, model.Issue{
				Dimension:      dimension,
				RuleID:         o.RuleID,
				Severity:       issue.Severity,
				Description:    issue.Description,
				Recommendation: issue.Recommendation,
			})
		}
	}

	sort.SliceStable(issues, func(i, j int) bool {
		return model.SeverityRank(issues[i].Severity) < model.SeverityRank(issues[j].Severity)
	})

	return DimensionResult{
		Score:         int(math.Round(finalScore)),
		Contributions: contributions,
		Evidence:      evidence,
		Issues:        issues,
	}
}

// GlobalWeights is the category-weight configuration used to combine the
// four dimension scores, normalized to sum 1.0 before use. Defaults per
// §4.10 step 6: technical 1.5, structure 2.0, authority 1.0, quality 0.5.
type GlobalWeights struct {
	Technical float64
	Structure float64
	Authority float64
	Quality   float64
}

// DefaultGlobalWeights returns the spec's default global weight set.
func DefaultGlobalWeights() GlobalWeights {
	return GlobalWeights{Technical: 1.5, Structure: 2.0, Authority: 1.0, Quality: 0.5}
}

// GlobalScore combines dimension scores using weights, normalizing the
// weights to sum 1.0 first, and rounds the result to an integer in [0,100].
func GlobalScore(dimensions model.DimensionScores, weights GlobalWeights) int {
	sum := weights.Technical + weights.Structure + weights.Authority + weights.Quality
	if sum <= 0 {
		return 0
	}

	weighted := dimensions.Technical*weights.Technical +
		dimensions.Structure*weights.Structure +
		dimensions.Authority*weights.Authority +
		dimensions.Quality*weights.Quality

	score := weighted / sum
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return int(math.Round(score))
}

func roundTo(v float64, decimals int) float64 {
	factor := math.Pow(10, float64(decimals))
	return math.Round(v*factor) / factor
}
