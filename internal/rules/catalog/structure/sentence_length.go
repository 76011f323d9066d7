package structure

import (
	"github.com/aeoinsight/crawler/internal/model"
	"github.com/aeoinsight/crawler/internal/rules"
	"github.com/aeoinsight/crawler/internal/rules/catalog/common"
)

const (
	sentenceLengthMin = 8.0
	sentenceLengthMax = 20.0
)

// SentenceLengthRule scores average sentence length against a readable
// band: too short reads as fragmented, too long reads as dense.
type SentenceLengthRule struct {
	common.Base
}

func NewSentenceLengthRule() *SentenceLengthRule {
	return &SentenceLengthRule{Base: common.NewBase("structure.sentence_length", "Sentence Length", rules.DimensionStructure, 10, 0.5, 1)}
}

func (r *SentenceLengthRule) Evaluate(ctx model.RuleContext) rules.RuleResult {
	avg := ctx.PageSignals.AvgSentenceLength

	if avg == 0 {
		return rules.RuleResult{
			Score: 0, Weight: r.Weight(), MaxScore: 100,
			Evidence: []rules.EvidenceItem{{Topic: "sentence_length", Icon: rules.IconError, Message: "no sentences detected"}},
			Issues: []rules.RuleIssue{{
				Severity:       model.SeverityMedium,
				Description:    "no measurable sentence content",
				Recommendation: "add prose content with complete sentences",
			}},
		}
	}

	if avg < sentenceLengthMin || avg > sentenceLengthMax {
		return rules.RuleResult{
			Score: 60, Weight: r.Weight(), MaxScore: 100, Passed: true,
			Evidence: []rules.EvidenceItem{{
				Topic: "sentence_length", Icon: rules.IconWarning,
				Message: "average sentence length outside the readable band", Score: avg, Target: sentenceLengthMax,
			}},
			Issues: []rules.RuleIssue{{
				Severity:       model.SeverityLow,
				Description:    "sentence length is suboptimal",
				Recommendation: "aim for an average of 8 to 20 words per sentence",
			}},
		}
	}

	return rules.RuleResult{
		Score: 100, Weight: r.Weight(), MaxScore: 100, Passed: true,
		Evidence: []rules.EvidenceItem{{Topic: "sentence_length", Icon: rules.IconSuccess, Message: "average sentence length within the readable band"}},
	}
}
