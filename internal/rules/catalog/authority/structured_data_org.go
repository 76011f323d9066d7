package authority

import (
	"strings"

	"github.com/aeoinsight/crawler/internal/model"
	"github.com/aeoinsight/crawler/internal/rules"
	"github.com/aeoinsight/crawler/internal/rules/catalog/common"
)

var recognizedOrgSchemaTypes = map[string]bool{
	"organization": true,
	"person":       true,
	"localbusiness": true,
}

// StructuredDataOrgRule scores whether the page carries an Organization,
// Person, or LocalBusiness schema.org type, a structured-data signal of
// an identifiable entity behind the content.
type StructuredDataOrgRule struct {
	common.Base
}

func NewStructuredDataOrgRule() *StructuredDataOrgRule {
	return &StructuredDataOrgRule{Base: common.NewBase("authority.structured_data_org", "Organization Schema", rules.DimensionAuthority, 15, 0.75, 1)}
}

func (r *StructuredDataOrgRule) Evaluate(ctx model.RuleContext) rules.RuleResult {
	for _, schemaType := range ctx.PageSignals.SchemaTypes {
		if recognizedOrgSchemaTypes[strings.ToLower(schemaType)] {
			return rules.RuleResult{
				Score: 100, Weight: r.Weight(), MaxScore: 100, Passed: true,
				Evidence: []rules.EvidenceItem{{Topic: "structured_data_org", Icon: rules.IconSuccess, Message: "organization schema present: " + schemaType}},
			}
		}
	}

	return rules.RuleResult{
		Score: 30, Weight: r.Weight(), MaxScore: 100,
		Evidence: []rules.EvidenceItem{{Topic: "structured_data_org", Icon: rules.IconWarning, Message: "no Organization, Person, or LocalBusiness schema found"}},
		Issues: []rules.RuleIssue{{
			Severity:       model.SeverityLow,
			Description:    "no organization-level structured data",
			Recommendation: "add an Organization or Person JSON-LD block identifying the entity behind this content",
		}},
	}
}
