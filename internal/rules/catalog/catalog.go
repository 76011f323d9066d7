// Package catalog wires every concrete rule evaluator into a rules.Registry.
// It is the single place that knows about every rule subpackage, so the
// Analysis Pipeline only ever depends on catalog.RegisterAll, not on each
// dimension subpackage individually.
package catalog

import (
	"github.com/aeoinsight/crawler/internal/rules"
	"github.com/aeoinsight/crawler/internal/rules/catalog/authority"
	"github.com/aeoinsight/crawler/internal/rules/catalog/quality"
	"github.com/aeoinsight/crawler/internal/rules/catalog/structure"
	"github.com/aeoinsight/crawler/internal/rules/catalog/technical"
	"github.com/aeoinsight/crawler/internal/scoringconfig"
)

// RegisterAll registers the full built-in rule set into registry. cfg
// backs the rules whose scoring depends on configured thresholds (only
// WordCountRule today).
func RegisterAll(registry *rules.Registry, cfg *scoringconfig.Config) {
	registry.Register(technical.NewTitleTagRule())
	registry.Register(technical.NewMetaDescriptionRule())
	registry.Register(technical.NewCanonicalURLRule())

	registry.Register(structure.NewHeadingHierarchyRule())
	registry.Register(structure.NewListsAndTablesRule())
	registry.Register(structure.NewSentenceLengthRule())

	registry.Register(authority.NewBrandMentionRule())
	registry.Register(authority.NewStructuredDataOrgRule())
	registry.Register(authority.NewUpdateFrequencyRule())

	registry.Register(quality.NewWordCountRule(cfg))
	registry.Register(quality.NewContentDepthRule())
}
