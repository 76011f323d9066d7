// Package common holds Base, the small embeddable struct every concrete
// rule in internal/rules/catalog composes to avoid repeating the
// identity/priority/weight/applicability boilerplate the rules.Rule
// interface requires. Grounded on the teacher's habit of keeping small
// structs embeddable (internal/metadata.Attribute composed into every
// RecordError call) rather than duplicating field sets per type.
package common

import "github.com/aeoinsight/crawler/internal/rules"

// Base implements every rules.Rule method except Evaluate; a concrete
// rule embeds Base and only has to write its own Evaluate.
type Base struct {
	id            string
	name          string
	dimension     rules.Dimension
	priority      int
	weight        float64
	scope         rules.ExecutionScope
	applicability rules.Applicability
	impactScore   int
}

// NewBase builds the identity/metadata shared by a rule, defaulting
// ExecutionScope to page-scoped and Applicability to every page type
// unless overridden with WithScope/WithApplicability.
func NewBase(id, name string, dimension rules.Dimension, priority int, weight float64, impactScore int) Base {
	return Base{
		id:            id,
		name:          name,
		dimension:     dimension,
		priority:      priority,
		weight:        weight,
		scope:         rules.ScopePage,
		applicability: rules.AllPages(),
		impactScore:   impactScore,
	}
}

func (b Base) WithScope(scope rules.ExecutionScope) Base {
	b.scope = scope
	return b
}

func (b Base) WithApplicability(a rules.Applicability) Base {
	b.applicability = a
	return b
}

func (b Base) ID() string                            { return b.id }
func (b Base) Name() string                           { return b.name }
func (b Base) Dimension() rules.Dimension             { return b.dimension }
func (b Base) Priority() int                          { return b.priority }
func (b Base) Weight() float64                        { return b.weight }
func (b Base) ExecutionScope() rules.ExecutionScope   { return b.scope }
func (b Base) Applicability() rules.Applicability     { return b.applicability }
func (b Base) ImpactScore() int                       { return b.impactScore }
