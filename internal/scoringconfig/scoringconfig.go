// Package scoringconfig implements the Scoring-Rules Config (§4.11): a
// versioned, JSON-loaded document of per-dimension thresholds/criteria
// plus global dimension weights, validated on load with a fallback to
// built-in defaults. Grounded on the teacher's internal/config
// (configDTO + WithConfigFile(path) + newConfigFromDTO "only override
// non-zero fields") pattern, applied to the §4.11 shape instead of crawl
// parameters.
package scoringconfig

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"sync"
)

var ErrInvalidScoringConfig = errors.New("invalid scoring config")

// Threshold is one scored band within a dimension's [0,100] range.
type Threshold struct {
	Min         float64 `json:"min"`
	Max         float64 `json:"max"`
	Score       int     `json:"score"`
	Description string  `json:"description"`
}

// DimensionRules is one dimension's thresholds plus its open-ended,
// dimension-specific criteria fields.
type DimensionRules struct {
	Thresholds []Threshold    `json:"thresholds"`
	Criteria   map[string]any `json:"criteria"`
}

// dto is the on-wire JSON shape loaded from a versioned config source.
type dto struct {
	Version    string                    `json:"version"`
	Dimensions map[string]DimensionRules `json:"dimensions"`
	Weights    map[string]float64        `json:"weights"`
}

// knownDimensions is the closed set §4.11 requires every loaded document
// to cover.
var knownDimensions = []string{"technical", "structure", "authority", "quality"}

// requiredCriteria names the scalar fields each dimension's criteria map
// must carry; validate requires each to decode as a JSON number.
var requiredCriteria = map[string][]string{
	"technical": {"maxLoadTimeMs"},
	"structure": {"minHeadingCount"},
	"authority": {"minBrandMentions"},
	"quality":   {"minWordCount"},
}

// Config is the validated, atomically-swappable scoring rules document.
type Config struct {
	mu      sync.RWMutex
	version string
	rules   map[string]DimensionRules
	weights map[string]float64
}

// NewDefault returns a Config seeded with the built-in defaults, valid by
// construction.
func NewDefault() *Config {
	d := defaultDTO()
	return &Config{version: d.Version, rules: d.Dimensions, weights: d.Weights}
}

// LoadFile loads and validates a scoring config document from path. On any
// read, parse, or validation failure, the returned Config falls back to
// the built-in defaults and the error is returned alongside it so the
// caller can log the fallback per §4.11's "error is surfaced" contract.
func LoadFile(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return NewDefault(), fmt.Errorf("%w: %v", ErrInvalidScoringConfig, err)
	}

	var parsed dto
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return NewDefault(), fmt.Errorf("%w: %v", ErrInvalidScoringConfig, err)
	}

	if err := validate(parsed); err != nil {
		return NewDefault(), fmt.Errorf("%w: %v", ErrInvalidScoringConfig, err)
	}

	return &Config{version: parsed.Version, rules: parsed.Dimensions, weights: parsed.Weights}, nil
}

// Version returns the loaded document's version string.
func (c *Config) Version() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.version
}

// Dimension returns a copy of dim's rules and whether dim was present.
func (c *Config) Dimension(dim string) (DimensionRules, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	rules, ok := c.rules[dim]
	return rules, ok
}

// Weight returns the configured weight for dim, or 0 if absent.
func (c *Config) Weight(dim string) float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.weights[dim]
}

// ScoreForValue walks dim's thresholds and returns the score of the band
// value falls in, plus whether a matching band was found.
func (c *Config) ScoreForValue(dim string, value float64) (int, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	dr, ok := c.rules[dim]
	if !ok {
		return 0, false
	}
	for _, t := range dr.Thresholds {
		if value >= t.Min && value <= t.Max {
			return t.Score, true
		}
	}
	return 0, false
}

// UpdateRules atomically replaces the document, after validating it. The
// swap is all-or-nothing: an invalid candidate leaves the existing rules
// untouched and returns an error.
func (c *Config) UpdateRules(version string, dimensions map[string]DimensionRules, weights map[string]float64) error {
	candidate := dto{Version: version, Dimensions: dimensions, Weights: weights}
	if err := validate(candidate); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidScoringConfig, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.version = version
	c.rules = dimensions
	c.weights = weights
	return nil
}

// validate checks every known dimension is present, its thresholds cover
// [0,100] with no gaps or overlaps, and its required criteria fields are
// present with a numeric scalar type.
func validate(d dto) error {
	for _, dim := range knownDimensions {
		dr, ok := d.Dimensions[dim]
		if !ok {
			return fmt.Errorf("missing dimension %q", dim)
		}
		if err := validateThresholds(dr.Thresholds); err != nil {
			return fmt.Errorf("dimension %q: %w", dim, err)
		}
		for _, field := range requiredCriteria[dim] {
			value, present := dr.Criteria[field]
			if !present {
				return fmt.Errorf("dimension %q: missing criteria field %q", dim, field)
			}
			if _, ok := value.(float64); !ok {
				return fmt.Errorf("dimension %q: criteria field %q must be numeric", dim, field)
			}
		}
	}
	return nil
}

func validateThresholds(thresholds []Threshold) error {
	if len(thresholds) == 0 {
		return errors.New("no thresholds defined")
	}
	sorted := make([]Threshold, len(thresholds))
	copy(sorted, thresholds)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Min < sorted[j].Min })

	if sorted[0].Min != 0 {
		return fmt.Errorf("thresholds must start at 0, got %v", sorted[0].Min)
	}
	if sorted[len(sorted)-1].Max != 100 {
		return fmt.Errorf("thresholds must end at 100, got %v", sorted[len(sorted)-1].Max)
	}
	for i := 1; i < len(sorted); i++ {
		if sorted[i].Min != sorted[i-1].Max {
			return fmt.Errorf("gap or overlap between thresholds at index %d (%v != %v)", i, sorted[i].Min, sorted[i-1].Max)
		}
	}
	return nil
}

func defaultDTO() dto {
	return dto{
		Version: "default-v1",
		Weights: map[string]float64{
			"technical": 1.5,
			"structure": 2.0,
			"authority": 1.0,
			"quality":   0.5,
		},
		Dimensions: map[string]DimensionRules{
			"technical": {
				Thresholds: []Threshold{
					{Min: 0, Max: 50, Score: 40, Description: "slow or broken"},
					{Min: 50, Max: 80, Score: 70, Description: "acceptable"},
					{Min: 80, Max: 100, Score: 100, Description: "fast and clean"},
				},
				Criteria: map[string]any{"maxLoadTimeMs": 3000.0},
			},
			"structure": {
				Thresholds: []Threshold{
					{Min: 0, Max: 40, Score: 30, Description: "flat or disorganized"},
					{Min: 40, Max: 75, Score: 65, Description: "some hierarchy"},
					{Min: 75, Max: 100, Score: 100, Description: "clear hierarchy"},
				},
				Criteria: map[string]any{"minHeadingCount": 2.0},
			},
			"authority": {
				Thresholds: []Threshold{
					{Min: 0, Max: 30, Score: 20, Description: "no signals"},
					{Min: 30, Max: 70, Score: 60, Description: "some signals"},
					{Min: 70, Max: 100, Score: 100, Description: "strong signals"},
				},
				Criteria: map[string]any{"minBrandMentions": 1.0},
			},
			"quality": {
				Thresholds: []Threshold{
					{Min: 0, Max: 40, Score: 25, Description: "thin content"},
					{Min: 40, Max: 75, Score: 65, Description: "adequate"},
					{Min: 75, Max: 100, Score: 100, Description: "comprehensive"},
				},
				Criteria: map[string]any{"minWordCount": 300.0},
			},
		},
	}
}
