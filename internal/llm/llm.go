// Package llm is the external LLM client contract (§6): a structured
// call with a provider-fallback chain. No teacher module covers this —
// it's a SUPPLEMENTED component named directly by the spec — so its
// shape is grounded on the same capability-interface idiom the teacher
// uses throughout (small interface, explicit constructor, no DI
// container), applied fresh to this domain.
package llm

import (
	"context"
	"errors"
	"fmt"
)

// CallOptions configures one structuredCall invocation.
type CallOptions struct {
	Model       string
	Temperature float64
	MaxTokens   int
	WebAccess   bool
}

// ProviderModel names one entry in the caller-supplied fallback chain.
type ProviderModel struct {
	Provider string
	Model    string
}

// Client is the capability every categorization/rule LLM call is made
// through: a structured call returning a value conforming to schema,
// with model/temperature/maxTokens/webAccess options.
type Client interface {
	StructuredCall(ctx context.Context, prompt string, schema map[string]any, opts CallOptions) (map[string]any, error)
}

// ErrAllProvidersFailed is returned when every entry in a fallback chain
// failed to produce a result.
var ErrAllProvidersFailed = errors.New("llm: all providers failed")

// FallbackClient walks an ordered list of (provider, model) pairs,
// returning the first one that succeeds.
type FallbackClient struct {
	chain    []ProviderModel
	backends map[string]Client
}

// NewFallbackClient builds a client that tries chain in order, resolving
// each entry's provider name against backends.
func NewFallbackClient(chain []ProviderModel, backends map[string]Client) *FallbackClient {
	return &FallbackClient{chain: chain, backends: backends}
}

func (f *FallbackClient) StructuredCall(ctx context.Context, prompt string, schema map[string]any, opts CallOptions) (map[string]any, error) {
	var lastErr error
	for _, pm := range f.chain {
		backend, ok := f.backends[pm.Provider]
		if !ok {
			lastErr = fmt.Errorf("llm: no backend registered for provider %q", pm.Provider)
			continue
		}
		callOpts := opts
		callOpts.Model = pm.Model
		value, err := backend.StructuredCall(ctx, prompt, schema, callOpts)
		if err == nil {
			return value, nil
		}
		lastErr = err
	}
	if lastErr != nil {
		return nil, fmt.Errorf("%w: %v", ErrAllProvidersFailed, lastErr)
	}
	return nil, ErrAllProvidersFailed
}

// StubClient is a deterministic Client for tests and for running the
// pipeline without a real LLM backend: it always returns a canned value.
type StubClient struct {
	Response map[string]any
	Err      error
}

func (s *StubClient) StructuredCall(ctx context.Context, prompt string, schema map[string]any, opts CallOptions) (map[string]any, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	return s.Response, nil
}
