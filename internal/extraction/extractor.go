// Package extraction turns free-text pharmacist notes into structured
// form candidates. The primary path asks an external text-generation
// service for a JSON candidate; a regex heuristic covers the service
// being unconfigured, unreachable, or returning garbage. Extraction
// never fails — the worst case is a sparse heuristic candidate.
package extraction

import (
	"context"
	"time"

	"github.com/openpharm/medscheck-forms/internal/forms"
	"github.com/openpharm/medscheck-forms/internal/observability/metrics"
	"github.com/openpharm/medscheck-forms/pkg/logging"
)

// Extraction path labels, also used as metric label values.
const (
	SourceLLM       = "llm"
	SourceHeuristic = "heuristic"
)

// Extractor produces form candidates from raw notes. A nil llm client
// puts the extractor in heuristic-only mode; that choice is made once at
// construction, not rediscovered per request.
type Extractor struct {
	llm         LLMClient
	maxTokens   int32
	temperature float32
	logger      *logging.Logger
	metrics     *metrics.ExtractionMetrics
	now         func() time.Time
}

// ExtractorConfig carries the tunables for NewExtractor.
type ExtractorConfig struct {
	MaxTokens   int32
	Temperature float32
}

// NewExtractor builds an extractor. Pass a nil client to run
// heuristic-only; logger must be non-nil, metrics may be nil.
func NewExtractor(llm LLMClient, cfg ExtractorConfig, logger *logging.Logger, m *metrics.ExtractionMetrics) *Extractor {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 4096
	}
	return &Extractor{
		llm:         llm,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
		logger:      logger,
		metrics:     m,
		now:         time.Now,
	}
}

// HeuristicOnly reports whether the extractor was built without a service
// client.
func (e *Extractor) HeuristicOnly() bool {
	return e.llm == nil
}

// Extract returns a candidate for the notes plus the path that produced
// it (SourceLLM or SourceHeuristic). It never returns an error: a service
// failure or an undecodable reply falls back to the heuristic, and the
// result is then identical to what the heuristic path alone would yield.
func (e *Extractor) Extract(ctx context.Context, rawText string) (forms.Candidate, string) {
	if e.llm == nil {
		return e.heuristic(rawText, "unconfigured"), SourceHeuristic
	}

	start := e.now()
	resp, err := e.llm.Complete(ctx, LLMRequest{
		System:      extractionSystemPrompt,
		Prompt:      buildPrompt(rawText),
		MaxTokens:   e.maxTokens,
		Temperature: e.temperature,
	})
	e.metrics.ObserveLatency(SourceLLM, e.now().Sub(start).Seconds())
	if err != nil {
		e.logger.Warn("extraction service failed, falling back to heuristic", "error", err)
		return e.heuristic(rawText, "service_error"), SourceHeuristic
	}

	candidate, err := parseCandidate(resp.Text)
	if err != nil {
		e.logger.Warn("extraction reply unusable, falling back to heuristic",
			"error", err,
			"stop_reason", resp.StopReason)
		return e.heuristic(rawText, "parse_error"), SourceHeuristic
	}

	e.metrics.ObserveExtraction(SourceLLM, "ok")
	e.logger.Debug("extraction completed",
		"path", SourceLLM,
		"input_tokens", resp.Usage.InputTokens,
		"output_tokens", resp.Usage.OutputTokens)
	return candidate, SourceLLM
}

func (e *Extractor) heuristic(rawText, reason string) forms.Candidate {
	e.metrics.ObserveExtraction(SourceHeuristic, reason)
	return heuristicExtract(rawText, e.now())
}
