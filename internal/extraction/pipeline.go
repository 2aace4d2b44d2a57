package extraction

import (
	"context"
	"time"

	"github.com/openpharm/medscheck-forms/internal/forms"
	"github.com/openpharm/medscheck-forms/internal/observability/metrics"
	"github.com/openpharm/medscheck-forms/pkg/logging"
)

// CandidateCache stores parsed candidates keyed by the note text, so the
// same notes never hit the extraction service twice. Implementations must
// treat backend failures as misses.
type CandidateCache interface {
	Get(ctx context.Context, rawText string) (forms.Candidate, bool, error)
	Set(ctx context.Context, rawText string, candidate forms.Candidate) error
}

// Pipeline is the full notes-to-record path: cache lookup, extraction,
// candidate repair, then merge into the current record.
type Pipeline struct {
	extractor *Extractor
	engine    *forms.Engine
	cache     CandidateCache
	logger    *logging.Logger
	metrics   *metrics.ExtractionMetrics
	now       func() time.Time
}

// NewPipeline wires the pipeline. cache and metrics may be nil; logger
// must be non-nil in production but is defaulted for safety.
func NewPipeline(extractor *Extractor, engine *forms.Engine, cache CandidateCache, logger *logging.Logger, m *metrics.ExtractionMetrics) *Pipeline {
	if logger == nil {
		logger = logging.Default()
	}
	return &Pipeline{
		extractor: extractor,
		engine:    engine,
		cache:     cache,
		logger:    logger,
		metrics:   m,
		now:       time.Now,
	}
}

// Process extracts structured fields from rawText and merges them into
// current, returning the updated record. current is never mutated. The
// repaired candidate, not the raw one, is what gets cached: a re-run from
// cache must merge identically to the original run.
func (p *Pipeline) Process(ctx context.Context, rawText string, current forms.Record) forms.Record {
	start := p.now()

	candidate, source, cached := p.lookupOrExtract(ctx, rawText)

	if !cached {
		counts := RepairCandidate(&candidate)
		p.metrics.ObserveRepairs("name", counts.Names)
		p.metrics.ObserveRepairs("drug_name", counts.DrugNames)
		if counts.Names+counts.DrugNames > 0 {
			p.logger.Info("repaired extraction candidate",
				"names", counts.Names,
				"drug_names", counts.DrugNames)
		}
		if p.cache != nil {
			if err := p.cache.Set(ctx, rawText, candidate); err != nil {
				p.logger.Warn("candidate cache write failed", "error", err)
			}
		}
	}

	updated := p.engine.Merge(candidate, current)

	p.logger.Info("notes processed",
		"record_id", current.ID,
		"source", source,
		"cached", cached,
		"duration_ms", p.now().Sub(start).Milliseconds())
	return updated
}

func (p *Pipeline) lookupOrExtract(ctx context.Context, rawText string) (forms.Candidate, string, bool) {
	if p.cache != nil {
		candidate, ok, err := p.cache.Get(ctx, rawText)
		if err != nil {
			p.logger.Warn("candidate cache read failed", "error", err)
		}
		if ok {
			p.metrics.ObserveCache("hit")
			return candidate, "cache", true
		}
		p.metrics.ObserveCache("miss")
	}
	candidate, source := p.extractor.Extract(ctx, rawText)
	return candidate, source, false
}
