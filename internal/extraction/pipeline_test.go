package extraction

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openpharm/medscheck-forms/internal/forms"
	"github.com/openpharm/medscheck-forms/pkg/logging"
)

func testLogger() *logging.Logger {
	return logging.NewWithWriter("error", io.Discard)
}

// memCache is an in-process CandidateCache for pipeline tests.
type memCache struct {
	entries map[string]forms.Candidate
	getErr  error
	setErr  error
	gets    int
	sets    int
}

func newMemCache() *memCache {
	return &memCache{entries: map[string]forms.Candidate{}}
}

func (m *memCache) Get(_ context.Context, rawText string) (forms.Candidate, bool, error) {
	m.gets++
	if m.getErr != nil {
		return forms.Candidate{}, false, m.getErr
	}
	c, ok := m.entries[rawText]
	return c, ok, nil
}

func (m *memCache) Set(_ context.Context, rawText string, c forms.Candidate) error {
	m.sets++
	if m.setErr != nil {
		return m.setErr
	}
	m.entries[rawText] = c
	return nil
}

func newTestPipeline(llm LLMClient, cache CandidateCache) *Pipeline {
	engine := forms.NewEngine(
		forms.WithClock(func() time.Time { return time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC) }),
	)
	return NewPipeline(newTestExtractor(llm), engine, cache, testLogger(), nil)
}

func TestPipelineProcessMergesExtraction(t *testing.T) {
	llm := &stubLLM{resp: LLMResponse{
		Text: `{"worksheet":{"patientFirstName":"Maria","patientLastName":"Santos","phone":"(416) 555-0000"}}`,
	}}
	p := newTestPipeline(llm, nil)

	current := forms.NewRecord("rec-1", time.Now())
	updated := p.Process(context.Background(), "notes about Maria", current)

	assert.Equal(t, "Maria", updated.Worksheet.PatientFirstName)
	assert.Equal(t, "Maria", updated.Patient.FirstName)
	assert.Equal(t, "Maria Santos", updated.Notification.PatientFullName)
	// input untouched
	assert.Empty(t, current.Patient.FirstName)
}

func TestPipelineProcessRepairsBeforeMerge(t *testing.T) {
	llm := &stubLLM{resp: LLMResponse{
		Text: `{"patientName":"Patient is Maria Santos who lives at 12 Oak St"}`,
	}}
	p := newTestPipeline(llm, nil)

	updated := p.Process(context.Background(), "notes", forms.NewRecord("rec-1", time.Now()))

	assert.Equal(t, "Maria", updated.Patient.FirstName)
	assert.Equal(t, "Santos", updated.Patient.LastName)
	assert.Equal(t, "Maria Santos", updated.Acknowledgement.PatientName)
}

func TestPipelineProcessCacheHitSkipsService(t *testing.T) {
	cache := newMemCache()
	name := "John Smith"
	cache.entries["cached notes"] = forms.Candidate{PatientName: &name}

	llm := &stubLLM{resp: LLMResponse{Text: `{}`}}
	p := newTestPipeline(llm, cache)

	updated := p.Process(context.Background(), "cached notes", forms.NewRecord("rec-1", time.Now()))

	assert.Zero(t, llm.calls)
	assert.Equal(t, "John", updated.Patient.FirstName)
}

func TestPipelineProcessCacheMissStoresRepairedCandidate(t *testing.T) {
	cache := newMemCache()
	llm := &stubLLM{resp: LLMResponse{
		Text: `{"patientName":"Patient is Maria Santos who lives at 12 Oak St"}`,
	}}
	p := newTestPipeline(llm, cache)

	p.Process(context.Background(), "fresh notes", forms.NewRecord("rec-1", time.Now()))

	assert.Equal(t, 1, llm.calls)
	assert.Equal(t, 1, cache.sets)
	stored, ok := cache.entries["fresh notes"]
	require.True(t, ok)
	require.NotNil(t, stored.PatientName)
	assert.Equal(t, "Maria Santos", *stored.PatientName)
}

func TestPipelineProcessCacheErrorsDegradeToMiss(t *testing.T) {
	cache := newMemCache()
	cache.getErr = errors.New("redis down")
	cache.setErr = errors.New("redis down")

	llm := &stubLLM{resp: LLMResponse{Text: `{"pharmacistName":"Amir Khan"}`}}
	p := newTestPipeline(llm, cache)

	updated := p.Process(context.Background(), "notes", forms.NewRecord("rec-1", time.Now()))

	assert.Equal(t, 1, llm.calls)
	assert.Equal(t, "Amir Khan", updated.Pharmacy.PharmacistName)
}

func TestPipelineProcessStampsUpdatedAt(t *testing.T) {
	p := newTestPipeline(nil, nil)
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	updated := p.Process(context.Background(), "no structure here", forms.NewRecord("rec-1", created))

	assert.Equal(t, time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC), updated.UpdatedAt)
}
