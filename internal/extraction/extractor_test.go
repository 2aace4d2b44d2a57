package extraction

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubLLM returns a canned response or error and records the last request.
type stubLLM struct {
	resp    LLMResponse
	err     error
	lastReq LLMRequest
	calls   int
}

func (s *stubLLM) Complete(_ context.Context, req LLMRequest) (LLMResponse, error) {
	s.calls++
	s.lastReq = req
	if s.err != nil {
		return LLMResponse{}, s.err
	}
	return s.resp, nil
}

func newTestExtractor(llm LLMClient) *Extractor {
	return NewExtractor(llm, ExtractorConfig{MaxTokens: 1024, Temperature: 0.1}, testLogger(), nil)
}

func TestExtractServiceSuccess(t *testing.T) {
	llm := &stubLLM{resp: LLMResponse{
		Text: `{"patient":{"firstName":"Maria","lastName":"Santos"}}`,
	}}
	e := newTestExtractor(llm)

	c, source := e.Extract(context.Background(), "Maria Santos seen today")

	assert.Equal(t, SourceLLM, source)
	require.NotNil(t, c.Patient)
	assert.Equal(t, "Maria", *c.Patient.FirstName)
	assert.Equal(t, "Santos", *c.Patient.LastName)

	assert.Equal(t, 1, llm.calls)
	assert.Contains(t, llm.lastReq.Prompt, "Maria Santos seen today")
	assert.Equal(t, extractionSystemPrompt, llm.lastReq.System)
	assert.Equal(t, int32(1024), llm.lastReq.MaxTokens)
}

func TestExtractServiceFencedReply(t *testing.T) {
	llm := &stubLLM{resp: LLMResponse{
		Text: "```json\n{\"pharmacistName\":\"Amir Khan\"}\n```",
	}}
	e := newTestExtractor(llm)

	c, source := e.Extract(context.Background(), "notes")

	assert.Equal(t, SourceLLM, source)
	require.NotNil(t, c.PharmacistName)
	assert.Equal(t, "Amir Khan", *c.PharmacistName)
}

func TestExtractServiceErrorFallsBackToHeuristic(t *testing.T) {
	notes := "patient name is John Smith, phone 416-555-1234, dob 1985-06-15"
	llm := &stubLLM{err: errors.New("connection refused")}
	e := newTestExtractor(llm)

	c, source := e.Extract(context.Background(), notes)

	assert.Equal(t, SourceHeuristic, source)
	// The fallback result is exactly what the heuristic alone produces.
	assert.Equal(t, heuristicExtract(notes, e.now()), c)
}

func TestExtractUnparseableReplyFallsBackToHeuristic(t *testing.T) {
	notes := "patient name is John Smith"
	llm := &stubLLM{resp: LLMResponse{Text: "I could not find any structured fields."}}
	e := newTestExtractor(llm)

	c, source := e.Extract(context.Background(), notes)

	assert.Equal(t, SourceHeuristic, source)
	require.NotNil(t, c.PatientName)
	assert.Equal(t, "John Smith", *c.PatientName)
}

func TestExtractHeuristicOnlyMode(t *testing.T) {
	e := newTestExtractor(nil)
	assert.True(t, e.HeuristicOnly())

	c, source := e.Extract(context.Background(), "patient name is John Smith")

	assert.Equal(t, SourceHeuristic, source)
	require.NotNil(t, c.PatientName)
	assert.Equal(t, "John Smith", *c.PatientName)
}

func TestExtractNeverErrorsOnEmptyInput(t *testing.T) {
	llm := &stubLLM{err: errors.New("boom")}
	e := newTestExtractor(llm)

	c, source := e.Extract(context.Background(), "")

	assert.Equal(t, SourceHeuristic, source)
	assert.True(t, c.IsEmpty())
}
