package extraction

import "context"

type TokenUsage struct {
	InputTokens  int32
	OutputTokens int32
	TotalTokens  int32
}

// LLMRequest is a single-shot completion request against the text
// extraction service.
type LLMRequest struct {
	System      string
	Prompt      string
	MaxTokens   int32
	Temperature float32
}

type LLMResponse struct {
	Text       string
	Usage      TokenUsage
	StopReason string
}

// LLMClient abstracts the external text-generation service so the extractor
// can be tested with a stub and so a missing credential can select a nil
// client at construction time.
type LLMClient interface {
	Complete(ctx context.Context, req LLMRequest) (LLMResponse, error)
}
