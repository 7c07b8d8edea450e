package intake

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/Kofibk/icomplain.ai-sub000/internal/config"
	"github.com/Kofibk/icomplain.ai-sub000/internal/model"
	"github.com/Kofibk/icomplain.ai-sub000/pkg/anthropic"
)

// mockLLM is a testify mock for the messages client.
type mockLLM struct {
	mock.Mock
}

func (m *mockLLM) CreateMessage(ctx context.Context, req anthropic.MessageRequest) (*anthropic.MessageResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*anthropic.MessageResponse), args.Error(1)
}

var _ anthropic.Client = (*mockLLM)(nil)

// stubRetriever records the category it was asked for and returns a
// canned context.
type stubRetriever struct {
	ctx      model.PrecedentContext
	calls    int
	category model.Category
}

func (s *stubRetriever) Retrieve(_ context.Context, c model.Category) model.PrecedentContext {
	s.calls++
	s.category = c
	return s.ctx
}

var _ Retriever = (*stubRetriever)(nil)

// textResponse wraps a JSON payload in a single-text-block response.
func textResponse(body string) *anthropic.MessageResponse {
	return &anthropic.MessageResponse{
		ID:      "msg_test",
		Content: []anthropic.ContentBlock{{Type: "text", Text: body}},
		Usage:   anthropic.TokenUsage{InputTokens: 100, OutputTokens: 50},
	}
}

// testAnalyzer builds an Analyzer with no rate limiting and a single
// attempt per call.
func testAnalyzer(client anthropic.Client) *Analyzer {
	return NewAnalyzer(client,
		config.AnthropicConfig{
			Model:     "claude-sonnet-4-5-20250929",
			MaxTokens: 2048,
		},
		config.IntakeConfig{
			MaxArtifactBytes: 1 << 20,
			MaxRetries:       1,
		},
	)
}
