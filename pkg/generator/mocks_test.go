package generator

import (
	"context"
	"sync"

	"google.golang.org/genai"
)

// --- Mocks ---

// generateCall は mockModels が受け取った1回分の引数です。
type generateCall struct {
	model    string
	contents []*genai.Content
	config   *genai.GenerateContentConfig
}

// mockModels は ContentGenerator のテスト用スタブです。
type mockModels struct {
	mu           sync.Mutex
	calls        []generateCall
	generateFunc func(ctx context.Context, call int) (*genai.GenerateContentResponse, error)
}

func (m *mockModels) GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	m.mu.Lock()
	m.calls = append(m.calls, generateCall{model: model, contents: contents, config: config})
	n := len(m.calls)
	m.mu.Unlock()

	if m.generateFunc != nil {
		return m.generateFunc(ctx, n)
	}
	return textResponse("診断結果"), nil
}

func (m *mockModels) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

// textResponse はテキスト1パーツのみの正常レスポンスを作ります。
func textResponse(text string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{
				Role:  "model",
				Parts: []*genai.Part{{Text: text}},
			},
			FinishReason: genai.FinishReasonStop,
		}},
	}
}
