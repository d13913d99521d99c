package generator

import (
	"context"

	"github.com/shouni/leaf-doctor-kit/pkg/domain"
	"google.golang.org/genai"
)

// ContentGenerator はホスト型生成モデルへの送信口です。
// *genai.Models がこれを満たします。テストではスタブに差し替えます。
type ContentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// TextGenerator はプロンプトと画像から診断テキストを生成するインターフェースです。
type TextGenerator interface {
	Generate(ctx context.Context, prompt string, image *domain.ImagePayload) (string, error)
}

var _ TextGenerator = (*GeminiClient)(nil)
