package generator

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/shouni/leaf-doctor-kit/pkg/domain"
	"google.golang.org/genai"
)

// GeminiClient は固定の生成設定でホスト型モデルを1回呼び出すクライアントです。
// 内部に状態を持たず、同時に複数のリクエストから利用できます。
type GeminiClient struct {
	models     ContentGenerator
	cfg        Config
	genConfig  *genai.GenerateContentConfig
	newBackOff func() backoff.BackOff
}

// NewGeminiClient は依存関係を注入して GeminiClient を初期化します。
func NewGeminiClient(models ContentGenerator, cfg Config) (*GeminiClient, error) {
	if models == nil {
		return nil, fmt.Errorf("models (ContentGenerator) is required")
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("model name is required")
	}

	return &GeminiClient{
		models:     models,
		cfg:        cfg,
		genConfig:  buildGenerateConfig(cfg),
		newBackOff: defaultBackOff,
	}, nil
}

// NewFromAPIKey は API キーから genai クライアントを作成して GeminiClient を返します。
// キーが空の場合は domain.ErrMissingCredential を返します。
func NewFromAPIKey(ctx context.Context, apiKey string, cfg Config) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, domain.ErrMissingCredential
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("Geminiクライアントの初期化に失敗しました: %w", err)
	}

	return NewGeminiClient(client.Models, cfg)
}

// Config は固定の生成設定を返します。
func (c *GeminiClient) Config() Config {
	return c.cfg
}

func buildGenerateConfig(cfg Config) *genai.GenerateContentConfig {
	safety := make([]*genai.SafetySetting, 0, len(cfg.SafetyCategories))
	for _, category := range cfg.SafetyCategories {
		safety = append(safety, &genai.SafetySetting{
			Category:  category,
			Threshold: cfg.SafetyThreshold,
		})
	}

	return &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(cfg.Temperature),
		TopP:            genai.Ptr(cfg.TopP),
		TopK:            genai.Ptr(cfg.TopK),
		MaxOutputTokens: cfg.MaxOutputTokens,
		SafetySettings:  safety,
	}
}

func defaultBackOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 500 * time.Millisecond
	b.MaxInterval = 8 * time.Second
	b.MaxElapsedTime = 0
	return b
}
