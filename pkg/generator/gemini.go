package generator

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/shouni/leaf-doctor-kit/pkg/domain"
	"google.golang.org/genai"
)

// Generate はプロンプトと画像を1回のリクエストで送信し、生成テキストを返します。
func (c *GeminiClient) Generate(ctx context.Context, prompt string, image *domain.ImagePayload) (string, error) {
	res, err := c.GenerateRequest(ctx, domain.GenerationRequest{Prompt: prompt, Image: image})
	if err != nil {
		return "", err
	}
	return res.Text, nil
}

// GenerateRequest は GenerationRequest を送信します。
// 失敗はそのまま呼び出し元に返し、ローカルでの代替テキストは返しません。
// Config.MaxRetries が指定されている場合、RemoteUnavailable のみ指数バックオフで再試行します。
func (c *GeminiClient) GenerateRequest(ctx context.Context, req domain.GenerationRequest) (*domain.GenerationResult, error) {
	if req.Image == nil {
		return nil, fmt.Errorf("image payload is required")
	}
	contents := buildContents(req)

	var text string
	attempt := 0
	op := func() error {
		attempt++
		t, err := c.generateOnce(ctx, contents)
		if err != nil {
			if domain.RemoteKindOf(err) == domain.RemoteUnavailable && ctx.Err() == nil {
				return err
			}
			return backoff.Permanent(err)
		}
		text = t
		return nil
	}
	notify := func(err error, wait time.Duration) {
		slog.WarnContext(ctx, "Gemini呼び出しに失敗しました。再試行します",
			"model", c.cfg.Model, "attempt", attempt, "wait", wait, "error", err)
	}

	b := backoff.WithContext(backoff.WithMaxRetries(c.newBackOff(), c.cfg.MaxRetries), ctx)
	if err := backoff.RetryNotify(op, b, notify); err != nil {
		return nil, err
	}
	return &domain.GenerationResult{Text: text}, nil
}

func (c *GeminiClient) generateOnce(ctx context.Context, contents []*genai.Content) (string, error) {
	if c.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.Timeout)
		defer cancel()
	}

	resp, err := c.models.GenerateContent(ctx, c.cfg.Model, contents, c.genConfig)
	if err != nil {
		return "", classifyError(ctx, err)
	}
	return parseResponse(resp)
}
