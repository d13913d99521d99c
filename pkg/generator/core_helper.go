package generator

import (
	"context"
	"errors"
	"fmt"

	"github.com/shouni/leaf-doctor-kit/pkg/domain"
	"google.golang.org/genai"
)

// buildContents はプロンプトと画像を1つのユーザーターンにまとめます。
// テキストが先、画像が後の順序です。
func buildContents(req domain.GenerationRequest) []*genai.Content {
	return []*genai.Content{
		{
			Role: "user",
			Parts: []*genai.Part{
				{Text: req.Prompt},
				{InlineData: &genai.Blob{MIMEType: req.Image.MimeType, Data: req.Image.Data}},
			},
		},
	}
}

// parseResponse はレスポンスからテキストを取り出します。
// テキストは加工せずに返します。テキストが得られない場合は RemoteRejection です。
func parseResponse(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil {
		return "", &domain.RemoteError{Kind: domain.RemoteRejection, Detail: "empty response"}
	}

	if pf := resp.PromptFeedback; pf != nil && pf.BlockReason != "" && pf.BlockReason != genai.BlockedReasonUnspecified {
		return "", &domain.RemoteError{
			Kind:   domain.RemoteRejection,
			Detail: fmt.Sprintf("prompt blocked (BlockReason: %s)", pf.BlockReason),
		}
	}

	if len(resp.Candidates) == 0 {
		return "", &domain.RemoteError{Kind: domain.RemoteRejection, Detail: "no candidates"}
	}

	text := resp.Text()
	if text != "" {
		return text, nil
	}

	// 安全フィルター等によるブロックの確認
	candidate := resp.Candidates[0]
	if candidate.FinishReason != "" && candidate.FinishReason != genai.FinishReasonUnspecified && candidate.FinishReason != genai.FinishReasonStop {
		return "", &domain.RemoteError{
			Kind:   domain.RemoteRejection,
			Detail: fmt.Sprintf("generation stopped (FinishReason: %s)", candidate.FinishReason),
		}
	}
	return "", &domain.RemoteError{Kind: domain.RemoteRejection, Detail: "no text in response"}
}

// classifyError は SDK のエラーを RemoteRejection / RemoteUnavailable に分類します。
// 呼び出し元によるキャンセルはそのまま返します。
func classifyError(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}

	var re *domain.RemoteError
	if errors.As(err, &re) {
		return err
	}

	if errors.Is(err, context.Canceled) && ctx.Err() != nil {
		return err
	}

	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		kind := domain.RemoteRejection
		if apiErr.Code >= 500 {
			kind = domain.RemoteUnavailable
		}
		return &domain.RemoteError{
			Kind:   kind,
			Detail: fmt.Sprintf("%d %s", apiErr.Code, apiErr.Status),
			Err:    err,
		}
	}

	// ネットワーク障害とタイムアウト
	return &domain.RemoteError{Kind: domain.RemoteUnavailable, Err: err}
}
