package generator

import (
	"time"

	"google.golang.org/genai"
)

const (
	DefaultModel           = "gemini-1.5-flash"
	DefaultTemperature     = 0.4
	DefaultTopP            = 1
	DefaultTopK            = 32
	DefaultMaxOutputTokens = 4096
	DefaultTimeout         = 60 * time.Second
)

// DefaultSafetyCategories は閾値を指定する有害カテゴリの固定集合です。
var DefaultSafetyCategories = []genai.HarmCategory{
	genai.HarmCategoryHarassment,
	genai.HarmCategoryHateSpeech,
	genai.HarmCategorySexuallyExplicit,
	genai.HarmCategoryDangerousContent,
}

// Config は起動時に一度だけ決まる生成設定と安全性設定です。
// リクエストごとに変化することはありません。
type Config struct {
	Model            string
	Temperature      float32
	TopP             float32
	TopK             float32
	MaxOutputTokens  int32
	SafetyCategories []genai.HarmCategory
	SafetyThreshold  genai.HarmBlockThreshold

	// Timeout は1回の呼び出しの上限です。0 の場合は上限なし。
	Timeout time.Duration
	// MaxRetries は RemoteUnavailable に対する再試行回数です。0 の場合は再試行しません。
	MaxRetries uint64
}

// DefaultConfig は既定の生成設定を返します。
func DefaultConfig() Config {
	categories := make([]genai.HarmCategory, len(DefaultSafetyCategories))
	copy(categories, DefaultSafetyCategories)

	return Config{
		Model:            DefaultModel,
		Temperature:      DefaultTemperature,
		TopP:             DefaultTopP,
		TopK:             DefaultTopK,
		MaxOutputTokens:  DefaultMaxOutputTokens,
		SafetyCategories: categories,
		SafetyThreshold:  genai.HarmBlockThresholdBlockMediumAndAbove,
		Timeout:          DefaultTimeout,
	}
}
