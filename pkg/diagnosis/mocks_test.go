package diagnosis

import (
	"context"

	"github.com/shouni/leaf-doctor-kit/pkg/domain"
)

// mockLoader は読み込まれたパスを記録する Loader のスパイです。
type mockLoader struct {
	loaded   []string
	loadFunc func(path string) (*domain.ImagePayload, error)
}

func (m *mockLoader) Load(path string) (*domain.ImagePayload, error) {
	m.loaded = append(m.loaded, path)
	if m.loadFunc != nil {
		return m.loadFunc(path)
	}
	return domain.NewImagePayload([]byte("image:" + path)), nil
}

// mockGenerator は受け取った引数を記録する TextGenerator のスタブです。
type mockGenerator struct {
	prompts      []string
	images       []*domain.ImagePayload
	generateFunc func(ctx context.Context, prompt string, image *domain.ImagePayload) (string, error)
}

func (m *mockGenerator) Generate(ctx context.Context, prompt string, image *domain.ImagePayload) (string, error) {
	m.prompts = append(m.prompts, prompt)
	m.images = append(m.images, image)
	if m.generateFunc != nil {
		return m.generateFunc(ctx, prompt, image)
	}
	return "Leaf rust detected", nil
}

// mockPrompts は言語キーに印を付けて返す PromptResolver です。
type mockPrompts struct{}

func (mockPrompts) Lookup(language string) (string, string) { return language, "prompt:" + language }
