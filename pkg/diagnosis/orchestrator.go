package diagnosis

import (
	"context"
	"fmt"

	"github.com/shouni/leaf-doctor-kit/pkg/domain"
	"github.com/shouni/leaf-doctor-kit/pkg/generator"
	"github.com/shouni/leaf-doctor-kit/pkg/imageloader"
)

// PromptResolver は言語キーから指示プロンプトと、フォールバック後の言語キーを解決します。
type PromptResolver interface {
	Lookup(language string) (effective, text string)
}

// Orchestrator はアップロード1回分の処理をまとめる窓口です。
// 複数ファイルが渡された場合も先頭のファイルだけを使い、残りは読み込みません。
type Orchestrator struct {
	loader    imageloader.Loader
	prompts   PromptResolver
	generator generator.TextGenerator
}

// NewOrchestrator は依存関係を注入して Orchestrator を初期化します。
func NewOrchestrator(loader imageloader.Loader, prompts PromptResolver, gen generator.TextGenerator) (*Orchestrator, error) {
	if loader == nil {
		return nil, fmt.Errorf("loader is required")
	}
	if prompts == nil {
		return nil, fmt.Errorf("prompts (PromptResolver) is required")
	}
	if gen == nil {
		return nil, fmt.Errorf("generator (TextGenerator) is required")
	}

	return &Orchestrator{
		loader:    loader,
		prompts:   prompts,
		generator: gen,
	}, nil
}

// Handle は先頭ファイルと言語に対応するプロンプトで診断テキストを生成します。
// files が空の場合は (nil, nil) を返し、ファイル読み込みも通信も行いません。
// Diagnosis.Language には実際に使われた言語キーを記録します。
// ImageLoader と GenerationClient の失敗はそのまま返します。
func (o *Orchestrator) Handle(ctx context.Context, files []domain.FileHandle, language string) (*domain.Diagnosis, error) {
	if len(files) == 0 || files[0] == nil {
		return nil, nil
	}

	path := files[0].Path()
	effective, prompt := o.prompts.Lookup(language)

	image, err := o.loader.Load(path)
	if err != nil {
		return nil, err
	}

	text, err := o.generator.Generate(ctx, prompt, image)
	if err != nil {
		return nil, err
	}

	return &domain.Diagnosis{
		Path:     path,
		Language: effective,
		Text:     text,
	}, nil
}
