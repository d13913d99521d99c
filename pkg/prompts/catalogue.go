package prompts

import (
	"fmt"
	"os"

	"github.com/shouni/leaf-doctor-kit/pkg/domain"
	"gopkg.in/yaml.v3"
)

// Catalogue は言語キーから指示プロンプトを引く不変の表です。
// 構築後は変更されないため、複数のリクエストから同時に参照できます。
type Catalogue struct {
	defaultLanguage string
	order           []string
	texts           map[string]string
}

// NewCatalogue は entries から Catalogue を構築します。
// defaultLanguage が entries に含まれない場合や、言語キーが空の場合はエラーを返します。
// 同じキーが複数ある場合は後勝ちです。
func NewCatalogue(defaultLanguage string, entries ...domain.PromptEntry) (*Catalogue, error) {
	c := &Catalogue{
		defaultLanguage: defaultLanguage,
		texts:           make(map[string]string, len(entries)),
	}
	for i, e := range entries {
		if e.Language == "" {
			return nil, fmt.Errorf("prompt entry %d has an empty language key", i)
		}
		if _, exists := c.texts[e.Language]; !exists {
			c.order = append(c.order, e.Language)
		}
		c.texts[e.Language] = e.Text
	}
	if _, ok := c.texts[defaultLanguage]; !ok {
		return nil, fmt.Errorf("default language %q is not in the catalogue", defaultLanguage)
	}
	return c, nil
}

// Default は English / Hindi / Marathi の組み込みカタログを返します。
func Default() *Catalogue {
	c, err := NewCatalogue(LanguageEnglish, builtinEntries()...)
	if err != nil {
		// 組み込みの表は常に有効
		panic(err)
	}
	return c
}

// Resolve は language のプロンプトを返します。
// 未知のキーは既定言語にフォールバックし、失敗することはありません。
func (c *Catalogue) Resolve(language string) string {
	_, text := c.Lookup(language)
	return text
}

// Lookup は実際に使われる言語キーとプロンプトの組を返します。
// 未知のキーの場合は既定言語のキーが返ります。
func (c *Catalogue) Lookup(language string) (effective, text string) {
	if text, ok := c.texts[language]; ok {
		return language, text
	}
	return c.defaultLanguage, c.texts[c.defaultLanguage]
}

// DefaultLanguage は既定の言語キーを返します。
func (c *Catalogue) DefaultLanguage() string {
	return c.defaultLanguage
}

// Languages は宣言順の言語キーを返します。
func (c *Catalogue) Languages() []string {
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}

// fileSchema はプロンプト上書きファイルの形式です。
type fileSchema struct {
	Default string               `yaml:"default"`
	Prompts []domain.PromptEntry `yaml:"prompts"`
}

// LoadFile は YAML ファイルを読み込み、組み込みカタログに上書き・追加したカタログを返します。
//
//	default: Hindi
//	prompts:
//	  - language: Tamil
//	    text: |
//	      ...
func LoadFile(path string) (*Catalogue, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("プロンプトファイルの読み込みに失敗しました: %w", err)
	}
	return Parse(data)
}

// Parse は YAML 文書を組み込みカタログにマージします。
func Parse(data []byte) (*Catalogue, error) {
	var doc fileSchema
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("プロンプトファイルの解析に失敗しました: %w", err)
	}

	defaultLanguage := LanguageEnglish
	if doc.Default != "" {
		defaultLanguage = doc.Default
	}

	entries := append(builtinEntries(), doc.Prompts...)
	return NewCatalogue(defaultLanguage, entries...)
}
