package domain

// PromptEntry は言語キーと指示プロンプト本文の組です。
type PromptEntry struct {
	Language string `yaml:"language"`
	Text     string `yaml:"text"`
}
