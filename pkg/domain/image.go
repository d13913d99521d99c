package domain

// ImageMimeType は ImagePayload に付与される固定の MIME タイプです。
// 実際の画像形式は判定しません。PNG をアップロードしても image/jpeg として送信されます。
const ImageMimeType = "image/jpeg"

// ImagePayload はリクエスト1回分の画像バイナリです。
// リクエスト完了後に破棄され、永続化はされません。
type ImagePayload struct {
	MimeType string
	Data     []byte
}

// NewImagePayload は固定 MIME タイプ付きの ImagePayload を生成します。
func NewImagePayload(data []byte) *ImagePayload {
	return &ImagePayload{
		MimeType: ImageMimeType,
		Data:     data,
	}
}

// GenerationRequest は生成モデルに送る1回分の入力です。
type GenerationRequest struct {
	Prompt string
	Image  *ImagePayload
}

// GenerationResult は生成モデルから返ったテキストです。
type GenerationResult struct {
	Text string
}

// FileHandle はアップロードされたファイルへの参照です。
// UI シェル側がファイルシステム上のパスを解決できることだけを要求します。
type FileHandle interface {
	Path() string
}

// LocalFile はローカルパスをそのまま FileHandle として扱う型です。
type LocalFile string

// Path はファイルパスを返します。
func (f LocalFile) Path() string { return string(f) }

// LocalFiles はパスの列を FileHandle の列に変換します。
func LocalFiles(paths ...string) []FileHandle {
	files := make([]FileHandle, 0, len(paths))
	for _, p := range paths {
		files = append(files, LocalFile(p))
	}
	return files
}

// Diagnosis はアップロード1回分の診断結果です。
type Diagnosis struct {
	Path     string
	Language string
	Text     string
}
