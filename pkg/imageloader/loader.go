package imageloader

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/shouni/leaf-doctor-kit/pkg/domain"
)

// Loader はファイルパスから画像ペイロードを作成します。
type Loader interface {
	Load(path string) (*domain.ImagePayload, error)
}

// FileLoader はローカルファイルシステムから画像を読み込む Loader です。
// キャッシュもサイズ上限も持たず、ファイル全体をメモリに読み込みます。
type FileLoader struct{}

// NewFileLoader は FileLoader を生成します。
func NewFileLoader() *FileLoader {
	return &FileLoader{}
}

// Load は path の存在を確認してから全バイトを読み込み、固定 MIME タイプを付与して返します。
func (l *FileLoader) Load(path string) (*domain.ImagePayload, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &domain.NotFoundError{Path: path}
		}
		return nil, fmt.Errorf("画像ファイルの確認に失敗しました: %w", err)
	}
	if info.IsDir() {
		return nil, &domain.NotFoundError{Path: path}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		// Stat と Read の間に削除された場合も NotFound として扱う
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &domain.NotFoundError{Path: path}
		}
		return nil, fmt.Errorf("画像ファイルの読み込みに失敗しました: %w", err)
	}

	return domain.NewImagePayload(data), nil
}
