package imgutil

import (
	"bytes"
	"encoding/base64"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
)

const (
	DefaultPreviewSide    = 512
	DefaultPreviewQuality = 75
)

// CompressToJPEG は画像データ（PNG, GIF, JPEG等）を長辺 maxSide 以下に縮小してJPEG形式に圧縮します。
// maxSide が 0 以下の場合は縮小しません。
func CompressToJPEG(data []byte, maxSide, quality int) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	if maxSide > 0 {
		img = shrink(img, maxSide)
	}

	buf := new(bytes.Buffer)
	if err := jpeg.Encode(buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// PreviewDataURI はアップロード画像を表示用の JPEG data URI に変換します。
func PreviewDataURI(data []byte) (string, error) {
	out, err := CompressToJPEG(data, DefaultPreviewSide, DefaultPreviewQuality)
	if err != nil {
		return "", err
	}
	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(out), nil
}

// shrink は最近傍法で長辺が maxSide に収まるよう縮小します。
func shrink(src image.Image, maxSide int) image.Image {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= maxSide && h <= maxSide {
		return src
	}

	dw, dh := maxSide, h*maxSide/w
	if h > w {
		dw, dh = w*maxSide/h, maxSide
	}
	if dw < 1 {
		dw = 1
	}
	if dh < 1 {
		dh = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, dw, dh))
	for y := 0; y < dh; y++ {
		sy := b.Min.Y + y*h/dh
		for x := 0; x < dw; x++ {
			dst.Set(x, y, src.At(b.Min.X+x*w/dw, sy))
		}
	}
	return dst
}
