package server

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/shouni/leaf-doctor-kit/pkg/domain"
)

// mockHandler は受け取ったファイルと言語を記録する DiagnosisHandler です。
type mockHandler struct {
	calls      int
	files      []domain.FileHandle
	language   string
	fileExists bool
	handleFunc func(ctx context.Context, files []domain.FileHandle, language string) (*domain.Diagnosis, error)
}

func (m *mockHandler) Handle(ctx context.Context, files []domain.FileHandle, language string) (*domain.Diagnosis, error) {
	m.calls++
	m.files = files
	m.language = language
	if len(files) > 0 {
		_, err := os.Stat(files[0].Path())
		m.fileExists = err == nil
	}
	if m.handleFunc != nil {
		return m.handleFunc(ctx, files, language)
	}
	if len(files) == 0 {
		return nil, nil
	}
	return &domain.Diagnosis{Path: files[0].Path(), Language: language, Text: "Early blight"}, nil
}

// upload はテスト用のマルチパートファイルです。
type upload struct {
	name string
	data []byte
}

// pngBytes は 4x4 の緑色 PNG を返します。
func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for x := 0; x < 4; x++ {
		for y := 0; y < 4; y++ {
			img.Set(x, y, color.RGBA{0, 128, 0, 255})
		}
	}
	buf := new(bytes.Buffer)
	if err := png.Encode(buf, img); err != nil {
		t.Fatalf("failed to encode png: %v", err)
	}
	return buf.Bytes()
}

// newUploadRequest は files と language を含む POST /api/diagnose を作ります。
func newUploadRequest(t *testing.T, language string, files ...upload) *http.Request {
	t.Helper()
	body := new(bytes.Buffer)
	w := multipart.NewWriter(body)
	if language != "" {
		if err := w.WriteField(formFieldLanguage, language); err != nil {
			t.Fatal(err)
		}
	}
	for _, f := range files {
		part, err := w.CreateFormFile(formFieldFiles, f.name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := part.Write(f.data); err != nil {
			t.Fatal(err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/diagnose", body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

// failingWriter は本文の書き込みが常に失敗する ResponseWriter です。
type failingWriter struct {
	*httptest.ResponseRecorder
}

func (w *failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("connection reset")
}
