package server

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shouni/leaf-doctor-kit/pkg/domain"
	"github.com/shouni/leaf-doctor-kit/pkg/metrics"
	"github.com/shouni/leaf-doctor-kit/pkg/prompts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testServer struct {
	*Server
	handler *mockHandler
	metrics *metrics.Metrics
}

func newTestServer(t *testing.T, h *mockHandler, opts Options) *testServer {
	t.Helper()
	if opts.UploadDir == "" {
		opts.UploadDir = t.TempDir()
	}
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	s, err := New(h, prompts.Default(), m, reg, opts)
	require.NoError(t, err)
	return &testServer{Server: s, handler: h, metrics: m}
}

func (s *testServer) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestNew(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := New(nil, prompts.Default(), metrics.New(reg), reg, Options{})
	assert.Error(t, err)
}

func TestServer_Diagnose(t *testing.T) {
	t.Run("成功: 先頭ファイルの診断結果とプレビューを返す", func(t *testing.T) {
		s := newTestServer(t, &mockHandler{}, Options{})
		img := pngBytes(t)

		rec := s.do(newUploadRequest(t, "Hindi",
			upload{name: "Leaf.PNG", data: img},
			upload{name: "second.png", data: img},
		))

		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		body := decode(t, rec)
		assert.Equal(t, "Early blight", body["response"])
		assert.Equal(t, "Leaf.PNG", body["filename"])
		assert.Equal(t, "Hindi", body["language"])
		assert.True(t, strings.HasPrefix(body["preview"].(string), "data:image/jpeg;base64,"))

		assert.Equal(t, 1, s.handler.calls)
		assert.Len(t, s.handler.files, 2)
		assert.Equal(t, "Hindi", s.handler.language)
		assert.True(t, s.handler.fileExists)
		assert.Equal(t, s.handler.files[0].Path(), body["path"])
		assert.True(t, strings.HasSuffix(body["path"].(string), ".png"))

		// リクエスト終了後にアップロードは削除される
		_, err := os.Stat(s.handler.files[0].Path())
		assert.True(t, os.IsNotExist(err))

		assert.Equal(t, 1.0, testutil.ToFloat64(s.metrics.DiagnosesTotal.WithLabelValues("Hindi", metrics.ResultOK)))
	})

	t.Run("ファイルが無い場合は null を返す", func(t *testing.T) {
		s := newTestServer(t, &mockHandler{}, Options{})

		rec := s.do(newUploadRequest(t, "Marathi"))

		require.Equal(t, http.StatusOK, rec.Code)
		body := decode(t, rec)
		assert.Nil(t, body["path"])
		assert.Nil(t, body["response"])
		assert.Empty(t, s.handler.files)
	})

	t.Run("言語未指定は既定言語、未知の言語は既定言語として記録する", func(t *testing.T) {
		s := newTestServer(t, &mockHandler{}, Options{})

		rec := s.do(newUploadRequest(t, "", upload{name: "a.png", data: pngBytes(t)}))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, prompts.LanguageEnglish, s.handler.language)

		rec = s.do(newUploadRequest(t, "Klingon", upload{name: "a.png", data: pngBytes(t)}))
		require.Equal(t, http.StatusOK, rec.Code)
		// カタログ側でフォールバックさせるため、要求値はそのまま渡す
		assert.Equal(t, "Klingon", s.handler.language)
		assert.Equal(t, prompts.LanguageEnglish, decode(t, rec)["language"])
	})

	t.Run("画像以外のアップロードは拒否する", func(t *testing.T) {
		s := newTestServer(t, &mockHandler{}, Options{})

		rec := s.do(newUploadRequest(t, "English", upload{name: "notes.txt", data: []byte("hello, plain text")}))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Zero(t, s.handler.calls)
		assert.Equal(t, 1.0, testutil.ToFloat64(s.metrics.UploadsRejected.WithLabelValues("not_image")))
	})

	t.Run("2件目以降が画像でなくても先頭ファイルで診断する", func(t *testing.T) {
		s := newTestServer(t, &mockHandler{}, Options{})

		rec := s.do(newUploadRequest(t, "English",
			upload{name: "leaf.png", data: pngBytes(t)},
			upload{name: "notes.txt", data: []byte("hello, plain text")},
		))

		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Equal(t, 1, s.handler.calls)
		require.Len(t, s.handler.files, 2)
		assert.True(t, strings.HasSuffix(s.handler.files[0].Path(), ".png"))
		assert.Equal(t, "leaf.png", decode(t, rec)["filename"])
		assert.Zero(t, testutil.ToFloat64(s.metrics.UploadsRejected.WithLabelValues("not_image")))
	})

	t.Run("マルチパートでないリクエストは400", func(t *testing.T) {
		s := newTestServer(t, &mockHandler{}, Options{})

		req := httptest.NewRequest(http.MethodPost, "/api/diagnose", strings.NewReader(`{"language":"English"}`))
		req.Header.Set("Content-Type", "application/json")
		rec := s.do(req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("サイズ上限を超えると413", func(t *testing.T) {
		s := newTestServer(t, &mockHandler{}, Options{MaxUploadBytes: 512})

		rec := s.do(newUploadRequest(t, "English", upload{name: "big.png", data: make([]byte, 4096)}))

		assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
		assert.Zero(t, s.handler.calls)
	})

	errorCases := []struct {
		name   string
		err    error
		status int
		kind   string
	}{
		{"RemoteRejection は422", &domain.RemoteError{Kind: domain.RemoteRejection, Detail: "SAFETY"}, http.StatusUnprocessableEntity, "rejection"},
		{"RemoteUnavailable は503", &domain.RemoteError{Kind: domain.RemoteUnavailable}, http.StatusServiceUnavailable, "unavailable"},
		{"NotFound は404", &domain.NotFoundError{Path: "/gone.jpg"}, http.StatusNotFound, "not_found"},
	}
	for _, tc := range errorCases {
		t.Run(tc.name, func(t *testing.T) {
			h := &mockHandler{
				handleFunc: func(ctx context.Context, files []domain.FileHandle, language string) (*domain.Diagnosis, error) {
					return nil, tc.err
				},
			}
			s := newTestServer(t, h, Options{})

			rec := s.do(newUploadRequest(t, "English", upload{name: "a.png", data: pngBytes(t)}))

			assert.Equal(t, tc.status, rec.Code)
			assert.Equal(t, tc.kind, decode(t, rec)["kind"])
		})
	}
}

func TestServer_RateLimit(t *testing.T) {
	s := newTestServer(t, &mockHandler{}, Options{RateLimit: 0.001, RateBurst: 1})

	first := s.do(newUploadRequest(t, "English"))
	second := s.do(newUploadRequest(t, "English"))

	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.Equal(t, 1, s.handler.calls)
}

func TestServer_Pages(t *testing.T) {
	s := newTestServer(t, &mockHandler{}, Options{})

	t.Run("言語一覧", func(t *testing.T) {
		rec := s.do(httptest.NewRequest(http.MethodGet, "/api/languages", nil))
		require.Equal(t, http.StatusOK, rec.Code)
		body := decode(t, rec)
		assert.Equal(t, []any{"English", "Hindi", "Marathi"}, body["languages"])
		assert.Equal(t, "English", body["default"])
	})

	t.Run("アップロードフォーム", func(t *testing.T) {
		rec := s.do(httptest.NewRequest(http.MethodGet, "/", nil))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `value="Marathi"`)
		assert.Contains(t, rec.Body.String(), `value="English" checked`)
	})

	t.Run("フォームの書き込みに失敗した場合はログに残す", func(t *testing.T) {
		var logs bytes.Buffer
		prev := slog.Default()
		slog.SetDefault(slog.New(slog.NewTextHandler(&logs, nil)))
		t.Cleanup(func() { slog.SetDefault(prev) })

		s.Handler().ServeHTTP(&failingWriter{ResponseRecorder: httptest.NewRecorder()}, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Contains(t, logs.String(), "アップロードフォームの描画に失敗しました")
	})

	t.Run("ヘルスチェック", func(t *testing.T) {
		rec := s.do(httptest.NewRequest(http.MethodGet, "/healthz", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("メトリクス", func(t *testing.T) {
		s.metrics.UploadsRejected.WithLabelValues("not_image").Inc()
		rec := s.do(httptest.NewRequest(http.MethodGet, "/metrics", nil))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "leafdoctor_uploads_rejected_total")
	})
}
