package server

import (
	"errors"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shouni/leaf-doctor-kit/pkg/domain"
	"github.com/shouni/leaf-doctor-kit/pkg/imgutil"
)

const (
	formFieldFiles    = "files"
	formFieldLanguage = "language"
)

var errNotImage = errors.New("only image uploads are accepted")

// diagnoseResponse は表示面に返す結果です。ファイルが無い場合 path と response は null です。
type diagnoseResponse struct {
	Path     *string `json:"path"`
	Filename *string `json:"filename"`
	Language string  `json:"language"`
	Response *string `json:"response"`
	Preview  *string `json:"preview"`
}

type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

func (s *Server) diagnose(c *gin.Context) {
	ctx := c.Request.Context()

	if s.opts.MaxUploadBytes > 0 {
		if c.Request.ContentLength > s.opts.MaxUploadBytes {
			s.rejectUpload(c, http.StatusRequestEntityTooLarge, "too_large", "upload is too large")
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.opts.MaxUploadBytes)
	}

	form, err := c.MultipartForm()
	if err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			s.rejectUpload(c, http.StatusRequestEntityTooLarge, "too_large", "upload is too large")
			return
		}
		s.rejectUpload(c, http.StatusBadRequest, "bad_form", "multipart form is required")
		return
	}

	language := strings.TrimSpace(c.PostForm(formFieldLanguage))
	if language == "" {
		language = s.languages.DefaultLanguage()
	}
	effective, _ := s.languages.Lookup(language)

	dir, err := os.MkdirTemp(s.opts.UploadDir, "leafdoctor-")
	if err != nil {
		slog.ErrorContext(ctx, "一時ディレクトリの作成に失敗しました", "error", err)
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "could not store upload"})
		return
	}
	// アップロードはリクエストの間だけ保持する
	defer os.RemoveAll(dir)

	headers := form.File[formFieldFiles]
	files := make([]domain.FileHandle, 0, len(headers))
	for i, h := range headers {
		dst := filepath.Join(dir, uuid.NewString()+strings.ToLower(filepath.Ext(h.Filename)))
		if err := c.SaveUploadedFile(h, dst); err != nil {
			slog.ErrorContext(ctx, "アップロードの保存に失敗しました", "filename", h.Filename, "error", err)
			c.JSON(http.StatusInternalServerError, errorResponse{Error: "could not store upload"})
			return
		}
		// 診断されるのは先頭ファイルだけなので、形式の検査も先頭だけに行う
		if i > 0 {
			files = append(files, domain.LocalFile(dst))
			continue
		}
		if err := ensureImage(dst); err != nil {
			s.rejectUpload(c, http.StatusBadRequest, "not_image", err.Error())
			return
		}
		files = append(files, domain.LocalFile(dst))
	}

	start := time.Now()
	d, err := s.handler.Handle(ctx, files, language)
	s.metrics.ObserveDiagnosis(effective, d, err, time.Since(start))
	if err != nil {
		s.writeError(c, err)
		return
	}

	resp := diagnoseResponse{Language: effective}
	if d != nil {
		filename := headers[0].Filename
		resp.Path = &d.Path
		resp.Filename = &filename
		resp.Response = &d.Text
		resp.Preview = s.preview(c, d.Path)

		slog.InfoContext(ctx, "診断が完了しました",
			"filename", filename, "language", effective, "files", len(files), "elapsed", time.Since(start))
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) preview(c *gin.Context, path string) *string {
	data, err := os.ReadFile(path)
	if err != nil {
		slog.WarnContext(c.Request.Context(), "プレビュー用の読み込みに失敗しました", "path", path, "error", err)
		return nil
	}
	uri, err := imgutil.PreviewDataURI(data)
	if err != nil {
		slog.WarnContext(c.Request.Context(), "プレビューを作成できませんでした。プレビュー無しで続行します", "error", err)
		return nil
	}
	return &uri
}

func (s *Server) rejectUpload(c *gin.Context, status int, reason, msg string) {
	s.metrics.UploadsRejected.WithLabelValues(reason).Inc()
	c.JSON(status, errorResponse{Error: msg})
}

// writeError は失敗の種類を HTTP ステータスに変換します。表示は UI 側の責務です。
func (s *Server) writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	kind := ""
	switch {
	case errors.Is(err, domain.ErrNotFound):
		status, kind = http.StatusNotFound, "not_found"
	case domain.RemoteKindOf(err) == domain.RemoteRejection:
		status, kind = http.StatusUnprocessableEntity, domain.RemoteRejection.String()
	case domain.RemoteKindOf(err) == domain.RemoteUnavailable:
		status, kind = http.StatusServiceUnavailable, domain.RemoteUnavailable.String()
	}

	slog.WarnContext(c.Request.Context(), "診断に失敗しました", "status", status, "kind", kind, "error", err)
	c.JSON(status, errorResponse{Error: err.Error(), Kind: kind})
}

func ensureImage(path string) error {
	mt, err := mimetype.DetectFile(path)
	if err != nil {
		return err
	}
	if !strings.HasPrefix(mt.String(), "image/") {
		return errNotImage
	}
	return nil
}
