package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shouni/leaf-doctor-kit/pkg/domain"
	"github.com/shouni/leaf-doctor-kit/pkg/metrics"
	"golang.org/x/time/rate"
)

// DiagnosisHandler はアップロード1回分を処理する窓口です。
type DiagnosisHandler interface {
	Handle(ctx context.Context, files []domain.FileHandle, language string) (*domain.Diagnosis, error)
}

// LanguageCatalogue は言語選択コントロールに必要な情報を提供します。
type LanguageCatalogue interface {
	Languages() []string
	DefaultLanguage() string
	Lookup(language string) (effective, text string)
}

// Options は UI シェルの動作設定です。
type Options struct {
	// MaxUploadBytes はリクエストボディの上限です。0 以下の場合は上限なし。
	MaxUploadBytes int64
	// RateLimit は /api/diagnose の毎秒許可数です。0 以下の場合は制限しません。
	RateLimit float64
	RateBurst int
	// UploadDir はアップロードを一時保存するディレクトリです。空の場合は os.TempDir()。
	UploadDir string
}

// Server はアップロードフォームと JSON API を提供する gin ベースの UI シェルです。
type Server struct {
	handler   DiagnosisHandler
	languages LanguageCatalogue
	metrics   *metrics.Metrics
	gatherer  prometheus.Gatherer
	opts      Options
	limiter   *rate.Limiter
	engine    *gin.Engine
}

// New は依存関係を注入して Server を初期化します。
func New(handler DiagnosisHandler, languages LanguageCatalogue, m *metrics.Metrics, gatherer prometheus.Gatherer, opts Options) (*Server, error) {
	if handler == nil {
		return nil, fmt.Errorf("handler (DiagnosisHandler) is required")
	}
	if languages == nil {
		return nil, fmt.Errorf("languages (LanguageCatalogue) is required")
	}
	if m == nil || gatherer == nil {
		return nil, fmt.Errorf("metrics and gatherer are required")
	}

	s := &Server{
		handler:   handler,
		languages: languages,
		metrics:   m,
		gatherer:  gatherer,
		opts:      opts,
	}
	if opts.RateLimit > 0 {
		burst := opts.RateBurst
		if burst <= 0 {
			burst = 1
		}
		s.limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), burst)
	}
	s.engine = s.routes()
	return s, nil
}

// Handler は http.Handler を返します。
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run は addr で待ち受け、ctx が終了したらグレースフルに停止します。
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("UIサーバーを起動しました", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		slog.Info("UIサーバーを停止します")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger())

	r.GET("/", s.index)
	r.GET("/healthz", s.health)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})))

	api := r.Group("/api")
	api.GET("/languages", s.listLanguages)
	api.POST("/diagnose", s.rateLimit(), s.diagnose)

	return r
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

func (s *Server) listLanguages(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"languages": s.languages.Languages(),
		"default":   s.languages.DefaultLanguage(),
	})
}

func (s *Server) rateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.limiter != nil && !s.limiter.Allow() {
			s.metrics.UploadsRejected.WithLabelValues("rate_limited").Inc()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
			return
		}
		c.Next()
	}
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		slog.DebugContext(c.Request.Context(), "HTTPリクエスト",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"elapsed", time.Since(start))
	}
}
