package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shouni/leaf-doctor-kit/pkg/domain"
)

// Result ラベルの値
const (
	ResultOK          = "ok"
	ResultNoInput     = "no_input"
	ResultNotFound    = "not_found"
	ResultRejected    = "rejected"
	ResultUnavailable = "unavailable"
	ResultError       = "error"
)

// Metrics は診断リクエストの集計です。
type Metrics struct {
	DiagnosesTotal   *prometheus.CounterVec
	DiagnoseDuration *prometheus.HistogramVec
	UploadsRejected  *prometheus.CounterVec
}

// New は collector を生成して reg に登録します。
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		DiagnosesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "leafdoctor",
			Name:      "diagnoses_total",
			Help:      "Total number of upload events handled, labeled by language and result.",
		}, []string{"language", "result"}),
		DiagnoseDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "leafdoctor",
			Name:      "diagnose_duration_seconds",
			Help:      "Time spent loading the image and waiting for the generative model.",
			Buckets:   []float64{0.25, 0.5, 1, 2, 5, 10, 20, 30, 60, 120},
		}, []string{"result"}),
		UploadsRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "leafdoctor",
			Name:      "uploads_rejected_total",
			Help:      "Uploads rejected before reaching the model, labeled by reason.",
		}, []string{"reason"}),
	}
	reg.MustRegister(m.DiagnosesTotal, m.DiagnoseDuration, m.UploadsRejected)
	return m
}

// ObserveDiagnosis は1回分の結果と所要時間を記録します。
func (m *Metrics) ObserveDiagnosis(language string, d *domain.Diagnosis, err error, elapsed time.Duration) {
	result := ResultOf(d, err)
	m.DiagnosesTotal.WithLabelValues(language, result).Inc()
	m.DiagnoseDuration.WithLabelValues(result).Observe(elapsed.Seconds())
}

// ResultOf は結果とエラーをラベル値に変換します。
func ResultOf(d *domain.Diagnosis, err error) string {
	switch {
	case err == nil && d == nil:
		return ResultNoInput
	case err == nil:
		return ResultOK
	}

	switch domain.RemoteKindOf(err) {
	case domain.RemoteRejection:
		return ResultRejected
	case domain.RemoteUnavailable:
		return ResultUnavailable
	}
	if errors.Is(err, domain.ErrNotFound) {
		return ResultNotFound
	}
	return ResultError
}
