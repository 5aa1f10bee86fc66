package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce            sync.Once
	apiRequestsTotal        *prometheus.CounterVec
	apiLatencySeconds       *prometheus.HistogramVec
	apiErrorsTotal          *prometheus.CounterVec
	submissionsTotal        *prometheus.CounterVec
	submitLatencySeconds    prometheus.Histogram
	gradingLatencySeconds   prometheus.Histogram
	pendingGradingGauge     prometheus.Gauge
	manualGradesTotal       prometheus.Counter
	certificatesIssuedTotal prometheus.Counter
	uploadLatencySeconds    prometheus.Histogram
)

// RegisterMetrics initialises the Prometheus collectors for the API and the
// grading pipeline.
func RegisterMetrics() {
	registerOnce.Do(func() {
		apiRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests served.",
		}, []string{"method", "route", "status"})

		apiLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "api_latency_seconds",
			Help:    "Latency distribution for API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		apiErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "api_errors_total",
			Help: "Total number of error responses returned by the API.",
		}, []string{"method", "route", "status"})

		submissionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "quiz_submissions_total",
			Help: "Quiz submissions accepted, labelled by initial status.",
		}, []string{"status"})

		submitLatencySeconds = prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "quiz_submit_latency_seconds",
			Help:    "Latency of quiz submission grading and persistence.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0},
		})

		gradingLatencySeconds = prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "manual_grading_latency_seconds",
			Help:    "Latency of manual grade merges.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0},
		})

		pendingGradingGauge = prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "pending_grading_submissions",
			Help: "Submissions currently awaiting manual grading.",
		})

		manualGradesTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "manual_grades_total",
			Help: "Submissions manually graded or re-graded.",
		})

		certificatesIssuedTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "certificates_issued_total",
			Help: "Course completion certificates created.",
		})

		uploadLatencySeconds = prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "upload_latency_seconds",
			Help:    "Latency of answer artifact uploads.",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0},
		})

		prometheus.MustRegister(
			apiRequestsTotal,
			apiLatencySeconds,
			apiErrorsTotal,
			submissionsTotal,
			submitLatencySeconds,
			gradingLatencySeconds,
			pendingGradingGauge,
			manualGradesTotal,
			certificatesIssuedTotal,
			uploadLatencySeconds,
		)
	})
}

// Requests exposes the counter for API requests.
func Requests() *prometheus.CounterVec {
	RegisterMetrics()
	return apiRequestsTotal
}

// Latency exposes the latency histogram for API requests.
func Latency() *prometheus.HistogramVec {
	RegisterMetrics()
	return apiLatencySeconds
}

// Errors exposes the counter for API error responses.
func Errors() *prometheus.CounterVec {
	RegisterMetrics()
	return apiErrorsTotal
}

// Submissions exposes the per-status submission counter.
func Submissions() *prometheus.CounterVec {
	RegisterMetrics()
	return submissionsTotal
}

// SubmitLatency exposes the submission pipeline latency histogram.
func SubmitLatency() prometheus.Histogram {
	RegisterMetrics()
	return submitLatencySeconds
}

// GradingLatency exposes the manual grading latency histogram.
func GradingLatency() prometheus.Histogram {
	RegisterMetrics()
	return gradingLatencySeconds
}

// PendingGrading exposes the gauge tracking the manual grading backlog.
func PendingGrading() prometheus.Gauge {
	RegisterMetrics()
	return pendingGradingGauge
}

// ManualGrades exposes the manual grade counter.
func ManualGrades() prometheus.Counter {
	RegisterMetrics()
	return manualGradesTotal
}

// CertificatesIssued exposes the certificate counter.
func CertificatesIssued() prometheus.Counter {
	RegisterMetrics()
	return certificatesIssuedTotal
}

// UploadLatency exposes the upload latency histogram.
func UploadLatency() prometheus.Histogram {
	RegisterMetrics()
	return uploadLatencySeconds
}
