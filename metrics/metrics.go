package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "eduverse_http_requests_total",
			Help: "Total number of HTTP requests handled",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "eduverse_http_request_duration_seconds",
			Help:    "Time taken to handle HTTP requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route"},
	)

	ExamsGenerated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "eduverse_exams_generated_total",
			Help: "Total number of practice exams generated",
		},
		[]string{"subject"},
	)

	ExamEvaluations = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "eduverse_exam_evaluations_total",
			Help: "Total number of practice exams evaluated",
		},
	)

	ExamScore = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "eduverse_exam_score",
			Help:    "Distribution of evaluated exam scores (percent)",
			Buckets: prometheus.LinearBuckets(0, 10, 11),
		},
	)

	// DevServerUp is 1 while the local development server is accepting connections
	DevServerUp = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "eduverse_dev_server_up",
			Help: "Whether the local development server is running",
		},
	)
)
