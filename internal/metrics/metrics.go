package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gallery_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gallery_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	StoreOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gallery_store_operation_duration_seconds",
			Help:    "Duration of events document loads and saves",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"driver", "operation"},
	)

	EventViewsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gallery_event_views_total",
			Help: "Total number of recorded event views",
		},
	)

	EventVisitorsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gallery_event_visitors_total",
			Help: "Total number of recorded first visits",
		},
	)

	PhotosUploadedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gallery_photos_uploaded_total",
			Help: "Total number of photos added through uploads",
		},
	)

	UploadsSkippedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gallery_uploads_skipped_total",
			Help: "Uploaded files that produced no photo",
		},
		[]string{"reason"},
	)
)
