package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "carescore_http_requests_total",
			Help: "Total number of API requests by route and status code",
		},
		[]string{"route", "status"},
	)

	requestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "carescore_http_request_duration_seconds",
			Help: "Duration of API request handling in seconds",
		},
		[]string{"route"},
	)

	dealRecommendations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "carescore_deal_recommendations_total",
			Help: "Deal evaluations by recommendation label",
		},
		[]string{"recommendation"},
	)

	marketGrades = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "carescore_market_grades_total",
			Help: "Scored markets by facility type and letter grade",
		},
		[]string{"facility_type", "grade"},
	)

	schemaRejections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "carescore_schema_rejections_total",
			Help: "Request bodies rejected by JSON schema validation",
		},
		[]string{"document"},
	)

	rateLimited = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "carescore_rate_limited_total",
			Help: "Requests rejected by the rate limiter",
		},
	)
)
