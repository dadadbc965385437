package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RecommendationsServed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cardmatch_recommendations_total",
			Help: "Total number of recommendation responses by origin",
		},
		[]string{"source"},
	)

	RankingDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "cardmatch_ranking_duration_seconds",
			Help:    "Time spent scoring and ranking the catalog for one request",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
		},
	)

	CatalogCards = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "cardmatch_catalog_cards",
			Help: "Number of cards in the active catalog snapshot",
		},
	)

	CatalogReloads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cardmatch_catalog_reloads_total",
			Help: "Catalog load attempts by result",
		},
		[]string{"result"},
	)

	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cardmatch_http_requests_total",
			Help: "HTTP requests by route and status code",
		},
		[]string{"route", "code"},
	)
)
