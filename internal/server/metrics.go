package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	sessionsOpened = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "alloc_chart_sessions_opened_total",
		Help: "Chart sessions opened by source kind",
	}, []string{"source"})

	sessionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "alloc_chart_sessions_active",
		Help: "Chart sessions currently held in memory",
	})

	clicksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "alloc_chart_clicks_total",
		Help: "Chart clicks by target and outcome",
	}, []string{"target", "result"})

	datasetSegments = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "alloc_chart_dataset_segments",
		Help:    "Segments of the datasets sent to charts",
		Buckets: []float64{1, 2, 5, 10, 20, 50, 100},
	})
)
