package domain

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	movesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "study_moves_total",
		Help: "Move entries by outcome (created, transposed, rejected)",
	}, []string{"outcome"})

	analysisMerges = promauto.NewCounter(prometheus.CounterOpts{
		Name: "study_analysis_merges_total",
		Help: "Analysis runs merged into a tree",
	})

	suggestionsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "study_suggestions_total",
		Help: "Engine variations inserted before weak moves",
	})

	annotationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "study_annotations_total",
		Help: "Quality symbols assigned by analysis",
	}, []string{"annotation"})
)
