package store

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var persistTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "study_persist_total",
	Help: "Persistence operations by op and result",
}, []string{"op", "result"})

func observe(op string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	persistTotal.WithLabelValues(op, result).Inc()
}
