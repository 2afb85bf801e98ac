package pool

import "github.com/prometheus/client_golang/prometheus"

func ClassificationsTotalFor(field, status string) prometheus.Counter {
	return classificationsTotal.WithLabelValues(field, status)
}
