package queue

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var tasksProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "document_service_tasks_processed_total",
	Help: "Conversion tasks finished, labeled by result status.",
}, []string{"status"})
