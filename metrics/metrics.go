package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestsTotal counts requests by method, route and status code.
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pipeline_http_requests_total",
			Help: "Total number of HTTP requests processed",
		},
		[]string{"method", "path", "status"},
	)

	// HTTPRequestDuration measures server response time.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pipeline_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		},
		[]string{"method", "path"},
	)

	// EvaluationsTotal counts evaluations by outcome: dag, cyclic or error.
	EvaluationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pipeline_evaluations_total",
			Help: "Total number of pipeline evaluations by outcome",
		},
		[]string{"outcome"},
	)

	// GraphNodes observes the node count of evaluated pipelines.
	GraphNodes = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "pipeline_graph_nodes",
			Help:    "Number of nodes in evaluated pipelines",
			Buckets: prometheus.ExponentialBuckets(1, 4, 8),
		},
	)

	// GraphEdges observes the edge count of evaluated pipelines.
	GraphEdges = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "pipeline_graph_edges",
			Help:    "Number of edges in evaluated pipelines",
			Buckets: prometheus.ExponentialBuckets(1, 4, 8),
		},
	)
)

// ObserveEvaluation records the outcome and size of one evaluation.
func ObserveEvaluation(numNodes, numEdges int, isDAG bool, err error) {
	switch {
	case err != nil:
		EvaluationsTotal.WithLabelValues("error").Inc()
		return
	case isDAG:
		EvaluationsTotal.WithLabelValues("dag").Inc()
	default:
		EvaluationsTotal.WithLabelValues("cyclic").Inc()
	}
	GraphNodes.Observe(float64(numNodes))
	GraphEdges.Observe(float64(numEdges))
}
