package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	voteRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "arena_vote_requests_total",
		Help: "Vote requests received, by outcome",
	}, []string{"status"})

	voteEventsDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "arena_vote_events_dropped_total",
		Help: "Committed votes whose counter event could not be queued",
	})

	voteProcessedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "arena_vote_processed_total",
		Help: "Vote events processed by the worker",
	})

	voteProcessingDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "arena_vote_processing_duration_seconds",
		Help:    "Time to process one vote event in the worker",
		Buckets: prometheus.DefBuckets,
	})

	votesPrunedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "arena_votes_pruned_total",
		Help: "Expired vote records removed by the retention pass",
	})
)

func ObserveVoteRequest(status string) {
	voteRequestsTotal.WithLabelValues(status).Inc()
}

func IncVoteEventDropped() {
	voteEventsDropped.Inc()
}

func IncVoteProcessed() {
	voteProcessedTotal.Inc()
}

func ObserveProcessingDuration(seconds float64) {
	voteProcessingDuration.Observe(seconds)
}

func AddVotesPruned(n int64) {
	votesPrunedTotal.Add(float64(n))
}
