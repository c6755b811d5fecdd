package upstream

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ErrNotFound is returned when the upstream reports no such resource:
	// a 4xx status, an empty body, or a forecast without predictions.
	ErrNotFound = errors.New("upstream resource not found")

	// ErrUnavailable is returned for transport failures, 429/5xx responses,
	// malformed payloads and open circuits.
	ErrUnavailable = errors.New("upstream unavailable")
)

// Outcome classifies the result of an upstream call.
type Outcome string

const (
	OutcomeFound       Outcome = "found"
	OutcomeNotFound    Outcome = "not_found"
	OutcomeUnavailable Outcome = "unavailable"
)

// Classify maps an error returned by Client to its Outcome.
// Errors that carry neither sentinel are treated as unavailable.
func Classify(err error) Outcome {
	switch {
	case err == nil:
		return OutcomeFound
	case errors.Is(err, ErrNotFound):
		return OutcomeNotFound
	default:
		return OutcomeUnavailable
	}
}

var upstreamRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "cityinfos_upstream_requests_total",
		Help: "Total number of upstream API calls by outcome",
	},
	[]string{"upstream", "outcome"},
)

func observe(upstream string, err error) {
	upstreamRequestsTotal.WithLabelValues(upstream, string(Classify(err))).Inc()
}
