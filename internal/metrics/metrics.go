package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	SessionsStarted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "chess_sessions_started_total",
			Help: "Total game sessions created",
		},
	)
	MovesAccepted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "chess_moves_accepted_total",
			Help: "Total moves validated and applied",
		},
	)
	MovesRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chess_moves_rejected_total",
			Help: "Total moves rejected, by reason",
		},
		[]string{"reason"},
	)
	GamesEnded = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chess_games_ended_total",
			Help: "Total games ended, by outcome",
		},
		[]string{"outcome"},
	)

	RLRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rate_limiter_requests_total",
			Help: "Total requests seen by the rate limiter",
		},
		[]string{"endpoint"},
	)
	RLBlocked = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rate_limiter_blocked_total",
			Help: "Total requests blocked by the rate limiter",
		},
		[]string{"endpoint"},
	)
)

func init() {
	prometheus.MustRegister(SessionsStarted, MovesAccepted, MovesRejected, GamesEnded, RLRequests, RLBlocked)
}
