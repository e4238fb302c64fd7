package engine

import "github.com/prometheus/client_golang/prometheus"

var (
	ticksTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "snake",
			Subsystem: "engine",
			Name:      "ticks_total",
			Help:      "Game ticks processed.",
		},
	)
	gamesOver = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "snake",
			Subsystem: "engine",
			Name:      "games_over_total",
			Help:      "Games that ended, by cause.",
		},
		[]string{"cause"},
	)
	activeSessions = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "snake",
			Subsystem: "engine",
			Name:      "sessions",
			Help:      "Live game sessions.",
		},
	)
)

func init() {
	prometheus.MustRegister(ticksTotal, gamesOver, activeSessions)
}
