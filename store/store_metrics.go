package store

import (
	"context"

	"github.com/battlesnakeio/snake/rules"
	"github.com/prometheus/client_golang/prometheus"
)

// InstrumentStore wraps all store methods to instrument the underlying calls.
func InstrumentStore(s Store) Store { return &metrics{s} }

var (
	storeCalls = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "snake",
			Subsystem: "store",
			Name:      "calls",
			Help:      "Calls processed by the store.",
		},
		[]string{"method"},
	)
)

func instrument(method string) func() {
	t := prometheus.NewTimer(storeCalls.WithLabelValues(method))
	return func() { t.ObserveDuration() }
}

func init() {
	prometheus.MustRegister(storeCalls)
}

type metrics struct{ s Store }

func (m *metrics) CreateGame(c context.Context, id string, initial rules.State) error {
	defer instrument("CreateGame")()
	return m.s.CreateGame(c, id, initial)
}

func (m *metrics) PushGameFrame(c context.Context, id string, frame rules.State) error {
	defer instrument("PushGameFrame")()
	return m.s.PushGameFrame(c, id, frame)
}

func (m *metrics) ListGameFrames(c context.Context, id string, limit, offset int) ([]rules.State, error) {
	defer instrument("ListGameFrames")()
	return m.s.ListGameFrames(c, id, limit, offset)
}

func (m *metrics) DeleteGame(c context.Context, id string) error {
	defer instrument("DeleteGame")()
	return m.s.DeleteGame(c, id)
}
