package badger

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (s *Store) registerMetrics() {
	promautoFactory := promauto.With(s.promRegistry)
	promautoFactory.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "governance_store_lsm_size_bytes",
		Help: "size of the badger LSM tree",
	}, func() float64 {
		lsm, _ := s.db.Size()
		return float64(lsm)
	})
	promautoFactory.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "governance_store_vlog_size_bytes",
		Help: "size of the badger value log",
	}, func() float64 {
		_, vlog := s.db.Size()
		return float64(vlog)
	})
	s.gcRuns = promautoFactory.NewCounter(prometheus.CounterOpts{
		Name: "governance_store_vlog_gc_runs_total",
		Help: "value log garbage collections that rewrote a file",
	})
}
