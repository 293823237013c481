package contract

import (
	"math/big"

	"github.com/holiman/uint256"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type contractMetrics struct {
	operations       *prometheus.CounterVec
	votesCast        *prometheus.CounterVec
	proposals        prometheus.Counter
	totalStaked      prometheus.Gauge
	ttlExtensions    prometheus.Counter
	proposalCacheHit prometheus.Counter
}

// init registers against promRegistry; a nil registry leaves the collectors unregistered.
func (m *contractMetrics) init(promRegistry prometheus.Registerer) {
	promautoFactory := promauto.With(promRegistry)
	m.operations = promautoFactory.NewCounterVec(prometheus.CounterOpts{
		Name: "governance_operations_total",
		Help: "contract operations by name and outcome code",
	}, []string{"op", "outcome"})
	m.votesCast = promautoFactory.NewCounterVec(prometheus.CounterOpts{
		Name: "governance_votes_cast_total",
		Help: "accepted ballots by choice",
	}, []string{"choice"})
	m.proposals = promautoFactory.NewCounter(prometheus.CounterOpts{
		Name: "governance_proposals_created_total",
		Help: "proposals stored, overwrites included",
	})
	m.totalStaked = promautoFactory.NewGauge(prometheus.GaugeOpts{
		Name: "governance_total_staked",
		Help: "sum of all stakes (float approximation)",
	})
	m.ttlExtensions = promautoFactory.NewCounter(prometheus.CounterOpts{
		Name: "governance_ttl_extensions_total",
		Help: "record lifetimes pushed out by an access",
	})
	m.proposalCacheHit = promautoFactory.NewCounter(prometheus.CounterOpts{
		Name: "governance_proposal_cache_hits_total",
		Help: "proposal reads served from the decoded cache",
	})
}

func (m *contractMetrics) setTotalStaked(v *uint256.Int) {
	f, _ := new(big.Float).SetInt(v.ToBig()).Float64()
	m.totalStaked.Set(f)
}
