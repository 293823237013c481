package contract

import (
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"stake_gov/sdk"
)

// DefaultAddress is used as the stake escrow account when neither the env nor
// WithAddress name the contract.
const DefaultAddress sdk.Address = "contract:governance"

// Contract is the governance state machine. All calls are serialized; each one runs in
// its own store transaction and either commits completely or leaves no trace.
type Contract struct {
	mu        sync.Mutex
	store     Store
	gateway   TokenGateway
	logger    *slog.Logger
	metrics   contractMetrics
	proposals *proposalCache
	eventSink func(string)

	address           sdk.Address
	ledgerInterval    time.Duration
	cacheSize         int
	promRegistry      prometheus.Registerer
	adminGatedWeights bool
	enforceVoteWindow bool
	uniqueProposalIDs bool
	voterAuth         bool
}

type OptionFunc func(*Contract)

// WithLogger specifies the logger object to use for logging messages
func WithLogger(logger *slog.Logger) OptionFunc {
	return func(c *Contract) {
		c.logger = logger
	}
}

// WithPromRegistry specifies the prometheus registry to use for metrics
func WithPromRegistry(registry prometheus.Registerer) OptionFunc {
	return func(c *Contract) {
		c.promRegistry = registry
	}
}

// WithAddress sets the account that holds staked tokens
func WithAddress(addr sdk.Address) OptionFunc {
	return func(c *Contract) {
		c.address = addr
	}
}

// WithEventSink receives every event line after its call committed
func WithEventSink(sink func(string)) OptionFunc {
	return func(c *Contract) {
		c.eventSink = sink
	}
}

// WithLedgerInterval sets the ledger close time used to turn ledger counts into lifetimes
func WithLedgerInterval(d time.Duration) OptionFunc {
	return func(c *Contract) {
		c.ledgerInterval = d
	}
}

// WithProposalCacheSize bounds the decoded proposal cache, 0 disables it
func WithProposalCacheSize(size int) OptionFunc {
	return func(c *Contract) {
		c.cacheSize = size
	}
}

// WithAdminGatedWeights requires the administrator's authorization for SetTokenVoteWeight
func WithAdminGatedWeights(enabled bool) OptionFunc {
	return func(c *Contract) {
		c.adminGatedWeights = enabled
	}
}

// WithEnforceVoteWindow makes CastVote reject unknown and closed proposals
func WithEnforceVoteWindow(enabled bool) OptionFunc {
	return func(c *Contract) {
		c.enforceVoteWindow = enabled
	}
}

// WithUniqueProposalIDs makes CreateProposal refuse to overwrite an existing id
func WithUniqueProposalIDs(enabled bool) OptionFunc {
	return func(c *Contract) {
		c.uniqueProposalIDs = enabled
	}
}

// WithVoterAuth requires the voter's authorization for CastVote
func WithVoterAuth(enabled bool) OptionFunc {
	return func(c *Contract) {
		c.voterAuth = enabled
	}
}

func New(store Store, gateway TokenGateway, opts ...OptionFunc) (*Contract, error) {
	if store == nil {
		return nil, errors.New("contract: nil store")
	}
	if gateway == nil {
		return nil, errors.New("contract: nil token gateway")
	}
	c := &Contract{
		store:          store,
		gateway:        gateway,
		address:        DefaultAddress,
		ledgerInterval: DefaultLedgerInterval,
		cacheSize:      DefaultProposalCacheSize,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	c.logger = c.logger.With("component", "governance")
	if c.eventSink == nil {
		c.eventSink = func(line string) {
			c.logger.Info("event", "data", line)
		}
	}
	if c.ledgerInterval <= 0 {
		c.ledgerInterval = DefaultLedgerInterval
	}
	cache, err := newProposalCache(c.cacheSize)
	if err != nil {
		return nil, err
	}
	c.proposals = cache
	c.metrics.init(c.promRegistry)
	return c, nil
}

// Close releases the underlying store.
func (c *Contract) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.store.Close()
}

// ledgers converts a ledger count into a wall-clock lifetime.
func (c *Contract) ledgers(n uint32) time.Duration {
	return time.Duration(n) * c.ledgerInterval
}

// update runs fn as one serialized call. Queries go through here as well because
// reading a record extends its lifetime.
func (c *Contract) update(env sdk.Env, op string, fn func(ctx *opContext) error) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var committed *opContext
	err := c.store.Update(func(txn Txn) error {
		ctx := c.newOpContext(env, txn)
		if err := fn(ctx); err != nil {
			return err
		}
		committed = ctx
		return nil
	})
	c.metrics.operations.WithLabelValues(op, ErrorCode(err)).Inc()
	if err != nil {
		c.proposals.purge()
		c.logger.Debug("call rejected", "op", op, "error", err)
		return err
	}
	committed.commit()
	return nil
}

// query is update for calls that hand back a value.
func query[T any](c *Contract, env sdk.Env, op string, fn func(ctx *opContext) (T, error)) (T, error) {
	var out T
	err := c.update(env, op, func(ctx *opContext) error {
		v, err := fn(ctx)
		if err != nil {
			return err
		}
		out = v
		return nil
	})
	return out, err
}
