package node

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"stake_gov/contract"
	"stake_gov/contract/dao"
	"stake_gov/internal/api"
	"stake_gov/internal/config"
	"stake_gov/sdk"
	"stake_gov/store/badger"
	"stake_gov/store/leveldb"
	"stake_gov/token"
)

// Node hosts one governance contract behind the HTTP API.
type Node struct {
	cfg          *config.Config
	logger       *slog.Logger
	promRegistry *prometheus.Registry
	store        contract.Store
	ledger       *token.Ledger
	gov          *contract.Contract
	handler      http.Handler
}

// New opens the configured store, seeds the token ledger and bootstraps the contract.
func New(cfg *config.Config, logger *slog.Logger) (*Node, error) {
	n := &Node{
		cfg:          cfg,
		logger:       logger,
		promRegistry: prometheus.NewRegistry(),
	}
	interval, err := cfg.LedgerIntervalDuration()
	if err != nil {
		return nil, err
	}
	if n.store, err = n.openStore(interval); err != nil {
		return nil, fmt.Errorf("open %s store: %w", cfg.Storage, err)
	}
	n.ledger = token.NewLedger(n.store)
	if err := n.seedLedger(); err != nil {
		_ = n.store.Close()
		return nil, err
	}
	address := sdk.Address(cfg.ContractAddress)
	n.gov, err = contract.New(n.store, n.ledger,
		contract.WithLogger(logger),
		contract.WithPromRegistry(n.promRegistry),
		contract.WithAddress(address),
		contract.WithLedgerInterval(interval),
		contract.WithProposalCacheSize(cfg.ProposalCacheSize),
		contract.WithAdminGatedWeights(cfg.AdminGatedWeights),
		contract.WithEnforceVoteWindow(cfg.EnforceVoteWindow),
		contract.WithUniqueProposalIDs(cfg.UniqueProposalIds),
		contract.WithVoterAuth(cfg.VoterAuth),
	)
	if err != nil {
		_ = n.store.Close()
		return nil, err
	}
	if err := n.bootstrap(); err != nil {
		_ = n.gov.Close()
		return nil, fmt.Errorf("bootstrap: %w", err)
	}
	n.handler = api.New(
		api.NewGovernance(n.gov, n.ledger, address, cfg.DevMode),
		api.Options{AllowedOrigins: "*", EnableReqLogger: true, Logger: logger},
	)
	return n, nil
}

func (n *Node) openStore(interval time.Duration) (contract.Store, error) {
	minLifetime := time.Duration(contract.DayInLedgers) * interval
	switch n.cfg.Storage {
	case config.StorageBadger:
		return badger.New(
			badger.WithDataDir(n.cfg.DataDir),
			badger.WithLogger(n.logger),
			badger.WithPromRegistry(n.promRegistry),
			badger.WithGc(n.cfg.BadgerGc),
			badger.WithMinLifetime(minLifetime),
		)
	case config.StorageLeveldb:
		return leveldb.Open(filepath.Join(n.cfg.DataDir, "leveldb"), &leveldb.Options{MinLifetime: minLifetime})
	default:
		store := contract.NewMemoryStore(contract.MemoryStoreConfig{
			File:        n.cfg.SnapshotFile,
			MinLifetime: minLifetime,
		})
		if err := store.LoadFromFile(); err != nil {
			return nil, err
		}
		return store, nil
	}
}

// seedLedger credits the genesis balances once per store. Balances live next to the
// contract state, so restarts keep whatever was staked or paid out since.
func (n *Node) seedLedger() error {
	balances := make([]token.Balance, 0, len(n.cfg.Genesis))
	for _, b := range n.cfg.Genesis {
		amount, err := dao.ParseAmount(b.Amount)
		if err != nil {
			return fmt.Errorf("genesis balance of %s: %w", b.Address, err)
		}
		balances = append(balances, token.Balance{
			Asset:   sdk.Asset(b.Asset),
			Address: sdk.Address(b.Address),
			Amount:  amount,
		})
	}
	applied, err := n.ledger.Genesis(balances)
	if err != nil {
		return err
	}
	if applied {
		n.logger.Info("credited genesis balances", "component", "node", "count", len(balances))
	}
	return nil
}

// bootstrap applies the configured admin, token, quorum and weights. Steps whose
// state already exists are skipped so restarts are harmless.
func (n *Node) bootstrap() error {
	b := n.cfg.Bootstrap
	if b.Admin == "" {
		return nil
	}
	admin := sdk.Address(b.Admin)
	env := sdk.Env{
		ContractId: sdk.Address(n.cfg.ContractAddress),
		TxId:       "bootstrap",
		Timestamp:  uint64(time.Now().Unix()), //nolint:gosec // wall clock is past 1970
		Sender:     sdk.Sender{Address: admin, RequiredAuths: []sdk.Address{admin}},
	}
	if _, err := n.gov.GetAdmin(); errors.Is(err, contract.ErrNotInitialized) {
		if err := n.gov.Initialize(env, admin); err != nil {
			return err
		}
		n.logger.Info("initialized contract", "component", "node", "admin", admin)
	} else if err != nil {
		return err
	}
	cfg, err := n.gov.GetConfig()
	if err != nil {
		return err
	}
	if cfg.Admin != admin {
		n.logger.Warn("configured admin differs from the stored one, skipping bootstrap",
			"component", "node", "stored", cfg.Admin)
		return nil
	}
	if b.Token != "" && cfg.Token == "" {
		if err := n.gov.SetGovernanceToken(env, sdk.Asset(b.Token)); err != nil {
			return err
		}
	}
	quorum := dao.QuorumRequirements{MinTotalVotes: b.MinTotalVotes, PercentYes: b.PercentYes}
	if quorum != (dao.QuorumRequirements{}) && cfg.Quorum == (dao.QuorumRequirements{}) {
		if err := n.gov.SetQuorumRequirements(env, quorum.MinTotalVotes, quorum.PercentYes); err != nil {
			return err
		}
	}
	weights := dao.VotesWeight{StakerWeight: b.StakerWeight, HolderWeight: b.HolderWeight}
	if weights != (dao.VotesWeight{}) && cfg.Weights == (dao.VotesWeight{}) {
		if err := n.gov.SetTokenVoteWeight(env, weights.StakerWeight, weights.HolderWeight); err != nil {
			return err
		}
	}
	return nil
}

// Handler returns the API handler.
func (n *Node) Handler() http.Handler {
	return n.handler
}

// Serve runs the API and metrics listeners until ctx is cancelled, then shuts both
// down within the configured timeout.
func (n *Node) Serve(ctx context.Context, apiListener, metricsListener net.Listener) error {
	shutdownTimeout, err := n.cfg.ShutdownTimeoutDuration()
	if err != nil {
		return err
	}
	servers := []*http.Server{{
		Handler:           n.handler,
		ReadHeaderTimeout: 60 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}}
	listeners := []net.Listener{apiListener}
	if metricsListener != nil {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(n.promRegistry, promhttp.HandlerOpts{}))
		servers = append(servers, &http.Server{
			Handler:           mux,
			ReadHeaderTimeout: 60 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       120 * time.Second,
		})
		listeners = append(listeners, metricsListener)
	}

	errChan := make(chan error, len(servers))
	for i, srv := range servers {
		i, srv := i, srv
		n.logger.Info("listening on "+listeners[i].Addr().String(), "component", "node")
		go func() {
			if err := srv.Serve(listeners[i]); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errChan <- err
			}
		}()
	}

	var serveErr error
	select {
	case <-ctx.Done():
		n.logger.Info("signal received, initiating graceful shutdown", "component", "node")
	case serveErr = <-errChan:
		n.logger.Error("listener failed", "component", "node", "error", serveErr)
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	for _, srv := range servers {
		if err := srv.Shutdown(shutdownCtx); err != nil {
			n.logger.Error("server shutdown error", "component", "node", "error", err)
		}
	}
	return serveErr
}

// Close releases the contract and its store.
func (n *Node) Close() error {
	return n.gov.Close()
}

// Run starts a node from cfg and blocks until ctx is cancelled.
func Run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	logger.Debug(fmt.Sprintf("config: %+v", cfg), "component", "node")
	n, err := New(cfg, logger)
	if err != nil {
		return err
	}
	defer n.Close()

	apiListener, err := net.Listen("tcp", fmt.Sprintf("%s:%d", cfg.BindAddr, cfg.Port))
	if err != nil {
		return err
	}
	var metricsListener net.Listener
	if cfg.MetricsPort > 0 {
		metricsListener, err = net.Listen("tcp", fmt.Sprintf("%s:%d", cfg.BindAddr, cfg.MetricsPort))
		if err != nil {
			apiListener.Close()
			return err
		}
	}
	return n.Serve(ctx, apiListener, metricsListener)
}
