package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

type ctxKey string

const configContextKey ctxKey = "govd.config"

func WithContext(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, configContextKey, cfg)
}

func FromContext(ctx context.Context) *Config {
	cfg, ok := ctx.Value(configContextKey).(*Config)
	if !ok {
		return nil
	}
	return cfg
}

const (
	StorageMemory  = "memory"
	StorageBadger  = "badger"
	StorageLeveldb = "leveldb"

	DefaultShutdownTimeout = "30s"
)

// Balance seeds the in-process token ledger.
type Balance struct {
	Asset   string `yaml:"asset"`
	Address string `yaml:"address"`
	Amount  string `yaml:"amount"`
}

// Bootstrap is applied to a fresh contract on startup. Steps whose state already
// exists are skipped.
type Bootstrap struct {
	Admin         string `yaml:"admin"         split_words:"true"`
	Token         string `yaml:"token"         split_words:"true"`
	MinTotalVotes uint64 `yaml:"minTotalVotes" split_words:"true"`
	PercentYes    uint64 `yaml:"percentYes"    split_words:"true"`
	StakerWeight  uint32 `yaml:"stakerWeight"  split_words:"true"`
	HolderWeight  uint32 `yaml:"holderWeight"  split_words:"true"`
}

type Config struct {
	BindAddr          string    `yaml:"bindAddr"          split_words:"true"`
	Port              uint      `yaml:"port"`
	MetricsPort       uint      `yaml:"metricsPort"       split_words:"true"`
	Storage           string    `yaml:"storage"`
	DataDir           string    `yaml:"dataDir"           split_words:"true"`
	SnapshotFile      string    `yaml:"snapshotFile"      split_words:"true"`
	BadgerGc          bool      `yaml:"badgerGc"          split_words:"true"`
	LedgerInterval    string    `yaml:"ledgerInterval"    split_words:"true"`
	ShutdownTimeout   string    `yaml:"shutdownTimeout"   split_words:"true"`
	ContractAddress   string    `yaml:"contractAddress"   split_words:"true"`
	ProposalCacheSize int       `yaml:"proposalCacheSize" split_words:"true"`
	AdminGatedWeights bool      `yaml:"adminGatedWeights" split_words:"true"`
	EnforceVoteWindow bool      `yaml:"enforceVoteWindow" split_words:"true"`
	UniqueProposalIds bool      `yaml:"uniqueProposalIds" split_words:"true"`
	VoterAuth         bool      `yaml:"voterAuth"         split_words:"true"`
	DevMode           bool      `yaml:"devMode"           split_words:"true"`
	Bootstrap         Bootstrap `yaml:"bootstrap"`
	Genesis           []Balance `yaml:"genesis"           ignored:"true"`
}

func defaultConfig() *Config {
	return &Config{
		BindAddr:          "0.0.0.0",
		Port:              8080,
		MetricsPort:       9102,
		Storage:           StorageMemory,
		DataDir:           ".govd",
		BadgerGc:          true,
		LedgerInterval:    "5s",
		ShutdownTimeout:   DefaultShutdownTimeout,
		ContractAddress:   "contract:governance",
		ProposalCacheSize: 256,
	}
}

var globalConfig = defaultConfig()

// LoadConfig overlays the YAML file (if any) and then GOVD_* environment variables onto
// the defaults.
func LoadConfig(configFile string) (*Config, error) {
	if configFile == "" {
		if homeDir, err := os.UserHomeDir(); err == nil {
			userPath := filepath.Join(homeDir, ".govd", "govd.yaml")
			if _, err := os.Stat(userPath); err == nil {
				configFile = userPath
			}
		}
	}
	if configFile != "" {
		buf, err := os.ReadFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		if err := yaml.Unmarshal(buf, globalConfig); err != nil {
			return nil, fmt.Errorf("error parsing config file: %w", err)
		}
	}
	if err := envconfig.Process("govd", globalConfig); err != nil {
		return nil, fmt.Errorf("error processing environment: %w", err)
	}
	if err := globalConfig.validate(); err != nil {
		return nil, err
	}
	return globalConfig, nil
}

func GetConfig() *Config {
	return globalConfig
}

func (c *Config) validate() error {
	switch c.Storage {
	case StorageMemory, StorageBadger, StorageLeveldb:
	default:
		return fmt.Errorf("invalid storage: %q (must be 'memory', 'badger', or 'leveldb')", c.Storage)
	}
	if _, err := c.LedgerIntervalDuration(); err != nil {
		return err
	}
	if _, err := c.ShutdownTimeoutDuration(); err != nil {
		return err
	}
	return nil
}

func (c *Config) LedgerIntervalDuration() (time.Duration, error) {
	d, err := time.ParseDuration(c.LedgerInterval)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid ledgerInterval: %q", c.LedgerInterval)
	}
	return d, nil
}

func (c *Config) ShutdownTimeoutDuration() (time.Duration, error) {
	d, err := time.ParseDuration(c.ShutdownTimeout)
	if err != nil || d < 0 {
		return 0, fmt.Errorf("invalid shutdownTimeout: %q", c.ShutdownTimeout)
	}
	return d, nil
}
