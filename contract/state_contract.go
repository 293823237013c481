package contract

import (
	"fmt"

	"stake_gov/contract/dao"
	"stake_gov/sdk"
)

// loadAdmin returns "" when the contract was never initialized.
func (ctx *opContext) loadAdmin() (sdk.Address, error) {
	if ctx.admin != nil {
		return *ctx.admin, nil
	}
	raw, err := ctx.get(adminKey())
	if err != nil {
		return "", err
	}
	var admin sdk.Address
	if raw != nil {
		if admin, err = dao.DecodeAddress(raw); err != nil {
			return "", fmt.Errorf("decode admin: %w", err)
		}
	}
	ctx.admin = &admin
	return admin, nil
}

func (ctx *opContext) storeAdmin(admin sdk.Address) error {
	if err := ctx.set(adminKey(), dao.EncodeAddress(admin)); err != nil {
		return err
	}
	ctx.admin = &admin
	return nil
}

// requireAdmin fails with ErrNotInitialized before Initialize and ErrUnauthorized
// when the administrator did not authorize the call.
func (ctx *opContext) requireAdmin() error {
	admin, err := ctx.loadAdmin()
	if err != nil {
		return err
	}
	if admin == "" {
		return ErrNotInitialized
	}
	return ctx.requireAuth(admin)
}

// loadGovernanceToken returns "" while no token is configured.
func (ctx *opContext) loadGovernanceToken() (sdk.Asset, error) {
	if ctx.token != nil {
		return *ctx.token, nil
	}
	raw, err := ctx.get(governanceTokenKey())
	if err != nil {
		return "", err
	}
	var token sdk.Asset
	if raw != nil {
		if token, err = dao.DecodeAsset(raw); err != nil {
			return "", fmt.Errorf("decode governance token: %w", err)
		}
	}
	ctx.token = &token
	return token, nil
}

func (ctx *opContext) requireGovernanceToken() (sdk.Asset, error) {
	token, err := ctx.loadGovernanceToken()
	if err != nil {
		return "", err
	}
	if token == "" {
		return "", ErrGovernanceTokenNotSet
	}
	return token, nil
}

func (ctx *opContext) storeGovernanceToken(token sdk.Asset) error {
	if err := ctx.setIfChanged(governanceTokenKey(), dao.EncodeAsset(token)); err != nil {
		return err
	}
	ctx.token = &token
	return nil
}

// loadVotesWeight defaults to (0,0), which makes everyone eligible.
func (ctx *opContext) loadVotesWeight() (dao.VotesWeight, error) {
	if ctx.weights != nil {
		return *ctx.weights, nil
	}
	raw, err := ctx.get(voteTokenWeightKey())
	if err != nil {
		return dao.VotesWeight{}, err
	}
	var w dao.VotesWeight
	if raw != nil {
		if w, err = dao.DecodeVotesWeight(raw); err != nil {
			return dao.VotesWeight{}, fmt.Errorf("decode vote weight: %w", err)
		}
	}
	ctx.weights = &w
	return w, nil
}

func (ctx *opContext) storeVotesWeight(w dao.VotesWeight) error {
	if err := ctx.setIfChanged(voteTokenWeightKey(), dao.EncodeVotesWeight(w)); err != nil {
		return err
	}
	ctx.weights = &w
	return nil
}

// loadQuorum defaults to (0,0) when never set.
func (ctx *opContext) loadQuorum() (dao.QuorumRequirements, error) {
	if ctx.quorum != nil {
		return *ctx.quorum, nil
	}
	raw, err := ctx.get(quorumKey())
	if err != nil {
		return dao.QuorumRequirements{}, err
	}
	var q dao.QuorumRequirements
	if raw != nil {
		if q, err = dao.DecodeQuorumRequirements(raw); err != nil {
			return dao.QuorumRequirements{}, fmt.Errorf("decode quorum: %w", err)
		}
	}
	ctx.quorum = &q
	return q, nil
}

func (ctx *opContext) storeQuorum(q dao.QuorumRequirements) error {
	if err := ctx.setIfChanged(quorumKey(), dao.EncodeQuorumRequirements(q)); err != nil {
		return err
	}
	ctx.quorum = &q
	return nil
}

// loadConfig assembles the singletons into one aggregate.
func (ctx *opContext) loadConfig() (dao.GovernanceConfig, error) {
	var (
		cfg dao.GovernanceConfig
		err error
	)
	if cfg.Admin, err = ctx.loadAdmin(); err != nil {
		return cfg, err
	}
	if cfg.Token, err = ctx.loadGovernanceToken(); err != nil {
		return cfg, err
	}
	if cfg.Weights, err = ctx.loadVotesWeight(); err != nil {
		return cfg, err
	}
	if cfg.Quorum, err = ctx.loadQuorum(); err != nil {
		return cfg, err
	}
	return cfg, nil
}
