package contract

import (
	"fmt"

	"stake_gov/contract/dao"
	"stake_gov/sdk"
)

// validAdmin accepts user accounts of a known address type. Contract and system
// accounts cannot sign admin calls.
func validAdmin(admin sdk.Address) error {
	switch {
	case !admin.IsValid():
		return fmt.Errorf("%w: admin %q", ErrInvalidAddress, admin)
	case admin.Domain() != sdk.AddressDomainUser:
		return fmt.Errorf("%w: admin %s is a %s account", ErrInvalidAddress, admin, admin.Domain())
	case !admin.IsKnownType():
		return fmt.Errorf("%w: admin %s has an unknown address type", ErrInvalidAddress, admin)
	}
	return nil
}

// Initialize records the administrator. It can run exactly once and needs no
// authorization.
func (c *Contract) Initialize(env sdk.Env, admin sdk.Address) error {
	return c.update(env, "initialize", func(ctx *opContext) error {
		if err := validAdmin(admin); err != nil {
			return err
		}
		current, err := ctx.loadAdmin()
		if err != nil {
			return err
		}
		if current != "" {
			return ErrAlreadyInitialized
		}
		if err := ctx.storeAdmin(admin); err != nil {
			return err
		}
		ctx.emitInitializedEvent(admin)
		return nil
	})
}

// GetAdmin returns the administrator or ErrNotInitialized.
func (c *Contract) GetAdmin() (sdk.Address, error) {
	return query(c, sdk.Env{}, "get_admin", func(ctx *opContext) (sdk.Address, error) {
		admin, err := ctx.loadAdmin()
		if err != nil {
			return "", err
		}
		if admin == "" {
			return "", ErrNotInitialized
		}
		return admin, nil
	})
}

// SetGovernanceToken picks the asset that is staked. Admin only.
func (c *Contract) SetGovernanceToken(env sdk.Env, token sdk.Asset) error {
	return c.update(env, "set_governance_token", func(ctx *opContext) error {
		if err := ctx.requireAdmin(); err != nil {
			return err
		}
		if !token.IsValid() {
			return fmt.Errorf("%w: governance token %q", ErrInvalidAddress, token)
		}
		if err := ctx.storeGovernanceToken(token); err != nil {
			return err
		}
		ctx.emitGovernanceTokenEvent(token)
		return nil
	})
}

// GetGovernanceToken returns the staked asset or ErrGovernanceTokenNotSet.
func (c *Contract) GetGovernanceToken() (sdk.Asset, error) {
	return query(c, sdk.Env{}, "get_governance_token", func(ctx *opContext) (sdk.Asset, error) {
		return ctx.requireGovernanceToken()
	})
}

// SetQuorumRequirements replaces the pass rule. Admin only.
func (c *Contract) SetQuorumRequirements(env sdk.Env, minTotalVotes, percentYes uint64) error {
	return c.update(env, "set_quorum_requirements", func(ctx *opContext) error {
		if err := ctx.requireAdmin(); err != nil {
			return err
		}
		q := dao.QuorumRequirements{MinTotalVotes: minTotalVotes, PercentYes: percentYes}
		if err := ctx.storeQuorum(q); err != nil {
			return err
		}
		ctx.emitQuorumEvent(q)
		return nil
	})
}

// GetQuorumRequirements returns (0,0) until the administrator sets a rule.
func (c *Contract) GetQuorumRequirements() (dao.QuorumRequirements, error) {
	return query(c, sdk.Env{}, "get_quorum_requirements", func(ctx *opContext) (dao.QuorumRequirements, error) {
		return ctx.loadQuorum()
	})
}

// GetConfig returns all singletons at once; unset fields are zero.
func (c *Contract) GetConfig() (dao.GovernanceConfig, error) {
	return query(c, sdk.Env{}, "get_config", func(ctx *opContext) (dao.GovernanceConfig, error) {
		return ctx.loadConfig()
	})
}
