package api

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"stake_gov/contract"
	"stake_gov/contract/dao"
	"stake_gov/sdk"
	"stake_gov/token"
)

const (
	// HeaderRequiredAuths lists the principals the fronting gateway verified, comma separated.
	HeaderRequiredAuths = "X-Required-Auths"
	// HeaderTxID is echoed into the call env.
	HeaderTxID = "X-Tx-Id"
	// HeaderLedgerTimestamp overrides the ledger clock in dev mode, unix seconds or ISO time.
	HeaderLedgerTimestamp = "X-Ledger-Timestamp"
)

type Governance struct {
	gov     *contract.Contract
	ledger  *token.Ledger
	address sdk.Address
	devMode bool
	now     func() time.Time
}

func NewGovernance(gov *contract.Contract, ledger *token.Ledger, address sdk.Address, devMode bool) *Governance {
	return &Governance{gov: gov, ledger: ledger, address: address, devMode: devMode, now: time.Now}
}

// env builds the call snapshot from the request headers.
func (g *Governance) env(req *http.Request) (sdk.Env, error) {
	env := sdk.Env{
		ContractId: g.address,
		TxId:       req.Header.Get(HeaderTxID),
		Timestamp:  uint64(g.now().Unix()), //nolint:gosec // wall clock is past 1970
	}
	for _, auth := range strings.Split(req.Header.Get(HeaderRequiredAuths), ",") {
		if auth = strings.TrimSpace(auth); auth != "" {
			env.Sender.RequiredAuths = append(env.Sender.RequiredAuths, sdk.Address(auth))
		}
	}
	if len(env.Sender.RequiredAuths) > 0 {
		env.Sender.Address = env.Sender.RequiredAuths[0]
	}
	if ts := req.Header.Get(HeaderLedgerTimestamp); ts != "" {
		if !g.devMode {
			return sdk.Env{}, BadRequest(errors.New(HeaderLedgerTimestamp + " is only honoured in dev mode"))
		}
		parsed, err := strconv.ParseUint(ts, 10, 64)
		if err != nil {
			var ok bool
			if parsed, ok = sdk.ParseTimestamp(ts); !ok {
				return sdk.Env{}, BadRequest(errors.Errorf("invalid %s %q", HeaderLedgerTimestamp, ts))
			}
		}
		env.Timestamp = parsed
	}
	return env, nil
}

func proposalID(req *http.Request) (uint32, error) {
	id, err := strconv.ParseUint(mux.Vars(req)["id"], 10, 32)
	if err != nil {
		return 0, BadRequest(errors.WithMessage(err, "proposal id"))
	}
	return uint32(id), nil
}

func address(req *http.Request, name string) (sdk.Address, error) {
	addr := sdk.Address(mux.Vars(req)[name])
	if !addr.IsValid() {
		return "", BadRequest(errors.Errorf("invalid address %q", addr))
	}
	return addr, nil
}

func parseAmount(req *http.Request) (*amountRequest, error) {
	var body amountRequest
	if err := ParseJSON(req.Body, &body); err != nil {
		return nil, BadRequest(errors.WithMessage(err, "body"))
	}
	return &body, nil
}

func (g *Governance) handleInitialize(w http.ResponseWriter, req *http.Request) error {
	var body initializeRequest
	if err := ParseJSON(req.Body, &body); err != nil {
		return BadRequest(errors.WithMessage(err, "body"))
	}
	env, err := g.env(req)
	if err != nil {
		return err
	}
	if err := g.gov.Initialize(env, sdk.Address(body.Admin)); err != nil {
		return err
	}
	return WriteJSON(w, statusResponse{})
}

func (g *Governance) handleGetAdmin(w http.ResponseWriter, req *http.Request) error {
	admin, err := g.gov.GetAdmin()
	if err != nil {
		return err
	}
	return WriteJSON(w, stringField{"admin", admin.String()})
}

func (g *Governance) handleGetConfig(w http.ResponseWriter, req *http.Request) error {
	cfg, err := g.gov.GetConfig()
	if err != nil {
		return err
	}
	return WriteJSON(w, cfg)
}

func (g *Governance) handleGetToken(w http.ResponseWriter, req *http.Request) error {
	asset, err := g.gov.GetGovernanceToken()
	if err != nil {
		return err
	}
	return WriteJSON(w, stringField{"token", asset.String()})
}

func (g *Governance) handleSetToken(w http.ResponseWriter, req *http.Request) error {
	var body tokenRequest
	if err := ParseJSON(req.Body, &body); err != nil {
		return BadRequest(errors.WithMessage(err, "body"))
	}
	env, err := g.env(req)
	if err != nil {
		return err
	}
	if err := g.gov.SetGovernanceToken(env, sdk.Asset(body.Token)); err != nil {
		return err
	}
	return WriteJSON(w, statusResponse{})
}

func (g *Governance) handleGetWeights(w http.ResponseWriter, req *http.Request) error {
	weights, err := g.gov.GetTokenVoteWeight()
	if err != nil {
		return err
	}
	return WriteJSON(w, weights)
}

func (g *Governance) handleSetWeights(w http.ResponseWriter, req *http.Request) error {
	var body dao.VotesWeight
	if err := ParseJSON(req.Body, &body); err != nil {
		return BadRequest(errors.WithMessage(err, "body"))
	}
	env, err := g.env(req)
	if err != nil {
		return err
	}
	if err := g.gov.SetTokenVoteWeight(env, body.StakerWeight, body.HolderWeight); err != nil {
		return err
	}
	return WriteJSON(w, statusResponse{})
}

func (g *Governance) handleGetQuorum(w http.ResponseWriter, req *http.Request) error {
	q, err := g.gov.GetQuorumRequirements()
	if err != nil {
		return err
	}
	return WriteJSON(w, q)
}

func (g *Governance) handleSetQuorum(w http.ResponseWriter, req *http.Request) error {
	var body dao.QuorumRequirements
	if err := ParseJSON(req.Body, &body); err != nil {
		return BadRequest(errors.WithMessage(err, "body"))
	}
	env, err := g.env(req)
	if err != nil {
		return err
	}
	if err := g.gov.SetQuorumRequirements(env, body.MinTotalVotes, body.PercentYes); err != nil {
		return err
	}
	return WriteJSON(w, statusResponse{})
}

func (g *Governance) handleCreateProposal(w http.ResponseWriter, req *http.Request) error {
	var body dao.Proposal
	if err := ParseJSON(req.Body, &body); err != nil {
		return BadRequest(errors.WithMessage(err, "body"))
	}
	env, err := g.env(req)
	if err != nil {
		return err
	}
	err = g.gov.CreateProposal(env, contract.CreateProposalArgs{
		ID:          body.ID,
		Creator:     body.Creator,
		Title:       body.Title,
		Description: body.Description,
		VoteStartAt: body.VoteStartAt,
		VoteEndAt:   body.VoteEndAt,
	})
	if err != nil {
		return err
	}
	w.Header().Set("Content-Type", JSONContentType)
	w.WriteHeader(http.StatusCreated)
	return writeBody(w, statusResponse{})
}

func (g *Governance) handleGetProposal(w http.ResponseWriter, req *http.Request) error {
	id, err := proposalID(req)
	if err != nil {
		return err
	}
	p, err := g.gov.GetProposal(id)
	if err != nil {
		return err
	}
	return WriteJSON(w, p)
}

func (g *Governance) handleCastVote(w http.ResponseWriter, req *http.Request) error {
	id, err := proposalID(req)
	if err != nil {
		return err
	}
	var body voteRequest
	if err := ParseJSON(req.Body, &body); err != nil {
		return BadRequest(errors.WithMessage(err, "body"))
	}
	env, err := g.env(req)
	if err != nil {
		return err
	}
	if err := g.gov.CastVote(env, sdk.Address(body.Voter), body.Yes, id); err != nil {
		return err
	}
	return WriteJSON(w, statusResponse{})
}

func (g *Governance) handleGetVotes(w http.ResponseWriter, req *http.Request) error {
	id, err := proposalID(req)
	if err != nil {
		return err
	}
	env, err := g.env(req)
	if err != nil {
		return err
	}
	votes, err := g.gov.GetProposalVotes(env, sdk.Address(req.URL.Query().Get("requester")), id)
	if err != nil {
		return err
	}
	return WriteJSON(w, votes)
}

func (g *Governance) handleGetPassed(w http.ResponseWriter, req *http.Request) error {
	id, err := proposalID(req)
	if err != nil {
		return err
	}
	env, err := g.env(req)
	if err != nil {
		return err
	}
	passed, err := g.gov.GetIsProposalPassed(env, id)
	if err != nil {
		return err
	}
	return WriteJSON(w, boolField{"passed", passed})
}

func (g *Governance) handleGetCanVote(w http.ResponseWriter, req *http.Request) error {
	addr, err := address(req, "address")
	if err != nil {
		return err
	}
	ok, err := g.gov.GetUserCanVote(addr)
	if err != nil {
		return err
	}
	return WriteJSON(w, boolField{"can_vote", ok})
}

func (g *Governance) handleGetHasVoted(w http.ResponseWriter, req *http.Request) error {
	addr, err := address(req, "address")
	if err != nil {
		return err
	}
	id, err := proposalID(req)
	if err != nil {
		return err
	}
	ok, err := g.gov.GetUserHasVoted(addr, id)
	if err != nil {
		return err
	}
	return WriteJSON(w, boolField{"has_voted", ok})
}

func (g *Governance) handleGetStake(w http.ResponseWriter, req *http.Request) error {
	addr, err := address(req, "address")
	if err != nil {
		return err
	}
	amount, err := g.gov.GetUserStake(addr)
	if err != nil {
		return err
	}
	return WriteJSON(w, amountField{"stake", amount})
}

// stakeHandler serves both stake and unstake, which share their shape.
func (g *Governance) stakeHandler(op func(sdk.Env, sdk.Address, *uint256.Int) error) HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) error {
		addr, err := address(req, "address")
		if err != nil {
			return err
		}
		body, err := parseAmount(req)
		if err != nil {
			return err
		}
		amount, err := dao.ParseAmount(body.Amount)
		if err != nil {
			return BadRequest(errors.WithMessage(err, "amount"))
		}
		env, err := g.env(req)
		if err != nil {
			return err
		}
		if err := op(env, addr, amount); err != nil {
			return err
		}
		return WriteJSON(w, statusResponse{})
	}
}

func (g *Governance) handleGetTotalStaked(w http.ResponseWriter, req *http.Request) error {
	total, err := g.gov.GetTotalStaked()
	if err != nil {
		return err
	}
	return WriteJSON(w, amountField{"total_staked", total})
}

func (g *Governance) handleGetBalance(w http.ResponseWriter, req *http.Request) error {
	addr, err := address(req, "address")
	if err != nil {
		return err
	}
	asset := sdk.Asset(req.URL.Query().Get("asset"))
	if asset == "" {
		if asset, err = g.gov.GetGovernanceToken(); err != nil {
			return err
		}
	}
	bal, err := g.ledger.Balance(asset, addr)
	if err != nil {
		if errors.Is(err, token.ErrInvalidAsset) {
			return BadRequest(err)
		}
		return err
	}
	return WriteJSON(w, amountField{"balance", bal})
}

func (g *Governance) Mount(root *mux.Router, pathPrefix string) {
	sub := root
	if pathPrefix != "" {
		sub = root.PathPrefix(pathPrefix).Subrouter()
	}

	sub.Path("/initialize").Methods(http.MethodPost).HandlerFunc(WrapHandlerFunc(g.handleInitialize))
	sub.Path("/admin").Methods(http.MethodGet).HandlerFunc(WrapHandlerFunc(g.handleGetAdmin))
	sub.Path("/config").Methods(http.MethodGet).HandlerFunc(WrapHandlerFunc(g.handleGetConfig))
	sub.Path("/token").Methods(http.MethodGet).HandlerFunc(WrapHandlerFunc(g.handleGetToken))
	sub.Path("/token").Methods(http.MethodPut).HandlerFunc(WrapHandlerFunc(g.handleSetToken))
	sub.Path("/weights").Methods(http.MethodGet).HandlerFunc(WrapHandlerFunc(g.handleGetWeights))
	sub.Path("/weights").Methods(http.MethodPut).HandlerFunc(WrapHandlerFunc(g.handleSetWeights))
	sub.Path("/quorum").Methods(http.MethodGet).HandlerFunc(WrapHandlerFunc(g.handleGetQuorum))
	sub.Path("/quorum").Methods(http.MethodPut).HandlerFunc(WrapHandlerFunc(g.handleSetQuorum))
	sub.Path("/proposals").Methods(http.MethodPost).HandlerFunc(WrapHandlerFunc(g.handleCreateProposal))
	sub.Path("/proposals/{id}").Methods(http.MethodGet).HandlerFunc(WrapHandlerFunc(g.handleGetProposal))
	sub.Path("/proposals/{id}/votes").Methods(http.MethodPost).HandlerFunc(WrapHandlerFunc(g.handleCastVote))
	sub.Path("/proposals/{id}/votes").Methods(http.MethodGet).HandlerFunc(WrapHandlerFunc(g.handleGetVotes))
	sub.Path("/proposals/{id}/passed").Methods(http.MethodGet).HandlerFunc(WrapHandlerFunc(g.handleGetPassed))
	sub.Path("/accounts/{address}/can-vote").Methods(http.MethodGet).HandlerFunc(WrapHandlerFunc(g.handleGetCanVote))
	sub.Path("/accounts/{address}/voted/{id}").Methods(http.MethodGet).HandlerFunc(WrapHandlerFunc(g.handleGetHasVoted))
	sub.Path("/accounts/{address}/stake").Methods(http.MethodGet).HandlerFunc(WrapHandlerFunc(g.handleGetStake))
	sub.Path("/accounts/{address}/stake").Methods(http.MethodPost).HandlerFunc(WrapHandlerFunc(g.stakeHandler(g.gov.Stake)))
	sub.Path("/accounts/{address}/unstake").Methods(http.MethodPost).HandlerFunc(WrapHandlerFunc(g.stakeHandler(g.gov.Unstake)))
	sub.Path("/staked").Methods(http.MethodGet).HandlerFunc(WrapHandlerFunc(g.handleGetTotalStaked))
	if g.ledger != nil {
		sub.Path("/tokens/{address}/balance").Methods(http.MethodGet).HandlerFunc(WrapHandlerFunc(g.handleGetBalance))
	}
}
