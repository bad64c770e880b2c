// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package rpc

import (
	"context"
	"fmt"
	"net/http"

	"cosmossdk.io/math"
	"github.com/ava-labs/avalanchego/ids"

	"github.com/ava-labs/phoenixvm/chain"
	"github.com/ava-labs/phoenixvm/codec"
	"github.com/ava-labs/phoenixvm/curve"
	"github.com/ava-labs/phoenixvm/pool"
	"github.com/ava-labs/phoenixvm/pricing"
	"github.com/ava-labs/phoenixvm/stake"
	"github.com/ava-labs/phoenixvm/state"
	"github.com/ava-labs/phoenixvm/storage"
	"github.com/ava-labs/phoenixvm/trace"
	"github.com/ava-labs/phoenixvm/utils"
	"github.com/ava-labs/phoenixvm/workers"
)

type JSONRPCServer struct {
	c Controller
}

func NewJSONRPCServer(c Controller) *JSONRPCServer {
	return &JSONRPCServer{c}
}

type PingReply struct {
	Success bool `json:"success"`
}

func (*JSONRPCServer) Ping(_ *http.Request, _ *struct{}, reply *PingReply) error {
	reply.Success = true
	return nil
}

type StatusReply struct {
	Timestamp int64  `json:"timestamp"`
	Executed  uint64 `json:"executed"`
}

func (j *JSONRPCServer) Status(_ *http.Request, _ *struct{}, reply *StatusReply) error {
	reply.Timestamp = j.c.Now()
	reply.Executed = j.c.Executed()
	return nil
}

type SubmitArgs struct {
	Submission *chain.Submission `json:"submission"`
}

type SubmitReply struct {
	ID     ids.ID        `json:"id"`
	Result *chain.Result `json:"result"`
}

// Submit executes a signed submission. A failed action is an error.
func (j *JSONRPCServer) Submit(req *http.Request, args *SubmitArgs, reply *SubmitReply) error {
	ctx, span := j.c.Tracer().Start(req.Context(), "Server.Submit")
	defer span.End()

	if args.Submission == nil {
		return ErrSubmissionMissing
	}
	result, err := j.c.Submit(ctx, args.Submission)
	if err != nil {
		return err
	}
	reply.ID = args.Submission.ID()
	reply.Result = result
	return nil
}

type TokenArgs struct {
	Token codec.Address `json:"token"`
}

type TokenReply struct {
	Name        string        `json:"name"`
	Symbol      string        `json:"symbol"`
	Decimals    uint8         `json:"decimals"`
	TotalSupply math.Int      `json:"totalSupply"`
	Owner       codec.Address `json:"owner"`
}

func (j *JSONRPCServer) Token(req *http.Request, args *TokenArgs, reply *TokenReply) error {
	ctx, span := j.c.Tracer().Start(req.Context(), "Server.Token")
	defer span.End()

	info, err := j.c.Runtime().Ledger.Info(ctx, j.c.State(), args.Token)
	if err != nil {
		return err
	}
	reply.Name = info.Name
	reply.Symbol = info.Symbol
	reply.Decimals = info.Decimals
	reply.TotalSupply = info.TotalSupply
	reply.Owner = info.Owner
	return nil
}

type BalanceArgs struct {
	Token   codec.Address `json:"token"`
	Address codec.Address `json:"address"`
}

type BalanceReply struct {
	Amount math.Int `json:"amount"`
	// Formatted is [Amount] scaled by the token decimals.
	Formatted string `json:"formatted"`
}

func (j *JSONRPCServer) Balance(req *http.Request, args *BalanceArgs, reply *BalanceReply) error {
	ctx, span := j.c.Tracer().Start(req.Context(), "Server.Balance")
	defer span.End()

	ledger := j.c.Runtime().Ledger
	im := j.c.State()
	decimals, err := ledger.Decimals(ctx, im, args.Token)
	if err != nil {
		return err
	}
	balance, err := ledger.Balance(ctx, im, args.Token, args.Address)
	if err != nil {
		return err
	}
	reply.Amount = balance
	reply.Formatted = utils.FormatAmount(balance, decimals)
	return nil
}

type PoolAddressArgs struct {
	Stable bool          `json:"stable"`
	TokenA codec.Address `json:"tokenA"`
	TokenB codec.Address `json:"tokenB"`
}

type PoolAddressReply struct {
	Pool       codec.Address `json:"pool"`
	ShareToken codec.Address `json:"shareToken"`
	Stake      codec.Address `json:"stake"`
}

// PoolAddress derives the addresses of the pool of a token pair. The tokens
// may be given in either order.
func (*JSONRPCServer) PoolAddress(_ *http.Request, args *PoolAddressArgs, reply *PoolAddressReply) error {
	kind := pricing.XykKind
	if args.Stable {
		kind = pricing.StableKind
	}
	x, y := args.TokenA, args.TokenB
	if x.Compare(y) > 0 {
		x, y = y, x
	}
	addr, err := storage.PoolAddress(kind, x, y)
	if err != nil {
		return err
	}
	reply.Pool = addr
	reply.ShareToken = storage.ShareTokenAddress(addr)
	reply.Stake = storage.StakeAddress(reply.ShareToken)
	return nil
}

type PoolArgs struct {
	Pool codec.Address `json:"pool"`
}

func (j *JSONRPCServer) PoolInfo(req *http.Request, args *PoolArgs, reply *pool.Info) error {
	ctx, span := j.c.Tracer().Start(req.Context(), "Server.PoolInfo")
	defer span.End()
	trace.Pool(span, args.Pool)

	im := j.c.State()
	kind, err := poolKind(ctx, im, args.Pool)
	if err != nil {
		return err
	}
	rt := j.c.Runtime()
	switch kind {
	case pricing.XykKind:
		*reply, err = rt.Pools.QueryPoolInfo(ctx, im, args.Pool)
	case pricing.StableKind:
		*reply, err = rt.StablePools.QueryPoolInfo(ctx, im, args.Pool, chain.Seconds(j.c.Now()))
	}
	return err
}

type ShareArgs struct {
	Pool   codec.Address `json:"pool"`
	Amount math.Int      `json:"amount"`
}

type ShareReply struct {
	Assets [2]pool.Asset `json:"assets"`
}

// Share reports what [Amount] shares of a pool redeem for.
func (j *JSONRPCServer) Share(req *http.Request, args *ShareArgs, reply *ShareReply) error {
	ctx, span := j.c.Tracer().Start(req.Context(), "Server.Share")
	defer span.End()
	trace.Pool(span, args.Pool)

	im := j.c.State()
	kind, err := poolKind(ctx, im, args.Pool)
	if err != nil {
		return err
	}
	rt := j.c.Runtime()
	switch kind {
	case pricing.XykKind:
		reply.Assets, err = rt.Pools.QueryShare(ctx, im, args.Pool, args.Amount)
	case pricing.StableKind:
		reply.Assets, err = rt.StablePools.QueryShare(ctx, im, args.Pool, args.Amount)
	}
	return err
}

type SimulateSwapArgs struct {
	Pool           codec.Address `json:"pool"`
	OfferAsset     codec.Address `json:"offerAsset"`
	OfferAmount    math.Int      `json:"offerAmount"`
	ReferralFeeBps int64         `json:"referralFeeBps"`
}

func (j *JSONRPCServer) SimulateSwap(req *http.Request, args *SimulateSwapArgs, reply *pool.SimulateSwapResponse) error {
	ctx, span := j.c.Tracer().Start(req.Context(), "Server.SimulateSwap")
	defer span.End()
	trace.Pool(span, args.Pool)

	resp, err := j.simulateSwap(ctx, j.c.State(), chain.Seconds(j.c.Now()), args)
	if err != nil {
		return err
	}
	*reply = resp
	return nil
}

func (j *JSONRPCServer) simulateSwap(
	ctx context.Context,
	im state.Immutable,
	now uint64,
	args *SimulateSwapArgs,
) (pool.SimulateSwapResponse, error) {
	kind, err := poolKind(ctx, im, args.Pool)
	if err != nil {
		return pool.SimulateSwapResponse{}, err
	}
	rt := j.c.Runtime()
	if kind == pricing.StableKind {
		return rt.StablePools.SimulateSwap(ctx, im, args.Pool, now, args.OfferAsset, args.OfferAmount, args.ReferralFeeBps)
	}
	return rt.Pools.SimulateSwap(ctx, im, args.Pool, args.OfferAsset, args.OfferAmount, args.ReferralFeeBps)
}

type SimulateReverseSwapArgs struct {
	Pool           codec.Address `json:"pool"`
	AskAsset       codec.Address `json:"askAsset"`
	AskAmount      math.Int      `json:"askAmount"`
	ReferralFeeBps int64         `json:"referralFeeBps"`
}

func (j *JSONRPCServer) SimulateReverseSwap(
	req *http.Request,
	args *SimulateReverseSwapArgs,
	reply *pool.SimulateReverseSwapResponse,
) error {
	ctx, span := j.c.Tracer().Start(req.Context(), "Server.SimulateReverseSwap")
	defer span.End()
	trace.Pool(span, args.Pool)

	im := j.c.State()
	kind, err := poolKind(ctx, im, args.Pool)
	if err != nil {
		return err
	}
	rt := j.c.Runtime()
	switch kind {
	case pricing.XykKind:
		*reply, err = rt.Pools.SimulateReverseSwap(ctx, im, args.Pool, args.AskAsset, args.AskAmount, args.ReferralFeeBps)
	case pricing.StableKind:
		*reply, err = rt.StablePools.SimulateReverseSwap(
			ctx, im, args.Pool, chain.Seconds(j.c.Now()),
			args.AskAsset, args.AskAmount, args.ReferralFeeBps,
		)
	}
	return err
}

type SimulateSwapsArgs struct {
	Swaps []*SimulateSwapArgs `json:"swaps"`
}

type SimulateSwapsResult struct {
	Response *pool.SimulateSwapResponse `json:"response,omitempty"`
	Error    string                     `json:"error,omitempty"`
}

type SimulateSwapsReply struct {
	Results []SimulateSwapsResult `json:"results"`
}

// SimulateSwaps quotes every swap against the same state. A failing quote
// does not fail the others.
func (j *JSONRPCServer) SimulateSwaps(req *http.Request, args *SimulateSwapsArgs, reply *SimulateSwapsReply) error {
	ctx, span := j.c.Tracer().Start(req.Context(), "Server.SimulateSwaps")
	defer span.End()

	if len(args.Swaps) > MaxSimulations {
		return fmt.Errorf("%w: %d > %d", ErrTooManySwaps, len(args.Swaps), MaxSimulations)
	}
	var (
		im      = j.c.State()
		now     = chain.Seconds(j.c.Now())
		results = make([]SimulateSwapsResult, len(args.Swaps))
	)
	err := workers.Map(ctx, j.c.Workers(), len(args.Swaps), func(i int) error {
		swap := args.Swaps[i]
		if swap == nil {
			results[i].Error = ErrSubmissionMissing.Error()
			return nil
		}
		resp, err := j.simulateSwap(ctx, im, now, swap)
		if err != nil {
			results[i].Error = err.Error()
			return nil
		}
		results[i].Response = &resp
		return nil
	})
	if err != nil {
		return err
	}
	reply.Results = results
	return nil
}

type StakerArgs struct {
	Stake  codec.Address `json:"stake"`
	Staker codec.Address `json:"staker"`
}

type StakedReply struct {
	Stakes []storage.Stake `json:"stakes"`
	Total  math.Int        `json:"total"`
}

func (j *JSONRPCServer) Staked(req *http.Request, args *StakerArgs, reply *StakedReply) error {
	ctx, span := j.c.Tracer().Start(req.Context(), "Server.Staked")
	defer span.End()

	info, err := j.c.Runtime().Stakes.Staked(ctx, j.c.State(), args.Stake, args.Staker)
	if err != nil {
		return err
	}
	reply.Stakes = info.Stakes
	reply.Total = info.Total
	return nil
}

type StakeArgs struct {
	Stake codec.Address `json:"stake"`
}

type TotalStakedReply struct {
	Total math.Int `json:"total"`
}

func (j *JSONRPCServer) TotalStaked(req *http.Request, args *StakeArgs, reply *TotalStakedReply) error {
	ctx, span := j.c.Tracer().Start(req.Context(), "Server.TotalStaked")
	defer span.End()

	total, err := j.c.Runtime().Stakes.TotalStaked(ctx, j.c.State(), args.Stake)
	if err != nil {
		return err
	}
	reply.Total = total
	return nil
}

type RewardsReply struct {
	Rewards []stake.RewardAmount `json:"rewards"`
}

func (j *JSONRPCServer) WithdrawableRewards(req *http.Request, args *StakerArgs, reply *RewardsReply) error {
	ctx, span := j.c.Tracer().Start(req.Context(), "Server.WithdrawableRewards")
	defer span.End()

	rewards, err := j.c.Runtime().Stakes.WithdrawableRewards(ctx, j.c.State(), args.Stake, args.Staker)
	if err != nil {
		return err
	}
	reply.Rewards = rewards
	return nil
}

func (j *JSONRPCServer) AnnualizedRewards(req *http.Request, args *StakeArgs, reply *RewardsReply) error {
	ctx, span := j.c.Tracer().Start(req.Context(), "Server.AnnualizedRewards")
	defer span.End()

	rewards, err := j.c.Runtime().Stakes.AnnualizedRewards(ctx, j.c.State(), args.Stake, chain.Seconds(j.c.Now()))
	if err != nil {
		return err
	}
	reply.Rewards = rewards
	return nil
}

func (j *JSONRPCServer) DistributedRewards(req *http.Request, args *StakeArgs, reply *RewardsReply) error {
	ctx, span := j.c.Tracer().Start(req.Context(), "Server.DistributedRewards")
	defer span.End()

	rewards, err := j.c.Runtime().Stakes.DistributedRewards(ctx, j.c.State(), args.Stake)
	if err != nil {
		return err
	}
	reply.Rewards = rewards
	return nil
}

func (j *JSONRPCServer) UndistributedRewards(req *http.Request, args *StakeArgs, reply *RewardsReply) error {
	ctx, span := j.c.Tracer().Start(req.Context(), "Server.UndistributedRewards")
	defer span.End()

	rewards, err := j.c.Runtime().Stakes.UndistributedRewards(ctx, j.c.State(), args.Stake, chain.Seconds(j.c.Now()))
	if err != nil {
		return err
	}
	reply.Rewards = rewards
	return nil
}

type VestingArgs struct {
	Vesting   codec.Address `json:"vesting"`
	Recipient codec.Address `json:"recipient"`
}

type VestingSchedule struct {
	Balance   math.Int    `json:"balance"`
	Schedule  curve.Curve `json:"schedule"`
	Claimable math.Int    `json:"claimable"`
}

type VestingReply struct {
	Schedules []VestingSchedule `json:"schedules"`
}

func (j *JSONRPCServer) VestingInfo(req *http.Request, args *VestingArgs, reply *VestingReply) error {
	ctx, span := j.c.Tracer().Start(req.Context(), "Server.VestingInfo")
	defer span.End()

	var (
		vestings = j.c.Runtime().Vestings
		im       = j.c.State()
		now      = chain.Seconds(j.c.Now())
	)
	accounts, err := vestings.VestingInfo(ctx, im, args.Vesting, args.Recipient)
	if err != nil {
		return err
	}
	reply.Schedules = make([]VestingSchedule, len(accounts))
	for i, a := range accounts {
		claimable, err := vestings.AvailableToClaim(ctx, im, args.Vesting, now, args.Recipient, uint32(i))
		if err != nil {
			return err
		}
		reply.Schedules[i] = VestingSchedule{
			Balance:   a.Balance,
			Schedule:  a.Schedule,
			Claimable: claimable,
		}
	}
	return nil
}

func poolKind(ctx context.Context, im state.Immutable, addr codec.Address) (uint8, error) {
	cfg, err := storage.GetPoolConfig(ctx, im, addr)
	if err != nil {
		return 0, err
	}
	switch cfg.Kind {
	case pricing.XykKind, pricing.StableKind:
		return cfg.Kind, nil
	default:
		return 0, fmt.Errorf("%w: %d", ErrUnknownPoolKind, cfg.Kind)
	}
}
