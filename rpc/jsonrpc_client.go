// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package rpc

import (
	"context"
	"strings"

	"cosmossdk.io/math"
	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/utils/rpc"

	"github.com/ava-labs/phoenixvm/chain"
	"github.com/ava-labs/phoenixvm/codec"
	"github.com/ava-labs/phoenixvm/pool"
	"github.com/ava-labs/phoenixvm/stake"
)

type JSONRPCClient struct {
	requester rpc.EndpointRequester
}

// NewJSONRPCClient returns a client for the node at [uri].
func NewJSONRPCClient(uri string) *JSONRPCClient {
	uri = strings.TrimSuffix(uri, "/")
	uri += "/" + APIBase + JSONRPCEndpoint
	return &JSONRPCClient{requester: rpc.NewEndpointRequester(uri)}
}

func (cli *JSONRPCClient) send(ctx context.Context, method string, args any, reply any) error {
	return cli.requester.SendRequest(ctx, Name+"."+method, args, reply)
}

func (cli *JSONRPCClient) Ping(ctx context.Context) (bool, error) {
	resp := new(PingReply)
	err := cli.send(ctx, "ping", struct{}{}, resp)
	return resp.Success, err
}

func (cli *JSONRPCClient) Status(ctx context.Context) (int64, uint64, error) {
	resp := new(StatusReply)
	err := cli.send(ctx, "status", struct{}{}, resp)
	return resp.Timestamp, resp.Executed, err
}

func (cli *JSONRPCClient) Submit(ctx context.Context, s *chain.Submission) (ids.ID, *chain.Result, error) {
	resp := new(SubmitReply)
	err := cli.send(ctx, "submit", &SubmitArgs{Submission: s}, resp)
	return resp.ID, resp.Result, err
}

func (cli *JSONRPCClient) Token(ctx context.Context, token codec.Address) (*TokenReply, error) {
	resp := new(TokenReply)
	if err := cli.send(ctx, "token", &TokenArgs{Token: token}, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// Balance returns the raw balance and its decimal rendering.
func (cli *JSONRPCClient) Balance(ctx context.Context, token codec.Address, addr codec.Address) (math.Int, string, error) {
	resp := new(BalanceReply)
	err := cli.send(ctx, "balance", &BalanceArgs{Token: token, Address: addr}, resp)
	return resp.Amount, resp.Formatted, err
}

func (cli *JSONRPCClient) PoolAddress(ctx context.Context, stable bool, tokenA, tokenB codec.Address) (*PoolAddressReply, error) {
	resp := new(PoolAddressReply)
	if err := cli.send(ctx, "poolAddress", &PoolAddressArgs{Stable: stable, TokenA: tokenA, TokenB: tokenB}, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (cli *JSONRPCClient) PoolInfo(ctx context.Context, addr codec.Address) (*pool.Info, error) {
	resp := new(pool.Info)
	if err := cli.send(ctx, "poolInfo", &PoolArgs{Pool: addr}, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (cli *JSONRPCClient) Share(ctx context.Context, addr codec.Address, amount math.Int) ([2]pool.Asset, error) {
	resp := new(ShareReply)
	err := cli.send(ctx, "share", &ShareArgs{Pool: addr, Amount: amount}, resp)
	return resp.Assets, err
}

func (cli *JSONRPCClient) SimulateSwap(ctx context.Context, args *SimulateSwapArgs) (*pool.SimulateSwapResponse, error) {
	resp := new(pool.SimulateSwapResponse)
	if err := cli.send(ctx, "simulateSwap", args, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (cli *JSONRPCClient) SimulateReverseSwap(
	ctx context.Context,
	args *SimulateReverseSwapArgs,
) (*pool.SimulateReverseSwapResponse, error) {
	resp := new(pool.SimulateReverseSwapResponse)
	if err := cli.send(ctx, "simulateReverseSwap", args, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (cli *JSONRPCClient) SimulateSwaps(ctx context.Context, swaps []*SimulateSwapArgs) ([]SimulateSwapsResult, error) {
	resp := new(SimulateSwapsReply)
	err := cli.send(ctx, "simulateSwaps", &SimulateSwapsArgs{Swaps: swaps}, resp)
	return resp.Results, err
}

func (cli *JSONRPCClient) Staked(ctx context.Context, stakeAddr, staker codec.Address) (*StakedReply, error) {
	resp := new(StakedReply)
	if err := cli.send(ctx, "staked", &StakerArgs{Stake: stakeAddr, Staker: staker}, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (cli *JSONRPCClient) TotalStaked(ctx context.Context, stakeAddr codec.Address) (math.Int, error) {
	resp := new(TotalStakedReply)
	err := cli.send(ctx, "totalStaked", &StakeArgs{Stake: stakeAddr}, resp)
	return resp.Total, err
}

func (cli *JSONRPCClient) WithdrawableRewards(ctx context.Context, stakeAddr, staker codec.Address) ([]stake.RewardAmount, error) {
	resp := new(RewardsReply)
	err := cli.send(ctx, "withdrawableRewards", &StakerArgs{Stake: stakeAddr, Staker: staker}, resp)
	return resp.Rewards, err
}

func (cli *JSONRPCClient) AnnualizedRewards(ctx context.Context, stakeAddr codec.Address) ([]stake.RewardAmount, error) {
	resp := new(RewardsReply)
	err := cli.send(ctx, "annualizedRewards", &StakeArgs{Stake: stakeAddr}, resp)
	return resp.Rewards, err
}

func (cli *JSONRPCClient) DistributedRewards(ctx context.Context, stakeAddr codec.Address) ([]stake.RewardAmount, error) {
	resp := new(RewardsReply)
	err := cli.send(ctx, "distributedRewards", &StakeArgs{Stake: stakeAddr}, resp)
	return resp.Rewards, err
}

func (cli *JSONRPCClient) UndistributedRewards(ctx context.Context, stakeAddr codec.Address) ([]stake.RewardAmount, error) {
	resp := new(RewardsReply)
	err := cli.send(ctx, "undistributedRewards", &StakeArgs{Stake: stakeAddr}, resp)
	return resp.Rewards, err
}

func (cli *JSONRPCClient) VestingInfo(ctx context.Context, vesting, recipient codec.Address) ([]VestingSchedule, error) {
	resp := new(VestingReply)
	err := cli.send(ctx, "vestingInfo", &VestingArgs{Vesting: vesting, Recipient: recipient}, resp)
	return resp.Schedules, err
}
