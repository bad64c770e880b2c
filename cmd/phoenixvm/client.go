// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/ava-labs/phoenixvm/actions"
	"github.com/ava-labs/phoenixvm/chain"
	"github.com/ava-labs/phoenixvm/codec"
	"github.com/ava-labs/phoenixvm/consts"
	"github.com/ava-labs/phoenixvm/pubsub"
	"github.com/ava-labs/phoenixvm/rpc"
	"github.com/ava-labs/phoenixvm/utils"
)

var errUnknownAction = errors.New("unknown action")

// parseAddress accepts a bech32 or hex encoded address.
func parseAddress(s string) (codec.Address, error) {
	if strings.HasPrefix(s, consts.HRP+"1") {
		return codec.ParseAddressBech32(consts.HRP, s)
	}
	var a codec.Address
	err := a.UnmarshalText([]byte(s))
	return a, err
}

// accountArg parses the optional address argument, falling back to the
// key file address.
func accountArg(args []string) (codec.Address, error) {
	if len(args) > 0 {
		return parseAddress(args[0])
	}
	factory, err := loadFactory()
	if err != nil {
		return codec.EmptyAddress, err
	}
	return factory.Address(), nil
}

func printJSON(v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(b))
	return nil
}

func newBalanceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "balance <token> [address]",
		Short: "Print a token balance, of the key file address by default",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			tok, err := parseAddress(args[0])
			if err != nil {
				return err
			}
			addr, err := accountArg(args[1:])
			if err != nil {
				return err
			}
			cli := rpc.NewJSONRPCClient(uri)
			info, err := cli.Token(cmd.Context(), tok)
			if err != nil {
				return err
			}
			_, formatted, err := cli.Balance(cmd.Context(), tok, addr)
			if err != nil {
				return err
			}
			utils.Outf("{{yellow}}balance:{{/}} %s %s\n", formatted, info.Symbol)
			return nil
		},
	}
}

func newPoolCmd() *cobra.Command {
	var stable bool
	cmd := &cobra.Command{
		Use:   "pool <tokenA> <tokenB>",
		Short: "Print the pool of a token pair",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := parseAddress(args[0])
			if err != nil {
				return err
			}
			b, err := parseAddress(args[1])
			if err != nil {
				return err
			}
			cli := rpc.NewJSONRPCClient(uri)
			addrs, err := cli.PoolAddress(cmd.Context(), stable, a, b)
			if err != nil {
				return err
			}
			info, err := cli.PoolInfo(cmd.Context(), addrs.Pool)
			if err != nil {
				return err
			}
			return printJSON(info)
		},
	}
	cmd.Flags().BoolVar(&stable, "stable", false, "stable pool")
	return cmd
}

func newSubmitCmd() *cobra.Command {
	var (
		yes    bool
		window time.Duration
	)
	cmd := &cobra.Command{
		Use:   "submit <action> <json|@file>",
		Short: "Sign and submit an action",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			typeID, ok := actions.TypeID(args[0])
			if !ok {
				return fmt.Errorf("%w: %s", errUnknownAction, args[0])
			}
			payload := []byte(args[1])
			if name, found := strings.CutPrefix(args[1], "@"); found {
				b, err := os.ReadFile(name)
				if err != nil {
					return err
				}
				payload = b
			}
			if !json.Valid(payload) {
				return fmt.Errorf("%w: payload is not json", actions.ErrInvalidAction)
			}
			return signAndSubmit(cmd.Context(), args[0], typeID, payload, yes, window)
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip confirmation")
	cmd.Flags().DurationVar(&window, "expiry", 30*time.Second, "time until the submission expires")
	return cmd
}

func newTransferCmd() *cobra.Command {
	var (
		yes    bool
		window time.Duration
	)
	cmd := &cobra.Command{
		Use:   "transfer <token> <to> <amount>",
		Short: "Transfer a decimal amount of a token",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			tok, err := parseAddress(args[0])
			if err != nil {
				return err
			}
			to, err := parseAddress(args[1])
			if err != nil {
				return err
			}
			info, err := rpc.NewJSONRPCClient(uri).Token(cmd.Context(), tok)
			if err != nil {
				return err
			}
			amount, err := utils.ParseAmount(args[2], info.Decimals)
			if err != nil {
				return err
			}
			payload, err := json.Marshal(&actions.TransferToken{Token: tok, To: to, Amount: amount})
			if err != nil {
				return err
			}
			label := fmt.Sprintf("transfer of %s %s to %s", args[2], info.Symbol, to)
			return signAndSubmit(cmd.Context(), label, consts.TransferTokenID, payload, yes, window)
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip confirmation")
	cmd.Flags().DurationVar(&window, "expiry", 30*time.Second, "time until the submission expires")
	return cmd
}

// signAndSubmit signs [payload] with the key file, asking for confirmation
// unless [yes] is set.
func signAndSubmit(ctx context.Context, label string, typeID uint8, payload []byte, yes bool, window time.Duration) error {
	factory, err := loadFactory()
	if err != nil {
		return err
	}
	if !yes {
		prompt := promptui.Prompt{
			Label:     fmt.Sprintf("submit %s as %s", label, factory.Address()),
			IsConfirm: true,
		}
		if _, err := prompt.Run(); err != nil {
			return err
		}
	}
	s, err := chain.Sign(factory, typeID, payload, utils.UnixRMilli(-1, window.Milliseconds()))
	if err != nil {
		return err
	}
	id, result, err := rpc.NewJSONRPCClient(uri).Submit(ctx, s)
	if err != nil {
		return err
	}
	utils.Outf("{{green}}executed:{{/}} %s\n", id)
	return printJSON(result)
}

func newEventsCmd() *cobra.Command {
	var names []string
	cmd := &cobra.Command{
		Use:   "events",
		Short: "Print executed actions as they happen",
		RunE: func(*cobra.Command, []string) error {
			for _, name := range names {
				if _, ok := actions.TypeID(name); !ok {
					return fmt.Errorf("%w: %s", errUnknownAction, name)
				}
			}
			cli, err := rpc.NewWebSocketClient(uri, pubsub.NewDefaultServerConfig().MaxReadMessageSize)
			if err != nil {
				return err
			}
			defer cli.Close()
			if len(names) > 0 {
				if err := cli.Subscribe(names...); err != nil {
					return err
				}
			}
			for {
				e, err := cli.ListenEvent()
				if err != nil {
					return err
				}
				if e.Result == nil {
					continue
				}
				status := "{{green}}ok{{/}}"
				if !e.Result.Success {
					status = "{{red}}failed{{/}}: " + e.Result.Error
				}
				utils.Outf("%s {{cyan}}%s{{/}} by %s %s\n", e.ID, e.Action, e.Actor, status)
			}
		},
	}
	cmd.Flags().StringSliceVar(&names, "action", nil, "only print these actions")
	return cmd
}
