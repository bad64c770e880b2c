// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ava-labs/phoenixvm/consts"
)

const (
	defaultURI     = "http://127.0.0.1:9650"
	defaultKeyFile = ".phoenixvm.pk"
)

var (
	uri     string
	keyFile string
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "phoenixvm",
		Short:   "Phoenix AMM node and client",
		Version: consts.Version.String(),
		Run: func(cmd *cobra.Command, _ []string) {
			_ = cmd.Help()
		},
	}
	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.DisableAutoGenTag = true
	cmd.SilenceErrors = true
	cmd.SilenceUsage = true
	cmd.PersistentFlags().StringVar(&uri, "uri", defaultURI, "node endpoint")
	cmd.PersistentFlags().StringVar(&keyFile, "key", defaultKeyFile, "private key file")

	cmd.AddCommand(
		newRunCmd(),
		newKeyCmd(),
		newBalanceCmd(),
		newPoolCmd(),
		newSubmitCmd(),
		newTransferCmd(),
		newEventsCmd(),
	)
	return cmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
