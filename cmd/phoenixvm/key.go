// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/ava-labs/phoenixvm/auth"
	"github.com/ava-labs/phoenixvm/crypto/ed25519"
	"github.com/ava-labs/phoenixvm/utils"
)

var errKeyExists = errors.New("key file already exists")

func newKeyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "key",
		Short: "Manage keys",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "generate",
			Short: "Generate a key and save it to the key file",
			RunE: func(*cobra.Command, []string) error {
				if _, err := os.Stat(keyFile); err == nil {
					return errKeyExists
				}
				priv, err := ed25519.GeneratePrivateKey()
				if err != nil {
					return err
				}
				if err := priv.Save(keyFile); err != nil {
					return err
				}
				utils.Outf("{{green}}created key:{{/}} %s\n", keyFile)
				utils.Outf("{{yellow}}address:{{/}} %s\n", auth.NewED25519Address(priv.PublicKey()))
				return nil
			},
		},
		&cobra.Command{
			Use:   "address",
			Short: "Print the address of the key file",
			RunE: func(*cobra.Command, []string) error {
				factory, err := loadFactory()
				if err != nil {
					return err
				}
				utils.Outf("{{yellow}}address:{{/}} %s\n", factory.Address())
				return nil
			},
		},
	)
	return cmd
}

func loadFactory() (*auth.ED25519Factory, error) {
	priv, err := ed25519.LoadKey(keyFile)
	if err != nil {
		return nil, err
	}
	return auth.NewED25519Factory(priv), nil
}
