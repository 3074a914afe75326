// Copyright (C) 2019-2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/spf13/cobra"

	"github.com/ava-labs/reviewvm/client"
)

const requestTimeout = 10 * time.Second

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Endpoint string
	KeyFile  string
}

func (o *RootOptions) client() client.Client {
	return client.New(o.Endpoint)
}

func (o *RootOptions) key() (solana.PrivateKey, error) {
	return loadKey(o.KeyFile)
}

func (o *RootOptions) context() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), requestTimeout)
}

// NewRootCommand creates the root command for the review CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:           "reviewctl",
		Short:         "Manage reviews stored by a reviewvm node",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.Endpoint, "endpoint", "http://127.0.0.1:9650/rpc", "node JSON-RPC endpoint")
	cmd.PersistentFlags().StringVarP(&opts.KeyFile, "keyfile", "k", "reviewer.key", "base58 private key file")

	cmd.AddCommand(NewKeygenCommand(opts))
	cmd.AddCommand(NewAddressCommand(opts))
	cmd.AddCommand(NewAddCommand(opts))
	cmd.AddCommand(NewUpdateCommand(opts))
	cmd.AddCommand(NewDeleteCommand(opts))
	cmd.AddCommand(NewGetCommand(opts))
	cmd.AddCommand(NewReceiptCommand(opts))
	cmd.AddCommand(NewAirdropCommand(opts))

	return cmd
}

func parseRating(s string) (uint8, error) {
	rating, err := strconv.ParseUint(s, 10, 8)
	if err != nil {
		return 0, fmt.Errorf("invalid rating %q: %w", s, err)
	}
	return uint8(rating), nil
}
