// Copyright (C) 2019-2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/gagliardetto/solana-go"
	"github.com/spf13/cobra"

	"github.com/ava-labs/reviewvm/host"
	"github.com/ava-labs/reviewvm/program"
	"github.com/ava-labs/reviewvm/reviewvm"
	"github.com/ava-labs/reviewvm/vm"
)

type instructionBuilder func(programID, reviewer solana.PublicKey, args []string) (program.Instruction, error)

// TxOptions holds flags for commands that submit a transaction.
type TxOptions struct {
	*RootOptions
	Nonce uint64
}

func newTxCommand(rootOpts *RootOptions, use, short string, args cobra.PositionalArgs, build instructionBuilder) *cobra.Command {
	opts := &TxOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  args,
		RunE: func(cmd *cobra.Command, args []string) error {
			return submit(cmd, opts, args, build)
		},
	}

	cmd.Flags().Uint64Var(&opts.Nonce, "nonce", 0, "transaction nonce (defaults to the current time)")

	return cmd
}

func submit(cmd *cobra.Command, opts *TxOptions, args []string, build instructionBuilder) error {
	key, err := opts.key()
	if err != nil {
		return err
	}
	ctx, cancel := opts.context()
	defer cancel()

	cli := opts.client()
	info, err := cli.GetProgram(ctx)
	if err != nil {
		return err
	}
	ix, err := build(info.ProgramID, key.PublicKey(), args)
	if err != nil {
		return err
	}

	nonce := opts.Nonce
	if !cmd.Flags().Changed("nonce") {
		nonce = uint64(time.Now().UnixNano())
	}
	tx := host.NewTransaction(ix, nonce)
	if err := tx.Sign(key); err != nil {
		return err
	}
	receipt, err := cli.IssueTx(ctx, tx)
	if err != nil {
		return err
	}
	printReceipt(cmd, receipt)
	if receipt.Error != "" {
		return fmt.Errorf("transaction %s failed: %s", receipt.TxID, receipt.Error)
	}
	return nil
}

func printReceipt(cmd *cobra.Command, receipt *vm.ReceiptReply) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "tx:   %s\n", receipt.TxID)
	fmt.Fprintf(out, "code: %d\n", receipt.Code)
	for _, line := range receipt.Logs {
		fmt.Fprintf(out, "  %s\n", line)
	}
}

// NewAddCommand creates the add command.
func NewAddCommand(opts *RootOptions) *cobra.Command {
	return newTxCommand(opts, "add <title> <rating> <review>", "Add a review", cobra.ExactArgs(3),
		func(programID, reviewer solana.PublicKey, args []string) (program.Instruction, error) {
			rating, err := parseRating(args[1])
			if err != nil {
				return program.Instruction{}, err
			}
			return reviewvm.NewAddInstruction(programID, reviewer, args[0], rating, args[2])
		})
}

// NewUpdateCommand creates the update command.
func NewUpdateCommand(opts *RootOptions) *cobra.Command {
	return newTxCommand(opts, "update <title> <rating> <review>", "Replace the rating and text of a review", cobra.ExactArgs(3),
		func(programID, reviewer solana.PublicKey, args []string) (program.Instruction, error) {
			rating, err := parseRating(args[1])
			if err != nil {
				return program.Instruction{}, err
			}
			return reviewvm.NewUpdateInstruction(programID, reviewer, args[0], rating, args[2])
		})
}

// NewDeleteCommand creates the delete command.
func NewDeleteCommand(opts *RootOptions) *cobra.Command {
	return newTxCommand(opts, "delete <title>", "Delete a review and reclaim its deposit", cobra.ExactArgs(1),
		func(programID, reviewer solana.PublicKey, args []string) (program.Instruction, error) {
			return reviewvm.NewDeleteInstruction(programID, reviewer, args[0])
		})
}

// GetOptions holds flags for the get command.
type GetOptions struct {
	*RootOptions
	Reviewer string
}

// NewGetCommand creates the get command.
func NewGetCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &GetOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "get <title>",
		Short: "Show a review",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var reviewer solana.PublicKey
			if opts.Reviewer != "" {
				pk, err := solana.PublicKeyFromBase58(opts.Reviewer)
				if err != nil {
					return fmt.Errorf("invalid reviewer %q: %w", opts.Reviewer, err)
				}
				reviewer = pk
			} else {
				key, err := opts.key()
				if err != nil {
					return err
				}
				reviewer = key.PublicKey()
			}

			ctx, cancel := opts.context()
			defer cancel()
			review, err := opts.client().GetReview(ctx, reviewer, args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "address:  %s\n", review.Address)
			fmt.Fprintf(out, "reviewer: %s\n", review.Reviewer)
			fmt.Fprintf(out, "title:    %s\n", review.Title)
			fmt.Fprintf(out, "rating:   %d\n", review.Rating)
			fmt.Fprintf(out, "review:   %s\n", review.Review)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.Reviewer, "reviewer", "", "reviewer public key (defaults to the key file)")

	return cmd
}

// NewReceiptCommand creates the receipt command.
func NewReceiptCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "receipt <txID>",
		Short: "Show the receipt of a transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			txID, err := ids.FromString(args[0])
			if err != nil {
				return fmt.Errorf("invalid tx id %q: %w", args[0], err)
			}
			ctx, cancel := opts.context()
			defer cancel()
			receipt, err := opts.client().GetReceipt(ctx, txID)
			if err != nil {
				return err
			}
			printReceipt(cmd, receipt)
			return nil
		},
	}
}

// NewAirdropCommand creates the airdrop command.
func NewAirdropCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "airdrop <lamports>",
		Short: "Fund the key file's account from the node faucet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lamports, err := strconv.ParseUint(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid amount %q: %w", args[0], err)
			}
			key, err := opts.key()
			if err != nil {
				return err
			}
			ctx, cancel := opts.context()
			defer cancel()
			balance, err := opts.client().Airdrop(ctx, key.PublicKey(), lamports)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "balance: %d\n", balance)
			return nil
		},
	}
}
