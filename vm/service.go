// Copyright (C) 2019-2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package vm

import (
	"fmt"
	"net/http"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/utils/formatting"
	"github.com/ava-labs/avalanchego/utils/json"
	"github.com/gagliardetto/solana-go"

	"github.com/ava-labs/reviewvm/host"
	"github.com/ava-labs/reviewvm/reviewvm"
)

// Service is the API service for this VM
type Service struct{ vm *VM }

// EmptyArgs is the argument of methods that take none.
type EmptyArgs struct{}

// GetProgramReply describes the deployed review program.
type GetProgramReply struct {
	ProgramID      solana.PublicKey `json:"programID"`
	Variant        string           `json:"variant"`
	Version        string           `json:"version"`
	MinimumBalance json.Uint64      `json:"minimumBalance"`
}

// GetProgram returns the program id, variant and the balance a review slot
// is funded with.
func (s *Service) GetProgram(_ *http.Request, _ *EmptyArgs, reply *GetProgramReply) error {
	quote, err := s.vm.Runtime().Rent().MinimumBalance(reviewvm.AccountSize)
	if err != nil {
		return err
	}
	reply.ProgramID = s.vm.ProgramID()
	reply.Variant = s.vm.Variant().String()
	reply.Version = Version
	reply.MinimumBalance = json.Uint64(quote)
	return nil
}

// IssueTxArgs carries a serialized, signed transaction.
type IssueTxArgs struct {
	Tx       string              `json:"tx"`
	Encoding formatting.Encoding `json:"encoding"`
}

// ReceiptReply reports the outcome of a transaction.
type ReceiptReply struct {
	TxID  ids.ID      `json:"txID"`
	Code  json.Uint64 `json:"code"`
	Error string      `json:"error,omitempty"`
	Logs  []string    `json:"logs"`
}

func (r *ReceiptReply) fill(receipt *host.Receipt) {
	r.TxID = receipt.TxID
	r.Code = json.Uint64(receipt.Code)
	r.Logs = receipt.Logs
	if err := receipt.Err(); err != nil {
		r.Error = err.Error()
	}
}

// IssueTx executes a transaction. A program failure is reported in the
// reply; only transactions the host rejects outright return an error.
func (s *Service) IssueTx(_ *http.Request, args *IssueTxArgs, reply *ReceiptReply) error {
	txBytes, err := formatting.Decode(args.Encoding, args.Tx)
	if err != nil {
		return fmt.Errorf("couldn't decode tx: %w", err)
	}
	tx, err := host.ParseTransaction(txBytes)
	if err != nil {
		return fmt.Errorf("couldn't parse tx: %w", err)
	}
	receipt, err := s.vm.IssueTx(tx)
	if receipt == nil {
		return err
	}
	reply.fill(receipt)
	return nil
}

// GetReceiptArgs identifies a transaction.
type GetReceiptArgs struct {
	TxID ids.ID `json:"txID"`
}

// GetReceipt returns the receipt of an executed transaction.
func (s *Service) GetReceipt(_ *http.Request, args *GetReceiptArgs, reply *ReceiptReply) error {
	receipt, err := s.vm.Runtime().Receipt(args.TxID)
	if err != nil {
		return fmt.Errorf("couldn't get receipt %s: %w", args.TxID, err)
	}
	reply.fill(receipt)
	return nil
}

// GetReviewArgs locates a review by its reviewer and title.
type GetReviewArgs struct {
	Reviewer solana.PublicKey `json:"reviewer"`
	Title    string           `json:"title"`
}

// GetReviewReply is a stored review.
type GetReviewReply struct {
	Address  solana.PublicKey `json:"address"`
	Reviewer solana.PublicKey `json:"reviewer"`
	Title    string           `json:"title"`
	Rating   uint8            `json:"rating"`
	Review   string           `json:"review"`
}

// GetReview returns the review stored at the address derived from
// [args.Reviewer] and [args.Title].
func (s *Service) GetReview(_ *http.Request, args *GetReviewArgs, reply *GetReviewReply) error {
	record, addr, err := s.vm.GetReview(args.Reviewer, args.Title)
	if err != nil {
		return err
	}
	reply.Address = addr
	reply.Reviewer = record.Reviewer
	reply.Title = record.Title
	reply.Rating = record.Rating
	reply.Review = record.Review
	return nil
}

// GetAccountArgs names an account.
type GetAccountArgs struct {
	Address  solana.PublicKey    `json:"address"`
	Encoding formatting.Encoding `json:"encoding"`
}

// GetAccountReply is the committed state of an account.
type GetAccountReply struct {
	Owner    solana.PublicKey    `json:"owner"`
	Lamports json.Uint64         `json:"lamports"`
	Data     string              `json:"data"`
	Encoding formatting.Encoding `json:"encoding"`
}

// GetAccount returns the account at [args.Address].
func (s *Service) GetAccount(_ *http.Request, args *GetAccountArgs, reply *GetAccountReply) error {
	acc, err := s.vm.Runtime().Account(args.Address)
	if err != nil {
		return err
	}
	data, err := formatting.EncodeWithChecksum(args.Encoding, acc.Data)
	if err != nil {
		return fmt.Errorf("couldn't encode account data: %w", err)
	}
	reply.Owner = acc.Owner
	reply.Lamports = json.Uint64(acc.Lamports)
	reply.Data = data
	reply.Encoding = args.Encoding
	return nil
}

// AirdropArgs requests faucet funds.
type AirdropArgs struct {
	Address  solana.PublicKey `json:"address"`
	Lamports json.Uint64      `json:"lamports"`
}

// AirdropReply is the funded account's new balance.
type AirdropReply struct {
	Balance json.Uint64 `json:"balance"`
}

// Airdrop credits faucet lamports to a system account.
func (s *Service) Airdrop(_ *http.Request, args *AirdropArgs, reply *AirdropReply) error {
	balance, err := s.vm.Runtime().Airdrop(args.Address, uint64(args.Lamports))
	if err != nil {
		return err
	}
	reply.Balance = json.Uint64(balance)
	return nil
}
