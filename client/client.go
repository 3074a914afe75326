// (c) 2019-2020, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package client

import (
	"context"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/utils/formatting"
	"github.com/ava-labs/avalanchego/utils/json"
	"github.com/ava-labs/avalanchego/utils/rpc"
	"github.com/gagliardetto/solana-go"

	"github.com/ava-labs/reviewvm/host"
	"github.com/ava-labs/reviewvm/vm"
)

// Client defines reviewvm client operations.
type Client interface {
	// GetProgram describes the deployed review program
	GetProgram(ctx context.Context) (*vm.GetProgramReply, error)

	// IssueTx submits a signed transaction and returns its receipt
	IssueTx(ctx context.Context, tx *host.Transaction) (*vm.ReceiptReply, error)

	// GetReceipt fetches the receipt of a transaction
	GetReceipt(ctx context.Context, txID ids.ID) (*vm.ReceiptReply, error)

	// GetReview fetches a reviewer's review of a title
	GetReview(ctx context.Context, reviewer solana.PublicKey, title string) (*vm.GetReviewReply, error)

	// GetAccount fetches an account and its raw data
	GetAccount(ctx context.Context, address solana.PublicKey) (*host.Account, error)

	// Airdrop funds a system account from the faucet
	Airdrop(ctx context.Context, address solana.PublicKey, lamports uint64) (uint64, error)
}

// New creates a new client object for the endpoint at [uri].
func New(uri string) Client {
	req := rpc.NewEndpointRequester(uri, "", vm.Name)
	return &client{req: req}
}

type client struct {
	req rpc.EndpointRequester
}

func (cli *client) GetProgram(ctx context.Context) (*vm.GetProgramReply, error) {
	resp := new(vm.GetProgramReply)
	err := cli.req.SendRequest(ctx, "getProgram", &vm.EmptyArgs{}, resp)
	return resp, err
}

func (cli *client) IssueTx(ctx context.Context, tx *host.Transaction) (*vm.ReceiptReply, error) {
	txBytes, err := tx.Bytes()
	if err != nil {
		return nil, err
	}
	encoded, err := formatting.EncodeWithChecksum(formatting.Hex, txBytes)
	if err != nil {
		return nil, err
	}

	resp := new(vm.ReceiptReply)
	err = cli.req.SendRequest(ctx,
		"issueTx",
		&vm.IssueTxArgs{Tx: encoded, Encoding: formatting.Hex},
		resp,
	)
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func (cli *client) GetReceipt(ctx context.Context, txID ids.ID) (*vm.ReceiptReply, error) {
	resp := new(vm.ReceiptReply)
	if err := cli.req.SendRequest(ctx, "getReceipt", &vm.GetReceiptArgs{TxID: txID}, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (cli *client) GetReview(ctx context.Context, reviewer solana.PublicKey, title string) (*vm.GetReviewReply, error) {
	resp := new(vm.GetReviewReply)
	err := cli.req.SendRequest(ctx,
		"getReview",
		&vm.GetReviewArgs{Reviewer: reviewer, Title: title},
		resp,
	)
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func (cli *client) GetAccount(ctx context.Context, address solana.PublicKey) (*host.Account, error) {
	resp := new(vm.GetAccountReply)
	err := cli.req.SendRequest(ctx,
		"getAccount",
		&vm.GetAccountArgs{Address: address, Encoding: formatting.Hex},
		resp,
	)
	if err != nil {
		return nil, err
	}
	data, err := formatting.Decode(formatting.Hex, resp.Data)
	if err != nil {
		return nil, err
	}
	return &host.Account{
		Owner:    resp.Owner,
		Lamports: uint64(resp.Lamports),
		Data:     data,
	}, nil
}

func (cli *client) Airdrop(ctx context.Context, address solana.PublicKey, lamports uint64) (uint64, error) {
	resp := new(vm.AirdropReply)
	err := cli.req.SendRequest(ctx,
		"airdrop",
		&vm.AirdropArgs{Address: address, Lamports: json.Uint64(lamports)},
		resp,
	)
	if err != nil {
		return 0, err
	}
	return uint64(resp.Balance), nil
}
