// Copyright (C) 2019-2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package program

import (
	"github.com/gagliardetto/solana-go"
)

// AccountMeta describes how an instruction uses one account.
type AccountMeta struct {
	Key        solana.PublicKey `serialize:"true" json:"key"`
	IsSigner   bool             `serialize:"true" json:"isSigner"`
	IsWritable bool             `serialize:"true" json:"isWritable"`
}

// NewAccountMeta mirrors solana.NewAccountMeta for the host wire format.
func NewAccountMeta(key solana.PublicKey, writable, signer bool) AccountMeta {
	return AccountMeta{Key: key, IsSigner: signer, IsWritable: writable}
}

// Instruction is a single program invocation request.
type Instruction struct {
	ProgramID solana.PublicKey `serialize:"true" json:"programID"`
	Accounts  []AccountMeta    `serialize:"true" json:"accounts"`
	Data      []byte           `serialize:"true" json:"data"`
}
