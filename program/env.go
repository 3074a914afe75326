// Copyright (C) 2019-2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package program

import (
	"github.com/gagliardetto/solana-go"

	log "github.com/inconshreveable/log15"
)

// Env is the set of host services available to one running invocation.
type Env interface {
	// MinimumBalance quotes the lamports an account holding [space] bytes
	// must carry to be exempt from rent.
	MinimumBalance(space uint64) (uint64, error)

	// CreateAccount moves [lamports] from [from] into [to], allocates
	// [space] zeroed bytes for [to] and assigns it to [owner].
	// When [to] has not signed, [signerSeeds] must reproduce its address
	// under the invoking program's id.
	CreateAccount(from, to *AccountInfo, lamports, space uint64, owner solana.PublicKey, signerSeeds [][]byte) error

	// Log returns the invocation's logger. Records are captured into the
	// transaction receipt.
	Log() log.Logger
}

// Entrypoint is implemented by every program the host can invoke.
type Entrypoint interface {
	Process(env Env, programID solana.PublicKey, accounts Accounts, data []byte) error
}

// EntrypointFunc adapts a function to the Entrypoint interface.
type EntrypointFunc func(env Env, programID solana.PublicKey, accounts Accounts, data []byte) error

// Process implements Entrypoint.
func (f EntrypointFunc) Process(env Env, programID solana.PublicKey, accounts Accounts, data []byte) error {
	return f(env, programID, accounts, data)
}
