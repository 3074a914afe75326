// Copyright (C) 2019-2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package host

import (
	"fmt"

	"github.com/gagliardetto/solana-go"

	log "github.com/inconshreveable/log15"

	"github.com/ava-labs/reviewvm/program"
)

// MaxAccountSize bounds the data a single allocation may request.
const MaxAccountSize = 10 * 1024 * 1024

var _ program.Env = &invocation{}

// invocation is the Env handed to a program for one instruction.
type invocation struct {
	programID solana.PublicKey
	rent      Rent
	log       log.Logger

	// keys whose balances or data the system allocator changed
	allocated map[solana.PublicKey]bool
}

func (inv *invocation) MinimumBalance(space uint64) (uint64, error) {
	return inv.rent.MinimumBalance(space)
}

func (inv *invocation) Log() log.Logger { return inv.log }

// CreateAccount is the system allocator. The new account authorizes the
// allocation either by signing or by [signerSeeds] reproducing its
// address under the invoking program.
func (inv *invocation) CreateAccount(
	from, to *program.AccountInfo,
	lamports, space uint64,
	owner solana.PublicKey,
	signerSeeds [][]byte,
) error {
	if !from.IsSigner {
		return fmt.Errorf("%w: funding account %s", program.ErrMissingRequiredSignature, from.Key)
	}
	if !to.IsSigner {
		addr, err := program.CreateAddress(signerSeeds, inv.programID)
		if err != nil {
			return err
		}
		if !addr.Equals(to.Key) {
			return fmt.Errorf("%w: seeds derive %s, not %s", program.ErrMissingRequiredSignature, addr, to.Key)
		}
	}
	if !from.IsWritable || !to.IsWritable {
		return fmt.Errorf("%w: allocation accounts must be writable", program.ErrInvalidArgument)
	}
	if !from.OwnedBy(solana.SystemProgramID) || len(from.Data) != 0 {
		return fmt.Errorf("%w: funding account %s is not a system account", program.ErrInvalidArgument, from.Key)
	}
	if to.Lamports != 0 || len(to.Data) != 0 || !to.OwnedBy(solana.SystemProgramID) {
		return fmt.Errorf("%w: account %s already in use", program.ErrAccountAlreadyInitialized, to.Key)
	}
	if space > MaxAccountSize {
		return fmt.Errorf("%w: %d bytes requested", program.ErrInvalidArgument, space)
	}
	if from.Lamports < lamports {
		return fmt.Errorf("%w: need %d lamports, have %d", program.ErrInsufficientFunds, lamports, from.Lamports)
	}

	from.Lamports -= lamports
	to.Lamports = lamports
	to.Data = make([]byte, space)
	to.Owner = owner

	inv.allocated[from.Key] = true
	inv.allocated[to.Key] = true
	inv.log.Debug("account created", "address", to.Key, "space", space, "lamports", lamports, "owner", owner)
	return nil
}
