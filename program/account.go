// Copyright (C) 2019-2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package program

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
)

// AccountInfo is the view of a single account handed to a program for the
// duration of one invocation. Programs mutate Lamports, Owner and Data in
// place; the host decides whether the mutations are committed.
type AccountInfo struct {
	Key        solana.PublicKey
	IsSigner   bool
	IsWritable bool
	Lamports   uint64
	Owner      solana.PublicKey
	Executable bool
	Data       []byte
}

// OwnedBy reports whether [id] owns this account.
func (a *AccountInfo) OwnedBy(id solana.PublicKey) bool {
	return a.Owner.Equals(id)
}

// Accounts is the ordered account table of an invocation.
type Accounts []*AccountInfo

// Expect returns an error unless the table holds exactly [n] accounts.
func (a Accounts) Expect(n int) error {
	switch {
	case len(a) < n:
		return fmt.Errorf("%w: expected %d, got %d", ErrNotEnoughAccountKeys, n, len(a))
	case len(a) > n:
		return fmt.Errorf("%w: expected %d accounts, got %d", ErrInvalidArgument, n, len(a))
	default:
		return nil
	}
}

// Get returns the account at position [i].
func (a Accounts) Get(i int) (*AccountInfo, error) {
	if i < 0 || i >= len(a) {
		return nil, fmt.Errorf("%w: no account at index %d", ErrNotEnoughAccountKeys, i)
	}
	return a[i], nil
}
