// Copyright (C) 2019-2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package host

import (
	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/database/prefixdb"
	"github.com/ava-labs/avalanchego/database/versiondb"
)

var (
	// These are prefixes for db keys.
	// It's important to set different prefixes for each separate database objects.
	singletonStatePrefix = []byte("singleton")
	accountStatePrefix   = []byte("account")
	receiptStatePrefix   = []byte("receipt")

	_ State = &state{}
)

// State is the ledger: accounts, receipts and the genesis id, staged in
// a versioned database so an invocation is either committed whole or
// aborted whole.
type State interface {
	GenesisState
	AccountState
	ReceiptState

	Commit() error
	Abort()
	Close() error
}

type state struct {
	GenesisState
	AccountState
	ReceiptState

	baseDB *versiondb.Database
}

func NewState(db database.Database, accountCacheSize int) State {
	// create a new baseDB
	baseDB := versiondb.New(db)

	// create prefixed sub databases from baseDB
	singletonDB := prefixdb.New(singletonStatePrefix, baseDB)
	accountDB := prefixdb.New(accountStatePrefix, baseDB)
	receiptDB := prefixdb.New(receiptStatePrefix, baseDB)

	// return state with created sub state components
	return &state{
		GenesisState: NewGenesisState(singletonDB),
		AccountState: NewAccountState(accountDB, accountCacheSize),
		ReceiptState: NewReceiptState(receiptDB),
		baseDB:       baseDB,
	}
}

// Commit commits pending operations to baseDB
func (s *state) Commit() error {
	return s.baseDB.Commit()
}

// Abort drops pending operations and the account cache, which may hold
// values that were never committed.
func (s *state) Abort() {
	s.baseDB.Abort()
	s.AccountState.ClearCache()
}

// Close closes the underlying base database
func (s *state) Close() error {
	return s.baseDB.Close()
}
