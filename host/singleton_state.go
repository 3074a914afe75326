// Copyright (C) 2019-2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package host

import (
	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/ids"
)

var (
	genesisIDKey = []byte("genesis")

	_ GenesisState = (*genesisState)(nil)
)

// GenesisState records which genesis the ledger was built from.
type GenesisState interface {
	// GenesisID returns the applied genesis id; false if none was applied.
	GenesisID() (ids.ID, bool, error)
	SetGenesisID(ids.ID) error
}

type genesisState struct {
	singletonDB database.Database
}

func NewGenesisState(db database.Database) GenesisState {
	return &genesisState{
		singletonDB: db,
	}
}

func (s *genesisState) GenesisID() (ids.ID, bool, error) {
	b, err := s.singletonDB.Get(genesisIDKey)
	switch {
	case err == database.ErrNotFound:
		return ids.Empty, false, nil
	case err != nil:
		return ids.Empty, false, err
	}
	id, err := ids.ToID(b)
	return id, err == nil, err
}

func (s *genesisState) SetGenesisID(id ids.ID) error {
	return s.singletonDB.Put(genesisIDKey, id[:])
}
