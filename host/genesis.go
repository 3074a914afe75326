// Copyright (C) 2019-2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package host

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/utils/hashing"
	"github.com/gagliardetto/solana-go"
)

var errDuplicateAllocation = errors.New("duplicate genesis allocation")

// Allocation funds one system account at genesis.
type Allocation struct {
	Address  solana.PublicKey `serialize:"true" json:"address"`
	Lamports uint64           `serialize:"true" json:"lamports"`
}

// Genesis is the initial ledger content.
type Genesis struct {
	Allocations []Allocation `serialize:"true" json:"allocations"`
}

// ParseGenesis parses a JSON genesis document. Empty input is an empty
// genesis.
func ParseGenesis(b []byte) (*Genesis, error) {
	g := &Genesis{}
	if len(b) == 0 {
		return g, nil
	}
	if err := json.Unmarshal(b, g); err != nil {
		return nil, fmt.Errorf("couldn't parse genesis: %w", err)
	}
	return g, g.Verify()
}

// Verify checks that no address is funded twice.
func (g *Genesis) Verify() error {
	seen := make(map[solana.PublicKey]struct{}, len(g.Allocations))
	for _, alloc := range g.Allocations {
		if _, ok := seen[alloc.Address]; ok {
			return fmt.Errorf("%w: %s", errDuplicateAllocation, alloc.Address)
		}
		seen[alloc.Address] = struct{}{}
	}
	return nil
}

// ID is the hash of the serialized genesis.
func (g *Genesis) ID() (ids.ID, error) {
	b, err := Codec.Marshal(CodecVersion, g)
	if err != nil {
		return ids.Empty, err
	}
	return ids.ID(hashing.ComputeHash256Array(b)), nil
}
