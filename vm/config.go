// Copyright (C) 2019-2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package vm

import (
	"errors"
	"fmt"

	"github.com/gagliardetto/solana-go"

	"github.com/ava-labs/reviewvm/host"
	"github.com/ava-labs/reviewvm/reviewvm"
)

// DefaultProgramID is the review program's id when none is configured.
var DefaultProgramID = solana.PublicKey{'r', 'e', 'v', 'i', 'e', 'w', 'v', 'm'}

var (
	errBadExemptionThreshold = errors.New("rent exemption threshold must be positive")
	errBadCacheSize          = errors.New("account cache size must not be negative")
)

// Config is the node configuration consumed by the VM.
type Config struct {
	ProgramID               string  `mapstructure:"program-id" json:"programID"`
	Variant                 string  `mapstructure:"variant" json:"variant"`
	RentLamportsPerByteYear uint64  `mapstructure:"rent-lamports-per-byte-year" json:"rentLamportsPerByteYear"`
	RentExemptionThreshold  float64 `mapstructure:"rent-exemption-threshold" json:"rentExemptionThreshold"`
	AccountCacheSize        int     `mapstructure:"account-cache-size" json:"accountCacheSize"`
	FaucetLamports          uint64  `mapstructure:"faucet-lamports" json:"faucetLamports"`
}

// DefaultConfig returns the configuration used for unset values.
func DefaultConfig() Config {
	return Config{
		Variant:                 reviewvm.Full.String(),
		RentLamportsPerByteYear: host.DefaultRent.LamportsPerByteYear,
		RentExemptionThreshold:  host.DefaultRent.ExemptionThreshold,
		AccountCacheSize:        1024,
		FaucetLamports:          10_000_000_000,
	}
}

// Validate checks [c] and returns the parsed program id and variant.
func (c Config) Validate() (solana.PublicKey, reviewvm.Variant, error) {
	programID := DefaultProgramID
	if c.ProgramID != "" {
		id, err := solana.PublicKeyFromBase58(c.ProgramID)
		if err != nil {
			return solana.PublicKey{}, 0, fmt.Errorf("invalid program id %q: %w", c.ProgramID, err)
		}
		programID = id
	}
	variant, err := reviewvm.ParseVariant(c.Variant)
	if err != nil {
		return solana.PublicKey{}, 0, err
	}
	if c.RentExemptionThreshold <= 0 {
		return solana.PublicKey{}, 0, errBadExemptionThreshold
	}
	if c.AccountCacheSize < 0 {
		return solana.PublicKey{}, 0, errBadCacheSize
	}
	return programID, variant, nil
}

func (c Config) rent() host.Rent {
	return host.Rent{
		LamportsPerByteYear: c.RentLamportsPerByteYear,
		ExemptionThreshold:  c.RentExemptionThreshold,
	}
}
