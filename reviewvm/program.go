// Copyright (C) 2019-2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package reviewvm

import (
	"fmt"

	"github.com/gagliardetto/solana-go"

	"github.com/ava-labs/reviewvm/program"
)

const Name = "reviewvm"

// Variant selects which deployment of the review program runs.
type Variant uint8

const (
	// Full supports add, update and delete, and checks slot ownership
	// before creating a review.
	Full Variant = iota
	// Basic supports add and update only.
	Basic
)

var _ program.Entrypoint = (*Program)(nil)

// ParseVariant parses "full" or "basic".
func ParseVariant(s string) (Variant, error) {
	switch s {
	case "full", "":
		return Full, nil
	case "basic":
		return Basic, nil
	default:
		return 0, fmt.Errorf("unknown program variant %q", s)
	}
}

func (v Variant) String() string {
	switch v {
	case Full:
		return "full"
	case Basic:
		return "basic"
	default:
		return fmt.Sprintf("variant(%d)", uint8(v))
	}
}

// Supports reports whether instruction [tag] exists in this variant.
func (v Variant) Supports(tag uint8) bool {
	switch tag {
	case TagAdd, TagUpdate:
		return true
	case TagDelete:
		return v == Full
	default:
		return false
	}
}

func (v Variant) checksOwner() bool { return v == Full }

// Program is the review program entrypoint.
type Program struct {
	variant Variant
}

// New returns the review program for [variant].
func New(variant Variant) *Program {
	return &Program{variant: variant}
}

// Variant returns the deployment variant of [p].
func (p *Program) Variant() Variant { return p.variant }

// Process decodes [data] and runs the resulting command against
// [accounts]. Nothing is written to an account unless every check passes.
func (p *Program) Process(env program.Env, programID solana.PublicKey, accounts program.Accounts, data []byte) error {
	cmd, err := Decode(data, p.variant)
	if err != nil {
		env.Log().Debug("rejecting instruction", "err", err)
		return err
	}
	proc := &processor{
		env:       env,
		log:       env.Log(),
		programID: programID,
		variant:   p.variant,
	}
	return proc.process(cmd, accounts)
}

// AddressSeeds returns the seeds the slot of ([reviewer], [title]) is
// derived from.
func AddressSeeds(reviewer solana.PublicKey, title string) [][]byte {
	return [][]byte{reviewer.Bytes(), []byte(title)}
}

// FindAddress derives the slot address of ([reviewer], [title]) under
// [programID] and its bump nonce.
func FindAddress(programID, reviewer solana.PublicKey, title string) (solana.PublicKey, uint8, error) {
	return program.FindAddress(AddressSeeds(reviewer, title), programID)
}
