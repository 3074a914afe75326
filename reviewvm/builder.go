// Copyright (C) 2019-2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package reviewvm

import (
	"github.com/gagliardetto/solana-go"

	"github.com/ava-labs/reviewvm/program"
)

// NewAddInstruction builds the instruction creating [reviewer]'s review of
// [title]. The slot address is derived here; the reviewer must sign.
func NewAddInstruction(programID, reviewer solana.PublicKey, title string, rating uint8, review string) (program.Instruction, error) {
	return newInstruction(programID, reviewer, title, AddReview{Title: title, Rating: rating, Review: review}, true)
}

// NewUpdateInstruction builds the instruction replacing the rating and text
// of [reviewer]'s review of [title].
func NewUpdateInstruction(programID, reviewer solana.PublicKey, title string, rating uint8, review string) (program.Instruction, error) {
	return newInstruction(programID, reviewer, title, UpdateReview{Title: title, Rating: rating, Review: review}, false)
}

// NewDeleteInstruction builds the instruction closing [reviewer]'s review
// of [title].
func NewDeleteInstruction(programID, reviewer solana.PublicKey, title string) (program.Instruction, error) {
	return newInstruction(programID, reviewer, title, DeleteReview{Title: title}, false)
}

func newInstruction(programID, reviewer solana.PublicKey, title string, cmd Command, allocates bool) (program.Instruction, error) {
	data, err := Encode(cmd)
	if err != nil {
		return program.Instruction{}, err
	}
	slot, _, err := FindAddress(programID, reviewer, title)
	if err != nil {
		return program.Instruction{}, err
	}
	accounts := []program.AccountMeta{
		program.NewAccountMeta(reviewer, true, true),
		program.NewAccountMeta(slot, true, false),
	}
	if allocates {
		accounts = append(accounts, program.NewAccountMeta(solana.SystemProgramID, false, false))
	}
	return program.Instruction{
		ProgramID: programID,
		Accounts:  accounts,
		Data:      data,
	}, nil
}
