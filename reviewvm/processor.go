// Copyright (C) 2019-2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package reviewvm

import (
	"fmt"
	"math"

	"github.com/gagliardetto/solana-go"

	log "github.com/inconshreveable/log15"

	"github.com/ava-labs/reviewvm/program"
)

type processor struct {
	env       program.Env
	log       log.Logger
	programID solana.PublicKey
	variant   Variant
}

func (p *processor) process(cmd Command, accounts program.Accounts) error {
	switch cmd := cmd.(type) {
	case AddReview:
		return p.addReview(accounts, cmd)
	case UpdateReview:
		return p.updateReview(accounts, cmd)
	case DeleteReview:
		return p.deleteReview(accounts, cmd)
	default:
		return fmt.Errorf("%w: unexpected command %T", program.ErrInvalidInstructionData, cmd)
	}
}

// verifyAddress checks that [slot] sits at the address derived from
// ([reviewer], [title]) and returns the bump of that derivation.
func (p *processor) verifyAddress(reviewer solana.PublicKey, title string, slot *program.AccountInfo) (uint8, error) {
	addr, bump, err := FindAddress(p.programID, reviewer, title)
	if err != nil {
		p.log.Debug("cannot derive review address", "err", err)
		return 0, err
	}
	if !addr.Equals(slot.Key) {
		p.log.Debug("invalid seeds for review address", "expected", addr, "got", slot.Key)
		return 0, ErrInvalidPDA
	}
	return bump, nil
}

func (p *processor) checkContent(title string, rating uint8, review string) error {
	if err := checkRating(rating); err != nil {
		p.log.Debug("rating out of range", "rating", rating)
		return err
	}
	if size := SizeOf(title, review); size > AccountSize {
		p.log.Debug("data length exceeds slot capacity", "size", size, "capacity", AccountSize)
		return ErrInvalidDataLength
	}
	return nil
}

func (p *processor) addReview(accounts program.Accounts, cmd AddReview) error {
	p.log.Debug("adding review", "title", cmd.Title, "rating", cmd.Rating, "review", cmd.Review)

	if err := accounts.Expect(3); err != nil {
		return err
	}
	initializer, slot, allocator := accounts[0], accounts[1], accounts[2]

	if !initializer.IsSigner {
		p.log.Debug("missing required signature")
		return program.ErrMissingRequiredSignature
	}
	if p.variant.checksOwner() && !slot.OwnedBy(p.programID) && !slot.OwnedBy(solana.SystemProgramID) {
		p.log.Debug("illegal slot owner", "owner", slot.Owner)
		return program.ErrIllegalOwner
	}
	if !allocator.Key.Equals(solana.SystemProgramID) {
		p.log.Debug("allocator is not the system program", "allocator", allocator.Key)
		return ErrIncorrectAccount
	}
	bump, err := p.verifyAddress(initializer.Key, cmd.Title, slot)
	if err != nil {
		return err
	}
	if err := p.checkContent(cmd.Title, cmd.Rating, cmd.Review); err != nil {
		return err
	}

	// A slot already assigned to this program was allocated earlier; the
	// initialization check below decides whether it can be reused.
	if slot.OwnedBy(p.programID) && len(slot.Data) != AccountSize {
		p.log.Debug("slot has unexpected size", "size", len(slot.Data))
		return program.ErrAccountAlreadyInitialized
	}
	if !slot.OwnedBy(p.programID) {
		lamports, err := p.env.MinimumBalance(AccountSize)
		if err != nil {
			return err
		}
		p.log.Debug("creating review slot", "address", slot.Key, "lamports", lamports)
		seeds := append(AddressSeeds(initializer.Key, cmd.Title), []byte{bump})
		if err := p.env.CreateAccount(initializer, slot, lamports, AccountSize, p.programID, seeds); err != nil {
			p.log.Debug("slot allocation failed", "err", err)
			return err
		}
	}

	record, err := UnmarshalRecord(slot.Data)
	if err != nil {
		p.log.Debug("slot holds unexpected data", "err", err)
		return fmt.Errorf("%w: %v", program.ErrAccountAlreadyInitialized, err)
	}
	if record.IsInitialized() {
		p.log.Debug("review already initialized")
		return program.ErrAccountAlreadyInitialized
	}

	record = &Record{
		Discriminator: Discriminator,
		Initialized:   true,
		Reviewer:      initializer.Key,
		Rating:        cmd.Rating,
		Title:         cmd.Title,
		Review:        cmd.Review,
	}
	if err := record.MarshalInto(slot.Data); err != nil {
		return err
	}
	p.log.Info("review added", "address", slot.Key, "title", cmd.Title)
	return nil
}

func (p *processor) updateReview(accounts program.Accounts, cmd UpdateReview) error {
	p.log.Debug("updating review", "title", cmd.Title, "rating", cmd.Rating, "review", cmd.Review)

	if err := accounts.Expect(2); err != nil {
		return err
	}
	initializer, slot := accounts[0], accounts[1]

	if !initializer.IsSigner {
		p.log.Debug("missing required signature")
		return program.ErrMissingRequiredSignature
	}
	if _, err := p.verifyAddress(initializer.Key, cmd.Title, slot); err != nil {
		return err
	}

	record, err := UnmarshalRecord(slot.Data)
	if err != nil {
		p.log.Debug("slot does not hold a record", "err", err)
		return ErrUninitializedAccount
	}
	if !record.IsInitialized() {
		p.log.Debug("review is not initialized")
		return ErrUninitializedAccount
	}
	if err := p.checkContent(cmd.Title, cmd.Rating, cmd.Review); err != nil {
		return err
	}

	record.Rating = cmd.Rating
	record.Review = cmd.Review
	if err := record.MarshalInto(slot.Data); err != nil {
		return err
	}
	p.log.Info("review updated", "address", slot.Key, "title", record.Title)
	return nil
}

func (p *processor) deleteReview(accounts program.Accounts, cmd DeleteReview) error {
	p.log.Debug("deleting review", "title", cmd.Title)

	if err := accounts.Expect(2); err != nil {
		return err
	}
	initializer, slot := accounts[0], accounts[1]

	if !initializer.IsSigner {
		p.log.Debug("missing required signature")
		return program.ErrMissingRequiredSignature
	}
	if _, err := p.verifyAddress(initializer.Key, cmd.Title, slot); err != nil {
		return err
	}
	if !slot.OwnedBy(p.programID) {
		p.log.Debug("illegal slot owner", "owner", slot.Owner)
		return program.ErrIllegalOwner
	}

	record, err := UnmarshalRecord(slot.Data)
	if err != nil || !record.IsInitialized() {
		p.log.Debug("review is not initialized")
		return ErrUninitializedAccount
	}
	if !record.Reviewer.Equals(initializer.Key) {
		p.log.Debug("signer is not the reviewer", "reviewer", record.Reviewer)
		return ErrIncorrectAccount
	}
	if initializer.Lamports > math.MaxUint64-slot.Lamports {
		p.log.Debug("refund overflows signer balance")
		return ErrAmountOverflow
	}

	refund := slot.Lamports
	initializer.Lamports += refund
	slot.Lamports = 0
	slot.Data = slot.Data[:0]
	slot.Owner = solana.SystemProgramID
	p.log.Info("review deleted", "address", slot.Key, "refund", refund)
	return nil
}
