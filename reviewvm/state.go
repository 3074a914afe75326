// Copyright (C) 2019-2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package reviewvm

import (
	"errors"
	"fmt"

	"github.com/gagliardetto/solana-go"

	"github.com/ava-labs/reviewvm/program"
)

const (
	// Discriminator tags every slot that holds a review record.
	Discriminator = "review"

	// AccountSize is the fixed capacity of a review slot.
	AccountSize = 1000

	MinRating uint8 = 1
	MaxRating uint8 = 5

	identityLen = 32
	stringLen   = 4
)

var ErrMalformedRecord = errors.New("malformed review record")

// Record is the review persisted in a slot.
//
// Layout:
//
//	[discriminator str][initialized u8][reviewer 32B][rating u8][title str][review str][zero padding]
//
// Strings are a little-endian u32 length followed by the raw bytes.
type Record struct {
	Discriminator string
	Initialized   bool
	Reviewer      solana.PublicKey
	Rating        uint8
	Title         string
	Review        string
}

// SizeOf returns the number of bytes a record with [title] and [review]
// occupies once serialized.
func SizeOf(title, review string) int {
	return stringLen + len(Discriminator) +
		1 + // initialized
		identityLen +
		1 + // rating
		stringLen + len(title) +
		stringLen + len(review)
}

// IsInitialized reports whether the record has been created.
func (r *Record) IsInitialized() bool { return r.Initialized }

// Size returns the serialized size of [r].
func (r *Record) Size() int {
	return stringLen + len(r.Discriminator) + 1 + identityLen + 1 +
		stringLen + len(r.Title) + stringLen + len(r.Review)
}

// Marshal returns the exact serialized bytes of [r], without padding.
func (r *Record) Marshal() ([]byte, error) {
	e := newEncoder(r.Size())
	if err := e.writeString(r.Discriminator); err != nil {
		return nil, err
	}
	if err := e.writeBool(r.Initialized); err != nil {
		return nil, err
	}
	if err := e.writeBytes(r.Reviewer[:]); err != nil {
		return nil, err
	}
	if err := e.writeUint8(r.Rating); err != nil {
		return nil, err
	}
	if err := e.writeString(r.Title); err != nil {
		return nil, err
	}
	if err := e.writeString(r.Review); err != nil {
		return nil, err
	}
	return e.bytes(), nil
}

// MarshalInto overwrites the whole of [slot] with [r] followed by zero
// padding. [slot] is left untouched when the record does not fit.
func (r *Record) MarshalInto(slot []byte) error {
	if r.Size() > len(slot) {
		return fmt.Errorf("%w: record needs %d bytes, slot has %d", program.ErrAccountDataTooSmall, r.Size(), len(slot))
	}
	raw, err := r.Marshal()
	if err != nil {
		return err
	}
	n := copy(slot, raw)
	for i := n; i < len(slot); i++ {
		slot[i] = 0
	}
	return nil
}

// UnmarshalRecord parses the record stored at the front of [slot].
// Trailing padding is ignored. An all-zero slot parses as an
// uninitialized record.
func UnmarshalRecord(slot []byte) (*Record, error) {
	d := newDecoder(slot)
	r := &Record{}

	var err error
	if r.Discriminator, err = d.readString(); err != nil {
		return nil, fmt.Errorf("%w: discriminator: %v", ErrMalformedRecord, err)
	}
	if r.Initialized, err = d.readBool(); err != nil {
		return nil, fmt.Errorf("%w: initialized flag: %v", ErrMalformedRecord, err)
	}
	reviewer, err := d.ReadNBytes(identityLen)
	if err != nil {
		return nil, fmt.Errorf("%w: reviewer: %v", ErrMalformedRecord, err)
	}
	copy(r.Reviewer[:], reviewer)
	if r.Rating, err = d.ReadUint8(); err != nil {
		return nil, fmt.Errorf("%w: rating: %v", ErrMalformedRecord, err)
	}
	if r.Title, err = d.readString(); err != nil {
		return nil, fmt.Errorf("%w: title: %v", ErrMalformedRecord, err)
	}
	if r.Review, err = d.readString(); err != nil {
		return nil, fmt.Errorf("%w: review: %v", ErrMalformedRecord, err)
	}
	if r.Initialized && r.Discriminator != Discriminator {
		return nil, fmt.Errorf("%w: discriminator %q", ErrMalformedRecord, r.Discriminator)
	}
	return r, nil
}

func checkRating(rating uint8) error {
	if rating < MinRating || rating > MaxRating {
		return ErrInvalidRating
	}
	return nil
}
