// Copyright (C) 2019-2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package reviewvm

import (
	"github.com/ava-labs/reviewvm/program"
)

// Error is a review program failure. Its value is the custom error code
// reported to the host.
type Error uint32

const (
	ErrUninitializedAccount Error = iota
	ErrInvalidPDA
	ErrInvalidDataLength
	ErrInvalidRating
	ErrIncorrectAccount
	ErrAmountOverflow
)

var _ program.Coder = ErrInvalidPDA

var errorMessages = [...]string{
	ErrUninitializedAccount: "account not initialized yet",
	ErrInvalidPDA:           "derived address does not equal the address passed in",
	ErrInvalidDataLength:    "input data exceeds max length",
	ErrInvalidRating:        "rating should be between 1 & 5, both inclusive",
	ErrIncorrectAccount:     "incorrect account",
	ErrAmountOverflow:       "amount overflow",
}

func (e Error) Error() string {
	if int(e) < len(errorMessages) {
		return errorMessages[e]
	}
	return program.Custom(uint32(e)).Error()
}

// Code implements program.Coder.
func (e Error) Code() uint64 {
	return program.Custom(uint32(e)).Code()
}
