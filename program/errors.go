// Copyright (C) 2019-2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package program

import (
	"errors"
	"fmt"
)

const builtinShift = 32

// ProgramError is the code an invocation reports back to the host.
// Builtin errors occupy the upper 32 bits. Custom program errors are
// reported as their raw value, with Custom(0) moved to [customZero] so
// that 0 always means success.
type ProgramError uint64

const (
	customZero                   ProgramError = 1 << builtinShift
	ErrInvalidArgument           ProgramError = 2 << builtinShift
	ErrInvalidInstructionData    ProgramError = 3 << builtinShift
	ErrInvalidAccountData        ProgramError = 4 << builtinShift
	ErrAccountDataTooSmall       ProgramError = 5 << builtinShift
	ErrInsufficientFunds         ProgramError = 6 << builtinShift
	ErrIncorrectProgramID        ProgramError = 7 << builtinShift
	ErrMissingRequiredSignature  ProgramError = 8 << builtinShift
	ErrAccountAlreadyInitialized ProgramError = 9 << builtinShift
	ErrUninitializedAccount      ProgramError = 10 << builtinShift
	ErrNotEnoughAccountKeys      ProgramError = 11 << builtinShift
	ErrMaxSeedLengthExceeded     ProgramError = 13 << builtinShift
	ErrInvalidSeeds              ProgramError = 14 << builtinShift
	ErrIllegalOwner              ProgramError = 18 << builtinShift
)

var builtinNames = map[ProgramError]string{
	ErrInvalidArgument:           "invalid argument",
	ErrInvalidInstructionData:    "invalid instruction data",
	ErrInvalidAccountData:        "invalid account data",
	ErrAccountDataTooSmall:       "account data too small",
	ErrInsufficientFunds:         "insufficient funds",
	ErrIncorrectProgramID:        "incorrect program id",
	ErrMissingRequiredSignature:  "missing required signature",
	ErrAccountAlreadyInitialized: "account already initialized",
	ErrUninitializedAccount:      "uninitialized account",
	ErrNotEnoughAccountKeys:      "not enough account keys",
	ErrMaxSeedLengthExceeded:     "max seed length exceeded",
	ErrInvalidSeeds:              "invalid seeds",
	ErrIllegalOwner:              "illegal owner",
}

// Coder is implemented by errors that carry a stable host code.
type Coder interface {
	Code() uint64
}

// Custom returns the host code of the custom program error [code].
func Custom(code uint32) ProgramError {
	if code == 0 {
		return customZero
	}
	return ProgramError(code)
}

// Code implements Coder.
func (e ProgramError) Code() uint64 { return uint64(e) }

// Custom returns the custom error value carried by [e], if any.
func (e ProgramError) Custom() (uint32, bool) {
	switch {
	case e == customZero:
		return 0, true
	case uint64(e)>>builtinShift == 0:
		return uint32(e), true
	default:
		return 0, false
	}
}

func (e ProgramError) Error() string {
	if name, ok := builtinNames[e]; ok {
		return name
	}
	if code, ok := e.Custom(); ok {
		return fmt.Sprintf("custom program error: %#x", code)
	}
	return fmt.Sprintf("unknown program error: %#x", uint64(e))
}

// CodeOf maps the error returned by an invocation to the code reported to
// the host. A nil error is success (0). Errors that carry no code are
// reported as [ErrInvalidArgument].
func CodeOf(err error) uint64 {
	if err == nil {
		return 0
	}
	var coded Coder
	if errors.As(err, &coded) {
		return coded.Code()
	}
	return ErrInvalidArgument.Code()
}
