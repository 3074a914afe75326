// Copyright (C) 2019-2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package program

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCustomCodes(t *testing.T) {
	assert := assert.New(t)

	assert.Equal(uint64(1)<<32, Custom(0).Code())
	assert.Equal(uint64(3), Custom(3).Code())

	code, ok := Custom(0).Custom()
	assert.True(ok)
	assert.Equal(uint32(0), code)

	code, ok = Custom(5).Custom()
	assert.True(ok)
	assert.Equal(uint32(5), code)

	_, ok = ErrIllegalOwner.Custom()
	assert.False(ok)
}

func TestCodeOf(t *testing.T) {
	assert := assert.New(t)

	assert.Zero(CodeOf(nil))
	assert.Equal(ErrMissingRequiredSignature.Code(), CodeOf(ErrMissingRequiredSignature))
	assert.Equal(ErrInvalidInstructionData.Code(), CodeOf(fmt.Errorf("%w: bad tag", ErrInvalidInstructionData)))
	assert.Equal(ErrInvalidArgument.Code(), CodeOf(errors.New("opaque")))
}

func TestErrorStrings(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("illegal owner", ErrIllegalOwner.Error())
	assert.Equal("custom program error: 0x2", Custom(2).Error())
	assert.Equal("custom program error: 0x0", Custom(0).Error())
}

func TestAccountsExpect(t *testing.T) {
	assert := assert.New(t)

	accounts := Accounts{{}, {}}
	assert.NoError(accounts.Expect(2))
	assert.ErrorIs(accounts.Expect(3), ErrNotEnoughAccountKeys)
	assert.ErrorIs(accounts.Expect(1), ErrInvalidArgument)

	_, err := accounts.Get(2)
	assert.ErrorIs(err, ErrNotEnoughAccountKeys)
	acc, err := accounts.Get(1)
	assert.NoError(err)
	assert.Same(accounts[1], acc)
}
