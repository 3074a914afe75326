// Copyright (C) 2019-2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package host

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ava-labs/reviewvm/program"
)

func TestMinimumBalance(t *testing.T) {
	assert := assert.New(t)

	quote, err := DefaultRent.MinimumBalance(1000)
	assert.NoError(err)
	assert.Equal(uint64(7_850_880), quote)

	quote, err = DefaultRent.MinimumBalance(0)
	assert.NoError(err)
	assert.Equal(uint64(890_880), quote)

	_, err = DefaultRent.MinimumBalance(math.MaxUint64)
	assert.ErrorIs(err, program.ErrInvalidArgument)

	_, err = DefaultRent.MinimumBalance(math.MaxUint64 / 1000)
	assert.ErrorIs(err, program.ErrInvalidArgument)
}
