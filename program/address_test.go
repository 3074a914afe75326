// Copyright (C) 2019-2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package program

import (
	"bytes"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testProgramID = solana.PublicKey{'r', 'e', 'v', 'i', 'e', 'w'}

func TestFindAddressDeterministic(t *testing.T) {
	require := require.New(t)

	seeds := [][]byte{[]byte("owner"), []byte("title")}
	addr1, bump1, err := FindAddress(seeds, testProgramID)
	require.NoError(err)
	addr2, bump2, err := FindAddress(seeds, testProgramID)
	require.NoError(err)

	require.Equal(addr1, addr2)
	require.Equal(bump1, bump2)

	other, _, err := FindAddress([][]byte{[]byte("owner"), []byte("other")}, testProgramID)
	require.NoError(err)
	require.NotEqual(addr1, other)

	// The bump reproduces the address.
	created, err := CreateAddress(append(seeds, []byte{bump1}), testProgramID)
	require.NoError(err)
	require.Equal(addr1, created)
}

func TestFindAddressSeedLimits(t *testing.T) {
	assert := assert.New(t)

	_, _, err := FindAddress([][]byte{bytes.Repeat([]byte{'a'}, MaxSeedLength+1)}, testProgramID)
	assert.ErrorIs(err, ErrMaxSeedLengthExceeded)

	_, _, err = FindAddress([][]byte{bytes.Repeat([]byte{'a'}, MaxSeedLength)}, testProgramID)
	assert.NoError(err)

	tooMany := make([][]byte, MaxSeeds)
	_, _, err = FindAddress(tooMany, testProgramID)
	assert.ErrorIs(err, ErrMaxSeedLengthExceeded)
}
