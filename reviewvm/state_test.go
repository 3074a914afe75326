// Copyright (C) 2019-2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package reviewvm

import (
	"encoding/binary"
	"encoding/hex"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ava-labs/reviewvm/program"
)

func sequentialKey() solana.PublicKey {
	var key solana.PublicKey
	for i := range key {
		key[i] = byte(i + 1)
	}
	return key
}

func testRecord() *Record {
	return &Record{
		Discriminator: Discriminator,
		Initialized:   true,
		Reviewer:      sequentialKey(),
		Rating:        5,
		Title:         "Dune",
		Review:        "spice",
	}
}

func TestSizeOf(t *testing.T) {
	assert := assert.New(t)

	assert.Equal(4+6+1+32+1+4+4, SizeOf("", ""))
	assert.Equal(61, SizeOf("Dune", "spice"))

	r := testRecord()
	raw, err := r.Marshal()
	require.NoError(t, err)
	assert.Len(raw, SizeOf(r.Title, r.Review))
	assert.Equal(r.Size(), len(raw))
}

func TestRecordLayoutGolden(t *testing.T) {
	raw, err := testRecord().Marshal()
	require.NoError(t, err)

	g := goldie.New(t)
	g.Assert(t, "record_layout", []byte(hex.EncodeToString(raw)+"\n"))
}

func TestRecordRoundTrip(t *testing.T) {
	assert := assert.New(t)

	r := testRecord()
	slot := make([]byte, AccountSize)
	require.NoError(t, r.MarshalInto(slot))

	decoded, err := UnmarshalRecord(slot)
	require.NoError(t, err)
	assert.Equal(r, decoded)
}

func TestMarshalIntoTooSmall(t *testing.T) {
	r := testRecord()
	slot := make([]byte, r.Size()-1)
	assert.ErrorIs(t, r.MarshalInto(slot), program.ErrAccountDataTooSmall)
	assert.Equal(t, make([]byte, r.Size()-1), slot)
}

func TestUnmarshalZeroSlot(t *testing.T) {
	r, err := UnmarshalRecord(make([]byte, AccountSize))
	require.NoError(t, err)
	assert.False(t, r.IsInitialized())
	assert.Empty(t, r.Title)
}

// minRecordSize is the encoding of an empty record: an empty
// discriminator, the flag, the reviewer, the rating and two empty strings.
const minRecordSize = 4 + 1 + 32 + 1 + 4 + 4

func TestUnmarshalShortZeroSlot(t *testing.T) {
	r, err := UnmarshalRecord(make([]byte, minRecordSize))
	require.NoError(t, err)
	assert.False(t, r.IsInitialized())

	r, err = UnmarshalRecord(make([]byte, SizeOf("", "")-1))
	require.NoError(t, err)
	assert.False(t, r.IsInitialized())
}

func TestUnmarshalMalformed(t *testing.T) {
	valid, err := testRecord().Marshal()
	require.NoError(t, err)

	overrun := append([]byte{}, valid...)
	binary.LittleEndian.PutUint32(overrun[len(overrun)-9:], 1_000_000)

	badBool := append([]byte{}, valid...)
	badBool[10] = 2

	wrongTag := &Record{Discriminator: "movie", Initialized: true}
	wrongTagRaw, err := wrongTag.Marshal()
	require.NoError(t, err)

	tests := map[string][]byte{
		"empty":         nil,
		"short":         make([]byte, minRecordSize-1),
		"truncated":     valid[:len(valid)-1],
		"cut header":    valid[:40],
		"overrun":       overrun,
		"bad bool":      badBool,
		"discriminator": wrongTagRaw,
	}
	for name, slot := range tests {
		_, err := UnmarshalRecord(slot)
		assert.ErrorIs(t, err, ErrMalformedRecord, name)
	}
}
