// Copyright (C) 2019-2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package reviewvm

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"

	bin "github.com/gagliardetto/binary"
)

var errStringOverrun = errors.New("string length exceeds remaining bytes")

// decoder reads the borsh layout used by both instructions and records.
type decoder struct {
	*bin.Decoder
}

func newDecoder(data []byte) *decoder {
	return &decoder{Decoder: bin.NewBorshDecoder(data)}
}

func (d *decoder) readString() (string, error) {
	n, err := d.ReadUint32(binary.LittleEndian)
	if err != nil {
		return "", err
	}
	if uint64(n) > uint64(d.Remaining()) {
		return "", fmt.Errorf("%w: want %d, have %d", errStringOverrun, n, d.Remaining())
	}
	b, err := d.ReadNBytes(int(n))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (d *decoder) readBool() (bool, error) {
	b, err := d.ReadUint8()
	if err != nil {
		return false, err
	}
	switch b {
	case 0:
		return false, nil
	case 1:
		return true, nil
	default:
		return false, fmt.Errorf("invalid bool byte %#x", b)
	}
}

type encoder struct {
	buf bytes.Buffer
	enc *bin.Encoder
}

func newEncoder(sizeHint int) *encoder {
	e := &encoder{}
	e.buf.Grow(sizeHint)
	e.enc = bin.NewBorshEncoder(&e.buf)
	return e
}

func (e *encoder) writeString(s string) error {
	if err := e.enc.WriteUint32(uint32(len(s)), binary.LittleEndian); err != nil {
		return err
	}
	return e.enc.WriteBytes([]byte(s), false)
}

func (e *encoder) writeBool(b bool) error {
	return e.enc.WriteBool(b)
}

func (e *encoder) writeUint8(v uint8) error {
	return e.enc.WriteUint8(v)
}

func (e *encoder) writeBytes(b []byte) error {
	return e.enc.WriteBytes(b, false)
}

func (e *encoder) bytes() []byte {
	return e.buf.Bytes()
}
