// Copyright (C) 2019-2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package host

import (
	"errors"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/ids"

	"github.com/ava-labs/reviewvm/program"
)

var (
	errReceiptWrongVersion = errors.New("wrong receipt codec version")

	_ ReceiptState = &receiptState{}
)

// Receipt is the outcome of one executed transaction.
type Receipt struct {
	TxID ids.ID   `serialize:"true" json:"txID"`
	Code uint64   `serialize:"true" json:"code"`
	Logs []string `serialize:"true" json:"logs"`

	// Error is the message of the failure, empty on success.
	Error string `serialize:"true" json:"error,omitempty"`
}

type failure struct {
	code uint64
	msg  string
}

func (f *failure) Error() string { return f.msg }
func (f *failure) Code() uint64  { return f.code }

// Succeeded reports whether the transaction was committed.
func (r *Receipt) Succeeded() bool { return r.Code == 0 }

// Err returns the failure reported by the transaction, if any.
func (r *Receipt) Err() error {
	if r.Succeeded() {
		return nil
	}
	if r.Error == "" {
		return program.ProgramError(r.Code)
	}
	return &failure{code: r.Code, msg: r.Error}
}

type ReceiptState interface {
	GetReceipt(txID ids.ID) (*Receipt, error)
	HasReceipt(txID ids.ID) (bool, error)
	PutReceipt(r *Receipt) error
}

type receiptState struct {
	receiptDB database.Database
}

func NewReceiptState(db database.Database) ReceiptState {
	return &receiptState{receiptDB: db}
}

func (s *receiptState) GetReceipt(txID ids.ID) (*Receipt, error) {
	bytes, err := s.receiptDB.Get(txID[:])
	if err != nil {
		return nil, err
	}
	r := &Receipt{}
	parsedVersion, err := Codec.Unmarshal(bytes, r)
	if err != nil {
		return nil, err
	}
	if parsedVersion != CodecVersion {
		return nil, errReceiptWrongVersion
	}
	return r, nil
}

func (s *receiptState) HasReceipt(txID ids.ID) (bool, error) {
	return s.receiptDB.Has(txID[:])
}

func (s *receiptState) PutReceipt(r *Receipt) error {
	bytes, err := Codec.Marshal(CodecVersion, r)
	if err != nil {
		return err
	}
	return s.receiptDB.Put(r.TxID[:], bytes)
}
