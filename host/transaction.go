// Copyright (C) 2019-2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package host

import (
	"errors"
	"fmt"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/utils/hashing"
	"github.com/gagliardetto/solana-go"

	"github.com/ava-labs/reviewvm/program"
)

var (
	errUnknownSigner  = errors.New("signature from a key the instruction does not use")
	errBadSignature   = errors.New("signature does not verify")
	errTxWrongVersion = errors.New("wrong transaction codec version")
)

// Signature is one signer's ed25519 signature over the transaction message.
type Signature struct {
	Signer    solana.PublicKey `serialize:"true" json:"signer"`
	Signature solana.Signature `serialize:"true" json:"signature"`
}

// Transaction carries a single instruction and the signatures of the
// accounts it marks as signers.
type Transaction struct {
	Instruction program.Instruction `serialize:"true" json:"instruction"`
	// Nonce distinguishes otherwise identical transactions.
	Nonce      uint64      `serialize:"true" json:"nonce"`
	Signatures []Signature `serialize:"true" json:"signatures"`
}

type unsignedTx struct {
	Instruction program.Instruction `serialize:"true"`
	Nonce       uint64              `serialize:"true"`
}

// NewTransaction returns an unsigned transaction for [ix].
func NewTransaction(ix program.Instruction, nonce uint64) *Transaction {
	return &Transaction{Instruction: ix, Nonce: nonce}
}

// Message returns the bytes every signer signs.
func (tx *Transaction) Message() ([]byte, error) {
	return Codec.Marshal(CodecVersion, &unsignedTx{
		Instruction: tx.Instruction,
		Nonce:       tx.Nonce,
	})
}

// ID is the hash of the transaction message.
func (tx *Transaction) ID() (ids.ID, error) {
	msg, err := tx.Message()
	if err != nil {
		return ids.Empty, err
	}
	return ids.ID(hashing.ComputeHash256Array(msg)), nil
}

// Sign appends a signature by each of [keys].
func (tx *Transaction) Sign(keys ...solana.PrivateKey) error {
	msg, err := tx.Message()
	if err != nil {
		return err
	}
	digest := hashing.ComputeHash256(msg)
	for _, key := range keys {
		sig, err := key.Sign(digest)
		if err != nil {
			return fmt.Errorf("couldn't sign with %s: %w", key.PublicKey(), err)
		}
		tx.Signatures = append(tx.Signatures, Signature{
			Signer:    key.PublicKey(),
			Signature: sig,
		})
	}
	return nil
}

// verifiedSigners checks every signature and returns the set of keys
// that signed. A key the instruction marks as signer but that did not
// sign is simply absent from the set.
func (tx *Transaction) verifiedSigners() (map[solana.PublicKey]bool, error) {
	msg, err := tx.Message()
	if err != nil {
		return nil, err
	}
	digest := hashing.ComputeHash256(msg)

	used := make(map[solana.PublicKey]bool, len(tx.Instruction.Accounts))
	for _, meta := range tx.Instruction.Accounts {
		used[meta.Key] = true
	}

	signed := make(map[solana.PublicKey]bool, len(tx.Signatures))
	for _, sig := range tx.Signatures {
		if !used[sig.Signer] {
			return nil, fmt.Errorf("%w: %s", errUnknownSigner, sig.Signer)
		}
		if !sig.Signature.Verify(sig.Signer, digest) {
			return nil, fmt.Errorf("%w: %s", errBadSignature, sig.Signer)
		}
		signed[sig.Signer] = true
	}
	return signed, nil
}

// Bytes serializes [tx] for transport.
func (tx *Transaction) Bytes() ([]byte, error) {
	return Codec.Marshal(CodecVersion, tx)
}

// ParseTransaction is the inverse of Bytes.
func ParseTransaction(b []byte) (*Transaction, error) {
	tx := &Transaction{}
	parsedVersion, err := Codec.Unmarshal(b, tx)
	if err != nil {
		return nil, err
	}
	if parsedVersion != CodecVersion {
		return nil, errTxWrongVersion
	}
	return tx, nil
}
