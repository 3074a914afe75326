// Copyright (C) 2019-2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package host

import (
	"errors"
	"fmt"

	"github.com/ava-labs/avalanchego/cache"
	"github.com/ava-labs/avalanchego/database"
	"github.com/gagliardetto/solana-go"
)

const defaultAccountCacheSize = 1024

var (
	errAccountWrongVersion = errors.New("wrong account codec version")

	_ AccountState = &accountState{}
)

// Account is the persisted form of a ledger account.
type Account struct {
	Owner      solana.PublicKey `serialize:"true"`
	Lamports   uint64           `serialize:"true"`
	Executable bool             `serialize:"true"`
	Data       []byte           `serialize:"true"`
}

func (a *Account) clone() *Account {
	c := *a
	c.Data = append([]byte(nil), a.Data...)
	return &c
}

// newEmptyAccount is what every address holds before it is funded.
func newEmptyAccount() *Account {
	return &Account{Owner: solana.SystemProgramID}
}

type AccountState interface {
	// GetAccount returns the account at [key]. Addresses that hold nothing
	// return an empty system-owned account and [ok] false.
	GetAccount(key solana.PublicKey) (acc *Account, ok bool, err error)
	PutAccount(key solana.PublicKey, acc *Account) error
	DeleteAccount(key solana.PublicKey) error

	ClearCache()
}

type accountState struct {
	accCache  cache.Cacher
	accountDB database.Database
}

func NewAccountState(db database.Database, cacheSize int) AccountState {
	if cacheSize <= 0 {
		cacheSize = defaultAccountCacheSize
	}
	return &accountState{
		accCache:  &cache.LRU{Size: cacheSize},
		accountDB: db,
	}
}

func (s *accountState) GetAccount(key solana.PublicKey) (*Account, bool, error) {
	if accIntf, ok := s.accCache.Get(key); ok {
		if accIntf == nil {
			return newEmptyAccount(), false, nil
		}
		return accIntf.(*Account).clone(), true, nil
	}

	accBytes, err := s.accountDB.Get(key[:])
	if err == database.ErrNotFound {
		s.accCache.Put(key, nil)
		return newEmptyAccount(), false, nil
	}
	if err != nil {
		return nil, false, err
	}

	acc := &Account{}
	parsedVersion, err := Codec.Unmarshal(accBytes, acc)
	if err != nil {
		return nil, false, fmt.Errorf("couldn't parse account %s: %w", key, err)
	}
	if parsedVersion != CodecVersion {
		return nil, false, errAccountWrongVersion
	}

	s.accCache.Put(key, acc)
	return acc.clone(), true, nil
}

func (s *accountState) PutAccount(key solana.PublicKey, acc *Account) error {
	bytes, err := Codec.Marshal(CodecVersion, acc)
	if err != nil {
		return err
	}

	s.accCache.Put(key, acc.clone())
	return s.accountDB.Put(key[:], bytes)
}

func (s *accountState) DeleteAccount(key solana.PublicKey) error {
	s.accCache.Put(key, nil)
	return s.accountDB.Delete(key[:])
}

func (s *accountState) ClearCache() {
	s.accCache.Flush()
}
