// Copyright (C) 2019-2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package host

import (
	"fmt"
	"math"

	"github.com/ava-labs/reviewvm/program"
)

// AccountStorageOverhead is charged on top of every account's data.
const AccountStorageOverhead = 128

// DefaultRent is the rent schedule used when none is configured.
var DefaultRent = Rent{
	LamportsPerByteYear: 3480,
	ExemptionThreshold:  2.0,
}

// Rent quotes the balance an account needs to be exempt from rent.
type Rent struct {
	LamportsPerByteYear uint64  `json:"lamportsPerByteYear"`
	ExemptionThreshold  float64 `json:"exemptionThreshold"`
}

// MinimumBalance returns the rent-exempt balance for [space] data bytes.
func (r Rent) MinimumBalance(space uint64) (uint64, error) {
	if space > math.MaxUint64-AccountStorageOverhead {
		return 0, fmt.Errorf("%w: account size %d overflows rent", program.ErrInvalidArgument, space)
	}
	bytes := space + AccountStorageOverhead
	if r.LamportsPerByteYear != 0 && bytes > math.MaxUint64/r.LamportsPerByteYear {
		return 0, fmt.Errorf("%w: account size %d overflows rent", program.ErrInvalidArgument, space)
	}
	quote := float64(bytes*r.LamportsPerByteYear) * r.ExemptionThreshold
	if quote >= math.MaxUint64 {
		return 0, fmt.Errorf("%w: account size %d overflows rent", program.ErrInvalidArgument, space)
	}
	return uint64(quote), nil
}
