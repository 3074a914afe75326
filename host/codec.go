// (c) 2019-2020, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package host

import (
	"github.com/ava-labs/avalanchego/codec"
	"github.com/ava-labs/avalanchego/codec/linearcodec"
	"github.com/ava-labs/avalanchego/utils/wrappers"
)

const (
	// CodecVersion is the current default codec version
	CodecVersion = 0

	// MaxMessageSize bounds every serialized transaction, account, receipt
	// and genesis. An account holds at most MaxAccountSize bytes of data.
	MaxMessageSize = 2 * MaxAccountSize
)

// Codec is the ledger codec. Every type it handles is concrete, so no type
// registration is needed.
var Codec codec.Manager

func init() {
	Codec = codec.NewManager(MaxMessageSize)

	errs := wrappers.Errs{}
	errs.Add(
		Codec.RegisterCodec(CodecVersion, linearcodec.NewDefault()),
	)
	if errs.Errored() {
		panic(errs.Err)
	}
}
