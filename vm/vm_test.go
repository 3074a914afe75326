// (c) 2019-2020, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package vm

import (
	"testing"

	"github.com/ava-labs/avalanchego/database/memdb"
	"github.com/ava-labs/avalanchego/utils/formatting"
	"github.com/ava-labs/avalanchego/utils/json"
	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	log "github.com/inconshreveable/log15"

	"github.com/ava-labs/reviewvm/host"
	"github.com/ava-labs/reviewvm/program"
	"github.com/ava-labs/reviewvm/reviewvm"
)

const testFunds = 1_000_000_000

func newTestVM(t *testing.T, cfg Config) (*VM, *Service) {
	logger := log.New()
	logger.SetHandler(log.DiscardHandler())

	vm := &VM{}
	require.NoError(t, vm.Initialize(cfg, memdb.New(), nil, logger))
	t.Cleanup(func() { _ = vm.Shutdown() })
	return vm, &Service{vm: vm}
}

func newTestKey(t *testing.T) solana.PrivateKey {
	key, err := solana.NewRandomPrivateKey()
	require.NoError(t, err)
	return key
}

func issue(t *testing.T, s *Service, ix program.Instruction, nonce uint64, key solana.PrivateKey) *ReceiptReply {
	tx := host.NewTransaction(ix, nonce)
	require.NoError(t, tx.Sign(key))
	txBytes, err := tx.Bytes()
	require.NoError(t, err)
	encoded, err := formatting.EncodeWithChecksum(formatting.Hex, txBytes)
	require.NoError(t, err)

	reply := &ReceiptReply{}
	require.NoError(t, s.IssueTx(nil, &IssueTxArgs{Tx: encoded, Encoding: formatting.Hex}, reply))
	return reply
}

func TestInitializeRejectsBadConfig(t *testing.T) {
	assert := assert.New(t)

	cfg := DefaultConfig()
	cfg.Variant = "partial"
	assert.Error((&VM{}).Initialize(cfg, memdb.New(), nil, nil))

	cfg = DefaultConfig()
	cfg.ProgramID = "not base58!"
	assert.Error((&VM{}).Initialize(cfg, memdb.New(), nil, nil))

	cfg = DefaultConfig()
	cfg.RentExemptionThreshold = 0
	assert.ErrorIs((&VM{}).Initialize(cfg, memdb.New(), nil, nil), errBadExemptionThreshold)

	assert.Error((&VM{}).Initialize(DefaultConfig(), memdb.New(), []byte("{"), nil))
}

func TestUninitialized(t *testing.T) {
	vm := &VM{}
	_, err := vm.CreateHandlers()
	assert.ErrorIs(t, err, errNotInitialized)
	_, err = vm.IssueTx(&host.Transaction{})
	assert.ErrorIs(t, err, errNotInitialized)
	assert.NoError(t, vm.Shutdown())
}

func TestGetProgram(t *testing.T) {
	assert := assert.New(t)
	_, s := newTestVM(t, DefaultConfig())

	reply := &GetProgramReply{}
	assert.NoError(s.GetProgram(nil, &EmptyArgs{}, reply))
	assert.Equal(DefaultProgramID, reply.ProgramID)
	assert.Equal("full", reply.Variant)
	assert.Equal(Version, reply.Version)

	quote, err := host.DefaultRent.MinimumBalance(reviewvm.AccountSize)
	assert.NoError(err)
	assert.Equal(json.Uint64(quote), reply.MinimumBalance)
}

func TestReviewLifecycle(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)
	vm, s := newTestVM(t, DefaultConfig())

	key := newTestKey(t)
	reviewer := key.PublicKey()
	airdrop := &AirdropReply{}
	require.NoError(s.Airdrop(nil, &AirdropArgs{Address: reviewer, Lamports: testFunds}, airdrop))
	assert.Equal(json.Uint64(testFunds), airdrop.Balance)

	// Add
	ix, err := reviewvm.NewAddInstruction(vm.ProgramID(), reviewer, "Dune", 5, "spice")
	require.NoError(err)
	receipt := issue(t, s, ix, 0, key)
	assert.Zero(receipt.Code, receipt.Error)
	assert.Empty(receipt.Error)
	require.NotEmpty(receipt.Logs)
	assert.Contains(receipt.Logs[0], "adding review")

	review := &GetReviewReply{}
	require.NoError(s.GetReview(nil, &GetReviewArgs{Reviewer: reviewer, Title: "Dune"}, review))
	assert.Equal(reviewer, review.Reviewer)
	assert.Equal("Dune", review.Title)
	assert.EqualValues(5, review.Rating)
	assert.Equal("spice", review.Review)

	slot := &GetAccountReply{}
	require.NoError(s.GetAccount(nil, &GetAccountArgs{Address: review.Address, Encoding: formatting.Hex}, slot))
	assert.Equal(vm.ProgramID(), slot.Owner)
	quote, err := host.DefaultRent.MinimumBalance(reviewvm.AccountSize)
	require.NoError(err)
	assert.Equal(json.Uint64(quote), slot.Lamports)
	data, err := formatting.Decode(formatting.Hex, slot.Data)
	require.NoError(err)
	assert.Len(data, reviewvm.AccountSize)

	stored := &ReceiptReply{}
	require.NoError(s.GetReceipt(nil, &GetReceiptArgs{TxID: receipt.TxID}, stored))
	assert.Equal(receipt, stored)

	// A second add of the same title fails and leaves the review intact.
	receipt = issue(t, s, ix, 1, key)
	assert.Equal(json.Uint64(program.ErrAccountAlreadyInitialized), receipt.Code)
	assert.NotEmpty(receipt.Error)

	// Update
	ix, err = reviewvm.NewUpdateInstruction(vm.ProgramID(), reviewer, "Dune", 3, "sand")
	require.NoError(err)
	receipt = issue(t, s, ix, 0, key)
	assert.Zero(receipt.Code, receipt.Error)

	require.NoError(s.GetReview(nil, &GetReviewArgs{Reviewer: reviewer, Title: "Dune"}, review))
	assert.EqualValues(3, review.Rating)
	assert.Equal("sand", review.Review)

	ix, err = reviewvm.NewUpdateInstruction(vm.ProgramID(), reviewer, "Dune", 6, "too good")
	require.NoError(err)
	receipt = issue(t, s, ix, 0, key)
	assert.Equal(json.Uint64(reviewvm.ErrInvalidRating.Code()), receipt.Code)
	assert.Contains(receipt.Error, reviewvm.ErrInvalidRating.Error())

	// Delete
	ix, err = reviewvm.NewDeleteInstruction(vm.ProgramID(), reviewer, "Dune")
	require.NoError(err)
	receipt = issue(t, s, ix, 0, key)
	assert.Zero(receipt.Code, receipt.Error)

	err = s.GetReview(nil, &GetReviewArgs{Reviewer: reviewer, Title: "Dune"}, &GetReviewReply{})
	assert.ErrorIs(err, errReviewNotFound)

	account := &GetAccountReply{}
	require.NoError(s.GetAccount(nil, &GetAccountArgs{Address: reviewer, Encoding: formatting.Hex}, account))
	assert.Equal(json.Uint64(testFunds), account.Lamports)
}

func TestIssueTxRejected(t *testing.T) {
	assert := assert.New(t)
	vm, s := newTestVM(t, DefaultConfig())

	assert.Error(s.IssueTx(nil, &IssueTxArgs{Tx: "zz", Encoding: formatting.Hex}, &ReceiptReply{}))

	garbage, err := formatting.EncodeWithChecksum(formatting.Hex, []byte{0, 0, 1})
	assert.NoError(err)
	assert.Error(s.IssueTx(nil, &IssueTxArgs{Tx: garbage, Encoding: formatting.Hex}, &ReceiptReply{}))

	key := newTestKey(t)
	ix, err := reviewvm.NewAddInstruction(vm.ProgramID(), key.PublicKey(), "Dune", 5, "spice")
	assert.NoError(err)
	issue(t, s, ix, 0, key)

	tx := host.NewTransaction(ix, 0)
	assert.NoError(tx.Sign(key))
	txBytes, err := tx.Bytes()
	assert.NoError(err)
	encoded, err := formatting.EncodeWithChecksum(formatting.Hex, txBytes)
	assert.NoError(err)
	assert.Error(s.IssueTx(nil, &IssueTxArgs{Tx: encoded, Encoding: formatting.Hex}, &ReceiptReply{}))
}

func TestBasicVariant(t *testing.T) {
	assert := assert.New(t)
	cfg := DefaultConfig()
	cfg.Variant = reviewvm.Basic.String()
	vm, s := newTestVM(t, cfg)

	key := newTestKey(t)
	_, err := vm.Runtime().Airdrop(key.PublicKey(), testFunds)
	assert.NoError(err)

	ix, err := reviewvm.NewAddInstruction(vm.ProgramID(), key.PublicKey(), "Dune", 4, "spice")
	assert.NoError(err)
	assert.Zero(issue(t, s, ix, 0, key).Code)

	ix, err = reviewvm.NewDeleteInstruction(vm.ProgramID(), key.PublicKey(), "Dune")
	assert.NoError(err)
	receipt := issue(t, s, ix, 0, key)
	assert.Equal(json.Uint64(program.ErrInvalidInstructionData), receipt.Code)

	_, _, err = vm.GetReview(key.PublicKey(), "Dune")
	assert.NoError(err)
}

func TestGenesisAllocations(t *testing.T) {
	key := newTestKey(t).PublicKey()
	genesis := []byte(`{"allocations":[{"address":"` + key.String() + `","lamports":42}]}`)

	logger := log.New()
	logger.SetHandler(log.DiscardHandler())
	vm := &VM{}
	require.NoError(t, vm.Initialize(DefaultConfig(), memdb.New(), genesis, logger))

	acc, err := vm.Runtime().Account(key)
	require.NoError(t, err)
	assert.EqualValues(t, 42, acc.Lamports)
}

func TestStaticService(t *testing.T) {
	assert := assert.New(t)
	ss := CreateStaticService()

	built := &InstructionBytesReply{}
	assert.NoError(ss.BuildInstruction(nil, &InstructionArgs{
		Command:  "add",
		Title:    "Dune",
		Rating:   5,
		Review:   "spice",
		Encoding: formatting.Hex,
	}, built))

	parsed := &InstructionReply{}
	assert.NoError(ss.ParseInstruction(nil, &InstructionBytesArgs{Bytes: built.Bytes, Encoding: formatting.Hex}, parsed))
	assert.Equal(InstructionReply{Command: "add", Title: "Dune", Rating: 5, Review: "spice"}, *parsed)

	assert.NoError(ss.BuildInstruction(nil, &InstructionArgs{Command: "delete", Title: "Dune", Encoding: formatting.Hex}, built))
	assert.NoError(ss.ParseInstruction(nil, &InstructionBytesArgs{Bytes: built.Bytes, Encoding: formatting.Hex}, parsed))
	assert.Equal("delete", parsed.Command)

	assert.Error(ss.BuildInstruction(nil, &InstructionArgs{Command: "rename"}, built))
}
