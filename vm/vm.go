// (c) 2019-2020, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package vm

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gagliardetto/solana-go"
	"github.com/gorilla/rpc/v2"

	log "github.com/inconshreveable/log15"

	"github.com/ava-labs/avalanchego/database"

	cjson "github.com/ava-labs/avalanchego/utils/json"

	"github.com/ava-labs/reviewvm/host"
	"github.com/ava-labs/reviewvm/reviewvm"
)

const (
	Name    = reviewvm.Name
	Version = "v1.0.0"
)

var (
	errNotInitialized = errors.New("vm is not initialized")
	errReviewNotFound = errors.New("review not found")
)

// VM hosts the review program on a ledger and exposes it over JSON-RPC.
type VM struct {
	config    Config
	programID solana.PublicKey
	program   *reviewvm.Program
	runtime   *host.Runtime
	log       log.Logger
}

// Initialize this vm
// [cfg] holds the program id, variant and rent schedule
// [db] is the database backing the ledger
// [genesisBytes] is the JSON genesis applied to an empty ledger
func (vm *VM) Initialize(cfg Config, db database.Database, genesisBytes []byte, logger log.Logger) error {
	if logger == nil {
		logger = log.New("vm", Name)
	}
	vm.log = logger

	programID, variant, err := cfg.Validate()
	if err != nil {
		vm.log.Error("invalid configuration", "err", err)
		return err
	}
	genesis, err := host.ParseGenesis(genesisBytes)
	if err != nil {
		vm.log.Error("invalid genesis", "err", err)
		return err
	}
	vm.log.Info("Initializing Review VM", "Version", Version, "programID", programID, "variant", variant)

	vm.config = cfg
	vm.programID = programID
	vm.program = reviewvm.New(variant)
	vm.runtime = host.New(db, host.Config{
		Rent:             cfg.rent(),
		AccountCacheSize: cfg.AccountCacheSize,
		MaxAirdrop:       cfg.FaucetLamports,
	}, vm.log.New("module", "host"))

	if err := vm.runtime.Register(programID, vm.program); err != nil {
		return err
	}
	if err := vm.runtime.Initialize(genesis); err != nil {
		return fmt.Errorf("error applying genesis: %w", err)
	}
	return nil
}

// CreateHandlers returns a map where:
// Keys: The path extension for this VM's API (empty in this case)
// Values: The handler for the API
func (vm *VM) CreateHandlers() (map[string]http.Handler, error) {
	if vm.runtime == nil {
		return nil, errNotInitialized
	}
	handler, err := newRPCHandler(&Service{vm: vm})
	return map[string]http.Handler{
		"": handler,
	}, err
}

// CreateStaticHandlers returns the handlers of the API that needs no
// ledger: building and parsing instruction bytes.
func (vm *VM) CreateStaticHandlers() (map[string]http.Handler, error) {
	handler, err := newRPCHandler(CreateStaticService())
	return map[string]http.Handler{
		"": handler,
	}, err
}

func newRPCHandler(service interface{}) (http.Handler, error) {
	server := rpc.NewServer()
	codec := cjson.NewCodec()
	server.RegisterCodec(codec, "application/json")
	server.RegisterCodec(codec, "application/json;charset=UTF-8")
	return server, server.RegisterService(service, Name)
}

// ProgramID returns the id the review program is registered at.
func (vm *VM) ProgramID() solana.PublicKey { return vm.programID }

// Variant returns the deployed program variant.
func (vm *VM) Variant() reviewvm.Variant { return vm.program.Variant() }

// IssueTx executes [tx]. See host.Runtime.Execute.
func (vm *VM) IssueTx(tx *host.Transaction) (*host.Receipt, error) {
	if vm.runtime == nil {
		return nil, errNotInitialized
	}
	return vm.runtime.Execute(tx)
}

// GetReview returns [reviewer]'s review of [title] and the address of its
// slot.
func (vm *VM) GetReview(reviewer solana.PublicKey, title string) (*reviewvm.Record, solana.PublicKey, error) {
	if vm.runtime == nil {
		return nil, solana.PublicKey{}, errNotInitialized
	}
	addr, _, err := reviewvm.FindAddress(vm.programID, reviewer, title)
	if err != nil {
		return nil, solana.PublicKey{}, err
	}
	acc, err := vm.runtime.Account(addr)
	if err != nil {
		return nil, addr, err
	}
	if !acc.Owner.Equals(vm.programID) {
		return nil, addr, fmt.Errorf("%w: %s", errReviewNotFound, addr)
	}
	record, err := reviewvm.UnmarshalRecord(acc.Data)
	if err != nil {
		return nil, addr, err
	}
	if !record.IsInitialized() {
		return nil, addr, fmt.Errorf("%w: %s", errReviewNotFound, addr)
	}
	return record, addr, nil
}

// Runtime exposes the ledger runtime.
func (vm *VM) Runtime() *host.Runtime { return vm.runtime }

// Shutdown closes the ledger.
func (vm *VM) Shutdown() error {
	if vm.runtime == nil {
		return nil
	}
	return vm.runtime.Close()
}
