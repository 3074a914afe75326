// Copyright (C) 2019-2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package host

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"math/bits"
	"strings"
	"sync"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/ids"
	"github.com/gagliardetto/solana-go"

	log "github.com/inconshreveable/log15"

	"github.com/ava-labs/reviewvm/program"
)

var (
	errDuplicateTx        = errors.New("transaction already executed")
	errProgramRegistered  = errors.New("program already registered")
	errReservedProgramID  = errors.New("program id is reserved")
	errAirdropTooLarge    = errors.New("airdrop exceeds faucet limit")
	errAirdropTarget      = errors.New("airdrops only fund system accounts")
	errBalanceOverflow    = errors.New("balance overflow")
	errGenesisMismatch    = errors.New("ledger was built from another genesis")
	errReadonlyModified   = fmt.Errorf("%w: read-only account modified", program.ErrInvalidArgument)
	errExecutableModified = fmt.Errorf("%w: executable account modified", program.ErrInvalidArgument)
	errExternalModified   = fmt.Errorf("%w: account not owned by the program modified", program.ErrInvalidAccountData)
	errUnbalanced         = fmt.Errorf("%w: lamports not conserved", program.ErrInvalidArgument)
)

// Config tunes the runtime.
type Config struct {
	Rent             Rent
	AccountCacheSize int
	// MaxAirdrop caps a single faucet credit. Zero disables the cap.
	MaxAirdrop uint64
}

// Runtime executes transactions against the ledger. Invocations are
// serialized: one transaction runs to completion before the next starts.
type Runtime struct {
	lock sync.Mutex

	state      State
	rent       Rent
	maxAirdrop uint64
	programs   map[solana.PublicKey]program.Entrypoint
	log        log.Logger
}

// New returns a runtime storing its ledger in [db].
func New(db database.Database, cfg Config, logger log.Logger) *Runtime {
	if logger == nil {
		logger = log.New("module", "host")
	}
	return &Runtime{
		state:      NewState(db, cfg.AccountCacheSize),
		rent:       cfg.Rent,
		maxAirdrop: cfg.MaxAirdrop,
		programs:   make(map[solana.PublicKey]program.Entrypoint),
		log:        logger,
	}
}

// Register makes [entry] invocable at [programID].
func (r *Runtime) Register(programID solana.PublicKey, entry program.Entrypoint) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	if programID.Equals(solana.SystemProgramID) {
		return errReservedProgramID
	}
	if _, ok := r.programs[programID]; ok {
		return fmt.Errorf("%w: %s", errProgramRegistered, programID)
	}
	r.programs[programID] = entry
	r.log.Info("program registered", "programID", programID)
	return nil
}

// Initialize applies [genesis] to an empty ledger. A ledger built from a
// different genesis is rejected.
func (r *Runtime) Initialize(genesis *Genesis) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	if err := genesis.Verify(); err != nil {
		return err
	}
	genesisID, err := genesis.ID()
	if err != nil {
		return err
	}
	appliedID, applied, err := r.state.GenesisID()
	if err != nil {
		return err
	}
	if applied {
		if appliedID != genesisID {
			return fmt.Errorf("%w: ledger has %s, got %s", errGenesisMismatch, appliedID, genesisID)
		}
		r.log.Info("ledger already initialized", "genesisID", genesisID)
		return nil
	}

	for _, alloc := range genesis.Allocations {
		acc := newEmptyAccount()
		acc.Lamports = alloc.Lamports
		if err := r.state.PutAccount(alloc.Address, acc); err != nil {
			r.state.Abort()
			return fmt.Errorf("couldn't fund %s: %w", alloc.Address, err)
		}
	}
	if err := r.state.SetGenesisID(genesisID); err != nil {
		r.state.Abort()
		return fmt.Errorf("error while recording genesis: %w", err)
	}
	if err := r.state.Commit(); err != nil {
		r.state.Abort()
		return err
	}
	r.log.Info("genesis applied", "genesisID", genesisID, "allocations", len(genesis.Allocations))
	return nil
}

type loadedAccount struct {
	info   *program.AccountInfo
	pre    *Account
	exists bool
}

// Execute runs [tx]. A transaction that reached its program always yields
// a receipt; a non-nil error alongside it is the program failure, and no
// account change was committed. Transactions rejected before invocation
// return only an error.
func (r *Runtime) Execute(tx *Transaction) (*Receipt, error) {
	r.lock.Lock()
	defer r.lock.Unlock()

	txID, err := tx.ID()
	if err != nil {
		return nil, err
	}
	if seen, err := r.state.HasReceipt(txID); err != nil {
		return nil, err
	} else if seen {
		return nil, fmt.Errorf("%w: %s", errDuplicateTx, txID)
	}

	signed, err := tx.verifiedSigners()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", program.ErrMissingRequiredSignature, err)
	}

	ix := tx.Instruction
	entry, ok := r.programs[ix.ProgramID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", program.ErrIncorrectProgramID, ix.ProgramID)
	}

	loaded, accounts, err := r.loadAccounts(ix.Accounts, signed)
	if err != nil {
		return nil, err
	}

	logs := []string{}
	inv := &invocation{
		programID: ix.ProgramID,
		rent:      r.rent,
		log:       r.programLogger(txID, &logs),
		allocated: make(map[solana.PublicKey]bool),
	}

	execErr := invoke(entry, inv, ix, accounts)
	if execErr == nil {
		execErr = verifyInvocation(ix.ProgramID, loaded, inv.allocated)
	}
	if execErr == nil {
		if err := r.writeAccounts(loaded); err != nil {
			r.state.Abort()
			return nil, err
		}
	} else {
		logs = append(logs, fmt.Sprintf("invocation failed: %v", execErr))
	}

	receipt := &Receipt{
		TxID: txID,
		Code: program.CodeOf(execErr),
		Logs: logs,
	}
	if execErr != nil {
		receipt.Error = execErr.Error()
	}
	if err := r.state.PutReceipt(receipt); err != nil {
		r.state.Abort()
		return nil, err
	}
	if err := r.state.Commit(); err != nil {
		r.state.Abort()
		return nil, err
	}
	r.log.Debug("transaction executed", "txID", txID, "code", receipt.Code)
	return receipt, execErr
}

func (r *Runtime) loadAccounts(metas []program.AccountMeta, signed map[solana.PublicKey]bool) (map[solana.PublicKey]*loadedAccount, program.Accounts, error) {
	loaded := make(map[solana.PublicKey]*loadedAccount, len(metas))
	accounts := make(program.Accounts, 0, len(metas))
	for _, meta := range metas {
		if la, ok := loaded[meta.Key]; ok {
			la.info.IsWritable = la.info.IsWritable || meta.IsWritable
			la.info.IsSigner = la.info.IsSigner || (meta.IsSigner && signed[meta.Key])
			accounts = append(accounts, la.info)
			continue
		}

		acc, exists, err := r.state.GetAccount(meta.Key)
		if err != nil {
			return nil, nil, err
		}
		_, isProgram := r.programs[meta.Key]
		if isProgram || meta.Key.Equals(solana.SystemProgramID) {
			acc.Executable = true
		}
		info := &program.AccountInfo{
			Key:        meta.Key,
			IsSigner:   meta.IsSigner && signed[meta.Key],
			IsWritable: meta.IsWritable,
			Lamports:   acc.Lamports,
			Owner:      acc.Owner,
			Executable: acc.Executable,
			Data:       append([]byte(nil), acc.Data...),
		}
		loaded[meta.Key] = &loadedAccount{info: info, pre: acc, exists: exists}
		accounts = append(accounts, info)
	}
	return loaded, accounts, nil
}

func invoke(entry program.Entrypoint, inv *invocation, ix program.Instruction, accounts program.Accounts) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("%w: program panicked: %v", program.ErrInvalidArgument, rec)
		}
	}()
	return entry.Process(inv, ix.ProgramID, accounts, ix.Data)
}

// verifyInvocation enforces what a program may do to the accounts it was
// given: only writable accounts change, only accounts it owns (or that the
// allocator touched) lose lamports or change data and owner, and the total
// balance is conserved.
func verifyInvocation(programID solana.PublicKey, loaded map[solana.PublicKey]*loadedAccount, allocated map[solana.PublicKey]bool) error {
	var (
		preTotal, postTotal uint64
		carry               uint64
	)
	for key, la := range loaded {
		info, pre := la.info, la.pre
		dataChanged := !bytes.Equal(pre.Data, info.Data)
		ownerChanged := !pre.Owner.Equals(info.Owner)
		debited := info.Lamports < pre.Lamports
		changed := dataChanged || ownerChanged || info.Lamports != pre.Lamports

		if changed && !info.IsWritable {
			return fmt.Errorf("%w: %s", errReadonlyModified, key)
		}
		if changed && info.Executable {
			return fmt.Errorf("%w: %s", errExecutableModified, key)
		}
		mayWrite := pre.Owner.Equals(programID) || allocated[key]
		if (dataChanged || ownerChanged || debited) && !mayWrite {
			return fmt.Errorf("%w: %s", errExternalModified, key)
		}

		var c uint64
		preTotal, c = bits.Add64(preTotal, pre.Lamports, 0)
		carry |= c
		postTotal, c = bits.Add64(postTotal, info.Lamports, 0)
		carry |= c
	}
	if carry != 0 || preTotal != postTotal {
		return fmt.Errorf("%w: before %d, after %d", errUnbalanced, preTotal, postTotal)
	}
	return nil
}

func (r *Runtime) writeAccounts(loaded map[solana.PublicKey]*loadedAccount) error {
	for key, la := range loaded {
		info, pre := la.info, la.pre
		if !info.IsWritable {
			continue
		}
		if info.Lamports == pre.Lamports && info.Owner.Equals(pre.Owner) && bytes.Equal(info.Data, pre.Data) {
			continue
		}
		// Accounts drained to zero are reclaimed.
		if info.Lamports == 0 {
			if !la.exists {
				continue
			}
			if err := r.state.DeleteAccount(key); err != nil {
				return err
			}
			continue
		}
		err := r.state.PutAccount(key, &Account{
			Owner:    info.Owner,
			Lamports: info.Lamports,
			Data:     info.Data,
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// programLogger returns the logger handed to an invocation. Every record is
// captured into [logs] and forwarded to the runtime's handler.
func (r *Runtime) programLogger(txID ids.ID, logs *[]string) log.Logger {
	forward := r.log.GetHandler()
	logger := log.New()
	logger.SetHandler(log.FuncHandler(func(rec *log.Record) error {
		*logs = append(*logs, formatLogLine(rec))
		rec.Ctx = append(rec.Ctx, "txID", txID)
		return forward.Log(rec)
	}))
	return logger
}

func formatLogLine(rec *log.Record) string {
	var b strings.Builder
	b.WriteString(rec.Msg)
	for i := 0; i+1 < len(rec.Ctx); i += 2 {
		fmt.Fprintf(&b, " %v=%v", rec.Ctx[i], rec.Ctx[i+1])
	}
	return b.String()
}

// Account returns the committed account at [key].
func (r *Runtime) Account(key solana.PublicKey) (*Account, error) {
	r.lock.Lock()
	defer r.lock.Unlock()

	acc, _, err := r.state.GetAccount(key)
	return acc, err
}

// Receipt returns the receipt of transaction [txID].
func (r *Runtime) Receipt(txID ids.ID) (*Receipt, error) {
	r.lock.Lock()
	defer r.lock.Unlock()

	return r.state.GetReceipt(txID)
}

// Rent returns the runtime's rent schedule.
func (r *Runtime) Rent() Rent { return r.rent }

// Airdrop credits [lamports] to the system account [key] and returns its
// new balance.
func (r *Runtime) Airdrop(key solana.PublicKey, lamports uint64) (uint64, error) {
	if r.maxAirdrop != 0 && lamports > r.maxAirdrop {
		return 0, fmt.Errorf("%w: %d > %d", errAirdropTooLarge, lamports, r.maxAirdrop)
	}

	r.lock.Lock()
	defer r.lock.Unlock()

	acc, _, err := r.state.GetAccount(key)
	if err != nil {
		return 0, err
	}
	if !acc.Owner.Equals(solana.SystemProgramID) {
		return 0, fmt.Errorf("%w: %s is owned by %s", errAirdropTarget, key, acc.Owner)
	}
	if acc.Lamports > math.MaxUint64-lamports {
		return 0, errBalanceOverflow
	}
	acc.Lamports += lamports
	if err := r.state.PutAccount(key, acc); err != nil {
		r.state.Abort()
		return 0, err
	}
	if err := r.state.Commit(); err != nil {
		r.state.Abort()
		return 0, err
	}
	r.log.Debug("airdrop", "address", key, "lamports", lamports, "balance", acc.Lamports)
	return acc.Lamports, nil
}

// Close closes the ledger.
func (r *Runtime) Close() error {
	r.lock.Lock()
	defer r.lock.Unlock()

	return r.state.Close()
}
