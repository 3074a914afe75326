// Copyright (C) 2019-2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/ava-labs/avalanchego/database/memdb"
	"github.com/spf13/viper"

	log "github.com/inconshreveable/log15"

	"github.com/ava-labs/reviewvm/vm"
)

const shutdownTimeout = 5 * time.Second

func main() {
	v, err := getViper()
	if err != nil {
		fmt.Printf("couldn't get config: %s\n", err)
		os.Exit(1)
	}
	// Print version and exit
	if v.GetBool(versionKey) {
		fmt.Printf("%s@%s\n", vm.Name, vm.Version)
		os.Exit(0)
	}

	logger, err := getLogger(v)
	if err != nil {
		fmt.Printf("couldn't build logger: %s\n", err)
		os.Exit(1)
	}
	if err := run(v, logger); err != nil {
		logger.Crit("node stopped", "err", err)
		os.Exit(1)
	}
}

func run(v *viper.Viper, logger log.Logger) error {
	cfg, err := getConfig(v)
	if err != nil {
		return err
	}
	genesis, err := getGenesis(v)
	if err != nil {
		return fmt.Errorf("couldn't read genesis: %w", err)
	}

	reviewVM := &vm.VM{}
	if err := reviewVM.Initialize(cfg, memdb.New(), genesis, logger); err != nil {
		return err
	}
	defer shutdown(reviewVM, logger)

	handlers, err := reviewVM.CreateHandlers()
	if err != nil {
		return err
	}
	staticHandlers, err := reviewVM.CreateStaticHandlers()
	if err != nil {
		return err
	}
	mux := http.NewServeMux()
	mux.Handle("/rpc", handlers[""])
	mux.Handle("/rpc/static", staticHandlers[""])

	addr := net.JoinHostPort(v.GetString(httpHostKey), strconv.FormatUint(uint64(v.GetUint(httpPortKey)), 10))
	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("API server listening", "addr", addr, "programID", reviewVM.ProgramID())
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// shutdown closes [reviewVM], logging a failure since nothing can act on it.
func shutdown(reviewVM *vm.VM, logger log.Logger) {
	if err := reviewVM.Shutdown(); err != nil {
		logger.Error("error shutting down the ledger", "err", err)
	}
}
