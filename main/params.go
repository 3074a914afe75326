// (c) 2019-2020, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	log "github.com/inconshreveable/log15"

	"github.com/ava-labs/reviewvm/vm"
)

const (
	versionKey     = "version"
	configFileKey  = "config-file"
	httpHostKey    = "http-host"
	httpPortKey    = "http-port"
	logLevelKey    = "log-level"
	logFormatKey   = "log-format"
	genesisFileKey = "genesis-file"

	programIDKey               = "program-id"
	variantKey                 = "variant"
	rentLamportsPerByteYearKey = "rent-lamports-per-byte-year"
	rentExemptionThresholdKey  = "rent-exemption-threshold"
	accountCacheSizeKey        = "account-cache-size"
	faucetLamportsKey          = "faucet-lamports"

	envPrefix = "REVIEWVM"
)

func buildFlagSet() *flag.FlagSet {
	fs := flag.NewFlagSet(vm.Name, flag.ContinueOnError)
	defaults := vm.DefaultConfig()

	fs.Bool(versionKey, false, "If true, prints the version and quits")
	fs.String(configFileKey, "", "Path to a config file (json, yaml or toml)")
	fs.String(httpHostKey, "127.0.0.1", "Address the API server listens on")
	fs.Uint(httpPortKey, 9650, "Port the API server listens on")
	fs.String(logLevelKey, "info", "Log level (crit, error, warn, info, debug)")
	fs.String(logFormatKey, "terminal", "Log format (terminal, logfmt, json)")
	fs.String(genesisFileKey, "", "Path to the JSON genesis applied to an empty ledger")

	fs.String(programIDKey, vm.DefaultProgramID.String(), "Base58 id the review program is registered at")
	fs.String(variantKey, defaults.Variant, "Program variant (full, basic)")
	fs.Uint64(rentLamportsPerByteYearKey, defaults.RentLamportsPerByteYear, "Rent charged per byte-year")
	fs.Float64(rentExemptionThresholdKey, defaults.RentExemptionThreshold, "Years of rent an account must hold to be exempt")
	fs.Int(accountCacheSizeKey, defaults.AccountCacheSize, "Number of accounts kept in the ledger cache")
	fs.Uint64(faucetLamportsKey, defaults.FaucetLamports, "Largest single airdrop, 0 for no limit")

	return fs
}

// getViper returns the viper environment for the node binary
func getViper() (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	fs := buildFlagSet()
	pflag.CommandLine.AddGoFlagSet(fs)
	pflag.Parse()
	if err := v.BindPFlags(pflag.CommandLine); err != nil {
		return nil, err
	}

	if configFile := v.GetString(configFileKey); configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("couldn't read config file %q: %w", configFile, err)
		}
	}
	return v, nil
}

func getConfig(v *viper.Viper) (vm.Config, error) {
	cfg := vm.DefaultConfig()
	if err := v.Unmarshal(&cfg); err != nil {
		return vm.Config{}, err
	}
	_, _, err := cfg.Validate()
	return cfg, err
}

func getLogger(v *viper.Viper) (log.Logger, error) {
	lvl, err := log.LvlFromString(v.GetString(logLevelKey))
	if err != nil {
		return nil, err
	}

	var format log.Format
	switch f := v.GetString(logFormatKey); f {
	case "terminal":
		format = log.TerminalFormat()
	case "logfmt":
		format = log.LogfmtFormat()
	case "json":
		format = log.JsonFormat()
	default:
		return nil, fmt.Errorf("unknown log format %q", f)
	}

	logger := log.New("vm", vm.Name)
	logger.SetHandler(log.LvlFilterHandler(lvl, log.StreamHandler(os.Stderr, format)))
	return logger, nil
}

func getGenesis(v *viper.Viper) ([]byte, error) {
	path := v.GetString(genesisFileKey)
	if path == "" {
		return nil, nil
	}
	return os.ReadFile(path)
}
