package config

import (
	"time"

	"github.com/spf13/pflag"
)

// FetchConfig holds configuration for the fetch command.
type FetchConfig struct {
	RPCURL     string
	Signatures []string
	RPCTimeout time.Duration
	Out        string
	PGDSN      string
	LogLevel   string
}

// LoadFetch merges config file, environment variables, and flags into FetchConfig.
func LoadFetch(cfgFile string, flags *pflag.FlagSet) (FetchConfig, error) {
	v, err := newViper(cfgFile, flags)
	if err != nil {
		return FetchConfig{}, err
	}

	v.SetDefault("rpc-timeout", 30*time.Second)
	v.SetDefault("log-level", "info")

	return FetchConfig{
		RPCURL:     v.GetString("rpc-url"),
		Signatures: getStringSlice(v, "signature"),
		RPCTimeout: v.GetDuration("rpc-timeout"),
		Out:        v.GetString("out"),
		PGDSN:      v.GetString("pg-dsn"),
		LogLevel:   v.GetString("log-level"),
	}, nil
}
