package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"solanaSniper/internal/model"
)

// Default subscription targets, used when none are configured.
var (
	DefaultPrograms = []string{
		"EKpQGSJtjMFqKZ9KQanSqYXRcF8fBopzLHYxdM65zcjm", // WIF
		"DezXAZ8z7PnrnRJjz3wXBoRgixCa6xjnB7YaB1pPB263", // BONK
		"HJ39rRZ6ys22KdB3USxDgNsL7RKiQmsC3yL8AS3Suuku", // UPDOG
	}
	DefaultAccounts     = []string{"FJRZ5sTp27n6GhUVqgVkY4JGUJPjhRPnWtH4du5UhKbw"}
	DefaultLogsMentions = []string{"srmqPvymJeFKQ4zGQed1GFppgkRHL9kaELCbyksJtPX"} // Raydium
)

// Config holds configuration values for the run command, loaded from
// flags, env, or config file.
type Config struct {
	WSURL              string
	RPCURL             string
	QueueCapacity      int
	Programs           []string
	Accounts           []string
	LogsMentions       []string
	Subscriptions      []model.Target
	Commitment         string
	HandshakeTimeout   time.Duration
	RPCTimeout         time.Duration
	Out                string
	AccountsOut        string
	PGDSN              string
	RedisAddr          string
	RedisChannelPrefix string
	MaxRetries         int
	RetryBackoff       time.Duration
	MetricsAddr        string
	LogLevel           string
}

// HasTargets reports whether any subscription target was configured.
func (c Config) HasTargets() bool {
	return len(c.Subscriptions) > 0 || len(c.Programs) > 0 || len(c.Accounts) > 0 || len(c.LogsMentions) > 0
}

// Load merges config file, environment variables, and flags into Config.
func Load(cfgFile string, flags *pflag.FlagSet) (Config, error) {
	v, err := newViper(cfgFile, flags)
	if err != nil {
		return Config{}, err
	}

	v.SetDefault("queue-capacity", 5000)
	v.SetDefault("commitment", "finalized")
	v.SetDefault("handshake-timeout", 10*time.Second)
	v.SetDefault("rpc-timeout", 30*time.Second)
	v.SetDefault("out", "./data/transactions.jsonl")
	v.SetDefault("accounts-out", "./data/accounts.jsonl")
	v.SetDefault("redis-channel-prefix", "sniper")
	v.SetDefault("max-retries", 3)
	v.SetDefault("retry-backoff", 200*time.Millisecond)
	v.SetDefault("log-level", "info")

	var subscriptions []model.Target
	if v.IsSet("subscriptions") {
		if err := v.UnmarshalKey("subscriptions", &subscriptions); err != nil {
			return Config{}, fmt.Errorf("parse subscriptions: %w", err)
		}
	}

	cfg := Config{
		WSURL:              v.GetString("ws-url"),
		RPCURL:             v.GetString("rpc-url"),
		QueueCapacity:      v.GetInt("queue-capacity"),
		Programs:           getStringSlice(v, "program"),
		Accounts:           getStringSlice(v, "account"),
		LogsMentions:       getStringSlice(v, "logs-mention"),
		Subscriptions:      subscriptions,
		Commitment:         v.GetString("commitment"),
		HandshakeTimeout:   v.GetDuration("handshake-timeout"),
		RPCTimeout:         v.GetDuration("rpc-timeout"),
		Out:                v.GetString("out"),
		AccountsOut:        v.GetString("accounts-out"),
		PGDSN:              v.GetString("pg-dsn"),
		RedisAddr:          v.GetString("redis-addr"),
		RedisChannelPrefix: v.GetString("redis-channel-prefix"),
		MaxRetries:         v.GetInt("max-retries"),
		RetryBackoff:       v.GetDuration("retry-backoff"),
		MetricsAddr:        v.GetString("metrics-addr"),
		LogLevel:           v.GetString("log-level"),
	}

	if !cfg.HasTargets() {
		cfg.Programs = append([]string(nil), DefaultPrograms...)
		cfg.Accounts = append([]string(nil), DefaultAccounts...)
		cfg.LogsMentions = append([]string(nil), DefaultLogsMentions...)
	}

	return cfg, nil
}

// newViper binds env and flags and reads the optional config file.
func newViper(cfgFile string, flags *pflag.FlagSet) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix("SNIPER")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	// Names used by earlier deployments.
	legacyEnv := map[string]string{
		"ws-url":  "PRIVATE_SOLANA_QUICKNODE_WS",
		"rpc-url": "PRIVATE_SOLANA_QUICKNODE_HTTP",
		"pg-dsn":  "DATABASE_URL",
	}
	for key, legacy := range legacyEnv {
		envKey := "SNIPER_" + strings.ToUpper(strings.ReplaceAll(key, "-", "_"))
		if err := v.BindEnv(key, envKey, legacy); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", key, err)
		}
	}

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return nil, fmt.Errorf("bind flags: %w", err)
		}
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	return v, nil
}

func getStringSlice(v *viper.Viper, key string) []string {
	if !v.IsSet(key) {
		return nil
	}

	val := v.Get(key)
	switch typed := val.(type) {
	case []string:
		return cleanStrings(typed)
	case string:
		return splitAndClean(typed)
	case []interface{}:
		items := make([]string, 0, len(typed))
		for _, item := range typed {
			items = append(items, fmt.Sprintf("%v", item))
		}
		return cleanStrings(items)
	default:
		return nil
	}
}

func splitAndClean(input string) []string {
	if input == "" {
		return nil
	}
	parts := strings.Split(input, ",")
	return cleanStrings(parts)
}

func cleanStrings(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		out = append(out, item)
	}
	return out
}
