package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"

	"solanaSniper/internal/model"
)

func runFlags() *pflag.FlagSet {
	flags := pflag.NewFlagSet("run", pflag.ContinueOnError)
	flags.String("ws-url", "", "")
	flags.String("rpc-url", "", "")
	flags.StringSlice("program", nil, "")
	flags.StringSlice("account", nil, "")
	flags.StringSlice("logs-mention", nil, "")
	flags.Int("queue-capacity", 5000, "")
	return flags
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("", runFlags())
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.QueueCapacity != 5000 {
		t.Fatalf("queue capacity: got %d", cfg.QueueCapacity)
	}
	if cfg.Commitment != "finalized" {
		t.Fatalf("commitment: got %q", cfg.Commitment)
	}
	if cfg.RPCTimeout != 30*time.Second || cfg.HandshakeTimeout != 10*time.Second {
		t.Fatalf("timeouts: rpc=%s handshake=%s", cfg.RPCTimeout, cfg.HandshakeTimeout)
	}
	if len(cfg.Programs) != 3 || len(cfg.Accounts) != 1 || len(cfg.LogsMentions) != 1 {
		t.Fatalf("default targets: %v %v %v", cfg.Programs, cfg.Accounts, cfg.LogsMentions)
	}
	if cfg.RedisChannelPrefix != "sniper" {
		t.Fatalf("redis prefix: got %q", cfg.RedisChannelPrefix)
	}
}

func TestLoadFlagsOverrideDefaultTargets(t *testing.T) {
	flags := runFlags()
	if err := flags.Parse([]string{"--account", "A1,A2", "--queue-capacity", "8"}); err != nil {
		t.Fatalf("parse: %v", err)
	}

	cfg, err := Load("", flags)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.QueueCapacity != 8 {
		t.Fatalf("queue capacity: got %d", cfg.QueueCapacity)
	}
	if len(cfg.Accounts) != 2 || cfg.Accounts[0] != "A1" || cfg.Accounts[1] != "A2" {
		t.Fatalf("accounts: %v", cfg.Accounts)
	}
	if len(cfg.Programs) != 0 || len(cfg.LogsMentions) != 0 {
		t.Fatalf("defaults should not apply: %v %v", cfg.Programs, cfg.LogsMentions)
	}
}

func TestLoadLegacyEnv(t *testing.T) {
	t.Setenv("PRIVATE_SOLANA_QUICKNODE_WS", "wss://legacy.example/ws")
	t.Setenv("PRIVATE_SOLANA_QUICKNODE_HTTP", "https://legacy.example/rpc")
	t.Setenv("DATABASE_URL", "postgres://legacy")

	cfg, err := Load("", runFlags())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.WSURL != "wss://legacy.example/ws" {
		t.Fatalf("ws url: got %q", cfg.WSURL)
	}
	if cfg.RPCURL != "https://legacy.example/rpc" {
		t.Fatalf("rpc url: got %q", cfg.RPCURL)
	}
	if cfg.PGDSN != "postgres://legacy" {
		t.Fatalf("pg dsn: got %q", cfg.PGDSN)
	}
}

func TestLoadPrefixedEnvWins(t *testing.T) {
	t.Setenv("SNIPER_WS_URL", "wss://new.example/ws")
	t.Setenv("PRIVATE_SOLANA_QUICKNODE_WS", "wss://legacy.example/ws")

	cfg, err := Load("", runFlags())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.WSURL != "wss://new.example/ws" {
		t.Fatalf("ws url: got %q", cfg.WSURL)
	}
}

func TestLoadSubscriptionsFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sniper.yaml")
	content := `ws-url: wss://file.example/ws
subscriptions:
  - kind: program
    addresses: [P1]
  - kind: logs
    addresses: [M1, M2]
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path, runFlags())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.WSURL != "wss://file.example/ws" {
		t.Fatalf("ws url: got %q", cfg.WSURL)
	}
	if len(cfg.Subscriptions) != 2 {
		t.Fatalf("subscriptions: %+v", cfg.Subscriptions)
	}
	if cfg.Subscriptions[0].Kind != model.TargetProgram || cfg.Subscriptions[0].Addresses[0] != "P1" {
		t.Fatalf("first subscription: %+v", cfg.Subscriptions[0])
	}
	if cfg.Subscriptions[1].Kind != model.TargetLogs || len(cfg.Subscriptions[1].Addresses) != 2 {
		t.Fatalf("second subscription: %+v", cfg.Subscriptions[1])
	}
	if len(cfg.Programs) != 0 {
		t.Fatalf("defaults should not apply with subscriptions: %v", cfg.Programs)
	}
}

func TestLoadMissingConfigFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), runFlags()); err == nil {
		t.Fatalf("expected error for missing config file")
	}
}

func TestLoadFetchSignatures(t *testing.T) {
	flags := pflag.NewFlagSet("fetch", pflag.ContinueOnError)
	flags.StringSlice("signature", nil, "")
	if err := flags.Parse([]string{"--signature", "S1,S2", "--signature", "S3"}); err != nil {
		t.Fatalf("parse: %v", err)
	}

	cfg, err := LoadFetch("", flags)
	if err != nil {
		t.Fatalf("load fetch: %v", err)
	}
	if len(cfg.Signatures) != 3 || cfg.Signatures[2] != "S3" {
		t.Fatalf("signatures: %v", cfg.Signatures)
	}
	if cfg.RPCTimeout != 30*time.Second {
		t.Fatalf("rpc timeout: got %s", cfg.RPCTimeout)
	}
}

func TestLoadDecodeDefaults(t *testing.T) {
	cfg, err := LoadDecode("", nil)
	if err != nil {
		t.Fatalf("load decode: %v", err)
	}
	if cfg.Out != "./data/events.jsonl" || cfg.Errors != "./data/decode_errors.jsonl" {
		t.Fatalf("decode defaults: %+v", cfg)
	}
}
