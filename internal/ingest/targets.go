package ingest

import (
	"fmt"
	"strings"

	"github.com/gagliardetto/solana-go"

	"solanaSniper/internal/model"
)

// ParseAddresses validates base58 public keys and returns them in
// canonical form. Blank entries are skipped.
func ParseAddresses(inputs []string) ([]string, error) {
	addresses := make([]string, 0, len(inputs))
	for _, input := range inputs {
		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		key, err := solana.PublicKeyFromBase58(input)
		if err != nil {
			return nil, fmt.Errorf("invalid address %s: %w", input, err)
		}
		addresses = append(addresses, key.String())
	}
	return addresses, nil
}

// BuildTargets turns flag-style address lists into targets: one target per
// program, one per account, and a single logs target for all mentions.
func BuildTargets(programs, accounts, mentions []string) ([]model.Target, error) {
	var targets []model.Target

	programKeys, err := ParseAddresses(programs)
	if err != nil {
		return nil, fmt.Errorf("program: %w", err)
	}
	for _, key := range programKeys {
		targets = append(targets, model.Target{Kind: model.TargetProgram, Addresses: []string{key}})
	}

	accountKeys, err := ParseAddresses(accounts)
	if err != nil {
		return nil, fmt.Errorf("account: %w", err)
	}
	for _, key := range accountKeys {
		targets = append(targets, model.Target{Kind: model.TargetAccount, Addresses: []string{key}})
	}

	mentionKeys, err := ParseAddresses(mentions)
	if err != nil {
		return nil, fmt.Errorf("logs mention: %w", err)
	}
	if len(mentionKeys) > 0 {
		targets = append(targets, model.Target{Kind: model.TargetLogs, Addresses: mentionKeys})
	}

	return targets, nil
}

// ValidateTargets checks targets read from a config file and normalizes
// their addresses. Order is preserved.
func ValidateTargets(targets []model.Target) ([]model.Target, error) {
	out := make([]model.Target, 0, len(targets))
	for i, target := range targets {
		kind := model.TargetKind(strings.ToLower(strings.TrimSpace(string(target.Kind))))
		if kind.Method() == "" {
			return nil, fmt.Errorf("target %d: unknown kind %q", i, target.Kind)
		}

		addresses, err := ParseAddresses(target.Addresses)
		if err != nil {
			return nil, fmt.Errorf("target %d: %w", i, err)
		}
		if len(addresses) == 0 {
			return nil, fmt.Errorf("target %d: at least one address is required", i)
		}
		if kind != model.TargetLogs && len(addresses) != 1 {
			return nil, fmt.Errorf("target %d: %s target takes exactly one address", i, kind)
		}

		out = append(out, model.Target{Kind: kind, Addresses: addresses})
	}
	return out, nil
}
