package ingest

import (
	"reflect"
	"testing"

	"solanaSniper/internal/model"
)

const (
	systemProgram = "11111111111111111111111111111111"
	tokenProgram  = "TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA"
	serumProgram  = "srmqPvymJeFKQ4zGQed1GFppgkRHL9kaELCbyksJtPX"
	wifMint       = "EKpQGSJtjMFqKZ9KQanSqYXRcF8fBopzLHYxdM65zcjm"
)

func TestBuildTargetsOrder(t *testing.T) {
	targets, err := BuildTargets(
		[]string{wifMint},
		[]string{" " + systemProgram + " ", "", tokenProgram},
		[]string{serumProgram},
	)
	if err != nil {
		t.Fatalf("build targets: %v", err)
	}

	want := []model.Target{
		{Kind: model.TargetProgram, Addresses: []string{wifMint}},
		{Kind: model.TargetAccount, Addresses: []string{systemProgram}},
		{Kind: model.TargetAccount, Addresses: []string{tokenProgram}},
		{Kind: model.TargetLogs, Addresses: []string{serumProgram}},
	}
	if !reflect.DeepEqual(targets, want) {
		t.Fatalf("unexpected targets: %+v", targets)
	}
}

func TestBuildTargetsRejectsInvalidAddress(t *testing.T) {
	if _, err := BuildTargets(nil, []string{"0xdeadbeef"}, nil); err == nil {
		t.Fatalf("expected error for hex address")
	}
	if _, err := BuildTargets(nil, nil, []string{"abc"}); err == nil {
		t.Fatalf("expected error for short address")
	}
}

func TestValidateTargets(t *testing.T) {
	targets, err := ValidateTargets([]model.Target{
		{Kind: "LOGS", Addresses: []string{serumProgram, tokenProgram}},
		{Kind: "account", Addresses: []string{systemProgram}},
	})
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if targets[0].Kind != model.TargetLogs || len(targets[0].Addresses) != 2 {
		t.Fatalf("unexpected first target: %+v", targets[0])
	}
	if targets[1].Kind != model.TargetAccount {
		t.Fatalf("unexpected second target: %+v", targets[1])
	}

	bad := [][]model.Target{
		{{Kind: "slot", Addresses: []string{systemProgram}}},
		{{Kind: "account", Addresses: nil}},
		{{Kind: "program", Addresses: []string{systemProgram, tokenProgram}}},
	}
	for _, targets := range bad {
		if _, err := ValidateTargets(targets); err == nil {
			t.Fatalf("expected error for %+v", targets)
		}
	}
}
