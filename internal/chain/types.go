package chain

import "encoding/json"

// Wire shapes of a jsonParsed getTransaction result.

// Slot and Transaction are required; meta may be null.
type transactionResult struct {
	Slot        *uint64          `json:"slot"`
	BlockTime   *int64           `json:"blockTime"`
	Meta        *transactionMeta `json:"meta"`
	Transaction *transaction     `json:"transaction"`
}

type transactionMeta struct {
	Err               json.RawMessage    `json:"err"`
	Fee               uint64             `json:"fee"`
	InnerInstructions []innerInstruction `json:"innerInstructions"`
	LogMessages       []string           `json:"logMessages"`
	PostBalances      []uint64           `json:"postBalances"`
	PostTokenBalances []tokenBalance     `json:"postTokenBalances"`
	PreBalances       []uint64           `json:"preBalances"`
	PreTokenBalances  []tokenBalance     `json:"preTokenBalances"`
	Rewards           []json.RawMessage  `json:"rewards"`
	Status            json.RawMessage    `json:"status"`
}

type innerInstruction struct {
	Index        uint64            `json:"index"`
	Instructions []json.RawMessage `json:"instructions"`
}

type tokenBalance struct {
	AccountIndex  uint64        `json:"accountIndex"`
	Mint          string        `json:"mint"`
	Owner         string        `json:"owner"`
	ProgramID     string        `json:"programId"`
	UITokenAmount uiTokenAmount `json:"uiTokenAmount"`
}

type uiTokenAmount struct {
	Amount         string   `json:"amount"`
	Decimals       uint8    `json:"decimals"`
	UIAmount       *float64 `json:"uiAmount"`
	UIAmountString string   `json:"uiAmountString"`
}

type transaction struct {
	Message    transactionMessage `json:"message"`
	Signatures []string           `json:"signatures"`
}

type transactionMessage struct {
	AccountKeys     []accountKey      `json:"accountKeys"`
	Instructions    []json.RawMessage `json:"instructions"`
	RecentBlockhash string            `json:"recentBlockhash"`
}

type accountKey struct {
	Pubkey   string `json:"pubkey"`
	Signer   bool   `json:"signer"`
	Writable bool   `json:"writable"`
	Source   string `json:"source"`
}

type transactionOptions struct {
	Encoding                       string `json:"encoding"`
	MaxSupportedTransactionVersion int    `json:"maxSupportedTransactionVersion"`
}
