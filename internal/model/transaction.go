package model

import "encoding/json"

// TransactionRecord is a getTransaction result correlated with the
// signature that was requested.
type TransactionRecord struct {
	Signature   string          `json:"signature"`
	Slot        uint64          `json:"slot"`
	BlockTime   *int64          `json:"block_time,omitempty"`
	Meta        TransactionMeta `json:"meta"`
	Transaction TransactionBody `json:"transaction"`
	FetchedAt   string          `json:"fetched_at"`
}

// Failed reports whether the transaction was executed with an error.
func (r TransactionRecord) Failed() bool {
	return IsErrSet(r.Meta.Err)
}

type TransactionMeta struct {
	Err               json.RawMessage    `json:"err,omitempty"`
	Status            json.RawMessage    `json:"status,omitempty"`
	Fee               uint64             `json:"fee"`
	PreBalances       []uint64           `json:"pre_balances"`
	PostBalances      []uint64           `json:"post_balances"`
	PreTokenBalances  []TokenBalance     `json:"pre_token_balances"`
	PostTokenBalances []TokenBalance     `json:"post_token_balances"`
	InnerInstructions []InnerInstruction `json:"inner_instructions"`
	Rewards           []json.RawMessage  `json:"rewards,omitempty"`
	LogMessages       []string           `json:"log_messages,omitempty"`
}

type TokenBalance struct {
	AccountIndex   uint64   `json:"account_index"`
	Mint           string   `json:"mint"`
	Owner          string   `json:"owner,omitempty"`
	ProgramID      string   `json:"program_id,omitempty"`
	Amount         string   `json:"amount"`
	Decimals       uint8    `json:"decimals"`
	UIAmount       *float64 `json:"ui_amount,omitempty"`
	UIAmountString string   `json:"ui_amount_string"`
}

type InnerInstruction struct {
	Index        uint64            `json:"index"`
	Instructions []json.RawMessage `json:"instructions"`
}

type TransactionBody struct {
	Signatures []string           `json:"signatures"`
	Message    TransactionMessage `json:"message"`
}

type TransactionMessage struct {
	AccountKeys     []AccountKey      `json:"account_keys"`
	Instructions    []json.RawMessage `json:"instructions"`
	RecentBlockhash string            `json:"recent_blockhash"`
}

type AccountKey struct {
	Pubkey   string `json:"pubkey"`
	Signer   bool   `json:"signer"`
	Writable bool   `json:"writable"`
	Source   string `json:"source,omitempty"`
}

// IsErrSet reports whether a raw JSON err field holds a value other than null.
func IsErrSet(raw json.RawMessage) bool {
	if len(raw) == 0 {
		return false
	}
	return string(raw) != "null"
}
