package model

// TargetKind selects the subscribe method used for a Target.
type TargetKind string

const (
	TargetAccount TargetKind = "account"
	TargetProgram TargetKind = "program"
	TargetLogs    TargetKind = "logs"
)

// Method returns the PubSub subscribe method for the kind.
func (k TargetKind) Method() string {
	switch k {
	case TargetAccount:
		return "accountSubscribe"
	case TargetProgram:
		return "programSubscribe"
	case TargetLogs:
		return "logsSubscribe"
	default:
		return ""
	}
}

// Target is one subscription. Account and program targets carry a single
// address; logs targets carry the mentioned addresses.
type Target struct {
	Kind      TargetKind `json:"kind" mapstructure:"kind"`
	Addresses []string   `json:"addresses" mapstructure:"addresses"`
}

// SubscriptionRequest is the JSON-RPC frame sent for a Target.
type SubscriptionRequest struct {
	JSONRPC string        `json:"jsonrpc"`
	ID      uint64        `json:"id"`
	Method  string        `json:"method"`
	Params  []interface{} `json:"params"`
}

// SubscribeOptions is the options object appended to every subscribe call.
type SubscribeOptions struct {
	Encoding   string `json:"encoding"`
	Commitment string `json:"commitment"`
}

// LogsFilter is the first logsSubscribe parameter.
type LogsFilter struct {
	Mentions []string `json:"mentions"`
}
