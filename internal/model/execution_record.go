package model

// ExecutionRecord is one line of a replay output file.
type ExecutionRecord struct {
	Seq        uint64 `json:"seq"`
	Op         string `json:"op"`
	Pool       string `json:"pool,omitempty"`
	Event      *Event `json:"event,omitempty"`
	ExecutedAt string `json:"executed_at"`
}

// ExecError records a failed replay line.
type ExecError struct {
	Seq   uint64 `json:"seq"`
	Op    string `json:"op"`
	Code  uint32 `json:"code,omitempty"`
	Error string `json:"error"`
}

// PoolActivity summarizes executed instructions for one pool. Amounts are decimal strings
// scaled by the mint decimals.
type PoolActivity struct {
	Pool               string `json:"pool"`
	Swaps              uint64 `json:"swaps"`
	Deposits           uint64 `json:"deposits"`
	Withdrawals        uint64 `json:"withdrawals"`
	VolumeA            string `json:"volume_a"`
	VolumeB            string `json:"volume_b"`
	TradingFeeA        string `json:"trading_fee_a"`
	TradingFeeB        string `json:"trading_fee_b"`
	OwnerFeeA          string `json:"owner_fee_a"`
	OwnerFeeB          string `json:"owner_fee_b"`
	PoolTokensMinted   string `json:"pool_tokens_minted"`
	PoolTokensBurned   string `json:"pool_tokens_burned"`
	OwnerFeePoolTokens string `json:"owner_fee_pool_tokens"`
	WithdrawFees       string `json:"withdraw_fees"`
}
