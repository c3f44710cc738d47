package model

import (
	"encoding/json"
)

// Replay record operations that set up the token ledger.
const (
	OpCreateMint    = "create_mint"
	OpCreateAccount = "create_account"
	OpMintTo        = "mint_to"
)

// InstructionRecord is one line of a replay input file. Op is a ledger setup operation or
// one of the event kinds; Accounts maps role names to base58 addresses.
type InstructionRecord struct {
	Seq              uint64            `json:"seq"`
	Op               string            `json:"op"`
	Signer           string            `json:"signer,omitempty"`
	Accounts         map[string]string `json:"accounts,omitempty"`
	Amount           uint64            `json:"amount,omitempty"`
	MinPoolTokensOut uint64            `json:"min_pool_tokens_out,omitempty"`
	MaxTokenA        uint64            `json:"max_token_a,omitempty"`
	MaxTokenB        uint64            `json:"max_token_b,omitempty"`
	Decimals         uint8             `json:"decimals,omitempty"`
	Fees             *FeeSchedule      `json:"fees,omitempty"`
}

// MarshalJSON ensures InstructionRecord is encoded with stable field names.
func (r InstructionRecord) MarshalJSON() ([]byte, error) {
	type Alias InstructionRecord
	return json.Marshal(Alias(r))
}

// UnmarshalJSON decodes an InstructionRecord from JSON.
func (r *InstructionRecord) UnmarshalJSON(data []byte) error {
	type Alias InstructionRecord
	var a Alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*r = InstructionRecord(a)
	return nil
}

// Account returns the address bound to role, or "" when absent.
func (r InstructionRecord) Account(role string) string {
	if r.Accounts == nil {
		return ""
	}
	return r.Accounts[role]
}
