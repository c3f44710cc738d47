package model

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestInstructionRecordJSONRoundTrip(t *testing.T) {
	original := InstructionRecord{
		Seq:    3,
		Op:     KindInitialize,
		Signer: "9xQeWvG816bUx9EPjHmaT23yvVM2ZWbrrpZb9PusVFin",
		Accounts: map[string]string{
			"token_a": "4k3Dyjzvzp8eMZWUXbBCjEvwSkkk59S5iCNLY3QrkX6R",
			"token_b": "7xKXtg2CW87d97TXJSDpbD5jBkheTqA83TZRuJosgAsU",
		},
		Fees: &FeeSchedule{
			TradeFeeNumerator:           5,
			TradeFeeDenominator:         100,
			OwnerTradeFeeNumerator:      2,
			OwnerTradeFeeDenominator:    100,
			OwnerWithdrawFeeNumerator:   1,
			OwnerWithdrawFeeDenominator: 100,
		},
	}

	b, err := json.Marshal(original)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var decoded InstructionRecord
	if err := json.Unmarshal(b, &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	if !reflect.DeepEqual(original, decoded) {
		t.Fatalf("round-trip mismatch: %+v != %+v", original, decoded)
	}
	if decoded.Account("token_b") != original.Accounts["token_b"] {
		t.Fatalf("account lookup failed")
	}
	if decoded.Account("missing") != "" {
		t.Fatalf("missing role should be empty")
	}
}
