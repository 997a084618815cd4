package feed

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
)

var ErrMalformedRecord = errors.New("malformed flashblock record")

//Flashblock is one record of the flashblocks stream
//Base is only present on the first flashblock of a block
type Flashblock struct {
	PayloadID string   `json:"payload_id"`
	Index     int      `json:"index"`
	Base      *Base    `json:"base,omitempty"`
	Diff      Diff     `json:"diff"`
	Metadata  Metadata `json:"metadata"`
}

type Base struct {
	ParentHash    string `json:"parent_hash"`
	FeeRecipient  string `json:"fee_recipient"`
	BlockNumber   string `json:"block_number"`
	GasLimit      string `json:"gas_limit"`
	Timestamp     string `json:"timestamp"`
	BaseFeePerGas string `json:"base_fee_per_gas"`
}

type Diff struct {
	StateRoot    string            `json:"state_root"`
	BlockHash    string            `json:"block_hash"`
	GasUsed      string            `json:"gas_used"`
	Transactions []string          `json:"transactions"`
	Withdrawals  []json.RawMessage `json:"withdrawals"`
}

type Metadata struct {
	BlockNumber        uint64                     `json:"block_number"`
	NewAccountBalances map[string]string          `json:"new_account_balances"`
	Receipts           map[string]json.RawMessage `json:"receipts"`
}

//Decode parses a single JSON record
func Decode(data []byte) (*Flashblock, error) {
	var raw struct {
		Flashblock
		Metadata *Metadata `json:"metadata"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedRecord, err)
	}
	if raw.Metadata == nil {
		return nil, fmt.Errorf("%w: missing metadata", ErrMalformedRecord)
	}
	fb := raw.Flashblock
	fb.Metadata = *raw.Metadata
	return &fb, nil
}

//ID identifies the record as <block>_<index>
func (fb *Flashblock) ID() string {
	return strconv.FormatUint(fb.Metadata.BlockNumber, 10) + "_" + strconv.Itoa(fb.Index)
}

//ReceiptIDs lists the transaction hashes that have a receipt in this record
func (fb *Flashblock) ReceiptIDs() []string {
	ids := make([]string, 0, len(fb.Metadata.Receipts))
	for id := range fb.Metadata.Receipts {
		ids = append(ids, id)
	}
	return ids
}
