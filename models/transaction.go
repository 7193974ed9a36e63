package models

import (
	"time"
)

type Transaction struct {
	Hash           string      `json:"hash"`
	SourceAccount  string      `json:"source_account"`
	Sequence       int64       `json:"sequence"`
	Fee            uint32      `json:"fee"`
	OperationCount int32       `json:"operation_count"`
	MemoType       string      `json:"memo_type,omitempty"`
	MemoValue      string      `json:"memo_value,omitempty"`
	MinTime        uint64      `json:"min_time,omitempty"`
	MaxTime        uint64      `json:"max_time,omitempty"`
	Network        string      `json:"network"`
	EnvelopeXDR    string      `json:"envelope_xdr"`
	SignatureCount int         `json:"signature_count"`
	CreatedAt      time.Time   `json:"created_at"`
	Operations     []Operation `json:"operations,omitempty"`
}
