package models

import "time"

type Stats struct {
	TransactionCount int64     `json:"transaction_count"`
	OperationCount   int64     `json:"operation_count"`
	SignatureCount   int64     `json:"signature_count"`
	DecodedCount     int64     `json:"decoded_count"`
	StartTime        time.Time `json:"start_time"`
	LastUpdateTime   time.Time `json:"last_update_time"`
	RecordRate       float64   `json:"record_rate"` // transactions per second
}
