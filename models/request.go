package models

// AssetRequest names a credit asset. An empty code means the native asset.
type AssetRequest struct {
	Code   string `json:"code"`
	Issuer string `json:"issuer"`
}

// OperationRequest is the JSON form of one operation. Which fields are read
// depends on Type.
type OperationRequest struct {
	Type            string        `json:"type" binding:"required"`
	SourceAccount   string        `json:"source_account,omitempty"`
	Asset           *AssetRequest `json:"asset,omitempty"`
	Limit           *string       `json:"limit,omitempty"`
	Destination     string        `json:"destination,omitempty"`
	Amount          string        `json:"amount,omitempty"`
	StartingBalance string        `json:"starting_balance,omitempty"`
	Name            string        `json:"name,omitempty"`
	Value           *string       `json:"value,omitempty"`
	BumpTo          *int64        `json:"bump_to,omitempty"`
}

type MemoRequest struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

type TimeBoundsRequest struct {
	MinTime uint64 `json:"min_time"`
	MaxTime uint64 `json:"max_time"`
}

type ComposeRequest struct {
	SourceAccount string             `json:"source_account" binding:"required"`
	Sequence      int64              `json:"sequence"`
	BaseFee       uint32             `json:"base_fee,omitempty"`
	Fee           uint32             `json:"fee,omitempty"`
	Memo          *MemoRequest       `json:"memo,omitempty"`
	TimeBounds    *TimeBoundsRequest `json:"time_bounds,omitempty"`
	Operations    []OperationRequest `json:"operations"`
	Sign          bool               `json:"sign"`
}

type DecodeRequest struct {
	Envelope string `json:"envelope" binding:"required"`
}
