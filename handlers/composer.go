package handlers

import (
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"

	"github.com/daccred/txbuild.attest.so/fault"
	"github.com/daccred/txbuild.attest.so/models"
	"github.com/daccred/txbuild.attest.so/operations"
	"github.com/daccred/txbuild.attest.so/transaction"
	"github.com/daccred/txbuild.attest.so/types"
)

// ErrNoSigner is returned when a request asks for a signature but no signing
// seed is configured.
var ErrNoSigner = errors.New("no signing seed configured")

// Compose turns a request into an envelope, signed when the request asks
// for it.
func (r *Recorder) Compose(req models.ComposeRequest) (*transaction.Envelope, error) {
	if req.Sign && r.signer == nil {
		return nil, ErrNoSigner
	}

	source, err := types.ParseAccount(req.SourceAccount)
	if err != nil {
		return nil, err
	}
	baseFee := req.BaseFee
	if baseFee == 0 {
		baseFee = r.config.BaseFee
	}
	builder := transaction.NewBuilder().
		WithSourceAccount(source).
		WithSequence(req.Sequence).
		WithBaseFee(baseFee)
	if req.Fee != 0 {
		builder = builder.WithFee(req.Fee)
	}
	if req.Memo != nil {
		memo, err := buildMemo(*req.Memo)
		if err != nil {
			return nil, err
		}
		builder = builder.WithMemo(memo)
	}
	if req.TimeBounds != nil {
		builder = builder.WithTimeBounds(types.TimeBounds{MinTime: req.TimeBounds.MinTime, MaxTime: req.TimeBounds.MaxTime})
	}
	for index, opReq := range req.Operations {
		op, err := buildOperation(opReq)
		if err != nil {
			return nil, fmt.Errorf("operation %d: %w", index, err)
		}
		builder = builder.AddOperation(op)
	}

	tx, err := builder.IntoTransaction()
	if err != nil {
		return nil, err
	}
	env := tx.ToEnvelope()
	if req.Sign {
		if err := env.Sign(r.signer, r.network); err != nil {
			return nil, err
		}
	}
	return env, nil
}

func buildOperation(req models.OperationRequest) (operations.Operation, error) {
	var source types.Account
	if req.SourceAccount != "" {
		var err error
		if source, err = types.ParseAccount(req.SourceAccount); err != nil {
			return nil, err
		}
	}

	switch req.Type {
	case "change_trust":
		b := operations.NewChangeTrust().WithSourceAccount(source)
		if req.Asset != nil {
			asset, err := buildAsset(*req.Asset)
			if err != nil {
				return nil, err
			}
			b = b.WithAsset(asset)
		}
		if req.Limit != nil {
			b = b.WithLimitAmount(*req.Limit)
		}
		return b.Build()
	case "inflation":
		return operations.NewInflation().WithSourceAccount(source).Build()
	case "create_account":
		b := operations.NewCreateAccount().WithSourceAccount(source)
		if req.Destination != "" {
			dest, err := types.ParseAccount(req.Destination)
			if err != nil {
				return nil, err
			}
			b = b.WithDestination(dest)
		}
		if req.StartingBalance != "" {
			b = b.WithStartingBalanceAmount(req.StartingBalance)
		}
		return b.Build()
	case "payment":
		b := operations.NewPayment().WithSourceAccount(source)
		if req.Destination != "" {
			dest, err := types.ParseAccount(req.Destination)
			if err != nil {
				return nil, err
			}
			b = b.WithDestination(dest)
		}
		if req.Asset != nil {
			asset, err := buildAsset(*req.Asset)
			if err != nil {
				return nil, err
			}
			b = b.WithAsset(asset)
		}
		if req.Amount != "" {
			b = b.WithAmountString(req.Amount)
		}
		return b.Build()
	case "account_merge":
		b := operations.NewAccountMerge().WithSourceAccount(source)
		if req.Destination != "" {
			dest, err := types.ParseAccount(req.Destination)
			if err != nil {
				return nil, err
			}
			b = b.WithDestination(dest)
		}
		return b.Build()
	case "manage_data":
		b := operations.NewManageData().WithSourceAccount(source).WithName(req.Name)
		if req.Value != nil {
			value, err := base64.StdEncoding.DecodeString(*req.Value)
			if err != nil {
				return nil, fault.Convert("value", *req.Value, err)
			}
			b = b.WithValue(value)
		}
		return b.Build()
	case "bump_sequence":
		b := operations.NewBumpSequence().WithSourceAccount(source)
		if req.BumpTo != nil {
			b = b.WithBumpTo(*req.BumpTo)
		}
		return b.Build()
	}
	return nil, fault.Invalid("operation", "type", fmt.Sprintf("%q is not supported", req.Type))
}

// buildAsset returns the native asset for an empty code.
func buildAsset(req models.AssetRequest) (types.Asset, error) {
	if req.Code == "" {
		return types.NativeAsset(), nil
	}
	issuer, err := types.ParseAccount(req.Issuer)
	if err != nil {
		return types.Asset{}, err
	}
	return types.NewCreditAsset(req.Code, issuer)
}

func buildMemo(req models.MemoRequest) (types.Memo, error) {
	switch req.Type {
	case "", "none":
		return types.NoMemo(), nil
	case "text":
		return types.TextMemo(req.Value)
	case "id":
		id, err := strconv.ParseUint(req.Value, 10, 64)
		if err != nil {
			return types.Memo{}, fault.Convert("memo", req.Value, err)
		}
		return types.IDMemo(id), nil
	case "hash", "return":
		raw, err := hex.DecodeString(req.Value)
		if err != nil {
			return types.Memo{}, fault.Convert("memo", req.Value, err)
		}
		if len(raw) != 32 {
			return types.Memo{}, fault.Convert("memo", req.Value, errors.New("hash must be 32 bytes"))
		}
		var hash [32]byte
		copy(hash[:], raw)
		if req.Type == "hash" {
			return types.HashMemo(hash), nil
		}
		return types.ReturnHashMemo(hash), nil
	}
	return types.Memo{}, fault.Invalid("memo", "type", fmt.Sprintf("%q is not supported", req.Type))
}
