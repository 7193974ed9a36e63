package transaction

import (
	"errors"
	"fmt"

	"github.com/stellar/go/keypair"
	"github.com/stellar/go/xdr"

	"github.com/daccred/txbuild.attest.so/fault"
)

// ErrNoSignature is returned by Verify when no signature of the given
// account is attached.
var ErrNoSignature = errors.New("no valid signature for account")

// Signer produces signatures. *keypair.Full implements it.
type Signer interface {
	Sign(message []byte) ([]byte, error)
	Hint() [4]byte
}

// Signature is a signature plus the last four bytes of the signer's public
// key, which lets the network find the key without trying them all.
type Signature struct {
	Hint      [4]byte
	Signature []byte
}

func newSignature(hint [4]byte, raw []byte) Signature {
	return Signature{Hint: hint, Signature: append([]byte(nil), raw...)}
}

// Envelope is a transaction and the signatures collected for it. Signatures
// are only ever appended. An Envelope must not be signed from several
// goroutines at once.
type Envelope struct {
	tx         *Transaction
	signatures []Signature
}

func (e *Envelope) Transaction() *Transaction { return e.tx }

// Signatures returns the signatures in the order they were added.
func (e *Envelope) Signatures() []Signature {
	out := make([]Signature, 0, len(e.signatures))
	for _, sig := range e.signatures {
		out = append(out, newSignature(sig.Hint, sig.Signature))
	}
	return out
}

// Sign signs the transaction hash for network n and appends the signature.
func (e *Envelope) Sign(signer Signer, n Network) error {
	hash, err := e.tx.Hash(n)
	if err != nil {
		return err
	}
	raw, err := signer.Sign(hash[:])
	if err != nil {
		return fmt.Errorf("failed to sign transaction: %w", err)
	}
	e.signatures = append(e.signatures, newSignature(signer.Hint(), raw))
	return nil
}

// Verify reports whether one of the attached signatures was made by address
// for network n.
func (e *Envelope) Verify(address string, n Network) error {
	kp, err := keypair.ParseAddress(address)
	if err != nil {
		return fmt.Errorf("failed to parse signer address: %w", err)
	}
	hash, err := e.tx.Hash(n)
	if err != nil {
		return err
	}
	hint := kp.Hint()
	for _, sig := range e.signatures {
		if sig.Hint != hint {
			continue
		}
		if kp.Verify(hash[:], sig.Signature) == nil {
			return nil
		}
	}
	return ErrNoSignature
}

// ToXDR returns the wire envelope.
func (e *Envelope) ToXDR() (xdr.TransactionEnvelope, error) {
	tx, err := e.tx.ToXDR()
	if err != nil {
		return xdr.TransactionEnvelope{}, err
	}
	sigs := make([]xdr.DecoratedSignature, 0, len(e.signatures))
	for _, sig := range e.signatures {
		sigs = append(sigs, xdr.DecoratedSignature{
			Hint:      xdr.SignatureHint(sig.Hint),
			Signature: xdr.Signature(append([]byte(nil), sig.Signature...)),
		})
	}
	return xdr.TransactionEnvelope{
		Type: xdr.EnvelopeTypeEnvelopeTypeTx,
		V1:   &xdr.TransactionV1Envelope{Tx: tx, Signatures: sigs},
	}, nil
}

// EnvelopeFromXDR converts a wire envelope. Only ENVELOPE_TYPE_TX envelopes
// are accepted.
func EnvelopeFromXDR(x xdr.TransactionEnvelope) (*Envelope, error) {
	if x.Type != xdr.EnvelopeTypeEnvelopeTypeTx {
		return nil, fault.Codec("decode envelope", fmt.Errorf("unsupported envelope type %s", x.Type))
	}
	if x.V1 == nil {
		return nil, fault.Codec("decode envelope", errors.New("missing v1 arm"))
	}
	tx, err := FromXDR(x.V1.Tx)
	if err != nil {
		return nil, err
	}
	e := &Envelope{tx: tx}
	for _, sig := range x.V1.Signatures {
		e.signatures = append(e.signatures, newSignature(sig.Hint, sig.Signature))
	}
	return e, nil
}

// MarshalBinary returns the XDR bytes of the envelope.
func (e *Envelope) MarshalBinary() ([]byte, error) {
	x, err := e.ToXDR()
	if err != nil {
		return nil, err
	}
	raw, err := x.MarshalBinary()
	if err != nil {
		return nil, fault.Codec("encode envelope", err)
	}
	return raw, nil
}

// MarshalBase64 returns the envelope in its text transport form.
func (e *Envelope) MarshalBase64() (string, error) {
	x, err := e.ToXDR()
	if err != nil {
		return "", err
	}
	s, err := xdr.MarshalBase64(x)
	if err != nil {
		return "", fault.Codec("encode envelope", err)
	}
	return s, nil
}

// ParseEnvelope decodes XDR bytes.
func ParseEnvelope(raw []byte) (*Envelope, error) {
	var x xdr.TransactionEnvelope
	if err := xdr.SafeUnmarshal(raw, &x); err != nil {
		return nil, fault.Codec("decode envelope", err)
	}
	return EnvelopeFromXDR(x)
}

// ParseEnvelopeBase64 decodes the text transport form.
func ParseEnvelopeBase64(s string) (*Envelope, error) {
	var x xdr.TransactionEnvelope
	if err := xdr.SafeUnmarshalBase64(s, &x); err != nil {
		return nil, fault.Codec("decode envelope", err)
	}
	return EnvelopeFromXDR(x)
}
