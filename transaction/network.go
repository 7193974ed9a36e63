package transaction

import (
	"github.com/stellar/go/network"
)

// Network identifies the ledger a transaction is meant for. Signatures made
// for one network do not verify on another.
type Network struct {
	passphrase string
}

func NewNetwork(passphrase string) Network { return Network{passphrase: passphrase} }
func TestNetwork() Network                 { return NewNetwork(network.TestNetworkPassphrase) }
func PublicNetwork() Network               { return NewNetwork(network.PublicNetworkPassphrase) }

func (n Network) Passphrase() string { return n.passphrase }

// ID is the sha256 hash of the passphrase, the preamble of every signature
// payload.
func (n Network) ID() [32]byte { return network.ID(n.passphrase) }
