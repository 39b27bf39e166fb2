package nonceaudit

import (
	"fmt"
	"math/big"

	"github.com/mahdiidarabi/ecdsa-secp256k1/pkg/ecdsa"
)

// Record is a signature together with the digest it was made over. It is
// the unit the auditor works on.
type Record struct {
	Z *big.Int // message digest, SHA-256 of the message mod n
	R *big.Int
	S *big.Int
}

// NewRecord builds a record from a message and its signature.
func NewRecord(message []byte, sig *ecdsa.Signature) *Record {
	return &Record{
		Z: ecdsa.HashMessage(message),
		R: new(big.Int).Set(sig.R),
		S: new(big.Int).Set(sig.S),
	}
}

func (r *Record) validate() error {
	switch {
	case r == nil:
		return fmt.Errorf("record is nil")
	case r.Z == nil:
		return fmt.Errorf("record is missing z")
	case r.R == nil:
		return fmt.Errorf("record is missing r")
	case r.S == nil:
		return fmt.Errorf("record is missing s")
	}
	return nil
}

// AffineRelationship describes nonces related by k2 = a·k1 + b.
type AffineRelationship struct {
	A *big.Int
	B *big.Int
}

// String returns the relationship as an equation.
func (r AffineRelationship) String() string {
	return fmt.Sprintf("k2 = %v·k1 + %v", r.A, r.B)
}

// Finding is a private key recovered from a pair of records.
type Finding struct {
	PrivateKey   *big.Int           // recovered scalar d
	Relationship AffineRelationship // nonce relation that exposed d
	RecordPair   [2]int             // indices of the records used
	Pattern      string             // name of the matching pattern
	MatchesKey   bool               // d matches the public key given to Scan
}
