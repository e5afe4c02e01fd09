// Package account defines the account id type shared by the token ledger,
// the market engine, and the chain database.
package account

import (
	"crypto/ecdsa"
	"errors"

	"github.com/ethereum/go-ethereum/crypto"
)

// ID represents an account address that owns balances, orders, and stakes.
type ID string

// ToID converts a hex-encoded string to an account id and validates the
// hex-encoded string is formatted correctly.
func ToID(hex string) (ID, error) {
	id := ID(hex)
	if !id.IsValid() {
		return "", errors.New("invalid account format")
	}

	return id, nil
}

// PublicKeyToID converts the public key to an account id.
func PublicKeyToID(pk ecdsa.PublicKey) ID {
	return ID(crypto.PubkeyToAddress(pk).String())
}

// IsValid verifies whether the underlying data represents a valid
// hex-encoded account.
func (id ID) IsValid() bool {
	const addressLength = 20

	a := id
	if has0xPrefix(a) {
		a = a[2:]
	}

	return len(a) == 2*addressLength && isHex(a)
}

// =============================================================================

// has0xPrefix validates the account starts with a 0x.
func has0xPrefix(id ID) bool {
	return len(id) >= 2 && id[0] == '0' && (id[1] == 'x' || id[1] == 'X')
}

// isHex validates whether each byte is a valid hexadecimal character.
func isHex(id ID) bool {
	if len(id)%2 != 0 {
		return false
	}

	for _, c := range []byte(id) {
		if !isHexCharacter(c) {
			return false
		}
	}

	return true
}

// isHexCharacter returns bool of c being a valid hexadecimal.
func isHexCharacter(c byte) bool {
	return ('0' <= c && c <= '9') || ('a' <= c && c <= 'f') || ('A' <= c && c <= 'F')
}
