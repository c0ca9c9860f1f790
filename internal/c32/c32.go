// Package c32 implements the Crockford base-32 "c32check" encoding used by
// Stacks addresses.
package c32

import (
	"bytes"
	"crypto/sha256"
	"errors"
	"fmt"
	"math/big"
	"strings"
)

const alphabet = "0123456789ABCDEFGHJKMNPQRSTVWXYZ"

// Address versions for single-sig P2PKH and multi-sig P2SH accounts.
const (
	VersionMainnetSingleSig byte = 22
	VersionMainnetMultiSig  byte = 20
	VersionTestnetSingleSig byte = 26
	VersionTestnetMultiSig  byte = 21
)

var (
	ErrInvalidAddress  = errors.New("invalid c32 address")
	ErrInvalidChecksum = errors.New("invalid c32 checksum")
)

var thirtyTwo = big.NewInt(32)

// Encode converts data into a c32 string. Each leading zero byte is kept as a
// leading '0' so the encoding round-trips.
func Encode(data []byte) string {
	zeros := 0
	for zeros < len(data) && data[zeros] == 0 {
		zeros++
	}

	n := new(big.Int).SetBytes(data)
	mod := new(big.Int)
	var digits []byte
	for n.Sign() > 0 {
		n.DivMod(n, thirtyTwo, mod)
		digits = append(digits, alphabet[mod.Int64()])
	}

	out := make([]byte, 0, zeros+len(digits))
	for i := 0; i < zeros; i++ {
		out = append(out, alphabet[0])
	}
	for i := len(digits) - 1; i >= 0; i-- {
		out = append(out, digits[i])
	}
	return string(out)
}

// Decode reverses Encode. Input is normalized first (upper case, O->0, L/I->1).
func Decode(s string) ([]byte, error) {
	s = normalize(s)

	zeros := 0
	for zeros < len(s) && s[zeros] == alphabet[0] {
		zeros++
	}

	n := new(big.Int)
	for i := zeros; i < len(s); i++ {
		idx := strings.IndexByte(alphabet, s[i])
		if idx < 0 {
			return nil, fmt.Errorf("%w: unexpected character %q", ErrInvalidAddress, s[i])
		}
		n.Mul(n, thirtyTwo)
		n.Add(n, big.NewInt(int64(idx)))
	}

	body := n.Bytes()
	out := make([]byte, zeros, zeros+len(body))
	return append(out, body...), nil
}

func normalize(s string) string {
	s = strings.ToUpper(s)
	s = strings.ReplaceAll(s, "O", "0")
	s = strings.ReplaceAll(s, "L", "1")
	s = strings.ReplaceAll(s, "I", "1")
	return s
}

func checksum(version byte, data []byte) []byte {
	first := sha256.Sum256(append([]byte{version}, data...))
	second := sha256.Sum256(first[:])
	return second[:4]
}

// EncodeAddress builds an "S"-prefixed address from a version byte and a
// 20-byte hash160.
func EncodeAddress(version byte, hash160 [20]byte) (string, error) {
	if int(version) >= len(alphabet) {
		return "", fmt.Errorf("%w: version %d out of range", ErrInvalidAddress, version)
	}
	payload := append(hash160[:], checksum(version, hash160[:])...)
	return "S" + string(alphabet[version]) + Encode(payload), nil
}

// DecodeAddress parses an "S"-prefixed address and verifies its checksum.
func DecodeAddress(address string) (byte, [20]byte, error) {
	var hash [20]byte
	if len(address) < 5 || address[0] != 'S' {
		return 0, hash, fmt.Errorf("%w: %q", ErrInvalidAddress, address)
	}

	version := strings.IndexByte(alphabet, normalize(address[1:2])[0])
	if version < 0 {
		return 0, hash, fmt.Errorf("%w: bad version character in %q", ErrInvalidAddress, address)
	}

	decoded, err := Decode(address[2:])
	if err != nil {
		return 0, hash, err
	}
	if len(decoded) != 24 {
		return 0, hash, fmt.Errorf("%w: expected 24 payload bytes, got %d", ErrInvalidAddress, len(decoded))
	}

	copy(hash[:], decoded[:20])
	if !bytes.Equal(checksum(byte(version), hash[:]), decoded[20:]) {
		return 0, hash, fmt.Errorf("%w: %s", ErrInvalidChecksum, address)
	}
	return byte(version), hash, nil
}
