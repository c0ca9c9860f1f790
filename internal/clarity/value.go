// Package clarity models Clarity values and their consensus (SIP-005) wire
// encoding, as used in contract-call arguments and read-only call results.
package clarity

import (
	"fmt"
	"math/big"
	"sort"
	"strings"

	"stacks-crowdfund-go/internal/c32"
)

// Type is the one-byte type prefix of a serialized Clarity value.
type Type byte

const (
	TypeInt               Type = 0x00
	TypeUInt              Type = 0x01
	TypeBuffer            Type = 0x02
	TypeTrue              Type = 0x03
	TypeFalse             Type = 0x04
	TypeStandardPrincipal Type = 0x05
	TypeContractPrincipal Type = 0x06
	TypeResponseOk        Type = 0x07
	TypeResponseErr       Type = 0x08
	TypeOptionalNone      Type = 0x09
	TypeOptionalSome      Type = 0x0a
	TypeList              Type = 0x0b
	TypeTuple             Type = 0x0c
	TypeStringASCII       Type = 0x0d
	TypeStringUTF8        Type = 0x0e
)

// Value is any Clarity value.
type Value interface {
	Type() Type
	String() string
}

var (
	maxUint128 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 128), big.NewInt(1))
	minInt128  = new(big.Int).Neg(new(big.Int).Lsh(big.NewInt(1), 127))
	maxInt128  = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 127), big.NewInt(1))
)

// UIntValue is a 128-bit unsigned integer.
type UIntValue struct {
	Value *big.Int
}

// UInt wraps a uint64 as a Clarity uint.
func UInt(v uint64) UIntValue {
	return UIntValue{Value: new(big.Int).SetUint64(v)}
}

func (UIntValue) Type() Type       { return TypeUInt }
func (v UIntValue) String() string { return "u" + v.Value.String() }

// IntValue is a 128-bit signed integer.
type IntValue struct {
	Value *big.Int
}

// Int wraps an int64 as a Clarity int.
func Int(v int64) IntValue {
	return IntValue{Value: big.NewInt(v)}
}

func (IntValue) Type() Type       { return TypeInt }
func (v IntValue) String() string { return v.Value.String() }

type BoolValue bool

func (v BoolValue) Type() Type {
	if v {
		return TypeTrue
	}
	return TypeFalse
}

func (v BoolValue) String() string {
	if v {
		return "true"
	}
	return "false"
}

type BufferValue []byte

func (BufferValue) Type() Type       { return TypeBuffer }
func (v BufferValue) String() string { return fmt.Sprintf("0x%x", []byte(v)) }

// StandardPrincipalValue is an account principal.
type StandardPrincipalValue struct {
	Version byte
	Hash160 [20]byte
}

func (StandardPrincipalValue) Type() Type { return TypeStandardPrincipal }

func (v StandardPrincipalValue) String() string {
	addr, err := c32.EncodeAddress(v.Version, v.Hash160)
	if err != nil {
		return fmt.Sprintf("<invalid principal %x>", v.Hash160)
	}
	return "'" + addr
}

// Address returns the c32 address without the Clarity quote prefix.
func (v StandardPrincipalValue) Address() string {
	return strings.TrimPrefix(v.String(), "'")
}

// ContractPrincipalValue is a contract identifier "ADDRESS.name".
type ContractPrincipalValue struct {
	Version byte
	Hash160 [20]byte
	Name    string
}

func (ContractPrincipalValue) Type() Type { return TypeContractPrincipal }

func (v ContractPrincipalValue) String() string {
	return StandardPrincipalValue{Version: v.Version, Hash160: v.Hash160}.String() + "." + v.Name
}

// Principal parses either "ADDRESS" or "ADDRESS.contract-name".
func Principal(s string) (Value, error) {
	addr, name, isContract := strings.Cut(s, ".")
	version, hash, err := c32.DecodeAddress(addr)
	if err != nil {
		return nil, err
	}
	if !isContract {
		return StandardPrincipalValue{Version: version, Hash160: hash}, nil
	}
	if name == "" || len(name) > 128 {
		return nil, fmt.Errorf("invalid contract name %q", name)
	}
	return ContractPrincipalValue{Version: version, Hash160: hash, Name: name}, nil
}

// ResponseValue is (ok v) or (err v).
type ResponseValue struct {
	Ok    bool
	Value Value
}

func (v ResponseValue) Type() Type {
	if v.Ok {
		return TypeResponseOk
	}
	return TypeResponseErr
}

func (v ResponseValue) String() string {
	if v.Ok {
		return "(ok " + v.Value.String() + ")"
	}
	return "(err " + v.Value.String() + ")"
}

// OptionalValue is (some v), or none when Value is nil.
type OptionalValue struct {
	Value Value
}

func (v OptionalValue) Type() Type {
	if v.Value == nil {
		return TypeOptionalNone
	}
	return TypeOptionalSome
}

func (v OptionalValue) String() string {
	if v.Value == nil {
		return "none"
	}
	return "(some " + v.Value.String() + ")"
}

type ListValue []Value

func (ListValue) Type() Type { return TypeList }

func (v ListValue) String() string {
	parts := make([]string, len(v))
	for i, item := range v {
		parts[i] = item.String()
	}
	return "(list " + strings.Join(parts, " ") + ")"
}

// TupleValue serializes its keys in lexicographic order.
type TupleValue map[string]Value

func (TupleValue) Type() Type { return TypeTuple }

func (v TupleValue) String() string {
	keys := v.Keys()
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = "(" + k + " " + v[k].String() + ")"
	}
	return "(tuple " + strings.Join(parts, " ") + ")"
}

// Keys returns the tuple keys sorted.
func (v TupleValue) Keys() []string {
	keys := make([]string, 0, len(v))
	for k := range v {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

type StringASCIIValue string

func (StringASCIIValue) Type() Type       { return TypeStringASCII }
func (v StringASCIIValue) String() string { return fmt.Sprintf("%q", string(v)) }

type StringUTF8Value string

func (StringUTF8Value) Type() Type       { return TypeStringUTF8 }
func (v StringUTF8Value) String() string { return "u" + fmt.Sprintf("%q", string(v)) }

// AsUint64 extracts a uint that fits in 64 bits.
func AsUint64(v Value) (uint64, error) {
	u, ok := v.(UIntValue)
	if !ok {
		return 0, fmt.Errorf("expected uint, got type 0x%02x", byte(v.Type()))
	}
	if !u.Value.IsUint64() {
		return 0, fmt.Errorf("uint %s overflows 64 bits", u.Value.String())
	}
	return u.Value.Uint64(), nil
}

// AsBool extracts a bool.
func AsBool(v Value) (bool, error) {
	b, ok := v.(BoolValue)
	if !ok {
		return false, fmt.Errorf("expected bool, got type 0x%02x", byte(v.Type()))
	}
	return bool(b), nil
}
