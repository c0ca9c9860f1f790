package clarity

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"unicode/utf8"
)

const maxDepth = 32

var ErrMalformed = errors.New("malformed clarity value")

// Serialize encodes v in the consensus wire format.
func Serialize(v Value) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeValue(&buf, v, 0); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ToHex serializes v and returns it 0x-prefixed, the form node read-only
// endpoints accept.
func ToHex(v Value) (string, error) {
	b, err := Serialize(v)
	if err != nil {
		return "", err
	}
	return "0x" + hex.EncodeToString(b), nil
}

// FromHex decodes a 0x-prefixed (or bare) hex string into a value.
func FromHex(s string) (Value, error) {
	b, err := hex.DecodeString(strings.TrimPrefix(s, "0x"))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return Deserialize(b)
}

func writeValue(buf *bytes.Buffer, v Value, depth int) error {
	if v == nil {
		return fmt.Errorf("cannot serialize nil value")
	}
	if depth > maxDepth {
		return fmt.Errorf("value nested deeper than %d", maxDepth)
	}
	buf.WriteByte(byte(v.Type()))

	switch val := v.(type) {
	case UIntValue:
		if val.Value == nil || val.Value.Sign() < 0 || val.Value.Cmp(maxUint128) > 0 {
			return fmt.Errorf("uint out of range")
		}
		writeInt128(buf, val.Value)
	case IntValue:
		if val.Value == nil || val.Value.Cmp(minInt128) < 0 || val.Value.Cmp(maxInt128) > 0 {
			return fmt.Errorf("int out of range")
		}
		writeInt128(buf, val.Value)
	case BoolValue:
	case BufferValue:
		writeUint32(buf, len(val))
		buf.Write(val)
	case StandardPrincipalValue:
		buf.WriteByte(val.Version)
		buf.Write(val.Hash160[:])
	case ContractPrincipalValue:
		buf.WriteByte(val.Version)
		buf.Write(val.Hash160[:])
		if len(val.Name) == 0 || len(val.Name) > 128 {
			return fmt.Errorf("invalid contract name length %d", len(val.Name))
		}
		buf.WriteByte(byte(len(val.Name)))
		buf.WriteString(val.Name)
	case ResponseValue:
		return writeValue(buf, val.Value, depth+1)
	case OptionalValue:
		if val.Value != nil {
			return writeValue(buf, val.Value, depth+1)
		}
	case ListValue:
		writeUint32(buf, len(val))
		for _, item := range val {
			if err := writeValue(buf, item, depth+1); err != nil {
				return err
			}
		}
	case TupleValue:
		writeUint32(buf, len(val))
		for _, key := range val.Keys() {
			if len(key) == 0 || len(key) > 128 {
				return fmt.Errorf("invalid tuple key %q", key)
			}
			buf.WriteByte(byte(len(key)))
			buf.WriteString(key)
			if err := writeValue(buf, val[key], depth+1); err != nil {
				return err
			}
		}
	case StringASCIIValue:
		for i := 0; i < len(val); i++ {
			if val[i] > 0x7f {
				return fmt.Errorf("non-ascii byte in string-ascii")
			}
		}
		writeUint32(buf, len(val))
		buf.WriteString(string(val))
	case StringUTF8Value:
		writeUint32(buf, len(val))
		buf.WriteString(string(val))
	default:
		return fmt.Errorf("unsupported clarity value %T", v)
	}
	return nil
}

func writeUint32(buf *bytes.Buffer, n int) {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], uint32(n))
	buf.Write(b[:])
}

// writeInt128 writes n as 16 big-endian bytes in two's complement.
func writeInt128(buf *bytes.Buffer, n *big.Int) {
	var b [16]byte
	x := n
	if n.Sign() < 0 {
		x = new(big.Int).Add(new(big.Int).Lsh(big.NewInt(1), 128), n)
	}
	x.FillBytes(b[:])
	buf.Write(b[:])
}

// Deserialize decodes exactly one value from b.
func Deserialize(b []byte) (Value, error) {
	d := &decoder{data: b}
	v, err := d.value(0)
	if err != nil {
		return nil, err
	}
	if d.pos != len(d.data) {
		return nil, fmt.Errorf("%w: %d trailing bytes", ErrMalformed, len(d.data)-d.pos)
	}
	return v, nil
}

type decoder struct {
	data []byte
	pos  int
}

func (d *decoder) take(n int) ([]byte, error) {
	if n < 0 || d.pos+n > len(d.data) {
		return nil, fmt.Errorf("%w: unexpected end of input at offset %d", ErrMalformed, d.pos)
	}
	out := d.data[d.pos : d.pos+n]
	d.pos += n
	return out, nil
}

func (d *decoder) readByte() (byte, error) {
	b, err := d.take(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (d *decoder) readLen() (int, error) {
	b, err := d.take(4)
	if err != nil {
		return 0, err
	}
	n := binary.BigEndian.Uint32(b)
	if int(n) > len(d.data) {
		return 0, fmt.Errorf("%w: length %d exceeds input", ErrMalformed, n)
	}
	return int(n), nil
}

func (d *decoder) name() (string, error) {
	n, err := d.readByte()
	if err != nil {
		return "", err
	}
	b, err := d.take(int(n))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (d *decoder) value(depth int) (Value, error) {
	if depth > maxDepth {
		return nil, fmt.Errorf("%w: nested deeper than %d", ErrMalformed, maxDepth)
	}
	t, err := d.readByte()
	if err != nil {
		return nil, err
	}

	switch Type(t) {
	case TypeInt, TypeUInt:
		b, err := d.take(16)
		if err != nil {
			return nil, err
		}
		n := new(big.Int).SetBytes(b)
		if Type(t) == TypeUInt {
			return UIntValue{Value: n}, nil
		}
		if b[0]&0x80 != 0 {
			n.Sub(n, new(big.Int).Lsh(big.NewInt(1), 128))
		}
		return IntValue{Value: n}, nil
	case TypeBuffer:
		n, err := d.readLen()
		if err != nil {
			return nil, err
		}
		b, err := d.take(n)
		if err != nil {
			return nil, err
		}
		return BufferValue(append([]byte(nil), b...)), nil
	case TypeTrue:
		return BoolValue(true), nil
	case TypeFalse:
		return BoolValue(false), nil
	case TypeStandardPrincipal, TypeContractPrincipal:
		version, err := d.readByte()
		if err != nil {
			return nil, err
		}
		b, err := d.take(20)
		if err != nil {
			return nil, err
		}
		var hash [20]byte
		copy(hash[:], b)
		if Type(t) == TypeStandardPrincipal {
			return StandardPrincipalValue{Version: version, Hash160: hash}, nil
		}
		name, err := d.name()
		if err != nil {
			return nil, err
		}
		return ContractPrincipalValue{Version: version, Hash160: hash, Name: name}, nil
	case TypeResponseOk, TypeResponseErr:
		inner, err := d.value(depth + 1)
		if err != nil {
			return nil, err
		}
		return ResponseValue{Ok: Type(t) == TypeResponseOk, Value: inner}, nil
	case TypeOptionalNone:
		return OptionalValue{}, nil
	case TypeOptionalSome:
		inner, err := d.value(depth + 1)
		if err != nil {
			return nil, err
		}
		return OptionalValue{Value: inner}, nil
	case TypeList:
		n, err := d.readLen()
		if err != nil {
			return nil, err
		}
		list := make(ListValue, 0, n)
		for i := 0; i < n; i++ {
			item, err := d.value(depth + 1)
			if err != nil {
				return nil, err
			}
			list = append(list, item)
		}
		return list, nil
	case TypeTuple:
		n, err := d.readLen()
		if err != nil {
			return nil, err
		}
		tuple := make(TupleValue, n)
		for i := 0; i < n; i++ {
			key, err := d.name()
			if err != nil {
				return nil, err
			}
			item, err := d.value(depth + 1)
			if err != nil {
				return nil, err
			}
			tuple[key] = item
		}
		return tuple, nil
	case TypeStringASCII, TypeStringUTF8:
		n, err := d.readLen()
		if err != nil {
			return nil, err
		}
		b, err := d.take(n)
		if err != nil {
			return nil, err
		}
		if Type(t) == TypeStringASCII {
			return StringASCIIValue(b), nil
		}
		if !utf8.Valid(b) {
			return nil, fmt.Errorf("%w: invalid utf-8 string", ErrMalformed)
		}
		return StringUTF8Value(b), nil
	default:
		return nil, fmt.Errorf("%w: unknown type prefix 0x%02x", ErrMalformed, t)
	}
}
