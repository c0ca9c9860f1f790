package clarity

import (
	"encoding/hex"
	"errors"
	"math/big"
	"testing"
)

func TestSerializeKnownEncodings(t *testing.T) {
	tests := []struct {
		name  string
		value Value
		want  string
	}{
		{"uint 1", UInt(1), "0100000000000000000000000000000001"},
		{"uint 25000000", UInt(25_000_000), "01000000000000000000000000017d7840"},
		{"int -1", Int(-1), "00ffffffffffffffffffffffffffffffff"},
		{"true", BoolValue(true), "03"},
		{"false", BoolValue(false), "04"},
		{"none", OptionalValue{}, "09"},
		{"some u0", OptionalValue{Value: UInt(0)}, "0a0100000000000000000000000000000000"},
		{"ok true", ResponseValue{Ok: true, Value: BoolValue(true)}, "0703"},
		{"err u102", ResponseValue{Ok: false, Value: UInt(102)}, "080100000000000000000000000000000066"},
		{"buffer", BufferValue{0xde, 0xad}, "0200000002dead"},
		{"ascii", StringASCIIValue("hi"), "0d000000026869"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Serialize(tt.value)
			if err != nil {
				t.Fatalf("Serialize failed: %v", err)
			}
			if hex.EncodeToString(got) != tt.want {
				t.Errorf("Serialize = %x, want %s", got, tt.want)
			}
		})
	}
}

func TestTupleKeysSorted(t *testing.T) {
	tuple := TupleValue{"b": UInt(2), "a": BoolValue(true)}
	got, err := Serialize(tuple)
	if err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}
	// 0c, count 2, "a" true, "b" u2
	want := "0c00000002" + "0161" + "03" + "0162" + "0100000000000000000000000000000002"
	if hex.EncodeToString(got) != want {
		t.Errorf("Serialize = %x, want %s", got, want)
	}
}

func TestDeserializeCampaignTuple(t *testing.T) {
	original := ResponseValue{Ok: true, Value: TupleValue{
		"start":       UInt(100),
		"end":         UInt(1000),
		"goal":        UInt(15000),
		"totalStx":    UInt(25_000_000),
		"isCancelled": BoolValue(false),
		"name":        StringUTF8Value("Muralverse"),
		"donors":      ListValue{UInt(1), UInt(2)},
	}}

	encoded, err := ToHex(original)
	if err != nil {
		t.Fatalf("ToHex failed: %v", err)
	}

	decoded, err := FromHex(encoded)
	if err != nil {
		t.Fatalf("FromHex failed: %v", err)
	}
	if decoded.String() != original.String() {
		t.Errorf("round trip mismatch:\n got %s\nwant %s", decoded.String(), original.String())
	}

	resp, ok := decoded.(ResponseValue)
	if !ok || !resp.Ok {
		t.Fatalf("expected ok response, got %s", decoded.String())
	}
	tuple := resp.Value.(TupleValue)
	end, err := AsUint64(tuple["end"])
	if err != nil || end != 1000 {
		t.Errorf("expected end 1000, got %d (%v)", end, err)
	}
	cancelled, err := AsBool(tuple["isCancelled"])
	if err != nil || cancelled {
		t.Errorf("expected isCancelled false, got %v (%v)", cancelled, err)
	}
}

func TestPrincipalRoundTrip(t *testing.T) {
	for _, id := range []string{
		"SP2J6ZY48GV1EZ5V2V5RB9MP66SW86PYKKNRV9EJ7",
		"SP2J6ZY48GV1EZ5V2V5RB9MP66SW86PYKKNRV9EJ7.fundraising",
	} {
		v, err := Principal(id)
		if err != nil {
			t.Fatalf("Principal(%q) failed: %v", id, err)
		}
		b, err := Serialize(v)
		if err != nil {
			t.Fatalf("Serialize failed: %v", err)
		}
		back, err := Deserialize(b)
		if err != nil {
			t.Fatalf("Deserialize failed: %v", err)
		}
		if back.String() != "'"+id {
			t.Errorf("expected '%s, got %s", id, back.String())
		}
	}
}

func TestDeserializeErrors(t *testing.T) {
	tests := map[string]string{
		"empty":          "",
		"truncated uint": "0100",
		"unknown type":   "ff",
		"trailing bytes": "0303",
		"bad list len":   "0bffffffff",
	}
	for name, in := range tests {
		b, _ := hex.DecodeString(in)
		if _, err := Deserialize(b); !errors.Is(err, ErrMalformed) {
			t.Errorf("%s: expected ErrMalformed, got %v", name, err)
		}
	}
}

func TestSerializeRejectsOutOfRange(t *testing.T) {
	tooBig := new(big.Int).Lsh(big.NewInt(1), 128)
	if _, err := Serialize(UIntValue{Value: tooBig}); err == nil {
		t.Error("expected error for uint overflow")
	}
	if _, err := Serialize(UIntValue{Value: big.NewInt(-1)}); err == nil {
		t.Error("expected error for negative uint")
	}
	if _, err := Serialize(StringASCIIValue("café")); err == nil {
		t.Error("expected error for non-ascii string-ascii")
	}
}

func TestAsUint64(t *testing.T) {
	if _, err := AsUint64(BoolValue(true)); err == nil {
		t.Error("expected type error")
	}
	huge := UIntValue{Value: new(big.Int).Lsh(big.NewInt(1), 70)}
	if _, err := AsUint64(huge); err == nil {
		t.Error("expected overflow error")
	}
	got, err := AsUint64(UInt(42))
	if err != nil || got != 42 {
		t.Errorf("expected 42, got %d (%v)", got, err)
	}
}
