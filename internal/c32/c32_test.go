package c32

import (
	"bytes"
	"encoding/hex"
	"errors"
	"testing"
)

func mustHash(t *testing.T, s string) [20]byte {
	t.Helper()
	var h [20]byte
	b, err := hex.DecodeString(s)
	if err != nil {
		t.Fatalf("bad hex: %v", err)
	}
	copy(h[:], b)
	return h
}

func TestEncodeAddress(t *testing.T) {
	tests := []struct {
		version byte
		hash    string
		want    string
	}{
		{VersionMainnetSingleSig, "a46ff88886c2ef9762d970b4d2c63678835bd39d", "SP2J6ZY48GV1EZ5V2V5RB9MP66SW86PYKKNRV9EJ7"},
		{VersionTestnetSingleSig, "a46ff88886c2ef9762d970b4d2c63678835bd39d", "ST2J6ZY48GV1EZ5V2V5RB9MP66SW86PYKKQYAC0RQ"},
		{VersionMainnetSingleSig, "0000000000000000000000000000000000000000", "SP000000000000000000002Q6VF78"},
	}
	for _, tt := range tests {
		got, err := EncodeAddress(tt.version, mustHash(t, tt.hash))
		if err != nil {
			t.Fatalf("EncodeAddress(%d, %s) failed: %v", tt.version, tt.hash, err)
		}
		if got != tt.want {
			t.Errorf("EncodeAddress(%d, %s) = %s, want %s", tt.version, tt.hash, got, tt.want)
		}
	}
}

func TestDecodeAddress(t *testing.T) {
	version, hash, err := DecodeAddress("SP2J6ZY48GV1EZ5V2V5RB9MP66SW86PYKKNRV9EJ7")
	if err != nil {
		t.Fatalf("DecodeAddress failed: %v", err)
	}
	if version != VersionMainnetSingleSig {
		t.Errorf("expected version %d, got %d", VersionMainnetSingleSig, version)
	}
	if hex.EncodeToString(hash[:]) != "a46ff88886c2ef9762d970b4d2c63678835bd39d" {
		t.Errorf("unexpected hash160 %x", hash)
	}

	version, hash, err = DecodeAddress("SP000000000000000000002Q6VF78")
	if err != nil {
		t.Fatalf("DecodeAddress(burn) failed: %v", err)
	}
	if version != VersionMainnetSingleSig || hash != [20]byte{} {
		t.Errorf("unexpected burn address decode: %d %x", version, hash)
	}
}

func TestDecodeAddress_BadChecksum(t *testing.T) {
	_, _, err := DecodeAddress("SP2J6ZY48GV1EZ5V2V5RB9MP66SW86PYKKNRV9EJ8")
	if !errors.Is(err, ErrInvalidChecksum) {
		t.Fatalf("expected checksum error, got %v", err)
	}
}

func TestDecodeAddress_Malformed(t *testing.T) {
	for _, addr := range []string{"", "XP123", "SP", "SPU000"} {
		if _, _, err := DecodeAddress(addr); err == nil {
			t.Errorf("expected error for %q", addr)
		}
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	inputs := [][]byte{
		{},
		{0x00},
		{0x00, 0x00, 0x01},
		{0xff, 0xee, 0x00, 0x10},
		bytes.Repeat([]byte{0x5a}, 24),
	}
	for _, in := range inputs {
		out, err := Decode(Encode(in))
		if err != nil {
			t.Fatalf("Decode(Encode(%x)) failed: %v", in, err)
		}
		if !bytes.Equal(in, out) {
			t.Errorf("round trip mismatch: %x != %x", in, out)
		}
	}
}
