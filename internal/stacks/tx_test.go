package stacks

import (
	"bytes"
	"encoding/hex"
	"testing"

	"stacks-crowdfund-go/internal/clarity"
	"stacks-crowdfund-go/internal/models"
	"stacks-crowdfund-go/internal/signer"

	"github.com/btcsuite/btcd/btcec/v2/ecdsa"
)

const (
	devnetMnemonic = "twice kind fence tip hidden tilt action fragile skin nothing glory cousin green tomorrow spring wrist shed math olympic multiply hip blue scout claw"
	deployer       = "ST1PQHQKV0RJXZFY1DGX8MNSNYVE3VGZJSRTPGZGM"
)

func donateDescriptor() *models.TransactionDescriptor {
	return &models.TransactionDescriptor{
		Id:           "test",
		Action:       models.ActionContributeNative,
		Network:      models.NetworkDevnet,
		Contract:     models.ContractId{Address: deployer, Name: "fundraising"},
		FunctionName: "donate-stx",
		Args:         []clarity.Value{clarity.UInt(25_000_000)},
		Guarantees: []models.SpendingGuarantee{{
			Principal:   deployer,
			Asset:       models.AssetNative,
			ExactAmount: 25_000_000,
			Comparison:  models.ComparisonEqual,
		}},
		Mode:   models.PostConditionModeDeny,
		Sender: deployer,
	}
}

func testKey(t *testing.T) *signer.LocalKey {
	t.Helper()
	key, err := signer.FromMnemonic(devnetMnemonic, 0)
	if err != nil {
		t.Fatalf("FromMnemonic failed: %v", err)
	}
	return key
}

func TestUnsignedContractCall_Serialize(t *testing.T) {
	key := testKey(t)
	tx, err := UnsignedContractCall(donateDescriptor(), key.PublicKey(), 3, 1000)
	if err != nil {
		t.Fatalf("UnsignedContractCall failed: %v", err)
	}

	raw, err := tx.Serialize()
	if err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}

	want := "808000000004006d78de7b0625dfbfc16c3a8a5735f6dc3dc3f2ce000000000000000300000000000003e8" +
		"00" + "0000000000000000000000000000000000000000000000000000000000000000" +
		"0000000000000000000000000000000000000000000000000000000000000000" + "00" +
		"0302" + "00000001" + "00021a6d78de7b0625dfbfc16c3a8a5735f6dc3dc3f2ce0100000000017d7840" +
		"021a6d78de7b0625dfbfc16c3a8a5735f6dc3dc3f2ce0b66756e6472616973696e670a646f6e6174652d737478" +
		"00000001" + "01000000000000000000000000017d7840"
	if got := hex.EncodeToString(raw); got != want {
		t.Errorf("serialization mismatch\n got: %s\nwant: %s", got, want)
	}

	txid, err := tx.TxId()
	if err != nil {
		t.Fatalf("TxId failed: %v", err)
	}
	if txid != "07032bd4760dde68753608bbbe903d6532cc5c8eb154062baff88792e64b2539" {
		t.Errorf("unexpected unsigned txid %s", txid)
	}
}

func TestSign_RecoversSigner(t *testing.T) {
	key := testKey(t)
	tx, err := UnsignedContractCall(donateDescriptor(), key.PublicKey(), 3, 1000)
	if err != nil {
		t.Fatalf("UnsignedContractCall failed: %v", err)
	}
	if err := tx.Sign(key); err != nil {
		t.Fatalf("Sign failed: %v", err)
	}

	presign, _ := hex.DecodeString("2f5a1170a0882b4653176dbbc1fcbc204be90016fe3f232d731837059a2b5dc6")
	compact := make([]byte, 65)
	compact[0] = 27 + 4 + tx.Signature[0]
	copy(compact[1:], tx.Signature[1:])

	pub, _, err := ecdsa.RecoverCompact(compact, presign)
	if err != nil {
		t.Fatalf("RecoverCompact failed: %v", err)
	}
	if !bytes.Equal(pub.SerializeCompressed(), key.PublicKey()) {
		t.Error("signature does not recover to the signing key over the presign hash")
	}

	// signing must not disturb nonce and fee
	if tx.Nonce != 3 || tx.Fee != 1000 {
		t.Errorf("nonce/fee changed: %d/%d", tx.Nonce, tx.Fee)
	}
}

func TestSign_RejectsForeignKey(t *testing.T) {
	key := testKey(t)
	other, err := signer.FromMnemonic(devnetMnemonic, 1)
	if err != nil {
		t.Fatalf("FromMnemonic failed: %v", err)
	}
	tx, err := UnsignedContractCall(donateDescriptor(), key.PublicKey(), 0, 1000)
	if err != nil {
		t.Fatalf("UnsignedContractCall failed: %v", err)
	}
	if err := tx.Sign(other); err == nil {
		t.Error("expected error when signing with a key that is not the origin")
	}
}

func TestUnsignedContractCall_WrappedGuarantee(t *testing.T) {
	desc := donateDescriptor()
	desc.FunctionName = "donate-sbtc"
	desc.Guarantees[0].Asset = models.AssetWrapped
	desc.Guarantees[0].AssetIdentifier = deployer + ".sbtc-token::sbtc-token"

	tx, err := UnsignedContractCall(desc, testKey(t).PublicKey(), 0, 1000)
	if err != nil {
		t.Fatalf("UnsignedContractCall failed: %v", err)
	}
	pc := tx.PostConditions[0]
	if pc.Kind != postConditionFungible || pc.AssetContract != "sbtc-token" || pc.AssetName != "sbtc-token" {
		t.Errorf("unexpected fungible post condition %+v", pc)
	}

	raw, err := tx.Serialize()
	if err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}
	if !bytes.Contains(raw, []byte("\x0asbtc-token\x0asbtc-token\x01")) {
		t.Error("serialized post condition is missing the asset info")
	}
}

func TestUnsignedContractCall_InvalidInputs(t *testing.T) {
	key := testKey(t)

	bad := donateDescriptor()
	bad.Contract.Address = "nope"
	if _, err := UnsignedContractCall(bad, key.PublicKey(), 0, 0); err == nil {
		t.Error("expected error for invalid contract address")
	}

	bad = donateDescriptor()
	bad.Guarantees[0].Asset = models.AssetWrapped
	bad.Guarantees[0].AssetIdentifier = "missing-separator"
	if _, err := UnsignedContractCall(bad, key.PublicKey(), 0, 0); err == nil {
		t.Error("expected error for invalid asset identifier")
	}
}

func TestAllowModeByte(t *testing.T) {
	desc := donateDescriptor()
	desc.Mode = models.PostConditionModeAllow
	tx, err := UnsignedContractCall(desc, testKey(t).PublicKey(), 0, 0)
	if err != nil {
		t.Fatalf("UnsignedContractCall failed: %v", err)
	}
	if tx.PostConditionMode != postConditionModeAllow {
		t.Errorf("expected allow mode byte, got %#x", tx.PostConditionMode)
	}
}
