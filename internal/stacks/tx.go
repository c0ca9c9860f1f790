/**
 * Copyright 2025-present Coinbase Global, Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *  http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package stacks encodes, signs and broadcasts contract-call transactions
// against a Stacks node.
package stacks

import (
	"bytes"
	"crypto/sha512"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"strings"

	"stacks-crowdfund-go/internal/c32"
	"stacks-crowdfund-go/internal/clarity"
	"stacks-crowdfund-go/internal/models"
	"stacks-crowdfund-go/internal/signer"
)

const (
	authTypeStandard      byte = 0x04
	hashModeP2PKH         byte = 0x00
	keyEncodingCompressed byte = 0x00
	anchorModeAny         byte = 0x03

	postConditionModeAllow byte = 0x01
	postConditionModeDeny  byte = 0x02

	postConditionStx      byte = 0x00
	postConditionFungible byte = 0x01
	principalStandard     byte = 0x02
	conditionSentEq       byte = 0x01

	payloadContractCall byte = 0x02

	maxNameLength = 128
)

// Signer produces recoverable VRS signatures over 32-byte digests
type Signer interface {
	PublicKey() []byte
	SignHash(hash []byte) ([65]byte, error)
}

type PostCondition struct {
	Kind          byte
	Version       byte
	Hash160       [20]byte
	Amount        uint64
	AssetVersion  byte
	AssetHash160  [20]byte
	AssetContract string
	AssetName     string
}

// Transaction is a single-sig, standard-auth contract call
type Transaction struct {
	Version           byte
	ChainId           uint32
	SignerHash        [20]byte
	Nonce             uint64
	Fee               uint64
	Signature         [65]byte
	PostConditionMode byte
	PostConditions    []PostCondition

	ContractVersion byte
	ContractHash    [20]byte
	ContractName    string
	FunctionName    string
	Args            []clarity.Value
}

// UnsignedContractCall turns a descriptor into a wire transaction for the key
// with the given compressed public key
func UnsignedContractCall(desc *models.TransactionDescriptor, publicKey []byte, nonce, fee uint64) (*Transaction, error) {
	version, hash, err := c32.DecodeAddress(desc.Contract.Address)
	if err != nil {
		return nil, fmt.Errorf("contract address %q: %w", desc.Contract.Address, err)
	}

	tx := &Transaction{
		Version:           desc.Network.TransactionVersion(),
		ChainId:           desc.Network.ChainId(),
		SignerHash:        signer.Hash160(publicKey),
		Nonce:             nonce,
		Fee:               fee,
		PostConditionMode: postConditionModeDeny,
		ContractVersion:   version,
		ContractHash:      hash,
		ContractName:      desc.Contract.Name,
		FunctionName:      desc.FunctionName,
		Args:              desc.Args,
	}
	if desc.Mode == models.PostConditionModeAllow {
		tx.PostConditionMode = postConditionModeAllow
	}

	for _, g := range desc.Guarantees {
		pc, err := postConditionFor(g)
		if err != nil {
			return nil, err
		}
		tx.PostConditions = append(tx.PostConditions, pc)
	}
	return tx, nil
}

func postConditionFor(g models.SpendingGuarantee) (PostCondition, error) {
	if g.Comparison != models.ComparisonEqual {
		return PostCondition{}, fmt.Errorf("unsupported comparison %q", g.Comparison)
	}
	version, hash, err := c32.DecodeAddress(g.Principal)
	if err != nil {
		return PostCondition{}, fmt.Errorf("guarantee principal %q: %w", g.Principal, err)
	}
	pc := PostCondition{
		Kind:    postConditionStx,
		Version: version,
		Hash160: hash,
		Amount:  g.ExactAmount,
	}
	if g.Asset == models.AssetNative {
		return pc, nil
	}

	// ADDRESS.contract::token
	contract, token, ok := strings.Cut(g.AssetIdentifier, "::")
	if !ok {
		return PostCondition{}, fmt.Errorf("invalid asset identifier %q", g.AssetIdentifier)
	}
	id, err := models.ParseContractId(contract)
	if err != nil {
		return PostCondition{}, err
	}
	pc.Kind = postConditionFungible
	pc.AssetVersion, pc.AssetHash160, _ = c32.DecodeAddress(id.Address)
	pc.AssetContract = id.Name
	pc.AssetName = token
	return pc, nil
}

// Serialize encodes the transaction in consensus wire format
func (tx *Transaction) Serialize() ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteByte(tx.Version)
	writeUint32(&buf, tx.ChainId)

	buf.WriteByte(authTypeStandard)
	buf.WriteByte(hashModeP2PKH)
	buf.Write(tx.SignerHash[:])
	writeUint64(&buf, tx.Nonce)
	writeUint64(&buf, tx.Fee)
	buf.WriteByte(keyEncodingCompressed)
	buf.Write(tx.Signature[:])

	buf.WriteByte(anchorModeAny)
	buf.WriteByte(tx.PostConditionMode)

	writeUint32(&buf, uint32(len(tx.PostConditions)))
	for _, pc := range tx.PostConditions {
		if err := pc.serialize(&buf); err != nil {
			return nil, err
		}
	}

	buf.WriteByte(payloadContractCall)
	buf.WriteByte(tx.ContractVersion)
	buf.Write(tx.ContractHash[:])
	if err := writeName(&buf, tx.ContractName); err != nil {
		return nil, err
	}
	if err := writeName(&buf, tx.FunctionName); err != nil {
		return nil, err
	}
	writeUint32(&buf, uint32(len(tx.Args)))
	for i, arg := range tx.Args {
		encoded, err := clarity.Serialize(arg)
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i, err)
		}
		buf.Write(encoded)
	}
	return buf.Bytes(), nil
}

func (pc PostCondition) serialize(buf *bytes.Buffer) error {
	buf.WriteByte(pc.Kind)
	buf.WriteByte(principalStandard)
	buf.WriteByte(pc.Version)
	buf.Write(pc.Hash160[:])
	if pc.Kind == postConditionFungible {
		buf.WriteByte(pc.AssetVersion)
		buf.Write(pc.AssetHash160[:])
		if err := writeName(buf, pc.AssetContract); err != nil {
			return err
		}
		if err := writeName(buf, pc.AssetName); err != nil {
			return err
		}
	}
	buf.WriteByte(conditionSentEq)
	writeUint64(buf, pc.Amount)
	return nil
}

// Sign fills in the single-sig signature for s
func (tx *Transaction) Sign(s Signer) error {
	if signer.Hash160(s.PublicKey()) != tx.SignerHash {
		return fmt.Errorf("signer key does not match transaction origin")
	}
	initial, err := tx.initialSigHash()
	if err != nil {
		return err
	}
	sig, err := s.SignHash(tx.presignHash(initial))
	if err != nil {
		return fmt.Errorf("sign transaction: %w", err)
	}
	tx.Signature = sig
	return nil
}

// initialSigHash hashes the transaction with nonce, fee and signature cleared
func (tx *Transaction) initialSigHash() ([32]byte, error) {
	cleared := *tx
	cleared.Nonce = 0
	cleared.Fee = 0
	cleared.Signature = [65]byte{}
	raw, err := cleared.Serialize()
	if err != nil {
		return [32]byte{}, err
	}
	return sha512.Sum512_256(raw), nil
}

func (tx *Transaction) presignHash(sigHash [32]byte) []byte {
	var buf bytes.Buffer
	buf.Write(sigHash[:])
	buf.WriteByte(authTypeStandard)
	writeUint64(&buf, tx.Fee)
	writeUint64(&buf, tx.Nonce)
	sum := sha512.Sum512_256(buf.Bytes())
	return sum[:]
}

// TxId is the hex SHA-512/256 of the serialized transaction
func (tx *Transaction) TxId() (string, error) {
	raw, err := tx.Serialize()
	if err != nil {
		return "", err
	}
	sum := sha512.Sum512_256(raw)
	return hex.EncodeToString(sum[:]), nil
}

func writeUint32(buf *bytes.Buffer, v uint32) {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	buf.Write(b[:])
}

func writeUint64(buf *bytes.Buffer, v uint64) {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	buf.Write(b[:])
}

func writeName(buf *bytes.Buffer, name string) error {
	if name == "" || len(name) > maxNameLength {
		return fmt.Errorf("invalid name %q", name)
	}
	buf.WriteByte(byte(len(name)))
	buf.WriteString(name)
	return nil
}
