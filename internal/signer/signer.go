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

// Package signer holds the locally derived development key used to sign
// transactions without an interactive wallet.
package signer

import (
	"crypto/sha256"
	"errors"
	"fmt"

	"stacks-crowdfund-go/internal/c32"
	"stacks-crowdfund-go/internal/models"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/ecdsa"
	"github.com/btcsuite/btcd/btcutil/hdkeychain"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/tyler-smith/go-bip39"
	"golang.org/x/crypto/ripemd160"
)

// Stacks BIP44 coin type
const coinType = 5757

var ErrInvalidMnemonic = errors.New("invalid mnemonic")

// LocalKey is a secp256k1 key derived at m/44'/5757'/0'/0/<index>
type LocalKey struct {
	priv  *btcec.PrivateKey
	index uint32
}

// FromMnemonic derives the account key for index from a BIP39 mnemonic
func FromMnemonic(mnemonic string, index uint32) (*LocalKey, error) {
	if !bip39.IsMnemonicValid(mnemonic) {
		return nil, ErrInvalidMnemonic
	}

	seed := bip39.NewSeed(mnemonic, "")
	// network params only affect the serialized xprv, not the derived keys
	master, err := hdkeychain.NewMaster(seed, &chaincfg.MainNetParams)
	if err != nil {
		return nil, fmt.Errorf("create master key: %w", err)
	}

	path := []uint32{
		hdkeychain.HardenedKeyStart + 44,
		hdkeychain.HardenedKeyStart + coinType,
		hdkeychain.HardenedKeyStart + 0,
		0,
		index,
	}
	key := master
	for _, child := range path {
		key, err = key.Derive(child)
		if err != nil {
			return nil, fmt.Errorf("derive child %d: %w", child, err)
		}
	}

	priv, err := key.ECPrivKey()
	if err != nil {
		return nil, fmt.Errorf("extract private key: %w", err)
	}
	return &LocalKey{priv: priv, index: index}, nil
}

func (k *LocalKey) Index() uint32 {
	return k.index
}

// PublicKey returns the 33-byte compressed public key
func (k *LocalKey) PublicKey() []byte {
	return k.priv.PubKey().SerializeCompressed()
}

// Hash160 returns RIPEMD160(SHA256(pubkey)), the account's address hash
func (k *LocalKey) Hash160() [20]byte {
	return Hash160(k.PublicKey())
}

// Address returns the single-sig account address on network
func (k *LocalKey) Address(network models.Network) (string, error) {
	return c32.EncodeAddress(network.AddressVersion(), k.Hash160())
}

// SignHash signs a 32-byte digest and returns the recoverable signature in
// VRS order: recovery id, then r, then s.
func (k *LocalKey) SignHash(hash []byte) ([65]byte, error) {
	var vrs [65]byte
	if len(hash) != 32 {
		return vrs, fmt.Errorf("expected 32 byte hash, got %d", len(hash))
	}

	compact := ecdsa.SignCompact(k.priv, hash, true)
	if len(compact) != 65 {
		return vrs, fmt.Errorf("unexpected compact signature length %d", len(compact))
	}

	// compact[0] = 27 + recovery id + 4 for a compressed key
	vrs[0] = (compact[0] - 27) & 0x03
	copy(vrs[1:], compact[1:])
	return vrs, nil
}

func Hash160(data []byte) [20]byte {
	sum := sha256.Sum256(data)
	h := ripemd160.New()
	h.Write(sum[:])

	var out [20]byte
	copy(out[:], h.Sum(nil))
	return out
}
