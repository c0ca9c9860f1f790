package stacks

import (
	"context"
	"fmt"

	"stacks-crowdfund-go/internal/models"

	"go.uber.org/zap"
)

// AccountSigner is a Signer that knows its own address
type AccountSigner interface {
	Signer
	Address(network models.Network) (string, error)
}

// Broadcaster is the subset of the node API needed to submit a transaction
type Broadcaster interface {
	GetNonce(ctx context.Context, principal string) (uint64, error)
	Broadcast(ctx context.Context, raw []byte) (string, error)
}

// SignAndBroadcast builds the wire transaction for desc, signs it with key at
// the account's next nonce and submits it. It returns the txid the node accepted.
func SignAndBroadcast(ctx context.Context, node Broadcaster, key AccountSigner, desc *models.TransactionDescriptor, fee uint64) (string, error) {
	address, err := key.Address(desc.Network)
	if err != nil {
		return "", fmt.Errorf("derive signer address: %w", err)
	}
	if desc.Sender != "" && desc.Sender != address {
		return "", fmt.Errorf("descriptor sender %s does not match signing key %s", desc.Sender, address)
	}

	nonce, err := node.GetNonce(ctx, address)
	if err != nil {
		return "", fmt.Errorf("%w: fetch nonce: %v", models.ErrBroadcastFailure, err)
	}

	tx, err := UnsignedContractCall(desc, key.PublicKey(), nonce, fee)
	if err != nil {
		return "", fmt.Errorf("build transaction: %w", err)
	}
	if err := tx.Sign(key); err != nil {
		return "", err
	}
	raw, err := tx.Serialize()
	if err != nil {
		return "", fmt.Errorf("serialize transaction: %w", err)
	}

	zap.L().Debug("Broadcasting transaction",
		zap.String("descriptor_id", desc.Id),
		zap.String("function", desc.FunctionName),
		zap.Uint64("nonce", nonce),
		zap.Uint64("fee", fee))

	txid, err := node.Broadcast(ctx, raw)
	if err != nil {
		return "", err
	}
	if local, err := tx.TxId(); err == nil && local != txid {
		zap.L().Warn("Node returned a different txid", zap.String("local", local), zap.String("node", txid))
	}
	return txid, nil
}
