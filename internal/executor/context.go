package executor

import (
	"context"

	"stacks-crowdfund-go/internal/models"
	"stacks-crowdfund-go/internal/stacks"
)

// ExecutionContext selects how a descriptor is signed and broadcast. It is
// resolved once by the caller and passed to every Execute call.
type ExecutionContext interface {
	Name() string
	executionContext()
}

// KeySigner is a locally held key
type KeySigner = stacks.AccountSigner

// Node is the subset of the node API used by the local-key path
type Node = stacks.Broadcaster

// LocalKey signs with a development key and broadcasts directly to the node
type LocalKey struct {
	Signer KeySigner
	Node   Node
	Fee    uint64 // µSTX
}

func (LocalKey) Name() string      { return "local-key" }
func (LocalKey) executionContext() {}

// InteractiveWallet hands the descriptor to an external wallet for approval
type InteractiveWallet struct {
	Wallet Wallet
}

func (InteractiveWallet) Name() string      { return "interactive-wallet" }
func (InteractiveWallet) executionContext() {}

// ContractCallRequest is what the wallet is asked to approve
type ContractCallRequest struct {
	Descriptor *models.TransactionDescriptor
	Summary    string
}

// FinishData is reported by the wallet once the transaction is broadcast
type FinishData struct {
	TxId string
}

// Wallet prompts the user. It must eventually invoke exactly one of onFinish
// or onCancel, or return an error; callbacks may run on any goroutine.
type Wallet interface {
	RequestContractCall(ctx context.Context, request ContractCallRequest, onFinish func(FinishData), onCancel func()) error
}
