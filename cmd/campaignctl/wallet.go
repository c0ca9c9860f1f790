package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"stacks-crowdfund-go/internal/executor"
	"stacks-crowdfund-go/internal/stacks"

	"go.uber.org/zap"
)

// promptWallet is a terminal stand-in for a browser wallet: it shows the
// request, asks for approval and signs with the local key on "y".
type promptWallet struct {
	in        io.Reader
	out       io.Writer
	key       stacks.AccountSigner
	node      stacks.Broadcaster
	fee       uint64
	assumeYes bool
}

func (w *promptWallet) RequestContractCall(ctx context.Context, request executor.ContractCallRequest, onFinish func(executor.FinishData), onCancel func()) error {
	fmt.Fprintf(w.out, "\nWallet request %s\n", request.Descriptor.Id)
	fmt.Fprintf(w.out, "  %s\n", request.Summary)
	fmt.Fprintf(w.out, "  fee: %d µSTX\n", w.fee)

	approved := w.assumeYes
	if !approved {
		fmt.Fprint(w.out, "Approve? [y/N]: ")
		answer, err := bufio.NewReader(w.in).ReadString('\n')
		if err != nil && err != io.EOF {
			return fmt.Errorf("read approval: %w", err)
		}
		answer = strings.ToLower(strings.TrimSpace(answer))
		approved = answer == "y" || answer == "yes"
	}

	if !approved {
		zap.L().Info("Wallet request declined", zap.String("descriptor_id", request.Descriptor.Id))
		onCancel()
		return nil
	}

	txid, err := stacks.SignAndBroadcast(ctx, w.node, w.key, request.Descriptor, w.fee)
	if err != nil {
		return err
	}
	onFinish(executor.FinishData{TxId: txid})
	return nil
}
