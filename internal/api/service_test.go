package api

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"stacks-crowdfund-go/internal/config"
	"stacks-crowdfund-go/internal/executor"
	"stacks-crowdfund-go/internal/models"
	"stacks-crowdfund-go/internal/store"
	"stacks-crowdfund-go/internal/txbuilder"

	"github.com/shopspring/decimal"
)

const caller = "ST1PQHQKV0RJXZFY1DGX8MNSNYVE3VGZJSRTPGZGM"

type fakeLedger struct {
	record      *models.RawCampaignRecord
	campaignErr error
	height      uint64
	heightErr   error
	donation    *models.DonationRecord
}

func (f *fakeLedger) GetCampaign(context.Context) (*models.RawCampaignRecord, error) {
	return f.record, f.campaignErr
}

func (f *fakeLedger) GetBlockHeight(context.Context) (uint64, error) {
	return f.height, f.heightErr
}

func (f *fakeLedger) GetDonation(context.Context, string) (*models.DonationRecord, error) {
	return f.donation, nil
}

type recordingWallet struct {
	calls int
	err   error
	last  *models.TransactionDescriptor
}

func (w *recordingWallet) RequestContractCall(_ context.Context, req executor.ContractCallRequest, onFinish func(executor.FinishData), _ func()) error {
	w.calls++
	w.last = req.Descriptor
	if w.err != nil {
		return w.err
	}
	onFinish(executor.FinishData{TxId: "0xabc"})
	return nil
}

func prices() store.PriceSource {
	return store.NewStaticPriceSource(models.PriceQuote{
		NativeUsd:       decimal.NewFromInt(2),
		WrappedAssetUsd: decimal.NewFromInt(100000),
	})
}

func newService(ledger *fakeLedger, priceSource store.PriceSource) *CampaignService {
	return NewCampaignService(
		models.NetworkDevnet,
		ledger,
		priceSource,
		txbuilder.NewBuilder(config.DefaultNetworks()),
		executor.New(nil),
	)
}

func activeRecord() *models.RawCampaignRecord {
	return &models.RawCampaignRecord{Start: 100, End: 1000, Goal: 15000, RaisedNative: 3_750_000_000}
}

func TestGetCampaignView(t *testing.T) {
	svc := newService(&fakeLedger{record: activeRecord(), height: 400}, prices())

	result := svc.GetCampaignView(context.Background())
	if !result.Available {
		t.Fatalf("expected available view, got %+v", result)
	}
	if result.View.Lifecycle != models.LifecycleActive {
		t.Errorf("expected active, got %s", result.View.Lifecycle)
	}
	if !result.View.ProgressPct.Equal(decimal.NewFromInt(50)) {
		t.Errorf("expected 50%% progress, got %s", result.View.ProgressPct)
	}
	if result.View.BlocksRemaining != 600 || result.BlockHeight != 400 {
		t.Errorf("unexpected height data %d/%d", result.View.BlocksRemaining, result.BlockHeight)
	}
}

func TestGetCampaignView_Unavailable(t *testing.T) {
	tests := []struct {
		err  error
		want models.ErrorCategory
	}{
		{store.ErrContractNotConfigured, models.CategoryContractNotConfigured},
		{errors.Join(store.ErrFetchFailure, errors.New("timeout")), models.CategoryFetchFailure},
	}
	for _, tt := range tests {
		result := newService(&fakeLedger{campaignErr: tt.err}, prices()).GetCampaignView(context.Background())
		if result.Available || result.View != nil {
			t.Errorf("expected unavailable result for %v", tt.err)
		}
		if !errors.Is(result.Err(), tt.err) {
			t.Errorf("Err() = %v, want %v", result.Err(), tt.err)
		}
		if result.Category != tt.want || result.Error == "" {
			t.Errorf("expected category %s, got %s (%q)", tt.want, result.Category, result.Error)
		}
	}
}

func TestGetCampaignView_Degraded(t *testing.T) {
	svc := newService(&fakeLedger{record: activeRecord(), heightErr: errors.New("node down")},
		store.NewStaticPriceSource(models.PriceQuote{}))

	result := svc.GetCampaignView(context.Background())
	if !result.Available {
		t.Fatal("missing height or price must not make the view unavailable")
	}
	if result.BlockHeight != 0 || result.View.BlocksRemaining != 1000 {
		t.Errorf("expected height 0, got %d (%d remaining)", result.BlockHeight, result.View.BlocksRemaining)
	}
	if !result.View.UsdRaised.IsZero() || result.View.PriceAvailable {
		t.Errorf("expected zero USD figures without a quote, got %s", result.View.UsdRaised)
	}
}

func TestContribute(t *testing.T) {
	wallet := &recordingWallet{}
	svc := newService(&fakeLedger{record: activeRecord(), height: 400}, prices())

	result, err := svc.Contribute(context.Background(), executor.InteractiveWallet{Wallet: wallet}, caller, models.AssetNative, decimal.NewFromInt(50))
	if err != nil {
		t.Fatalf("Contribute failed: %v", err)
	}
	if result.Status != models.StatusConfirmed {
		t.Errorf("expected confirmed, got %+v", result)
	}
	if wallet.last == nil || wallet.last.Guarantees[0].ExactAmount != 25_000_000 {
		t.Errorf("unexpected descriptor %+v", wallet.last)
	}
}

func TestContribute_PreflightFailures(t *testing.T) {
	tests := []struct {
		name   string
		ledger *fakeLedger
		prices store.PriceSource
		usd    string
		want   error
	}{
		{"uninitialized", &fakeLedger{record: &models.RawCampaignRecord{}}, prices(), "50", models.ErrCampaignNotInitialized},
		{"no record yet", &fakeLedger{}, prices(), "50", models.ErrCampaignNotInitialized},
		{"no quote", &fakeLedger{record: activeRecord(), height: 400}, store.NewStaticPriceSource(models.PriceQuote{}), "50", models.ErrInvalidPrice},
		{"too small", &fakeLedger{record: activeRecord(), height: 400}, prices(), "0.0000001", models.ErrInvalidAmount},
		{"contract not configured", &fakeLedger{campaignErr: store.ErrContractNotConfigured}, prices(), "50", models.ErrContractNotConfigured},
		{"fetch failure", &fakeLedger{campaignErr: fmt.Errorf("%w: timeout", store.ErrFetchFailure)}, prices(), "50", models.ErrFetchFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wallet := &recordingWallet{}
			svc := newService(tt.ledger, tt.prices)

			result, err := svc.Contribute(context.Background(), executor.InteractiveWallet{Wallet: wallet}, caller, models.AssetNative, decimal.RequireFromString(tt.usd))
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
			if got, want := models.CategoryOf(err), models.CategoryOf(tt.want); got != want {
				t.Errorf("category = %s, want %s", got, want)
			}
			if result != nil || wallet.calls != 0 {
				t.Error("nothing may be dispatched when pre-flight fails")
			}
		})
	}
}

func TestRefund_LeftToLedger(t *testing.T) {
	wallet := &recordingWallet{err: errors.New("transaction aborted: (err u102)")}
	svc := newService(&fakeLedger{record: activeRecord(), height: 400}, prices())

	result, err := svc.Refund(context.Background(), executor.InteractiveWallet{Wallet: wallet}, caller)
	if err != nil {
		t.Fatalf("refund should be built regardless of lifecycle: %v", err)
	}
	if result.Status != models.StatusRejected || result.Category != models.CategoryCampaignNotInitialized {
		t.Errorf("expected ledger rejection to be classified, got %+v", result)
	}
}

func TestAdminActions(t *testing.T) {
	svc := newService(&fakeLedger{}, prices())
	ctx := context.Background()

	actions := map[string]func(executor.ExecutionContext) (*models.ExecutionResult, error){
		"initialize": func(ec executor.ExecutionContext) (*models.ExecutionResult, error) {
			return svc.Initialize(ctx, ec, caller, decimal.NewFromInt(15000))
		},
		"cancel":   func(ec executor.ExecutionContext) (*models.ExecutionResult, error) { return svc.Cancel(ctx, ec, caller) },
		"withdraw": func(ec executor.ExecutionContext) (*models.ExecutionResult, error) { return svc.Withdraw(ctx, ec, caller) },
	}
	for name, action := range actions {
		wallet := &recordingWallet{}
		result, err := action(executor.InteractiveWallet{Wallet: wallet})
		if err != nil {
			t.Errorf("%s: unexpected error %v", name, err)
			continue
		}
		if result.Status != models.StatusConfirmed || wallet.calls != 1 {
			t.Errorf("%s: expected one confirmed dispatch, got %+v", name, result)
		}
	}

	if _, err := svc.Cancel(ctx, executor.InteractiveWallet{Wallet: &recordingWallet{}}, ""); !errors.Is(err, models.ErrAddressRequired) {
		t.Errorf("expected ErrAddressRequired, got %v", err)
	}
}

func TestGetDonation(t *testing.T) {
	cancelled := &models.RawCampaignRecord{Start: 100, End: 1000, Goal: 15000, IsCancelled: true}
	svc := newService(&fakeLedger{record: cancelled, height: 400, donation: &models.DonationRecord{Wrapped: 50_000}}, prices())

	result, err := svc.GetDonation(context.Background(), caller)
	if err != nil {
		t.Fatalf("GetDonation failed: %v", err)
	}
	if result.Donation.Wrapped != 50_000 || !result.RefundEligible {
		t.Errorf("unexpected donation result %+v", result)
	}

	eligible, err := newService(&fakeLedger{record: activeRecord(), donation: &models.DonationRecord{Native: 1}}, prices()).
		RefundEligible(context.Background(), caller)
	if err != nil || eligible {
		t.Errorf("active campaign must not be refund eligible (%v)", err)
	}

	if _, err := svc.GetDonation(context.Background(), ""); !errors.Is(err, models.ErrAddressRequired) {
		t.Errorf("expected ErrAddressRequired, got %v", err)
	}
}

func TestHealthCheck(t *testing.T) {
	if err := newService(&fakeLedger{height: 400}, prices()).HealthCheck(context.Background()); err != nil {
		t.Errorf("expected healthy node, got %v", err)
	}

	err := newService(&fakeLedger{heightErr: store.ErrFetchFailure}, prices()).HealthCheck(context.Background())
	if !errors.Is(err, models.ErrFetchFailure) {
		t.Errorf("expected ErrFetchFailure, got %v", err)
	}
}
