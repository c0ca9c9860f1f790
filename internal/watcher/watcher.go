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

package watcher

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"stacks-crowdfund-go/internal/models"

	"go.uber.org/zap"
)

// Reader is the part of the campaign service the watcher polls
type Reader interface {
	GetCampaignView(ctx context.Context) *models.ViewResult
	GetDonation(ctx context.Context, caller string) (*models.DonationResult, error)
}

// Snapshot is one poll's worth of campaign state
type Snapshot struct {
	View     *models.ViewResult
	Donation *models.DonationResult
}

// ChangeHandler is called with the previous snapshot (nil on the first poll)
// and the new one whenever the derived state changes
type ChangeHandler func(prev *Snapshot, curr Snapshot)

// CampaignWatcher re-derives the campaign view on an interval
type CampaignWatcher struct {
	reader          Reader
	donor           string
	pollingInterval time.Duration
	onChange        ChangeHandler

	mu       sync.Mutex
	last     *Snapshot
	lastKey  string
	started  bool
	stopChan chan struct{}
	doneChan chan struct{}
}

// NewCampaignWatcher creates a watcher. donor may be empty to skip donation reads.
func NewCampaignWatcher(reader Reader, pollingInterval time.Duration, donor string, onChange ChangeHandler) *CampaignWatcher {
	return &CampaignWatcher{
		reader:          reader,
		donor:           donor,
		pollingInterval: pollingInterval,
		onChange:        onChange,
		stopChan:        make(chan struct{}),
		doneChan:        make(chan struct{}),
	}
}

// Start begins polling in the background
func (w *CampaignWatcher) Start(ctx context.Context) error {
	if w.pollingInterval <= 0 {
		return fmt.Errorf("polling interval must be positive, got %s", w.pollingInterval)
	}

	w.mu.Lock()
	if w.started {
		w.mu.Unlock()
		return errors.New("watcher already started")
	}
	w.started = true
	w.mu.Unlock()

	zap.L().Info("Starting campaign watcher",
		zap.Duration("polling_interval", w.pollingInterval),
		zap.String("donor", w.donor))

	go w.pollLoop(ctx)
	return nil
}

// Stop stops polling and waits for the loop to exit
func (w *CampaignWatcher) Stop() {
	zap.L().Info("Stopping campaign watcher")
	w.mu.Lock()
	started := w.started
	w.mu.Unlock()

	select {
	case <-w.stopChan:
	default:
		close(w.stopChan)
	}
	if started {
		<-w.doneChan
	}
	zap.L().Info("Campaign watcher stopped")
}

// Done is closed when the poll loop exits
func (w *CampaignWatcher) Done() <-chan struct{} {
	return w.doneChan
}

// Last returns the most recent snapshot, or nil before the first poll
func (w *CampaignWatcher) Last() *Snapshot {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.last
}

func (w *CampaignWatcher) pollLoop(ctx context.Context) {
	defer close(w.doneChan)

	ticker := time.NewTicker(w.pollingInterval)
	defer ticker.Stop()

	w.Poll(ctx)

	for {
		select {
		case <-ticker.C:
			w.Poll(ctx)
		case <-w.stopChan:
			return
		case <-ctx.Done():
			return
		}
	}
}

// Poll reads the campaign once and reports whether the state changed
func (w *CampaignWatcher) Poll(ctx context.Context) bool {
	curr := Snapshot{View: w.reader.GetCampaignView(ctx)}
	if w.donor != "" {
		donation, err := w.reader.GetDonation(ctx, w.donor)
		if err != nil {
			zap.L().Warn("Failed to read donation",
				zap.String("donor", w.donor),
				zap.Error(err))
		} else {
			curr.Donation = donation
		}
	}

	key := fingerprint(curr)

	w.mu.Lock()
	prev := w.last
	changed := prev == nil || key != w.lastKey
	w.last = &curr
	w.lastKey = key
	w.mu.Unlock()

	if !changed {
		zap.L().Debug("Campaign state unchanged")
		return false
	}
	if w.onChange != nil {
		w.onChange(prev, curr)
	}
	return true
}

// fingerprint covers everything shown to the user except the read time
func fingerprint(s Snapshot) string {
	key := "unavailable"
	if v := s.View; v != nil {
		if v.Available && v.View != nil {
			cv := v.View
			key = fmt.Sprintf("%s|%t|%s|%s|%s|%d|%d|%s|%s|%t",
				cv.Lifecycle, cv.Withdrawn,
				cv.UsdRaised.String(), cv.GoalUsd.String(), cv.ProgressPct.String(),
				cv.BlocksRemaining, cv.DonationCount,
				cv.RaisedNative.String(), cv.RaisedWrapped.String(),
				cv.PriceAvailable)
		} else {
			key = "unavailable|" + string(v.Category)
		}
	}
	if d := s.Donation; d != nil {
		key += fmt.Sprintf("|%d|%d|%t", d.Donation.Native, d.Donation.Wrapped, d.RefundEligible)
	}
	return key
}
