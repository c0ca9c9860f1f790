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

package stacks

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"stacks-crowdfund-go/internal/clarity"
	"stacks-crowdfund-go/internal/models"

	"go.uber.org/zap"
	"golang.org/x/net/http2"
)

const maxResponseBytes = 1 << 20

// Client talks to a Stacks node RPC endpoint
type Client struct {
	baseUrl    string
	httpClient *http.Client
}

type NodeInfo struct {
	BurnBlockHeight uint64 `json:"burn_block_height"`
	StacksTipHeight uint64 `json:"stacks_tip_height"`
	NetworkId       uint32 `json:"network_id"`
	ServerVersion   string `json:"server_version"`
}

type accountResponse struct {
	Balance string `json:"balance"`
	Nonce   uint64 `json:"nonce"`
}

type readOnlyRequest struct {
	Sender    string   `json:"sender"`
	Arguments []string `json:"arguments"`
}

type readOnlyResponse struct {
	Okay   bool   `json:"okay"`
	Result string `json:"result"`
	Cause  string `json:"cause"`
}

// BroadcastError is the node's rejection payload for a submitted transaction
type BroadcastError struct {
	StatusCode int             `json:"-"`
	Message    string          `json:"error"`
	Reason     string          `json:"reason"`
	ReasonData json.RawMessage `json:"reason_data,omitempty"`
	TxId       string          `json:"txid"`
}

func (e *BroadcastError) Error() string {
	msg := fmt.Sprintf("%s (status %d)", models.ErrBroadcastFailure.Error(), e.StatusCode)
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if len(e.ReasonData) > 0 {
		msg += " " + string(e.ReasonData)
	}
	return msg
}

func (e *BroadcastError) Unwrap() error {
	return models.ErrBroadcastFailure
}

// NewClient builds a node client on an HTTP/2 capable transport
func NewClient(baseUrl string, cfg models.HttpConfig) (*Client, error) {
	httpClient, err := createCustomHttpClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("unable to create custom http client: %w", err)
	}
	return NewClientWithHttp(baseUrl, &httpClient), nil
}

func NewClientWithHttp(baseUrl string, httpClient *http.Client) *Client {
	return &Client{
		baseUrl:    strings.TrimRight(baseUrl, "/"),
		httpClient: httpClient,
	}
}

func createCustomHttpClient(cfg models.HttpConfig) (http.Client, error) {
	tr := &http.Transport{
		ResponseHeaderTimeout: cfg.ResponseHeaderTimeout,
		Proxy:                 http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			KeepAlive: 30 * time.Second,
			Timeout:   15 * time.Second,
		}).DialContext,
		MaxIdleConns:          10,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		MaxIdleConnsPerHost:   5,
		ExpectContinueTimeout: 5 * time.Second,
	}

	if err := http2.ConfigureTransport(tr); err != nil {
		return http.Client{}, err
	}

	return http.Client{
		Transport: tr,
		Timeout:   cfg.Timeout,
	}, nil
}

// GetInfo returns the node's view of the chain tips
func (c *Client) GetInfo(ctx context.Context) (*NodeInfo, error) {
	var info NodeInfo
	if err := c.getJson(ctx, "/v2/info", &info); err != nil {
		return nil, fmt.Errorf("unable to get node info: %w", err)
	}
	return &info, nil
}

// GetNonce returns the next nonce for principal
func (c *Client) GetNonce(ctx context.Context, principal string) (uint64, error) {
	var account accountResponse
	path := "/v2/accounts/" + url.PathEscape(principal) + "?proof=0"
	if err := c.getJson(ctx, path, &account); err != nil {
		return 0, fmt.Errorf("unable to get account %s: %w", principal, err)
	}
	return account.Nonce, nil
}

// CallReadOnly evaluates a read-only contract function and decodes its result
func (c *Client) CallReadOnly(
	ctx context.Context,
	contract models.ContractId,
	function string,
	sender string,
	args ...clarity.Value,
) (clarity.Value, error) {
	request := readOnlyRequest{Sender: sender, Arguments: make([]string, 0, len(args))}
	for i, arg := range args {
		encoded, err := clarity.ToHex(arg)
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i, err)
		}
		request.Arguments = append(request.Arguments, encoded)
	}
	body, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("unable to marshal read-only request: %w", err)
	}

	path := fmt.Sprintf("/v2/contracts/call-read/%s/%s/%s",
		url.PathEscape(contract.Address), url.PathEscape(contract.Name), url.PathEscape(function))

	var response readOnlyResponse
	if err := c.postJson(ctx, path, body, &response); err != nil {
		return nil, fmt.Errorf("unable to call %s::%s: %w", contract, function, err)
	}
	if !response.Okay {
		return nil, fmt.Errorf("read-only call %s::%s failed: %s", contract, function, response.Cause)
	}

	value, err := clarity.FromHex(response.Result)
	if err != nil {
		return nil, fmt.Errorf("unable to decode %s::%s result: %w", contract, function, err)
	}
	return value, nil
}

// Broadcast submits a signed transaction and returns the txid the node accepted
func (c *Client) Broadcast(ctx context.Context, raw []byte) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseUrl+"/v2/transactions", bytes.NewReader(raw))
	if err != nil {
		return "", fmt.Errorf("unable to create broadcast request: %w", err)
	}
	req.Header.Set("Content-Type", "application/octet-stream")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", models.ErrBroadcastFailure, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", fmt.Errorf("%w: unable to read response: %v", models.ErrBroadcastFailure, err)
	}

	if resp.StatusCode != http.StatusOK {
		rejection := &BroadcastError{StatusCode: resp.StatusCode}
		if err := json.Unmarshal(data, rejection); err != nil {
			rejection.Message = strings.TrimSpace(string(data))
		}
		zap.L().Debug("Node rejected transaction",
			zap.Int("status", resp.StatusCode),
			zap.String("error", rejection.Message),
			zap.String("reason", rejection.Reason))
		return "", rejection
	}

	var txid string
	if err := json.Unmarshal(data, &txid); err != nil {
		txid = strings.Trim(strings.TrimSpace(string(data)), `"`)
	}
	txid = strings.TrimPrefix(txid, "0x")
	if _, err := hex.DecodeString(txid); err != nil || len(txid) != 64 {
		return "", fmt.Errorf("%w: unexpected broadcast response %q", models.ErrBroadcastFailure, string(data))
	}
	return txid, nil
}

func (c *Client) getJson(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseUrl+path, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *Client) postJson(ctx context.Context, path string, body []byte, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseUrl+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
