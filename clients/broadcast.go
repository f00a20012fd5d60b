// Package clients holds the HTTP collaborators the payment methods delegate
// settlement to: the blockchain broadcast provider, the payment-channel
// server and the transfer verification authority. Each collaborator is an
// interface so tests and alternative backends can swap implementations.
package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultRequestTimeout = 30 * time.Second

// Broadcaster submits a raw transaction to the network and returns its
// transaction id, failing when the network rejects it.
type Broadcaster interface {
	Broadcast(ctx context.Context, rawTx string) (string, error)
}

// HTTPBroadcaster submits transactions to a blockchain provider's REST
// endpoint.
type HTTPBroadcaster struct {
	baseURL string
	client  *http.Client
}

func NewHTTPBroadcaster(baseURL string, client *http.Client) *HTTPBroadcaster {
	if client == nil {
		client = &http.Client{Timeout: defaultRequestTimeout}
	}
	return &HTTPBroadcaster{baseURL: baseURL, client: client}
}

type broadcastRequest struct {
	RawTx string `json:"rawTx"`
}

type broadcastResponse struct {
	TxID    string `json:"txid"`
	Message string `json:"message"`
}

func (b *HTTPBroadcaster) Broadcast(ctx context.Context, rawTx string) (string, error) {
	body, err := json.Marshal(broadcastRequest{RawTx: rawTx})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.baseURL+"/transactions", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := b.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("broadcast request: %w", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("broadcast response: %w", err)
	}

	var parsed broadcastResponse
	if err := json.Unmarshal(payload, &parsed); err != nil {
		return "", fmt.Errorf("broadcast response decode: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if parsed.Message != "" {
			return "", fmt.Errorf("transaction rejected: %s", parsed.Message)
		}
		return "", fmt.Errorf("transaction rejected with status %d", resp.StatusCode)
	}
	if parsed.TxID == "" {
		return "", fmt.Errorf("broadcast response missing txid")
	}
	return parsed.TxID, nil
}

var _ Broadcaster = (*HTTPBroadcaster)(nil)
