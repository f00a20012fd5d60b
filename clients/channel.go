package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// ChannelRedeemer redeems a payment-channel token against the channel state
// machine and returns the amount actually redeemed in satoshis. Invalid and
// already-spent tokens fail.
type ChannelRedeemer interface {
	Redeem(ctx context.Context, token string) (int64, error)
}

// HTTPChannelRedeemer talks to a payment-channel server over its redeem
// endpoint.
type HTTPChannelRedeemer struct {
	baseURL string
	client  *http.Client
}

func NewHTTPChannelRedeemer(baseURL string, client *http.Client) *HTTPChannelRedeemer {
	if client == nil {
		client = &http.Client{Timeout: defaultRequestTimeout}
	}
	return &HTTPChannelRedeemer{baseURL: baseURL, client: client}
}

type channelRedeemRequest struct {
	Token string `json:"token"`
}

type channelRedeemResponse struct {
	Amount  int64  `json:"amount"`
	Message string `json:"message"`
}

func (c *HTTPChannelRedeemer) Redeem(ctx context.Context, token string) (int64, error) {
	body, err := json.Marshal(channelRedeemRequest{Token: token})
	if err != nil {
		return 0, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/redeem", bytes.NewReader(body))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("channel redeem request: %w", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, fmt.Errorf("channel redeem response: %w", err)
	}

	var parsed channelRedeemResponse
	if err := json.Unmarshal(payload, &parsed); err != nil {
		return 0, fmt.Errorf("channel redeem response decode: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if parsed.Message != "" {
			return 0, fmt.Errorf("token rejected: %s", parsed.Message)
		}
		return 0, fmt.Errorf("token rejected with status %d", resp.StatusCode)
	}
	return parsed.Amount, nil
}

var _ ChannelRedeemer = (*HTTPChannelRedeemer)(nil)
