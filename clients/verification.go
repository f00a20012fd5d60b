package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

// VerifyResult is the verification authority's answer for one transfer.
// When OK is false, Message carries the authority's diagnostic if it gave
// one.
type VerifyResult struct {
	OK      bool
	Message string
}

// TransferVerifier validates a signed transfer against the trusted
// third-party authority, scoped by the seller identity. A returned error
// means the authority could not be consulted at all; a rejection is
// reported through VerifyResult.
type TransferVerifier interface {
	Verify(ctx context.Context, seller, transfer, signature string) (VerifyResult, error)
}

// HTTPTransferVerifier posts transfers to the authority's per-seller verify
// endpoint.
type HTTPTransferVerifier struct {
	baseURL string
	client  *http.Client
}

func NewHTTPTransferVerifier(baseURL string, client *http.Client) *HTTPTransferVerifier {
	if client == nil {
		client = &http.Client{Timeout: defaultRequestTimeout}
	}
	return &HTTPTransferVerifier{baseURL: baseURL, client: client}
}

type verifyTransferRequest struct {
	Transfer  string `json:"transfer"`
	Signature string `json:"signature"`
}

type verifyTransferResponse struct {
	Message string `json:"message"`
}

func (v *HTTPTransferVerifier) Verify(ctx context.Context, seller, transfer, signature string) (VerifyResult, error) {
	body, err := json.Marshal(verifyTransferRequest{Transfer: transfer, Signature: signature})
	if err != nil {
		return VerifyResult{}, err
	}

	endpoint := fmt.Sprintf("%s/accounts/%s/transfers/verify", v.baseURL, url.PathEscape(seller))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return VerifyResult{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := v.client.Do(req)
	if err != nil {
		return VerifyResult{}, fmt.Errorf("verification request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return VerifyResult{OK: true}, nil
	}

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return VerifyResult{}, fmt.Errorf("verification response: %w", err)
	}

	var parsed verifyTransferResponse
	// The authority is not obliged to return JSON on failure; a bare body
	// still maps to an undiagnosed rejection.
	_ = json.Unmarshal(payload, &parsed)

	return VerifyResult{OK: false, Message: parsed.Message}, nil
}

var _ TransferVerifier = (*HTTPTransferVerifier)(nil)
