package clients

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPBroadcasterReturnsTxID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/transactions", r.URL.Path)
		var req broadcastRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "deadbeef", req.RawTx)
		json.NewEncoder(w).Encode(broadcastResponse{TxID: "abc123"})
	}))
	defer srv.Close()

	txid, err := NewHTTPBroadcaster(srv.URL, nil).Broadcast(context.Background(), "deadbeef")

	require.NoError(t, err)
	assert.Equal(t, "abc123", txid)
}

func TestHTTPBroadcasterSurfacesRejection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		json.NewEncoder(w).Encode(broadcastResponse{Message: "txn-mempool-conflict"})
	}))
	defer srv.Close()

	_, err := NewHTTPBroadcaster(srv.URL, nil).Broadcast(context.Background(), "deadbeef")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "txn-mempool-conflict")
}

func TestHTTPChannelRedeemerReturnsAmount(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/redeem", r.URL.Path)
		var req channelRedeemRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "tok-9", req.Token)
		json.NewEncoder(w).Encode(channelRedeemResponse{Amount: 450})
	}))
	defer srv.Close()

	amount, err := NewHTTPChannelRedeemer(srv.URL, nil).Redeem(context.Background(), "tok-9")

	require.NoError(t, err)
	assert.EqualValues(t, 450, amount)
}

func TestHTTPChannelRedeemerSurfacesRejection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(channelRedeemResponse{Message: "token already spent"})
	}))
	defer srv.Close()

	_, err := NewHTTPChannelRedeemer(srv.URL, nil).Redeem(context.Background(), "tok-9")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "token already spent")
}

func TestHTTPTransferVerifierResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/accounts/alice/transfers/verify":
			w.WriteHeader(http.StatusOK)
		case "/accounts/bob/transfers/verify":
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(verifyTransferResponse{Message: "unknown payer"})
		default:
			w.WriteHeader(http.StatusForbidden)
			w.Write([]byte("plain text failure"))
		}
	}))
	defer srv.Close()

	v := NewHTTPTransferVerifier(srv.URL, nil)

	result, err := v.Verify(context.Background(), "alice", `{"amount":1}`, "sig")
	require.NoError(t, err)
	assert.True(t, result.OK)

	result, err = v.Verify(context.Background(), "bob", `{"amount":1}`, "sig")
	require.NoError(t, err)
	assert.False(t, result.OK)
	assert.Equal(t, "unknown payer", result.Message)

	// Non-JSON failure bodies still map to an undiagnosed rejection.
	result, err = v.Verify(context.Background(), "carol", `{"amount":1}`, "sig")
	require.NoError(t, err)
	assert.False(t, result.OK)
	assert.Empty(t, result.Message)
}

func TestHTTPTransferVerifierTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	_, err := NewHTTPTransferVerifier(srv.URL, nil).Verify(context.Background(), "alice", `{}`, "sig")

	require.Error(t, err)
}
