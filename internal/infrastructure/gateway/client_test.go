package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pos/backend/internal/domain/billing"
	"github.com/pos/backend/internal/infrastructure/config"
)

func testPayload() *billing.InvoicePayload {
	return &billing.InvoicePayload{
		DocumentTypeID: uuid.New(),
		SerialID:       uuid.New(),
		CashRegisterID: uuid.New(),
		DeviceID:       "device-1",
		NetTotal:       decimal.NewFromFloat(22.00),
	}
}

func TestClient_Submit_Success(t *testing.T) {
	var received map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/invoices", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		_ = json.NewEncoder(w).Encode(billing.Result{Success: true})
	}))
	defer server.Close()

	client := NewClient(config.GatewayConfig{BaseURL: server.URL, TimeoutSeconds: 5})
	result, err := client.Submit(context.Background(), testPayload())

	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, "device-1", received["device_id"])
}

func TestClient_Submit_GatewayRejection(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_ = json.NewEncoder(w).Encode(billing.Result{Success: false, Message: "serie agotada"})
	}))
	defer server.Close()

	client := NewClient(config.GatewayConfig{BaseURL: server.URL, TimeoutSeconds: 5})
	result, err := client.Submit(context.Background(), testPayload())

	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, "serie agotada", result.Message)
}

func TestClient_Submit_UnreadableBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("<html>bad gateway</html>"))
	}))
	defer server.Close()

	client := NewClient(config.GatewayConfig{BaseURL: server.URL, TimeoutSeconds: 5})
	_, err := client.Submit(context.Background(), testPayload())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestClient_Submit_ConnectionError(t *testing.T) {
	client := NewClient(config.GatewayConfig{BaseURL: "http://127.0.0.1:1", TimeoutSeconds: 1})
	_, err := client.Submit(context.Background(), testPayload())
	assert.Error(t, err)
}
