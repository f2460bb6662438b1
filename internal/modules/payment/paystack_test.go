package payment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaystack_Initialize(t *testing.T) {
	var got initializeRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/transaction/initialize", r.URL.Path)
		assert.Equal(t, "Bearer sk_test_abc", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":true,"data":{"authorization_url":"https://checkout.paystack.com/x1","reference":"EDU_1_a"}}`))
	}))
	defer srv.Close()

	p := NewPaystack("sk_test_abc", srv.URL)
	url, err := p.Initialize(context.Background(), "a@b.com", decimal.NewFromInt(5000), "EDU_1_a", "http://cb", map[string]any{"k": "v"})
	require.NoError(t, err)

	assert.Equal(t, "https://checkout.paystack.com/x1", url)
	assert.Equal(t, int64(500000), got.Amount) // kobo
	assert.Equal(t, "EDU_1_a", got.Reference)
}

func TestPaystack_InitializeRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":false,"message":"Invalid key"}`))
	}))
	defer srv.Close()

	p := NewPaystack("bad", srv.URL)
	_, err := p.Initialize(context.Background(), "a@b.com", decimal.NewFromInt(100), "ref", "", nil)
	assert.ErrorIs(t, err, ErrUpstream)
}

func TestPaystack_Verify(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/transaction/verify/EDU_1_a", r.URL.Path)
		_, _ = w.Write([]byte(`{"status":true,"data":{"status":"success","amount":500000,"metadata":{"tutor_id":"7"}}}`))
	}))
	defer srv.Close()

	p := NewPaystack("sk", srv.URL)
	res, err := p.Verify(context.Background(), "EDU_1_a")
	require.NoError(t, err)

	assert.True(t, res.Succeeded)
	assert.True(t, res.Amount.Equal(decimal.NewFromInt(5000)))
	assert.Equal(t, "7", res.Metadata["tutor_id"])
}

func TestPaystack_VerifyFailedTransaction(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":true,"data":{"status":"abandoned","amount":0}}`))
	}))
	defer srv.Close()

	p := NewPaystack("sk", srv.URL)
	res, err := p.Verify(context.Background(), "ref")
	require.NoError(t, err)
	assert.False(t, res.Succeeded)
}

func TestNewReference(t *testing.T) {
	ref := NewReference()
	assert.True(t, strings.HasPrefix(ref, "EDU_"))
	assert.NotEqual(t, ref, NewReference())
}
