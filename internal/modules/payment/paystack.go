package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
)

// Paystack calls the Paystack transaction API. Amounts cross the wire
// in kobo (minor units).
type Paystack struct {
	secretKey string
	baseURL   string
	client    *http.Client
}

func NewPaystack(secretKey, baseURL string) *Paystack {
	if baseURL == "" {
		baseURL = "https://api.paystack.co"
	}
	return &Paystack{
		secretKey: secretKey,
		baseURL:   baseURL,
		client:    &http.Client{Timeout: 30 * time.Second},
	}
}

type initializeRequest struct {
	Email       string         `json:"email"`
	Amount      int64          `json:"amount"`
	Reference   string         `json:"reference"`
	CallbackURL string         `json:"callback_url,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

type initializeResponse struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    struct {
		AuthorizationURL string `json:"authorization_url"`
		AccessCode       string `json:"access_code"`
		Reference        string `json:"reference"`
	} `json:"data"`
}

type verifyResponse struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    struct {
		Status   string         `json:"status"`
		Amount   int64          `json:"amount"`
		Metadata map[string]any `json:"metadata"`
	} `json:"data"`
}

func (p *Paystack) Initialize(ctx context.Context, email string, amount decimal.Decimal, reference, callbackURL string, metadata map[string]any) (string, error) {
	kobo := amount.Shift(2).IntPart()
	body, err := json.Marshal(initializeRequest{
		Email:       email,
		Amount:      kobo,
		Reference:   reference,
		CallbackURL: callbackURL,
		Metadata:    metadata,
	})
	if err != nil {
		return "", err
	}

	var resp initializeResponse
	if err := p.do(ctx, http.MethodPost, "/transaction/initialize", body, &resp); err != nil {
		return "", err
	}
	if !resp.Status || resp.Data.AuthorizationURL == "" {
		slog.Warn("paystack initialize rejected", "reference", reference, "message", resp.Message)
		return "", fmt.Errorf("%w: %s", ErrUpstream, resp.Message)
	}
	return resp.Data.AuthorizationURL, nil
}

func (p *Paystack) Verify(ctx context.Context, reference string) (*VerifyResult, error) {
	var resp verifyResponse
	if err := p.do(ctx, http.MethodGet, "/transaction/verify/"+reference, nil, &resp); err != nil {
		return nil, err
	}
	if !resp.Status {
		return nil, fmt.Errorf("%w: %s", ErrUpstream, resp.Message)
	}

	return &VerifyResult{
		Succeeded: resp.Data.Status == "success",
		Amount:    decimal.NewFromInt(resp.Data.Amount).Shift(-2),
		Metadata:  resp.Data.Metadata,
	}, nil
}

func (p *Paystack) do(ctx context.Context, method, path string, body []byte, out any) error {
	var reader *bytes.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, p.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+p.secretKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		return fmt.Errorf("%w: paystack returned %d", ErrUpstream, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode response: %v", ErrUpstream, err)
	}
	return nil
}
