package payment

import (
	"context"

	"github.com/shopspring/decimal"
)

// VerifyResult is the gateway's verdict for a reference. Amount is in
// major units regardless of what the wire format uses.
type VerifyResult struct {
	Succeeded bool
	Amount    decimal.Decimal
	Metadata  map[string]any
}

// Gateway is the hosted-payment capability. Initialize returns the URL
// the payer is redirected to; Verify resolves the outcome by reference.
// Both are network calls and may fail with ErrUpstream.
type Gateway interface {
	Initialize(ctx context.Context, email string, amount decimal.Decimal, reference, callbackURL string, metadata map[string]any) (string, error)
	Verify(ctx context.Context, reference string) (*VerifyResult, error)
}
