package billing

import "context"

// Result is the submission gateway's answer
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// SubmissionGateway accepts a built invoice payload. The core does not
// implement retry, timeouts or transport details.
type SubmissionGateway interface {
	Submit(ctx context.Context, payload *InvoicePayload) (Result, error)
}

// IdentityResolver yields a stable device/session identifier for the
// submission payload. Implementations may consult a cache or hardware
// addresses; the builder only needs some stable string and recovers with a
// generated fallback when resolution fails.
type IdentityResolver interface {
	ResolveDeviceID(ctx context.Context) (string, error)
}
