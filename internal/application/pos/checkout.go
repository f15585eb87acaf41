package pos

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pos/backend/internal/domain/billing"
	"github.com/pos/backend/internal/domain/shared"
	"github.com/pos/backend/internal/domain/shared/valueobject"
)

// Checkout builds the invoice payload for a session and submits it.
// The isSaving latch is checked and set under the session lock, then the
// lock is released for the gateway round trip so concurrent reads are not
// blocked on network I/O; any overlapping attempt for the same session is
// rejected while the latch is set. On gateway success the cart, discount
// and all transient selections are reset; on any failure the full session
// state is preserved for retry.
func (s *CartService) Checkout(ctx context.Context, sessionID uuid.UUID) (*billing.InvoicePayload, error) {
	session, err := s.GetSession(sessionID)
	if err != nil {
		return nil, err
	}

	session.mu.Lock()
	if session.isSaving {
		session.mu.Unlock()
		return nil, shared.ErrSubmissionInFlight
	}
	payload, err := s.builder.Build(ctx, session.Cart, s.taxRate, session.Selections)
	if err != nil {
		session.mu.Unlock()
		s.logger.Warn("Checkout rejected",
			zap.String("session_id", sessionID.String()),
			zap.Error(err))
		return nil, err
	}
	session.isSaving = true
	session.mu.Unlock()

	result, submitErr := s.gateway.Submit(ctx, payload)

	session.mu.Lock()
	defer session.mu.Unlock()
	session.isSaving = false

	if submitErr != nil {
		s.logger.Error("Invoice submission failed",
			zap.String("session_id", sessionID.String()),
			zap.Error(submitErr))
		return nil, shared.NewSubmissionError(submitErr.Error())
	}
	if !result.Success {
		s.logger.Error("Invoice rejected by gateway",
			zap.String("session_id", sessionID.String()),
			zap.String("message", result.Message))
		return nil, shared.NewSubmissionError(result.Message)
	}

	s.resetAfterSubmission(session)
	s.logger.Info("Invoice submitted",
		zap.String("session_id", sessionID.String()),
		zap.Stringer("net_total", valueobject.NewMoneyPEN(payload.NetTotal)))
	return payload, nil
}

// IsSaving reports whether a submission is pending for the session
func (s *CartService) IsSaving(sessionID uuid.UUID) (bool, error) {
	session, err := s.GetSession(sessionID)
	if err != nil {
		return false, err
	}
	session.mu.Lock()
	defer session.mu.Unlock()
	return session.isSaving, nil
}

// resetAfterSubmission clears the session for the next order; the session
// lock must be held
func (s *CartService) resetAfterSubmission(session *Session) {
	session.Cart.Clear()
	session.Selections = billing.Selections{}
	session.SearchTerm = ""
	session.editor = nil
}
