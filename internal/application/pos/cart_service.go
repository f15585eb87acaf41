// Package pos orchestrates order-entry sessions: cart mutations, per-line
// notes editing and invoice submission.
package pos

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/pos/backend/internal/domain/billing"
	"github.com/pos/backend/internal/domain/cart"
	"github.com/pos/backend/internal/domain/catalog"
	"github.com/pos/backend/internal/domain/notes"
	"github.com/pos/backend/internal/domain/shared"
)

// Session is one open order-entry screen: a cart plus its transient
// selections and editing state. Each session has a single logical owner,
// but the HTTP layer serves requests concurrently, so mu guards all
// mutable session state. During checkout the lock is released around the
// gateway call; isSaving stays set to exclude a second submission.
type Session struct {
	ID         uuid.UUID
	Cart       *cart.Cart
	SearchTerm string
	Selections billing.Selections

	mu sync.Mutex

	// tags cached per subcategory for the lifetime of the session
	tagCache map[uuid.UUID][]catalog.Observation
	editor   *notes.EditorSession
	isSaving bool
}

// CartService owns the open sessions and wires the cart, notes and billing
// engines to the external catalog, tag source, identity resolver and
// submission gateway.
type CartService struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*Session

	catalogSource catalog.Source
	tagSource     catalog.TagSource
	builder       *billing.Builder
	gateway       billing.SubmissionGateway
	taxRate       decimal.Decimal
	logger        *zap.Logger
}

// NewCartService creates a CartService. A non-positive taxRatePercent
// falls back to the default rate.
func NewCartService(
	catalogSource catalog.Source,
	tagSource catalog.TagSource,
	builder *billing.Builder,
	gateway billing.SubmissionGateway,
	taxRatePercent decimal.Decimal,
	logger *zap.Logger,
) *CartService {
	if taxRatePercent.LessThanOrEqual(decimal.Zero) {
		taxRatePercent = cart.FallbackTaxRatePercent
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CartService{
		sessions:      make(map[uuid.UUID]*Session),
		catalogSource: catalogSource,
		tagSource:     tagSource,
		builder:       builder,
		gateway:       gateway,
		taxRate:       taxRatePercent,
		logger:        logger,
	}
}

// CreateSession opens a new empty order-entry session
func (s *CartService) CreateSession() *Session {
	session := &Session{
		ID:       uuid.New(),
		Cart:     cart.New(),
		tagCache: make(map[uuid.UUID][]catalog.Observation),
	}

	s.mu.Lock()
	s.sessions[session.ID] = session
	s.mu.Unlock()

	s.logger.Info("Session created", zap.String("session_id", session.ID.String()))
	return session
}

// GetSession returns an open session
func (s *CartService) GetSession(sessionID uuid.UUID) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[sessionID]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return session, nil
}

// CloseSession discards a session and all its transient state
func (s *CartService) CloseSession(sessionID uuid.UUID) {
	s.mu.Lock()
	delete(s.sessions, sessionID)
	s.mu.Unlock()
}

// SetSearchTerm records the catalog search term for a session
func (s *CartService) SetSearchTerm(sessionID uuid.UUID, term string) error {
	session, err := s.GetSession(sessionID)
	if err != nil {
		return err
	}
	session.mu.Lock()
	defer session.mu.Unlock()
	session.SearchTerm = term
	return nil
}

// SessionView renders the session's API view under its lock
func (s *CartService) SessionView(sessionID uuid.UUID) (SessionResponse, error) {
	session, err := s.GetSession(sessionID)
	if err != nil {
		return SessionResponse{}, err
	}
	session.mu.Lock()
	defer session.mu.Unlock()
	return ToSessionResponse(session), nil
}

// AddProduct looks a product up in the catalog and adds it to the session's
// cart, merging into an existing line for the same product. Adding clears
// the session's search term.
func (s *CartService) AddProduct(ctx context.Context, sessionID, productID uuid.UUID, quantity int64) (cart.Line, error) {
	session, err := s.GetSession(sessionID)
	if err != nil {
		return cart.Line{}, err
	}

	snapshot, err := s.catalogSource.Snapshot(ctx)
	if err != nil {
		return cart.Line{}, err
	}
	product, ok := snapshot.ProductByID(productID)
	if !ok {
		return cart.Line{}, shared.ErrNotFound
	}

	session.mu.Lock()
	line, err := session.Cart.AddProduct(product, quantity)
	if err != nil {
		session.mu.Unlock()
		s.logger.Warn("Product rejected",
			zap.String("session_id", sessionID.String()),
			zap.String("product", product.Name),
			zap.Error(err))
		return cart.Line{}, err
	}
	session.SearchTerm = ""
	added := *line
	session.mu.Unlock()

	s.logger.Info("Product added",
		zap.String("session_id", sessionID.String()),
		zap.String("line_id", added.LineID.String()),
		zap.Int64("quantity", added.Quantity))
	return added, nil
}

// UpdateQuantity sets a line's quantity; zero or negative removes the line
func (s *CartService) UpdateQuantity(sessionID, lineID uuid.UUID, quantity int64) error {
	session, err := s.GetSession(sessionID)
	if err != nil {
		return err
	}
	session.mu.Lock()
	defer session.mu.Unlock()
	session.Cart.UpdateQuantity(lineID, quantity)
	return nil
}

// RemoveLine deletes a cart line
func (s *CartService) RemoveLine(sessionID, lineID uuid.UUID) error {
	session, err := s.GetSession(sessionID)
	if err != nil {
		return err
	}
	session.mu.Lock()
	defer session.mu.Unlock()
	session.Cart.RemoveLine(lineID)
	return nil
}

// SetDiscount replaces the order-level discount, clamped
func (s *CartService) SetDiscount(sessionID uuid.UUID, fixedAmount, percent decimal.Decimal) error {
	session, err := s.GetSession(sessionID)
	if err != nil {
		return err
	}
	session.mu.Lock()
	defer session.mu.Unlock()
	session.Cart.SetDiscount(fixedAmount, percent)
	return nil
}

// Totals computes the session's order totals at the configured tax rate
func (s *CartService) Totals(sessionID uuid.UUID) (cart.Totals, error) {
	session, err := s.GetSession(sessionID)
	if err != nil {
		return cart.Totals{}, err
	}
	session.mu.Lock()
	defer session.mu.Unlock()
	return session.Cart.Totals(s.taxRate), nil
}

// SetSelections stores the document/serial/cash-register/customer/payment
// choices for the session
func (s *CartService) SetSelections(sessionID uuid.UUID, sel billing.Selections) error {
	session, err := s.GetSession(sessionID)
	if err != nil {
		return err
	}
	session.mu.Lock()
	defer session.mu.Unlock()
	session.Selections = sel
	return nil
}

// TaxRatePercent returns the rate the service prices with
func (s *CartService) TaxRatePercent() decimal.Decimal {
	return s.taxRate
}
