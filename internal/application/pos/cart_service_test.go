package pos

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/pos/backend/internal/domain/billing"
	"github.com/pos/backend/internal/domain/catalog"
	"github.com/pos/backend/internal/domain/shared"
)

// MockSubmissionGateway is a mock implementation of billing.SubmissionGateway
type MockSubmissionGateway struct {
	mock.Mock
}

func (m *MockSubmissionGateway) Submit(ctx context.Context, payload *billing.InvoicePayload) (billing.Result, error) {
	args := m.Called(ctx, payload)
	return args.Get(0).(billing.Result), args.Error(1)
}

// stubCatalogSource serves a fixed snapshot
type stubCatalogSource struct {
	snapshot *catalog.Snapshot
}

func (s *stubCatalogSource) Snapshot(ctx context.Context) (*catalog.Snapshot, error) {
	return s.snapshot, nil
}

// stubTagSource serves fixed tags and counts fetches
type stubTagSource struct {
	tags  map[uuid.UUID][]catalog.Observation
	calls int
}

func (s *stubTagSource) TagsForSubcategory(ctx context.Context, subcategoryID uuid.UUID) ([]catalog.Observation, error) {
	s.calls++
	return s.tags[subcategoryID], nil
}

type fixture struct {
	service  *CartService
	gateway  *MockSubmissionGateway
	tags     *stubTagSource
	product  catalog.Product
	priced   catalog.Product
	free     catalog.Product
	subID    uuid.UUID
	tagQueso catalog.Observation
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	subID := uuid.New()
	tagQueso := catalog.Observation{ID: uuid.New(), Text: "Extra queso", IsActive: true}
	tagInactive := catalog.Observation{ID: uuid.New(), Text: "Viejo", IsActive: false}

	product := catalog.Product{
		ID:            uuid.New(),
		Name:          "Lomo saltado",
		UnitPrice:     decimal.NewFromFloat(10.00),
		SubcategoryID: &subID,
		IsActive:      true,
	}
	free := catalog.Product{
		ID:       uuid.New(),
		Name:     "Cortesía",
		IsActive: true,
	}

	gateway := &MockSubmissionGateway{}
	tags := &stubTagSource{tags: map[uuid.UUID][]catalog.Observation{
		subID: {tagQueso, tagInactive},
	}}
	source := &stubCatalogSource{snapshot: &catalog.Snapshot{Products: []catalog.Product{product, free}}}
	builder := billing.NewBuilder(nil)

	service := NewCartService(source, tags, builder, gateway, decimal.NewFromFloat(10.5), nil)
	return &fixture{
		service:  service,
		gateway:  gateway,
		tags:     tags,
		product:  product,
		free:     free,
		subID:    subID,
		tagQueso: tagQueso,
	}
}

func (f *fixture) sessionWithProduct(t *testing.T, qty int64) *Session {
	t.Helper()
	session := f.service.CreateSession()
	_, err := f.service.AddProduct(context.Background(), session.ID, f.product.ID, qty)
	require.NoError(t, err)
	return session
}

func checkoutSelections(paid float64) billing.Selections {
	doc, serial, register := uuid.New(), uuid.New(), uuid.New()
	return billing.Selections{
		DocumentTypeID: &doc,
		SerialID:       &serial,
		CashRegisterID: &register,
		PaidAmount:     decimal.NewFromFloat(paid),
	}
}

func TestCartService_AddProduct(t *testing.T) {
	f := newFixture(t)
	session := f.service.CreateSession()
	require.NoError(t, f.service.SetSearchTerm(session.ID, "lomo"))

	line, err := f.service.AddProduct(context.Background(), session.ID, f.product.ID, 2)
	require.NoError(t, err)

	assert.Equal(t, int64(2), line.Quantity)
	// adding clears the active search term
	assert.Equal(t, "", session.SearchTerm)

	// same product merges into the existing line
	line2, err := f.service.AddProduct(context.Background(), session.ID, f.product.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, line.LineID, line2.LineID)
	assert.Equal(t, int64(3), line2.Quantity)
}

func TestCartService_AddProduct_UnknownProduct(t *testing.T) {
	f := newFixture(t)
	session := f.service.CreateSession()

	_, err := f.service.AddProduct(context.Background(), session.ID, uuid.New(), 1)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestCartService_AddProduct_InvalidPrice(t *testing.T) {
	f := newFixture(t)
	session := f.service.CreateSession()

	_, err := f.service.AddProduct(context.Background(), session.ID, f.free.ID, 1)

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, shared.CodeInvalidPrice, domainErr.Code)
}

func TestCartService_UnknownSession(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.AddProduct(context.Background(), uuid.New(), f.product.ID, 1)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	_, err = f.service.Totals(uuid.New())
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestCartService_Totals_UsesConfiguredRate(t *testing.T) {
	f := newFixture(t)
	session := f.sessionWithProduct(t, 3)
	require.NoError(t, f.service.SetDiscount(session.ID, decimal.NewFromInt(5), decimal.NewFromInt(10)))

	totals, err := f.service.Totals(session.ID)
	require.NoError(t, err)

	assert.Equal(t, "22.00", totals.NetTotal.StringFixed(2))
	assert.Equal(t, "19.91", totals.TaxableBase.StringFixed(2))
	assert.Equal(t, "2.09", totals.TaxAmount.StringFixed(2))
}

func TestNewCartService_FallbackTaxRate(t *testing.T) {
	f := newFixture(t)
	service := NewCartService(nil, f.tags, nil, nil, decimal.Zero, nil)
	assert.Equal(t, "10.5", service.TaxRatePercent().String())
}

func TestCartService_NotesFlow(t *testing.T) {
	f := newFixture(t)
	session := f.sessionWithProduct(t, 1)
	lineID := session.Cart.Lines[0].LineID

	editor, err := f.service.OpenNotes(context.Background(), session.ID, lineID)
	require.NoError(t, err)

	// inactive tags are filtered out
	require.Len(t, editor.AvailableTags(), 1)
	assert.Equal(t, "Extra queso", editor.AvailableTags()[0].Text)

	require.NoError(t, f.service.ToggleTag(session.ID, f.tagQueso.ID))
	require.NoError(t, f.service.EditNotesText(session.ID, "Extra queso, sin cebolla"))

	merged, err := f.service.CommitNotes(session.ID)
	require.NoError(t, err)
	assert.Equal(t, "Extra queso, sin cebolla", merged)

	line, ok := session.Cart.Line(lineID)
	require.True(t, ok)
	assert.Equal(t, "Extra queso, sin cebolla", line.Notes)

	// editor is closed after commit
	assert.ErrorIs(t, f.service.ToggleTag(session.ID, f.tagQueso.ID), shared.ErrInvalidState)
	_, err = f.service.NotesEditor(session.ID)
	assert.ErrorIs(t, err, shared.ErrInvalidState)
}

func TestCartService_NotesReopen_SeedsFromCommitted(t *testing.T) {
	f := newFixture(t)
	session := f.sessionWithProduct(t, 1)
	lineID := session.Cart.Lines[0].LineID
	require.NoError(t, session.Cart.SetNotes(lineID, "Extra queso, al punto"))

	editor, err := f.service.OpenNotes(context.Background(), session.ID, lineID)
	require.NoError(t, err)

	state := editor.State()
	assert.True(t, state.IsTagSelected(f.tagQueso.ID))
	assert.Equal(t, "al punto", state.ManualText)
}

func TestCartService_NotesCancel_KeepsCommitted(t *testing.T) {
	f := newFixture(t)
	session := f.sessionWithProduct(t, 1)
	lineID := session.Cart.Lines[0].LineID
	require.NoError(t, session.Cart.SetNotes(lineID, "original"))

	_, err := f.service.OpenNotes(context.Background(), session.ID, lineID)
	require.NoError(t, err)
	require.NoError(t, f.service.EditNotesText(session.ID, "otro texto"))
	require.NoError(t, f.service.CancelNotes(session.ID))

	line, _ := session.Cart.Line(lineID)
	assert.Equal(t, "original", line.Notes)
}

func TestCartService_TagCachePerSession(t *testing.T) {
	f := newFixture(t)
	session := f.sessionWithProduct(t, 1)
	lineID := session.Cart.Lines[0].LineID

	_, err := f.service.OpenNotes(context.Background(), session.ID, lineID)
	require.NoError(t, err)
	require.NoError(t, f.service.CancelNotes(session.ID))
	_, err = f.service.OpenNotes(context.Background(), session.ID, lineID)
	require.NoError(t, err)

	assert.Equal(t, 1, f.tags.calls)
}

func TestCartService_Checkout_ValidationSkipsGateway(t *testing.T) {
	f := newFixture(t)
	session := f.service.CreateSession()

	_, err := f.service.Checkout(context.Background(), session.ID)

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, shared.CodeValidationFailure, domainErr.Code)
	f.gateway.AssertNotCalled(t, "Submit", mock.Anything, mock.Anything)
}

func TestCartService_Checkout_SuccessResetsSession(t *testing.T) {
	f := newFixture(t)
	session := f.sessionWithProduct(t, 3)
	require.NoError(t, f.service.SetDiscount(session.ID, decimal.NewFromInt(5), decimal.NewFromInt(10)))
	require.NoError(t, f.service.SetSelections(session.ID, checkoutSelections(25.00)))

	f.gateway.On("Submit", mock.Anything, mock.Anything).Return(billing.Result{Success: true}, nil)

	payload, err := f.service.Checkout(context.Background(), session.ID)
	require.NoError(t, err)
	assert.Equal(t, "22.00", payload.NetTotal.StringFixed(2))

	assert.True(t, session.Cart.IsEmpty())
	assert.True(t, session.Cart.Discount.FixedAmount.IsZero())
	assert.Nil(t, session.Selections.DocumentTypeID)
	assert.Equal(t, "", session.SearchTerm)
}

func TestCartService_Checkout_GatewayFailureKeepsState(t *testing.T) {
	f := newFixture(t)
	session := f.sessionWithProduct(t, 3)
	require.NoError(t, f.service.SetSelections(session.ID, checkoutSelections(100)))

	f.gateway.On("Submit", mock.Anything, mock.Anything).Return(billing.Result{Success: false, Message: "serie agotada"}, nil)

	_, err := f.service.Checkout(context.Background(), session.ID)

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, shared.CodeSubmissionFailure, domainErr.Code)
	assert.Equal(t, "serie agotada", domainErr.Message)

	// cart and selections survive for retry
	assert.Len(t, session.Cart.Lines, 1)
	assert.NotNil(t, session.Selections.DocumentTypeID)
}

func TestCartService_Checkout_GatewayErrorGenericMessage(t *testing.T) {
	f := newFixture(t)
	session := f.sessionWithProduct(t, 1)
	require.NoError(t, f.service.SetSelections(session.ID, checkoutSelections(100)))

	f.gateway.On("Submit", mock.Anything, mock.Anything).Return(billing.Result{Success: false}, nil).Once()
	_, err := f.service.Checkout(context.Background(), session.ID)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "Invoice submission failed", domainErr.Message)

	f.gateway.On("Submit", mock.Anything, mock.Anything).Return(billing.Result{}, errors.New("connection refused")).Once()
	_, err = f.service.Checkout(context.Background(), session.ID)
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, shared.CodeSubmissionFailure, domainErr.Code)
}

func TestCartService_Checkout_ConcurrentAttemptSubmitsOnce(t *testing.T) {
	f := newFixture(t)
	session := f.sessionWithProduct(t, 1)
	require.NoError(t, f.service.SetSelections(session.ID, checkoutSelections(100)))

	inFlight := make(chan struct{})
	release := make(chan struct{})
	f.gateway.On("Submit", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			close(inFlight)
			<-release
		}).
		Return(billing.Result{Success: true}, nil).
		Once()

	firstErr := make(chan error, 1)
	go func() {
		_, err := f.service.Checkout(context.Background(), session.ID)
		firstErr <- err
	}()

	// second request arrives while the first holds the gateway connection
	<-inFlight
	_, err := f.service.Checkout(context.Background(), session.ID)
	assert.ErrorIs(t, err, shared.ErrSubmissionInFlight)

	close(release)
	require.NoError(t, <-firstErr)
	f.gateway.AssertNumberOfCalls(t, "Submit", 1)

	saving, err := f.service.IsSaving(session.ID)
	require.NoError(t, err)
	assert.False(t, saving)
}

func TestCartService_Checkout_RejectsReentrantSubmission(t *testing.T) {
	f := newFixture(t)
	session := f.sessionWithProduct(t, 1)
	require.NoError(t, f.service.SetSelections(session.ID, checkoutSelections(100)))

	var reentrantErr error
	f.gateway.On("Submit", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			// a second attempt while the first is in flight is rejected
			_, reentrantErr = f.service.Checkout(context.Background(), session.ID)
		}).
		Return(billing.Result{Success: true}, nil)

	_, err := f.service.Checkout(context.Background(), session.ID)
	require.NoError(t, err)
	assert.ErrorIs(t, reentrantErr, shared.ErrSubmissionInFlight)
}
