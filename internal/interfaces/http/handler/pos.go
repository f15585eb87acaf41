package handler

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pos/backend/internal/application/pos"
	"github.com/pos/backend/internal/domain/billing"
)

// PosHandler exposes the order-entry session API
type PosHandler struct {
	BaseHandler
	service *pos.CartService
}

// NewPosHandler creates a new PosHandler
func NewPosHandler(service *pos.CartService) *PosHandler {
	return &PosHandler{service: service}
}

// RegisterRoutes registers the session endpoints
func (h *PosHandler) RegisterRoutes(rg *gin.RouterGroup) {
	sessions := rg.Group("/sessions")
	{
		sessions.POST("", h.CreateSession)
		sessions.GET("/:id", h.GetSession)
		sessions.DELETE("/:id", h.CloseSession)
		sessions.PUT("/:id/search", h.SetSearchTerm)
		sessions.POST("/:id/lines", h.AddProduct)
		sessions.PUT("/:id/lines/:lineId/quantity", h.UpdateQuantity)
		sessions.DELETE("/:id/lines/:lineId", h.RemoveLine)
		sessions.PUT("/:id/discount", h.SetDiscount)
		sessions.GET("/:id/totals", h.GetTotals)
		sessions.PUT("/:id/selections", h.SetSelections)
		sessions.POST("/:id/lines/:lineId/notes", h.OpenNotes)
		sessions.POST("/:id/notes/tags/:tagId/toggle", h.ToggleTag)
		sessions.PUT("/:id/notes/text", h.EditNotesText)
		sessions.POST("/:id/notes/commit", h.CommitNotes)
		sessions.POST("/:id/notes/cancel", h.CancelNotes)
		sessions.POST("/:id/checkout", h.Checkout)
	}
}

// AddProductRequest adds a product to the cart
type AddProductRequest struct {
	ProductID string `json:"product_id" binding:"required,uuid"`
	Quantity  int64  `json:"quantity"`
}

// UpdateQuantityRequest carries the raw quantity input. It arrives as a
// string because the entry field is free-form; non-numeric input is
// coerced to 1 and zero or less removes the line.
type UpdateQuantityRequest struct {
	Quantity string `json:"quantity"`
}

// SetDiscountRequest replaces the order-level discount
type SetDiscountRequest struct {
	FixedAmount float64 `json:"fixed_amount"`
	Percent     float64 `json:"percent"`
}

// SetSearchTermRequest records the catalog search term
type SetSearchTermRequest struct {
	Term string `json:"term"`
}

// SetSelectionsRequest stores the checkout selections
type SetSelectionsRequest struct {
	DocumentTypeID *string `json:"document_type_id" binding:"omitempty,uuid"`
	SerialID       *string `json:"serial_id" binding:"omitempty,uuid"`
	CashRegisterID *string `json:"cash_register_id" binding:"omitempty,uuid"`
	CustomerID     *string `json:"customer_id" binding:"omitempty,uuid"`
	PaidAmount     float64 `json:"paid_amount" binding:"gte=0"`
}

// EditNotesTextRequest replaces the notes editor buffer from raw input
type EditNotesTextRequest struct {
	Text string `json:"text"`
}

// CreateSession opens a new order-entry session
func (h *PosHandler) CreateSession(c *gin.Context) {
	session := h.service.CreateSession()
	h.Created(c, pos.ToSessionResponse(session))
}

// GetSession returns the current session view
func (h *PosHandler) GetSession(c *gin.Context) {
	sessionID, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	view, err := h.service.SessionView(sessionID)
	if err != nil {
		h.DomainError(c, err)
		return
	}
	h.Success(c, view)
}

// CloseSession discards a session
func (h *PosHandler) CloseSession(c *gin.Context) {
	sessionID, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	h.service.CloseSession(sessionID)
	h.NoContent(c)
}

// SetSearchTerm records the active catalog search term
func (h *PosHandler) SetSearchTerm(c *gin.Context) {
	sessionID, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	var req SetSearchTermRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}
	if err := h.service.SetSearchTerm(sessionID, req.Term); err != nil {
		h.DomainError(c, err)
		return
	}
	h.NoContent(c)
}

// AddProduct adds a product to the session's cart
func (h *PosHandler) AddProduct(c *gin.Context) {
	sessionID, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	var req AddProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}
	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		h.BadRequest(c, "Invalid product id")
		return
	}

	line, err := h.service.AddProduct(c.Request.Context(), sessionID, productID, req.Quantity)
	if err != nil {
		h.DomainError(c, err)
		return
	}
	h.Success(c, pos.ToLineResponse(line))
}

// UpdateQuantity sets a line's quantity from the raw entry-field value
func (h *PosHandler) UpdateQuantity(c *gin.Context) {
	sessionID, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	lineID, ok := h.uuidParam(c, "lineId")
	if !ok {
		return
	}
	var req UpdateQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	if err := h.service.UpdateQuantity(sessionID, lineID, coerceQuantity(req.Quantity)); err != nil {
		h.DomainError(c, err)
		return
	}
	h.NoContent(c)
}

// RemoveLine deletes a cart line
func (h *PosHandler) RemoveLine(c *gin.Context) {
	sessionID, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	lineID, ok := h.uuidParam(c, "lineId")
	if !ok {
		return
	}
	if err := h.service.RemoveLine(sessionID, lineID); err != nil {
		h.DomainError(c, err)
		return
	}
	h.NoContent(c)
}

// SetDiscount replaces the order-level discount
func (h *PosHandler) SetDiscount(c *gin.Context) {
	sessionID, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	var req SetDiscountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}
	err := h.service.SetDiscount(sessionID,
		decimal.NewFromFloat(req.FixedAmount),
		decimal.NewFromFloat(req.Percent))
	if err != nil {
		h.DomainError(c, err)
		return
	}
	h.NoContent(c)
}

// GetTotals returns the derived order totals
func (h *PosHandler) GetTotals(c *gin.Context) {
	sessionID, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	totals, err := h.service.Totals(sessionID)
	if err != nil {
		h.DomainError(c, err)
		return
	}
	h.Success(c, pos.ToTotalsResponse(totals))
}

// SetSelections stores the checkout selections
func (h *PosHandler) SetSelections(c *gin.Context) {
	sessionID, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	var req SetSelectionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	sel := billing.Selections{PaidAmount: decimal.NewFromFloat(req.PaidAmount)}
	var parseErr error
	sel.DocumentTypeID, parseErr = parseOptionalUUID(req.DocumentTypeID, parseErr)
	sel.SerialID, parseErr = parseOptionalUUID(req.SerialID, parseErr)
	sel.CashRegisterID, parseErr = parseOptionalUUID(req.CashRegisterID, parseErr)
	sel.CustomerID, parseErr = parseOptionalUUID(req.CustomerID, parseErr)
	if parseErr != nil {
		h.BadRequest(c, "Invalid selection id")
		return
	}

	if err := h.service.SetSelections(sessionID, sel); err != nil {
		h.DomainError(c, err)
		return
	}
	h.NoContent(c)
}

// OpenNotes opens the notes editor for a line
func (h *PosHandler) OpenNotes(c *gin.Context) {
	sessionID, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	lineID, ok := h.uuidParam(c, "lineId")
	if !ok {
		return
	}
	if _, err := h.service.OpenNotes(c.Request.Context(), sessionID, lineID); err != nil {
		h.DomainError(c, err)
		return
	}
	h.editorView(c, sessionID)
}

// ToggleTag flips a predefined tag in the open editor
func (h *PosHandler) ToggleTag(c *gin.Context) {
	sessionID, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	tagID, ok := h.uuidParam(c, "tagId")
	if !ok {
		return
	}
	if err := h.service.ToggleTag(sessionID, tagID); err != nil {
		h.DomainError(c, err)
		return
	}
	h.editorView(c, sessionID)
}

// EditNotesText replaces the editor buffer from raw text
func (h *PosHandler) EditNotesText(c *gin.Context) {
	sessionID, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	var req EditNotesTextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}
	if err := h.service.EditNotesText(sessionID, req.Text); err != nil {
		h.DomainError(c, err)
		return
	}
	h.editorView(c, sessionID)
}

// CommitNotes stores the merged text on the line and closes the editor
func (h *PosHandler) CommitNotes(c *gin.Context) {
	sessionID, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	merged, err := h.service.CommitNotes(sessionID)
	if err != nil {
		h.DomainError(c, err)
		return
	}
	h.Success(c, gin.H{"notes": merged})
}

// CancelNotes closes the editor discarding its buffer
func (h *PosHandler) CancelNotes(c *gin.Context) {
	sessionID, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	if err := h.service.CancelNotes(sessionID); err != nil {
		h.DomainError(c, err)
		return
	}
	h.NoContent(c)
}

// Checkout submits the invoice for the session
func (h *PosHandler) Checkout(c *gin.Context) {
	sessionID, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	payload, err := h.service.Checkout(c.Request.Context(), sessionID)
	if err != nil {
		h.DomainError(c, err)
		return
	}
	h.Success(c, payload)
}

func (h *PosHandler) editorView(c *gin.Context, sessionID uuid.UUID) {
	view, err := h.service.NotesEditorView(sessionID)
	if err != nil {
		h.DomainError(c, err)
		return
	}
	h.Success(c, view)
}

func parseOptionalUUID(raw *string, prevErr error) (*uuid.UUID, error) {
	if prevErr != nil {
		return nil, prevErr
	}
	if raw == nil || *raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(*raw)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// coerceQuantity parses the raw quantity field: non-numeric input defaults
// to 1, numeric input is passed through (zero or less removes the line
// downstream)
func coerceQuantity(raw string) int64 {
	raw = strings.TrimSpace(raw)
	quantity, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 1
	}
	return quantity
}
