package pos

import (
	"github.com/pos/backend/internal/domain/cart"
	"github.com/pos/backend/internal/domain/catalog"
	"github.com/pos/backend/internal/domain/notes"
	"github.com/pos/backend/internal/domain/shared/valueobject"
)

// LineResponse is the API view of a cart line
type LineResponse struct {
	LineID    string `json:"line_id"`
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	UnitPrice string `json:"unit_price"`
	Quantity  int64  `json:"quantity"`
	LineTotal string `json:"line_total"`
	Notes     string `json:"notes"`
}

// TotalsResponse is the API view of the derived order totals
type TotalsResponse struct {
	Currency       string `json:"currency"`
	RawTotal       string `json:"raw_total"`
	TotalDiscount  string `json:"total_discount"`
	NetTotal       string `json:"net_total"`
	TaxRatePercent string `json:"tax_rate_percent"`
	TaxableBase    string `json:"taxable_base"`
	TaxAmount      string `json:"tax_amount"`
}

// SessionResponse is the API view of an order-entry session
type SessionResponse struct {
	SessionID  string         `json:"session_id"`
	Lines      []LineResponse `json:"lines"`
	SearchTerm string         `json:"search_term,omitempty"`
	Discount   struct {
		FixedAmount string `json:"fixed_amount"`
		Percent     string `json:"percent"`
	} `json:"discount"`
}

// TagResponse is the API view of a predefined observation tag
type TagResponse struct {
	ID       string `json:"id"`
	Text     string `json:"text"`
	Selected bool   `json:"selected"`
}

// NotesEditorResponse is the API view of the open notes editor
type NotesEditorResponse struct {
	LineID     string        `json:"line_id"`
	MergedText string        `json:"merged_text"`
	ManualText string        `json:"manual_text"`
	Tags       []TagResponse `json:"tags"`
}

// ToLineResponse converts a cart line to its API view
func ToLineResponse(line cart.Line) LineResponse {
	return LineResponse{
		LineID:    line.LineID.String(),
		ProductID: line.ProductID.String(),
		Name:      line.Name,
		UnitPrice: line.UnitPrice.StringFixed(2),
		Quantity:  line.Quantity,
		LineTotal: line.LineTotal.StringFixed(2),
		Notes:     line.Notes,
	}
}

// ToSessionResponse converts a session to its API view
func ToSessionResponse(session *Session) SessionResponse {
	lines := make([]LineResponse, 0, len(session.Cart.Lines))
	for _, line := range session.Cart.Lines {
		lines = append(lines, ToLineResponse(line))
	}
	resp := SessionResponse{
		SessionID:  session.ID.String(),
		Lines:      lines,
		SearchTerm: session.SearchTerm,
	}
	resp.Discount.FixedAmount = session.Cart.Discount.FixedAmount.StringFixed(2)
	resp.Discount.Percent = session.Cart.Discount.Percent.StringFixed(2)
	return resp
}

// ToTotalsResponse converts order totals to their API view
func ToTotalsResponse(totals cart.Totals) TotalsResponse {
	return TotalsResponse{
		Currency:       string(valueobject.DefaultCurrency),
		RawTotal:       totals.RawTotal.StringFixed(2),
		TotalDiscount:  totals.TotalDiscount.StringFixed(2),
		NetTotal:       totals.NetTotal.StringFixed(2),
		TaxRatePercent: totals.TaxRatePercent.String(),
		TaxableBase:    totals.TaxableBase.StringFixed(2),
		TaxAmount:      totals.TaxAmount.StringFixed(2),
	}
}

// ToNotesEditorResponse converts an open editor to its API view
func ToNotesEditorResponse(editor *notes.EditorSession) NotesEditorResponse {
	state := editor.State()
	tags := make([]TagResponse, 0, len(editor.AvailableTags()))
	for _, tag := range editor.AvailableTags() {
		tags = append(tags, toTagResponse(tag, state.IsTagSelected(tag.ID)))
	}
	return NotesEditorResponse{
		LineID:     editor.LineID().String(),
		MergedText: editor.MergedText(),
		ManualText: state.ManualText,
		Tags:       tags,
	}
}

func toTagResponse(tag catalog.Observation, selected bool) TagResponse {
	return TagResponse{
		ID:       tag.ID.String(),
		Text:     tag.Text,
		Selected: selected,
	}
}
