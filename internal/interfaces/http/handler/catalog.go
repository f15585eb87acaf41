package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/pos/backend/internal/domain/catalog"
)

// CatalogHandler serves the read-only catalog view
type CatalogHandler struct {
	BaseHandler
	source catalog.Source
	tags   catalog.TagSource
}

// NewCatalogHandler creates a new CatalogHandler
func NewCatalogHandler(source catalog.Source, tags catalog.TagSource) *CatalogHandler {
	return &CatalogHandler{source: source, tags: tags}
}

// RegisterRoutes registers the catalog endpoints
func (h *CatalogHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/catalog", h.GetSnapshot)
	rg.GET("/subcategories/:id/tags", h.GetTags)
}

type subcategoryView struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	IsActive bool   `json:"is_active"`
}

type categoryView struct {
	ID            string            `json:"id"`
	Name          string            `json:"name"`
	Subcategories []subcategoryView `json:"subcategories"`
}

type productView struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	SalePrice     string  `json:"sale_price"`
	SubcategoryID *string `json:"subcategory_id,omitempty"`
	IsActive      bool    `json:"is_active"`
	ProductType   string  `json:"product_type,omitempty"`
}

type snapshotView struct {
	Categories []categoryView `json:"categories"`
	Products   []productView  `json:"products"`
}

// GetSnapshot returns the full catalog view
func (h *CatalogHandler) GetSnapshot(c *gin.Context) {
	snapshot, err := h.source.Snapshot(c.Request.Context())
	if err != nil {
		h.DomainError(c, err)
		return
	}

	view := snapshotView{
		Categories: make([]categoryView, 0, len(snapshot.Categories)),
		Products:   make([]productView, 0, len(snapshot.Products)),
	}
	for _, cat := range snapshot.Categories {
		cv := categoryView{ID: cat.ID.String(), Name: cat.Name}
		for _, sub := range cat.Subcategories {
			cv.Subcategories = append(cv.Subcategories, subcategoryView{
				ID:       sub.ID.String(),
				Name:     sub.Name,
				IsActive: sub.IsActive,
			})
		}
		view.Categories = append(view.Categories, cv)
	}
	for _, p := range snapshot.Products {
		pv := productView{
			ID:          p.ID.String(),
			Name:        p.Name,
			SalePrice:   p.UnitPrice.StringFixed(2),
			IsActive:    p.IsActive,
			ProductType: p.ProductType,
		}
		if p.SubcategoryID != nil {
			id := p.SubcategoryID.String()
			pv.SubcategoryID = &id
		}
		view.Products = append(view.Products, pv)
	}
	h.Success(c, view)
}

// GetTags returns the active observation tags for a subcategory
func (h *CatalogHandler) GetTags(c *gin.Context) {
	subID, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	tags, err := h.tags.TagsForSubcategory(c.Request.Context(), subID)
	if err != nil {
		h.DomainError(c, err)
		return
	}

	views := make([]gin.H, 0, len(tags))
	for _, tag := range tags {
		views = append(views, gin.H{"id": tag.ID.String(), "text": tag.Text})
	}
	h.Success(c, views)
}
