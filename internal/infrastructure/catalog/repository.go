// Package catalog provides the sqlite-backed store the order-entry core
// reads its catalog snapshot and observation tags from.
package catalog

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	domain "github.com/pos/backend/internal/domain/catalog"
)

type categoryRecord struct {
	ID   string `gorm:"primaryKey;size:36"`
	Name string `gorm:"size:200;not null"`
}

func (categoryRecord) TableName() string { return "categories" }

type subcategoryRecord struct {
	ID         string `gorm:"primaryKey;size:36"`
	CategoryID string `gorm:"size:36;index;not null"`
	Name       string `gorm:"size:200;not null"`
	IsActive   bool   `gorm:"not null;default:true"`
}

func (subcategoryRecord) TableName() string { return "subcategories" }

type productRecord struct {
	ID            string  `gorm:"primaryKey;size:36"`
	Name          string  `gorm:"size:200;not null"`
	SalePrice     string  `gorm:"size:32;not null"`
	SubcategoryID *string `gorm:"size:36;index"`
	IsActive      bool    `gorm:"not null;default:true"`
	ProductType   string  `gorm:"size:50"`
}

func (productRecord) TableName() string { return "products" }

type observationRecord struct {
	ID            string `gorm:"primaryKey;size:36"`
	SubcategoryID string `gorm:"size:36;index;not null"`
	Note          string `gorm:"size:500;not null"`
	IsActive      bool   `gorm:"not null;default:true"`
}

func (observationRecord) TableName() string { return "observations" }

// Open opens (and migrates) the catalog database at the given path
func Open(dbPath string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog database: %w", err)
	}
	if err := db.AutoMigrate(&categoryRecord{}, &subcategoryRecord{}, &productRecord{}, &observationRecord{}); err != nil {
		return nil, fmt.Errorf("failed to migrate catalog schema: %w", err)
	}
	return db, nil
}

// Store implements catalog.Source and catalog.TagSource on sqlite
type Store struct {
	db *gorm.DB
}

// NewStore creates a Store on an open database
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Snapshot loads the full catalog view
func (s *Store) Snapshot(ctx context.Context) (*domain.Snapshot, error) {
	var categories []categoryRecord
	if err := s.db.WithContext(ctx).Order("name").Find(&categories).Error; err != nil {
		return nil, err
	}
	var subcategories []subcategoryRecord
	if err := s.db.WithContext(ctx).Order("name").Find(&subcategories).Error; err != nil {
		return nil, err
	}
	var products []productRecord
	if err := s.db.WithContext(ctx).Order("name").Find(&products).Error; err != nil {
		return nil, err
	}

	snapshot := &domain.Snapshot{
		Categories: make([]domain.Category, 0, len(categories)),
		Products:   make([]domain.Product, 0, len(products)),
	}

	bySub := make(map[string][]domain.Subcategory)
	for _, rec := range subcategories {
		id, err := uuid.Parse(rec.ID)
		if err != nil {
			continue
		}
		bySub[rec.CategoryID] = append(bySub[rec.CategoryID], domain.Subcategory{
			ID:       id,
			Name:     rec.Name,
			IsActive: rec.IsActive,
		})
	}

	for _, rec := range categories {
		id, err := uuid.Parse(rec.ID)
		if err != nil {
			continue
		}
		snapshot.Categories = append(snapshot.Categories, domain.Category{
			ID:            id,
			Name:          rec.Name,
			Subcategories: bySub[rec.ID],
		})
	}

	for _, rec := range products {
		product, err := toDomainProduct(rec)
		if err != nil {
			continue
		}
		snapshot.Products = append(snapshot.Products, product)
	}

	return snapshot, nil
}

// TagsForSubcategory returns the active observation tags for a subcategory
func (s *Store) TagsForSubcategory(ctx context.Context, subcategoryID uuid.UUID) ([]domain.Observation, error) {
	var records []observationRecord
	if err := s.db.WithContext(ctx).
		Where("subcategory_id = ? AND is_active = ?", subcategoryID.String(), true).
		Order("note").
		Find(&records).Error; err != nil {
		return nil, err
	}

	tags := make([]domain.Observation, 0, len(records))
	for _, rec := range records {
		id, err := uuid.Parse(rec.ID)
		if err != nil {
			continue
		}
		tags = append(tags, domain.Observation{ID: id, Text: rec.Note, IsActive: rec.IsActive})
	}
	return tags, nil
}

func toDomainProduct(rec productRecord) (domain.Product, error) {
	id, err := uuid.Parse(rec.ID)
	if err != nil {
		return domain.Product{}, err
	}

	// Sale prices are stored as decimal strings; anything unparseable is
	// coerced to zero so the cart rejects the product with INVALID_PRICE.
	price, err := decimal.NewFromString(rec.SalePrice)
	if err != nil {
		price = decimal.Zero
	}

	var subID *uuid.UUID
	if rec.SubcategoryID != nil {
		if parsed, err := uuid.Parse(*rec.SubcategoryID); err == nil {
			subID = &parsed
		}
	}

	return domain.Product{
		ID:            id,
		Name:          rec.Name,
		UnitPrice:     price,
		SubcategoryID: subID,
		IsActive:      rec.IsActive,
		ProductType:   rec.ProductType,
	}, nil
}
