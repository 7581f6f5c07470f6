package postgres

import (
	"context"
	"fmt"
	"myBrandStore/domain"
	"myBrandStore/pkg/logger"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"
)

// CatalogRepository applies optimizer decisions to the local products table.
// Product ids in the metrics store are the decimal products.id; other ids
// have no row here and are skipped. Each call runs as a single statement or
// transaction and is never retried, so the run id is not needed.
type CatalogRepository struct {
	DB *gorm.DB
}

func NewCatalogRepository(db *gorm.DB) *CatalogRepository {
	return &CatalogRepository{
		DB: db,
	}
}

// RemoveProducts returns the number of rows deleted.
func (r *CatalogRepository) RemoveProducts(ctx context.Context, runID string, productIDs []string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, fmt.Errorf("context error: %w", err)
	}

	ids := parseProductIDs(productIDs)
	if len(ids) == 0 {
		return 0, nil
	}

	result := r.DB.WithContext(ctx).Where("id IN ?", ids).Delete(&domain.Product{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to delete products: %w", result.Error)
	}

	return int(result.RowsAffected), nil
}

// ReplicateProducts clones each product variationsPerProduct times in one
// transaction. Ids with no matching row are skipped.
func (r *CatalogRepository) ReplicateProducts(ctx context.Context, runID string, productIDs []string, variationsPerProduct int) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, fmt.Errorf("context error: %w", err)
	}

	ids := parseProductIDs(productIDs)
	if len(ids) == 0 || variationsPerProduct <= 0 {
		return 0, nil
	}

	created := 0
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var originals []domain.Product
		if err := tx.Where("id IN ?", ids).Find(&originals).Error; err != nil {
			return fmt.Errorf("failed to find products: %w", err)
		}

		variations := make([]domain.Product, 0, len(originals)*variationsPerProduct)
		for _, p := range originals {
			variations = append(variations, buildVariations(p, variationsPerProduct)...)
		}
		if len(variations) == 0 {
			return nil
		}

		if err := tx.Create(&variations).Error; err != nil {
			return fmt.Errorf("failed to create product variations: %w", err)
		}
		created = len(variations)

		return nil
	})
	if err != nil {
		return 0, err
	}

	return created, nil
}

func buildVariations(p domain.Product, n int) []domain.Product {
	parent := p.ID
	out := make([]domain.Product, 0, n)

	for i := 1; i <= n; i++ {
		v := p
		v.ID = 0
		v.VariationOf = &parent
		v.ProductName = fmt.Sprintf("%s (Variation %d)", p.ProductName, i)
		if p.SKU != "" {
			v.SKU = fmt.Sprintf("%s-V%d", p.SKU, i)
		}
		v.CreatedAt = time.Time{}
		out = append(out, v)
	}

	return out
}

func parseProductIDs(productIDs []string) []uint64 {
	ids := make([]uint64, 0, len(productIDs))
	for _, raw := range productIDs {
		id, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 64)
		if err != nil {
			logger.Warn("skipping non-numeric product id", "product_id", raw)
			continue
		}
		ids = append(ids, id)
	}

	return ids
}
