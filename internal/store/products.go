package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/desimart/storefront-manager/internal/dependency"
	"github.com/desimart/storefront-manager/internal/entity"
)

type productStore struct {
	*MYSQLStore
}

// Products returns an object implementing product catalog reader interface
func (ms *MYSQLStore) Products() dependency.Products {
	return &productStore{
		MYSQLStore: ms,
	}
}

func (ms *MYSQLStore) GetProductById(ctx context.Context, id int) (*entity.Product, error) {
	query := `
		SELECT id, title, description, brand, category, subcategory, origin, price,
			currency, inventory, is_available, rating, source, source_id, created_at, updated_at
		FROM product WHERE id = :id`
	p, err := QueryNamedOne[entity.Product](ctx, ms.DB(), query, map[string]any{"id": id})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("can't get product by id: %w", err)
	}
	return &p, nil
}

// catalogWhere renders the product predicate over the bare product table.
func catalogWhere(pp entity.ProductPredicate, params map[string]any) string {
	conds := []string{"1=1"}
	if pp.Category != "" {
		conds = append(conds, "category = :category")
		params["category"] = pp.Category
	}
	if pp.Origin != "" {
		conds = append(conds, "origin = :origin")
		params["origin"] = pp.Origin
	}
	return strings.Join(conds, " AND ")
}

func (ms *MYSQLStore) CountProducts(ctx context.Context, pp entity.ProductPredicate) (int, error) {
	params := map[string]any{}
	query := fmt.Sprintf(`SELECT COUNT(*) FROM product WHERE %s`, catalogWhere(pp, params))
	count, err := QueryCountNamed(ctx, ms.DB(), query, params)
	if err != nil {
		return 0, fmt.Errorf("can't count products: %w", err)
	}
	return count, nil
}

func (ms *MYSQLStore) ProductsByOrigin(ctx context.Context, pp entity.ProductPredicate) ([]entity.CountGroup, error) {
	params := map[string]any{}
	query := fmt.Sprintf(`
		SELECT origin AS k, COUNT(*) AS cnt
		FROM product
		WHERE %s
		GROUP BY origin
		ORDER BY cnt DESC`,
		catalogWhere(pp, params))
	rows, err := QueryListNamed[entity.CountGroup](ctx, ms.DB(), query, params)
	if err != nil {
		return nil, fmt.Errorf("can't get products by origin: %w", err)
	}
	return rows, nil
}

func (ms *MYSQLStore) ProductsByCategory(ctx context.Context, pp entity.ProductPredicate) ([]entity.CountGroup, error) {
	params := map[string]any{}
	query := fmt.Sprintf(`
		SELECT category AS k, COUNT(*) AS cnt
		FROM product
		WHERE %s
		GROUP BY category
		ORDER BY cnt DESC`,
		catalogWhere(pp, params))
	rows, err := QueryListNamed[entity.CountGroup](ctx, ms.DB(), query, params)
	if err != nil {
		return nil, fmt.Errorf("can't get products by category: %w", err)
	}
	return rows, nil
}

func (ms *MYSQLStore) GetProductsPaged(ctx context.Context, f entity.CatalogFilter, sortFactor entity.SortFactor, order entity.OrderFactor, limit, offset int) ([]entity.Product, int, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	if !entity.IsValidSortFactor(string(sortFactor)) {
		sortFactor = entity.SortCreatedAt
	}

	params := map[string]any{}
	conds := []string{"1=1"}
	if f.Search != "" {
		conds = append(conds, "(title LIKE :search OR description LIKE :search OR brand LIKE :search)")
		params["search"] = "%" + f.Search + "%"
	}
	if f.Category != "" {
		conds = append(conds, "category = :category")
		params["category"] = f.Category
	}
	if f.Origin != "" {
		conds = append(conds, "origin = :origin")
		params["origin"] = f.Origin
	}
	if f.MinPrice.Valid {
		conds = append(conds, "price >= :minPrice")
		params["minPrice"] = f.MinPrice.Decimal
	}
	if f.MaxPrice.Valid {
		conds = append(conds, "price <= :maxPrice")
		params["maxPrice"] = f.MaxPrice.Decimal
	}
	switch f.Stock {
	case entity.StockIn:
		conds = append(conds, "inventory > 0")
	case entity.StockOut:
		conds = append(conds, "inventory = 0")
	}
	where := strings.Join(conds, " AND ")

	total, err := QueryCountNamed(ctx, ms.DB(),
		fmt.Sprintf(`SELECT COUNT(*) FROM product WHERE %s`, where), params)
	if err != nil {
		return nil, 0, fmt.Errorf("can't count filtered products: %w", err)
	}

	params["limit"] = limit
	params["offset"] = offset
	query := fmt.Sprintf(`
		SELECT id, title, description, brand, category, subcategory, origin, price,
			currency, inventory, is_available, rating, source, source_id, created_at, updated_at
		FROM product
		WHERE %s
		ORDER BY %s %s
		LIMIT :limit OFFSET :offset`,
		where, sortFactor, order.String())
	products, err := QueryListNamed[entity.Product](ctx, ms.DB(), query, params)
	if err != nil {
		return nil, 0, fmt.Errorf("can't list products: %w", err)
	}
	return products, total, nil
}

func (ms *MYSQLStore) AllStock(ctx context.Context) ([]entity.ProductStock, error) {
	query := `
		SELECT id, title, category, origin, price, inventory, is_available
		FROM product
		ORDER BY id ASC`
	rows, err := QueryListNamed[entity.ProductStock](ctx, ms.DB(), query, map[string]any{})
	if err != nil {
		return nil, fmt.Errorf("can't get stock: %w", err)
	}
	return rows, nil
}
