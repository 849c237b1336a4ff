package sqlite

import (
	"context"
	"database/sql"
	"strings"

	"github.com/nimbuzyn/nimbuzyn/internal/nimbuzyn/domain"
)

type productsRepo struct {
	db dbtx
}

const productColumns = `id, owner_id, code, name, quantity, net_value,
	sale_value, profit_value, created_at, updated_at`

func scanProduct(scan func(dest ...any) error) (domain.Product, error) {
	var p domain.Product
	err := scan(&p.ID, &p.OwnerID, &p.Code, &p.Name, &p.Quantity, &p.NetValue,
		&p.SaleValue, &p.ProfitValue, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func (r *productsRepo) CreateProduct(ctx context.Context, p domain.Product) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO products (id, owner_id, code, name, quantity, net_value,
			sale_value, profit_value, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.OwnerID, p.Code, p.Name, p.Quantity, p.NetValue,
		p.SaleValue, p.ProfitValue, p.CreatedAt, p.UpdatedAt,
	)
	return mapConstraint(err)
}

func (r *productsRepo) GetProduct(ctx context.Context, ownerID, productID string) (domain.Product, error) {
	p, err := scanProduct(r.db.QueryRowContext(ctx,
		`SELECT `+productColumns+` FROM products WHERE owner_id = ? AND id = ?`,
		ownerID, productID).Scan)
	if err != nil {
		return domain.Product{}, mapNotFound(err)
	}
	return p, nil
}

func (r *productsRepo) UpdateProduct(ctx context.Context, p domain.Product) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE products SET code = ?, name = ?, quantity = ?, net_value = ?,
			sale_value = ?, profit_value = ?, updated_at = ?
		WHERE owner_id = ? AND id = ?`,
		p.Code, p.Name, p.Quantity, p.NetValue,
		p.SaleValue, p.ProfitValue, p.UpdatedAt,
		p.OwnerID, p.ID,
	)
	if err != nil {
		return mapConstraint(err)
	}
	return affectedOrNotFound(res, nil)
}

func (r *productsRepo) DeleteProduct(ctx context.Context, ownerID, productID string) error {
	return affectedOrNotFound(r.db.ExecContext(ctx,
		`DELETE FROM products WHERE owner_id = ? AND id = ?`, ownerID, productID))
}

func (r *productsRepo) ListProducts(ctx context.Context, ownerID string) ([]domain.Product, error) {
	return r.queryProducts(ctx,
		`SELECT `+productColumns+` FROM products WHERE owner_id = ? ORDER BY name COLLATE NOCASE ASC`,
		ownerID)
}

// likeEscaper makes LIKE metacharacters in user queries match literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func (r *productsRepo) SearchProducts(ctx context.Context, ownerID, query string) ([]domain.Product, error) {
	// LIKE is case-insensitive for ASCII in sqlite, which matches the
	// case-insensitive substring contract. The query is a literal
	// substring, so its wildcards are escaped.
	pattern := "%" + likeEscaper.Replace(query) + "%"
	return r.queryProducts(ctx, `
		SELECT `+productColumns+` FROM products
		WHERE owner_id = ? AND (code LIKE ? ESCAPE '\' OR name LIKE ? ESCAPE '\')
		ORDER BY name COLLATE NOCASE ASC`,
		ownerID, pattern, pattern)
}

func (r *productsRepo) SummarizeInventory(ctx context.Context, ownerID string) (domain.InventorySummary, error) {
	var summary domain.InventorySummary
	var totalNet, totalProfit sql.NullFloat64

	// Profit is recomputed from sale and net here rather than read from the
	// stored derived column, so the aggregate can never drift.
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
			SUM(quantity * net_value),
			SUM(quantity * (sale_value - net_value))
		FROM products WHERE owner_id = ?`, ownerID).
		Scan(&summary.TotalProducts, &totalNet, &totalProfit)
	if err != nil {
		return domain.InventorySummary{}, err
	}
	summary.TotalNetValue = totalNet.Float64
	summary.TotalProfit = totalProfit.Float64

	summary.OutOfStock, err = r.queryProducts(ctx, `
		SELECT `+productColumns+` FROM products
		WHERE owner_id = ? AND quantity < 1
		ORDER BY name COLLATE NOCASE ASC`, ownerID)
	if err != nil {
		return domain.InventorySummary{}, err
	}
	return summary, nil
}

func (r *productsRepo) queryProducts(ctx context.Context, query string, args ...any) ([]domain.Product, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		p, err := scanProduct(rows.Scan)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}
