package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/finca-api/internal/domain/entity"
	"github.com/jhoicas/finca-api/internal/domain/repository"
	"github.com/jhoicas/finca-api/internal/domain/unit"
)

var _ repository.LegacyStockRepository = (*LegacyStockRepo)(nil)

// LegacyStockRepo adaptador de solo lectura hacia el catálogo antiguo
// (legacy_products, stock embebido sin ledger).
type LegacyStockRepo struct {
	q Querier
}

// NewLegacyStockRepository construye el adaptador. Pasar pool o tx (Querier).
func NewLegacyStockRepository(q Querier) *LegacyStockRepo {
	return &LegacyStockRepo{q: q}
}

// ListByAccount lista los registros del catálogo antiguo de la cuenta.
func (r *LegacyStockRepo) ListByAccount(accountID string) ([]*entity.LegacyStockRecord, error) {
	query := `
		SELECT id, account_id, product_name, quantity, min_stock, unit, created_at
		FROM legacy_products WHERE account_id = $1`
	rows, err := r.q.Query(context.Background(), query, accountID)
	if err != nil {
		return nil, fmt.Errorf("list legacy products: %w", err)
	}
	defer rows.Close()
	var list []*entity.LegacyStockRecord
	for rows.Next() {
		var rec entity.LegacyStockRecord
		var u *string
		if err := rows.Scan(&rec.ID, &rec.AccountID, &rec.ProductName, &rec.Quantity, &rec.MinStock, &u, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan legacy product: %w", err)
		}
		if u != nil {
			rec.Unit = unit.Unit(*u)
		}
		list = append(list, &rec)
	}
	return list, rows.Err()
}
