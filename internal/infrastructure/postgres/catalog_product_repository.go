package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/finca-api/internal/domain/entity"
	"github.com/jhoicas/finca-api/internal/domain/repository"
	"github.com/jhoicas/finca-api/internal/domain/unit"
)

var _ repository.CatalogProductRepository = (*CatalogProductRepo)(nil)

// CatalogProductRepo adaptador de solo lectura hacia el catálogo de productos.
type CatalogProductRepo struct {
	q Querier
}

// NewCatalogProductRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCatalogProductRepository(q Querier) *CatalogProductRepo {
	return &CatalogProductRepo{q: q}
}

// GetByID obtiene un producto del catálogo. Devuelve nil sin error si no existe.
func (r *CatalogProductRepo) GetByID(accountID, productID string) (*entity.CatalogProduct, error) {
	query := `
		SELECT id, account_id, name, type, unit, price_per_unit, created_at
		FROM catalog_products WHERE account_id = $1 AND id = $2`
	var p entity.CatalogProduct
	var u string
	err := r.q.QueryRow(context.Background(), query, accountID, productID).Scan(
		&p.ID, &p.AccountID, &p.Name, &p.Type, &u, &p.PricePerUnit, &p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get catalog product: %w", err)
	}
	p.Unit = unit.Unit(u)
	return &p, nil
}
