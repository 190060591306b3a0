package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/finca-api/internal/domain"
	"github.com/jhoicas/finca-api/internal/domain/entity"
	"github.com/jhoicas/finca-api/internal/domain/repository"
	"github.com/jhoicas/finca-api/internal/domain/unit"
)

var _ repository.InventoryItemRepository = (*InventoryItemRepo)(nil)

// InventoryItemRepo implementación de InventoryItemRepository sobre PostgreSQL
// (usable con pool o tx).
type InventoryItemRepo struct {
	q Querier
}

// NewInventoryItemRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInventoryItemRepository(q Querier) *InventoryItemRepo {
	return &InventoryItemRepo{q: q}
}

const itemColumns = `id, account_id, product_id, product_name, product_type,
	current_stock, min_stock, critical_stock, unit, location, expiry_date, active, last_updated`

func scanItem(row pgx.Row) (*entity.InventoryItem, error) {
	var i entity.InventoryItem
	var productID, location *string
	var u string
	err := row.Scan(
		&i.ID, &i.AccountID, &productID, &i.ProductName, &i.ProductType,
		&i.CurrentStock, &i.MinStock, &i.CriticalStock, &u, &location,
		&i.ExpiryDate, &i.Active, &i.LastUpdated,
	)
	if err != nil {
		return nil, err
	}
	if productID != nil {
		i.ProductID = *productID
	}
	if location != nil {
		i.Location = *location
	}
	i.Unit = unit.Unit(u)
	return &i, nil
}

// GetByID obtiene un ítem por ID. Devuelve nil sin error si no existe.
func (r *InventoryItemRepo) GetByID(id string) (*entity.InventoryItem, error) {
	query := `SELECT ` + itemColumns + ` FROM inventory_items WHERE id = $1`
	item, err := scanItem(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get inventory item: %w", err)
	}
	return item, nil
}

// GetActiveByProduct obtiene el ítem activo vinculado a un producto.
func (r *InventoryItemRepo) GetActiveByProduct(accountID, productID string) (*entity.InventoryItem, error) {
	query := `SELECT ` + itemColumns + `
		FROM inventory_items
		WHERE account_id = $1 AND product_id = $2 AND active`
	item, err := scanItem(r.q.QueryRow(context.Background(), query, accountID, productID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get item by product: %w", err)
	}
	return item, nil
}

// ListActiveUnlinked lista ítems activos sin vínculo a producto del catálogo.
func (r *InventoryItemRepo) ListActiveUnlinked(accountID string) ([]*entity.InventoryItem, error) {
	query := `SELECT ` + itemColumns + `
		FROM inventory_items
		WHERE account_id = $1 AND product_id IS NULL AND active
		ORDER BY product_name`
	rows, err := r.q.Query(context.Background(), query, accountID)
	if err != nil {
		return nil, fmt.Errorf("list unlinked items: %w", err)
	}
	defer rows.Close()
	var list []*entity.InventoryItem
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan inventory item: %w", err)
		}
		list = append(list, item)
	}
	return list, rows.Err()
}

// Create persiste un ítem nuevo. La unicidad por (account_id, product_id) hace
// fallar la inserción si otro proceso ya materializó el mismo producto.
func (r *InventoryItemRepo) Create(item *entity.InventoryItem) error {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	query := `
		INSERT INTO inventory_items
			(id, account_id, product_id, product_name, product_type, current_stock,
			 min_stock, critical_stock, unit, location, expiry_date, active, last_updated)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, now())`
	productID := (*string)(nil)
	if item.ProductID != "" {
		productID = &item.ProductID
	}
	location := (*string)(nil)
	if item.Location != "" {
		location = &item.Location
	}
	_, err := r.q.Exec(context.Background(), query,
		item.ID, item.AccountID, productID, item.ProductName, item.ProductType,
		item.CurrentStock, item.MinStock, item.CriticalStock, string(item.Unit),
		location, item.ExpiryDate, item.Active,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("create inventory item: %w", domain.ErrDuplicate)
		}
		return fmt.Errorf("create inventory item: %w", err)
	}
	return nil
}

// LinkProduct vincula un ítem sin producto al catálogo. El predicado
// product_id IS NULL vuelve la operación idempotente; la violación de unicidad
// por (account_id, product_id) se reporta como ErrDuplicate para que el caller
// re-lea el ítem ya vinculado.
func (r *InventoryItemRepo) LinkProduct(itemID, productID, productType string, unitIfEmpty unit.Unit) error {
	query := `
		UPDATE inventory_items
		SET product_id = $2,
		    product_type = $3,
		    unit = COALESCE(NULLIF(unit, ''), $4),
		    last_updated = now()
		WHERE id = $1 AND product_id IS NULL`
	tag, err := r.q.Exec(context.Background(), query, itemID, productID, productType, string(unitIfEmpty))
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("link product: %w", domain.ErrDuplicate)
		}
		return fmt.Errorf("link product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("link product: %w", domain.ErrDuplicate)
	}
	return nil
}

// AddStock incrementa el saldo de forma atómica y devuelve el saldo resultante.
func (r *InventoryItemRepo) AddStock(itemID string, qty decimal.Decimal) (decimal.Decimal, error) {
	query := `
		UPDATE inventory_items
		SET current_stock = current_stock + $2, last_updated = now()
		WHERE id = $1
		RETURNING current_stock`
	var balance decimal.Decimal
	if err := r.q.QueryRow(context.Background(), query, itemID, qty).Scan(&balance); err != nil {
		return decimal.Zero, fmt.Errorf("add stock: %w", err)
	}
	return balance, nil
}

// SubtractStock decrementa el saldo en un solo update condicional: el chequeo
// de suficiencia y la resta son UNA escritura atómica, no un read-check-write.
// Si la condición no aplica (saldo insuficiente, quizá por un ajuste
// concurrente) devuelve domain.ErrInsufficientStock.
func (r *InventoryItemRepo) SubtractStock(itemID string, qty decimal.Decimal) (decimal.Decimal, error) {
	query := `
		UPDATE inventory_items
		SET current_stock = current_stock - $2, last_updated = now()
		WHERE id = $1 AND current_stock >= $2
		RETURNING current_stock`
	var balance decimal.Decimal
	err := r.q.QueryRow(context.Background(), query, itemID, qty).Scan(&balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Zero, domain.ErrInsufficientStock
		}
		return decimal.Zero, fmt.Errorf("subtract stock: %w", err)
	}
	return balance, nil
}

// GetBalances consulta en lote el saldo actual de un conjunto de productos.
func (r *InventoryItemRepo) GetBalances(accountID string, productIDs []string) ([]*entity.InventoryItem, error) {
	query := `SELECT ` + itemColumns + `
		FROM inventory_items
		WHERE account_id = $1 AND product_id = ANY($2) AND active
		ORDER BY product_name`
	rows, err := r.q.Query(context.Background(), query, accountID, productIDs)
	if err != nil {
		return nil, fmt.Errorf("get balances: %w", err)
	}
	defer rows.Close()
	var list []*entity.InventoryItem
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan inventory item: %w", err)
		}
		list = append(list, item)
	}
	return list, rows.Err()
}
