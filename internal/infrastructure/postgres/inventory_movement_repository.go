package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/finca-api/internal/domain/entity"
	"github.com/jhoicas/finca-api/internal/domain/repository"
	"github.com/jhoicas/finca-api/internal/domain/unit"
)

var _ repository.InventoryMovementRepository = (*InventoryMovementRepo)(nil)

// InventoryMovementRepo implementación sobre PostgreSQL del libro de
// movimientos (solo-inserción; no expone Update ni Delete).
type InventoryMovementRepo struct {
	q Querier
}

// NewInventoryMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInventoryMovementRepository(q Querier) *InventoryMovementRepo {
	return &InventoryMovementRepo{q: q}
}

const movementColumns = `id, account_id, inventory_item_id, product_id, product_name,
	operation, amount, unit, amount_in_item_unit, balance_after,
	reason, activity_id, module, day_index, created_at`

// Create persiste una entrada del libro.
func (r *InventoryMovementRepo) Create(m *entity.InventoryMovement) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	query := `
		INSERT INTO inventory_movements
			(id, account_id, inventory_item_id, product_id, product_name,
			 operation, amount, unit, amount_in_item_unit, balance_after,
			 reason, activity_id, module, day_index, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	reason := nullable(m.Reason)
	activityID := nullable(m.ActivityID)
	module := nullable(m.Module)
	_, err := r.q.Exec(context.Background(), query,
		m.ID, m.AccountID, m.InventoryItemID, m.ProductID, m.ProductName,
		m.Operation, m.Amount, string(m.Unit), m.AmountInItemUnit, m.BalanceAfter,
		reason, activityID, module, m.DayIndex, m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create movement: %w", err)
	}
	return nil
}

// List consulta movimientos de la cuenta con filtros opcionales, más
// recientes primero.
func (r *InventoryMovementRepo) List(accountID string, f repository.MovementFilter, limit, offset int) ([]*entity.InventoryMovement, error) {
	query := `SELECT ` + movementColumns + ` FROM inventory_movements WHERE account_id = $1`
	args := []any{accountID}
	pos := 2
	if f.ProductID != "" {
		query += fmt.Sprintf(" AND product_id = $%d", pos)
		args = append(args, f.ProductID)
		pos++
	}
	if f.ActivityID != "" {
		query += fmt.Sprintf(" AND activity_id = $%d", pos)
		args = append(args, f.ActivityID)
		pos++
	}
	if f.Module != "" {
		query += fmt.Sprintf(" AND module = $%d", pos)
		args = append(args, f.Module)
		pos++
	}
	if f.DateFrom != nil {
		query += fmt.Sprintf(" AND created_at >= $%d", pos)
		args = append(args, *f.DateFrom)
		pos++
	}
	if f.DateTo != nil {
		query += fmt.Sprintf(" AND created_at <= $%d", pos)
		args = append(args, *f.DateTo)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()
	return scanMovements(rows)
}

// ListByItem devuelve los movimientos de un ítem en orden de creación
// ascendente, para reconstruir el saldo por replay.
func (r *InventoryMovementRepo) ListByItem(inventoryItemID string) ([]*entity.InventoryMovement, error) {
	query := `SELECT ` + movementColumns + `
		FROM inventory_movements
		WHERE inventory_item_id = $1
		ORDER BY created_at ASC, id ASC`
	rows, err := r.q.Query(context.Background(), query, inventoryItemID)
	if err != nil {
		return nil, fmt.Errorf("list movements by item: %w", err)
	}
	defer rows.Close()
	return scanMovements(rows)
}

func scanMovements(rows pgx.Rows) ([]*entity.InventoryMovement, error) {
	var list []*entity.InventoryMovement
	for rows.Next() {
		var m entity.InventoryMovement
		var reason, activityID, module *string
		var u string
		if err := rows.Scan(
			&m.ID, &m.AccountID, &m.InventoryItemID, &m.ProductID, &m.ProductName,
			&m.Operation, &m.Amount, &u, &m.AmountInItemUnit, &m.BalanceAfter,
			&reason, &activityID, &module, &m.DayIndex, &m.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		m.Unit = unit.Unit(u)
		if reason != nil {
			m.Reason = *reason
		}
		if activityID != nil {
			m.ActivityID = *activityID
		}
		if module != nil {
			m.Module = *module
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
