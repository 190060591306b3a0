package repository

import (
	"time"

	"github.com/jhoicas/finca-api/internal/domain/entity"
)

// MovementFilter filtros de consulta del libro de movimientos.
type MovementFilter struct {
	ProductID  string
	ActivityID string
	Module     string
	DateFrom   *time.Time
	DateTo     *time.Time
}

// InventoryMovementRepository define el puerto de persistencia del libro de
// movimientos. La tabla es solo-inserción: no hay Update ni Delete.
type InventoryMovementRepository interface {
	Create(movement *entity.InventoryMovement) error
	// List consulta movimientos de la cuenta, más recientes primero.
	List(accountID string, filter MovementFilter, limit, offset int) ([]*entity.InventoryMovement, error)
	// ListByItem devuelve todos los movimientos de un ítem en orden de
	// creación ascendente (para reconstruir el saldo).
	ListByItem(inventoryItemID string) ([]*entity.InventoryMovement, error)
}
