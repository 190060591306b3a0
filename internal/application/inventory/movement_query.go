package inventory

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/finca-api/internal/domain"
	"github.com/jhoicas/finca-api/internal/domain/entity"
	"github.com/jhoicas/finca-api/internal/domain/repository"
)

// MovementQueryUseCase consulta de solo lectura sobre el libro de movimientos
// y los saldos actuales, para auditoría e historial. No muta nada.
type MovementQueryUseCase struct {
	movRepo  repository.InventoryMovementRepository
	itemRepo repository.InventoryItemRepository
}

// NewMovementQueryUseCase construye el caso de uso con repos sobre el pool
// (fuera de transacción: los lectores nunca bloquean a los escritores porque
// la tabla de movimientos es solo-inserción).
func NewMovementQueryUseCase(movRepo repository.InventoryMovementRepository, itemRepo repository.InventoryItemRepository) *MovementQueryUseCase {
	return &MovementQueryUseCase{movRepo: movRepo, itemRepo: itemRepo}
}

// ListMovements lista movimientos de la cuenta filtrando por producto,
// actividad, módulo y rango de fechas; más recientes primero.
func (uc *MovementQueryUseCase) ListMovements(_ context.Context, accountID string, filter repository.MovementFilter, limit, offset int) ([]*entity.InventoryMovement, error) {
	return uc.movRepo.List(accountID, filter, limit, offset)
}

// GetBalances consulta en lote el saldo actual (CurrentStock + unidad) de un
// conjunto de productos.
func (uc *MovementQueryUseCase) GetBalances(_ context.Context, accountID string, productIDs []string) ([]*entity.InventoryItem, error) {
	if len(productIDs) == 0 {
		return nil, nil
	}
	return uc.itemRepo.GetBalances(accountID, productIDs)
}

// BalanceAt reconstruye el saldo de un producto en un instante pasado
// rebobinando el ledger: saldo actual menos la suma firmada de los movimientos
// posteriores al instante. Funciona también para ítems migrados del catálogo
// antiguo, cuyo saldo inicial no tiene movimiento asociado.
func (uc *MovementQueryUseCase) BalanceAt(_ context.Context, accountID, productID string, at time.Time) (*entity.InventoryItem, decimal.Decimal, error) {
	item, err := uc.itemRepo.GetActiveByProduct(accountID, productID)
	if err != nil {
		return nil, decimal.Zero, err
	}
	if item == nil {
		return nil, decimal.Zero, &domain.ItemNotFoundError{ProductID: productID}
	}
	movements, err := uc.movRepo.ListByItem(item.ID)
	if err != nil {
		return nil, decimal.Zero, err
	}
	balance := item.CurrentStock
	for _, m := range movements {
		if m.CreatedAt.After(at) {
			balance = balance.Sub(m.SignedAmount())
		}
	}
	return item, balance, nil
}
