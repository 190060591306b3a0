package inventory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/finca-api/internal/domain"
	"github.com/jhoicas/finca-api/internal/domain/entity"
	"github.com/jhoicas/finca-api/internal/domain/repository"
	"github.com/jhoicas/finca-api/internal/domain/unit"
)

// StockOperation un delta firmado contra un producto dentro de un lote.
// Unit vacía significa "en la unidad nativa del ítem". Context opcional:
// actividad/módulo/día que originó la operación.
type StockOperation struct {
	ProductID  string
	Amount     decimal.Decimal
	Unit       unit.Unit
	Operation  string // entity.OperationAdd | entity.OperationSubtract
	Reason     string
	ActivityID string
	Module     string
	DayIndex   *int
}

// AdjustResult resultado de un lote aplicado: saldo resultante por producto.
type AdjustResult struct {
	Balances map[string]decimal.Decimal
}

// AdjustStockUseCase es el motor de ajustes de stock: aplica un lote de
// operaciones firmadas contra posiblemente varios productos, todo dentro de
// una sola transacción. O se aplican todas las operaciones o ninguna. El
// chequeo de no-negatividad vive en el update condicional del repositorio, así
// que dos lotes concurrentes sobre el mismo ítem nunca comprometen un saldo
// negativo.
//
// No reintenta internamente: ante stock insuficiente o fallo de transacción el
// caller debe recalcular sus deltas (el estado pudo cambiar) y reenviar.
type AdjustStockUseCase struct {
	txRunner TxRunner
	resolver *Resolver
}

// NewAdjustStockUseCase construye el caso de uso.
func NewAdjustStockUseCase(txRunner TxRunner, resolver *Resolver) *AdjustStockUseCase {
	return &AdjustStockUseCase{txRunner: txRunner, resolver: resolver}
}

// AdjustStock valida el lote, abre la transacción, resuelve cada producto,
// aplica primero TODAS las sumas y luego TODAS las restas (sin fusionar
// operaciones del mismo producto: una resta del lote puede netear contra una
// suma previa sobre el mismo ítem), y registra un movimiento por operación
// aplicada con el saldo posterior exacto.
//
// Errores: *domain.ItemNotFoundError, *domain.InsufficientStockError,
// domain.ErrInvalidInput, o domain.ErrTransactionFailed (envuelto) para fallos
// de infraestructura. Siempre valores tipados, nunca pánicos.
func (uc *AdjustStockUseCase) AdjustStock(ctx context.Context, accountID string, ops []StockOperation) (*AdjustResult, error) {
	if accountID == "" || len(ops) == 0 {
		return nil, domain.ErrInvalidInput
	}
	for _, op := range ops {
		if op.ProductID == "" || !entity.ValidOperation(op.Operation) || !entity.ValidModule(op.Module) {
			return nil, domain.ErrInvalidInput
		}
		if !op.Amount.IsPositive() {
			return nil, domain.ErrInvalidInput
		}
		if op.Unit != "" && !op.Unit.Valid() {
			return nil, domain.ErrInvalidInput
		}
	}

	result := &AdjustResult{Balances: make(map[string]decimal.Decimal, len(ops))}

	err := uc.txRunner.Run(ctx, func(
		itemRepo repository.InventoryItemRepository,
		movRepo repository.InventoryMovementRepository,
		productRepo repository.CatalogProductRepository,
		legacyRepo repository.LegacyStockRepository,
	) error {
		// Resolver todos los productos antes de tocar saldos: si uno falla,
		// se aborta sin estado parcial.
		items := make(map[string]*entity.InventoryItem, len(ops))
		for _, op := range ops {
			if _, ok := items[op.ProductID]; ok {
				continue
			}
			item, err := uc.resolver.Resolve(itemRepo, productRepo, legacyRepo, accountID, op.ProductID)
			if err != nil {
				return err
			}
			items[op.ProductID] = item
		}

		// Sumas primero, restas después: maximiza que una resta del lote
		// netee contra una suma del mismo lote sobre el mismo ítem.
		ordered := make([]StockOperation, 0, len(ops))
		for _, op := range ops {
			if op.Operation == entity.OperationAdd {
				ordered = append(ordered, op)
			}
		}
		for _, op := range ops {
			if op.Operation == entity.OperationSubtract {
				ordered = append(ordered, op)
			}
		}

		now := time.Now()
		for _, op := range ordered {
			item := items[op.ProductID]
			opUnit := op.Unit
			if opUnit == "" {
				opUnit = item.Unit
			}
			converted := unit.Convert(op.Amount, opUnit, item.Unit)

			var balance decimal.Decimal
			var err error
			if op.Operation == entity.OperationAdd {
				balance, err = itemRepo.AddStock(item.ID, converted)
			} else {
				balance, err = itemRepo.SubtractStock(item.ID, converted)
				if errors.Is(err, domain.ErrInsufficientStock) {
					available := item.CurrentStock
					if fresh, gerr := itemRepo.GetByID(item.ID); gerr == nil && fresh != nil {
						available = fresh.CurrentStock
					}
					return &domain.InsufficientStockError{
						ProductID: op.ProductID,
						Available: available,
						Requested: converted,
						Unit:      item.Unit,
					}
				}
			}
			if err != nil {
				return err
			}

			mov := &entity.InventoryMovement{
				AccountID:        accountID,
				InventoryItemID:  item.ID,
				ProductID:        op.ProductID,
				ProductName:      item.ProductName,
				Operation:        op.Operation,
				Amount:           op.Amount,
				Unit:             opUnit,
				AmountInItemUnit: converted,
				BalanceAfter:     balance,
				Reason:           op.Reason,
				ActivityID:       op.ActivityID,
				Module:           op.Module,
				DayIndex:         op.DayIndex,
				CreatedAt:        now,
			}
			if err := movRepo.Create(mov); err != nil {
				return err
			}
			item.CurrentStock = balance
			result.Balances[op.ProductID] = balance
		}
		return nil
	})
	if err != nil {
		var notFound *domain.ItemNotFoundError
		var insufficient *domain.InsufficientStockError
		if errors.As(err, &notFound) || errors.As(err, &insufficient) || errors.Is(err, domain.ErrInvalidInput) {
			return nil, err
		}
		// Fallo de persistencia (conexión, conflicto, timeout, ctx cancelado):
		// la transacción quedó revertida, sin efectos.
		return nil, fmt.Errorf("%w: %v", domain.ErrTransactionFailed, err)
	}
	return result, nil
}
