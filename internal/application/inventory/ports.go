package inventory

import (
	"context"

	"github.com/jhoicas/finca-api/internal/domain/entity"
	"github.com/jhoicas/finca-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Es la unidad de trabajo explícita del motor de
// ajustes: la frontera transaccional queda visible en la firma, no escondida
// en un singleton de conexión.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		itemRepo repository.InventoryItemRepository,
		movRepo repository.InventoryMovementRepository,
		productRepo repository.CatalogProductRepository,
		legacyRepo repository.LegacyStockRepository,
	) error) error
}

// MovementReportGenerator genera la representación PDF del historial de
// movimientos (exportación de auditoría).
type MovementReportGenerator interface {
	Generate(accountID string, movements []*entity.InventoryMovement) ([]byte, error)
}
