package inventory

import (
	"context"
	"fmt"

	"github.com/jhoicas/finca-api/internal/domain/repository"
)

// reportMaxMovements tope de filas del PDF de auditoría.
const reportMaxMovements = 500

// MovementReportUseCase exporta el historial de movimientos como PDF
// (representación imprimible del rastro de auditoría).
type MovementReportUseCase struct {
	movRepo   repository.InventoryMovementRepository
	generator MovementReportGenerator
}

// NewMovementReportUseCase construye el caso de uso.
func NewMovementReportUseCase(movRepo repository.InventoryMovementRepository, generator MovementReportGenerator) *MovementReportUseCase {
	return &MovementReportUseCase{movRepo: movRepo, generator: generator}
}

// GenerateReport consulta los movimientos con los filtros dados y devuelve los
// bytes del PDF.
func (uc *MovementReportUseCase) GenerateReport(_ context.Context, accountID string, filter repository.MovementFilter) ([]byte, error) {
	movements, err := uc.movRepo.List(accountID, filter, reportMaxMovements, 0)
	if err != nil {
		return nil, fmt.Errorf("listar movimientos para reporte: %w", err)
	}
	return uc.generator.Generate(accountID, movements)
}
