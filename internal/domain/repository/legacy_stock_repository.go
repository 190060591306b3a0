package repository

import "github.com/jhoicas/finca-api/internal/domain/entity"

// LegacyStockRepository puerto de solo lectura hacia el catálogo antiguo de la
// app de campo. Usado únicamente por el resolver para migración perezosa.
type LegacyStockRepository interface {
	ListByAccount(accountID string) ([]*entity.LegacyStockRecord, error)
}
