package entity

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/finca-api/internal/domain/unit"
)

// LegacyStockRecord es un registro del catálogo antiguo de la app de campo
// (versiones previas guardaban el stock junto al producto, sin ledger). El
// resolver migra estos registros a InventoryItem la primera vez que el
// producto aparece en un ajuste.
type LegacyStockRecord struct {
	ID          string
	AccountID   string
	ProductName string
	Quantity    decimal.Decimal
	MinStock    decimal.Decimal
	Unit        unit.Unit
	CreatedAt   time.Time
}
