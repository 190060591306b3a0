package entity

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/finca-api/internal/domain/unit"
)

// CatalogProduct es la entrada del catálogo de productos (colaborador externo:
// el CRUD de catálogo vive fuera de este servicio). El resolver la usa para
// vincular o materializar ítems de inventario de forma perezosa.
type CatalogProduct struct {
	ID           string
	AccountID    string
	Name         string
	Type         string // fertilizer | water | phytosanitary
	Unit         unit.Unit
	PricePerUnit decimal.Decimal
	CreatedAt    time.Time
}
