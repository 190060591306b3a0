package entity

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/finca-api/internal/domain/unit"
)

// Tipos de producto de inventario agrícola.
const (
	ProductTypeFertilizer    = "fertilizer"    // fertilizante
	ProductTypeWater         = "water"         // agua
	ProductTypePhytosanitary = "phytosanitary" // fitosanitario
)

// InventoryItem representa el stock de un producto para una cuenta (finca).
// Una fila por (cuenta, producto). CurrentStock nunca es negativo y solo
// cambia a través del motor de ajustes (AdjustStockUseCase), jamás por edición
// directa del saldo almacenado.
type InventoryItem struct {
	ID            string
	AccountID     string
	ProductID     string // vínculo lógico al catálogo; vacío hasta resolverse
	ProductName   string
	ProductType   string // fertilizer | water | phytosanitary
	CurrentStock  decimal.Decimal
	MinStock      decimal.Decimal
	CriticalStock decimal.Decimal
	Unit          unit.Unit // unidad nativa: CurrentStock se almacena en esta unidad
	Location      string
	ExpiryDate    *time.Time
	Active        bool
	LastUpdated   time.Time
}

// Linked indica si el ítem ya está vinculado a un producto del catálogo.
func (i *InventoryItem) Linked() bool { return i.ProductID != "" }
