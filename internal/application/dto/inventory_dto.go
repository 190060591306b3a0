package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockOperationRequest una operación del lote de ajuste.
// unit vacía = unidad nativa del ítem. activity_id/module/day_index: contexto
// del registro diario que originó el consumo (fertirriego, fitosanitario, agua).
type StockOperationRequest struct {
	ProductID  string          `json:"product_id"`
	Amount     decimal.Decimal `json:"amount"`
	Unit       string          `json:"unit,omitempty"`
	Operation  string          `json:"operation"` // add | subtract
	Reason     string          `json:"reason,omitempty"`
	ActivityID string          `json:"activity_id,omitempty"`
	Module     string          `json:"module,omitempty"` // fertigation | phytosanitary | water
	DayIndex   *int            `json:"day_index,omitempty"`
}

// AdjustStockRequest body para POST /api/inventory/adjust.
type AdjustStockRequest struct {
	Operations []StockOperationRequest `json:"operations"`
}

// AdjustStockResponse saldos resultantes por producto tras aplicar el lote.
type AdjustStockResponse struct {
	Balances map[string]decimal.Decimal `json:"balances"`
}

// InsufficientStockDetails detalles del error INSUFFICIENT_STOCK, en la unidad
// nativa del ítem.
type InsufficientStockDetails struct {
	ProductID string          `json:"product_id"`
	Available decimal.Decimal `json:"available"`
	Requested decimal.Decimal `json:"requested"`
	Unit      string          `json:"unit"`
}

// ItemNotFoundDetails detalles del error INVENTORY_ITEM_NOT_FOUND.
type ItemNotFoundDetails struct {
	ProductID string `json:"product_id"`
}

// BalanceDTO saldo actual de un producto.
type BalanceDTO struct {
	ProductID    string          `json:"product_id"`
	ProductName  string          `json:"product_name"`
	CurrentStock decimal.Decimal `json:"current_stock"`
	Unit         string          `json:"unit"`
}

// BalanceAtDTO saldo reconstruido de un producto en un instante pasado.
type BalanceAtDTO struct {
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	At          time.Time       `json:"at"`
	Balance     decimal.Decimal `json:"balance"`
	Unit        string          `json:"unit"`
}

// MovementDTO una entrada del libro de movimientos en respuestas HTTP.
type MovementDTO struct {
	ID               string          `json:"id"`
	InventoryItemID  string          `json:"inventory_item_id"`
	ProductID        string          `json:"product_id"`
	ProductName      string          `json:"product_name"`
	Operation        string          `json:"operation"`
	Amount           decimal.Decimal `json:"amount"`
	Unit             string          `json:"unit"`
	AmountInItemUnit decimal.Decimal `json:"amount_in_item_unit"`
	BalanceAfter     decimal.Decimal `json:"balance_after"`
	Reason           string          `json:"reason,omitempty"`
	ActivityID       string          `json:"activity_id,omitempty"`
	Module           string          `json:"module,omitempty"`
	DayIndex         *int            `json:"day_index,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
}

// MovementListResponse página de movimientos.
type MovementListResponse struct {
	Total     int           `json:"total"`
	Movements []MovementDTO `json:"movements"`
}
