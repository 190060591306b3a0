package repository

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/finca-api/internal/domain/entity"
	"github.com/jhoicas/finca-api/internal/domain/unit"
)

// InventoryItemRepository define el puerto de persistencia para ítems de
// inventario. AddStock y SubtractStock son las ÚNICAS vías para mutar
// CurrentStock: el chequeo de suficiencia y el decremento ocurren en un solo
// update condicional en la base, nunca como read-modify-write separado.
type InventoryItemRepository interface {
	GetByID(id string) (*entity.InventoryItem, error)
	// GetActiveByProduct obtiene el ítem activo vinculado a un producto del
	// catálogo. Devuelve nil sin error si no existe.
	GetActiveByProduct(accountID, productID string) (*entity.InventoryItem, error)
	// ListActiveUnlinked lista los ítems activos de la cuenta sin vínculo a
	// producto (candidatos a vinculación perezosa por nombre).
	ListActiveUnlinked(accountID string) ([]*entity.InventoryItem, error)
	Create(item *entity.InventoryItem) error
	// LinkProduct vincula un ítem sin producto al catálogo. Solo aplica si la
	// fila sigue sin vínculo (product_id IS NULL): re-ejecutar es inocuo.
	LinkProduct(itemID, productID, productType string, unitIfEmpty unit.Unit) error
	// AddStock incrementa el saldo de forma atómica y devuelve el saldo
	// resultante.
	AddStock(itemID string, qty decimal.Decimal) (decimal.Decimal, error)
	// SubtractStock decrementa el saldo SOLO si el saldo previo alcanza
	// (update condicional). Devuelve domain.ErrInsufficientStock si no alcanza.
	SubtractStock(itemID string, qty decimal.Decimal) (decimal.Decimal, error)
	// GetBalances consulta en lote el saldo actual de un conjunto de productos.
	GetBalances(accountID string, productIDs []string) ([]*entity.InventoryItem, error)
}
