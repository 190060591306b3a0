package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/finca-api/internal/domain/unit"
)

// Errores de dominio (sin dependencias de infraestructura).
var (
	ErrNotFound              = errors.New("recurso no encontrado")
	ErrInvalidInput          = errors.New("entrada inválida")
	ErrDuplicate             = errors.New("recurso duplicado")
	ErrUnauthorized          = errors.New("no autorizado")
	ErrInventoryItemNotFound = errors.New("ítem de inventario no encontrado")
	ErrInsufficientStock     = errors.New("stock insuficiente")
	ErrTransactionFailed     = errors.New("transacción fallida")
)

// ItemNotFoundError indica que un producto no pudo resolverse a un ítem de
// inventario, ni siquiera tras intentar vincular o migrar desde el catálogo
// legado. El lote completo se aborta sin efectos.
type ItemNotFoundError struct {
	ProductID string
}

func (e *ItemNotFoundError) Error() string {
	return fmt.Sprintf("ítem de inventario no encontrado para producto %s", e.ProductID)
}

// Is permite errors.Is(err, ErrInventoryItemNotFound).
func (e *ItemNotFoundError) Is(target error) bool {
	return target == ErrInventoryItemNotFound || target == ErrNotFound
}

// InsufficientStockError indica que una resta dejaría el saldo negativo.
// Available y Requested van en la unidad nativa del ítem para que el caller
// pueda mostrar un mensaje accionable.
type InsufficientStockError struct {
	ProductID string
	Available decimal.Decimal
	Requested decimal.Decimal
	Unit      unit.Unit
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente para producto %s: disponible %s %s, solicitado %s %s",
		e.ProductID, e.Available, e.Unit, e.Requested, e.Unit)
}

// Is permite errors.Is(err, ErrInsufficientStock).
func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}
