package entity

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/finca-api/internal/domain/unit"
)

// Operaciones de movimiento de inventario.
const (
	OperationAdd      = "add"      // abono al stock (reversa de consumo, compra)
	OperationSubtract = "subtract" // débito al stock (consumo en campo)
)

// Módulos de actividad que originan movimientos.
const (
	ModuleFertigation   = "fertigation"   // fertirriego
	ModulePhytosanitary = "phytosanitary" // tratamientos fitosanitarios
	ModuleWater         = "water"         // riego / consumo de agua
)

// InventoryMovement es una entrada inmutable del libro de movimientos: un
// registro por operación aplicada, solo-inserción. Nunca se actualiza ni se
// borra. Reproducir los movimientos de un ítem en orden de creación, sumando
// AmountInItemUnit con signo, reconstruye exactamente CurrentStock.
type InventoryMovement struct {
	ID               string
	AccountID        string
	InventoryItemID  string
	ProductID        string
	ProductName      string
	Operation        string          // add | subtract
	Amount           decimal.Decimal // como se recibió en la operación
	Unit             unit.Unit       // como se recibió en la operación
	AmountInItemUnit decimal.Decimal // convertido a la unidad nativa del ítem
	BalanceAfter     decimal.Decimal // CurrentStock inmediatamente después de aplicar
	Reason           string
	ActivityID       string // registro diario que originó el movimiento
	Module           string // fertigation | phytosanitary | water
	DayIndex         *int   // día dentro del registro de actividad
	CreatedAt        time.Time
}

// SignedAmount devuelve AmountInItemUnit con el signo de la operación.
func (m *InventoryMovement) SignedAmount() decimal.Decimal {
	if m.Operation == OperationSubtract {
		return m.AmountInItemUnit.Neg()
	}
	return m.AmountInItemUnit
}

// ValidOperation indica si op es una operación de movimiento conocida.
func ValidOperation(op string) bool {
	return op == OperationAdd || op == OperationSubtract
}

// ValidModule indica si m es un módulo de actividad conocido (vacío permitido:
// movimientos manuales sin actividad asociada).
func ValidModule(m string) bool {
	return m == "" || m == ModuleFertigation || m == ModulePhytosanitary || m == ModuleWater
}
