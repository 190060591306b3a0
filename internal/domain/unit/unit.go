// Package unit define las unidades de medida del inventario agrícola y la
// conversión entre unidades compatibles (masa y volumen).
package unit

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Unit unidad de medida soportada por el inventario.
type Unit string

// Unidades soportadas. Masa: g, kg. Volumen: ml, L, m3.
const (
	Gram       Unit = "g"
	Kilogram   Unit = "kg"
	Milliliter Unit = "ml"
	Liter      Unit = "L"
	CubicMeter Unit = "m3"
)

// Group grupo de compatibilidad de una unidad.
type Group int

const (
	GroupUnknown Group = iota
	GroupMass          // base: gramo
	GroupVolume        // base: mililitro
)

// Factores lineales hacia la unidad base del grupo (g para masa, ml para volumen).
var baseFactor = map[Unit]decimal.Decimal{
	Gram:       decimal.NewFromInt(1),
	Kilogram:   decimal.NewFromInt(1000),
	Milliliter: decimal.NewFromInt(1),
	Liter:      decimal.NewFromInt(1000),
	CubicMeter: decimal.NewFromInt(1000000),
}

// Group devuelve el grupo de compatibilidad de la unidad.
func (u Unit) Group() Group {
	switch u {
	case Gram, Kilogram:
		return GroupMass
	case Milliliter, Liter, CubicMeter:
		return GroupVolume
	}
	return GroupUnknown
}

// String implementa fmt.Stringer.
func (u Unit) String() string { return string(u) }

// Valid indica si la unidad pertenece al catálogo soportado.
func (u Unit) Valid() bool { return u.Group() != GroupUnknown }

// Parse normaliza un string de unidad del request HTTP o de la base de datos.
// Acepta mayúsculas/minúsculas y los alias "l"/"lt" (litro) y "m³" (metro cúbico).
// Devuelve false si la unidad no está en el catálogo: el rechazo ocurre en el
// borde (deserialización), no dentro del motor de ajustes.
func Parse(s string) (Unit, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "g", "gr", "gramo", "gramos":
		return Gram, true
	case "kg", "kilo", "kilos", "kilogramo", "kilogramos":
		return Kilogram, true
	case "ml", "mililitro", "mililitros":
		return Milliliter, true
	case "l", "lt", "litro", "litros":
		return Liter, true
	case "m3", "m³":
		return CubicMeter, true
	}
	return "", false
}

// Convert convierte value de la unidad from a la unidad to usando el factor
// lineal del grupo. Nunca falla:
//   - misma unidad: devuelve value sin tocar;
//   - unidades del mismo grupo: value * factor(from) / factor(to);
//   - grupos incompatibles (masa↔volumen) o unidad desconocida: devuelve value
//     SIN convertir. Es el comportamiento histórico de la app de campo: el
//     fallback silencioso está documentado y cubierto por test, y no debe
//     "corregirse" sin decisión de producto (cambiaría saldos ya registrados).
//
// Valores cero, negativos o fraccionarios pasan por el mismo escalado lineal.
func Convert(value decimal.Decimal, from, to Unit) decimal.Decimal {
	if from == to {
		return value
	}
	fg, tg := from.Group(), to.Group()
	if fg == GroupUnknown || tg == GroupUnknown || fg != tg {
		return value
	}
	return value.Mul(baseFactor[from]).Div(baseFactor[to])
}
