// Package pdf implementa la exportación imprimible del historial de
// movimientos de inventario (rastro de auditoría).
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Historial de movimientos + fecha de generación      │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Fecha | Producto | Op | Cant | Unidad | Saldo        │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: total de movimientos                                │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"fmt"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	appinventory "github.com/jhoicas/finca-api/internal/application/inventory"
	"github.com/jhoicas/finca-api/internal/domain/entity"
)

var (
	colorPrimary = &props.Color{Red: 34, Green: 102, Blue: 51}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

var _ appinventory.MovementReportGenerator = (*MarotoReportGenerator)(nil)

// MarotoReportGenerator implementa inventory.MovementReportGenerator usando
// Maroto v2.
type MarotoReportGenerator struct{}

// NewMarotoReportGenerator construye el generador.
func NewMarotoReportGenerator() *MarotoReportGenerator { return &MarotoReportGenerator{} }

// Generate genera el PDF y devuelve sus bytes.
func (g *MarotoReportGenerator) Generate(accountID string, movements []*entity.InventoryMovement) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Historial de movimientos de inventario", true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow())
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(tableHeaderRow())
	for _, mov := range movements {
		m.AddRows(movementRow(mov))
	}
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(footerRow(len(movements)))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// headerRow: título del reporte y fecha de generación.
func headerRow() core.Row {
	return row.New(14).Add(
		col.New(8).Add(
			text.New("Historial de movimientos de inventario", props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
		),
		col.New(4).Add(
			text.New("Generado: "+time.Now().Format("02/01/2006 15:04"), props.Text{
				Size: 8, Top: 4, Align: align.Right, Color: colorGray,
			}),
		),
	)
}

func tableHeaderRow() core.Row {
	header := props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary}
	return row.New(7).Add(
		col.New(2).Add(text.New("Fecha", header)),
		col.New(3).Add(text.New("Producto", header)),
		col.New(1).Add(text.New("Op", header)),
		col.New(2).Add(text.New("Cantidad", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Align: align.Right})),
		col.New(2).Add(text.New("Convertida", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Align: align.Right})),
		col.New(2).Add(text.New("Saldo", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Align: align.Right})),
	)
}

func movementRow(m *entity.InventoryMovement) core.Row {
	op := "+"
	if m.Operation == entity.OperationSubtract {
		op = "−"
	}
	cell := props.Text{Size: 8}
	right := props.Text{Size: 8, Align: align.Right}
	return row.New(6).Add(
		col.New(2).Add(text.New(m.CreatedAt.Format("02/01/2006 15:04"), cell)),
		col.New(3).Add(text.New(m.ProductName, cell)),
		col.New(1).Add(text.New(op, cell)),
		col.New(2).Add(text.New(m.Amount.String()+" "+m.Unit.String(), right)),
		col.New(2).Add(text.New(m.AmountInItemUnit.String(), right)),
		col.New(2).Add(text.New(m.BalanceAfter.String(), right)),
	)
}

func footerRow(total int) core.Row {
	return row.New(8).Add(
		col.New(12).Add(
			text.New(fmt.Sprintf("%d movimientos", total), props.Text{
				Size: 8, Top: 2, Color: colorGray,
			}),
		),
	)
}
