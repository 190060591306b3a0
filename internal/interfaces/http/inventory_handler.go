package http

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/finca-api/internal/application/dto"
	"github.com/jhoicas/finca-api/internal/application/inventory"
	"github.com/jhoicas/finca-api/internal/domain"
	"github.com/jhoicas/finca-api/internal/domain/entity"
	"github.com/jhoicas/finca-api/internal/domain/repository"
	"github.com/jhoicas/finca-api/internal/domain/unit"
)

// InventoryHandler maneja las peticiones HTTP del motor de inventario
// (protegido: requiere Bearer Token).
type InventoryHandler struct {
	adjustUC *inventory.AdjustStockUseCase
	queryUC  *inventory.MovementQueryUseCase
	reportUC *inventory.MovementReportUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(
	adjustUC *inventory.AdjustStockUseCase,
	queryUC *inventory.MovementQueryUseCase,
	reportUC *inventory.MovementReportUseCase,
) *InventoryHandler {
	return &InventoryHandler{adjustUC: adjustUC, queryUC: queryUC, reportUC: reportUC}
}

// AdjustStock godoc
// @Summary      Aplicar un lote atómico de ajustes de stock
// @Description  Aplica sumas y restas contra uno o varios productos en UNA
// @Description  transacción: o se aplican todas las operaciones o ninguna.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AdjustStockRequest  true  "operations: product_id, amount, unit?, operation (add|subtract), reason?, activity_id?, module?, day_index?"
// @Success      200   {object}  dto.AdjustStockResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      500   {object}  dto.ErrorResponse
// @Router       /api/inventory/adjust [post]
func (h *InventoryHandler) AdjustStock(c *fiber.Ctx) error {
	accountID := GetAccountID(c)
	if accountID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.AdjustStockRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}

	ops := make([]inventory.StockOperation, 0, len(in.Operations))
	for _, op := range in.Operations {
		var u unit.Unit
		if op.Unit != "" {
			parsed, ok := unit.Parse(op.Unit)
			if !ok {
				return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
					Code: "INVALID_UNIT", Message: "unidad desconocida: " + op.Unit,
				})
			}
			u = parsed
		}
		ops = append(ops, inventory.StockOperation{
			ProductID:  op.ProductID,
			Amount:     op.Amount,
			Unit:       u,
			Operation:  op.Operation,
			Reason:     op.Reason,
			ActivityID: op.ActivityID,
			Module:     op.Module,
			DayIndex:   op.DayIndex,
		})
	}

	result, err := h.adjustUC.AdjustStock(c.Context(), accountID, ops)
	if err != nil {
		return h.adjustError(c, err)
	}
	return c.JSON(dto.AdjustStockResponse{Balances: result.Balances})
}

// adjustError traduce los errores tipados del motor de ajustes a respuestas
// HTTP con detalles accionables. Ningún error del motor llega como pánico.
func (h *InventoryHandler) adjustError(c *fiber.Ctx, err error) error {
	var notFound *domain.ItemNotFoundError
	if errors.As(err, &notFound) {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Code:    "INVENTORY_ITEM_NOT_FOUND",
			Message: "producto sin ítem de inventario",
			Details: dto.ItemNotFoundDetails{ProductID: notFound.ProductID},
		})
	}
	var insufficient *domain.InsufficientStockError
	if errors.As(err, &insufficient) {
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
			Code:    "INSUFFICIENT_STOCK",
			Message: "stock insuficiente",
			Details: dto.InsufficientStockDetails{
				ProductID: insufficient.ProductID,
				Available: insufficient.Available,
				Requested: insufficient.Requested,
				Unit:      insufficient.Unit.String(),
			},
		})
	}
	if errors.Is(err, domain.ErrInvalidInput) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
	}
	// transaction_failed: error genérico y reintentable para el caller, que
	// debe recalcular sus deltas antes de reenviar.
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "TRANSACTION_FAILED", Message: "no se pudo aplicar el ajuste, intente de nuevo"})
}

// GetBalances godoc
// @Summary      Saldo actual de un conjunto de productos
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        product_ids  query  string  true  "IDs de producto separados por coma"
// @Success      200  {array}   dto.BalanceDTO
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/inventory/balances [get]
func (h *InventoryHandler) GetBalances(c *fiber.Ctx) error {
	accountID := GetAccountID(c)
	if accountID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	raw := strings.TrimSpace(c.Query("product_ids"))
	if raw == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "product_ids requerido"})
	}
	var ids []string
	for _, id := range strings.Split(raw, ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}

	items, err := h.queryUC.GetBalances(c.Context(), accountID, ids)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	balances := make([]dto.BalanceDTO, 0, len(items))
	for _, item := range items {
		balances = append(balances, dto.BalanceDTO{
			ProductID:    item.ProductID,
			ProductName:  item.ProductName,
			CurrentStock: item.CurrentStock,
			Unit:         item.Unit.String(),
		})
	}
	return c.JSON(balances)
}

// GetBalanceAt godoc
// @Summary      Saldo de un producto en un instante pasado
// @Description  Reconstruye el saldo rebobinando el libro de movimientos desde
// @Description  el saldo actual. Solo lectura.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        product_id  query  string  true  "Producto"
// @Param        at          query  string  true  "Instante (RFC 3339)"
// @Success      200  {object}  dto.BalanceAtDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/balances/at [get]
func (h *InventoryHandler) GetBalanceAt(c *fiber.Ctx) error {
	accountID := GetAccountID(c)
	if accountID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	productID := strings.TrimSpace(c.Query("product_id"))
	if productID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "product_id requerido"})
	}
	at, err := time.Parse(time.RFC3339, c.Query("at"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "at inválido (RFC 3339)"})
	}

	item, balance, err := h.queryUC.BalanceAt(c.Context(), accountID, productID, at)
	if err != nil {
		var notFound *domain.ItemNotFoundError
		if errors.As(err, &notFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Code:    "INVENTORY_ITEM_NOT_FOUND",
				Message: "producto sin ítem de inventario",
				Details: dto.ItemNotFoundDetails{ProductID: notFound.ProductID},
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(dto.BalanceAtDTO{
		ProductID:   productID,
		ProductName: item.ProductName,
		At:          at,
		Balance:     balance,
		Unit:        item.Unit.String(),
	})
}

// ListMovements godoc
// @Summary      Historial de movimientos (auditoría)
// @Description  Libro de movimientos filtrable por producto, actividad, módulo
// @Description  y rango de fechas; más recientes primero. Solo lectura.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        product_id   query  string  false  "Filtrar por producto"
// @Param        activity_id  query  string  false  "Filtrar por actividad de origen"
// @Param        module       query  string  false  "fertigation | phytosanitary | water"
// @Param        date_from    query  string  false  "RFC 3339"
// @Param        date_to      query  string  false  "RFC 3339"
// @Success      200  {object}  dto.MovementListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/inventory/movements [get]
func (h *InventoryHandler) ListMovements(c *fiber.Ctx) error {
	accountID := GetAccountID(c)
	if accountID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	filter, errResp := movementFilterFromQuery(c)
	if errResp != nil {
		return c.Status(fiber.StatusBadRequest).JSON(*errResp)
	}
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.DefaultPage()

	movements, err := h.queryUC.ListMovements(c.Context(), accountID, filter, page.Limit, page.Offset)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	out := make([]dto.MovementDTO, 0, len(movements))
	for _, m := range movements {
		out = append(out, dto.MovementDTO{
			ID:               m.ID,
			InventoryItemID:  m.InventoryItemID,
			ProductID:        m.ProductID,
			ProductName:      m.ProductName,
			Operation:        m.Operation,
			Amount:           m.Amount,
			Unit:             m.Unit.String(),
			AmountInItemUnit: m.AmountInItemUnit,
			BalanceAfter:     m.BalanceAfter,
			Reason:           m.Reason,
			ActivityID:       m.ActivityID,
			Module:           m.Module,
			DayIndex:         m.DayIndex,
			CreatedAt:        m.CreatedAt,
		})
	}
	return c.JSON(dto.MovementListResponse{Total: len(out), Movements: out})
}

// MovementReport godoc
// @Summary      Exportar historial de movimientos como PDF
// @Tags         inventory
// @Security     Bearer
// @Produce      application/pdf
// @Param        product_id   query  string  false  "Filtrar por producto"
// @Param        module       query  string  false  "fertigation | phytosanitary | water"
// @Param        date_from    query  string  false  "RFC 3339"
// @Param        date_to      query  string  false  "RFC 3339"
// @Success      200  {file}    binary
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/inventory/movements/report [get]
func (h *InventoryHandler) MovementReport(c *fiber.Ctx) error {
	accountID := GetAccountID(c)
	if accountID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	filter, errResp := movementFilterFromQuery(c)
	if errResp != nil {
		return c.Status(fiber.StatusBadRequest).JSON(*errResp)
	}
	pdfBytes, err := h.reportUC.GenerateReport(c.Context(), accountID, filter)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="movimientos.pdf"`)
	return c.Send(pdfBytes)
}

// movementFilterFromQuery arma el filtro de movimientos desde la query string,
// validando módulo y fechas en el borde.
func movementFilterFromQuery(c *fiber.Ctx) (repository.MovementFilter, *dto.ErrorResponse) {
	filter := repository.MovementFilter{
		ProductID:  c.Query("product_id"),
		ActivityID: c.Query("activity_id"),
		Module:     c.Query("module"),
	}
	if !entity.ValidModule(filter.Module) {
		return filter, &dto.ErrorResponse{Code: "VALIDATION", Message: "módulo desconocido: " + filter.Module}
	}
	if raw := c.Query("date_from"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return filter, &dto.ErrorResponse{Code: "VALIDATION", Message: "date_from inválido (RFC 3339)"}
		}
		filter.DateFrom = &t
	}
	if raw := c.Query("date_to"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return filter, &dto.ErrorResponse{Code: "VALIDATION", Message: "date_to inválido (RFC 3339)"}
		}
		filter.DateTo = &t
	}
	return filter, nil
}
