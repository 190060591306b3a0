package inventory_test

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/finca-api/internal/application/inventory"
	"github.com/jhoicas/finca-api/internal/domain"
	"github.com/jhoicas/finca-api/internal/domain/entity"
	"github.com/jhoicas/finca-api/internal/domain/repository"
	"github.com/jhoicas/finca-api/internal/domain/unit"
)

// ──────────────────────────────────────────────────────────────────────────────
// memStore — almacén en memoria compartido por los repos fake. Reproduce las
// reglas que en producción impone PostgreSQL: saldo no negativo vía update
// condicional, unicidad por (cuenta, producto) y tabla de movimientos
// solo-inserción.
// ──────────────────────────────────────────────────────────────────────────────

type memStore struct {
	items     map[string]*entity.InventoryItem
	movements []*entity.InventoryMovement
	products  map[string]*entity.CatalogProduct
	legacy    []*entity.LegacyStockRecord
	seq       int

	// inyección de fallos de infraestructura
	failMovementCreate bool
}

func newMemStore() *memStore {
	return &memStore{
		items:    make(map[string]*entity.InventoryItem),
		products: make(map[string]*entity.CatalogProduct),
	}
}

func (s *memStore) nextID(prefix string) string {
	s.seq++
	return fmt.Sprintf("%s-%d", prefix, s.seq)
}

func (s *memStore) addProduct(p entity.CatalogProduct) *entity.CatalogProduct {
	if p.ID == "" {
		p.ID = s.nextID("prod")
	}
	s.products[p.ID] = &p
	return &p
}

func (s *memStore) addItem(i entity.InventoryItem) *entity.InventoryItem {
	if i.ID == "" {
		i.ID = s.nextID("item")
	}
	s.items[i.ID] = &i
	return &i
}

func (s *memStore) addLegacy(r entity.LegacyStockRecord) {
	if r.ID == "" {
		r.ID = s.nextID("legacy")
	}
	s.legacy = append(s.legacy, &r)
}

// snapshot copia el estado mutable (ítems por valor, largo del ledger) para
// poder simular el rollback de una transacción fallida.
func (s *memStore) snapshot() *memSnapshot {
	items := make(map[string]*entity.InventoryItem, len(s.items))
	for id, item := range s.items {
		copied := *item
		items[id] = &copied
	}
	return &memSnapshot{items: items, movementCount: len(s.movements), seq: s.seq}
}

type memSnapshot struct {
	items         map[string]*entity.InventoryItem
	movementCount int
	seq           int
}

func (s *memStore) restore(snap *memSnapshot) {
	s.items = snap.items
	s.movements = s.movements[:snap.movementCount]
	s.seq = snap.seq
}

// ──────────────────────────────────────────────────────────────────────────────
// Repos fake sobre memStore
// ──────────────────────────────────────────────────────────────────────────────

type fakeItemRepo struct{ s *memStore }

var _ repository.InventoryItemRepository = (*fakeItemRepo)(nil)

func (r *fakeItemRepo) GetByID(id string) (*entity.InventoryItem, error) {
	item, ok := r.s.items[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	copied := *item
	return &copied, nil
}

func (r *fakeItemRepo) GetActiveByProduct(accountID, productID string) (*entity.InventoryItem, error) {
	for _, item := range r.s.items {
		if item.AccountID == accountID && item.ProductID == productID && item.ProductID != "" && item.Active {
			copied := *item
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeItemRepo) ListActiveUnlinked(accountID string) ([]*entity.InventoryItem, error) {
	var out []*entity.InventoryItem
	for _, item := range r.s.items {
		if item.AccountID == accountID && item.ProductID == "" && item.Active {
			copied := *item
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakeItemRepo) Create(item *entity.InventoryItem) error {
	if item.ProductID != "" {
		for _, existing := range r.s.items {
			if existing.AccountID == item.AccountID && existing.ProductID == item.ProductID && existing.Active {
				return domain.ErrDuplicate
			}
		}
	}
	if item.ID == "" {
		item.ID = r.s.nextID("item")
	}
	copied := *item
	r.s.items[item.ID] = &copied
	return nil
}

func (r *fakeItemRepo) LinkProduct(itemID, productID, productType string, unitIfEmpty unit.Unit) error {
	item, ok := r.s.items[itemID]
	if !ok {
		return domain.ErrNotFound
	}
	if item.ProductID != "" {
		return domain.ErrDuplicate
	}
	item.ProductID = productID
	item.ProductType = productType
	if item.Unit == "" {
		item.Unit = unitIfEmpty
	}
	item.LastUpdated = time.Now()
	return nil
}

func (r *fakeItemRepo) AddStock(itemID string, qty decimal.Decimal) (decimal.Decimal, error) {
	item, ok := r.s.items[itemID]
	if !ok {
		return decimal.Zero, domain.ErrNotFound
	}
	item.CurrentStock = item.CurrentStock.Add(qty)
	item.LastUpdated = time.Now()
	return item.CurrentStock, nil
}

func (r *fakeItemRepo) SubtractStock(itemID string, qty decimal.Decimal) (decimal.Decimal, error) {
	item, ok := r.s.items[itemID]
	if !ok {
		return decimal.Zero, domain.ErrNotFound
	}
	// misma semántica que el UPDATE condicional: solo aplica si alcanza
	if item.CurrentStock.LessThan(qty) {
		return decimal.Zero, domain.ErrInsufficientStock
	}
	item.CurrentStock = item.CurrentStock.Sub(qty)
	item.LastUpdated = time.Now()
	return item.CurrentStock, nil
}

func (r *fakeItemRepo) GetBalances(accountID string, productIDs []string) ([]*entity.InventoryItem, error) {
	want := make(map[string]bool, len(productIDs))
	for _, id := range productIDs {
		want[id] = true
	}
	var out []*entity.InventoryItem
	for _, item := range r.s.items {
		if item.AccountID == accountID && item.Active && want[item.ProductID] {
			copied := *item
			out = append(out, &copied)
		}
	}
	return out, nil
}

type fakeMovementRepo struct{ s *memStore }

var _ repository.InventoryMovementRepository = (*fakeMovementRepo)(nil)

func (r *fakeMovementRepo) Create(m *entity.InventoryMovement) error {
	if r.s.failMovementCreate {
		return errors.New("insert inventory movement: conexión perdida")
	}
	if m.ID == "" {
		m.ID = r.s.nextID("mov")
	}
	copied := *m
	r.s.movements = append(r.s.movements, &copied)
	return nil
}

func (r *fakeMovementRepo) List(accountID string, filter repository.MovementFilter, limit, offset int) ([]*entity.InventoryMovement, error) {
	var matched []*entity.InventoryMovement
	for _, m := range r.s.movements {
		if m.AccountID != accountID {
			continue
		}
		if filter.ProductID != "" && m.ProductID != filter.ProductID {
			continue
		}
		if filter.ActivityID != "" && m.ActivityID != filter.ActivityID {
			continue
		}
		if filter.Module != "" && m.Module != filter.Module {
			continue
		}
		if filter.DateFrom != nil && m.CreatedAt.Before(*filter.DateFrom) {
			continue
		}
		if filter.DateTo != nil && m.CreatedAt.After(*filter.DateTo) {
			continue
		}
		copied := *m
		matched = append(matched, &copied)
	}
	// más recientes primero: el ledger se llena en orden de inserción
	for i, j := 0, len(matched)-1; i < j; i, j = i+1, j-1 {
		matched[i], matched[j] = matched[j], matched[i]
	}
	if offset >= len(matched) {
		return nil, nil
	}
	matched = matched[offset:]
	if limit > 0 && limit < len(matched) {
		matched = matched[:limit]
	}
	return matched, nil
}

func (r *fakeMovementRepo) ListByItem(inventoryItemID string) ([]*entity.InventoryMovement, error) {
	var out []*entity.InventoryMovement
	for _, m := range r.s.movements {
		if m.InventoryItemID == inventoryItemID {
			copied := *m
			out = append(out, &copied)
		}
	}
	return out, nil
}

type fakeProductRepo struct{ s *memStore }

var _ repository.CatalogProductRepository = (*fakeProductRepo)(nil)

func (r *fakeProductRepo) GetByID(accountID, productID string) (*entity.CatalogProduct, error) {
	p, ok := r.s.products[productID]
	if !ok || p.AccountID != accountID {
		return nil, nil
	}
	copied := *p
	return &copied, nil
}

type fakeLegacyRepo struct{ s *memStore }

var _ repository.LegacyStockRepository = (*fakeLegacyRepo)(nil)

func (r *fakeLegacyRepo) ListByAccount(accountID string) ([]*entity.LegacyStockRecord, error) {
	var out []*entity.LegacyStockRecord
	for _, rec := range r.s.legacy {
		if rec.AccountID == accountID {
			copied := *rec
			out = append(out, &copied)
		}
	}
	return out, nil
}

// ──────────────────────────────────────────────────────────────────────────────
// fakeTxRunner — simula la transacción: toma snapshot del almacén antes de fn y
// lo restaura si fn falla, igual que el ROLLBACK real.
// ──────────────────────────────────────────────────────────────────────────────

type fakeTxRunner struct{ s *memStore }

var _ inventory.TxRunner = (*fakeTxRunner)(nil)

func (t *fakeTxRunner) Run(_ context.Context, fn func(
	itemRepo repository.InventoryItemRepository,
	movRepo repository.InventoryMovementRepository,
	productRepo repository.CatalogProductRepository,
	legacyRepo repository.LegacyStockRepository,
) error) error {
	snap := t.s.snapshot()
	err := fn(&fakeItemRepo{t.s}, &fakeMovementRepo{t.s}, &fakeProductRepo{t.s}, &fakeLegacyRepo{t.s})
	if err != nil {
		t.s.restore(snap)
		return err
	}
	return nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de armado
// ──────────────────────────────────────────────────────────────────────────────

const testAccountID = "acc-test-1"

// seedLinkedItem crea producto + ítem vinculado con el stock dado.
func seedLinkedItem(s *memStore, name string, u unit.Unit, stock string) (*entity.CatalogProduct, *entity.InventoryItem) {
	p := s.addProduct(entity.CatalogProduct{
		AccountID: testAccountID,
		Name:      name,
		Type:      entity.ProductTypeFertilizer,
		Unit:      u,
	})
	item := s.addItem(entity.InventoryItem{
		AccountID:    testAccountID,
		ProductID:    p.ID,
		ProductName:  name,
		ProductType:  p.Type,
		CurrentStock: decimal.RequireFromString(stock),
		MinStock:     decimal.NewFromInt(1),
		Unit:         u,
		Active:       true,
	})
	return p, item
}

// replayBalance reconstruye el saldo de un ítem reproduciendo su ledger en
// orden de creación.
func replayBalance(s *memStore, itemID string, initial decimal.Decimal) decimal.Decimal {
	balance := initial
	for _, m := range s.movements {
		if m.InventoryItemID == itemID {
			balance = balance.Add(m.SignedAmount())
		}
	}
	return balance
}

// movementsFor filtra el ledger por ítem (orden de inserción).
func movementsFor(s *memStore, itemID string) []*entity.InventoryMovement {
	var out []*entity.InventoryMovement
	for _, m := range s.movements {
		if m.InventoryItemID == itemID {
			out = append(out, m)
		}
	}
	return out
}

// opSubtract / opAdd atajos para construir operaciones de lote.
func opSubtract(productID, amount string, u unit.Unit) inventory.StockOperation {
	return inventory.StockOperation{
		ProductID: productID,
		Amount:    decimal.RequireFromString(amount),
		Unit:      u,
		Operation: entity.OperationSubtract,
	}
}

func opAdd(productID, amount string, u unit.Unit) inventory.StockOperation {
	return inventory.StockOperation{
		ProductID: productID,
		Amount:    decimal.RequireFromString(amount),
		Unit:      u,
		Operation: entity.OperationAdd,
	}
}
