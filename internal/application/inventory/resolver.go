package inventory

import (
	"strings"
	"time"
	"unicode"

	"github.com/shopspring/decimal"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/jhoicas/finca-api/internal/domain"
	"github.com/jhoicas/finca-api/internal/domain/entity"
	"github.com/jhoicas/finca-api/internal/domain/repository"
)

var two = decimal.NewFromInt(2)

// Resolver mapea un producto lógico del catálogo a su ítem de inventario,
// vinculando o migrando de forma perezosa cuando hace falta. Corre siempre
// dentro de la transacción del caller (recibe los repos atados a la tx), y
// resolver dos veces el mismo producto nunca crea ítems duplicados: el vínculo
// exige product_id IS NULL y la tabla lleva índice único por
// (account_id, product_id).
type Resolver struct{}

// NewResolver construye el resolver.
func NewResolver() *Resolver { return &Resolver{} }

// Resolve aplica el orden de resolución:
//  1. ítem activo ya vinculado al producto;
//  2. el producto debe existir en el catálogo (si no, ItemNotFoundError);
//  3. ítem activo con el mismo nombre y sin vínculo → se vincula y persiste;
//  4. registro del catálogo antiguo con el mismo nombre → se materializa un
//     ítem nuevo sembrado con su cantidad y stock mínimo (crítico = mitad del
//     mínimo, piso 0);
//  5. si nada aplica, ItemNotFoundError.
func (r *Resolver) Resolve(
	itemRepo repository.InventoryItemRepository,
	productRepo repository.CatalogProductRepository,
	legacyRepo repository.LegacyStockRepository,
	accountID, productID string,
) (*entity.InventoryItem, error) {
	item, err := itemRepo.GetActiveByProduct(accountID, productID)
	if err != nil {
		return nil, err
	}
	if item != nil {
		return item, nil
	}

	product, err := productRepo.GetByID(accountID, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, &domain.ItemNotFoundError{ProductID: productID}
	}

	if item, err = r.linkByName(itemRepo, accountID, product); err != nil {
		return nil, err
	}
	if item != nil {
		return item, nil
	}

	if item, err = r.migrateLegacy(itemRepo, legacyRepo, accountID, product); err != nil {
		return nil, err
	}
	if item != nil {
		return item, nil
	}

	return nil, &domain.ItemNotFoundError{ProductID: productID}
}

// linkByName busca un ítem activo sin vínculo cuyo nombre coincida con el del
// producto (sin distinguir mayúsculas ni tildes) y lo vincula al catálogo.
func (r *Resolver) linkByName(
	itemRepo repository.InventoryItemRepository,
	accountID string,
	product *entity.CatalogProduct,
) (*entity.InventoryItem, error) {
	unlinked, err := itemRepo.ListActiveUnlinked(accountID)
	if err != nil {
		return nil, err
	}
	want := normalizeName(product.Name)
	for _, candidate := range unlinked {
		if normalizeName(candidate.ProductName) != want {
			continue
		}
		unitIfEmpty := candidate.Unit
		if unitIfEmpty == "" {
			unitIfEmpty = product.Unit
		}
		if err := itemRepo.LinkProduct(candidate.ID, product.ID, product.Type, unitIfEmpty); err != nil {
			// Otra transacción pudo habernos ganado el vínculo: la unicidad
			// por (cuenta, producto) lo convierte en re-lectura, no en duplicado.
			if existing, gerr := itemRepo.GetActiveByProduct(accountID, product.ID); gerr == nil && existing != nil {
				return existing, nil
			}
			return nil, err
		}
		candidate.ProductID = product.ID
		candidate.ProductType = product.Type
		candidate.Unit = unitIfEmpty
		return candidate, nil
	}
	return nil, nil
}

// migrateLegacy materializa un InventoryItem desde el catálogo antiguo de la
// app (stock guardado junto al producto, sin ledger).
func (r *Resolver) migrateLegacy(
	itemRepo repository.InventoryItemRepository,
	legacyRepo repository.LegacyStockRepository,
	accountID string,
	product *entity.CatalogProduct,
) (*entity.InventoryItem, error) {
	records, err := legacyRepo.ListByAccount(accountID)
	if err != nil {
		return nil, err
	}
	want := normalizeName(product.Name)
	for _, rec := range records {
		if normalizeName(rec.ProductName) != want {
			continue
		}
		itemUnit := rec.Unit
		if itemUnit == "" {
			itemUnit = product.Unit
		}
		critical := rec.MinStock.Div(two).Floor()
		if critical.IsNegative() {
			critical = decimal.Zero
		}
		item := &entity.InventoryItem{
			AccountID:     accountID,
			ProductID:     product.ID,
			ProductName:   product.Name,
			ProductType:   product.Type,
			CurrentStock:  rec.Quantity,
			MinStock:      rec.MinStock,
			CriticalStock: critical,
			Unit:          itemUnit,
			Active:        true,
			LastUpdated:   time.Now(),
		}
		if err := itemRepo.Create(item); err != nil {
			// Carrera con otra migración del mismo producto: re-leer.
			if existing, gerr := itemRepo.GetActiveByProduct(accountID, product.ID); gerr == nil && existing != nil {
				return existing, nil
			}
			return nil, err
		}
		return item, nil
	}
	return nil, nil
}

// normalizeName baja a minúsculas y quita tildes/diacríticos para comparar
// nombres de producto ("Fósforo" y "fosforo" son el mismo producto en los
// catálogos viejos).
func normalizeName(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(strings.TrimSpace(out))
}
