// seed puebla una base de desarrollo con un catálogo de productos agrícolas
// de ejemplo, sus ítems de inventario y algunos registros del catálogo antiguo
// para probar la migración perezosa del resolver.
//
// Uso: go run ./cmd/seed [account_id]
// Sin argumento genera un account_id nuevo y lo imprime junto con un token JWT
// de desarrollo para usar contra la API.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/finca-api/internal/domain/entity"
	"github.com/jhoicas/finca-api/internal/domain/unit"
	"github.com/jhoicas/finca-api/internal/infrastructure/postgres"
	"github.com/jhoicas/finca-api/pkg/config"
	pkgjwt "github.com/jhoicas/finca-api/pkg/jwt"
)

type seedProduct struct {
	name  string
	ptype string
	u     unit.Unit
	price string
	stock string
	min   string
}

var products = []seedProduct{
	{"Nitrato de calcio", entity.ProductTypeFertilizer, unit.Kilogram, "2.80", "100", "20"},
	{"Sulfato de potasio", entity.ProductTypeFertilizer, unit.Kilogram, "3.50", "50", "10"},
	{"Ácido fosfórico", entity.ProductTypeFertilizer, unit.Liter, "4.10", "30", "5"},
	{"Oxicloruro de cobre", entity.ProductTypePhytosanitary, unit.Kilogram, "9.90", "12", "4"},
	{"Aceite de neem", entity.ProductTypePhytosanitary, unit.Liter, "15.00", "8", "2"},
	{"Agua de riego", entity.ProductTypeWater, unit.CubicMeter, "0.45", "500", "50"},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "cargar configuración: %v\n", err)
		os.Exit(1)
	}

	accountID := uuid.New().String()
	if len(os.Args) > 1 {
		accountID = os.Args[1]
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		fmt.Fprintf(os.Stderr, "conexión a PostgreSQL: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	itemRepo := postgres.NewInventoryItemRepository(pool)

	for _, p := range products {
		productID := uuid.New().String()
		_, err := pool.Exec(ctx, `
			INSERT INTO catalog_products (id, account_id, name, type, unit, price_per_unit)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			productID, accountID, p.name, p.ptype, string(p.u), mustDecimal(p.price),
		)
		if err != nil {
			fmt.Fprintf(os.Stderr, "insertar producto %s: %v\n", p.name, err)
			os.Exit(1)
		}

		item := &entity.InventoryItem{
			AccountID:    accountID,
			ProductID:    productID,
			ProductName:  p.name,
			ProductType:  p.ptype,
			CurrentStock: mustDecimal(p.stock),
			MinStock:     mustDecimal(p.min),
			Unit:         p.u,
			Active:       true,
		}
		item.CriticalStock = item.MinStock.Div(decimal.NewFromInt(2)).Floor()
		if err := itemRepo.Create(item); err != nil {
			fmt.Fprintf(os.Stderr, "insertar ítem %s: %v\n", p.name, err)
			os.Exit(1)
		}
	}

	// Un producto solo en el catálogo antiguo: el resolver debe migrarlo la
	// primera vez que aparezca en un ajuste.
	_, err = pool.Exec(ctx, `
		INSERT INTO legacy_products (id, account_id, product_name, quantity, min_stock, unit)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		uuid.New().String(), accountID, "Quelato de hierro",
		mustDecimal("25"), mustDecimal("5"), string(unit.Kilogram),
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "insertar producto legado: %v\n", err)
		os.Exit(1)
	}
	_, err = pool.Exec(ctx, `
		INSERT INTO catalog_products (id, account_id, name, type, unit, price_per_unit)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		uuid.New().String(), accountID, "Quelato de hierro",
		entity.ProductTypeFertilizer, string(unit.Kilogram), mustDecimal("7.20"),
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "insertar producto de catálogo legado: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("account_id: %s\n", accountID)
	if cfg.JWT.Secret != "" {
		token, err := pkgjwt.Generate(cfg.JWT.Secret, uuid.New().String(), accountID, cfg.JWT.Issuer, cfg.JWT.Expiration)
		if err == nil {
			fmt.Printf("token: %s\n", token)
		}
	}
}

func mustDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}
