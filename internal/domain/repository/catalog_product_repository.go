package repository

import "github.com/jhoicas/finca-api/internal/domain/entity"

// CatalogProductRepository puerto de solo lectura hacia el catálogo de
// productos (el CRUD del catálogo es un colaborador externo).
type CatalogProductRepository interface {
	// GetByID devuelve nil sin error si el producto no existe en el catálogo.
	GetByID(accountID, productID string) (*entity.CatalogProduct, error)
}
