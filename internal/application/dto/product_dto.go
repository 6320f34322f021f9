package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto.
type CreateProductRequest struct {
	Name         string          `json:"name" validate:"required,min=1,max=200"`
	DepartmentID string          `json:"department_id"`
	SupplierID   string          `json:"supplier_id"`
	Grade        string          `json:"grade"`
	Price        decimal.Decimal `json:"price"`
	CurrentQty   decimal.Decimal `json:"current_quantity"`
	MinThreshold decimal.Decimal `json:"min_threshold"`
	ExpiryDate   string          `json:"expiry_date"` // YYYY-MM-DD, opcional
	StorageCond  string          `json:"storage_cond"`
}

// UpdateProductRequest entrada para actualizar un producto; solo se aplican los campos presentes.
type UpdateProductRequest struct {
	Name         *string          `json:"name" validate:"omitempty,min=1,max=200"`
	DepartmentID *string          `json:"department_id"`
	SupplierID   *string          `json:"supplier_id"`
	Grade        *string          `json:"grade"`
	Price        *decimal.Decimal `json:"price"`
	CurrentQty   *decimal.Decimal `json:"current_quantity"`
	MinThreshold *decimal.Decimal `json:"min_threshold"`
	ExpiryDate   *string          `json:"expiry_date"` // "" borra la fecha
	StorageCond  *string          `json:"storage_cond"`
}

// ProductFilter filtros de GET /api/products.
type ProductFilter struct {
	PageRequest
	DepartmentID string `query:"department_id"`
	LowStock     bool   `query:"low_stock"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	DepartmentID   string          `json:"department_id"`
	DepartmentName string          `json:"department_name"`
	SupplierID     string          `json:"supplier_id"`
	Grade          string          `json:"grade"`
	Price          decimal.Decimal `json:"price"`
	CurrentQty     decimal.Decimal `json:"current_quantity"`
	MinThreshold   decimal.Decimal `json:"min_threshold"`
	LowStock       bool            `json:"low_stock"`
	ExpiryDate     *time.Time      `json:"expiry_date,omitempty"`
	StorageCond    string          `json:"storage_cond"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
