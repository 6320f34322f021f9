package dto

// DepartmentRequest entrada para crear o reemplazar un departamento.
type DepartmentRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=200"`
	Description string `json:"description"`
	ManagerID   string `json:"manager_id"`
}

// DepartmentResponse salida de un departamento.
type DepartmentResponse struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	ManagerID    string `json:"manager_id"`
	ProductCount int    `json:"product_count"`
}

// SupplierRequest entrada para crear o reemplazar un proveedor.
type SupplierRequest struct {
	Name          string `json:"name" validate:"required,min=1,max=200"`
	Phone         string `json:"phone"`
	ContactPerson string `json:"contact_person"`
}

// SupplierResponse salida de un proveedor.
type SupplierResponse struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Phone         string `json:"phone"`
	ContactPerson string `json:"contact_person"`
}
