package entity

// Supplier representa un proveedor.
type Supplier struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Phone         string `json:"phone"`
	ContactPerson string `json:"contact_person"`
}
