package entity

import "slices"

// Snapshot es el estado completo de la tienda en un instante: las colecciones que el contenedor
// de estado hidrata al arrancar y persiste en cada mutación.
type Snapshot struct {
	Departments []Department `json:"departments"`
	Suppliers   []Supplier   `json:"suppliers"`
	Products    []Product    `json:"products"`
	Sales       []Sale       `json:"sales"`
	SaleItems   []SaleItem   `json:"sale_items"`
	Supplies    []Supply     `json:"supplies"`
	SupplyItems []SupplyItem `json:"supply_items"`
	Users       []User       `json:"users"`
}

// Clone devuelve una copia independiente. Las entidades son valores y decimal es inmutable,
// así que basta con copiar los slices (ExpiryDate se copia aparte por ser puntero).
func (s Snapshot) Clone() Snapshot {
	out := Snapshot{
		Departments: cloneSlice(s.Departments),
		Suppliers:   cloneSlice(s.Suppliers),
		Products:    cloneSlice(s.Products),
		Sales:       cloneSlice(s.Sales),
		SaleItems:   cloneSlice(s.SaleItems),
		Supplies:    cloneSlice(s.Supplies),
		SupplyItems: cloneSlice(s.SupplyItems),
		Users:       cloneSlice(s.Users),
	}
	for i := range out.Products {
		if d := out.Products[i].ExpiryDate; d != nil {
			t := *d
			out.Products[i].ExpiryDate = &t
		}
	}
	return out
}

// IsEmpty indica si no hay ningún dato de negocio (los usuarios no cuentan).
func (s Snapshot) IsEmpty() bool {
	return len(s.Departments) == 0 && len(s.Suppliers) == 0 && len(s.Products) == 0 &&
		len(s.Sales) == 0 && len(s.Supplies) == 0
}

func cloneSlice[T any](in []T) []T {
	if in == nil {
		return []T{}
	}
	return slices.Clone(in)
}

// ── Búsquedas por ID ──────────────────────────────────────────────────────────

// ProductIndex devuelve la posición del producto o -1.
func (s *Snapshot) ProductIndex(id string) int {
	return slices.IndexFunc(s.Products, func(p Product) bool { return p.ID == id })
}

// DepartmentIndex devuelve la posición del departamento o -1.
func (s *Snapshot) DepartmentIndex(id string) int {
	return slices.IndexFunc(s.Departments, func(d Department) bool { return d.ID == id })
}

// SupplierIndex devuelve la posición del proveedor o -1.
func (s *Snapshot) SupplierIndex(id string) int {
	return slices.IndexFunc(s.Suppliers, func(x Supplier) bool { return x.ID == id })
}

// SaleIndex devuelve la posición de la venta o -1.
func (s *Snapshot) SaleIndex(id string) int {
	return slices.IndexFunc(s.Sales, func(x Sale) bool { return x.ID == id })
}

// SupplyIndex devuelve la posición del reabastecimiento o -1.
func (s *Snapshot) SupplyIndex(id string) int {
	return slices.IndexFunc(s.Supplies, func(x Supply) bool { return x.ID == id })
}

// UserIndexByUsername devuelve la posición del usuario o -1.
func (s *Snapshot) UserIndexByUsername(username string) int {
	return slices.IndexFunc(s.Users, func(u User) bool { return u.Username == username })
}

// ItemsOfSale devuelve las líneas de una venta en orden de inserción.
func (s *Snapshot) ItemsOfSale(saleID string) []SaleItem {
	out := []SaleItem{}
	for _, it := range s.SaleItems {
		if it.SaleID == saleID {
			out = append(out, it)
		}
	}
	return out
}

// ItemsOfSupply devuelve las líneas de un reabastecimiento en orden de inserción.
func (s *Snapshot) ItemsOfSupply(supplyID string) []SupplyItem {
	out := []SupplyItem{}
	for _, it := range s.SupplyItems {
		if it.SupplyID == supplyID {
			out = append(out, it)
		}
	}
	return out
}
