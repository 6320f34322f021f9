// Package seed carga datos iniciales: el dataset de demostración y catálogos desde Excel o CSV.
package seed

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// Demo devuelve el dataset de demostración: tres departamentos, tres productos, dos ventas
// y tres reabastecimientos. Las fechas se interpretan en loc.
func Demo(loc *time.Location) entity.Snapshot {
	if loc == nil {
		loc = time.Local
	}
	at := func(y int, m time.Month, d, h, min int) time.Time {
		return time.Date(y, m, d, h, min, 0, 0, loc)
	}
	restocked := at(2025, 5, 28, 0, 0)

	return entity.Snapshot{
		Departments: []entity.Department{
			{ID: "dep-dairy", Name: "Молочные продукты"},
			{ID: "dep-bakery", Name: "Хлебобулочные изделия"},
			{ID: "dep-fruit", Name: "Фрукты"},
		},
		Suppliers: []entity.Supplier{
			{ID: "sup-dairy", Name: `ООО "Молочный завод"`},
			{ID: "sup-bakery", Name: `ООО "Хлебозавод №1"`},
			{ID: "sup-ivanov", Name: "ИП Иванов"},
		},
		Products: []entity.Product{
			{ID: "prd-milk", Name: "Молоко", DepartmentID: "dep-dairy", SupplierID: "sup-dairy",
				Price: dec("89.90"), CurrentQty: dec("45"), MinThreshold: dec("10")},
			{ID: "prd-bread", Name: "Хлеб белый", DepartmentID: "dep-bakery", SupplierID: "sup-bakery",
				Price: dec("45.50"), CurrentQty: dec("30"), MinThreshold: dec("40")},
			{ID: "prd-apple", Name: "Яблоки Голден", DepartmentID: "dep-fruit", SupplierID: "sup-ivanov",
				Price: dec("129.90"), CurrentQty: dec("50"), MinThreshold: dec("15")},
		},
		Sales: []entity.Sale{
			{ID: "sale-1", CreatedAt: at(2025, 5, 30, 14, 30)},
			{ID: "sale-2", CreatedAt: at(2025, 5, 30, 15, 45)},
		},
		SaleItems: []entity.SaleItem{
			{ID: "sale-1-1", SaleID: "sale-1", ProductID: "prd-milk", Quantity: dec("2"), UnitPrice: dec("89.90")},
			{ID: "sale-1-2", SaleID: "sale-1", ProductID: "prd-bread", Quantity: dec("1"), UnitPrice: dec("45.50")},
			{ID: "sale-2-1", SaleID: "sale-2", ProductID: "prd-apple", Quantity: dec("1.5"), UnitPrice: dec("129.90")},
		},
		Supplies: []entity.Supply{
			{ID: "supply-1", SupplierID: "sup-dairy", SupplyDate: at(2025, 5, 25, 9, 0), Status: entity.SupplyReceived},
			{ID: "supply-2", SupplierID: "sup-ivanov", SupplyDate: restocked, Status: entity.SupplyCompleted},
			{ID: "supply-3", SupplierID: "sup-bakery", SupplyDate: at(2025, 6, 2, 10, 0), Status: entity.SupplyPending},
		},
		SupplyItems: []entity.SupplyItem{
			{ID: "supply-1-1", SupplyID: "supply-1", ProductID: "prd-milk", Quantity: dec("50"), UnitPrice: dec("65.50")},
			{ID: "supply-2-1", SupplyID: "supply-2", ProductID: "prd-apple", Quantity: dec("50"), UnitPrice: dec("95.00")},
			{ID: "supply-3-1", SupplyID: "supply-3", ProductID: "prd-bread", Quantity: dec("40"), UnitPrice: dec("30.20")},
		},
	}
}
