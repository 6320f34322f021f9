package seed

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

// CatalogRow una fila del catálogo a importar.
type CatalogRow struct {
	Department   string
	Supplier     string
	Name         string
	Price        decimal.Decimal
	Quantity     decimal.Decimal
	MinThreshold decimal.Decimal
}

// ImportResult resumen de lo que cambió al aplicar el catálogo.
type ImportResult struct {
	Departments int // departamentos nuevos
	Suppliers   int // proveedores nuevos
	Created     int // productos nuevos
	Updated     int // productos existentes actualizados
}

var headerAliases = map[string]string{
	"department":   "department",
	"departamento": "department",
	"category":     "department",
	"categoría":    "department",
	"отдел":        "department",
	"категория":    "department",

	"supplier":  "supplier",
	"proveedor": "supplier",
	"поставщик": "supplier",

	"name":     "name",
	"product":  "name",
	"producto": "name",
	"nombre":   "name",
	"товар":    "name",
	"название": "name",

	"price":  "price",
	"precio": "price",
	"цена":   "price",

	"quantity":   "quantity",
	"qty":        "quantity",
	"stock":      "quantity",
	"cantidad":   "quantity",
	"количество": "quantity",
	"остаток":    "quantity",

	"min":           "min_threshold",
	"min_threshold": "min_threshold",
	"mínimo":        "min_threshold",
	"minimo":        "min_threshold",
	"минимум":       "min_threshold",
}

// ParseXLSX lee el catálogo de la primera hoja de un libro Excel.
func ParseXLSX(r io.Reader) ([]CatalogRow, error) {
	file, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("abrir excel: %w", err)
	}
	defer file.Close()

	sheets := file.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("el libro no tiene hojas")
	}
	rows, err := file.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("leer filas: %w", err)
	}
	return parseRows(rows)
}

// ParseCSV lee el catálogo de un CSV. charset "windows-1251" decodifica exportaciones de Excel
// en cirílico; vacío o "utf-8" lee tal cual. El separador se detecta en la cabecera (; o ,).
func ParseCSV(r io.Reader, charset string) ([]CatalogRow, error) {
	switch strings.ToLower(charset) {
	case "", "utf-8", "utf8":
	case "windows-1251", "cp1251":
		r = transform.NewReader(r, charmap.Windows1251.NewDecoder())
	default:
		return nil, fmt.Errorf("charset no soportado: %s", charset)
	}

	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("leer csv: %w", err)
	}
	text := strings.TrimPrefix(string(raw), "\ufeff")
	cr := csv.NewReader(strings.NewReader(text))
	header, _, _ := strings.Cut(text, "\n")
	if strings.Count(header, ";") > strings.Count(header, ",") {
		cr.Comma = ';'
	}
	cr.FieldsPerRecord = -1
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("leer csv: %w", err)
	}
	return parseRows(rows)
}

func parseRows(rows [][]string) ([]CatalogRow, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("el archivo está vacío")
	}
	cols := mapColumns(rows[0])
	for _, required := range []string{"department", "name", "price"} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("falta la columna requerida: %s", required)
		}
	}

	out := make([]CatalogRow, 0, len(rows)-1)
	for i := 1; i < len(rows); i++ {
		cells := rows[i]
		name := readCell(cells, cols, "name")
		if name == "" {
			continue
		}
		row := CatalogRow{
			Department: readCell(cells, cols, "department"),
			Supplier:   readCell(cells, cols, "supplier"),
			Name:       name,
		}
		var err error
		if row.Price, err = parseDecimal(readCell(cells, cols, "price")); err != nil {
			return nil, fmt.Errorf("fila %d: precio inválido: %w", i+1, err)
		}
		if row.Quantity, err = parseDecimal(readCell(cells, cols, "quantity")); err != nil {
			return nil, fmt.Errorf("fila %d: cantidad inválida: %w", i+1, err)
		}
		if row.MinThreshold, err = parseDecimal(readCell(cells, cols, "min_threshold")); err != nil {
			return nil, fmt.Errorf("fila %d: mínimo inválido: %w", i+1, err)
		}
		if row.Price.IsNegative() || row.Quantity.IsNegative() || row.MinThreshold.IsNegative() {
			return nil, fmt.Errorf("fila %d: valores negativos", i+1)
		}
		out = append(out, row)
	}
	return out, nil
}

func mapColumns(header []string) map[string]int {
	cols := make(map[string]int, len(header))
	for i, h := range header {
		key, ok := headerAliases[strings.ToLower(strings.TrimSpace(h))]
		if !ok {
			continue
		}
		if _, dup := cols[key]; !dup {
			cols[key] = i
		}
	}
	return cols
}

func readCell(cells []string, cols map[string]int, key string) string {
	i, ok := cols[key]
	if !ok || i >= len(cells) {
		return ""
	}
	return strings.TrimSpace(cells[i])
}

// parseDecimal acepta formato europeo ("1.234,50", "89,90", "1 234,50") y anglosajón
// ("1,234.50"). Con ambos separadores el último es el decimal. Una sola coma seguida de
// exactamente tres dígitos, o varias comas, son separadores de miles. Vacío = 0.
func parseDecimal(s string) (decimal.Decimal, error) {
	s = strings.ReplaceAll(strings.ReplaceAll(s, " ", ""), "\u00a0", "")
	if s == "" {
		return decimal.Zero, nil
	}
	dot, comma := strings.LastIndex(s, "."), strings.LastIndex(s, ",")
	switch {
	case dot >= 0 && comma >= 0:
		if comma > dot {
			s = strings.ReplaceAll(strings.ReplaceAll(s, ".", ""), ",", ".")
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	case comma >= 0:
		if strings.Count(s, ",") > 1 || len(s)-comma-1 == 3 {
			s = strings.ReplaceAll(s, ",", "")
		} else {
			s = strings.Replace(s, ",", ".", 1)
		}
	case strings.Count(s, ".") > 1:
		s = strings.ReplaceAll(s, ".", "")
	}
	return decimal.NewFromString(s)
}

// Apply fusiona el catálogo en el estado. Departamentos y proveedores se buscan por nombre
// (sin distinguir mayúsculas) y se crean si faltan; un producto con el mismo nombre en el mismo
// departamento se actualiza (precio, cantidad, mínimo), si no se crea.
func Apply(s *entity.Snapshot, rows []CatalogRow) ImportResult {
	var res ImportResult
	deptByName := make(map[string]string, len(s.Departments))
	for _, d := range s.Departments {
		deptByName[strings.ToLower(d.Name)] = d.ID
	}
	supByName := make(map[string]string, len(s.Suppliers))
	for _, x := range s.Suppliers {
		supByName[strings.ToLower(x.Name)] = x.ID
	}

	for _, row := range rows {
		deptID := ""
		if row.Department != "" {
			key := strings.ToLower(row.Department)
			id, ok := deptByName[key]
			if !ok {
				id = uuid.New().String()
				s.Departments = append(s.Departments, entity.Department{ID: id, Name: row.Department})
				deptByName[key] = id
				res.Departments++
			}
			deptID = id
		}
		supID := ""
		if row.Supplier != "" {
			key := strings.ToLower(row.Supplier)
			id, ok := supByName[key]
			if !ok {
				id = uuid.New().String()
				s.Suppliers = append(s.Suppliers, entity.Supplier{ID: id, Name: row.Supplier})
				supByName[key] = id
				res.Suppliers++
			}
			supID = id
		}

		i := productIndexByName(s, row.Name, deptID)
		if i >= 0 {
			p := &s.Products[i]
			p.Price, p.CurrentQty, p.MinThreshold = row.Price, row.Quantity, row.MinThreshold
			if supID != "" {
				p.SupplierID = supID
			}
			res.Updated++
			continue
		}
		s.Products = append(s.Products, entity.Product{
			ID:           uuid.New().String(),
			Name:         row.Name,
			DepartmentID: deptID,
			SupplierID:   supID,
			Price:        row.Price,
			CurrentQty:   row.Quantity,
			MinThreshold: row.MinThreshold,
		})
		res.Created++
	}
	return res
}

func productIndexByName(s *entity.Snapshot, name, departmentID string) int {
	for i, p := range s.Products {
		if p.DepartmentID == departmentID && strings.EqualFold(p.Name, name) {
			return i
		}
	}
	return -1
}
