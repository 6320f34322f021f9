package entity

// Department representa un departamento (sección) de la tienda. Solo etiqueta los totales agrupados.
type Department struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	ManagerID   string `json:"manager_id"`
}
