package ports

import "github.com/jhoicas/Almacen-api/internal/application/dto"

// ReportRenderer define el puerto de salida para exportar el reporte analítico a un formato
// de archivo. Cualquier adaptador (XLSX, PDF) debe implementar esta interfaz; la aplicación solo
// conoce este contrato, no la librería concreta.
type ReportRenderer interface {
	// Render produce el contenido del archivo para el reporte ya calculado.
	Render(report *dto.AnalyticsReportDTO) ([]byte, error)
	// ContentType tipo MIME del archivo generado.
	ContentType() string
	// Extension extensión sin punto, ej. "xlsx".
	Extension() string
}
