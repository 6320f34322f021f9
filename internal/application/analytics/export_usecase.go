package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/Almacen-api/internal/application/dto"
	"github.com/jhoicas/Almacen-api/internal/application/ports"
	"github.com/jhoicas/Almacen-api/internal/domain"
)

// ExportFile archivo listo para descargar.
type ExportFile struct {
	Name        string
	ContentType string
	Data        []byte
}

// ReportExportUseCase exporta el reporte analítico con el renderer del formato pedido.
type ReportExportUseCase struct {
	analytics *AnalyticsUseCase
	renderers map[string]ports.ReportRenderer
	now       func() time.Time
}

// NewReportExportUseCase registra los renderers por su extensión.
func NewReportExportUseCase(analytics *AnalyticsUseCase, renderers ...ports.ReportRenderer) *ReportExportUseCase {
	m := make(map[string]ports.ReportRenderer, len(renderers))
	for _, r := range renderers {
		m[r.Extension()] = r
	}
	return &ReportExportUseCase{analytics: analytics, renderers: m, now: time.Now}
}

// Export calcula el reporte y lo renderiza. Formato desconocido → ErrInvalidInput.
func (uc *ReportExportUseCase) Export(ctx context.Context, format string, req dto.AnalyticsReportRequest) (*ExportFile, error) {
	r, ok := uc.renderers[format]
	if !ok {
		return nil, fmt.Errorf("%w: formato de exportación %q no soportado", domain.ErrInvalidInput, format)
	}
	report, err := uc.analytics.Report(ctx, req)
	if err != nil {
		return nil, err
	}
	data, err := r.Render(report)
	if err != nil {
		return nil, fmt.Errorf("exportar %s: %w", format, err)
	}
	return &ExportFile{
		Name:        fmt.Sprintf("reporte-%s.%s", uc.now().Format("20060102-1504"), r.Extension()),
		ContentType: r.ContentType(),
		Data:        data,
	}, nil
}
