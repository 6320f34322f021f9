package dto

import (
	"fmt"
	"time"
)

// PageRequest paginación para listados.
type PageRequest struct {
	Limit  int `query:"limit" validate:"min=1,max=100"`
	Offset int `query:"offset" validate:"min=0"`
}

// DefaultPage aplica valores por defecto si Limit/Offset son cero o fuera de rango.
func (p *PageRequest) DefaultPage() {
	if p.Limit <= 0 {
		p.Limit = 20
	}
	if p.Limit > 100 {
		p.Limit = 100
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
}

// Bounds devuelve los índices [from, to) de la página dentro de n elementos.
func (p PageRequest) Bounds(n int) (int, int) {
	from := p.Offset
	if from > n {
		from = n
	}
	to := from + p.Limit
	if to > n {
		to = n
	}
	return from, to
}

// PageResponse metadatos de página en respuestas.
type PageResponse struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
	Total  int `json:"total"`
}

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// PeriodRequest ventana de fechas opcional (YYYY-MM-DD, ambos extremos incluidos).
type PeriodRequest struct {
	StartDate string `query:"start_date"`
	EndDate   string `query:"end_date"`
}

// Parse interpreta las fechas en loc. El fin se extiende hasta el último instante del día.
// Un extremo vacío queda en cero (sin límite).
func (p PeriodRequest) Parse(loc *time.Location) (time.Time, time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	var from, to time.Time
	if p.StartDate != "" {
		t, err := time.ParseInLocation("2006-01-02", p.StartDate, loc)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("start_date inválido (YYYY-MM-DD): %q", p.StartDate)
		}
		from = t
	}
	if p.EndDate != "" {
		t, err := time.ParseInLocation("2006-01-02", p.EndDate, loc)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("end_date inválido (YYYY-MM-DD): %q", p.EndDate)
		}
		to = t.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}
	if !from.IsZero() && !to.IsZero() && to.Before(from) {
		return time.Time{}, time.Time{}, fmt.Errorf("end_date anterior a start_date")
	}
	return from, to, nil
}
