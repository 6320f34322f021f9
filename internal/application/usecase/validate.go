package usecase

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Almacen-api/internal/domain"
)

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", domain.ErrInvalidInput, fmt.Sprintf(format, args...))
}

func notFound(kind, id string) error {
	return fmt.Errorf("%w: %s %s", domain.ErrNotFound, kind, id)
}

func requireName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", invalid("el nombre es obligatorio")
	}
	if len([]rune(name)) > 200 {
		return "", invalid("el nombre supera 200 caracteres")
	}
	return name, nil
}

func requireNonNegative(field string, v decimal.Decimal) error {
	if v.IsNegative() {
		return invalid("%s no puede ser negativo", field)
	}
	return nil
}

func requirePositive(field string, v decimal.Decimal) error {
	if !v.IsPositive() {
		return invalid("%s debe ser mayor que cero", field)
	}
	return nil
}

func parseDate(field, s string, loc *time.Location) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation("2006-01-02", s, loc)
	if err != nil {
		return nil, invalid("%s inválido (YYYY-MM-DD): %q", field, s)
	}
	return &t, nil
}
