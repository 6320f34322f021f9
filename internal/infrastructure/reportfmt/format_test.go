package reportfmt_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Almacen-api/internal/infrastructure/reportfmt"
)

func TestFormatter_Ingles(t *testing.T) {
	f := reportfmt.New("en")

	assert.Equal(t, "1,234.50", f.Money(decimal.RequireFromString("1234.5")))
	assert.Equal(t, "37.25 %", f.Percent(decimal.RequireFromString("37.2519")))
	assert.Equal(t, "45", f.Quantity(decimal.NewFromInt(45)))
	assert.Equal(t, "1.500", f.Quantity(decimal.RequireFromString("1.5")))
}

func TestFormatter_EspanolUsaComaDecimal(t *testing.T) {
	f := reportfmt.New("es")

	assert.Equal(t, "12.345,50", f.Money(decimal.RequireFromString("12345.5")))
}

func TestFormatter_LocaleInvalidoCaeAEspanol(t *testing.T) {
	assert.Equal(t, "es", reportfmt.New("??").Locale())
	assert.Equal(t, "es", reportfmt.New("").Locale())
}
