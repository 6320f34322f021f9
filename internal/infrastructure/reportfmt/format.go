// Package reportfmt formatea cantidades de los reportes exportados según el locale configurado.
package reportfmt

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Formatter formatea dinero, porcentajes y cantidades con separadores del locale.
type Formatter struct {
	tag     language.Tag
	printer *message.Printer
}

// New crea el formatter; un locale inválido o vacío cae a español.
func New(locale string) *Formatter {
	tag, err := language.Parse(locale)
	if err != nil || locale == "" {
		tag = language.Spanish
	}
	return &Formatter{tag: tag, printer: message.NewPrinter(tag)}
}

// Locale etiqueta BCP 47 en uso.
func (f *Formatter) Locale() string { return f.tag.String() }

// Money dos decimales con separador de miles, ej. "12.345,50" en es.
func (f *Formatter) Money(d decimal.Decimal) string {
	return f.printer.Sprintf("%.2f", d.Round(2).InexactFloat64())
}

// Percent dos decimales con signo %, ej. "37,25 %".
func (f *Formatter) Percent(d decimal.Decimal) string {
	return f.printer.Sprintf("%.2f %%", d.Round(2).InexactFloat64())
}

// Quantity sin decimales si la cantidad es entera; si no, hasta tres (productos a granel).
func (f *Formatter) Quantity(d decimal.Decimal) string {
	if d.Equal(d.Truncate(0)) {
		return f.printer.Sprintf("%d", d.IntPart())
	}
	return f.printer.Sprintf("%.3f", d.Round(3).InexactFloat64())
}
