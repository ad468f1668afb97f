// Package format convierte números y cocientes en el texto que ve el usuario.
// Un cociente no definido siempre se muestra como NA.
package format

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/AngelCh415/admira-dashboard/internal/metrics"
)

const NA = "N/A"

var printer = message.NewPrinter(language.English)

// Fixed redondea a n decimales (mitad hacia arriba), como toFixed.
// Inf y NaN salen como NA: decimal no los representa.
func Fixed(f float64, n int32) string {
	if !finite(f) {
		return NA
	}
	return decimal.NewFromFloat(f).StringFixed(n)
}

// Plain imprime la representación más corta: 2.0 -> "2", 13.3 -> "13.3".
func Plain(f float64) string {
	if !finite(f) {
		return NA
	}
	return decimal.NewFromFloat(f).String()
}

func finite(f float64) bool { return !math.IsInf(f, 0) && !math.IsNaN(f) }

// Int agrupa miles: 45000 -> "45,000".
func Int(n int64) string { return printer.Sprintf("%d", n) }

// Money0 redondea al entero y agrupa miles: 89100 -> "$89,100".
func Money0(f float64) string {
	if !finite(f) {
		return NA
	}
	return "$" + Int(int64(math.Round(f)))
}

// Money muestra enteros sin decimales y el resto con dos: "$20,000", "$162.50".
func Money(f float64) string {
	if !finite(f) {
		return NA
	}
	if f == math.Trunc(f) {
		return Money0(f)
	}
	return "$" + printer.Sprintf("%.2f", f)
}

// Money2 siempre con dos decimales; NA si no está definido.
func Money2(r metrics.Ratio) string {
	if !r.OK {
		return NA
	}
	return "$" + printer.Sprintf("%.2f", r.Value)
}

// Pct: "33.3%" o NA.
func Pct(r metrics.Ratio) string {
	if !r.OK {
		return NA
	}
	return Fixed(r.Value, 1) + "%"
}

// Times: "18.6x" o NA.
func Times(r metrics.Ratio) string {
	if !r.OK {
		return NA
	}
	return Fixed(r.Value, 1) + "x"
}

// Clock formatea la hora de un mensaje (HH:MM) en loc.
func Clock(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format("15:04")
}

// Stamp es el "Última actualización" del dashboard: dd/mm/aaaa, hh:mm.
func Stamp(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format("02/01/2006, 15:04")
}
