package daterange

import (
	"errors"
	"strings"
	"time"
)

type Filter string

const (
	Today     Filter = "today"
	Last7     Filter = "7days"
	Last30    Filter = "30days"
	Last90    Filter = "90days"
	ThisMonth Filter = "thisMonth"
	Custom    Filter = "custom"
)

const layout = "2006-01-02"

var ErrBadRange = errors.New("bad date range")

type Range struct {
	Filter Filter    `json:"filter"`
	From   time.Time `json:"from"`
	To     time.Time `json:"to"`
}

// Resolve convierte un filtro (y from/to si es custom) en días completos
// relativos a now. Filtro vacío = Default.
func Resolve(filter, from, to string, now time.Time) (Range, error) {
	today := day(now)
	switch Filter(strings.TrimSpace(filter)) {
	case "", Last30:
		return Range{Filter: Last30, From: today.AddDate(0, 0, -30), To: today}, nil
	case Today:
		return Range{Filter: Today, From: today, To: today}, nil
	case Last7:
		return Range{Filter: Last7, From: today.AddDate(0, 0, -7), To: today}, nil
	case Last90:
		return Range{Filter: Last90, From: today.AddDate(0, 0, -90), To: today}, nil
	case ThisMonth:
		return Range{Filter: ThisMonth, From: today.AddDate(0, 0, 1-today.Day()), To: today}, nil
	case Custom:
		f, err := time.ParseInLocation(layout, from, now.Location())
		if err != nil {
			return Range{}, ErrBadRange
		}
		t, err := time.ParseInLocation(layout, to, now.Location())
		if err != nil || t.Before(f) {
			return Range{}, ErrBadRange
		}
		return Range{Filter: Custom, From: f, To: t}, nil
	default:
		return Range{}, ErrBadRange
	}
}

// Days cuenta días incluyendo ambos extremos.
func (r Range) Days() int {
	return int(r.To.Sub(r.From).Hours()/24+0.5) + 1
}

// Label: "dd/mm/aaaa - dd/mm/aaaa".
func (r Range) Label() string {
	return r.From.Format("02/01/2006") + " - " + r.To.Format("02/01/2006")
}

func day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
